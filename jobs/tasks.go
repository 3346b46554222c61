package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerIntegrity is the task type for the journal balance scan.
	TaskLedgerIntegrity = "ledger:integrity"
	// TaskBalanceDrift is the task type for the customer balance drift scan.
	TaskBalanceDrift = "customers:balance_drift"
)

// LedgerIntegrityPayload scopes the integrity scan to postings on or after
// the given date. Zero means scan everything.
type LedgerIntegrityPayload struct {
	Since time.Time `json:"since,omitempty"`
}

// NewLedgerIntegrityTask constructs an Asynq task for the integrity scan.
func NewLedgerIntegrityTask(payload LedgerIntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerIntegrity, data), nil
}

// NewBalanceDriftTask constructs an Asynq task for the drift scan.
func NewBalanceDriftTask() (*asynq.Task, error) {
	return asynq.NewTask(TaskBalanceDrift, nil), nil
}
