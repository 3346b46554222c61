package shared

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Audit actions recorded by the fleet posting flows. Every ledger-affecting
// event writes one trail row so an operator can reconstruct who posted or
// voided which entry.
const (
	ActionJournalPost = "journal.post"
	ActionJournalVoid = "journal.void"

	EntityJournalEntry = "journal_entry"
)

// AuditLog is one row of the audit trail. EntityID is a string so the same
// table can reference journal entries, rentals and maintenance logs alike.
type AuditLog struct {
	ActorID  int64
	Action   string
	Entity   string
	EntityID string
	Meta     map[string]any
	At       time.Time
}

// AuditLogger appends to audit_logs. Callers invoke it after their
// transaction commits; a failed trail write never rolls back the business
// event, the caller logs and moves on.
type AuditLogger struct {
	pool *pgxpool.Pool
}

func NewAuditLogger(pool *pgxpool.Pool) *AuditLogger {
	return &AuditLogger{pool: pool}
}

// Record persists one trail row. A zero At lets the database stamp the time.
func (l *AuditLogger) Record(ctx context.Context, log AuditLog) error {
	if l == nil || l.pool == nil {
		return errors.New("shared: audit logger missing pool")
	}
	if log.Action == "" || log.Entity == "" || log.EntityID == "" {
		return errors.New("shared: audit log needs action, entity and entity_id")
	}
	var metaJSON []byte
	if len(log.Meta) > 0 {
		encoded, err := json.Marshal(log.Meta)
		if err != nil {
			return err
		}
		metaJSON = encoded
	}
	_, err := l.pool.Exec(ctx,
		`INSERT INTO audit_logs (actor_id, action, entity, entity_id, meta, occurred_at) VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))`,
		log.ActorID, log.Action, log.Entity, log.EntityID, metaJSON, nullTime(log.At))
	return err
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
