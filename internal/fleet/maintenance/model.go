package maintenance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SourceModule tags journal entries posted from maintenance logs.
const SourceModule = "FLEET_MAINTENANCE"

// MaintenanceLog records one maintenance expense payment for a vehicle.
// Saving a log posts it to the ledger; the journal entry belongs to the
// posting, and the log keeps only a back-reference.
type MaintenanceLog struct {
	ID               int64           `json:"id"`
	SourceID         uuid.UUID       `json:"source_id"`
	VehicleID        int64           `json:"vehicle_id"`
	Date             time.Time       `json:"date"`
	Description      string          `json:"description"`
	Cost             decimal.Decimal `json:"cost"`
	OdometerReading  *int64          `json:"odometer_reading,omitempty"`
	PaymentAccountID int64           `json:"payment_account_id"`
	JournalEntryID   int64           `json:"journal_entry_id"`
	CreatedBy        int64           `json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
