package rentals

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SourceModule tags journal entries posted from rental contracts.
const SourceModule = "FLEET_RENTAL"

// Rental is a vehicle rental contract. Creating one issues the invoice:
// the total is posted to the ledger and added to the customer's balance.
// Later edits change the contract record only; the posted figures stand.
type Rental struct {
	ID             int64           `json:"id"`
	SourceID       uuid.UUID       `json:"source_id"`
	VehicleID      int64           `json:"vehicle_id"`
	CustomerID     int64           `json:"customer_id"`
	StartAt        time.Time       `json:"start_at"`
	EndAt          time.Time       `json:"end_at"`
	Rate           decimal.Decimal `json:"rate"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Notes          *string         `json:"notes,omitempty"`
	JournalEntryID int64           `json:"journal_entry_id"`
	CreatedBy      int64           `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
