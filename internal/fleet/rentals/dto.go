package rentals

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateRentalRequest struct {
	VehicleID   int64           `json:"vehicle_id" validate:"required,gt=0"`
	CustomerID  int64           `json:"customer_id" validate:"required,gt=0"`
	StartAt     time.Time       `json:"start_at" validate:"required"`
	EndAt       time.Time       `json:"end_at" validate:"required"`
	Rate        decimal.Decimal `json:"rate"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Notes       *string         `json:"notes,omitempty"`
}

type UpdateRentalRequest struct {
	StartAt     *time.Time       `json:"start_at,omitempty"`
	EndAt       *time.Time       `json:"end_at,omitempty"`
	Rate        *decimal.Decimal `json:"rate,omitempty"`
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
}

// UpdateResult pairs the saved rental with the re-posting flag the UI
// surfaces: edits never adjust the journal entry or the customer balance.
type UpdateResult struct {
	Rental          Rental `json:"rental"`
	JournalAdjusted bool   `json:"journal_adjusted"`
	Note            string `json:"note"`
}

type ListRentalsRequest struct {
	VehicleID  int64
	CustomerID int64
	Limit      int
	Offset     int
}
