package customers

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a rental customer. Balance is a denormalized running total of
// invoiced rentals; the rental posting flow is its only writer.
type Customer struct {
	ID        int64           `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Email     *string         `json:"email,omitempty"`
	Phone     *string         `json:"phone,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	IsActive  bool            `json:"is_active"`
	Notes     *string         `json:"notes,omitempty"`
	CreatedBy int64           `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CustomerPhoto records the metadata of an uploaded customer photo. The
// binary itself lives in object storage managed by the platform; this
// module stores only the pointer.
type CustomerPhoto struct {
	ID          int64     `json:"id"`
	CustomerID  int64     `json:"customer_id"`
	Caption     string    `json:"caption,omitempty"`
	StoragePath string    `json:"storage_path"`
	UploadedBy  int64     `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}
