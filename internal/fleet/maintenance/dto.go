package maintenance

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateMaintenanceRequest struct {
	VehicleID        int64           `json:"vehicle_id" validate:"required,gt=0"`
	Date             time.Time       `json:"date" validate:"required"`
	Description      string          `json:"description" validate:"required,max=500"`
	Cost             decimal.Decimal `json:"cost"`
	OdometerReading  *int64          `json:"odometer_reading,omitempty" validate:"omitempty,gte=0"`
	PaymentAccountID int64           `json:"payment_account_id" validate:"required,gt=0"`
}

type ListMaintenanceRequest struct {
	VehicleID int64
	Limit     int
	Offset    int
}
