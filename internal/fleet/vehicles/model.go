package vehicles

import "time"

// Vehicle is a fleet unit. Mileage only ever moves forward: writers go
// through the odometer ratchet, so a stale or mistyped reading can never
// wind the stored value back.
type Vehicle struct {
	ID        int64     `json:"id"`
	PlateNo   string    `json:"plate_no"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	Mileage   int64     `json:"mileage"`
	IsActive  bool      `json:"is_active"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
