package vehicles

type CreateVehicleRequest struct {
	PlateNo string `json:"plate_no" validate:"required,max=20"`
	Make    string `json:"make" validate:"required,max=100"`
	Model   string `json:"model" validate:"required,max=100"`
	Year    int    `json:"year" validate:"gte=1950,lte=2100"`
	Mileage int64  `json:"mileage" validate:"gte=0"`
}

type UpdateVehicleRequest struct {
	Make     *string `json:"make,omitempty" validate:"omitempty,max=100"`
	Model    *string `json:"model,omitempty" validate:"omitempty,max=100"`
	Year     *int    `json:"year,omitempty" validate:"omitempty,gte=1950,lte=2100"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type ListVehiclesRequest struct {
	IsActive *bool
	Search   *string
	Limit    int
	Offset   int
}
