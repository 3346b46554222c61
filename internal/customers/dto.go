package customers

type CreateCustomerRequest struct {
	Code  string  `json:"code" validate:"required,max=50"`
	Name  string  `json:"name" validate:"required,max=200"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Notes *string `json:"notes,omitempty"`
}

type UpdateCustomerRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	IsActive *bool   `json:"is_active,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

type AddPhotoRequest struct {
	Caption     string `json:"caption,omitempty" validate:"omitempty,max=200"`
	StoragePath string `json:"storage_path" validate:"required,max=500"`
}

type ListCustomersRequest struct {
	IsActive *bool   `json:"is_active,omitempty"`
	Search   *string `json:"search,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
