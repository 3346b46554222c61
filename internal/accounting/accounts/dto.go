package accounts

type CreateAccountRequest struct {
	Code string `json:"code" validate:"required,max=20"`
	Name string `json:"name" validate:"required,max=200"`
	Type string `json:"type" validate:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Kind string `json:"kind,omitempty" validate:"omitempty,oneof=CASH PETTY_CASH BANK RECEIVABLE"`
}
