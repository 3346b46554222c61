package accounts

import "time"

// AccountType enumerates CoA categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// AccountKind refines asset accounts into the payment sources the fleet
// forms offer (cash drawer, petty cash box, bank accounts).
type AccountKind string

const (
	AccountKindCash       AccountKind = "CASH"
	AccountKindPettyCash  AccountKind = "PETTY_CASH"
	AccountKindBank       AccountKind = "BANK"
	AccountKindReceivable AccountKind = "RECEIVABLE"
)

// Account models a chart of accounts node.
type Account struct {
	ID        int64       `json:"id"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	Kind      AccountKind `json:"kind,omitempty"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
