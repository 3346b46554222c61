package journals

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fmc-saas/fleet/internal/accounting/shared"
)

// PostingLineInput describes a journal line for a posting request.
type PostingLineInput struct {
	AccountID int64
	Side      Side
	Amount    decimal.Decimal
	Memo      string
}

// PostingInput groups fields required to create a journal entry.
type PostingInput struct {
	Date         time.Time
	SourceModule string
	SourceID     uuid.UUID
	Memo         string
	PostedBy     int64
	Lines        []PostingLineInput
}

// Validate ensures posting input meets minimum criteria. The sum of debit
// amounts must equal the sum of credit amounts; entries that fail here
// never reach the database.
func (in PostingInput) Validate() error {
	if in.Date.IsZero() {
		return errors.New("accounting: posting date required")
	}
	if len(in.Lines) < 2 {
		return shared.ErrTooFewLines
	}
	debit, credit := decimal.Zero, decimal.Zero
	for idx, line := range in.Lines {
		if line.AccountID == 0 {
			return fmt.Errorf("accounting: line %d missing account", idx)
		}
		if !line.Amount.IsPositive() {
			return fmt.Errorf("accounting: line %d amount must be positive", idx)
		}
		switch line.Side {
		case SideDebit:
			debit = debit.Add(line.Amount)
		case SideCredit:
			credit = credit.Add(line.Amount)
		default:
			return fmt.Errorf("accounting: line %d has unknown side %q", idx, line.Side)
		}
	}
	if !debit.Equal(credit) {
		return shared.ErrUnbalanced
	}
	if in.SourceModule == "" {
		return errors.New("accounting: source module required")
	}
	if in.SourceID == uuid.Nil {
		return errors.New("accounting: source id required")
	}
	return nil
}

// VoidInput wraps parameters for voiding.
type VoidInput struct {
	EntryID int64
	ActorID int64
	Reason  string
}
