package journals

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fmc-saas/fleet/internal/accounting/shared"
)

func validPostingInput() PostingInput {
	return PostingInput{
		Date:         time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		SourceModule: "FLEET_MAINTENANCE",
		SourceID:     uuid.New(),
		Memo:         "oil change",
		PostedBy:     7,
		Lines: []PostingLineInput{
			{AccountID: 1, Side: SideDebit, Amount: decimal.RequireFromString("5000.00")},
			{AccountID: 2, Side: SideCredit, Amount: decimal.RequireFromString("5000.00")},
		},
	}
}

func TestPostingInputValidate(t *testing.T) {
	require.NoError(t, validPostingInput().Validate())
}

func TestPostingInputValidateRejectsUnbalanced(t *testing.T) {
	in := validPostingInput()
	in.Lines[1].Amount = decimal.RequireFromString("4999.99")
	require.ErrorIs(t, in.Validate(), shared.ErrUnbalanced)
}

func TestPostingInputValidateRejectsSingleLine(t *testing.T) {
	in := validPostingInput()
	in.Lines = in.Lines[:1]
	require.ErrorIs(t, in.Validate(), shared.ErrTooFewLines)
}

func TestPostingInputValidateRejectsNonPositiveAmount(t *testing.T) {
	in := validPostingInput()
	in.Lines[0].Amount = decimal.Zero
	require.Error(t, in.Validate())

	in = validPostingInput()
	in.Lines[0].Amount = decimal.RequireFromString("-5000.00")
	require.Error(t, in.Validate())
}

func TestPostingInputValidateRejectsUnknownSide(t *testing.T) {
	in := validPostingInput()
	in.Lines[0].Side = Side("BOTH")
	require.Error(t, in.Validate())
}

func TestPostingInputValidateRejectsMissingSource(t *testing.T) {
	in := validPostingInput()
	in.SourceModule = ""
	require.Error(t, in.Validate())

	in = validPostingInput()
	in.SourceID = uuid.Nil
	require.Error(t, in.Validate())
}

func TestPostingInputValidateRejectsZeroDate(t *testing.T) {
	in := validPostingInput()
	in.Date = time.Time{}
	require.Error(t, in.Validate())
}

func TestPostingInputValidateBalancedAcrossManyLines(t *testing.T) {
	in := validPostingInput()
	in.Lines = []PostingLineInput{
		{AccountID: 1, Side: SideDebit, Amount: decimal.RequireFromString("3000.00")},
		{AccountID: 3, Side: SideDebit, Amount: decimal.RequireFromString("2000.00")},
		{AccountID: 2, Side: SideCredit, Amount: decimal.RequireFromString("5000.00")},
	}
	require.NoError(t, in.Validate())
}
