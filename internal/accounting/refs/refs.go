// Package refs holds the chart-of-accounts references the fleet posting
// flows depend on. The account names and numbers are configuration, not
// literals scattered through the posting code; a reference that fails to
// resolve is reported as a setup fault.
package refs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fmc-saas/fleet/internal/accounting/accounts"
	"github.com/fmc-saas/fleet/internal/accounting/shared"
	"github.com/fmc-saas/fleet/internal/platform/httpx"
	internalShared "github.com/fmc-saas/fleet/internal/shared"
)

// Refs names the accounts the fleet events post against.
type Refs struct {
	// MaintenanceExpenseAccount is the display name of the expense account
	// debited by maintenance payments.
	MaintenanceExpenseAccount string
	// ReceivableAccountCode is the account number of Accounts Receivable.
	ReceivableAccountCode string
	// RentalIncomeAccount is the display name of the rental income account.
	RentalIncomeAccount string
}

// Directory is the account lookup surface the resolver needs.
type Directory interface {
	ActiveByName(ctx context.Context, name string) (accounts.Account, error)
	ActiveByCode(ctx context.Context, code string) (accounts.Account, error)
}

// Resolver resolves configured references against the account directory at
// posting time. Accounts are immutable during a posting, so resolution
// before the transaction opens is sound.
type Resolver struct {
	refs   Refs
	dir    Directory
	logger *slog.Logger
}

func NewResolver(refs Refs, dir Directory, logger *slog.Logger) *Resolver {
	return &Resolver{refs: refs, dir: dir, logger: logger}
}

// MaintenanceExpense resolves the maintenance expense account.
func (r *Resolver) MaintenanceExpense(ctx context.Context) (accounts.Account, error) {
	return r.byName(ctx, r.refs.MaintenanceExpenseAccount)
}

// Receivable resolves the Accounts Receivable account by number.
func (r *Resolver) Receivable(ctx context.Context) (accounts.Account, error) {
	account, err := r.dir.ActiveByCode(ctx, r.refs.ReceivableAccountCode)
	if err != nil {
		return accounts.Account{}, r.configErr(ctx, "number", r.refs.ReceivableAccountCode, err)
	}
	return account, nil
}

// RentalIncome resolves the rental income account.
func (r *Resolver) RentalIncome(ctx context.Context) (accounts.Account, error) {
	return r.byName(ctx, r.refs.RentalIncomeAccount)
}

func (r *Resolver) byName(ctx context.Context, name string) (accounts.Account, error) {
	account, err := r.dir.ActiveByName(ctx, name)
	if err != nil {
		return accounts.Account{}, r.configErr(ctx, "name", name, err)
	}
	return account, nil
}

func (r *Resolver) configErr(ctx context.Context, by, ref string, err error) error {
	if errors.Is(err, shared.ErrAccountNotFound) || errors.Is(err, shared.ErrAccountInactive) {
		if r.logger != nil {
			r.logger.Error("chart of accounts reference unresolved",
				slog.String("by", by), slog.String("ref", ref),
				slog.Int64("actor", internalShared.ActorID(ctx)),
				slog.Any("error", err))
		}
		return fmt.Errorf("%w: account with %s %q is missing or inactive (%w)", httpx.ErrConfiguration, by, ref, shared.ErrRefNotConfigured)
	}
	return err
}
