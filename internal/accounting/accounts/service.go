package accounts

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/fmc-saas/fleet/internal/accounting/shared"
	"github.com/fmc-saas/fleet/internal/platform/httpx"
)

// Service is the account directory: every posting flow resolves its
// accounts through it. Reads are served from the cached active set.
type Service struct {
	repo   Repository
	cache  *Cache
	logger *slog.Logger
	group  singleflight.Group
}

func NewService(repo Repository, cache *Cache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

// ListActive returns active accounts, filling the cache on miss. Concurrent
// misses share one database query.
func (s *Service) ListActive(ctx context.Context) ([]Account, error) {
	if cached, ok := s.cache.GetActive(ctx); ok {
		return cached, nil
	}
	result, err, _ := s.group.Do(activeSetKey, func() (any, error) {
		accounts, err := s.repo.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetActive(ctx, accounts); err != nil && s.logger != nil {
			s.logger.Warn("account cache fill", slog.Any("error", err))
		}
		return accounts, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]Account), nil
}

// ListActiveByTypes filters the active set to the given CoA types.
func (s *Service) ListActiveByTypes(ctx context.Context, types ...AccountType) ([]Account, error) {
	accounts, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	wanted := make(map[AccountType]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}
	var out []Account
	for _, a := range accounts {
		if wanted[a.Type] {
			out = append(out, a)
		}
	}
	return out, nil
}

// ActiveByID resolves an active account by id. Inactive accounts resolve to
// ErrAccountInactive so callers can tell a stale selection from a bad one.
func (s *Service) ActiveByID(ctx context.Context, id int64) (Account, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return Account{}, err
	}
	if !account.IsActive {
		return Account{}, shared.ErrAccountInactive
	}
	return account, nil
}

// ActiveByName resolves an active account by exact display name.
func (s *Service) ActiveByName(ctx context.Context, name string) (Account, error) {
	return s.findActive(ctx, func(a Account) bool { return a.Name == name })
}

// ActiveByCode resolves an active account by account number.
func (s *Service) ActiveByCode(ctx context.Context, code string) (Account, error) {
	return s.findActive(ctx, func(a Account) bool { return a.Code == code })
}

func (s *Service) findActive(ctx context.Context, match func(Account) bool) (Account, error) {
	accounts, err := s.ListActive(ctx)
	if err != nil {
		return Account{}, err
	}
	for _, a := range accounts {
		if match(a) {
			return a, nil
		}
	}
	return Account{}, shared.ErrAccountNotFound
}

func (s *Service) Create(ctx context.Context, req CreateAccountRequest) (Account, error) {
	created, err := s.repo.Create(ctx, Account{
		Code: req.Code,
		Name: req.Name,
		Type: AccountType(req.Type),
		Kind: AccountKind(req.Kind),
	})
	if err != nil {
		if err == ErrCodeExists {
			return Account{}, fmt.Errorf("%w: account code %s", httpx.ErrDuplicate, req.Code)
		}
		return Account{}, err
	}
	if err := s.cache.Invalidate(ctx); err != nil && s.logger != nil {
		s.logger.Warn("account cache invalidate", slog.Any("error", err))
	}
	return created, nil
}

func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx); err != nil && s.logger != nil {
		s.logger.Warn("account cache invalidate", slog.Any("error", err))
	}
	return nil
}
