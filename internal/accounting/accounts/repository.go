package accounts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fmc-saas/fleet/internal/accounting/shared"
)

// ErrCodeExists signals a unique violation on the account code.
var ErrCodeExists = errors.New("accounts: code already exists")

type Repository interface {
	List(ctx context.Context) ([]Account, error)
	ListActive(ctx context.Context) ([]Account, error)
	Get(ctx context.Context, id int64) (Account, error)
	Create(ctx context.Context, account Account) (Account, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const accountColumns = `id, code, name, type, kind, is_active, created_at, updated_at`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	var kind *string
	err := row.Scan(&a.ID, &a.Code, &a.Name, &a.Type, &kind, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return Account{}, err
	}
	if kind != nil {
		a.Kind = AccountKind(*kind)
	}
	return a, nil
}

func (r *repository) List(ctx context.Context) ([]Account, error) {
	return r.query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY code`)
}

func (r *repository) ListActive(ctx context.Context) ([]Account, error) {
	return r.query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE is_active ORDER BY code`)
}

func (r *repository) query(ctx context.Context, sql string, args ...any) ([]Account, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Account, error) {
	a, err := scanAccount(r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, shared.ErrAccountNotFound
		}
		return Account{}, err
	}
	return a, nil
}

func (r *repository) Create(ctx context.Context, account Account) (Account, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO accounts (code, name, type, kind, is_active)
VALUES ($1,$2,$3,NULLIF($4,''),TRUE) RETURNING `+accountColumns, account.Code, account.Name, account.Type, string(account.Kind))
	created, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Account{}, ErrCodeExists
		}
		return Account{}, err
	}
	return created, nil
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) error {
	cmd, err := r.db.Exec(ctx, `UPDATE accounts SET is_active=$2, updated_at=NOW() WHERE id=$1`, id, active)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrAccountNotFound
	}
	return nil
}
