package rentals

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fmc-saas/fleet/internal/accounting/journals"
	"github.com/fmc-saas/fleet/internal/platform/db"
)

var ErrNotFound = errors.New("rentals: record not found")

// Repository encapsulates DB operations for rental contracts.
type Repository interface {
	Get(ctx context.Context, id int64) (*Rental, error)
	List(ctx context.Context, req ListRentalsRequest) ([]Rental, int, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the operations a rental invoice posting performs
// inside one transaction. The customer balance increment lives here so it
// shares the posting's unit of work.
type TxRepository interface {
	InsertRental(ctx context.Context, rental Rental) (int64, error)
	SetJournal(ctx context.Context, rentalID, journalEntryID int64) error
	IncrementCustomerBalance(ctx context.Context, customerID int64, amount decimal.Decimal) error
	Journals() journals.TxRepository
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const rentalColumns = `id, source_id, vehicle_id, customer_id, start_at, end_at, rate, total_amount, notes, COALESCE(journal_entry_id, 0), created_by, created_at, updated_at`

func scanRental(row pgx.Row) (*Rental, error) {
	var r Rental
	err := row.Scan(&r.ID, &r.SourceID, &r.VehicleID, &r.CustomerID, &r.StartAt, &r.EndAt, &r.Rate, &r.TotalAmount, &r.Notes, &r.JournalEntryID, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Rental, error) {
	return scanRental(r.db.QueryRow(ctx, `SELECT `+rentalColumns+` FROM vehicle_rentals WHERE id=$1`, id))
}

func (r *repository) List(ctx context.Context, req ListRentalsRequest) ([]Rental, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	arg := 1
	if req.VehicleID != 0 {
		where += fmt.Sprintf(` AND vehicle_id=$%d`, arg)
		args = append(args, req.VehicleID)
		arg++
	}
	if req.CustomerID != 0 {
		where += fmt.Sprintf(` AND customer_id=$%d`, arg)
		args = append(args, req.CustomerID)
		arg++
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vehicle_rentals `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, req.Offset)
	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT %s FROM vehicle_rentals %s ORDER BY start_at DESC, id DESC LIMIT $%d OFFSET $%d`, rentalColumns, where, arg, arg+1), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Rental
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *rental)
	}
	return out, total, rows.Err()
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	set := ``
	args := []any{id}
	arg := 2
	for col, val := range updates {
		if set != "" {
			set += ", "
		}
		set += fmt.Sprintf("%s=$%d", col, arg)
		args = append(args, val)
		arg++
	}
	cmd, err := r.db.Exec(ctx, fmt.Sprintf(`UPDATE vehicle_rentals SET %s, updated_at=NOW() WHERE id=$1`, set), args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) InsertRental(ctx context.Context, rental Rental) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO vehicle_rentals (source_id, vehicle_id, customer_id, start_at, end_at, rate, total_amount, notes, created_by)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id`,
		rental.SourceID, rental.VehicleID, rental.CustomerID, rental.StartAt, rental.EndAt,
		rental.Rate.StringFixed(2), rental.TotalAmount.StringFixed(2), rental.Notes, rental.CreatedBy).Scan(&id)
	return id, err
}

func (r *txRepository) SetJournal(ctx context.Context, rentalID, journalEntryID int64) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE vehicle_rentals SET journal_entry_id=$2, updated_at=NOW() WHERE id=$1`, rentalID, journalEntryID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *txRepository) IncrementCustomerBalance(ctx context.Context, customerID int64, amount decimal.Decimal) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE customers SET balance = balance + $2, updated_at=NOW() WHERE id=$1`, customerID, amount.StringFixed(2))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *txRepository) Journals() journals.TxRepository {
	return journals.NewTxRepository(r.tx)
}
