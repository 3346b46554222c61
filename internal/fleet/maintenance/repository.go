package maintenance

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fmc-saas/fleet/internal/accounting/journals"
	"github.com/fmc-saas/fleet/internal/platform/db"
)

var ErrNotFound = errors.New("maintenance: record not found")

// Repository encapsulates DB operations for maintenance logs.
type Repository interface {
	Get(ctx context.Context, id int64) (*MaintenanceLog, error)
	ListByVehicle(ctx context.Context, req ListMaintenanceRequest) ([]MaintenanceLog, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the operations a maintenance posting performs inside
// one transaction. The mileage ratchet lives here rather than in the
// vehicles repository because it must share the posting's unit of work.
type TxRepository interface {
	InsertLog(ctx context.Context, log MaintenanceLog) (int64, error)
	SetJournal(ctx context.Context, logID, journalEntryID int64) error
	AdvanceVehicleMileage(ctx context.Context, vehicleID, reading int64) (bool, error)
	Journals() journals.TxRepository
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const logColumns = `id, source_id, vehicle_id, date, description, cost, odometer_reading, payment_account_id, COALESCE(journal_entry_id, 0), created_by, created_at, updated_at`

func scanLog(row pgx.Row) (*MaintenanceLog, error) {
	var m MaintenanceLog
	err := row.Scan(&m.ID, &m.SourceID, &m.VehicleID, &m.Date, &m.Description, &m.Cost, &m.OdometerReading, &m.PaymentAccountID, &m.JournalEntryID, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*MaintenanceLog, error) {
	return scanLog(r.db.QueryRow(ctx, `SELECT `+logColumns+` FROM maintenance_logs WHERE id=$1`, id))
}

func (r *repository) ListByVehicle(ctx context.Context, req ListMaintenanceRequest) ([]MaintenanceLog, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `SELECT `+logColumns+` FROM maintenance_logs WHERE vehicle_id=$1 ORDER BY date DESC, id DESC LIMIT $2 OFFSET $3`,
		req.VehicleID, limit, req.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MaintenanceLog
	for rows.Next() {
		m, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) InsertLog(ctx context.Context, log MaintenanceLog) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO maintenance_logs (source_id, vehicle_id, date, description, cost, odometer_reading, payment_account_id, created_by)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id`,
		log.SourceID, log.VehicleID, log.Date, log.Description, log.Cost.StringFixed(2), log.OdometerReading, log.PaymentAccountID, log.CreatedBy).Scan(&id)
	return id, err
}

func (r *txRepository) SetJournal(ctx context.Context, logID, journalEntryID int64) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE maintenance_logs SET journal_entry_id=$2, updated_at=NOW() WHERE id=$1`, logID, journalEntryID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AdvanceVehicleMileage moves the odometer forward, never back. The guard
// sits in the statement itself so concurrent postings cannot interleave a
// decrease.
func (r *txRepository) AdvanceVehicleMileage(ctx context.Context, vehicleID, reading int64) (bool, error) {
	cmd, err := r.tx.Exec(ctx, `UPDATE vehicles SET mileage=$2, updated_at=NOW() WHERE id=$1 AND mileage < $2`, vehicleID, reading)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *txRepository) Journals() journals.TxRepository {
	return journals.NewTxRepository(r.tx)
}
