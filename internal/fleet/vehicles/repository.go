package vehicles

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("vehicles: record not found")
	ErrAlreadyExists = errors.New("vehicles: plate already registered")
)

type Repository interface {
	Get(ctx context.Context, id int64) (*Vehicle, error)
	List(ctx context.Context, req ListVehiclesRequest) ([]Vehicle, int, error)
	Create(ctx context.Context, vehicle Vehicle) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const vehicleColumns = `id, plate_no, make, model, year, mileage, is_active, created_by, created_at, updated_at`

func scanVehicle(row pgx.Row) (*Vehicle, error) {
	var v Vehicle
	err := row.Scan(&v.ID, &v.PlateNo, &v.Make, &v.Model, &v.Year, &v.Mileage, &v.IsActive, &v.CreatedBy, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Vehicle, error) {
	return scanVehicle(r.db.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id=$1`, id))
}

func (r *repository) List(ctx context.Context, req ListVehiclesRequest) ([]Vehicle, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	arg := 1
	if req.IsActive != nil {
		where += fmt.Sprintf(` AND is_active=$%d`, arg)
		args = append(args, *req.IsActive)
		arg++
	}
	if req.Search != nil && *req.Search != "" {
		where += fmt.Sprintf(` AND (plate_no ILIKE $%d OR make ILIKE $%d OR model ILIKE $%d)`, arg, arg, arg)
		args = append(args, "%"+*req.Search+"%")
		arg++
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vehicles `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, req.Offset)
	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT %s FROM vehicles %s ORDER BY plate_no LIMIT $%d OFFSET $%d`, vehicleColumns, where, arg, arg+1), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *v)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, vehicle Vehicle) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO vehicles (plate_no, make, model, year, mileage, is_active, created_by)
VALUES ($1,$2,$3,$4,$5,TRUE,$6) RETURNING id`,
		vehicle.PlateNo, vehicle.Make, vehicle.Model, vehicle.Year, vehicle.Mileage, vehicle.CreatedBy).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
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
	cmd, err := r.db.Exec(ctx, fmt.Sprintf(`UPDATE vehicles SET %s, updated_at=NOW() WHERE id=$1`, set), args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
