package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("customers: record not found")
	ErrAlreadyExists = errors.New("customers: record already exists")
)

type Repository interface {
	Get(ctx context.Context, id int64) (*Customer, error)
	GetByCode(ctx context.Context, code string) (*Customer, error)
	List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error)
	Create(ctx context.Context, customer Customer) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	AddPhoto(ctx context.Context, photo CustomerPhoto) (int64, error)
	ListPhotos(ctx context.Context, customerID int64) ([]CustomerPhoto, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const customerColumns = `id, code, name, email, phone, balance, is_active, notes, created_by, created_at, updated_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Email, &c.Phone, &c.Balance, &c.IsActive, &c.Notes, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Customer, error) {
	return scanCustomer(r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id=$1`, id))
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Customer, error) {
	return scanCustomer(r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE code=$1`, code))
}

func (r *repository) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	arg := 1
	if req.IsActive != nil {
		where += fmt.Sprintf(` AND is_active=$%d`, arg)
		args = append(args, *req.IsActive)
		arg++
	}
	if req.Search != nil && *req.Search != "" {
		where += fmt.Sprintf(` AND (name ILIKE $%d OR code ILIKE $%d)`, arg, arg)
		args = append(args, "%"+*req.Search+"%")
		arg++
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, req.Offset)
	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT %s FROM customers %s ORDER BY name LIMIT $%d OFFSET $%d`, customerColumns, where, arg, arg+1), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, customer Customer) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO customers (code, name, email, phone, balance, is_active, notes, created_by)
VALUES ($1,$2,$3,$4,0,TRUE,$5,$6) RETURNING id`,
		customer.Code, customer.Name, customer.Email, customer.Phone, customer.Notes, customer.CreatedBy).Scan(&id)
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
	cmd, err := r.db.Exec(ctx, fmt.Sprintf(`UPDATE customers SET %s, updated_at=NOW() WHERE id=$1`, set), args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) AddPhoto(ctx context.Context, photo CustomerPhoto) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO customer_photos (customer_id, caption, storage_path, uploaded_by)
VALUES ($1,$2,$3,$4) RETURNING id`, photo.CustomerID, photo.Caption, photo.StoragePath, photo.UploadedBy).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) ListPhotos(ctx context.Context, customerID int64) ([]CustomerPhoto, error) {
	rows, err := r.db.Query(ctx, `SELECT id, customer_id, caption, storage_path, uploaded_by, created_at
FROM customer_photos WHERE customer_id=$1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var photos []CustomerPhoto
	for rows.Next() {
		var p CustomerPhoto
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.Caption, &p.StoragePath, &p.UploadedBy, &p.CreatedAt); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}
