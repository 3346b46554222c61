package customers

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fmc-saas/fleet/internal/platform/httpx"
)

type memoryCustomerRepo struct {
	customers   map[int64]Customer
	photos      map[int64][]CustomerPhoto
	nextID      int64
	nextPhotoID int64
}

func newMemoryCustomerRepo() *memoryCustomerRepo {
	return &memoryCustomerRepo{
		customers: make(map[int64]Customer),
		photos:    make(map[int64][]CustomerPhoto),
	}
}

func (r *memoryCustomerRepo) Get(ctx context.Context, id int64) (*Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *memoryCustomerRepo) GetByCode(ctx context.Context, code string) (*Customer, error) {
	for _, c := range r.customers {
		if c.Code == code {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryCustomerRepo) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	var out []Customer
	for _, c := range r.customers {
		if req.IsActive != nil && c.IsActive != *req.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, len(out), nil
}

func (r *memoryCustomerRepo) Create(ctx context.Context, customer Customer) (int64, error) {
	r.nextID++
	customer.ID = r.nextID
	customer.Balance = decimal.Zero
	r.customers[customer.ID] = customer
	return customer.ID, nil
}

func (r *memoryCustomerRepo) Update(ctx context.Context, id int64, updates map[string]any) error {
	c, ok := r.customers[id]
	if !ok {
		return ErrNotFound
	}
	for column, value := range updates {
		switch column {
		case "name":
			c.Name = value.(string)
		case "email":
			email := value.(string)
			c.Email = &email
		case "phone":
			phone := value.(string)
			c.Phone = &phone
		case "is_active":
			c.IsActive = value.(bool)
		case "notes":
			notes := value.(string)
			c.Notes = &notes
		}
	}
	r.customers[id] = c
	return nil
}

func (r *memoryCustomerRepo) AddPhoto(ctx context.Context, photo CustomerPhoto) (int64, error) {
	r.nextPhotoID++
	photo.ID = r.nextPhotoID
	r.photos[photo.CustomerID] = append(r.photos[photo.CustomerID], photo)
	return photo.ID, nil
}

func (r *memoryCustomerRepo) ListPhotos(ctx context.Context, customerID int64) ([]CustomerPhoto, error) {
	return r.photos[customerID], nil
}

func customerRequest() CreateCustomerRequest {
	return CreateCustomerRequest{Code: "CUST-0001", Name: "PT Andalan Niaga"}
}

func TestCreateCustomer(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())

	created, err := svc.Create(context.Background(), customerRequest(), 7)
	require.NoError(t, err)
	require.Equal(t, "CUST-0001", created.Code)
	require.True(t, created.IsActive)
	require.True(t, created.Balance.IsZero())
}

func TestCreateCustomerDuplicateCode(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, customerRequest(), 7)
	require.NoError(t, err)

	_, err = svc.Create(ctx, customerRequest(), 7)
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestGetCustomerNotFound(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())

	_, err := svc.Get(context.Background(), 42)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestUpdateCustomer(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, customerRequest(), 7)
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(ctx, created.ID, UpdateCustomerRequest{IsActive: &inactive})
	require.NoError(t, err)
	require.False(t, updated.IsActive)
}

func TestCustomerPhotos(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, customerRequest(), 7)
	require.NoError(t, err)

	photo, err := svc.AddPhoto(ctx, created.ID, AddPhotoRequest{Caption: "storefront", StoragePath: "customers/1/storefront.jpg"}, 7)
	require.NoError(t, err)
	require.NotZero(t, photo.ID)

	photos, err := svc.ListPhotos(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, photos, 1)

	_, err = svc.AddPhoto(ctx, 99, AddPhotoRequest{StoragePath: "x"}, 7)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
