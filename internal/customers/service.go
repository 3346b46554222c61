package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/fmc-saas/fleet/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateCustomerRequest, createdBy int64) (*Customer, error) {
	existing, err := s.repo.GetByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check existing customer: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: customer code %s already exists", httpx.ErrDuplicate, req.Code)
	}

	customer := Customer{
		Code:      req.Code,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		IsActive:  true,
		Notes:     req.Notes,
		CreatedBy: createdBy,
	}
	id, err := s.repo.Create(ctx, customer)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: customer code %s already exists", httpx.ErrDuplicate, req.Code)
		}
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	customer, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: customer %d", httpx.ErrNotFound, id)
		}
		return nil, err
	}
	return customer, nil
}

func (s *Service) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*Customer, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) AddPhoto(ctx context.Context, customerID int64, req AddPhotoRequest, uploadedBy int64) (*CustomerPhoto, error) {
	if _, err := s.Get(ctx, customerID); err != nil {
		return nil, err
	}
	photo := CustomerPhoto{
		CustomerID:  customerID,
		Caption:     req.Caption,
		StoragePath: req.StoragePath,
		UploadedBy:  uploadedBy,
	}
	id, err := s.repo.AddPhoto(ctx, photo)
	if err != nil {
		return nil, fmt.Errorf("add customer photo: %w", err)
	}
	photo.ID = id
	return &photo, nil
}

func (s *Service) ListPhotos(ctx context.Context, customerID int64) ([]CustomerPhoto, error) {
	if _, err := s.Get(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.ListPhotos(ctx, customerID)
}
