package vehicles

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

func (s *Service) Create(ctx context.Context, req CreateVehicleRequest, createdBy int64) (*Vehicle, error) {
	id, err := s.repo.Create(ctx, Vehicle{
		PlateNo:   req.PlateNo,
		Make:      req.Make,
		Model:     req.Model,
		Year:      req.Year,
		Mileage:   req.Mileage,
		CreatedBy: createdBy,
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: plate %s already registered", httpx.ErrDuplicate, req.PlateNo)
		}
		return nil, fmt.Errorf("create vehicle: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Vehicle, error) {
	vehicle, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: vehicle %d", httpx.ErrNotFound, id)
		}
		return nil, err
	}
	return vehicle, nil
}

// GetActive resolves a vehicle that can still take business events.
func (s *Service) GetActive(ctx context.Context, id int64) (*Vehicle, error) {
	vehicle, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !vehicle.IsActive {
		return nil, fmt.Errorf("%w: vehicle %s is retired", httpx.ErrValidation, vehicle.PlateNo)
	}
	return vehicle, nil
}

func (s *Service) List(ctx context.Context, req ListVehiclesRequest) ([]Vehicle, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateVehicleRequest) (*Vehicle, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	updates := make(map[string]any)
	if req.Make != nil {
		updates["make"] = *req.Make
	}
	if req.Model != nil {
		updates["model"] = *req.Model
	}
	if req.Year != nil {
		updates["year"] = *req.Year
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	return s.repo.Get(ctx, id)
}
