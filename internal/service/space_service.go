package service

import (
	"context"
	"errors"

	"espacios-api/internal/dto"
	"espacios-api/internal/models"
	"espacios-api/internal/repository"

	"gorm.io/gorm"
)

type SpaceService interface {
	Create(ctx context.Context, req *dto.CreateSpaceRequest) (*models.Space, error)
	Get(ctx context.Context, id uint) (*models.Space, error)
	List(ctx context.Context, filter repository.SpaceFilter) ([]models.Space, error)
	Update(ctx context.Context, id uint, req *dto.UpdateSpaceRequest) (*models.Space, error)
	Delete(ctx context.Context, id uint) error
}

type spaceService struct {
	repo repository.SpaceRepository
}

func NewSpaceService(repo repository.SpaceRepository) SpaceService {
	return &spaceService{repo: repo}
}

func (s *spaceService) Create(ctx context.Context, req *dto.CreateSpaceRequest) (*models.Space, error) {
	available := true
	if req.Available != nil {
		available = *req.Available
	}

	space := &models.Space{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Available:   available,
	}
	if err := s.repo.Create(ctx, space); err != nil {
		return nil, err
	}
	return space, nil
}

func (s *spaceService) Get(ctx context.Context, id uint) (*models.Space, error) {
	space, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpaceNotFound
		}
		return nil, err
	}
	return space, nil
}

func (s *spaceService) List(ctx context.Context, filter repository.SpaceFilter) ([]models.Space, error) {
	return s.repo.FindAll(ctx, filter)
}

// Update applies only the fields present in the request. Toggling
// disponible off does not touch existing reservations; it only gates new
// bookings.
func (s *spaceService) Update(ctx context.Context, id uint, req *dto.UpdateSpaceRequest) (*models.Space, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Capacity != nil {
		fields["capacity"] = *req.Capacity
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if req.Available != nil {
		fields["available"] = *req.Available
	}

	if len(fields) > 0 {
		if err := s.repo.Update(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

// Delete removes the space. Reservations are intentionally left alone: the
// store keeps them as historical rows.
func (s *spaceService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
