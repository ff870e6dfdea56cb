package repository

import (
	"context"

	"espacios-api/internal/models"
	"gorm.io/gorm"
)

// SpaceFilter holds the optional query filters of the public listing.
type SpaceFilter struct {
	Category    *string
	Available   *bool
	MinCapacity *int
}

type SpaceRepository interface {
	Create(ctx context.Context, space *models.Space) error
	FindByID(ctx context.Context, id uint) (*models.Space, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Space, error)
	FindAll(ctx context.Context, filter SpaceFilter) ([]models.Space, error)
	Update(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
}

type spaceRepository struct {
	db *gorm.DB
}

func NewSpaceRepository(db *gorm.DB) SpaceRepository {
	return &spaceRepository{db: db}
}

func (r *spaceRepository) Create(ctx context.Context, space *models.Space) error {
	return r.db.WithContext(ctx).Create(space).Error
}

func (r *spaceRepository) FindByID(ctx context.Context, id uint) (*models.Space, error) {
	var space models.Space
	if err := r.db.WithContext(ctx).First(&space, id).Error; err != nil {
		return nil, err
	}
	return &space, nil
}

// FindByIDForUpdate acquires a row-level lock on the space within the given
// transaction. Booking serializes on this lock, so the overlap check and the
// insert behave as one atomic step per space.
func (r *spaceRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Space, error) {
	var space models.Space
	if err := tx.WithContext(ctx).
		Set("gorm:query_option", "FOR UPDATE").
		First(&space, id).Error; err != nil {
		return nil, err
	}
	return &space, nil
}

func (r *spaceRepository) FindAll(ctx context.Context, filter SpaceFilter) ([]models.Space, error) {
	q := r.db.WithContext(ctx).Model(&models.Space{})
	if filter.Category != nil {
		q = q.Where("category = ?", *filter.Category)
	}
	if filter.Available != nil {
		q = q.Where("available = ?", *filter.Available)
	}
	if filter.MinCapacity != nil {
		q = q.Where("capacity >= ?", *filter.MinCapacity)
	}

	var spaces []models.Space
	if err := q.Order("id ASC").Find(&spaces).Error; err != nil {
		return nil, err
	}
	return spaces, nil
}

func (r *spaceRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Space{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *spaceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Space{}, id).Error
}
