package repository

import (
	"context"
	"time"

	"espacios-api/internal/models"
	"gorm.io/gorm"
)

type ReservationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error
	FindByID(ctx context.Context, id uint) (*models.Reservation, error)
	FindActiveBySpaceID(ctx context.Context, spaceID uint) ([]models.Reservation, error)
	FindByUserID(ctx context.Context, userID uint) ([]models.Reservation, error)
	HasOverlap(ctx context.Context, tx *gorm.DB, spaceID uint, start, end time.Time, excludeID *uint) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.ReservationStatus) error
	GetDB() *gorm.DB
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *reservationRepository) Create(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error {
	return tx.WithContext(ctx).Create(reservation).Error
}

func (r *reservationRepository) FindByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := r.db.WithContext(ctx).Preload("Space").First(&reservation, id).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) FindActiveBySpaceID(ctx context.Context, spaceID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Where("space_id = ? AND status <> ?", spaceID, models.StatusCancelled).
		Order("starts_at ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) FindByUserID(ctx context.Context, userID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Space").
		Where("user_id = ?", userID).
		Order("starts_at ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// HasOverlap reports whether any active reservation of the space collides
// with [start, end]. Bounds are inclusive: a reservation ending exactly when
// the candidate starts counts as a collision. excludeID, when set, leaves
// that reservation out of the scan so an update does not conflict with
// itself.
func (r *reservationRepository) HasOverlap(ctx context.Context, tx *gorm.DB, spaceID uint, start, end time.Time, excludeID *uint) (bool, error) {
	q := tx.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("space_id = ? AND status <> ?", spaceID, models.StatusCancelled).
		Where(
			"(starts_at BETWEEN ? AND ?) OR (ends_at BETWEEN ? AND ?) OR (starts_at <= ? AND ends_at >= ?)",
			start, end, start, end, start, end,
		)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reservationRepository) Update(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) error {
	return tx.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.ReservationStatus) error {
	return tx.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Update("status", status).Error
}
