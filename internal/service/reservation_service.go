package service

import (
	"context"
	"errors"
	"time"

	"espacios-api/internal/models"
	"espacios-api/internal/repository"
	"espacios-api/monitoring"
	"espacios-api/pkg/rabbitmq"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrSpaceNotFound       = errors.New("space not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrSpaceUnavailable    = errors.New("space is not available")
	ErrScheduleConflict    = errors.New("an active reservation already occupies that schedule")
	ErrNotOwner            = errors.New("reservation belongs to another user")
	ErrInvalidInterval     = errors.New("end must be after start")
)

// ReservationPatch carries the allow-listed mutable fields of an update.
// Nil fields are left unchanged.
type ReservationPatch struct {
	EventName *string
	StartsAt  *time.Time
	EndsAt    *time.Time
}

type ReservationService interface {
	Create(ctx context.Context, userID, spaceID uint, eventName string, start, end time.Time) (*models.Reservation, error)
	Update(ctx context.Context, id, userID uint, patch ReservationPatch) (*models.Reservation, error)
	Cancel(ctx context.Context, id, userID uint) (*models.Reservation, error)
	GetOwned(ctx context.Context, id, userID uint) (*models.Reservation, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Reservation, error)
	ListForSpace(ctx context.Context, spaceID uint) ([]models.Reservation, error)
}

type reservationService struct {
	reservationRepo repository.ReservationRepository
	spaceRepo       repository.SpaceRepository
	publisher       *rabbitmq.Publisher
}

func NewReservationService(reservationRepo repository.ReservationRepository, spaceRepo repository.SpaceRepository, publisher *rabbitmq.Publisher) ReservationService {
	return &reservationService{
		reservationRepo: reservationRepo,
		spaceRepo:       spaceRepo,
		publisher:       publisher,
	}
}

func (s *reservationService) Create(ctx context.Context, userID, spaceID uint, eventName string, start, end time.Time) (*models.Reservation, error) {
	if !end.After(start) {
		return nil, ErrInvalidInterval
	}

	var result *models.Reservation

	err := s.reservationRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the space row so concurrent bookings for the same space
		// serialize and check-then-insert is atomic.
		space, err := s.spaceRepo.FindByIDForUpdate(ctx, tx, spaceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSpaceNotFound
			}
			return err
		}

		if !space.Available {
			return ErrSpaceUnavailable
		}

		overlap, err := s.reservationRepo.HasOverlap(ctx, tx, spaceID, start, end, nil)
		if err != nil {
			return err
		}
		if overlap {
			return ErrScheduleConflict
		}

		reservation := &models.Reservation{
			SpaceID:   spaceID,
			UserID:    userID,
			EventName: eventName,
			StartsAt:  start,
			EndsAt:    end,
			Status:    models.StatusConfirmed,
		}
		if err := s.reservationRepo.Create(ctx, tx, reservation); err != nil {
			if isExclusionViolation(err) {
				return ErrScheduleConflict
			}
			return err
		}

		reservation.Space = space
		result = reservation
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrScheduleConflict) {
			monitoring.TrackReservationConflict()
		}
		return nil, err
	}

	monitoring.TrackReservationCreated()
	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, "reserva.creada", result)
	}
	return result, nil
}

func (s *reservationService) Update(ctx context.Context, id, userID uint, patch ReservationPatch) (*models.Reservation, error) {
	var result *models.Reservation

	err := s.reservationRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := s.reservationRepo.FindByID(ctx, id)
		if err != nil {
			return ErrReservationNotFound
		}
		if reservation.UserID != userID {
			return ErrNotOwner
		}

		fields := map[string]any{}
		if patch.EventName != nil {
			fields["event_name"] = *patch.EventName
		}

		if patch.StartsAt != nil || patch.EndsAt != nil {
			start := reservation.StartsAt
			end := reservation.EndsAt
			if patch.StartsAt != nil {
				start = *patch.StartsAt
			}
			if patch.EndsAt != nil {
				end = *patch.EndsAt
			}
			if !end.After(start) {
				return ErrInvalidInterval
			}

			if _, err := s.spaceRepo.FindByIDForUpdate(ctx, tx, reservation.SpaceID); err != nil {
				// The space row may be gone; reservations survive a
				// space delete but their dates can no longer move.
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrSpaceNotFound
				}
				return err
			}

			// Exclude the reservation itself so it never conflicts
			// with its own current slot.
			overlap, err := s.reservationRepo.HasOverlap(ctx, tx, reservation.SpaceID, start, end, &id)
			if err != nil {
				return err
			}
			if overlap {
				return ErrScheduleConflict
			}

			fields["starts_at"] = start
			fields["ends_at"] = end
		}

		if len(fields) == 0 {
			result = reservation
			return nil
		}

		if err := s.reservationRepo.Update(ctx, tx, id, fields); err != nil {
			if isExclusionViolation(err) {
				return ErrScheduleConflict
			}
			return err
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrScheduleConflict) {
			monitoring.TrackReservationConflict()
		}
		return nil, err
	}

	if result == nil {
		if result, err = s.reservationRepo.FindByID(ctx, id); err != nil {
			return nil, err
		}
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, "reserva.actualizada", result)
	}
	return result, nil
}

// Cancel soft-deletes the reservation. Cancelling an already-cancelled
// reservation is a no-op success.
func (s *reservationService) Cancel(ctx context.Context, id, userID uint) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrReservationNotFound
	}
	if reservation.UserID != userID {
		return nil, ErrNotOwner
	}
	if reservation.Status == models.StatusCancelled {
		return reservation, nil
	}

	if err := s.reservationRepo.UpdateStatus(ctx, s.reservationRepo.GetDB(), id, models.StatusCancelled); err != nil {
		return nil, err
	}
	reservation.Status = models.StatusCancelled

	monitoring.TrackReservationCancelled()
	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, "reserva.cancelada", reservation)
	}
	return reservation, nil
}

func (s *reservationService) GetOwned(ctx context.Context, id, userID uint) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrReservationNotFound
	}
	if reservation.UserID != userID {
		return nil, ErrNotOwner
	}
	return reservation, nil
}

func (s *reservationService) ListForUser(ctx context.Context, userID uint) ([]models.Reservation, error) {
	return s.reservationRepo.FindByUserID(ctx, userID)
}

func (s *reservationService) ListForSpace(ctx context.Context, spaceID uint) ([]models.Reservation, error) {
	return s.reservationRepo.FindActiveBySpaceID(ctx, spaceID)
}

// isExclusionViolation detects the Postgres exclusion-constraint backstop
// (SQLSTATE 23P01) that turns a lost booking race into a Conflict.
func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}
