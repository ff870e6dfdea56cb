//go:build integration

package integration

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"espacios-api/internal/models"
	"espacios-api/internal/repository"
	"espacios-api/internal/service"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestSpace(t *testing.T, name string, available bool) *models.Space {
	t.Helper()
	space := &models.Space{
		Name:      name,
		Capacity:  20,
		Category:  "sala de reuniones",
		Available: available,
	}
	require.NoError(t, testDB.Create(space).Error)
	return space
}

func newReservationService() service.ReservationService {
	reservationRepo := repository.NewReservationRepository(testDB)
	spaceRepo := repository.NewSpaceRepository(testDB)
	return service.NewReservationService(reservationRepo, spaceRepo, nil)
}

func day(hour int) time.Time {
	base := time.Now().AddDate(0, 0, 7).Truncate(24 * time.Hour)
	return base.Add(time.Duration(hour) * time.Hour)
}

// Test: overlapping interval on the same space → conflict; the same
// interval on a different space → fine.
func TestOverlapGuard(t *testing.T) {
	cleanTables()
	spaceA := createTestSpace(t, "Sala Norte", true)
	spaceB := createTestSpace(t, "Sala Sur", true)
	svc := newReservationService()

	first, err := svc.Create(t.Context(), 1, spaceA.ID, "Retrospectiva", day(10), day(12))
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, first.Status)

	_, err = svc.Create(t.Context(), 2, spaceA.ID, "Demo", day(11), day(13))
	assert.ErrorIs(t, err, service.ErrScheduleConflict)

	other, err := svc.Create(t.Context(), 2, spaceB.ID, "Demo", day(11), day(13))
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, other.Status)
}

// Test: bounds are inclusive, so a reservation starting exactly when
// another ends still conflicts.
func TestTouchingEndpointsConflict(t *testing.T) {
	cleanTables()
	space := createTestSpace(t, "Sala Norte", true)
	svc := newReservationService()

	_, err := svc.Create(t.Context(), 1, space.ID, "Taller", day(10), day(12))
	require.NoError(t, err)

	_, err = svc.Create(t.Context(), 2, space.ID, "Charla", day(12), day(14))
	assert.ErrorIs(t, err, service.ErrScheduleConflict)
}

// Test: cancelled reservations release the slot.
func TestCancelReleasesSlot(t *testing.T) {
	cleanTables()
	space := createTestSpace(t, "Sala Norte", true)
	svc := newReservationService()

	first, err := svc.Create(t.Context(), 1, space.ID, "Retrospectiva", day(10), day(12))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(t.Context(), first.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	rebooked, err := svc.Create(t.Context(), 2, space.ID, "Demo", day(10), day(12))
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, rebooked.Status)
}

// Test: moving a reservation within its own interval must not collide
// with itself.
func TestUpdateExcludesOwnInterval(t *testing.T) {
	cleanTables()
	space := createTestSpace(t, "Sala Norte", true)
	svc := newReservationService()

	created, err := svc.Create(t.Context(), 1, space.ID, "Retrospectiva", day(10), day(12))
	require.NoError(t, err)

	newEnd := day(13)
	updated, err := svc.Update(t.Context(), created.ID, 1, service.ReservationPatch{EndsAt: &newEnd})
	require.NoError(t, err)
	assert.True(t, updated.EndsAt.Equal(newEnd))
}

// Test: an update that lands on another active reservation is rejected.
func TestUpdateIntoOccupiedSlot(t *testing.T) {
	cleanTables()
	space := createTestSpace(t, "Sala Norte", true)
	svc := newReservationService()

	_, err := svc.Create(t.Context(), 1, space.ID, "Retrospectiva", day(10), day(12))
	require.NoError(t, err)

	second, err := svc.Create(t.Context(), 2, space.ID, "Demo", day(14), day(16))
	require.NoError(t, err)

	newStart := day(11)
	newEnd := day(13)
	_, err = svc.Update(t.Context(), second.ID, 2, service.ReservationPatch{StartsAt: &newStart, EndsAt: &newEnd})
	assert.ErrorIs(t, err, service.ErrScheduleConflict)
}

// Test: booking a space flagged unavailable is rejected.
func TestUnavailableSpace(t *testing.T) {
	cleanTables()
	space := createTestSpace(t, "Sala en obras", false)
	svc := newReservationService()

	_, err := svc.Create(t.Context(), 1, space.ID, "Retrospectiva", day(10), day(12))
	assert.ErrorIs(t, err, service.ErrSpaceUnavailable)
}

// Test: deleting a space leaves its reservations alive; the event name can
// still change, but the dates can no longer move.
func TestUpdateAfterSpaceDeleted(t *testing.T) {
	cleanTables()
	space := createTestSpace(t, "Sala Norte", true)
	svc := newReservationService()

	created, err := svc.Create(t.Context(), 1, space.ID, "Retrospectiva", day(10), day(12))
	require.NoError(t, err)

	require.NoError(t, testDB.Delete(&models.Space{}, space.ID).Error)

	name := "Retrospectiva ampliada"
	updated, err := svc.Update(t.Context(), created.ID, 1, service.ReservationPatch{EventName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.EventName)

	newEnd := day(13)
	_, err = svc.Update(t.Context(), created.ID, 1, service.ReservationPatch{EndsAt: &newEnd})
	assert.ErrorIs(t, err, service.ErrSpaceNotFound)
}

// Test: the exclusion constraint rejects an overlapping row written straight
// through the repository, with no row lock in front of it.
func TestExclusionConstraintBackstop(t *testing.T) {
	cleanTables()
	space := createTestSpace(t, "Sala Norte", true)
	repo := repository.NewReservationRepository(testDB)

	first := &models.Reservation{
		SpaceID:   space.ID,
		UserID:    1,
		EventName: "Retrospectiva",
		StartsAt:  day(10),
		EndsAt:    day(12),
		Status:    models.StatusConfirmed,
	}
	require.NoError(t, repo.Create(t.Context(), testDB, first))

	second := &models.Reservation{
		SpaceID:   space.ID,
		UserID:    2,
		EventName: "Demo",
		StartsAt:  day(11),
		EndsAt:    day(13),
		Status:    models.StatusConfirmed,
	}
	err := repo.Create(t.Context(), testDB, second)
	require.Error(t, err)

	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "23P01", pgErr.Code, "constraint should reject the overlap with an exclusion violation")

	// A cancelled row does not occupy the range.
	cancelled := &models.Reservation{
		SpaceID:   space.ID,
		UserID:    2,
		EventName: "Demo",
		StartsAt:  day(11),
		EndsAt:    day(13),
		Status:    models.StatusCancelled,
	}
	assert.NoError(t, repo.Create(t.Context(), testDB, cancelled))
}

// Test: many users race for the same slot → exactly one confirmed
// reservation survives.
func TestConcurrentReservations(t *testing.T) {
	cleanTables()
	space := createTestSpace(t, "Sala Norte", true)
	svc := newReservationService()

	attempts := 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount := 0

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(userIdx int) {
			defer wg.Done()
			_, err := svc.Create(t.Context(), uint(userIdx+1), space.ID, fmt.Sprintf("Evento %d", userIdx), day(10), day(12))
			if err == nil {
				mu.Lock()
				successCount++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successCount, "only one concurrent reservation should win the slot")

	var count int64
	testDB.Model(&models.Reservation{}).
		Where("space_id = ? AND status <> ?", space.ID, models.StatusCancelled).
		Count(&count)
	assert.Equal(t, int64(1), count, "DB should have exactly 1 active reservation")
}
