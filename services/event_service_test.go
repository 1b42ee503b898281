package services_test

import (
	"testing"
	"time"

	"jamdevientos-api/models"
	"jamdevientos-api/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newEventDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Location{},
		&models.Repertoire{},
		&models.RepertoireVersion{},
		&models.Event{},
	))
	return db
}

func TestCompleteEndedEvents(t *testing.T) {
	db := newEventDB(t)
	svc := services.NewEventService(db, nil)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	mk := func(status string, end time.Time) string {
		event := models.Event{
			ID:            uuid.NewString(),
			Title:         "ev",
			EventType:     models.EventConcert,
			Status:        status,
			StartDatetime: end.Add(-2 * time.Hour),
			EndDatetime:   end,
		}
		require.NoError(t, db.Create(&event).Error)
		return event.ID
	}

	endedConfirmed := mk(models.EventConfirmed, now.Add(-1*time.Hour))
	futureConfirmed := mk(models.EventConfirmed, now.Add(1*time.Hour))
	endedDraft := mk(models.EventDraft, now.Add(-1*time.Hour))

	changed, err := svc.CompleteEndedEvents(now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, changed)

	status := func(id string) string {
		var event models.Event
		require.NoError(t, db.First(&event, "id = ?", id).Error)
		return event.Status
	}
	assert.Equal(t, models.EventCompleted, status(endedConfirmed))
	assert.Equal(t, models.EventConfirmed, status(futureConfirmed))
	assert.Equal(t, models.EventDraft, status(endedDraft))

	// Idempotent on a second run
	changed, err = svc.CompleteEndedEvents(now)
	require.NoError(t, err)
	assert.EqualValues(t, 0, changed)
}
