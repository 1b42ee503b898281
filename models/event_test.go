package models_test

import (
	"testing"
	"time"

	"jamdevientos-api/models"

	"github.com/stretchr/testify/assert"
)

func TestEventValidate(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	ok := models.Event{
		Title:         "Concierto de invierno",
		StartDatetime: now.Add(24 * time.Hour),
		EndDatetime:   now.Add(27 * time.Hour),
	}
	assert.NoError(t, ok.Validate(true, now))

	inverted := models.Event{
		StartDatetime: now.Add(27 * time.Hour),
		EndDatetime:   now.Add(24 * time.Hour),
	}
	assert.ErrorIs(t, inverted.Validate(true, now), models.ErrEventDatesInverted)

	zeroLength := models.Event{
		StartDatetime: now.Add(24 * time.Hour),
		EndDatetime:   now.Add(24 * time.Hour),
	}
	assert.ErrorIs(t, zeroLength.Validate(true, now), models.ErrEventDatesInverted)

	past := models.Event{
		StartDatetime: now.Add(-2 * time.Hour),
		EndDatetime:   now.Add(-1 * time.Hour),
	}
	assert.ErrorIs(t, past.Validate(true, now), models.ErrEventInThePast)
	// Editing an event that already started is allowed
	assert.NoError(t, past.Validate(false, now))
}

func TestEventTimeHelpers(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	event := models.Event{
		StartDatetime: now.Add(-1 * time.Hour),
		EndDatetime:   now.Add(1 * time.Hour),
	}
	assert.False(t, event.IsUpcoming(now))
	assert.True(t, event.IsOngoing(now))
	assert.True(t, event.IsUpcoming(now.Add(-2*time.Hour)))
	assert.False(t, event.IsOngoing(now.Add(2*time.Hour)))
}
