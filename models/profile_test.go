package models_test

import (
	"testing"
	"time"

	"jamdevientos-api/models"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 30, 0, 0, time.UTC)
}

func TestAddXPRollsOverLevels(t *testing.T) {
	p := models.UserProfile{Level: 1}

	p.AddXP(30)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 30, p.CurrentXP)
	assert.Equal(t, 30, p.TotalXP)

	p.AddXP(80) // 110 -> level 2, 10 left
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 10, p.CurrentXP)
	assert.Equal(t, 110, p.TotalXP)

	p.AddXP(250) // crosses two more levels
	assert.Equal(t, 4, p.Level)
	assert.Equal(t, 60, p.CurrentXP)
	assert.Equal(t, 360, p.TotalXP)
}

func TestAddXPInvariant(t *testing.T) {
	p := models.UserProfile{Level: 1}
	for _, amount := range []int{1, 99, 100, 101, 250, 999} {
		p.AddXP(amount)
		assert.Less(t, p.CurrentXP, models.XPPerLevel)
	}
}

func TestAddXPIgnoresNonPositive(t *testing.T) {
	p := models.UserProfile{Level: 3, CurrentXP: 40, TotalXP: 240}
	p.AddXP(0)
	p.AddXP(-50)
	assert.Equal(t, 3, p.Level)
	assert.Equal(t, 40, p.CurrentXP)
	assert.Equal(t, 240, p.TotalXP)
}

func TestUpdateStreakFirstPractice(t *testing.T) {
	p := models.UserProfile{}
	p.UpdateStreak(day(2026, 3, 10))
	assert.Equal(t, 1, p.CurrentStreak)
	assert.Equal(t, 1, p.LongestStreak)
	assert.NotNil(t, p.LastPracticeDate)
}

func TestUpdateStreakSameDayIsNoop(t *testing.T) {
	p := models.UserProfile{}
	p.UpdateStreak(day(2026, 3, 10))
	p.UpdateStreak(day(2026, 3, 10).Add(5 * time.Hour))
	assert.Equal(t, 1, p.CurrentStreak)
}

func TestUpdateStreakConsecutiveDays(t *testing.T) {
	p := models.UserProfile{}
	p.UpdateStreak(day(2026, 3, 10))
	p.UpdateStreak(day(2026, 3, 11))
	p.UpdateStreak(day(2026, 3, 12))
	assert.Equal(t, 3, p.CurrentStreak)
	assert.Equal(t, 3, p.LongestStreak)
}

func TestUpdateStreakGapResets(t *testing.T) {
	p := models.UserProfile{}
	p.UpdateStreak(day(2026, 3, 10))
	p.UpdateStreak(day(2026, 3, 11))
	p.UpdateStreak(day(2026, 3, 14)) // two-day gap
	assert.Equal(t, 1, p.CurrentStreak)
	assert.Equal(t, 2, p.LongestStreak) // longest survives the reset
}

func TestAccuracy(t *testing.T) {
	p := models.UserProfile{}
	assert.Equal(t, 0.0, p.Accuracy())

	p.CorrectAnswers = 2
	p.TotalAnswers = 3
	assert.Equal(t, 66.67, p.Accuracy())

	p.CorrectAnswers = 3
	assert.Equal(t, 100.0, p.Accuracy())
}

func TestStarsForAccuracy(t *testing.T) {
	cases := []struct {
		accuracy float64
		stars    int
	}{
		{100, 3},
		{90, 3},
		{89.9, 2},
		{70, 2},
		{69.9, 1},
		{50, 1},
		{49.9, 0},
		{0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.stars, models.StarsForAccuracy(tc.accuracy), "accuracy %.1f", tc.accuracy)
	}
}
