package services_test

import (
	"testing"
	"time"

	"jamdevientos-api/models"
	"jamdevientos-api/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createChallenge(t *testing.T, db *gorm.DB, slug string, xp int) *models.Challenge {
	t.Helper()
	challenge := &models.Challenge{
		ID:          uuid.NewString(),
		Slug:        slug,
		Title:       slug,
		Type:        "long-tones",
		XPReward:    xp,
		IsActive:    true,
		IsPublished: true,
	}
	require.NoError(t, db.Create(challenge).Error)
	return challenge
}

func attempt(accuracy float64) *services.CompleteChallengeRequest {
	return &services.CompleteChallengeRequest{
		Accuracy:       accuracy,
		TotalBeats:     16,
		BeatsCompleted: 16,
		TimeSpent:      60,
	}
}

func TestCompleteChallengeXPMultiplier(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewChallengeService(db)
	createChallenge(t, db, "notas-largas", 45)
	now := time.Now()

	cases := []struct {
		accuracy float64
		stars    int
		xp       int
	}{
		{95, 3, 67}, // 45 * 1.5 = 67.5, truncated
		{75, 2, 54}, // 45 * 1.2
		{55, 1, 45},
		{30, 0, 45}, // failed attempts still pay base XP
	}
	for _, tc := range cases {
		res, err := svc.CompleteChallenge("user-1", "notas-largas", attempt(tc.accuracy), now)
		require.NoError(t, err)
		assert.Equal(t, tc.xp, res.XPEarned, "accuracy %.0f", tc.accuracy)
	}
}

func TestCompleteChallengeProgressIsMonotonic(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewChallengeService(db)
	challenge := createChallenge(t, db, "escala-do", 50)
	now := time.Now()

	res, err := svc.CompleteChallenge("user-1", "escala-do", attempt(92), now)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.Stars)

	// A worse replay fails on its own, but stored progress never regresses
	res, err = svc.CompleteChallenge("user-1", "escala-do", attempt(40), now)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 3, res.Stars)

	var ucp models.UserChallengeProgress
	require.NoError(t, db.First(&ucp, "challenge_id = ?", challenge.ID).Error)
	assert.True(t, ucp.IsCompleted)
	assert.Equal(t, 3, ucp.Stars)
	assert.Equal(t, 92.0, ucp.BestAccuracy)
	assert.Equal(t, 40.0, ucp.Accuracy) // latest attempt is kept
	assert.Equal(t, 2, ucp.Attempts)
	assert.Equal(t, 125, ucp.TotalXPEarned) // 75 + 50
}

func TestCompleteChallengeValidation(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewChallengeService(db)
	createChallenge(t, db, "valido", 50)
	now := time.Now()

	_, err := svc.CompleteChallenge("user-1", "valido", &services.CompleteChallengeRequest{
		Accuracy: 120, TotalBeats: 16, BeatsCompleted: 16,
	}, now)
	assert.ErrorIs(t, err, services.ErrInvalidAccuracy)

	_, err = svc.CompleteChallenge("user-1", "valido", &services.CompleteChallengeRequest{
		Accuracy: 80, TotalBeats: 0, BeatsCompleted: 0,
	}, now)
	assert.ErrorIs(t, err, services.ErrInvalidBeats)

	_, err = svc.CompleteChallenge("user-1", "valido", &services.CompleteChallengeRequest{
		Accuracy: 80, TotalBeats: 16, BeatsCompleted: 20,
	}, now)
	assert.ErrorIs(t, err, services.ErrInvalidBeats)

	_, err = svc.CompleteChallenge("user-1", "no-existe", attempt(80), now)
	assert.ErrorIs(t, err, services.ErrChallengeNotFound)

	// Nothing was written
	var count int64
	require.NoError(t, db.Model(&models.UserChallengeProgress{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCompleteChallengeCountsAsExercise(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewChallengeService(db)
	createChallenge(t, db, "afinacion", 50)

	_, err := svc.CompleteChallenge("user-1", "afinacion", attempt(85), time.Now())
	require.NoError(t, err)

	var profile models.UserProfile
	require.NoError(t, db.First(&profile, "external_user_id = ?", "user-1").Error)
	assert.Equal(t, 1, profile.TotalExercisesCompleted)
	assert.Equal(t, 60, profile.TotalPracticeSeconds)
	assert.Equal(t, 1, profile.CurrentStreak)
	assert.Equal(t, 0, profile.TotalLessonsCompleted)
}
