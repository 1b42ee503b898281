package services_test

import (
	"testing"

	"jamdevientos-api/models"
	"jamdevientos-api/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAchievementsFreezesCompletedProgress(t *testing.T) {
	db := newTestDB(t)
	achievement := models.Achievement{
		ID:         uuid.NewString(),
		Code:       "week-streak",
		Title:      "Semana Completa",
		MetricType: models.MetricStreakDays,
		Target:     7,
		XPReward:   100,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&achievement).Error)

	profile := &models.UserProfile{
		ID:             uuid.NewString(),
		ExternalUserID: "user-1",
		Level:          1,
		CurrentStreak:  7,
	}
	require.NoError(t, db.Create(profile).Error)

	svc := services.NewAchievementService(db)
	completed, err := svc.CheckAchievements(db, profile)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "week-streak", completed[0].Code)

	// The streak later resets; the completed achievement must not regress
	profile.CurrentStreak = 1
	require.NoError(t, db.Save(profile).Error)

	completed, err = svc.CheckAchievements(db, profile)
	require.NoError(t, err)
	assert.Empty(t, completed)

	var ua models.UserAchievement
	require.NoError(t, db.First(&ua, "achievement_id = ?", achievement.ID).Error)
	assert.True(t, ua.IsCompleted)
	assert.Equal(t, 7, ua.CurrentProgress)
	assert.NotNil(t, ua.CompletedAt)
}

func TestCheckAchievementsProgressIsLiveBeforeCompletion(t *testing.T) {
	db := newTestDB(t)
	achievement := models.Achievement{
		ID:         uuid.NewString(),
		Code:       "month-streak",
		Title:      "Constancia",
		MetricType: models.MetricStreakDays,
		Target:     30,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&achievement).Error)

	profile := &models.UserProfile{
		ID:             uuid.NewString(),
		ExternalUserID: "user-1",
		Level:          1,
		CurrentStreak:  5,
	}
	require.NoError(t, db.Create(profile).Error)

	svc := services.NewAchievementService(db)
	_, err := svc.CheckAchievements(db, profile)
	require.NoError(t, err)

	// Before completion the recorded progress tracks the metric both ways
	profile.CurrentStreak = 2
	require.NoError(t, db.Save(profile).Error)
	_, err = svc.CheckAchievements(db, profile)
	require.NoError(t, err)

	var ua models.UserAchievement
	require.NoError(t, db.First(&ua, "achievement_id = ?", achievement.ID).Error)
	assert.False(t, ua.IsCompleted)
	assert.Equal(t, 2, ua.CurrentProgress)
}
