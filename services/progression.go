package services

import (
	"fmt"
	"time"

	"jamdevientos-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressionService is the progress ledger: it owns every mutation of
// UserProfile (XP, level, streak, counters). Completions by the same user
// racing on one profile are serialized with a row lock inside the caller's
// transaction.
type ProgressionService struct {
	DB *gorm.DB
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db}
}

// EnsureProfile loads the profile for a user, creating it lazily on first
// interaction. When tx is part of a completion, the row is locked so
// concurrent completions by the same user cannot lose updates.
func (s *ProgressionService) EnsureProfile(tx *gorm.DB, externalUserID string) (*models.UserProfile, error) {
	q := tx
	// sqlite (tests) has no row locks; its single writer serializes anyway.
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var profile models.UserProfile
	err := q.Where("external_user_id = ?", externalUserID).First(&profile).Error
	if err == gorm.ErrRecordNotFound {
		profile = models.UserProfile{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			Level:          1,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return nil, fmt.Errorf("failed to create progress profile: %w", err)
		}
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// AddXP applies XP to the profile (rolling levels over) and persists it.
func (s *ProgressionService) AddXP(tx *gorm.DB, profile *models.UserProfile, amount int) error {
	profile.AddXP(amount)
	return tx.Save(profile).Error
}

// UpdateStreak records today as a practice day and persists the profile.
func (s *ProgressionService) UpdateStreak(tx *gorm.DB, profile *models.UserProfile, today time.Time) error {
	profile.UpdateStreak(today)
	return tx.Save(profile).Error
}

// ProfileSummary is the payload for GET /user/progress.
type ProfileSummary struct {
	models.UserProfile
	Accuracy              float64 `json:"accuracy"`
	BadgesCount           int64   `json:"badges_count"`
	AchievementsCompleted int64   `json:"achievements_completed"`
}

// GetProfileSummary returns the profile plus badge/achievement counts,
// creating the profile if the user has none yet.
func (s *ProgressionService) GetProfileSummary(externalUserID string) (*ProfileSummary, error) {
	profile, err := s.EnsureProfile(s.DB, externalUserID)
	if err != nil {
		return nil, err
	}

	var badges, achievements int64
	if err := s.DB.Model(&models.UserBadge{}).
		Where("external_user_id = ?", externalUserID).
		Count(&badges).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.UserAchievement{}).
		Where("external_user_id = ? AND is_completed = ?", externalUserID, true).
		Count(&achievements).Error; err != nil {
		return nil, err
	}

	return &ProfileSummary{
		UserProfile:           *profile,
		Accuracy:              profile.Accuracy(),
		BadgesCount:           badges,
		AchievementsCompleted: achievements,
	}, nil
}

// CategoryStats aggregates per-category lesson results.
type CategoryStats struct {
	LessonsCompleted int64   `json:"lessons_completed"`
	Accuracy         float64 `json:"accuracy"`
}

// DayActivity is one day of recent practice.
type DayActivity struct {
	Date               string `json:"date"`
	ExercisesCompleted int64  `json:"exercises_completed"`
	XPEarned           int64  `json:"xp_earned"`
}

// UserStats is the payload for GET /user/stats.
type UserStats struct {
	Overview       map[string]interface{}   `json:"overview"`
	ByCategory     map[string]CategoryStats `json:"by_category"`
	RecentActivity []DayActivity            `json:"recent_activity"`
}

// GetUserStats builds the overview, per-category accuracy and a 7-day
// activity feed for a user.
func (s *ProgressionService) GetUserStats(externalUserID string, now time.Time) (*UserStats, error) {
	profile, err := s.EnsureProfile(s.DB, externalUserID)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{
		Overview: map[string]interface{}{
			"level":    profile.Level,
			"total_xp": profile.TotalXP,
			"streak":   profile.CurrentStreak,
			"accuracy": profile.Accuracy(),
		},
		ByCategory: make(map[string]CategoryStats),
	}

	for _, category := range models.LessonCategories {
		var completed int64
		if err := s.DB.Model(&models.LessonProgress{}).
			Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
			Where("lesson_progresses.external_user_id = ? AND lessons.category = ? AND lesson_progresses.is_completed = ?",
				externalUserID, category, true).
			Count(&completed).Error; err != nil {
			return nil, err
		}

		categoryAttempts := func() *gorm.DB {
			return s.DB.Model(&models.ExerciseAttempt{}).
				Joins("JOIN exercises ON exercises.id = exercise_attempts.exercise_id").
				Joins("JOIN lessons ON lessons.id = exercises.lesson_id").
				Where("exercise_attempts.external_user_id = ? AND lessons.category = ?", externalUserID, category)
		}

		var total, correct int64
		if err := categoryAttempts().Count(&total).Error; err != nil {
			return nil, err
		}
		if err := categoryAttempts().Where("exercise_attempts.is_correct = ?", true).Count(&correct).Error; err != nil {
			return nil, err
		}

		accuracy := 0.0
		if total > 0 {
			accuracy = float64(correct) / float64(total) * 100
		}
		stats.ByCategory[category] = CategoryStats{
			LessonsCompleted: completed,
			Accuracy:         accuracy,
		}
	}

	for i := 0; i < 7; i++ {
		dayStart := now.AddDate(0, 0, -i).Truncate(24 * time.Hour)
		dayEnd := dayStart.AddDate(0, 0, 1)

		dayAttempts := func() *gorm.DB {
			return s.DB.Model(&models.ExerciseAttempt{}).
				Where("external_user_id = ? AND attempted_at >= ? AND attempted_at < ?",
					externalUserID, dayStart, dayEnd)
		}

		var count int64
		var xp int64
		if err := dayAttempts().Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			continue
		}
		if err := dayAttempts().Select("COALESCE(SUM(xp_earned), 0)").Scan(&xp).Error; err != nil {
			return nil, err
		}

		stats.RecentActivity = append(stats.RecentActivity, DayActivity{
			Date:               dayStart.Format("2006-01-02"),
			ExercisesCompleted: count,
			XPEarned:           xp,
		})
	}

	return stats, nil
}
