package services

import (
	"fmt"

	"jamdevientos-api/models"

	"gorm.io/gorm"
)

// metricValue resolves the current value of a badge/achievement metric for a
// user. Counter metrics come straight off the profile; perfect_lessons is
// counted live because the profile doesn't track it.
func metricValue(tx *gorm.DB, profile *models.UserProfile, metricType string) (int, error) {
	switch metricType {
	case models.MetricLessonsCompleted:
		return profile.TotalLessonsCompleted, nil
	case models.MetricExercisesCompleted:
		return profile.TotalExercisesCompleted, nil
	case models.MetricStreakDays:
		return profile.CurrentStreak, nil
	case models.MetricTotalXP:
		return profile.TotalXP, nil
	case models.MetricPerfectLessons:
		var count int64
		err := tx.Model(&models.LessonProgress{}).
			Where("external_user_id = ? AND is_completed = ? AND stars = ?", profile.ExternalUserID, true, 3).
			Count(&count).Error
		if err != nil {
			return 0, err
		}
		return int(count), nil
	default:
		return 0, fmt.Errorf("unknown metric type: %s", metricType)
	}
}
