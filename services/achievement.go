package services

import (
	"log"
	"time"

	"jamdevientos-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AchievementService keeps per-user achievement progress live and completes
// achievements whose target is reached.
type AchievementService struct {
	DB *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{DB: db}
}

// AchievementInfo is what completion responses expose for an achievement.
type AchievementInfo struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description"`
	XPReward    int    `json:"xp_reward"`
}

// CheckAchievements refreshes CurrentProgress for every active achievement
// and completes the ones whose target is now met. Completed achievements are
// never re-evaluated: their recorded progress stays frozen at the completing
// value even if the underlying metric later drops (streaks reset).
func (s *AchievementService) CheckAchievements(tx *gorm.DB, profile *models.UserProfile) ([]AchievementInfo, error) {
	var achievements []models.Achievement
	if err := tx.Where("is_active = ?", true).Find(&achievements).Error; err != nil {
		return nil, err
	}

	var completed []AchievementInfo
	now := time.Now()

	for i := range achievements {
		achievement := &achievements[i]

		var ua models.UserAchievement
		err := tx.Where("external_user_id = ? AND achievement_id = ?",
			profile.ExternalUserID, achievement.ID).First(&ua).Error
		if err == gorm.ErrRecordNotFound {
			ua = models.UserAchievement{
				ID:             uuid.NewString(),
				ExternalUserID: profile.ExternalUserID,
				AchievementID:  achievement.ID,
			}
		} else if err != nil {
			return nil, err
		}
		if ua.IsCompleted {
			continue
		}

		value, err := metricValue(tx, profile, achievement.MetricType)
		if err != nil {
			return nil, err
		}
		ua.CurrentProgress = value

		justCompleted := value >= achievement.Target
		if justCompleted {
			ua.IsCompleted = true
			ua.CompletedAt = &now
		}

		if err := tx.Save(&ua).Error; err != nil {
			return nil, err
		}

		if justCompleted {
			if achievement.XPReward > 0 {
				profile.AddXP(achievement.XPReward)
				if err := tx.Save(profile).Error; err != nil {
					return nil, err
				}
			}
			log.Printf("🏆 Achievement %s completed for user %s", achievement.Code, profile.ExternalUserID)
			completed = append(completed, AchievementInfo{
				Code:        achievement.Code,
				Title:       achievement.Title,
				Description: achievement.Description,
				XPReward:    achievement.XPReward,
			})
		}
	}

	return completed, nil
}

// UserAchievementView pairs an achievement definition with the user's
// progress for listings.
type UserAchievementView struct {
	AchievementInfo
	MetricType         string     `json:"metric_type"`
	Target             int        `json:"target"`
	CurrentProgress    int        `json:"current_progress"`
	ProgressPercentage float64    `json:"progress_percentage"`
	IsCompleted        bool       `json:"is_completed"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

// ListAchievements returns all active achievements with the user's progress.
// Users with no row yet show zero progress.
func (s *AchievementService) ListAchievements(externalUserID string) ([]UserAchievementView, error) {
	var achievements []models.Achievement
	if err := s.DB.Where("is_active = ?", true).Order("target ASC").Find(&achievements).Error; err != nil {
		return nil, err
	}

	var rows []models.UserAchievement
	if err := s.DB.Where("external_user_id = ?", externalUserID).Find(&rows).Error; err != nil {
		return nil, err
	}
	byAchievement := make(map[string]*models.UserAchievement, len(rows))
	for i := range rows {
		byAchievement[rows[i].AchievementID] = &rows[i]
	}

	views := make([]UserAchievementView, 0, len(achievements))
	for i := range achievements {
		achievement := &achievements[i]
		view := UserAchievementView{
			AchievementInfo: AchievementInfo{
				Code:        achievement.Code,
				Title:       achievement.Title,
				Description: achievement.Description,
				XPReward:    achievement.XPReward,
			},
			MetricType: achievement.MetricType,
			Target:     achievement.Target,
		}
		if ua, ok := byAchievement[achievement.ID]; ok {
			view.CurrentProgress = ua.CurrentProgress
			view.ProgressPercentage = ua.ProgressPercentage(achievement.Target)
			view.IsCompleted = ua.IsCompleted
			view.CompletedAt = ua.CompletedAt
		}
		views = append(views, view)
	}
	return views, nil
}
