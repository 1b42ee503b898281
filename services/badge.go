package services

import (
	"log"

	"jamdevientos-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BadgeService evaluates badge criteria after completions and awards any
// badge whose metric reached its target.
type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// BadgeInfo is what completion responses and listings expose for a badge.
type BadgeInfo struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func badgeInfo(b *models.Badge) BadgeInfo {
	return BadgeInfo{
		Code:        b.Code,
		Name:        b.Name,
		Icon:        b.Icon,
		Description: b.Description,
		Category:    b.Category,
	}
}

// CheckBadges awards every active badge whose criterion the user now meets
// and that the user doesn't hold yet. Badge XP is applied to the profile in
// the same transaction, so a second call in the same state returns nothing.
func (s *BadgeService) CheckBadges(tx *gorm.DB, profile *models.UserProfile) ([]BadgeInfo, error) {
	var badges []models.Badge
	if err := tx.Where("is_active = ?", true).Find(&badges).Error; err != nil {
		return nil, err
	}

	var heldIDs []string
	if err := tx.Model(&models.UserBadge{}).
		Where("external_user_id = ?", profile.ExternalUserID).
		Pluck("badge_id", &heldIDs).Error; err != nil {
		return nil, err
	}
	held := make(map[string]bool, len(heldIDs))
	for _, id := range heldIDs {
		held[id] = true
	}

	var unlocked []BadgeInfo
	for i := range badges {
		badge := &badges[i]
		if held[badge.ID] {
			continue
		}

		value, err := metricValue(tx, profile, badge.CriteriaType)
		if err != nil {
			return nil, err
		}
		if value < badge.CriteriaTarget {
			continue
		}

		userBadge := models.UserBadge{
			ID:             uuid.NewString(),
			ExternalUserID: profile.ExternalUserID,
			BadgeID:        badge.ID,
		}
		if err := tx.Create(&userBadge).Error; err != nil {
			return nil, err
		}

		if badge.XPReward > 0 {
			profile.AddXP(badge.XPReward)
			if err := tx.Save(profile).Error; err != nil {
				return nil, err
			}
		}

		log.Printf("🏅 Badge %s unlocked for user %s", badge.Code, profile.ExternalUserID)
		unlocked = append(unlocked, badgeInfo(badge))
	}

	return unlocked, nil
}

// UserBadgeView pairs a badge definition with its unlock state for listings.
type UserBadgeView struct {
	BadgeInfo
	CriteriaType   string  `json:"criteria_type"`
	CriteriaTarget int     `json:"criteria_target"`
	XPReward       int     `json:"xp_reward"`
	IsUnlocked     bool    `json:"is_unlocked"`
	UnlockedAt     *string `json:"unlocked_at,omitempty"`
}

// ListBadges returns all active badges with the user's unlock state.
func (s *BadgeService) ListBadges(externalUserID string) ([]UserBadgeView, error) {
	var badges []models.Badge
	if err := s.DB.Where("is_active = ?", true).Order("criteria_target ASC").Find(&badges).Error; err != nil {
		return nil, err
	}

	var userBadges []models.UserBadge
	if err := s.DB.Where("external_user_id = ?", externalUserID).Find(&userBadges).Error; err != nil {
		return nil, err
	}
	unlockedAt := make(map[string]string, len(userBadges))
	for _, ub := range userBadges {
		unlockedAt[ub.BadgeID] = ub.UnlockedAt.Format("2006-01-02T15:04:05Z07:00")
	}

	views := make([]UserBadgeView, 0, len(badges))
	for i := range badges {
		badge := &badges[i]
		view := UserBadgeView{
			BadgeInfo:      badgeInfo(badge),
			CriteriaType:   badge.CriteriaType,
			CriteriaTarget: badge.CriteriaTarget,
			XPReward:       badge.XPReward,
		}
		if at, ok := unlockedAt[badge.ID]; ok {
			view.IsUnlocked = true
			view.UnlockedAt = &at
		}
		views = append(views, view)
	}
	return views, nil
}
