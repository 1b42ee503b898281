package services

import (
	"log"

	"jamdevientos-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeedDefaults inserts the default badge and achievement catalog. Existing
// codes are left untouched so boot stays idempotent.
func SeedDefaults(db *gorm.DB) error {
	for _, badge := range models.DefaultBadges {
		var count int64
		if err := db.Model(&models.Badge{}).Where("code = ?", badge.Code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		badge.ID = uuid.NewString()
		badge.IsActive = true
		if err := db.Create(&badge).Error; err != nil {
			return err
		}
		log.Printf("🌱 Seeded badge %s", badge.Code)
	}

	for _, achievement := range models.DefaultAchievements {
		var count int64
		if err := db.Model(&models.Achievement{}).Where("code = ?", achievement.Code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		achievement.ID = uuid.NewString()
		achievement.IsActive = true
		if err := db.Create(&achievement).Error; err != nil {
			return err
		}
		log.Printf("🌱 Seeded achievement %s", achievement.Code)
	}

	return nil
}
