package services

import (
	"log"

	"jamdevientos-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnlockNextLessons runs after a lesson completion: every published lesson
// that lists the completed lesson as a prerequisite is unlocked once ALL of
// its prerequisites are completed. Unlocking is idempotent.
func UnlockNextLessons(tx *gorm.DB, externalUserID string, completed *models.Lesson) ([]string, error) {
	var dependents []models.Lesson
	err := tx.
		Joins("JOIN lesson_prerequisites lp ON lp.lesson_id = lessons.id").
		Where("lp.prerequisite_id = ? AND lessons.is_active = ? AND lessons.is_published = ?",
			completed.ID, true, true).
		Preload("Prerequisites").
		Find(&dependents).Error
	if err != nil {
		return nil, err
	}

	var unlockedSlugs []string
	for i := range dependents {
		lesson := &dependents[i]

		ready, err := prerequisitesMet(tx, externalUserID, lesson)
		if err != nil {
			return nil, err
		}
		if !ready {
			continue
		}

		var lp models.LessonProgress
		err = tx.Where("external_user_id = ? AND lesson_id = ?", externalUserID, lesson.ID).
			First(&lp).Error
		if err == gorm.ErrRecordNotFound {
			lp = models.LessonProgress{
				ID:             uuid.NewString(),
				ExternalUserID: externalUserID,
				LessonID:       lesson.ID,
				IsUnlocked:     true,
			}
			if err := tx.Create(&lp).Error; err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		} else {
			if lp.IsUnlocked {
				continue
			}
			lp.IsUnlocked = true
			if err := tx.Save(&lp).Error; err != nil {
				return nil, err
			}
		}

		log.Printf("🔓 Lesson %s unlocked for user %s", lesson.Slug, externalUserID)
		unlockedSlugs = append(unlockedSlugs, lesson.Slug)
	}

	return unlockedSlugs, nil
}

// prerequisitesMet reports whether the user has completed every prerequisite
// of the lesson.
func prerequisitesMet(tx *gorm.DB, externalUserID string, lesson *models.Lesson) (bool, error) {
	if len(lesson.Prerequisites) == 0 {
		return true, nil
	}

	prereqIDs := make([]string, 0, len(lesson.Prerequisites))
	for _, p := range lesson.Prerequisites {
		prereqIDs = append(prereqIDs, p.ID)
	}

	var completedCount int64
	err := tx.Model(&models.LessonProgress{}).
		Where("external_user_id = ? AND lesson_id IN ? AND is_completed = ?",
			externalUserID, prereqIDs, true).
		Count(&completedCount).Error
	if err != nil {
		return false, err
	}

	return completedCount == int64(len(prereqIDs)), nil
}
