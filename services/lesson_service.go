package services

import (
	"errors"
	"log"
	"math"
	"time"

	"jamdevientos-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrExerciseNotFound = errors.New("exercise does not belong to this lesson")
	ErrEmptyResults     = errors.New("results must not be empty")
)

// LessonService owns the lesson catalog and the completion orchestrator.
type LessonService struct {
	DB           *gorm.DB
	Progression  *ProgressionService
	Badges       *BadgeService
	Achievements *AchievementService
}

func NewLessonService(db *gorm.DB) *LessonService {
	return &LessonService{
		DB:           db,
		Progression:  NewProgressionService(db),
		Badges:       NewBadgeService(db),
		Achievements: NewAchievementService(db),
	}
}

// ExerciseResult is one graded answer sent by the app. Grading happens
// client-side against the exercise content; the server trusts is_correct.
type ExerciseResult struct {
	ExerciseID string `json:"exercise_id"`
	IsCorrect  bool   `json:"is_correct"`
	TimeSpent  int    `json:"time_spent"` // seconds
	UserAnswer string `json:"user_answer"`
}

// CompleteLessonRequest is the body of POST /lessons/:slug/complete.
type CompleteLessonRequest struct {
	Results []ExerciseResult `json:"results"`
}

// CompletionResponse is returned by lesson and challenge completions.
type CompletionResponse struct {
	Success         bool        `json:"success"`
	Stars           int         `json:"stars"`
	Score           int         `json:"score"`
	Accuracy        *float64    `json:"accuracy,omitempty"` // challenges only
	XPEarned        int         `json:"xp_earned"`
	NewLevel        int         `json:"new_level"`
	LevelUp         bool        `json:"level_up"`
	UnlockedLessons []string    `json:"unlocked_lessons"`
	UnlockedBadges  []BadgeInfo `json:"unlocked_badges"`
}

// CompleteLesson processes one full lesson attempt in a single transaction:
// validate, record attempts, award XP, update streak and counters, then run
// unlock, badge and achievement evaluation when the lesson was completed by
// this call.
func (s *LessonService) CompleteLesson(externalUserID, lessonSlug string, req *CompleteLessonRequest, now time.Time) (*CompletionResponse, error) {
	if len(req.Results) == 0 {
		return nil, ErrEmptyResults
	}

	var response *CompletionResponse
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var lesson models.Lesson
		err := tx.Preload("Exercises").
			Where("slug = ? AND is_active = ?", lessonSlug, true).
			First(&lesson).Error
		if err == gorm.ErrRecordNotFound {
			return ErrLessonNotFound
		}
		if err != nil {
			return err
		}

		// Every exercise id must be known before anything is written.
		exercises := make(map[string]*models.Exercise, len(lesson.Exercises))
		for i := range lesson.Exercises {
			exercises[lesson.Exercises[i].ID] = &lesson.Exercises[i]
		}
		for _, result := range req.Results {
			if _, ok := exercises[result.ExerciseID]; !ok {
				return ErrExerciseNotFound
			}
		}

		profile, err := s.Progression.EnsureProfile(tx, externalUserID)
		if err != nil {
			return err
		}

		var lp models.LessonProgress
		err = tx.Where("external_user_id = ? AND lesson_id = ?", externalUserID, lesson.ID).
			First(&lp).Error
		if err == gorm.ErrRecordNotFound {
			lp = models.LessonProgress{
				ID:               uuid.NewString(),
				ExternalUserID:   externalUserID,
				LessonID:         lesson.ID,
				IsUnlocked:       true,
				FirstAttemptedAt: &now,
			}
			if err := tx.Create(&lp).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		wasCompleted := lp.IsCompleted

		lp.Attempts++
		lp.LastAttemptedAt = &now
		if lp.FirstAttemptedAt == nil {
			lp.FirstAttemptedAt = &now
		}

		correct := 0
		totalTime := 0
		exerciseXP := 0
		for _, result := range req.Results {
			exercise := exercises[result.ExerciseID]

			xp := 0
			if result.IsCorrect {
				correct++
				xp = exercise.XPReward
				exerciseXP += xp
			}
			totalTime += result.TimeSpent

			attempt := models.ExerciseAttempt{
				ID:               uuid.NewString(),
				ExternalUserID:   externalUserID,
				ExerciseID:       exercise.ID,
				LessonProgressID: &lp.ID,
				UserAnswer:       result.UserAnswer,
				IsCorrect:        result.IsCorrect,
				TimeSpent:        result.TimeSpent,
				XPEarned:         xp,
				AttemptedAt:      now,
			}
			if err := tx.Create(&attempt).Error; err != nil {
				return err
			}
		}

		score := int(math.Round(float64(correct) / float64(len(req.Results)) * 100))
		stars := models.StarsForAccuracy(float64(score))

		xpEarned := exerciseXP
		passed := score >= models.MinPassScore
		justCompleted := passed && !wasCompleted

		if passed {
			lp.IsCompleted = true
			if lp.CompletedAt == nil {
				lp.CompletedAt = &now
			}
		}
		if score > lp.BestScore {
			lp.BestScore = score
		}
		if stars > lp.Stars {
			lp.Stars = stars
		}
		if err := tx.Save(&lp).Error; err != nil {
			return err
		}

		if justCompleted {
			xpEarned += lesson.XPReward
			profile.TotalLessonsCompleted++
		}

		profile.TotalExercisesCompleted += len(req.Results)
		profile.CorrectAnswers += correct
		profile.TotalAnswers += len(req.Results)
		profile.TotalPracticeSeconds += totalTime
		profile.UpdateStreak(now)

		levelBefore := profile.Level
		profile.AddXP(xpEarned)
		if err := tx.Save(profile).Error; err != nil {
			return err
		}

		response = &CompletionResponse{
			Success:         passed,
			Stars:           stars,
			Score:           score,
			XPEarned:        xpEarned,
			UnlockedLessons: []string{},
			UnlockedBadges:  []BadgeInfo{},
		}

		if justCompleted {
			unlocked, err := UnlockNextLessons(tx, externalUserID, &lesson)
			if err != nil {
				return err
			}
			if unlocked != nil {
				response.UnlockedLessons = unlocked
			}

			badges, err := s.Badges.CheckBadges(tx, profile)
			if err != nil {
				return err
			}
			if badges != nil {
				response.UnlockedBadges = badges
			}

			if _, err := s.Achievements.CheckAchievements(tx, profile); err != nil {
				return err
			}
		}

		// Evaluators may have added XP; report the final level.
		response.NewLevel = profile.Level
		response.LevelUp = profile.Level > levelBefore

		log.Printf("✅ Lesson %s: user %s scored %d (%d⭐, +%d XP)",
			lesson.Slug, externalUserID, score, stars, xpEarned)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// LessonView is a catalog entry annotated with the caller's progress.
type LessonView struct {
	models.Lesson
	IsUnlocked  bool `json:"is_unlocked"`
	IsCompleted bool `json:"is_completed"`
	Stars       int  `json:"stars"`
	BestScore   int  `json:"best_score"`
	Attempts    int  `json:"attempts"`
}

// ListLessons returns the published learning path with the user's progress.
// Lessons with no prerequisites are unlocked by default; anonymous callers
// see only default unlock state.
func (s *LessonService) ListLessons(externalUserID, category string) ([]LessonView, error) {
	q := s.DB.Preload("Prerequisites").
		Where("is_active = ? AND is_published = ?", true, true)
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var lessons []models.Lesson
	if err := q.Order("\"order\" ASC, created_at ASC").Find(&lessons).Error; err != nil {
		return nil, err
	}

	progressByLesson := make(map[string]*models.LessonProgress)
	if externalUserID != "" {
		var rows []models.LessonProgress
		if err := s.DB.Where("external_user_id = ?", externalUserID).Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			progressByLesson[rows[i].LessonID] = &rows[i]
		}
	}

	views := make([]LessonView, 0, len(lessons))
	for i := range lessons {
		lesson := lessons[i]
		view := LessonView{Lesson: lesson}
		view.Exercises = nil

		if lp, ok := progressByLesson[lesson.ID]; ok {
			view.IsUnlocked = lp.IsUnlocked
			view.IsCompleted = lp.IsCompleted
			view.Stars = lp.Stars
			view.BestScore = lp.BestScore
			view.Attempts = lp.Attempts
		}
		if len(lesson.Prerequisites) == 0 {
			view.IsUnlocked = true
		}
		views = append(views, view)
	}
	return views, nil
}

// GetLesson returns one published lesson with its exercises, ordered.
// Correct answers never leave the models layer.
func (s *LessonService) GetLesson(slug string) (*models.Lesson, error) {
	var lesson models.Lesson
	err := s.DB.Preload("Exercises", func(db *gorm.DB) *gorm.DB {
		return db.Order("\"order\" ASC")
	}).Preload("Prerequisites").
		Where("slug = ? AND is_active = ? AND is_published = ?", slug, true, true).
		First(&lesson).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}
