package services_test

import (
	"fmt"
	"testing"
	"time"

	"jamdevientos-api/models"
	"jamdevientos-api/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.UserProfile{},
		&models.Lesson{},
		&models.Exercise{},
		&models.LessonProgress{},
		&models.ExerciseAttempt{},
		&models.Challenge{},
		&models.ChallengeNote{},
		&models.UserChallengeProgress{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Achievement{},
		&models.UserAchievement{},
	))
	return db
}

// createLesson inserts a published lesson with the given number of
// 10 XP exercises.
func createLesson(t *testing.T, db *gorm.DB, slug string, exercises int, prereqs ...*models.Lesson) *models.Lesson {
	t.Helper()
	lesson := &models.Lesson{
		ID:            uuid.NewString(),
		Slug:          slug,
		Title:         slug,
		Category:      models.CategoryNotes,
		Difficulty:    models.DifficultyBeginner,
		XPReward:      50,
		IsActive:      true,
		IsPublished:   true,
		Prerequisites: prereqs,
	}
	require.NoError(t, db.Create(lesson).Error)

	for i := 0; i < exercises; i++ {
		ex := models.Exercise{
			ID:       uuid.NewString(),
			LessonID: lesson.ID,
			Type:     models.ExerciseNoteRecognition,
			Question: fmt.Sprintf("q%d", i),
			XPReward: 10,
			Order:    i,
		}
		require.NoError(t, db.Create(&ex).Error)
		lesson.Exercises = append(lesson.Exercises, ex)
	}
	return lesson
}

func resultsFor(lesson *models.Lesson, correct int) []services.ExerciseResult {
	results := make([]services.ExerciseResult, 0, len(lesson.Exercises))
	for i, ex := range lesson.Exercises {
		results = append(results, services.ExerciseResult{
			ExerciseID: ex.ID,
			IsCorrect:  i < correct,
			TimeSpent:  30,
		})
	}
	return results
}

func TestCompleteLessonHappyPath(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewLessonService(db)
	lesson := createLesson(t, db, "notas-basicas", 4)
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	// 3 of 4 correct: score 75, 2 stars, 30 exercise XP + 50 lesson bonus
	res, err := svc.CompleteLesson("user-1", "notas-basicas",
		&services.CompleteLessonRequest{Results: resultsFor(lesson, 3)}, now)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 75, res.Score)
	assert.Equal(t, 2, res.Stars)
	assert.Equal(t, 80, res.XPEarned)
	assert.Equal(t, 1, res.NewLevel)
	assert.False(t, res.LevelUp)

	var profile models.UserProfile
	require.NoError(t, db.First(&profile, "external_user_id = ?", "user-1").Error)
	assert.Equal(t, 80, profile.TotalXP)
	assert.Equal(t, 80, profile.CurrentXP)
	assert.Equal(t, 1, profile.TotalLessonsCompleted)
	assert.Equal(t, 4, profile.TotalExercisesCompleted)
	assert.Equal(t, 3, profile.CorrectAnswers)
	assert.Equal(t, 4, profile.TotalAnswers)
	assert.Equal(t, 1, profile.CurrentStreak)

	var attempts int64
	require.NoError(t, db.Model(&models.ExerciseAttempt{}).Count(&attempts).Error)
	assert.EqualValues(t, 4, attempts)
}

func TestCompleteLessonFailThenPass(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewLessonService(db)
	lesson := createLesson(t, db, "ritmo-1", 4)
	day1 := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	// 1 of 4 correct: score 25, failed, no lesson bonus
	res, err := svc.CompleteLesson("user-1", "ritmo-1",
		&services.CompleteLessonRequest{Results: resultsFor(lesson, 1)}, day1)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 0, res.Stars)
	assert.Equal(t, 10, res.XPEarned)

	var profile models.UserProfile
	require.NoError(t, db.First(&profile, "external_user_id = ?", "user-1").Error)
	assert.Equal(t, 0, profile.TotalLessonsCompleted)

	// Passing later counts the lesson exactly once
	res, err = svc.CompleteLesson("user-1", "ritmo-1",
		&services.CompleteLessonRequest{Results: resultsFor(lesson, 4)}, day2)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.Stars)
	assert.Equal(t, 90, res.XPEarned) // 40 exercise + 50 bonus

	require.NoError(t, db.First(&profile, "external_user_id = ?", "user-1").Error)
	assert.Equal(t, 1, profile.TotalLessonsCompleted)
	assert.Equal(t, 2, profile.CurrentStreak)

	// A third pass never re-counts the completion or the bonus
	res, err = svc.CompleteLesson("user-1", "ritmo-1",
		&services.CompleteLessonRequest{Results: resultsFor(lesson, 4)}, day2)
	require.NoError(t, err)
	assert.Equal(t, 40, res.XPEarned)

	require.NoError(t, db.First(&profile, "external_user_id = ?", "user-1").Error)
	assert.Equal(t, 1, profile.TotalLessonsCompleted)

	var lp models.LessonProgress
	require.NoError(t, db.First(&lp, "lesson_id = ?", lesson.ID).Error)
	assert.Equal(t, 3, lp.Attempts)
	assert.Equal(t, 100, lp.BestScore)
	assert.Equal(t, 3, lp.Stars)
	assert.True(t, lp.IsCompleted)
}

func TestCompleteLessonBestScoreIsMonotonic(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewLessonService(db)
	lesson := createLesson(t, db, "teoria-1", 4)
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	_, err := svc.CompleteLesson("user-1", "teoria-1",
		&services.CompleteLessonRequest{Results: resultsFor(lesson, 4)}, now)
	require.NoError(t, err)

	// A worse replay must not lower stars or best score
	res, err := svc.CompleteLesson("user-1", "teoria-1",
		&services.CompleteLessonRequest{Results: resultsFor(lesson, 2)}, now)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Score)

	var lp models.LessonProgress
	require.NoError(t, db.First(&lp, "lesson_id = ?", lesson.ID).Error)
	assert.Equal(t, 100, lp.BestScore)
	assert.Equal(t, 3, lp.Stars)
}

func TestCompleteLessonValidation(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewLessonService(db)
	lesson := createLesson(t, db, "acordes-1", 2)
	now := time.Now()

	_, err := svc.CompleteLesson("user-1", "acordes-1",
		&services.CompleteLessonRequest{}, now)
	assert.ErrorIs(t, err, services.ErrEmptyResults)

	_, err = svc.CompleteLesson("user-1", "no-existe",
		&services.CompleteLessonRequest{Results: resultsFor(lesson, 1)}, now)
	assert.ErrorIs(t, err, services.ErrLessonNotFound)

	// An unknown exercise id rejects the whole attempt before any write
	results := resultsFor(lesson, 2)
	results[1].ExerciseID = uuid.NewString()
	_, err = svc.CompleteLesson("user-1", "acordes-1",
		&services.CompleteLessonRequest{Results: results}, now)
	assert.ErrorIs(t, err, services.ErrExerciseNotFound)

	var attempts int64
	require.NoError(t, db.Model(&models.ExerciseAttempt{}).Count(&attempts).Error)
	assert.EqualValues(t, 0, attempts)
	var progresses int64
	require.NoError(t, db.Model(&models.LessonProgress{}).Count(&progresses).Error)
	assert.EqualValues(t, 0, progresses)
}

func TestLessonUnlockRequiresAllPrerequisites(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewLessonService(db)
	a := createLesson(t, db, "lesson-a", 2)
	b := createLesson(t, db, "lesson-b", 2)
	c := createLesson(t, db, "lesson-c", 2, a, b)
	now := time.Now()

	// Completing A alone must not unlock C
	res, err := svc.CompleteLesson("user-1", "lesson-a",
		&services.CompleteLessonRequest{Results: resultsFor(a, 2)}, now)
	require.NoError(t, err)
	assert.Empty(t, res.UnlockedLessons)

	// Completing B finishes the prerequisite set
	res, err = svc.CompleteLesson("user-1", "lesson-b",
		&services.CompleteLessonRequest{Results: resultsFor(b, 2)}, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"lesson-c"}, res.UnlockedLessons)

	var lp models.LessonProgress
	require.NoError(t, db.First(&lp, "lesson_id = ? AND external_user_id = ?", c.ID, "user-1").Error)
	assert.True(t, lp.IsUnlocked)
	assert.False(t, lp.IsCompleted)

	// Replaying B does not report C again
	res, err = svc.CompleteLesson("user-1", "lesson-b",
		&services.CompleteLessonRequest{Results: resultsFor(b, 2)}, now)
	require.NoError(t, err)
	assert.Empty(t, res.UnlockedLessons)
}

func TestListLessonsUnlocksRootsByDefault(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewLessonService(db)
	a := createLesson(t, db, "root-lesson", 1)
	createLesson(t, db, "locked-lesson", 1, a)

	views, err := svc.ListLessons("user-1", "")
	require.NoError(t, err)
	require.Len(t, views, 2)

	bySlug := map[string]bool{}
	for _, v := range views {
		bySlug[v.Slug] = v.IsUnlocked
	}
	assert.True(t, bySlug["root-lesson"])
	assert.False(t, bySlug["locked-lesson"])
}

func TestBadgeUnlocksOnce(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, services.SeedDefaults(db))
	svc := services.NewLessonService(db)
	first := createLesson(t, db, "first", 2)
	second := createLesson(t, db, "second", 2)
	now := time.Now()

	res, err := svc.CompleteLesson("user-1", "first",
		&services.CompleteLessonRequest{Results: resultsFor(first, 2)}, now)
	require.NoError(t, err)

	codes := make([]string, 0, len(res.UnlockedBadges))
	for _, b := range res.UnlockedBadges {
		codes = append(codes, b.Code)
	}
	assert.Contains(t, codes, "first-lesson")

	// The same badge never unlocks twice
	res, err = svc.CompleteLesson("user-1", "second",
		&services.CompleteLessonRequest{Results: resultsFor(second, 2)}, now)
	require.NoError(t, err)
	for _, b := range res.UnlockedBadges {
		assert.NotEqual(t, "first-lesson", b.Code)
	}

	var count int64
	require.NoError(t, db.Model(&models.UserBadge{}).Where("external_user_id = ?", "user-1").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAchievementProgressIsLiveAndMonotonic(t *testing.T) {
	db := newTestDB(t)
	achievement := models.Achievement{
		ID:         uuid.NewString(),
		Code:       "three-lessons",
		Title:      "Tres Lecciones",
		MetricType: models.MetricLessonsCompleted,
		Target:     3,
		XPReward:   100,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&achievement).Error)

	svc := services.NewLessonService(db)
	now := time.Now()
	for i := 1; i <= 3; i++ {
		lesson := createLesson(t, db, fmt.Sprintf("l-%d", i), 2)
		_, err := svc.CompleteLesson("user-1", lesson.Slug,
			&services.CompleteLessonRequest{Results: resultsFor(lesson, 2)}, now)
		require.NoError(t, err)

		var ua models.UserAchievement
		require.NoError(t, db.First(&ua, "achievement_id = ?", achievement.ID).Error)
		assert.Equal(t, i, ua.CurrentProgress)
		assert.Equal(t, i == 3, ua.IsCompleted)
	}

	var profile models.UserProfile
	require.NoError(t, db.First(&profile, "external_user_id = ?", "user-1").Error)
	// 3 lessons x (20 exercise XP + 50 bonus) + 100 achievement XP
	assert.Equal(t, 310, profile.TotalXP)
	assert.Equal(t, 4, profile.Level)
	assert.Equal(t, 10, profile.CurrentXP)
}
