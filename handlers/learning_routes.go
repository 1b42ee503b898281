// handlers/learning_routes.go
package handlers

import (
	"errors"
	"time"

	"jamdevientos-api/middleware"
	"jamdevientos-api/services"

	"github.com/gofiber/fiber/v2"
)

// SetupLearningRoutes wires the learning path: lessons, challenges and the
// per-user progress endpoints. Reads work anonymously; completions and user
// endpoints require the gateway-forwarded identity.
func SetupLearningRoutes(app *fiber.App,
	lessonService *services.LessonService,
	challengeService *services.ChallengeService,
	badgeService *services.BadgeService,
	achievementService *services.AchievementService,
) {
	group := app.Group("/", middleware.UserContextMiddleware())

	// ===== Lessons =====

	group.Get("/lessons", func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		lessons, err := lessonService.ListLessons(userID, c.Query("category"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list lessons",
				"cause": err.Error(),
			})
		}
		return c.JSON(lessons)
	})

	group.Get("/lessons/:slug", func(c *fiber.Ctx) error {
		lesson, err := lessonService.GetLesson(c.Params("slug"))
		if errors.Is(err, services.ErrLessonNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "lesson not found"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get lesson",
				"cause": err.Error(),
			})
		}
		return c.JSON(lesson)
	})

	group.Post("/lessons/:slug/complete", func(c *fiber.Ctx) error {
		userID := middleware.RequireUser(c)
		if userID == "" {
			return nil
		}

		var req services.CompleteLessonRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		result, err := lessonService.CompleteLesson(userID, c.Params("slug"), &req, time.Now())
		switch {
		case errors.Is(err, services.ErrLessonNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "lesson not found"})
		case errors.Is(err, services.ErrEmptyResults), errors.Is(err, services.ErrExerciseNotFound):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case err != nil:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to complete lesson",
				"cause": err.Error(),
			})
		}
		return c.JSON(result)
	})

	// ===== Challenges =====

	group.Get("/challenges", func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		challenges, err := challengeService.ListChallenges(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list challenges",
				"cause": err.Error(),
			})
		}
		return c.JSON(challenges)
	})

	group.Get("/challenges/:slug", func(c *fiber.Ctx) error {
		challenge, err := challengeService.GetChallenge(c.Params("slug"))
		if errors.Is(err, services.ErrChallengeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "challenge not found"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get challenge",
				"cause": err.Error(),
			})
		}
		return c.JSON(challenge)
	})

	group.Post("/challenges/:slug/complete", func(c *fiber.Ctx) error {
		userID := middleware.RequireUser(c)
		if userID == "" {
			return nil
		}

		var req services.CompleteChallengeRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		result, err := challengeService.CompleteChallenge(userID, c.Params("slug"), &req, time.Now())
		switch {
		case errors.Is(err, services.ErrChallengeNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "challenge not found"})
		case errors.Is(err, services.ErrInvalidAccuracy), errors.Is(err, services.ErrInvalidBeats):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case err != nil:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to complete challenge",
				"cause": err.Error(),
			})
		}
		return c.JSON(result)
	})

	// ===== User progress =====

	group.Get("/user/progress", func(c *fiber.Ctx) error {
		userID := middleware.RequireUser(c)
		if userID == "" {
			return nil
		}
		summary, err := lessonService.Progression.GetProfileSummary(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get progress",
				"cause": err.Error(),
			})
		}
		return c.JSON(summary)
	})

	group.Get("/user/stats", func(c *fiber.Ctx) error {
		userID := middleware.RequireUser(c)
		if userID == "" {
			return nil
		}
		stats, err := lessonService.Progression.GetUserStats(userID, time.Now())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get stats",
				"cause": err.Error(),
			})
		}
		return c.JSON(stats)
	})

	// Manual streak ping, for practice done outside lessons (e.g. tuner).
	group.Post("/user/streak/update", func(c *fiber.Ctx) error {
		userID := middleware.RequireUser(c)
		if userID == "" {
			return nil
		}

		progression := lessonService.Progression
		profile, err := progression.EnsureProfile(progression.DB, userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load profile",
				"cause": err.Error(),
			})
		}
		if err := progression.UpdateStreak(progression.DB, profile, time.Now()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update streak",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"current_streak": profile.CurrentStreak,
			"longest_streak": profile.LongestStreak,
		})
	})

	group.Get("/user/badges", func(c *fiber.Ctx) error {
		userID := middleware.RequireUser(c)
		if userID == "" {
			return nil
		}
		badges, err := badgeService.ListBadges(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list badges",
				"cause": err.Error(),
			})
		}
		return c.JSON(badges)
	})

	group.Get("/user/achievements", func(c *fiber.Ctx) error {
		userID := middleware.RequireUser(c)
		if userID == "" {
			return nil
		}
		achievements, err := achievementService.ListAchievements(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list achievements",
				"cause": err.Error(),
			})
		}
		return c.JSON(achievements)
	})
}
