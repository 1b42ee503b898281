package services

import (
	"strconv"
	"time"

	"jamdevientos-api/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// JDVService is the public read API consumed by the Jam de Vientos site.
// Only public, non-cancelled events are visible here.
type JDVService struct {
	DB *gorm.DB
}

func NewJDVService(db *gorm.DB) *JDVService {
	return &JDVService{DB: db}
}

func (s *JDVService) publicEvents() *gorm.DB {
	return s.DB.Model(&models.Event{}).
		Where("is_public = ? AND status <> ?", true, models.EventCancelled)
}

// ListPublicEvents returns all visible events ordered by start date.
func (s *JDVService) ListPublicEvents(c *fiber.Ctx) error {
	var events []models.Event
	err := s.publicEvents().
		Preload("Location").
		Order("start_datetime ASC").
		Find(&events).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(events)
}

// GetPublicEvent returns one event with its full repertoire: versions in
// order, each with its theme, sheet music and downloadable files.
func (s *JDVService) GetPublicEvent(c *fiber.Ctx) error {
	var event models.Event
	err := s.publicEvents().
		Preload("Location").
		Preload("Repertoire").
		Preload("Repertoire.Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("\"order\" ASC")
		}).
		Preload("Repertoire.Versions.Version").
		Preload("Repertoire.Versions.Version.Theme").
		Preload("Repertoire.Versions.Version.SheetMusic").
		Preload("Repertoire.Versions.Version.VersionFiles").
		First(&event, "events.id = ?", c.Params("id")).Error
	if err == gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(event)
}

// UpcomingEvents returns future visible events, optionally limited.
func (s *JDVService) UpcomingEvents(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be a positive integer"})
		}
		limit = parsed
	}

	q := s.publicEvents().
		Preload("Location").
		Where("start_datetime > ?", time.Now()).
		Order("start_datetime ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var events []models.Event
	if err := q.Find(&events).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(events)
}

// CarouselEvents returns the next 10 confirmed public events for the home
// page carousel.
func (s *JDVService) CarouselEvents(c *fiber.Ctx) error {
	var events []models.Event
	err := s.DB.Model(&models.Event{}).
		Where("is_public = ? AND status = ? AND start_datetime > ?",
			true, models.EventConfirmed, time.Now()).
		Preload("Location").
		Order("start_datetime ASC").
		Limit(10).
		Find(&events).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(events)
}
