package services

import (
	"errors"
	"log"
	"time"

	"jamdevientos-api/models"
	"jamdevientos-api/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventService manages locations, repertoires and events. Methods are Fiber
// handlers, same shape as the catalog service.
type EventService struct {
	DB       *gorm.DB
	Webhooks *workers.WebhookDispatcher
}

func NewEventService(db *gorm.DB, webhooks *workers.WebhookDispatcher) *EventService {
	return &EventService{DB: db, Webhooks: webhooks}
}

// ===== Locations =====

func (s *EventService) CreateLocation(c *fiber.Ctx) error {
	var location models.Location
	if err := c.BodyParser(&location); err != nil || location.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}
	if location.Capacity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "capacity must be at least 1"})
	}

	location.ID = uuid.NewString()
	location.IsActive = true
	if err := s.DB.Create(&location).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(location)
}

func (s *EventService) ListLocations(c *fiber.Ctx) error {
	var locations []models.Location
	if err := s.DB.Where("is_active = ?", true).Order("name ASC").Find(&locations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(locations)
}

// ===== Repertoires =====

// CreateRepertoire creates a repertoire with an ordered list of version ids.
func (s *EventService) CreateRepertoire(c *fiber.Ctx) error {
	var body struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		VersionIDs  []string `json:"version_ids"`
	}
	if err := c.BodyParser(&body); err != nil || body.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	repertoire := &models.Repertoire{
		ID:          uuid.NewString(),
		Name:        body.Name,
		Description: body.Description,
		IsActive:    true,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(repertoire).Error; err != nil {
			return err
		}
		for i, versionID := range body.VersionIDs {
			var version models.Version
			if err := tx.First(&version, "id = ?", versionID).Error; err != nil {
				return errors.New("unknown version: " + versionID)
			}
			rv := models.RepertoireVersion{
				ID:           uuid.NewString(),
				RepertoireID: repertoire.ID,
				VersionID:    versionID,
				Order:        i,
			}
			if err := tx.Create(&rv).Error; err != nil {
				return err
			}
		}
		return tx.Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("\"order\" ASC")
		}).First(repertoire, "id = ?", repertoire.ID).Error
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to create repertoire",
			"cause": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(repertoire)
}

func (s *EventService) GetRepertoire(c *fiber.Ctx) error {
	var repertoire models.Repertoire
	err := s.DB.Preload("Versions", func(db *gorm.DB) *gorm.DB {
		return db.Order("\"order\" ASC")
	}).Preload("Versions.Version").
		First(&repertoire, "id = ?", c.Params("id")).Error
	if err == gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "repertoire not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(repertoire)
}

func (s *EventService) ListRepertoires(c *fiber.Ctx) error {
	var repertoires []models.Repertoire
	if err := s.DB.Where("is_active = ?", true).Order("name ASC").Find(&repertoires).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(repertoires)
}

// ===== Events =====

func (s *EventService) CreateEvent(c *fiber.Ctx) error {
	var event models.Event
	if err := c.BodyParser(&event); err != nil || event.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}
	if event.EventType == "" {
		event.EventType = models.EventConcert
	}
	if event.Status == "" {
		event.Status = models.EventDraft
	}

	if err := event.Validate(true, time.Now()); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	event.ID = uuid.NewString()
	if err := s.DB.Create(&event).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	s.Webhooks.Publish("Event", event.ID, map[string]interface{}{
		"title": event.Title,
		"type":  event.EventType,
		"start": event.StartDatetime,
	})

	log.Printf("📅 Event created: %s (%s)", event.Title, event.EventType)
	return c.Status(fiber.StatusCreated).JSON(event)
}

func (s *EventService) ListEvents(c *fiber.Ctx) error {
	q := s.DB.Preload("Location").Order("start_datetime ASC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var events []models.Event
	if err := q.Find(&events).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(events)
}

func (s *EventService) GetEvent(c *fiber.Ctx) error {
	var event models.Event
	err := s.DB.Preload("Location").Preload("Repertoire").
		First(&event, "id = ?", c.Params("id")).Error
	if err == gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(event)
}

// UpdateEvent patches an event. Date validation keeps running on updates,
// but the no-past rule applies only at creation.
func (s *EventService) UpdateEvent(c *fiber.Ctx) error {
	var event models.Event
	if err := s.DB.First(&event, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event not found"})
	}

	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := event.Validate(false, time.Now()); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.DB.Save(&event).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(event)
}

func (s *EventService) DeleteEvent(c *fiber.Ctx) error {
	result := s.DB.Delete(&models.Event{}, "id = ?", c.Params("id"))
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": result.Error.Error()})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event not found"})
	}
	return c.JSON(fiber.Map{"message": "event deleted"})
}

// CompleteEndedEvents flips CONFIRMED events whose end has passed to
// COMPLETED. Called by the scheduler.
func (s *EventService) CompleteEndedEvents(now time.Time) (int64, error) {
	result := s.DB.Model(&models.Event{}).
		Where("status = ? AND end_datetime < ?", models.EventConfirmed, now).
		Update("status", models.EventCompleted)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("🗓️  Marked %d ended event(s) as completed", result.RowsAffected)
	}
	return result.RowsAffected, nil
}
