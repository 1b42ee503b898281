package models

import (
	"errors"
	"time"
)

// Event types
const (
	EventConcert   = "CONCERT"
	EventRehearsal = "REHEARSAL"
	EventRecording = "RECORDING"
	EventWorkshop  = "WORKSHOP"
	EventOther     = "OTHER"
)

// Event statuses
const (
	EventDraft     = "DRAFT"
	EventConfirmed = "CONFIRMED"
	EventCancelled = "CANCELLED"
	EventCompleted = "COMPLETED"
)

var (
	ErrEventDatesInverted = errors.New("event start must be before its end")
	ErrEventInThePast     = errors.New("cannot create an event in the past")
)

// Location is a venue where events take place.
type Location struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	Name       string `gorm:"not null;index" json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `gorm:"default:'Argentina'" json:"country"`
	Capacity   int    `json:"capacity"`

	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	Website      string `json:"website,omitempty"`
	Notes        string `json:"notes,omitempty"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	Timestamps
}

// Repertoire groups the versions played at an event, in order.
type Repertoire struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	Versions []RepertoireVersion `gorm:"foreignKey:RepertoireID" json:"versions,omitempty"`

	Timestamps
}

// RepertoireVersion pins a version into a repertoire at a given position.
type RepertoireVersion struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	RepertoireID string `gorm:"index:idx_repertoire_version,unique;not null" json:"repertoire_id"`
	VersionID    string `gorm:"index:idx_repertoire_version,unique;not null" json:"version_id"`

	Order int    `gorm:"default:0" json:"order"`
	Notes string `json:"notes,omitempty"`

	Version Version `gorm:"foreignKey:VersionID" json:"version"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Event is a scheduled performance of a repertoire at a location.
type Event struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	Title       string `gorm:"not null" json:"title"`
	EventType   string `gorm:"type:varchar(20);default:'CONCERT'" json:"event_type"`
	Status      string `gorm:"type:varchar(20);default:'DRAFT';index" json:"status"`
	Description string `json:"description"`

	StartDatetime time.Time `gorm:"not null;index" json:"start_datetime"`
	EndDatetime   time.Time `gorm:"not null" json:"end_datetime"`

	LocationID   *string `gorm:"index" json:"location_id,omitempty"`
	RepertoireID *string `gorm:"index" json:"repertoire_id,omitempty"`

	IsPublic     bool    `gorm:"default:false;index" json:"is_public"`
	MaxAttendees *int    `json:"max_attendees,omitempty"` // nil means use the location capacity
	Price        float64 `gorm:"default:0" json:"price"`

	Location   *Location   `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Repertoire *Repertoire `gorm:"foreignKey:RepertoireID" json:"repertoire,omitempty"`

	Timestamps
}

// Validate enforces the date rules. The past-date rule applies only when the
// event is being created (isNew).
func (e *Event) Validate(isNew bool, now time.Time) error {
	if !e.StartDatetime.Before(e.EndDatetime) {
		return ErrEventDatesInverted
	}
	if isNew && e.StartDatetime.Before(now) {
		return ErrEventInThePast
	}
	return nil
}

// IsUpcoming reports whether the event is scheduled for the future.
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.StartDatetime.After(now)
}

// IsOngoing reports whether the event is currently in progress.
func (e *Event) IsOngoing(now time.Time) bool {
	return !now.Before(e.StartDatetime) && !now.After(e.EndDatetime)
}
