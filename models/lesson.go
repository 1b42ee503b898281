package models

import (
	"time"
)

// Lesson categories
const (
	CategoryNotes     = "notes"
	CategoryRhythm    = "rhythm"
	CategoryTheory    = "theory"
	CategoryChords    = "chords"
	CategoryIntervals = "intervals"
)

// LessonCategories lists the valid lesson categories in display order.
var LessonCategories = []string{
	CategoryNotes, CategoryRhythm, CategoryTheory, CategoryChords, CategoryIntervals,
}

// Lesson difficulty levels
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Lesson is a unit of the learning path. Prerequisites form a DAG: a lesson
// unlocks only once every prerequisite is completed. Acyclicity is an
// authoring-time precondition; the unlock engine does not re-check it.
type Lesson struct {
	ID   string `gorm:"primaryKey;type:uuid" json:"id"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`                           // emoji shown on the learning path
	Color       string `gorm:"default:'#1CB0F6'" json:"color"` // HEX

	Category   string `gorm:"index;not null" json:"category"`
	Difficulty string `gorm:"not null" json:"difficulty"`

	EstimatedTime int `json:"estimated_time"` // minutes
	XPReward      int `gorm:"default:50" json:"xp_reward"`

	Prerequisites []*Lesson `gorm:"many2many:lesson_prerequisites" json:"-"`

	Order       int  `gorm:"default:0" json:"order"`
	IsActive    bool `gorm:"default:true" json:"is_active"`
	IsPublished bool `gorm:"default:false;index" json:"is_published"`

	Exercises []Exercise `gorm:"foreignKey:LessonID" json:"exercises,omitempty"`

	Timestamps
}

// Exercise types
const (
	ExerciseNoteRecognition = "note-recognition"
	ExerciseRhythm          = "rhythm"
	ExerciseChord           = "chord"
	ExerciseInterval        = "interval"
	ExerciseTheory          = "theory"
)

// Exercise is a single question inside a lesson. CorrectAnswer is never
// serialized to clients; graded answers arrive pre-checked from the app.
type Exercise struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	LessonID string `gorm:"index;not null" json:"lesson_id"`

	Type     string `gorm:"not null" json:"type"`
	Question string `gorm:"not null" json:"question"`
	Hint     string `json:"hint"`

	Options       string `gorm:"type:jsonb" json:"options"` // e.g. ["Do","Re","Mi","Fa"]
	CorrectAnswer string `gorm:"type:jsonb" json:"-"`

	Difficulty string `json:"difficulty"` // easy | medium | hard
	XPReward   int    `gorm:"default:10" json:"xp_reward"`
	Order      int    `gorm:"default:0" json:"order"`

	Timestamps
}

// LessonProgress is the per-(user, lesson) state. Completion is monotonic:
// IsCompleted never reverts, BestScore and Stars only move upward.
type LessonProgress struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"index:idx_lesson_progress_user_lesson,unique;not null" json:"external_user_id"`
	LessonID       string `gorm:"index:idx_lesson_progress_user_lesson,unique;not null" json:"lesson_id"`

	IsCompleted bool `gorm:"default:false" json:"is_completed"`
	IsUnlocked  bool `gorm:"default:false" json:"is_unlocked"`

	Stars     int `gorm:"default:0" json:"stars"`      // 0-3
	BestScore int `gorm:"default:0" json:"best_score"` // 0-100
	Attempts  int `gorm:"default:0" json:"attempts"`

	FirstAttemptedAt *time.Time `json:"first_attempted_at,omitempty"`
	LastAttemptedAt  *time.Time `json:"last_attempted_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`

	Lesson Lesson `gorm:"foreignKey:LessonID" json:"-"`

	Timestamps
}

// ExerciseAttempt is an append-only record of one answered exercise.
type ExerciseAttempt struct {
	ID               string  `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID   string  `gorm:"index;not null" json:"external_user_id"`
	ExerciseID       string  `gorm:"index;not null" json:"exercise_id"`
	LessonProgressID *string `gorm:"index" json:"lesson_progress_id,omitempty"`

	UserAnswer string `gorm:"type:jsonb" json:"user_answer"`
	IsCorrect  bool   `json:"is_correct"`

	TimeSpent int `json:"time_spent"` // seconds
	XPEarned  int `gorm:"default:0" json:"xp_earned"`

	AttemptedAt time.Time `gorm:"autoCreateTime" json:"attempted_at"`
}
