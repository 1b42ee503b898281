package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// XPPerLevel is the amount of XP needed to advance one level.
const XPPerLevel = 100

// MinPassScore is the minimum score (percent) to complete a lesson or challenge.
const MinPassScore = 50

// UserProfile tracks gamified progression for each user (denormalized for performance)
type UserProfile struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // links to profile service

	// Core progression
	Level     int `json:"level" gorm:"default:1"`
	CurrentXP int `json:"current_xp" gorm:"default:0"` // XP inside the current level, always < XPPerLevel
	TotalXP   int `json:"total_xp" gorm:"default:0"`   // lifetime XP, never decreases

	// Streak
	CurrentStreak    int        `json:"current_streak" gorm:"default:0"` // consecutive practice days
	LongestStreak    int        `json:"longest_streak" gorm:"default:0"`
	LastPracticeDate *time.Time `json:"last_practice_date,omitempty"`

	// Activity counters
	TotalLessonsCompleted   int `json:"total_lessons_completed" gorm:"default:0"`
	TotalExercisesCompleted int `json:"total_exercises_completed" gorm:"default:0"`
	TotalPracticeSeconds    int `json:"total_practice_seconds" gorm:"default:0"`

	// Accuracy tracking
	CorrectAnswers int `json:"correct_answers" gorm:"default:0"`
	TotalAnswers   int `json:"total_answers" gorm:"default:0"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// AddXP adds XP to the profile, rolling CurrentXP over into levels.
// CurrentXP < XPPerLevel holds on return. Negative amounts are ignored.
func (p *UserProfile) AddXP(amount int) {
	if amount <= 0 {
		return
	}
	p.TotalXP += amount
	p.CurrentXP += amount
	for p.CurrentXP >= XPPerLevel {
		p.Level++
		p.CurrentXP -= XPPerLevel
	}
}

// UpdateStreak records a practice day. Calling it again on the same day is a
// no-op; a practice on the day after the last one extends the streak; any
// longer gap resets it to 1.
func (p *UserProfile) UpdateStreak(today time.Time) {
	today = dateOnly(today)

	switch {
	case p.LastPracticeDate == nil:
		p.CurrentStreak = 1
	case sameDay(*p.LastPracticeDate, today):
		return
	case sameDay(p.LastPracticeDate.AddDate(0, 0, 1), today):
		p.CurrentStreak++
	default:
		p.CurrentStreak = 1
	}

	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}
	p.LastPracticeDate = &today
}

// Accuracy returns the percentage of correct answers rounded to two decimals,
// or 0 when the user has not answered anything yet.
func (p *UserProfile) Accuracy() float64 {
	if p.TotalAnswers == 0 {
		return 0
	}
	pct := float64(p.CorrectAnswers) / float64(p.TotalAnswers) * 100
	return math.Round(pct*100) / 100
}

// StarsForAccuracy maps an accuracy percentage to a 0-3 star rating.
func StarsForAccuracy(accuracy float64) int {
	switch {
	case accuracy >= 90:
		return 3
	case accuracy >= 70:
		return 2
	case accuracy >= 50:
		return 1
	default:
		return 0
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
