package models

import (
	"time"
)

// Metric types shared by badges and achievements.
const (
	MetricLessonsCompleted   = "lessons_completed"
	MetricExercisesCompleted = "exercises_completed"
	MetricStreakDays         = "streak_days"
	MetricPerfectLessons     = "perfect_lessons" // lessons finished with 3 stars
	MetricTotalXP            = "total_xp"
)

// Badge categories
const (
	BadgeCategoryBeginner = "beginner"
	BadgeCategoryProgress = "progress"
	BadgeCategoryMastery  = "mastery"
	BadgeCategoryStreak   = "streak"
	BadgeCategorySpecial  = "special"
)

// Badge: static config, seeded at boot. The unlock criterion is a single
// (metric, target) pair; unlocking is the creation of a UserBadge row.
type Badge struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Code        string `gorm:"uniqueIndex;not null" json:"code"` // e.g. "first-lesson"
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"` // emoji
	Category    string `gorm:"type:varchar(32);default:'progress'" json:"category"`

	CriteriaType   string `gorm:"not null" json:"criteria_type"` // one of the Metric* constants
	CriteriaTarget int    `gorm:"not null" json:"criteria_target"`

	XPReward int  `gorm:"default:0" json:"xp_reward"`
	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserBadge: awarded instance. Its existence is the unlock; there is no
// partial-progress state.
type UserBadge struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"index:idx_user_badge,unique;not null" json:"external_user_id"`
	BadgeID        string    `gorm:"index:idx_user_badge,unique;not null" json:"badge_id"`
	UnlockedAt     time.Time `gorm:"autoCreateTime" json:"unlocked_at"`

	Badge Badge `gorm:"foreignKey:BadgeID" json:"-"`
}

// DefaultBadges are seeded on boot when missing.
var DefaultBadges = []Badge{
	{
		Code:           "first-lesson",
		Name:           "Primera Lección",
		Description:    "Completaste tu primera lección",
		Icon:           "🎵",
		Category:       BadgeCategoryBeginner,
		CriteriaType:   MetricLessonsCompleted,
		CriteriaTarget: 1,
		XPReward:       25,
	},
	{
		Code:           "five-lessons",
		Name:           "En Camino",
		Description:    "Completaste 5 lecciones",
		Icon:           "🎶",
		Category:       BadgeCategoryProgress,
		CriteriaType:   MetricLessonsCompleted,
		CriteriaTarget: 5,
		XPReward:       50,
	},
	{
		Code:           "perfectionist",
		Name:           "Perfeccionista",
		Description:    "Conseguiste 3 estrellas en 3 lecciones",
		Icon:           "⭐",
		Category:       BadgeCategoryMastery,
		CriteriaType:   MetricPerfectLessons,
		CriteriaTarget: 3,
		XPReward:       75,
	},
	{
		Code:           "week-streak",
		Name:           "Semana Completa",
		Description:    "Practicaste 7 días seguidos",
		Icon:           "🔥",
		Category:       BadgeCategoryStreak,
		CriteriaType:   MetricStreakDays,
		CriteriaTarget: 7,
		XPReward:       100,
	},
	{
		Code:           "xp-500",
		Name:           "Medio Millar",
		Description:    "Acumulaste 500 XP",
		Icon:           "💎",
		Category:       BadgeCategorySpecial,
		CriteriaType:   MetricTotalXP,
		CriteriaTarget: 500,
		XPReward:       50,
	},
}
