package models

import (
	"math"
	"time"
)

// Achievement is a long-running goal with trackable progress, unlike a Badge
// whose unlock is a single yes/no event.
type Achievement struct {
	ID   string `gorm:"primaryKey;type:uuid" json:"id"`
	Code string `gorm:"uniqueIndex;not null" json:"code"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`

	MetricType string `gorm:"not null" json:"metric_type"` // one of the Metric* constants
	Target     int    `gorm:"not null" json:"target"`

	XPReward int  `gorm:"default:100" json:"xp_reward"`
	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserAchievement tracks per-user progress. CurrentProgress is refreshed on
// every evaluation until completion; once IsCompleted is set the row is
// frozen and never re-evaluated.
type UserAchievement struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"index:idx_user_achievement,unique;not null" json:"external_user_id"`
	AchievementID  string `gorm:"index:idx_user_achievement,unique;not null" json:"achievement_id"`

	CurrentProgress int  `gorm:"default:0" json:"current_progress"`
	IsCompleted     bool `gorm:"default:false" json:"is_completed"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Achievement Achievement `gorm:"foreignKey:AchievementID" json:"-"`

	Timestamps
}

// ProgressPercentage reports completion as a 0-100 percentage, two decimals.
func (ua *UserAchievement) ProgressPercentage(target int) float64 {
	if target <= 0 {
		return 0
	}
	pct := float64(ua.CurrentProgress) / float64(target) * 100
	if pct > 100 {
		pct = 100
	}
	return math.Round(pct*100) / 100
}

// DefaultAchievements are seeded on boot when missing.
var DefaultAchievements = []Achievement{
	{Code: "ten-lessons", Title: "Estudiante Dedicado", Description: "Completa 10 lecciones", MetricType: MetricLessonsCompleted, Target: 10, XPReward: 100},
	{Code: "hundred-exercises", Title: "Centenar", Description: "Completa 100 ejercicios", MetricType: MetricExercisesCompleted, Target: 100, XPReward: 150},
	{Code: "month-streak", Title: "Constancia", Description: "Practica 30 días seguidos", MetricType: MetricStreakDays, Target: 30, XPReward: 300},
	{Code: "ten-perfect", Title: "Virtuoso", Description: "Consigue 3 estrellas en 10 lecciones", MetricType: MetricPerfectLessons, Target: 10, XPReward: 250},
	{Code: "xp-1000", Title: "Mil Puntos", Description: "Acumula 1000 XP", MetricType: MetricTotalXP, Target: 1000, XPReward: 200},
}
