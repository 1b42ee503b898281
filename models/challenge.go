package models

import (
	"time"
)

// Challenge is a play-along exercise scored by continuous pitch accuracy
// rather than discrete right/wrong answers.
type Challenge struct {
	ID   string `gorm:"primaryKey;type:uuid" json:"id"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"` // e.g. "long-tones", "scale"
	Difficulty  string `json:"difficulty"`

	XPReward int `gorm:"default:50" json:"xp_reward"`
	Order    int `gorm:"default:0" json:"order"`

	IsActive    bool `gorm:"default:true" json:"is_active"`
	IsPublished bool `gorm:"default:false;index" json:"is_published"`

	Notes []ChallengeNote `gorm:"foreignKey:ChallengeID" json:"notes,omitempty"`

	Timestamps
}

// ChallengeNote is one note of the sequence the player must hold.
type ChallengeNote struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	ChallengeID string `gorm:"index;not null" json:"challenge_id"`

	Note        string  `gorm:"not null" json:"note"` // e.g. "C", "F#"
	Octave      int     `json:"octave"`
	BeatsToHold float64 `json:"beats_to_hold"`
	BPM         int     `json:"bpm"`

	// CentsThreshold is the pitch tolerance: how far off (in cents) a
	// sustained note may drift and still count.
	CentsThreshold int `gorm:"default:50" json:"cents_threshold"`

	Order int `gorm:"default:0" json:"order"`
}

// UserChallengeProgress is the per-(user, challenge) state. Accuracy holds
// the latest attempt; BestAccuracy, Stars and IsCompleted are monotonic.
type UserChallengeProgress struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"index:idx_challenge_progress_user_challenge,unique;not null" json:"external_user_id"`
	ChallengeID    string `gorm:"index:idx_challenge_progress_user_challenge,unique;not null" json:"challenge_id"`

	IsCompleted bool `gorm:"default:false" json:"is_completed"`

	Stars         int     `gorm:"default:0" json:"stars"`
	Accuracy      float64 `gorm:"default:0" json:"accuracy"`      // latest attempt
	BestAccuracy  float64 `gorm:"default:0" json:"best_accuracy"` // monotonic max
	Attempts      int     `gorm:"default:0" json:"attempts"`
	TotalXPEarned int     `gorm:"default:0" json:"total_xp_earned"`

	FirstAttemptedAt *time.Time `json:"first_attempted_at,omitempty"`
	LastAttemptedAt  *time.Time `json:"last_attempted_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`

	Challenge Challenge `gorm:"foreignKey:ChallengeID" json:"-"`

	Timestamps
}
