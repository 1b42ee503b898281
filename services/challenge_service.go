package services

import (
	"errors"
	"log"
	"time"

	"jamdevientos-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrInvalidAccuracy   = errors.New("accuracy must be between 0 and 100")
	ErrInvalidBeats      = errors.New("beats_completed must not exceed total_beats, total_beats must be at least 1")
)

// ChallengeService owns the challenge catalog and its completion flow.
type ChallengeService struct {
	DB           *gorm.DB
	Progression  *ProgressionService
	Badges       *BadgeService
	Achievements *AchievementService
}

func NewChallengeService(db *gorm.DB) *ChallengeService {
	return &ChallengeService{
		DB:           db,
		Progression:  NewProgressionService(db),
		Badges:       NewBadgeService(db),
		Achievements: NewAchievementService(db),
	}
}

// CompleteChallengeRequest is the body of POST /challenges/:slug/complete.
// Accuracy is the pitch-tracking score measured by the app.
type CompleteChallengeRequest struct {
	Accuracy       float64 `json:"accuracy"`
	TotalBeats     int     `json:"total_beats"`
	BeatsCompleted int     `json:"beats_completed"`
	TimeSpent      int     `json:"time_spent"` // seconds
}

// challengeXP scales the reward by performance. Truncation is intentional.
func challengeXP(reward, stars int) int {
	switch stars {
	case 3:
		return int(float64(reward) * 1.5)
	case 2:
		return int(float64(reward) * 1.2)
	default:
		return reward
	}
}

// CompleteChallenge processes one challenge attempt. Unlike lessons, XP is
// awarded on every attempt so replaying a challenge stays worthwhile.
func (s *ChallengeService) CompleteChallenge(externalUserID, challengeSlug string, req *CompleteChallengeRequest, now time.Time) (*CompletionResponse, error) {
	if req.Accuracy < 0 || req.Accuracy > 100 {
		return nil, ErrInvalidAccuracy
	}
	if req.TotalBeats < 1 || req.BeatsCompleted > req.TotalBeats {
		return nil, ErrInvalidBeats
	}

	var response *CompletionResponse
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var challenge models.Challenge
		err := tx.Where("slug = ? AND is_active = ?", challengeSlug, true).
			First(&challenge).Error
		if err == gorm.ErrRecordNotFound {
			return ErrChallengeNotFound
		}
		if err != nil {
			return err
		}

		profile, err := s.Progression.EnsureProfile(tx, externalUserID)
		if err != nil {
			return err
		}

		var ucp models.UserChallengeProgress
		err = tx.Where("external_user_id = ? AND challenge_id = ?", externalUserID, challenge.ID).
			First(&ucp).Error
		if err == gorm.ErrRecordNotFound {
			ucp = models.UserChallengeProgress{
				ID:               uuid.NewString(),
				ExternalUserID:   externalUserID,
				ChallengeID:      challenge.ID,
				FirstAttemptedAt: &now,
			}
			if err := tx.Create(&ucp).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		wasCompleted := ucp.IsCompleted

		stars := models.StarsForAccuracy(req.Accuracy)
		xpEarned := challengeXP(challenge.XPReward, stars)

		ucp.Attempts++
		ucp.LastAttemptedAt = &now
		if ucp.FirstAttemptedAt == nil {
			ucp.FirstAttemptedAt = &now
		}
		ucp.Accuracy = req.Accuracy
		if req.Accuracy > ucp.BestAccuracy {
			ucp.BestAccuracy = req.Accuracy
		}
		if stars > ucp.Stars {
			ucp.Stars = stars
		}
		ucp.TotalXPEarned += xpEarned

		passed := req.Accuracy >= float64(models.MinPassScore)
		justCompleted := passed && !wasCompleted
		if passed {
			ucp.IsCompleted = true
			if ucp.CompletedAt == nil {
				ucp.CompletedAt = &now
			}
		}
		if err := tx.Save(&ucp).Error; err != nil {
			return err
		}

		profile.TotalExercisesCompleted++
		profile.TotalPracticeSeconds += req.TimeSpent
		profile.UpdateStreak(now)

		levelBefore := profile.Level
		profile.AddXP(xpEarned)
		if err := tx.Save(profile).Error; err != nil {
			return err
		}

		accuracy := req.Accuracy
		response = &CompletionResponse{
			Success:         passed,
			Stars:           ucp.Stars,
			Score:           int(req.Accuracy),
			Accuracy:        &accuracy,
			XPEarned:        xpEarned,
			UnlockedLessons: []string{},
			UnlockedBadges:  []BadgeInfo{},
		}

		if justCompleted {
			badges, err := s.Badges.CheckBadges(tx, profile)
			if err != nil {
				return err
			}
			if badges != nil {
				response.UnlockedBadges = badges
			}
			if _, err := s.Achievements.CheckAchievements(tx, profile); err != nil {
				return err
			}
		}

		response.NewLevel = profile.Level
		response.LevelUp = profile.Level > levelBefore

		log.Printf("✅ Challenge %s: user %s at %.1f%% accuracy (%d⭐, +%d XP)",
			challenge.Slug, externalUserID, req.Accuracy, stars, xpEarned)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// ChallengeView is a catalog entry annotated with the caller's progress.
type ChallengeView struct {
	models.Challenge
	IsCompleted  bool    `json:"is_completed"`
	Stars        int     `json:"stars"`
	BestAccuracy float64 `json:"best_accuracy"`
	Attempts     int     `json:"attempts"`
}

// ListChallenges returns published challenges with the user's progress.
func (s *ChallengeService) ListChallenges(externalUserID string) ([]ChallengeView, error) {
	var challenges []models.Challenge
	err := s.DB.Where("is_active = ? AND is_published = ?", true, true).
		Order("\"order\" ASC, created_at ASC").
		Find(&challenges).Error
	if err != nil {
		return nil, err
	}

	progressByChallenge := make(map[string]*models.UserChallengeProgress)
	if externalUserID != "" {
		var rows []models.UserChallengeProgress
		if err := s.DB.Where("external_user_id = ?", externalUserID).Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			progressByChallenge[rows[i].ChallengeID] = &rows[i]
		}
	}

	views := make([]ChallengeView, 0, len(challenges))
	for i := range challenges {
		challenge := challenges[i]
		view := ChallengeView{Challenge: challenge}
		view.Notes = nil

		if ucp, ok := progressByChallenge[challenge.ID]; ok {
			view.IsCompleted = ucp.IsCompleted
			view.Stars = ucp.Stars
			view.BestAccuracy = ucp.BestAccuracy
			view.Attempts = ucp.Attempts
		}
		views = append(views, view)
	}
	return views, nil
}

// GetChallenge returns one published challenge with its note sequence.
func (s *ChallengeService) GetChallenge(slug string) (*models.Challenge, error) {
	var challenge models.Challenge
	err := s.DB.Preload("Notes", func(db *gorm.DB) *gorm.DB {
		return db.Order("\"order\" ASC")
	}).Where("slug = ? AND is_active = ? AND is_published = ?", slug, true, true).
		First(&challenge).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrChallengeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}
