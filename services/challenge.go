package services

import (
	"hash/fnv"
	"log"
	"math/rand"
	"time"

	"creator-compass-gamification/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChallengeService generates and settles the bounded set of daily challenges.
// Rows are never deleted; expiry is a date comparison at read time so history
// survives for analytics.
type ChallengeService struct {
	DB     *gorm.DB
	Ledger *XPLedgerService
	now    func() time.Time
}

// DailyChallengeCount is how many challenges each user gets per calendar day,
// one per difficulty.
const DailyChallengeCount = 3

func NewChallengeService(db *gorm.DB) *ChallengeService {
	return &ChallengeService{
		DB:     db,
		Ledger: NewXPLedgerService(db),
		now:    time.Now,
	}
}

// GenerateDailyChallenges instantiates today's challenges for a user.
// Idempotent: existing rows for today are returned unchanged. Template
// selection is deterministic per (user, date), so overlapping calls pick the
// same templates and the unique index collapses the inserts.
func (s *ChallengeService) GenerateDailyChallenges(userID string) ([]models.Challenge, error) {
	today := dateKey(s.now())

	var existing []models.Challenge
	if err := s.DB.Where("user_id = ? AND assigned_date = ?", userID, today).
		Order("created_at ASC").
		Find(&existing).Error; err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	// Avoid repeating yesterday's templates where the pool allows it
	yesterday := dateKey(s.now().AddDate(0, 0, -1))
	var priorCodes []string
	if err := s.DB.Model(&models.Challenge{}).
		Where("user_id = ? AND assigned_date = ?", userID, yesterday).
		Pluck("template_code", &priorCodes).Error; err != nil {
		return nil, err
	}
	prior := make(map[string]bool, len(priorCodes))
	for _, c := range priorCodes {
		prior[c] = true
	}

	rng := rand.New(rand.NewSource(selectionSeed(userID, today)))
	picked := pickTemplates(rng, prior)

	challenges := make([]models.Challenge, 0, len(picked))
	for _, tpl := range picked {
		challenges = append(challenges, models.Challenge{
			ID:             uuid.NewString(),
			UserID:         userID,
			TemplateCode:   tpl.Code,
			AssignedDate:   today,
			ActionType:     tpl.ActionType,
			ProgressTarget: tpl.Target,
			Status:         models.ChallengeStatusActive,
		})
	}

	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&challenges).Error; err != nil {
		return nil, err
	}
	log.Printf("📅 Daily challenges generated: %s → %d for %s", userID, len(challenges), today)

	// Re-read so a concurrent generator's rows win consistently
	var rows []models.Challenge
	if err := s.DB.Where("user_id = ? AND assigned_date = ?", userID, today).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func selectionSeed(userID, date string) int64 {
	h := fnv.New64a()
	h.Write([]byte(userID))
	h.Write([]byte(date))
	return int64(h.Sum64())
}

// pickTemplates draws one template per difficulty, preferring ones the user
// didn't have yesterday. A difficulty whose whole pool repeats falls back to
// any of its templates.
func pickTemplates(rng *rand.Rand, prior map[string]bool) []models.ChallengeTemplate {
	order := []models.ChallengeDifficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard}

	var picked []models.ChallengeTemplate
	for _, diff := range order {
		var pool, fresh []models.ChallengeTemplate
		for _, tpl := range models.ChallengeTemplates {
			if tpl.Difficulty != diff {
				continue
			}
			pool = append(pool, tpl)
			if !prior[tpl.Code] {
				fresh = append(fresh, tpl)
			}
		}
		if len(fresh) > 0 {
			pool = fresh
		}
		if len(pool) == 0 {
			continue
		}
		picked = append(picked, pool[rng.Intn(len(pool))])
	}
	return picked
}

// GetActiveChallenges returns today's challenges. Rows from earlier dates are
// logically expired and excluded here but kept in the table.
func (s *ChallengeService) GetActiveChallenges(userID string) ([]models.Challenge, error) {
	var rows []models.Challenge
	err := s.DB.Where("user_id = ? AND assigned_date = ?", userID, dateKey(s.now())).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// RecordActionProgress advances today's active challenges matching an action
// type. The increment and the active→completed transition are each a single
// conditional UPDATE, so two overlapping awards cannot double-complete a row.
func (s *ChallengeService) RecordActionProgress(userID, actionType string) error {
	today := dateKey(s.now())

	err := s.DB.Model(&models.Challenge{}).
		Where("user_id = ? AND assigned_date = ? AND action_type = ? AND status = ?",
			userID, today, actionType, models.ChallengeStatusActive).
		UpdateColumn("progress_current", gorm.Expr("progress_current + ?", 1)).Error
	if err != nil {
		return err
	}

	res := s.DB.Model(&models.Challenge{}).
		Where("user_id = ? AND assigned_date = ? AND status = ? AND progress_current >= progress_target",
			userID, today, models.ChallengeStatusActive).
		Updates(map[string]interface{}{
			"status":       models.ChallengeStatusCompleted,
			"completed_at": s.now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("✅ Challenge completed: %s (%s ×%d)", userID, actionType, res.RowsAffected)
	}
	return nil
}

// GetChallengeProgress reports one challenge's completion state.
// Returns nil when the challenge doesn't exist or belongs to someone else.
func (s *ChallengeService) GetChallengeProgress(userID, challengeID string) (*models.ChallengeProgress, error) {
	var ch models.Challenge
	err := s.DB.Where("id = ? AND user_id = ?", challengeID, userID).First(&ch).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	pct := float64(ch.ProgressCurrent) / float64(ch.ProgressTarget) * 100
	if pct > 100 {
		pct = 100
	}
	return &models.ChallengeProgress{
		ChallengeID: ch.ID,
		Percentage:  pct,
		IsCompleted: ch.Status == models.ChallengeStatusCompleted || ch.Status == models.ChallengeStatusClaimed,
		CompletedAt: ch.CompletedAt,
		ClaimedAt:   ch.ClaimedAt,
	}, nil
}

// ClaimChallenge converts a completed challenge into a claimed one, exactly
// once, and pays out the template's XP through the ledger. Returns nil for
// anything that isn't today's completed-unclaimed challenge owned by the
// user — active, already claimed, expired, or missing. The transition and the
// payout run in one transaction, so a payout failure rolls the claim back and
// leaves the challenge claimable.
func (s *ChallengeService) ClaimChallenge(userID, challengeID string) (*models.ChallengeClaimResult, error) {
	var result *models.ChallengeClaimResult
	var templateCode string

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Single conditional transition — the WHERE carries the state check,
		// so a double-click claims at most once. The assigned_date predicate
		// keeps the claim window aligned with EffectiveStatus expiry.
		res := tx.Model(&models.Challenge{}).
			Where("id = ? AND user_id = ? AND assigned_date = ? AND status = ?",
				challengeID, userID, dateKey(s.now()), models.ChallengeStatusCompleted).
			Updates(map[string]interface{}{
				"status":     models.ChallengeStatusClaimed,
				"claimed_at": s.now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		var ch models.Challenge
		if err := tx.Where("id = ?", challengeID).First(&ch).Error; err != nil {
			return err
		}
		templateCode = ch.TemplateCode

		result = &models.ChallengeClaimResult{}
		if tpl := models.LookupChallengeTemplate(ch.TemplateCode); tpl != nil {
			award, err := s.Ledger.bonus(tx, userID, "challenge_claimed", tpl.XPReward)
			if err != nil {
				return err
			}
			if award != nil {
				result.XPAwarded = award.XPAwarded
				result.TotalXP = award.TotalXP
				result.LevelUp = award.LevelUp
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	// The ledger append above already bumped challenges_claimed; now see
	// whether a challenge badge unlocked.
	badgeSvc := NewBadgeService(s.DB)
	unlocked, err := badgeSvc.AutoAwardBadges(userID)
	if err != nil {
		log.Printf("⚠️ badge evaluation failed after claim for %s: %v", userID, err)
	}
	result.BadgesUnlocked = unlocked

	achSvc := NewAchievementService(s.DB)
	_, _ = achSvc.EvaluateUnlocks(userID)

	log.Printf("🏁 Challenge claimed: %s → %s (+%d XP)", userID, templateCode, result.XPAwarded)
	return result, nil
}
