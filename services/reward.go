package services

import (
	"log"
	"time"

	"creator-compass-gamification/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RewardService maps cumulative XP / level / achievement counts onto the
// static reward tier catalog and tracks per-user claim state.
type RewardService struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{DB: db, now: time.Now}
}

// criteriaValue resolves the user's current value for a tier's gating metric.
func (s *RewardService) criteriaValue(userID string, ct models.RewardCriteriaType) (int64, error) {
	switch ct {
	case models.RewardCriteriaTotalXP:
		return NewXPLedgerService(s.DB).TotalXP(userID)
	case models.RewardCriteriaLevel:
		total, err := NewXPLedgerService(s.DB).TotalXP(userID)
		if err != nil {
			return 0, err
		}
		return int64(models.LevelForXP(total).Level), nil
	case models.RewardCriteriaAchievements:
		var count int64
		err := s.DB.Model(&models.UserAchievement{}).
			Where("user_id = ?", userID).
			Count(&count).Error
		return count, err
	}
	return 0, nil
}

func (s *RewardService) claimedRows(userID string) (map[string]models.UserReward, error) {
	var rows []models.UserReward
	if err := s.DB.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]models.UserReward, len(rows))
	for _, r := range rows {
		out[r.RewardID] = r
	}
	return out, nil
}

// GetRewardTiers returns the whole catalog decorated with the user's
// unlocked/claimed state, ordered by tier.
func (s *RewardService) GetRewardTiers(userID string) ([]models.RewardTierView, error) {
	claimed, err := s.claimedRows(userID)
	if err != nil {
		return nil, err
	}

	out := make([]models.RewardTierView, 0, len(models.RewardCatalog))
	for _, def := range models.RewardCatalog {
		current, err := s.criteriaValue(userID, def.Criteria.Type)
		if err != nil {
			return nil, err
		}
		view := models.RewardTierView{
			RewardDefinition: def,
			Unlocked:         current >= def.Criteria.Value,
		}
		if row, ok := claimed[def.ID]; ok {
			view.Claimed = true
			claimedAt := row.ClaimedAt
			view.ClaimedAt = &claimedAt
		}
		out = append(out, view)
	}
	return out, nil
}

// GetUserUnlockedRewards returns tiers whose criteria the user satisfies,
// claimed or not.
func (s *RewardService) GetUserUnlockedRewards(userID string) ([]models.RewardTierView, error) {
	tiers, err := s.GetRewardTiers(userID)
	if err != nil {
		return nil, err
	}
	var out []models.RewardTierView
	for _, t := range tiers {
		if t.Unlocked {
			out = append(out, t)
		}
	}
	return out, nil
}

// GetUserActiveRewards returns tiers the user has claimed — the perks
// currently in effect.
func (s *RewardService) GetUserActiveRewards(userID string) ([]models.RewardTierView, error) {
	tiers, err := s.GetRewardTiers(userID)
	if err != nil {
		return nil, err
	}
	var out []models.RewardTierView
	for _, t := range tiers {
		if t.Claimed {
			out = append(out, t)
		}
	}
	return out, nil
}

// GetRewardProgress reports how far the user is toward each tier's criteria,
// percentage clamped to [0,100].
func (s *RewardService) GetRewardProgress(userID string) ([]models.RewardProgress, error) {
	out := make([]models.RewardProgress, 0, len(models.RewardCatalog))
	for _, def := range models.RewardCatalog {
		current, err := s.criteriaValue(userID, def.Criteria.Type)
		if err != nil {
			return nil, err
		}
		pct := float64(current) / float64(def.Criteria.Value) * 100
		if pct > 100 {
			pct = 100
		}
		if pct < 0 {
			pct = 0
		}
		out = append(out, models.RewardProgress{
			RewardID:   def.ID,
			Tier:       def.Tier,
			Current:    current,
			Target:     def.Criteria.Value,
			Percentage: pct,
		})
	}
	return out, nil
}

// ClaimReward records a one-time claim. Returns false — never an error — for
// the expected refusals: unknown reward, criteria unmet, or already claimed.
// The unique index on (user_id, reward_id) makes the success exactly-once
// even when two claims race.
func (s *RewardService) ClaimReward(userID, rewardID string) (bool, error) {
	def := models.LookupReward(rewardID)
	if def == nil {
		return false, nil
	}

	current, err := s.criteriaValue(userID, def.Criteria.Type)
	if err != nil {
		return false, err
	}
	if current < def.Criteria.Value {
		return false, nil
	}

	row := models.UserReward{
		ID:        uuid.NewString(),
		UserID:    userID,
		RewardID:  rewardID,
		ClaimedAt: s.now(),
	}
	res := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil // repeat claim after success is a quiet refusal
	}

	log.Printf("🎁 Reward claimed: %s → %s (tier %d)", userID, def.Title, def.Tier)
	return true, nil
}
