package models

import "time"

// RewardCriteriaType selects which metric gates a reward tier.
type RewardCriteriaType string

const (
	RewardCriteriaLevel        RewardCriteriaType = "level"
	RewardCriteriaTotalXP      RewardCriteriaType = "total_xp"
	RewardCriteriaAchievements RewardCriteriaType = "achievements"
)

// RewardDefinition: static tier catalog entry. A reward becomes claimable the
// moment its criteria is satisfied; claiming is a one-time transition.
type RewardDefinition struct {
	ID       string `json:"id"`
	Tier     int    `json:"tier"`
	Title    string `json:"title"`
	Perk     string `json:"perk"`
	Criteria struct {
		Type  RewardCriteriaType `json:"type"`
		Value int64              `json:"value"`
	} `json:"criteria"`
}

func rewardTier(id string, tier int, title, perk string, ct RewardCriteriaType, value int64) RewardDefinition {
	r := RewardDefinition{ID: id, Tier: tier, Title: title, Perk: perk}
	r.Criteria.Type = ct
	r.Criteria.Value = value
	return r
}

// RewardCatalog is the global reward tier catalog, ordered by tier.
var RewardCatalog = []RewardDefinition{
	rewardTier("tier_banner", 1, "Profile Flair", "Animated profile banner", RewardCriteriaLevel, 2),
	rewardTier("tier_templates", 2, "Template Pack", "Premium thumbnail template pack", RewardCriteriaTotalXP, 500),
	rewardTier("tier_reroll", 3, "Challenge Reroll", "One free daily-challenge reroll per day", RewardCriteriaAchievements, 5),
	rewardTier("tier_priority_ai", 4, "Priority AI", "Priority queue for AI generations", RewardCriteriaLevel, 5),
	rewardTier("tier_spotlight", 5, "Creator Spotlight", "Featured slot on the community page", RewardCriteriaTotalXP, 10000),
	rewardTier("tier_pro_month", 6, "Pro Month", "One month of Pro on the house", RewardCriteriaLevel, 9),
}

// LookupReward returns the catalog entry for an ID, or nil.
func LookupReward(id string) *RewardDefinition {
	for i := range RewardCatalog {
		if RewardCatalog[i].ID == id {
			return &RewardCatalog[i]
		}
	}
	return nil
}

// UserReward records a claim. The unique index makes repeat claims no-ops.
type UserReward struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"uniqueIndex:idx_user_reward;not null" json:"user_id"`
	RewardID  string    `gorm:"uniqueIndex:idx_user_reward;not null" json:"reward_id"`
	ClaimedAt time.Time `gorm:"autoCreateTime" json:"claimed_at"`
}

// RewardTierView decorates a catalog entry with the user's state.
type RewardTierView struct {
	RewardDefinition
	Unlocked  bool       `json:"unlocked"`
	Claimed   bool       `json:"claimed"`
	ClaimedAt *time.Time `json:"claimed_at,omitempty"`
}

// RewardProgress is the derived read model for one tier.
type RewardProgress struct {
	RewardID   string  `json:"reward_id"`
	Tier       int     `json:"tier"`
	Current    int64   `json:"current"`
	Target     int64   `json:"target"`
	Percentage float64 `json:"percentage"` // clamped to [0,100]
}
