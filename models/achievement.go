package models

import "time"

// RequirementType selects which user counter an achievement measures.
type RequirementType string

const (
	ReqTotalXP           RequirementType = "total_xp"
	ReqLevel             RequirementType = "level"
	ReqTasksCompleted    RequirementType = "tasks_completed"
	ReqStreakDays        RequirementType = "streak_days"
	ReqChallengesClaimed RequirementType = "challenges_claimed"
	ReqScriptsGenerated  RequirementType = "scripts_generated"
	ReqPlatformsLinked   RequirementType = "platforms_linked"
	ReqCommunityPosts    RequirementType = "community_posts"
)

// AchievementDefinition: static catalog entry. Reward points are appended to
// the XP ledger when the achievement unlocks.
type AchievementDefinition struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Requirement struct {
		Type  RequirementType `json:"type"`
		Value int64           `json:"value"`
	} `json:"requirement"`
	RewardPoints int64  `json:"reward_points"`
	RewardBadge  string `json:"reward_badge,omitempty"`
	Rarity       string `json:"rarity"` // common, rare, epic, legendary
}

func achievement(id, title, desc string, reqType RequirementType, reqValue, points int64, rarity string) AchievementDefinition {
	a := AchievementDefinition{
		ID: id, Title: title, Description: desc,
		RewardPoints: points, Rarity: rarity,
	}
	a.Requirement.Type = reqType
	a.Requirement.Value = reqValue
	return a
}

// AchievementCatalog is the global achievement catalog.
var AchievementCatalog = []AchievementDefinition{
	achievement("first_steps", "First Steps", "Complete your first roadmap task", ReqTasksCompleted, 1, 25, "common"),
	achievement("task_machine", "Task Machine", "Complete 50 roadmap tasks", ReqTasksCompleted, 50, 150, "rare"),
	achievement("centurion", "Centurion", "Complete 100 roadmap tasks", ReqTasksCompleted, 100, 300, "epic"),
	achievement("week_streak", "One Week Strong", "Maintain a 7-day streak", ReqStreakDays, 7, 100, "common"),
	achievement("month_streak", "Unstoppable", "Maintain a 30-day streak", ReqStreakDays, 30, 500, "epic"),
	achievement("challenger", "Challenger", "Claim 10 daily challenges", ReqChallengesClaimed, 10, 100, "common"),
	achievement("challenge_master", "Challenge Master", "Claim 100 daily challenges", ReqChallengesClaimed, 100, 600, "legendary"),
	achievement("scriptwriter", "Scriptwriter", "Generate 25 AI scripts", ReqScriptsGenerated, 25, 150, "rare"),
	achievement("plugged_in", "Plugged In", "Connect a social platform", ReqPlatformsLinked, 1, 50, "common"),
	achievement("voice_heard", "Voice Heard", "Post 20 times in the community", ReqCommunityPosts, 20, 120, "rare"),
	achievement("xp_5k", "Five Thousand Club", "Accumulate 5,000 XP", ReqTotalXP, 5000, 250, "epic"),
	achievement("level_5", "Rising Star", "Reach level 5", ReqLevel, 5, 200, "rare"),
	achievement("level_10", "Icon", "Reach level 10", ReqLevel, 10, 1000, "legendary"),
}

// LookupAchievement returns the catalog entry for an ID, or nil.
func LookupAchievement(id string) *AchievementDefinition {
	for i := range AchievementCatalog {
		if AchievementCatalog[i].ID == id {
			return &AchievementCatalog[i]
		}
	}
	return nil
}

// UserAchievement records an unlock. The unique index enforces at most one
// row per (user, achievement) regardless of concurrent unlock attempts.
type UserAchievement struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string    `gorm:"uniqueIndex:idx_user_achievement;not null" json:"user_id"`
	AchievementID string    `gorm:"uniqueIndex:idx_user_achievement;not null" json:"achievement_id"`
	UnlockedAt    time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
}

// AchievementProgress is the derived read model for one definition.
type AchievementProgress struct {
	AchievementID string  `json:"achievement_id"`
	Title         string  `json:"title"`
	Current       int64   `json:"current"`
	Target        int64   `json:"target"`
	Percentage    float64 `json:"percentage"` // clamped to [0,100]
	Unlocked      bool    `json:"unlocked"`
}
