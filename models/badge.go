package models

import "time"

// BadgeType: static catalog entry, independent of achievements.
// Threshold keys name UserStats counters (plus "level" and
// "challenges_claimed"); every listed threshold must be met.
type BadgeType struct {
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	IconURL     string           `json:"icon_url,omitempty"` // R2/CDN URL, set via admin upload
	Rarity      string           `json:"rarity"`             // common, rare, epic, legendary
	Threshold   map[string]int64 `json:"threshold"`
}

// BadgeCatalog is the global badge catalog.
var BadgeCatalog = []BadgeType{
	{
		Code:        "WELCOME",
		Name:        "Welcome Aboard!",
		Description: "Joined CreatorCompass",
		Rarity:      "common",
		Threshold:   map[string]int64{"logins": 1},
	},
	{
		Code:        "FIRST_CHALLENGE",
		Name:        "Challenger Spirit",
		Description: "Claimed your first daily challenge",
		Rarity:      "common",
		Threshold:   map[string]int64{"challenges_claimed": 1},
	},
	{
		Code:        "CHALLENGE_10",
		Name:        "Daily Devotee",
		Description: "Claimed 10 daily challenges",
		Rarity:      "rare",
		Threshold:   map[string]int64{"challenges_claimed": 10},
	},
	{
		Code:        "CHALLENGE_50",
		Name:        "Relentless",
		Description: "Claimed 50 daily challenges",
		Rarity:      "epic",
		Threshold:   map[string]int64{"challenges_claimed": 50},
	},
	{
		Code:        "STREAK_14",
		Name:        "Fortnight Fire",
		Description: "Kept a 14-day streak alive",
		Rarity:      "rare",
		Threshold:   map[string]int64{"streak_days": 14},
	},
	{
		Code:        "TASK_25",
		Name:        "Grinder",
		Description: "Completed 25 roadmap tasks",
		Rarity:      "rare",
		Threshold:   map[string]int64{"tasks_completed": 25},
	},
	{
		Code:        "LEVEL_5",
		Name:        "Halfway Up",
		Description: "Reached level 5",
		Rarity:      "epic",
		Threshold:   map[string]int64{"level": 5},
	},
}

// LookupBadge returns the catalog entry for a code, or nil.
func LookupBadge(code string) *BadgeType {
	for i := range BadgeCatalog {
		if BadgeCatalog[i].Code == code {
			return &BadgeCatalog[i]
		}
	}
	return nil
}

// UserBadge: awarded instance. Unique index keeps awards idempotent.
type UserBadge struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"uniqueIndex:idx_user_badge;not null" json:"user_id"`
	BadgeCode string    `gorm:"uniqueIndex:idx_user_badge;not null" json:"badge_code"`
	AwardedAt time.Time `gorm:"autoCreateTime" json:"awarded_at"`
}
