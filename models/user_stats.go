package models

import (
	"time"

	"gorm.io/gorm"
)

// UserStats tracks denormalized per-user counters the catalogs evaluate
// against (achievements, badges, reward tiers). The XP ledger remains the
// source of truth for totals; TotalXP here mirrors the last ledger row.
type UserStats struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"` // links to profile service

	// Mirror of the ledger running total
	TotalXP int64 `json:"total_xp" gorm:"default:0"`

	// Activity counters
	TasksCompleted    int64 `json:"tasks_completed" gorm:"default:0"`
	ScriptsGenerated  int64 `json:"scripts_generated" gorm:"default:0"`
	ThumbnailsCreated int64 `json:"thumbnails_created" gorm:"default:0"`
	CommunityPosts    int64 `json:"community_posts" gorm:"default:0"`
	PlatformsLinked   int64 `json:"platforms_linked" gorm:"default:0"`
	Logins            int64 `json:"logins" gorm:"default:0"`
	ChallengesClaimed int64 `json:"challenges_claimed" gorm:"default:0"`

	// Streak tracking — LastActiveDate is a calendar date ("2006-01-02")
	CurrentStreak  int64  `json:"current_streak" gorm:"default:0"`
	LongestStreak  int64  `json:"longest_streak" gorm:"default:0"`
	LastActiveDate string `json:"last_active_date,omitempty"`

	// Milestones
	LastLevelUpAt *time.Time `json:"last_level_up_at,omitempty"`

	Timestamps
}

// Counter returns the named counter used by badge thresholds and
// achievement requirements. Unknown keys return 0.
func (s *UserStats) Counter(key string) int64 {
	switch key {
	case "total_xp":
		return s.TotalXP
	case "tasks_completed":
		return s.TasksCompleted
	case "scripts_generated":
		return s.ScriptsGenerated
	case "thumbnails_created":
		return s.ThumbnailsCreated
	case "community_posts":
		return s.CommunityPosts
	case "platforms_linked":
		return s.PlatformsLinked
	case "logins":
		return s.Logins
	case "challenges_claimed":
		return s.ChallengesClaimed
	case "streak_days":
		return s.CurrentStreak
	case "level":
		return int64(LevelForXP(s.TotalXP).Level)
	}
	return 0
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
