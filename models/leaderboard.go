package models

import "time"

// LeaderboardType selects the ranked metric.
type LeaderboardType string

const (
	LeaderboardXP           LeaderboardType = "xp"
	LeaderboardAchievements LeaderboardType = "achievements"
)

// LeaderboardTimeframe is the rolling aggregation window, computed against
// server time at query time.
type LeaderboardTimeframe string

const (
	TimeframeDaily   LeaderboardTimeframe = "daily"
	TimeframeWeekly  LeaderboardTimeframe = "weekly"
	TimeframeMonthly LeaderboardTimeframe = "monthly"
	TimeframeAllTime LeaderboardTimeframe = "all_time"
)

// LeaderboardTypes and LeaderboardTimeframes enumerate the tracked combos.
var (
	LeaderboardTypes      = []LeaderboardType{LeaderboardXP, LeaderboardAchievements}
	LeaderboardTimeframes = []LeaderboardTimeframe{TimeframeDaily, TimeframeWeekly, TimeframeMonthly, TimeframeAllTime}
)

// LeaderboardEntry is a derived ranking row — never a source of truth.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	Username    string `json:"username,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	MetricValue int64  `json:"metric_value"`
	IsRequester bool   `json:"is_requester,omitempty"`
}

// LeaderboardPosition is one user's rank in a tracked combo.
type LeaderboardPosition struct {
	Type        LeaderboardType      `json:"type"`
	Timeframe   LeaderboardTimeframe `json:"timeframe"`
	Rank        int                  `json:"rank"` // 0 when the user has no metric in the window
	MetricValue int64                `json:"metric_value"`
}

// LeaderboardSnapshot is a periodically persisted top-N page, kept for the
// history endpoint. Live queries stay authoritative.
type LeaderboardSnapshot struct {
	ID         string               `gorm:"primaryKey;type:uuid" json:"id"`
	Type       LeaderboardType      `gorm:"type:varchar(16);index:idx_snapshot_combo;not null" json:"type"`
	Timeframe  LeaderboardTimeframe `gorm:"type:varchar(16);index:idx_snapshot_combo;not null" json:"timeframe"`
	Entries    []LeaderboardEntry   `gorm:"serializer:json" json:"entries"`
	CapturedAt time.Time            `gorm:"autoCreateTime;index" json:"captured_at"`
}
