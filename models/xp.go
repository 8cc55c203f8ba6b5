package models

import (
	"time"
)

// XPTransaction is an append-only ledger row. Never updated or deleted —
// the cumulative total for a user is the SUM of xp_awarded in created_at order,
// and TotalXPAfter carries the running total at write time.
type XPTransaction struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string    `gorm:"index:idx_xp_user_action;index;not null" json:"user_id"`
	ActionID     string    `gorm:"index:idx_xp_user_action;not null" json:"action_id"`
	XPAwarded    int64     `gorm:"not null" json:"xp_awarded"`
	TotalXPAfter int64     `gorm:"not null" json:"total_xp_after"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// XPAction: static config describing how an action earns XP.
// DailyCap is per user per calendar day; 0 means uncapped.
type XPAction struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	BaseXP      int64              `json:"base_xp"`
	DailyCap    int64              `json:"daily_cap"`
	Multipliers map[string]float64 `json:"multipliers,omitempty"` // metadata value → multiplier
}

// XPActionTable is the global action catalog. Loaded once, never mutated at runtime.
var XPActionTable = []XPAction{
	{
		ID:       "daily_login",
		Name:     "Daily Login",
		BaseXP:   10,
		DailyCap: 1,
	},
	{
		ID:       "task_complete",
		Name:     "Roadmap Task Completed",
		BaseXP:   25,
		DailyCap: 10,
		Multipliers: map[string]float64{
			"milestone": 2.0, // milestone tasks are worth double
		},
	},
	{
		ID:       "streak_day",
		Name:     "Streak Maintained",
		BaseXP:   15,
		DailyCap: 1,
	},
	{
		ID:       "script_generated",
		Name:     "AI Script Generated",
		BaseXP:   20,
		DailyCap: 5,
	},
	{
		ID:       "thumbnail_created",
		Name:     "Thumbnail Created",
		BaseXP:   15,
		DailyCap: 5,
	},
	{
		ID:       "analytics_connected",
		Name:     "Platform Connected",
		BaseXP:   50,
		DailyCap: 1,
	},
	{
		ID:       "community_post",
		Name:     "Community Post",
		BaseXP:   10,
		DailyCap: 3,
	},
	{
		ID:       "template_shared",
		Name:     "Template Shared",
		BaseXP:   30,
		DailyCap: 2,
	},
	{
		ID:       "challenge_claimed",
		Name:     "Daily Challenge Claimed",
		BaseXP:   0, // actual XP comes from the challenge template
		DailyCap: 0,
	},
	{
		ID:       "achievement_unlocked",
		Name:     "Achievement Bonus",
		BaseXP:   0, // actual XP comes from the achievement definition
		DailyCap: 0,
	},
}

// LookupXPAction returns the catalog entry for an action ID, or nil.
func LookupXPAction(actionID string) *XPAction {
	for i := range XPActionTable {
		if XPActionTable[i].ID == actionID {
			return &XPActionTable[i]
		}
	}
	return nil
}

// XPAwardResult is returned by the ledger on a successful award.
type XPAwardResult struct {
	XPAwarded int64 `json:"xp_awarded"`
	TotalXP   int64 `json:"total_xp"`
	LevelUp   bool  `json:"level_up"`
	NewLevel  int   `json:"new_level,omitempty"`
}

// XPActionAvailability annotates a catalog action with today's remaining allowance.
type XPActionAvailability struct {
	XPAction
	Remaining int64 `json:"remaining"` // cap − today's count, floor 0; -1 when uncapped
}
