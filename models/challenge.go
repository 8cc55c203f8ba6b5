package models

import "time"

// ChallengeStatus is the per-row state machine: active → completed → claimed.
// Expiry is logical (assigned_date < today), never written back.
type ChallengeStatus string

const (
	ChallengeStatusActive    ChallengeStatus = "active"
	ChallengeStatusCompleted ChallengeStatus = "completed"
	ChallengeStatusClaimed   ChallengeStatus = "claimed"
	ChallengeStatusExpired   ChallengeStatus = "expired" // derived only
)

type ChallengeDifficulty string

const (
	DifficultyEasy   ChallengeDifficulty = "easy"
	DifficultyMedium ChallengeDifficulty = "medium"
	DifficultyHard   ChallengeDifficulty = "hard"
)

// ChallengeTemplate: static config a daily challenge is instantiated from.
type ChallengeTemplate struct {
	Code        string              `json:"code"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	ActionType  string              `json:"action_type"` // matches XPAction IDs
	Target      int64               `json:"target"`
	XPReward    int64               `json:"xp_reward"`
	Difficulty  ChallengeDifficulty `json:"difficulty"`
}

// ChallengeTemplates is the global template catalog.
var ChallengeTemplates = []ChallengeTemplate{
	{Code: "CHECK_IN", Title: "Show Up", Description: "Log in today", ActionType: "daily_login", Target: 1, XPReward: 15, Difficulty: DifficultyEasy},
	{Code: "QUICK_TASK", Title: "Quick Win", Description: "Complete a roadmap task", ActionType: "task_complete", Target: 1, XPReward: 20, Difficulty: DifficultyEasy},
	{Code: "SAY_HELLO", Title: "Say Hello", Description: "Post in the community", ActionType: "community_post", Target: 1, XPReward: 20, Difficulty: DifficultyEasy},
	{Code: "TASK_TRIO", Title: "Task Trio", Description: "Complete 3 roadmap tasks", ActionType: "task_complete", Target: 3, XPReward: 50, Difficulty: DifficultyMedium},
	{Code: "SCRIPT_SPRINT", Title: "Script Sprint", Description: "Generate 2 AI scripts", ActionType: "script_generated", Target: 2, XPReward: 45, Difficulty: DifficultyMedium},
	{Code: "THUMB_SMITH", Title: "Thumbnail Smith", Description: "Create 2 thumbnails", ActionType: "thumbnail_created", Target: 2, XPReward: 45, Difficulty: DifficultyMedium},
	{Code: "DEEP_WORK", Title: "Deep Work", Description: "Complete 5 roadmap tasks", ActionType: "task_complete", Target: 5, XPReward: 100, Difficulty: DifficultyHard},
	{Code: "CONTENT_MACHINE", Title: "Content Machine", Description: "Generate 3 scripts and share a template", ActionType: "script_generated", Target: 3, XPReward: 90, Difficulty: DifficultyHard},
	{Code: "COMMUNITY_DAY", Title: "Community Day", Description: "Post 3 times in the community", ActionType: "community_post", Target: 3, XPReward: 80, Difficulty: DifficultyHard},
}

// LookupChallengeTemplate returns the template for a code, or nil.
func LookupChallengeTemplate(code string) *ChallengeTemplate {
	for i := range ChallengeTemplates {
		if ChallengeTemplates[i].Code == code {
			return &ChallengeTemplates[i]
		}
	}
	return nil
}

// Challenge is one user's daily challenge instance.
// AssignedDate is a calendar date ("2006-01-02") in server time — equality
// against today's date decides liveness, so rows never need an expiry write.
type Challenge struct {
	ID              string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID          string          `gorm:"uniqueIndex:idx_challenge_user_date_tpl;index:idx_challenge_user_date;not null" json:"user_id"`
	TemplateCode    string          `gorm:"uniqueIndex:idx_challenge_user_date_tpl;not null" json:"template_code"`
	AssignedDate    string          `gorm:"uniqueIndex:idx_challenge_user_date_tpl;index:idx_challenge_user_date;not null" json:"assigned_date"`
	ActionType      string          `gorm:"index;not null" json:"action_type"`
	ProgressCurrent int64           `gorm:"default:0" json:"progress_current"`
	ProgressTarget  int64           `gorm:"not null" json:"progress_target"`
	Status          ChallengeStatus `gorm:"type:varchar(16);default:'active';index" json:"status"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	ClaimedAt       *time.Time      `json:"claimed_at,omitempty"`

	Timestamps
}

// EffectiveStatus reports expired for unclaimed rows past their assigned date.
func (c *Challenge) EffectiveStatus(today string) ChallengeStatus {
	if c.Status != ChallengeStatusClaimed && c.AssignedDate < today {
		return ChallengeStatusExpired
	}
	return c.Status
}

// ChallengeProgress is the derived read model for one challenge.
type ChallengeProgress struct {
	ChallengeID string     `json:"challenge_id"`
	Percentage  float64    `json:"percentage"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ClaimedAt   *time.Time `json:"claimed_at,omitempty"`
}

// ChallengeClaimResult is returned by a successful claim.
type ChallengeClaimResult struct {
	XPAwarded      int64       `json:"xp_awarded"`
	TotalXP        int64       `json:"total_xp"`
	LevelUp        bool        `json:"level_up"`
	BadgesUnlocked []BadgeType `json:"badges_unlocked"`
}
