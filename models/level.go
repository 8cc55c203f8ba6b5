package models

import "sort"

// LevelDefinition: static catalog entry. XPRequired is the *cumulative*
// threshold at which the level is reached. Levels are contiguous from 1 and
// thresholds strictly increase.
type LevelDefinition struct {
	Level      int      `json:"level"`
	Title      string   `json:"title"`
	XPRequired int64    `json:"xp_required"`
	Badge      string   `json:"badge"`
	Perks      []string `json:"perks,omitempty"`
}

// LevelTable is the global level catalog, sorted by XPRequired.
var LevelTable = []LevelDefinition{
	{Level: 1, Title: "Newcomer", XPRequired: 0, Badge: "🌱"},
	{Level: 2, Title: "Explorer", XPRequired: 100, Badge: "🧭", Perks: []string{"custom_profile_banner"}},
	{Level: 3, Title: "Creator", XPRequired: 250, Badge: "🎬", Perks: []string{"extra_daily_challenge_reroll"}},
	{Level: 4, Title: "Storyteller", XPRequired: 500, Badge: "📖"},
	{Level: 5, Title: "Rising Star", XPRequired: 1000, Badge: "⭐", Perks: []string{"priority_ai_queue"}},
	{Level: 6, Title: "Influencer", XPRequired: 2000, Badge: "📣"},
	{Level: 7, Title: "Trendsetter", XPRequired: 4000, Badge: "🔥", Perks: []string{"beta_features"}},
	{Level: 8, Title: "Powerhouse", XPRequired: 8000, Badge: "⚡"},
	{Level: 9, Title: "Legend", XPRequired: 15000, Badge: "🏆", Perks: []string{"creator_spotlight"}},
	{Level: 10, Title: "Icon", XPRequired: 30000, Badge: "👑", Perks: []string{"lifetime_pro_discount"}},
}

// LevelForXP returns the highest definition whose threshold is ≤ totalXP.
// Binary search over the sorted thresholds; totalXP below the first threshold
// (or negative) resolves to level 1.
func LevelForXP(totalXP int64) LevelDefinition {
	// first index whose threshold exceeds totalXP
	i := sort.Search(len(LevelTable), func(i int) bool {
		return LevelTable[i].XPRequired > totalXP
	})
	if i == 0 {
		return LevelTable[0]
	}
	return LevelTable[i-1]
}

// NextLevel returns the definition after lvl, or nil at the cap.
func NextLevel(lvl LevelDefinition) *LevelDefinition {
	for i := range LevelTable {
		if LevelTable[i].Level == lvl.Level+1 {
			return &LevelTable[i]
		}
	}
	return nil
}

// MaxLevel returns the last defined level.
func MaxLevel() LevelDefinition {
	return LevelTable[len(LevelTable)-1]
}

// UserLevel is the derived read model for a user's standing.
type UserLevel struct {
	Level       int     `json:"level"`
	Title       string  `json:"title"`
	CurrentXP   int64   `json:"current_xp"`
	RequiredXP  int64   `json:"required_xp"`    // threshold of the current level
	NextLevelXP int64   `json:"next_level_xp"`  // threshold of the next level (current at cap)
	Progress    float64 `json:"progress"`       // 0..1 toward next level, 1 at cap
	Badge       string  `json:"badge"`
}
