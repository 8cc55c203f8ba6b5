package services

import (
	"testing"

	"creator-compass-gamification/models"

	"github.com/stretchr/testify/require"
)

func TestAwardXP_AppendsLedgerAndTotals(t *testing.T) {
	db := newTestDB(t)
	ledger := NewXPLedgerService(db)
	ledger.now = fixedNow(midday)

	res, err := ledger.AwardXP("user-1", "task_complete", nil)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Equal(t, int64(25), res.XPAwarded)
	require.Equal(t, int64(25), res.TotalXP)

	res, err = ledger.AwardXP("user-1", "script_generated", nil)
	require.NoError(t, err)
	require.Equal(t, int64(45), res.TotalXP)

	// ledger sum matches the derived level read
	level, err := ledger.GetUserLevel("user-1")
	require.NoError(t, err)
	require.Equal(t, int64(45), level.CurrentXP)

	var txns []models.XPTransaction
	require.NoError(t, db.Where("user_id = ?", "user-1").Order("created_at ASC").Find(&txns).Error)
	require.Len(t, txns, 2)
	require.Equal(t, int64(25), txns[0].TotalXPAfter)
	require.Equal(t, int64(45), txns[1].TotalXPAfter)
}

func TestAwardXP_MetadataMultiplier(t *testing.T) {
	db := newTestDB(t)
	ledger := NewXPLedgerService(db)
	ledger.now = fixedNow(midday)

	res, err := ledger.AwardXP("user-1", "task_complete", map[string]string{"task_type": "milestone"})
	require.NoError(t, err)
	require.Equal(t, int64(50), res.XPAwarded)
}

func TestAwardXP_MultiplierProductAppliedOnce(t *testing.T) {
	db := newTestDB(t)
	ledger := NewXPLedgerService(db)
	ledger.now = fixedNow(midday)

	// two metadata values hitting the same multiplier: the product is
	// accumulated first and applied in a single step
	res, err := ledger.AwardXP("user-1", "task_complete", map[string]string{
		"task_type": "milestone",
		"bonus":     "milestone",
	})
	require.NoError(t, err)
	require.Equal(t, int64(100), res.XPAwarded)
}

func TestAwardXP_RunningTotalIsPrefixSum(t *testing.T) {
	db := newTestDB(t)
	ledger := NewXPLedgerService(db)
	ledger.now = fixedNow(midday)

	actions := []string{"task_complete", "script_generated", "community_post", "task_complete", "template_shared"}
	for _, actionID := range actions {
		res, err := ledger.AwardXP("user-1", actionID, nil)
		require.NoError(t, err)
		require.NotNil(t, res)
	}

	var txns []models.XPTransaction
	require.NoError(t, db.Where("user_id = ?", "user-1").
		Order("total_xp_after ASC").
		Find(&txns).Error)
	require.Len(t, txns, len(actions))

	// each row's total is exactly the previous total plus its own award — no
	// two rows share a total and nothing is lost
	var running int64
	for _, txn := range txns {
		require.Equal(t, running+txn.XPAwarded, txn.TotalXPAfter)
		running = txn.TotalXPAfter
	}

	// the stats mirror agrees with the ledger sum
	var stats models.UserStats
	require.NoError(t, db.Where("user_id = ?", "user-1").First(&stats).Error)
	require.Equal(t, running, stats.TotalXP)

	total, err := ledger.TotalXP("user-1")
	require.NoError(t, err)
	require.Equal(t, running, total)
}

func TestAwardXP_UnknownAction(t *testing.T) {
	db := newTestDB(t)
	ledger := NewXPLedgerService(db)

	_, err := ledger.AwardXP("user-1", "no_such_action", nil)
	require.Error(t, err)
}

func TestAwardXP_DailyCap(t *testing.T) {
	db := newTestDB(t)
	ledger := NewXPLedgerService(db)
	ledger.now = fixedNow(midday)

	// daily_login is capped at 1/day
	res, err := ledger.AwardXP("user-1", "daily_login", nil)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Equal(t, int64(10), res.XPAwarded)

	res, err = ledger.AwardXP("user-1", "daily_login", nil)
	require.NoError(t, err)
	require.Nil(t, res)

	// the refused award wrote nothing
	var count int64
	require.NoError(t, db.Model(&models.XPTransaction{}).
		Where("user_id = ? AND action_id = ?", "user-1", "daily_login").
		Count(&count).Error)
	require.Equal(t, int64(1), count)

	// next day the cap resets
	ledger.now = fixedNow(midday.AddDate(0, 0, 1))
	res, err = ledger.AwardXP("user-1", "daily_login", nil)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Equal(t, int64(10), res.XPAwarded)
}

func TestAwardXP_LevelUp(t *testing.T) {
	db := newTestDB(t)
	ledger := NewXPLedgerService(db)
	ledger.now = fixedNow(midday)

	// 4 × 25 = 100 crosses the level-2 threshold on the last award
	var last *models.XPAwardResult
	for i := 0; i < 4; i++ {
		res, err := ledger.AwardXP("user-1", "task_complete", nil)
		require.NoError(t, err)
		last = res
	}
	require.True(t, last.LevelUp)
	require.Equal(t, 2, last.NewLevel)

	var stats models.UserStats
	require.NoError(t, db.Where("user_id = ?", "user-1").First(&stats).Error)
	require.NotNil(t, stats.LastLevelUpAt)
}

func TestGetUserLevel_BetweenThresholds(t *testing.T) {
	db := newTestDB(t)
	ledger := NewXPLedgerService(db)
	ledger.now = fixedNow(midday)

	// fresh user: level 1, zero progress
	level, err := ledger.GetUserLevel("user-1")
	require.NoError(t, err)
	require.Equal(t, 1, level.Level)
	require.Equal(t, int64(0), level.CurrentXP)
	require.Equal(t, float64(0), level.Progress)

	// 150 XP lands between the 100 and 250 thresholds
	_, err = ledger.AwardBonusXP("user-1", "challenge_claimed", 150)
	require.NoError(t, err)

	level, err = ledger.GetUserLevel("user-1")
	require.NoError(t, err)
	require.Equal(t, 2, level.Level)
	require.Equal(t, int64(150), level.CurrentXP)
	require.Equal(t, int64(250), level.NextLevelXP)
	require.InDelta(t, 1.0/3.0, level.Progress, 1e-9)
}

func TestGetUserLevel_CapsAtMaxLevel(t *testing.T) {
	db := newTestDB(t)
	ledger := NewXPLedgerService(db)
	ledger.now = fixedNow(midday)

	_, err := ledger.AwardBonusXP("user-1", "challenge_claimed", 999999)
	require.NoError(t, err)

	level, err := ledger.GetUserLevel("user-1")
	require.NoError(t, err)
	require.Equal(t, models.MaxLevel().Level, level.Level)
	require.Equal(t, float64(1), level.Progress)
}

func TestGetAvailableXPActions_Remaining(t *testing.T) {
	db := newTestDB(t)
	ledger := NewXPLedgerService(db)
	ledger.now = fixedNow(midday)

	_, err := ledger.AwardXP("user-1", "daily_login", nil)
	require.NoError(t, err)
	_, err = ledger.AwardXP("user-1", "task_complete", nil)
	require.NoError(t, err)

	actions, err := ledger.GetAvailableXPActions("user-1")
	require.NoError(t, err)

	byID := make(map[string]models.XPActionAvailability)
	for _, a := range actions {
		byID[a.ID] = a
	}
	require.Equal(t, int64(0), byID["daily_login"].Remaining)
	require.Equal(t, int64(9), byID["task_complete"].Remaining)
	require.Equal(t, int64(5), byID["script_generated"].Remaining)
	require.Equal(t, int64(-1), byID["challenge_claimed"].Remaining) // uncapped
}

func TestAwardXP_StreakAdvancesAndResets(t *testing.T) {
	db := newTestDB(t)
	ledger := NewXPLedgerService(db)

	ledger.now = fixedNow(midday)
	_, err := ledger.AwardXP("user-1", "daily_login", nil)
	require.NoError(t, err)

	ledger.now = fixedNow(midday.AddDate(0, 0, 1))
	_, err = ledger.AwardXP("user-1", "daily_login", nil)
	require.NoError(t, err)

	var stats models.UserStats
	require.NoError(t, db.Where("user_id = ?", "user-1").First(&stats).Error)
	require.Equal(t, int64(2), stats.CurrentStreak)
	require.Equal(t, int64(2), stats.LongestStreak)

	// a missed day restarts the streak but keeps the longest
	ledger.now = fixedNow(midday.AddDate(0, 0, 3))
	_, err = ledger.AwardXP("user-1", "daily_login", nil)
	require.NoError(t, err)

	require.NoError(t, db.Where("user_id = ?", "user-1").First(&stats).Error)
	require.Equal(t, int64(1), stats.CurrentStreak)
	require.Equal(t, int64(2), stats.LongestStreak)
}
