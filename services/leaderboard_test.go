package services

import (
	"fmt"
	"testing"
	"time"

	"creator-compass-gamification/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedXP(t *testing.T, db *gorm.DB, userID string, xp int64, at time.Time) {
	t.Helper()
	txn := models.XPTransaction{
		ID:           uuid.NewString(),
		UserID:       userID,
		ActionID:     "task_complete",
		XPAwarded:    xp,
		TotalXPAfter: xp,
		CreatedAt:    at,
	}
	require.NoError(t, db.Create(&txn).Error)
}

func TestGetLeaderboard_OrdersByMetricDescending(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)
	svc.now = fixedNow(midday)

	seedXP(t, db, "user-a", 100, midday.Add(-time.Hour))
	seedXP(t, db, "user-b", 300, midday.Add(-time.Hour))
	seedXP(t, db, "user-c", 200, midday.Add(-time.Hour))

	entries, err := svc.GetLeaderboard(models.LeaderboardXP, models.TimeframeAllTime, 10, "")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.Equal(t, "user-b", entries[0].UserID)
	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, int64(300), entries[0].MetricValue)
	require.Equal(t, "user-c", entries[1].UserID)
	require.Equal(t, "user-a", entries[2].UserID)
	require.Equal(t, 3, entries[2].Rank)
}

func TestGetLeaderboard_TiesBreakByEarliestAttainment(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)
	svc.now = fixedNow(midday)

	seedXP(t, db, "user-late", 100, midday.Add(-1*time.Hour))
	seedXP(t, db, "user-early", 100, midday.Add(-5*time.Hour))

	entries, err := svc.GetLeaderboard(models.LeaderboardXP, models.TimeframeAllTime, 10, "")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "user-early", entries[0].UserID)
	require.Equal(t, "user-late", entries[1].UserID)
}

func TestGetLeaderboard_TimeframeWindows(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)
	svc.now = fixedNow(midday)

	seedXP(t, db, "user-today", 50, midday.Add(-time.Hour))
	seedXP(t, db, "user-lastweek", 500, midday.AddDate(0, 0, -3))
	seedXP(t, db, "user-old", 5000, midday.AddDate(0, 0, -60))

	daily, err := svc.GetLeaderboard(models.LeaderboardXP, models.TimeframeDaily, 10, "")
	require.NoError(t, err)
	require.Len(t, daily, 1)
	require.Equal(t, "user-today", daily[0].UserID)

	weekly, err := svc.GetLeaderboard(models.LeaderboardXP, models.TimeframeWeekly, 10, "")
	require.NoError(t, err)
	require.Len(t, weekly, 2)
	require.Equal(t, "user-lastweek", weekly[0].UserID)

	allTime, err := svc.GetLeaderboard(models.LeaderboardXP, models.TimeframeAllTime, 10, "")
	require.NoError(t, err)
	require.Len(t, allTime, 3)
	require.Equal(t, "user-old", allTime[0].UserID)
}

func TestGetLeaderboard_AppendsRequesterOutsidePage(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)
	svc.now = fixedNow(midday)

	for i := 0; i < 5; i++ {
		seedXP(t, db, fmt.Sprintf("user-%d", i), int64(500-i*100), midday.Add(-time.Hour))
	}

	entries, err := svc.GetLeaderboard(models.LeaderboardXP, models.TimeframeAllTime, 2, "user-4")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, 2, entries[1].Rank)
	require.Equal(t, "user-4", entries[2].UserID)
	require.Equal(t, 5, entries[2].Rank)
	require.True(t, entries[2].IsRequester)
	require.False(t, entries[0].IsRequester)
}

func TestGetLeaderboard_DecoratesWithProfiles(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)
	svc.now = fixedNow(midday)

	avatar := "https://cdn.example.com/a.png"
	profile := models.CreatorProfile{
		ID:        uuid.NewString(),
		UserID:    "user-a",
		Username:  "creator_a",
		AvatarURL: &avatar,
	}
	require.NoError(t, db.Create(&profile).Error)
	seedXP(t, db, "user-a", 100, midday.Add(-time.Hour))

	entries, err := svc.GetLeaderboard(models.LeaderboardXP, models.TimeframeAllTime, 10, "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "creator_a", entries[0].Username)
	require.Equal(t, avatar, entries[0].AvatarURL)
}

func TestGetLeaderboard_AchievementMetric(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)
	svc.now = fixedNow(midday)

	for _, achID := range []string{"first_steps", "week_streak"} {
		row := models.UserAchievement{
			ID:            uuid.NewString(),
			UserID:        "user-a",
			AchievementID: achID,
			UnlockedAt:    midday.Add(-time.Hour),
		}
		require.NoError(t, db.Create(&row).Error)
	}
	row := models.UserAchievement{
		ID:            uuid.NewString(),
		UserID:        "user-b",
		AchievementID: "first_steps",
		UnlockedAt:    midday.Add(-time.Hour),
	}
	require.NoError(t, db.Create(&row).Error)

	entries, err := svc.GetLeaderboard(models.LeaderboardAchievements, models.TimeframeAllTime, 10, "")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "user-a", entries[0].UserID)
	require.Equal(t, int64(2), entries[0].MetricValue)
}

func TestGetLeaderboard_UnknownTimeframe(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)

	_, err := svc.GetLeaderboard(models.LeaderboardXP, models.LeaderboardTimeframe("fortnightly"), 10, "")
	require.Error(t, err)
}

func TestGetUserLeaderboardPositions_CoversAllCombos(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)
	svc.now = fixedNow(midday)

	seedXP(t, db, "user-a", 100, midday.Add(-time.Hour))

	positions, err := svc.GetUserLeaderboardPositions("user-a")
	require.NoError(t, err)
	require.Len(t, positions, len(models.LeaderboardTypes)*len(models.LeaderboardTimeframes))

	for _, pos := range positions {
		if pos.Type == models.LeaderboardXP {
			require.Equal(t, 1, pos.Rank)
			require.Equal(t, int64(100), pos.MetricValue)
		} else {
			require.Equal(t, 0, pos.Rank, "no achievements yet, rank must be 0 for %s/%s", pos.Type, pos.Timeframe)
		}
	}
}

func TestRefreshSnapshots_PersistsLatest(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)
	svc.now = fixedNow(midday)

	snap, err := svc.GetLatestSnapshot(models.LeaderboardXP, models.TimeframeAllTime)
	require.NoError(t, err)
	require.Nil(t, snap)

	seedXP(t, db, "user-a", 100, midday.Add(-time.Hour))
	require.NoError(t, svc.RefreshSnapshots(10))

	snap, err = svc.GetLatestSnapshot(models.LeaderboardXP, models.TimeframeAllTime)
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Len(t, snap.Entries, 1)
	require.Equal(t, "user-a", snap.Entries[0].UserID)

	var count int64
	require.NoError(t, db.Model(&models.LeaderboardSnapshot{}).Count(&count).Error)
	require.Equal(t, int64(len(models.LeaderboardTypes)*len(models.LeaderboardTimeframes)), count)
}
