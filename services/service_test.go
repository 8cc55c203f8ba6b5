package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"creator-compass-gamification/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory database. The shared-cache name keeps
// all pooled connections of one test on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.XPTransaction{},
		&models.UserStats{},
		&models.Challenge{},
		&models.UserAchievement{},
		&models.UserBadge{},
		&models.UserReward{},
		&models.LeaderboardSnapshot{},
		&models.CreatorProfile{},
	))
	return db
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// midday avoids day-boundary surprises in cap and streak tests.
var midday = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
