package services

import (
	"fmt"
	"log"
	"time"

	"creator-compass-gamification/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// XPLedgerService appends XP-earning events and derives level state from the
// static level catalog. The ledger is append-only; user_stats mirrors the
// running total plus the activity counters catalogs evaluate against.
type XPLedgerService struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewXPLedgerService(db *gorm.DB) *XPLedgerService {
	return &XPLedgerService{DB: db, now: time.Now}
}

// EnsureStats ensures a UserStats row exists (idempotent)
func (s *XPLedgerService) EnsureStats(userID string) (*models.UserStats, error) {
	return ensureStats(s.DB, userID)
}

func ensureStats(db *gorm.DB, userID string) (*models.UserStats, error) {
	var stats models.UserStats
	err := db.Where("user_id = ?", userID).First(&stats).Error
	if err == gorm.ErrRecordNotFound {
		stats = models.UserStats{
			ID:     uuid.NewString(),
			UserID: userID,
		}
		if err := db.Create(&stats).Error; err != nil {
			return nil, err
		}
		return &stats, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// lockStats loads the stats row FOR UPDATE, creating it first if missing.
// Holding the row lock serializes concurrent awards for one user, so the cap
// count and the running total that follow always see the latest committed
// ledger state. Must run inside the caller's transaction.
func lockStats(tx *gorm.DB, userID string) (*models.UserStats, error) {
	var stats models.UserStats
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&stats).Error
	if err == gorm.ErrRecordNotFound {
		fresh := models.UserStats{
			ID:     uuid.NewString(),
			UserID: userID,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
			return nil, err
		}
		// re-read: a racing creator may have won the insert
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&stats).Error
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// AwardXP appends an XP transaction for a catalog action, honoring the
// per-action daily cap. A (nil, nil) return means the cap was reached and
// nothing was written. On success the result carries the new running total
// and whether a level boundary was crossed.
//
// The stats row is locked FOR UPDATE before the cap count, so two overlapping
// awards serialize instead of both slipping under the cap or both reading the
// same running total.
func (s *XPLedgerService) AwardXP(userID, actionID string, metadata map[string]string) (*models.XPAwardResult, error) {
	action := models.LookupXPAction(actionID)
	if action == nil {
		return nil, fmt.Errorf("unknown xp action %q", actionID)
	}

	var result *models.XPAwardResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		stats, err := lockStats(tx, userID)
		if err != nil {
			return err
		}

		if action.DailyCap > 0 {
			var todayCount int64
			if err := tx.Model(&models.XPTransaction{}).
				Where("user_id = ? AND action_id = ? AND created_at >= ?", userID, actionID, startOfDay(s.now())).
				Count(&todayCount).Error; err != nil {
				return err
			}
			if todayCount >= action.DailyCap {
				return nil // limit reached — expected outcome, not an error
			}
		}

		// Accumulate the multiplier product before applying, so the single
		// truncation is independent of map iteration order.
		mult := 1.0
		for _, v := range metadata {
			if m, ok := action.Multipliers[v]; ok {
				mult *= m
			}
		}
		xp := int64(float64(action.BaseXP) * mult)

		res, err := s.append(tx, stats, actionID, xp)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	// Out-of-band side effects: challenge progress, achievements, badges.
	// Failures here never roll back the award.
	chSvc := NewChallengeService(s.DB)
	if err := chSvc.RecordActionProgress(userID, actionID); err != nil {
		log.Printf("⚠️ challenge progress update failed for %s: %v", userID, err)
	}
	achSvc := NewAchievementService(s.DB)
	_, _ = achSvc.EvaluateUnlocks(userID)
	badgeSvc := NewBadgeService(s.DB)
	_, _ = badgeSvc.AutoAwardBadges(userID)

	log.Printf("🎮 XP Awarded: %s → +%d (action: %s, total: %d)",
		userID, result.XPAwarded, actionID, result.TotalXP)
	return result, nil
}

// AwardBonusXP appends a fixed XP amount outside the capped action table —
// challenge claims and achievement unlock bonuses. It does not re-trigger
// unlock evaluation; callers that need it run their own pass.
func (s *XPLedgerService) AwardBonusXP(userID, actionID string, xp int64) (*models.XPAwardResult, error) {
	if xp <= 0 {
		return nil, nil
	}
	var result *models.XPAwardResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res, err := s.bonus(tx, userID, actionID, xp)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// bonus is the in-transaction bonus append, for callers that need the payout
// atomic with their own state transition (challenge claims).
func (s *XPLedgerService) bonus(tx *gorm.DB, userID, actionID string, xp int64) (*models.XPAwardResult, error) {
	if xp <= 0 {
		return nil, nil
	}
	stats, err := lockStats(tx, userID)
	if err != nil {
		return nil, err
	}
	return s.append(tx, stats, actionID, xp)
}

// append writes the ledger row and keeps user_stats in step. Must run inside
// the caller's transaction with stats already locked.
func (s *XPLedgerService) append(tx *gorm.DB, stats *models.UserStats, actionID string, xp int64) (*models.XPAwardResult, error) {
	userID := stats.UserID
	levelBefore := models.LevelForXP(stats.TotalXP)
	newTotal := stats.TotalXP + xp
	levelAfter := models.LevelForXP(newTotal)

	txn := models.XPTransaction{
		ID:           uuid.NewString(),
		UserID:       userID,
		ActionID:     actionID,
		XPAwarded:    xp,
		TotalXPAfter: newTotal,
		CreatedAt:    s.now(),
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, err
	}

	stats.TotalXP = newTotal
	s.bumpCounters(stats, actionID)

	result := &models.XPAwardResult{
		XPAwarded: xp,
		TotalXP:   newTotal,
	}
	if levelAfter.Level > levelBefore.Level {
		now := s.now()
		stats.LastLevelUpAt = &now
		result.LevelUp = true
		result.NewLevel = levelAfter.Level
		log.Printf("⬆️ Level up: %s → L%d (%s)", userID, levelAfter.Level, levelAfter.Title)
	}

	if err := tx.Save(stats).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// bumpCounters maps awarded actions onto the denormalized activity counters.
func (s *XPLedgerService) bumpCounters(stats *models.UserStats, actionID string) {
	switch actionID {
	case "task_complete":
		stats.TasksCompleted++
	case "script_generated":
		stats.ScriptsGenerated++
	case "thumbnail_created":
		stats.ThumbnailsCreated++
	case "community_post":
		stats.CommunityPosts++
	case "analytics_connected":
		stats.PlatformsLinked++
	case "challenge_claimed":
		stats.ChallengesClaimed++
	case "daily_login":
		stats.Logins++
		s.advanceStreak(stats)
	}
}

// advanceStreak extends the streak when yesterday was active, restarts it
// otherwise. Same-day repeats are a no-op (the daily cap blocks them anyway).
func (s *XPLedgerService) advanceStreak(stats *models.UserStats) {
	today := dateKey(s.now())
	if stats.LastActiveDate == today {
		return
	}
	yesterday := dateKey(s.now().AddDate(0, 0, -1))
	if stats.LastActiveDate == yesterday {
		stats.CurrentStreak++
	} else {
		stats.CurrentStreak = 1
	}
	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	stats.LastActiveDate = today
}

// TotalXP sums the ledger for a user. The ledger, not user_stats, is the
// source of truth for reads.
func (s *XPLedgerService) TotalXP(userID string) (int64, error) {
	var total int64
	err := s.DB.Model(&models.XPTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(xp_awarded), 0)").
		Scan(&total).Error
	return total, err
}

// GetUserLevel derives the user's standing from cumulative XP and the static
// level table. Past the final threshold the level caps with progress = 1.
func (s *XPLedgerService) GetUserLevel(userID string) (*models.UserLevel, error) {
	total, err := s.TotalXP(userID)
	if err != nil {
		return nil, err
	}

	cur := models.LevelForXP(total)
	out := &models.UserLevel{
		Level:      cur.Level,
		Title:      cur.Title,
		CurrentXP:  total,
		RequiredXP: cur.XPRequired,
		Badge:      cur.Badge,
	}

	next := models.NextLevel(cur)
	if next == nil {
		out.NextLevelXP = cur.XPRequired
		out.Progress = 1
		return out, nil
	}
	out.NextLevelXP = next.XPRequired
	span := next.XPRequired - cur.XPRequired
	out.Progress = float64(total-cur.XPRequired) / float64(span)
	return out, nil
}

// GetAvailableXPActions returns the action catalog annotated with each
// action's remaining daily allowance (cap − today's count, floor 0;
// -1 for uncapped actions).
func (s *XPLedgerService) GetAvailableXPActions(userID string) ([]models.XPActionAvailability, error) {
	type actionCount struct {
		ActionID string
		Count    int64
	}
	var counts []actionCount
	err := s.DB.Model(&models.XPTransaction{}).
		Select("action_id, COUNT(*) AS count").
		Where("user_id = ? AND created_at >= ?", userID, startOfDay(s.now())).
		Group("action_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	todayByAction := make(map[string]int64, len(counts))
	for _, c := range counts {
		todayByAction[c.ActionID] = c.Count
	}

	out := make([]models.XPActionAvailability, 0, len(models.XPActionTable))
	for _, action := range models.XPActionTable {
		av := models.XPActionAvailability{XPAction: action, Remaining: -1}
		if action.DailyCap > 0 {
			remaining := action.DailyCap - todayByAction[action.ID]
			if remaining < 0 {
				remaining = 0
			}
			av.Remaining = remaining
		}
		out = append(out, av)
	}
	return out, nil
}
