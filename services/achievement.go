package services

import (
	"log"
	"time"

	"creator-compass-gamification/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AchievementService computes progress against the static achievement catalog
// and records unlocks. The (user_id, achievement_id) unique index is what
// guarantees a single unlock no matter how many callers race the check.
type AchievementService struct {
	DB     *gorm.DB
	Ledger *XPLedgerService
	now    func() time.Time
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{
		DB:     db,
		Ledger: NewXPLedgerService(db),
		now:    time.Now,
	}
}

// GetAchievements returns the static catalog.
func (s *AchievementService) GetAchievements() []models.AchievementDefinition {
	return models.AchievementCatalog
}

// GetUserAchievements returns the user's unlocks, newest first. Runs a lazy
// unlock pass first so progress earned outside an award path still lands.
func (s *AchievementService) GetUserAchievements(userID string) ([]models.UserAchievement, error) {
	if _, err := s.EvaluateUnlocks(userID); err != nil {
		return nil, err
	}
	var rows []models.UserAchievement
	err := s.DB.Where("user_id = ?", userID).
		Order("unlocked_at DESC").
		Find(&rows).Error
	return rows, err
}

// GetAchievementProgress reports every definition's counter against its
// target, percentage clamped to [0,100].
func (s *AchievementService) GetAchievementProgress(userID string) ([]models.AchievementProgress, error) {
	stats, err := ensureStats(s.DB, userID)
	if err != nil {
		return nil, err
	}

	var unlockedRows []models.UserAchievement
	if err := s.DB.Where("user_id = ?", userID).Find(&unlockedRows).Error; err != nil {
		return nil, err
	}
	unlocked := make(map[string]bool, len(unlockedRows))
	for _, r := range unlockedRows {
		unlocked[r.AchievementID] = true
	}

	out := make([]models.AchievementProgress, 0, len(models.AchievementCatalog))
	for _, def := range models.AchievementCatalog {
		current := stats.Counter(string(def.Requirement.Type))
		pct := float64(current) / float64(def.Requirement.Value) * 100
		if pct > 100 {
			pct = 100
		}
		if pct < 0 {
			pct = 0
		}
		out = append(out, models.AchievementProgress{
			AchievementID: def.ID,
			Title:         def.Title,
			Current:       current,
			Target:        def.Requirement.Value,
			Percentage:    pct,
			Unlocked:      unlocked[def.ID],
		})
	}
	return out, nil
}

// EvaluateUnlocks checks every definition against the user's counters and
// records any newly crossed ones. Insert-if-not-exists keeps repeat and
// concurrent evaluations idempotent; reward points go through the ledger
// only for rows this call actually created.
func (s *AchievementService) EvaluateUnlocks(userID string) ([]models.AchievementDefinition, error) {
	stats, err := ensureStats(s.DB, userID)
	if err != nil {
		return nil, err
	}

	var newly []models.AchievementDefinition
	for _, def := range models.AchievementCatalog {
		if stats.Counter(string(def.Requirement.Type)) < def.Requirement.Value {
			continue
		}

		row := models.UserAchievement{
			ID:            uuid.NewString(),
			UserID:        userID,
			AchievementID: def.ID,
			UnlockedAt:    s.now(),
		}
		res := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			return newly, res.Error
		}
		if res.RowsAffected == 0 {
			continue // already unlocked
		}

		newly = append(newly, def)
		log.Printf("🏅 Achievement unlocked: %s → %s", userID, def.Title)

		if _, err := s.Ledger.AwardBonusXP(userID, "achievement_unlocked", def.RewardPoints); err != nil {
			log.Printf("⚠️ achievement bonus failed for %s/%s: %v", userID, def.ID, err)
		}
	}
	return newly, nil
}
