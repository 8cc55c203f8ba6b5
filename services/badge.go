package services

import (
	"log"

	"creator-compass-gamification/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// AutoAwardBadges checks all badge thresholds for a user after a progress
// update and returns the badges this call newly awarded. The unique index on
// (user_id, badge_code) makes the award idempotent under concurrent callers.
func (s *BadgeService) AutoAwardBadges(userID string) ([]models.BadgeType, error) {
	stats, err := ensureStats(s.DB, userID)
	if err != nil {
		return nil, err
	}

	var awarded []models.BadgeType
	for _, badge := range models.BadgeCatalog {
		if !s.meetsThreshold(stats, badge.Threshold) {
			continue
		}

		userBadge := models.UserBadge{
			ID:        uuid.NewString(),
			UserID:    userID,
			BadgeCode: badge.Code,
		}
		res := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&userBadge)
		if res.Error != nil {
			return awarded, res.Error
		}
		if res.RowsAffected == 0 {
			continue // already has it
		}
		awarded = append(awarded, badge)
		log.Printf("🎖️ Badge awarded: %s → %s", badge.Name, userID)
	}
	return awarded, nil
}

func (s *BadgeService) meetsThreshold(stats *models.UserStats, req map[string]int64) bool {
	for key, required := range req {
		if stats.Counter(key) < required {
			return false
		}
	}
	return true
}

// GetUserBadges returns the user's badges joined with catalog detail.
func (s *BadgeService) GetUserBadges(userID string) ([]map[string]interface{}, error) {
	var rows []models.UserBadge
	if err := s.DB.Where("user_id = ?", userID).
		Order("awarded_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, 0, len(rows))
	for _, ub := range rows {
		badge := models.LookupBadge(ub.BadgeCode)
		if badge == nil {
			continue // catalog entry retired
		}
		out = append(out, map[string]interface{}{
			"code":        badge.Code,
			"name":        badge.Name,
			"description": badge.Description,
			"icon_url":    badge.IconURL,
			"rarity":      badge.Rarity,
			"awarded_at":  ub.AwardedAt,
		})
	}
	return out, nil
}
