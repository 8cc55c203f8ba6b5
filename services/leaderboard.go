package services

import (
	"fmt"
	"log"
	"time"

	"creator-compass-gamification/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaderboardService ranks users by XP or achievement count over rolling
// windows. Rankings are derived at query time; the snapshot table is a
// periodic cache for history, never the source of truth.
type LeaderboardService struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db, now: time.Now}
}

// windowStart computes the rolling window's lower bound relative to now.
// The zero time means all-time.
func (s *LeaderboardService) windowStart(timeframe models.LeaderboardTimeframe) (time.Time, error) {
	now := s.now()
	switch timeframe {
	case models.TimeframeDaily:
		return startOfDay(now), nil
	case models.TimeframeWeekly:
		return now.AddDate(0, 0, -7), nil
	case models.TimeframeMonthly:
		return now.AddDate(0, 0, -30), nil
	case models.TimeframeAllTime:
		return time.Time{}, nil
	}
	return time.Time{}, fmt.Errorf("unknown timeframe %q", timeframe)
}

type rankedRow struct {
	UserID string
	Metric int64
	Rank   int
}

// rankedRows computes the full deterministic ordering for a (type, timeframe)
// combo: metric descending, ties broken by earliest attainment, then user_id.
func (s *LeaderboardService) rankedRows(lbType models.LeaderboardType, timeframe models.LeaderboardTimeframe) ([]rankedRow, error) {
	since, err := s.windowStart(timeframe)
	if err != nil {
		return nil, err
	}

	var query string
	switch lbType {
	case models.LeaderboardXP:
		query = `
			WITH user_metrics AS (
				SELECT user_id, SUM(xp_awarded) AS metric, MIN(created_at) AS first_at
				FROM xp_transactions
				WHERE created_at >= ?
				GROUP BY user_id
			)
			SELECT user_id, metric,
			       ROW_NUMBER() OVER (ORDER BY metric DESC, first_at ASC, user_id ASC) AS rank
			FROM user_metrics
			ORDER BY rank ASC`
	case models.LeaderboardAchievements:
		query = `
			WITH user_metrics AS (
				SELECT user_id, COUNT(*) AS metric, MIN(unlocked_at) AS first_at
				FROM user_achievements
				WHERE unlocked_at >= ?
				GROUP BY user_id
			)
			SELECT user_id, metric,
			       ROW_NUMBER() OVER (ORDER BY metric DESC, first_at ASC, user_id ASC) AS rank
			FROM user_metrics
			ORDER BY rank ASC`
	default:
		return nil, fmt.Errorf("unknown leaderboard type %q", lbType)
	}

	var rows []rankedRow
	if err := s.DB.Raw(query, since).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetLeaderboard returns the top page plus the requesting user's own entry
// when they fall outside it.
func (s *LeaderboardService) GetLeaderboard(lbType models.LeaderboardType, timeframe models.LeaderboardTimeframe, limit int, requestingUserID string) ([]models.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.rankedRows(lbType, timeframe)
	if err != nil {
		return nil, err
	}

	page := rows
	if len(page) > limit {
		page = page[:limit]
	}

	var requester *rankedRow
	if requestingUserID != "" {
		for i := range rows {
			if rows[i].UserID == requestingUserID {
				requester = &rows[i]
				break
			}
		}
	}

	ids := make([]string, 0, len(page)+1)
	for _, r := range page {
		ids = append(ids, r.UserID)
	}
	if requester != nil && requester.Rank > limit {
		ids = append(ids, requester.UserID)
	}
	profiles, err := s.profilesByID(ids)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(page)+1)
	for _, r := range page {
		entries = append(entries, s.toEntry(r, profiles, requestingUserID))
	}
	if requester != nil && requester.Rank > limit {
		entries = append(entries, s.toEntry(*requester, profiles, requestingUserID))
	}
	return entries, nil
}

func (s *LeaderboardService) toEntry(r rankedRow, profiles map[string]models.CreatorProfile, requestingUserID string) models.LeaderboardEntry {
	e := models.LeaderboardEntry{
		Rank:        r.Rank,
		UserID:      r.UserID,
		MetricValue: r.Metric,
		IsRequester: r.UserID == requestingUserID,
	}
	if p, ok := profiles[r.UserID]; ok {
		e.Username = p.Username
		if p.AvatarURL != nil {
			e.AvatarURL = *p.AvatarURL
		}
	}
	return e
}

func (s *LeaderboardService) profilesByID(ids []string) (map[string]models.CreatorProfile, error) {
	if len(ids) == 0 {
		return map[string]models.CreatorProfile{}, nil
	}
	var profiles []models.CreatorProfile
	if err := s.DB.Where("user_id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, err
	}
	out := make(map[string]models.CreatorProfile, len(profiles))
	for _, p := range profiles {
		out[p.UserID] = p
	}
	return out, nil
}

// GetUserLeaderboardPositions reports the user's rank across every tracked
// (type, timeframe) combination. Rank 0 means no metric in the window.
func (s *LeaderboardService) GetUserLeaderboardPositions(userID string) ([]models.LeaderboardPosition, error) {
	var out []models.LeaderboardPosition
	for _, lbType := range models.LeaderboardTypes {
		for _, timeframe := range models.LeaderboardTimeframes {
			rows, err := s.rankedRows(lbType, timeframe)
			if err != nil {
				return nil, err
			}
			pos := models.LeaderboardPosition{Type: lbType, Timeframe: timeframe}
			for _, r := range rows {
				if r.UserID == userID {
					pos.Rank = r.Rank
					pos.MetricValue = r.Metric
					break
				}
			}
			out = append(out, pos)
		}
	}
	return out, nil
}

// RefreshSnapshots persists the current top-N page for every combo. Driven by
// the scheduler; serves the history endpoint.
func (s *LeaderboardService) RefreshSnapshots(topN int) error {
	if topN <= 0 {
		topN = 50
	}
	for _, lbType := range models.LeaderboardTypes {
		for _, timeframe := range models.LeaderboardTimeframes {
			entries, err := s.GetLeaderboard(lbType, timeframe, topN, "")
			if err != nil {
				return err
			}
			snap := models.LeaderboardSnapshot{
				ID:        uuid.NewString(),
				Type:      lbType,
				Timeframe: timeframe,
				Entries:   entries,
			}
			if err := s.DB.Create(&snap).Error; err != nil {
				return err
			}
		}
	}
	log.Printf("📸 Leaderboard snapshots refreshed (top %d)", topN)
	return nil
}

// GetLatestSnapshot returns the most recent snapshot for a combo, or nil when
// none has been captured yet.
func (s *LeaderboardService) GetLatestSnapshot(lbType models.LeaderboardType, timeframe models.LeaderboardTimeframe) (*models.LeaderboardSnapshot, error) {
	var snap models.LeaderboardSnapshot
	err := s.DB.Where("type = ? AND timeframe = ?", lbType, timeframe).
		Order("captured_at DESC").
		First(&snap).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
