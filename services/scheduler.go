// services/scheduler.go
package services

import (
	"log"
	"time"

	"creator-compass-gamification/models"

	"github.com/go-co-op/gocron/v2"
)

// StartDailyChallengeScheduler pre-generates challenges shortly after
// midnight for users active in the last week. Generation stays idempotent, so
// a user who shows up before the job runs simply triggers it themselves.
func (s *ChallengeService) StartDailyChallengeScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(func() {
			cutoff := time.Now().AddDate(0, 0, -7)
			var userIDs []string
			err := s.DB.Model(&models.UserStats{}).
				Where("updated_at >= ?", cutoff).
				Pluck("user_id", &userIDs).Error
			if err != nil {
				log.Printf("[Scheduler] DB error listing active users: %v", err)
				return
			}

			generated := 0
			for _, userID := range userIDs {
				if _, err := s.GenerateDailyChallenges(userID); err != nil {
					log.Printf("[Scheduler] Failed to generate challenges for %s: %v", userID, err)
					continue
				}
				generated++
			}
			log.Printf("✅ Daily challenges pre-generated for %d active users", generated)
		}),
	)
}

// StartSnapshotScheduler refreshes leaderboard snapshots every hour.
func (s *LeaderboardService) StartSnapshotScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			if err := s.RefreshSnapshots(50); err != nil {
				log.Printf("[Scheduler] Snapshot refresh failed: %v", err)
			}
		}),
	)
}
