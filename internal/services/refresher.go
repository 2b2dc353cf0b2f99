package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"ff-lineup-engine/internal/fantasy"
	"ff-lineup-engine/internal/models"
	"ff-lineup-engine/internal/providers"
	"ff-lineup-engine/pkg/database"
)

// RefresherService keeps the slow-moving league context warm. It reloads
// trending data on a schedule, re-derives defensive ranks weekly once
// enough games have been played, and prunes stale saved lineups.
type RefresherService struct {
	db       *database.DB
	sleeper  *providers.SleeperClient
	schedule *ScheduleService
	logger   *logrus.Logger
	cron     *cron.Cron

	mu        sync.Mutex
	isRunning bool
}

func NewRefresherService(db *database.DB, sleeper *providers.SleeperClient, schedule *ScheduleService, logger *logrus.Logger) *RefresherService {
	return &RefresherService{
		db:       db,
		sleeper:  sleeper,
		schedule: schedule,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start schedules the refresh jobs and runs an initial warm-up.
func (s *RefresherService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("refresher is already running")
	}

	if _, err := s.cron.AddFunc("@every 30m", s.refreshTrending); err != nil {
		return fmt.Errorf("failed to schedule trending refresh: %w", err)
	}

	// Stats settle after Monday night; recompute ranks Tuesday morning.
	if _, err := s.cron.AddFunc("0 6 * * 2", s.refreshDefensiveRanks); err != nil {
		return fmt.Errorf("failed to schedule rank refresh: %w", err)
	}

	if _, err := s.cron.AddFunc("0 3 * * *", s.cleanupOldLineups); err != nil {
		return fmt.Errorf("failed to schedule lineup cleanup: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	go s.refreshTrending()
	go s.refreshDefensiveRanks()

	s.logger.Info("Refresher service started")
	return nil
}

// Stop halts the scheduled refreshes.
func (s *RefresherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Refresher service stopped")
}

func (s *RefresherService) refreshTrending() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	trending, err := s.sleeper.GetTrendingAdds(ctx, trendingLookbackHours, trendingLimit)
	if err != nil {
		s.logger.Errorf("Failed to refresh trending data: %v", err)
		return
	}
	s.logger.Infof("Refreshed trending data, %d players", len(trending))
}

// refreshDefensiveRanks re-derives defense ranks from season-to-date
// defense unit scoring. Defense fantasy points already fold in sacks,
// turnovers, and points allowed, so the unit's season total is a workable
// proxy for how stingy the defense has been. The static table stays in
// place until at least four weeks have been played.
func (s *RefresherService) refreshDefensiveRanks() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	state, err := s.sleeper.GetState(ctx)
	if err != nil {
		s.logger.Errorf("Failed to fetch season state for rank refresh: %v", err)
		return
	}
	if state.Week < 4 {
		s.logger.Infof("Week %d too early to derive defensive ranks, keeping static table", state.Week)
		return
	}

	season, err := parseSeason(state.Season)
	if err != nil {
		s.logger.Errorf("Unparseable season %q: %v", state.Season, err)
		return
	}

	totals := make(map[string]float64)
	for week := 1; week < state.Week; week++ {
		stats, err := s.sleeper.GetWeeklyStats(ctx, season, week)
		if err != nil {
			s.logger.Warnf("Skipping week %d in rank derivation: %v", week, err)
			continue
		}
		// Defense units are keyed by team abbreviation in Sleeper stats.
		for team := range s.schedule.ByeWeeks() {
			if pts, ok := stats[team]; ok {
				totals[team] += pts
			}
		}
	}

	ranks := deriveRanks(totals)
	if len(ranks) == 0 {
		s.logger.Warn("Derived no defensive ranks, keeping current table")
		return
	}

	s.schedule.SetDefensiveRanks(ranks)
	s.logger.Infof("Refreshed defensive ranks for %d teams", len(ranks))
}

// deriveRanks orders teams by defense unit scoring, best defense first,
// and assigns that rank to every positional matchup.
func deriveRanks(totals map[string]float64) fantasy.DefensiveRanks {
	if len(totals) == 0 {
		return nil
	}

	teams := make([]string, 0, len(totals))
	for team := range totals {
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool {
		if totals[teams[i]] != totals[teams[j]] {
			return totals[teams[i]] > totals[teams[j]]
		}
		return teams[i] < teams[j]
	})

	ranks := make(fantasy.DefensiveRanks, len(teams))
	for i, team := range teams {
		rank := i + 1
		ranks[team] = fantasy.PositionRanks{VsQB: rank, VsRB: rank, VsWR: rank, VsTE: rank}
	}
	return ranks
}

// cleanupOldLineups prunes saved lineups older than the retention window.
func (s *RefresherService) cleanupOldLineups() {
	cutoff := time.Now().AddDate(0, 0, -90)

	result := s.db.DB.Where("created_at < ?", cutoff).Delete(&models.SavedLineup{})
	if result.Error != nil {
		s.logger.Errorf("Failed to cleanup old lineups: %v", result.Error)
		return
	}
	s.logger.Infof("Cleaned up %d old saved lineups", result.RowsAffected)
}
