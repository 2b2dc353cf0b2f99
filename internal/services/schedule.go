package services

import (
	"sync"

	"github.com/sirupsen/logrus"

	"ff-lineup-engine/internal/fantasy"
)

// ScheduleService holds the slowly-changing league context: bye weeks,
// defensive positional ranks, and the current week's opponent map. The
// static tables are authoritative for byes; the refresher may replace the
// ranks and opponents at runtime.
type ScheduleService struct {
	mu    sync.RWMutex
	byes  fantasy.ByeWeeks
	ranks fantasy.DefensiveRanks
	sched fantasy.Schedule

	logger *logrus.Logger
}

func NewScheduleService(logger *logrus.Logger) *ScheduleService {
	return &ScheduleService{
		byes:   staticByeWeeks(),
		ranks:  staticDefensiveRanks(),
		sched:  staticSchedule(),
		logger: logger,
	}
}

// ByeWeeks returns the bye week table.
func (s *ScheduleService) ByeWeeks() fantasy.ByeWeeks {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byes
}

// DefensiveRanks returns the current defensive positional ranks.
func (s *ScheduleService) DefensiveRanks() fantasy.DefensiveRanks {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ranks
}

// Opponent returns the scheduled opponent for a team this week, or "" when
// unknown (bye or missing schedule data).
func (s *ScheduleService) Opponent(team string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sched[team]
}

// SetDefensiveRanks swaps in a refreshed rank table. Empty updates are
// ignored so a failed refresh never wipes the working table.
func (s *ScheduleService) SetDefensiveRanks(ranks fantasy.DefensiveRanks) {
	if len(ranks) == 0 {
		s.logger.Warn("Ignoring empty defensive rank update")
		return
	}
	s.mu.Lock()
	s.ranks = ranks
	s.mu.Unlock()
}

// SetSchedule swaps in the opponent map for the current week.
func (s *ScheduleService) SetSchedule(sched fantasy.Schedule) {
	s.mu.Lock()
	s.sched = sched
	s.mu.Unlock()
}

// staticByeWeeks is the 2025 bye week table. A player record's own bye
// field takes precedence; this table covers teams the provider payload
// omits.
func staticByeWeeks() fantasy.ByeWeeks {
	return fantasy.ByeWeeks{
		"PIT": 5, "CHI": 5, "GB": 5, "ATL": 5,
		"HOU": 6, "MIN": 6,
		"BAL": 7, "BUF": 7,
		"ARI": 8, "DET": 8, "JAX": 8, "LAR": 8, "LV": 8, "SEA": 8,
		"CLE": 9, "NYJ": 9, "PHI": 9, "TB": 9,
		"CIN": 10, "DAL": 10, "KC": 10, "TEN": 10,
		"IND": 11, "NO": 11,
		"DEN": 12, "LAC": 12, "MIA": 12, "WAS": 12,
		"CAR": 14, "NE": 14, "NYG": 14, "SF": 14,
	}
}

// staticDefensiveRanks is the fallback positional defense table used until
// the refresher supplies computed ranks. Rank 1 is the stingiest defense,
// 32 the most generous.
func staticDefensiveRanks() fantasy.DefensiveRanks {
	return fantasy.DefensiveRanks{
		"ARI": {VsQB: 28, VsRB: 32, VsWR: 25, VsTE: 27},
		"ATL": {VsQB: 22, VsRB: 26, VsWR: 18, VsTE: 20},
		"BAL": {VsQB: 2, VsRB: 3, VsWR: 2, VsTE: 5},
		"BUF": {VsQB: 8, VsRB: 12, VsWR: 10, VsTE: 8},
		"CAR": {VsQB: 25, VsRB: 27, VsWR: 30, VsTE: 24},
		"CHI": {VsQB: 12, VsRB: 8, VsWR: 15, VsTE: 14},
		"CIN": {VsQB: 18, VsRB: 20, VsWR: 16, VsTE: 19},
		"CLE": {VsQB: 1, VsRB: 7, VsWR: 4, VsTE: 3},
		"DAL": {VsQB: 7, VsRB: 10, VsWR: 8, VsTE: 11},
		"DEN": {VsQB: 4, VsRB: 14, VsWR: 6, VsTE: 9},
		"DET": {VsQB: 24, VsRB: 30, VsWR: 28, VsTE: 26},
		"GB":  {VsQB: 14, VsRB: 17, VsWR: 13, VsTE: 15},
		"HOU": {VsQB: 11, VsRB: 5, VsWR: 12, VsTE: 10},
		"IND": {VsQB: 20, VsRB: 22, VsWR: 21, VsTE: 18},
		"JAX": {VsQB: 26, VsRB: 24, VsWR: 27, VsTE: 28},
		"KC":  {VsQB: 15, VsRB: 16, VsWR: 14, VsTE: 13},
		"LAC": {VsQB: 10, VsRB: 9, VsWR: 11, VsTE: 12},
		"LAR": {VsQB: 19, VsRB: 18, VsWR: 20, VsTE: 21},
		"LV":  {VsQB: 27, VsRB: 29, VsWR: 26, VsTE: 30},
		"MIA": {VsQB: 16, VsRB: 15, VsWR: 17, VsTE: 16},
		"MIN": {VsQB: 13, VsRB: 11, VsWR: 19, VsTE: 17},
		"NE":  {VsQB: 6, VsRB: 4, VsWR: 7, VsTE: 6},
		"NO":  {VsQB: 9, VsRB: 6, VsWR: 9, VsTE: 7},
		"NYG": {VsQB: 21, VsRB: 23, VsWR: 22, VsTE: 23},
		"NYJ": {VsQB: 3, VsRB: 2, VsWR: 3, VsTE: 4},
		"PHI": {VsQB: 5, VsRB: 13, VsWR: 5, VsTE: 2},
		"PIT": {VsQB: 17, VsRB: 1, VsWR: 23, VsTE: 22},
		"SEA": {VsQB: 29, VsRB: 31, VsWR: 29, VsTE: 31},
		"SF":  {VsQB: 23, VsRB: 19, VsWR: 24, VsTE: 25},
		"TB":  {VsQB: 30, VsRB: 25, VsWR: 31, VsTE: 29},
		"TEN": {VsQB: 31, VsRB: 28, VsWR: 32, VsTE: 32},
		"WAS": {VsQB: 32, VsRB: 21, VsWR: 1, VsTE: 1},
	}
}

// staticSchedule is the fallback team-to-opponent map used when no refreshed
// schedule has been set. The pairings are symmetric; teams on bye simply get
// an empty lookup once SetSchedule supplies a week with byes.
func staticSchedule() fantasy.Schedule {
	return fantasy.Schedule{
		"BUF": "JAX", "JAX": "BUF",
		"MIA": "SEA", "SEA": "MIA",
		"NE": "NYJ", "NYJ": "NE",
		"BAL": "DAL", "DAL": "BAL",
		"CIN": "WAS", "WAS": "CIN",
		"CLE": "NYG", "NYG": "CLE",
		"PIT": "LAC", "LAC": "PIT",
		"HOU": "MIN", "MIN": "HOU",
		"IND": "CHI", "CHI": "IND",
		"TEN": "GB", "GB": "TEN",
		"DEN": "TB", "TB": "DEN",
		"KC": "ATL", "ATL": "KC",
		"LV": "CAR", "CAR": "LV",
		"PHI": "NO", "NO": "PHI",
		"DET": "ARI", "ARI": "DET",
		"LAR": "SF", "SF": "LAR",
	}
}
