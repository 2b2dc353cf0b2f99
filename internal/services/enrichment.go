package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"ff-lineup-engine/internal/enhance"
	"ff-lineup-engine/internal/fantasy"
	"ff-lineup-engine/internal/matchup"
	"ff-lineup-engine/internal/performance"
	"ff-lineup-engine/internal/providers"
	"ff-lineup-engine/internal/resolver"
	"ff-lineup-engine/internal/scoring"
)

const (
	// enrichWorkers caps concurrent per-player enrichment.
	enrichWorkers = 8

	recentLookback = 3

	trendingLookbackHours = 24
	trendingLimit         = 100
)

// LayerStatus reports which shared data layers loaded for a request. A
// false layer means every player was enriched without that input.
type LayerStatus struct {
	PlayerPool  bool `json:"player_pool"`
	Projections bool `json:"projections"`
	RecentStats bool `json:"recent_stats"`
	Trending    bool `json:"trending"`
}

// EnrichmentResult is a fully enriched and composite-scored player set.
// ValidPlayers vs TotalPlayers lets callers tell "no players" apart from
// "enhancement unavailable".
type EnrichmentResult struct {
	Players      []fantasy.Player `json:"players"`
	TotalPlayers int              `json:"total_players"`
	ValidPlayers int              `json:"valid_players"`
	Season       int              `json:"season"`
	Week         int              `json:"week"`
	Layers       LayerStatus      `json:"layers"`
}

// EnrichmentService runs the full per-player pipeline: identity resolution,
// recent performance, matchup scoring, projection enhancement, and
// composite scoring. Failures in any shared layer degrade the output
// rather than failing the request.
type EnrichmentService struct {
	sleeper       *providers.SleeperClient
	schedule      *ScheduleService
	defaultSeason int
	logger        *logrus.Logger
}

// NewEnrichmentService wires the shared layers. defaultSeason is used when
// the season-state fetch fails or reports nothing parseable; values below 1
// fall back to the current year.
func NewEnrichmentService(sleeper *providers.SleeperClient, schedule *ScheduleService, defaultSeason int, logger *logrus.Logger) *EnrichmentService {
	if defaultSeason < 1 {
		defaultSeason = time.Now().Year()
	}
	return &EnrichmentService{
		sleeper:       sleeper,
		schedule:      schedule,
		defaultSeason: defaultSeason,
		logger:        logger,
	}
}

// sharedLayers is the request-scoped context fetched once and read by every
// worker.
type sharedLayers struct {
	candidates  []fantasy.SecondaryRecord
	projections map[string]float64
	trending    fantasy.TrendingCounts
	byes        fantasy.ByeWeeks
	ranks       fantasy.DefensiveRanks
	season      int
	week        int
	status      LayerStatus
	statsOK     bool
	statsMu     sync.Mutex
}

// EnrichRoster runs the pipeline over primary-provider roster records.
// week 0 means "current week per the season state".
func (s *EnrichmentService) EnrichRoster(ctx context.Context, records []fantasy.PrimaryRecord, week int) (*EnrichmentResult, error) {
	layers := s.loadLayers(ctx, week)

	players := make([]fantasy.Player, len(records))
	var wg sync.WaitGroup
	sem := make(chan struct{}, enrichWorkers)

	for i := range records {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			players[idx] = s.enrichOne(ctx, records[idx], layers)
		}(i)
	}
	wg.Wait()

	layers.status.RecentStats = layers.statsOK

	valid := 0
	for i := range players {
		if players[i].IsValid() {
			valid++
		}
	}

	return &EnrichmentResult{
		Players:      scoring.ComputeComposite(players),
		TotalPlayers: len(players),
		ValidPlayers: valid,
		Season:       layers.season,
		Week:         layers.week,
		Layers:       layers.status,
	}, nil
}

// AnalyzeWaivers enriches free-agent candidates and layers waiver priority
// scoring on top, using the full candidate pool for positional scarcity.
func (s *EnrichmentService) AnalyzeWaivers(ctx context.Context, candidates []fantasy.PrimaryRecord, week int) (*EnrichmentResult, error) {
	result, err := s.EnrichRoster(ctx, candidates, week)
	if err != nil {
		return nil, err
	}
	result.Players = scoring.ScoreWaiverCandidates(result.Players, result.Players)
	return result, nil
}

// loadLayers fetches the shared request context. Every layer is optional;
// a failed fetch logs a warning and leaves the layer empty.
func (s *EnrichmentService) loadLayers(ctx context.Context, week int) *sharedLayers {
	layers := &sharedLayers{
		byes:    s.schedule.ByeWeeks(),
		ranks:   s.schedule.DefensiveRanks(),
		week:    week,
		season:  s.defaultSeason,
		statsOK: true,
	}

	if state, err := s.sleeper.GetState(ctx); err != nil {
		s.logger.Warnf("Season state unavailable, assuming week %d: %v", max(layers.week, 1), err)
		if layers.week < 1 {
			layers.week = 1
		}
	} else {
		if layers.week < 1 {
			layers.week = state.Week
		}
		if season, parseErr := parseSeason(state.Season); parseErr == nil {
			layers.season = season
		}
	}

	if candidates, err := s.sleeper.SecondaryRecords(ctx); err != nil {
		s.logger.Warnf("Player pool unavailable, identity resolution disabled: %v", err)
	} else {
		layers.candidates = candidates
		layers.status.PlayerPool = true
	}

	if projections, err := s.sleeper.GetProjections(ctx, layers.season, layers.week); err != nil {
		s.logger.Warnf("Projections unavailable for week %d: %v", layers.week, err)
	} else {
		layers.projections = projections
		layers.status.Projections = true
	}

	if trending, err := s.sleeper.TrendingCounts(ctx, trendingLookbackHours, trendingLimit); err != nil {
		s.logger.Warnf("Trending data unavailable: %v", err)
	} else {
		layers.trending = trending
		layers.status.Trending = true
	}

	return layers
}

// enrichOne runs the full pipeline for a single record. It never fails:
// missing inputs mark the player degraded and the remaining layers still
// run on what is available.
func (s *EnrichmentService) enrichOne(ctx context.Context, record fantasy.PrimaryRecord, layers *sharedLayers) fantasy.Player {
	var match *resolver.Match
	if m, ok := resolver.Resolve(record, layers.candidates); ok {
		match = &m
	}

	player := resolver.BuildPlayer(record, match)
	if match == nil && len(layers.candidates) > 0 {
		player.MarkDegraded("no identity match in secondary pool")
	}

	if player.SecondaryID != "" && layers.projections != nil {
		if pts, ok := layers.projections[player.SecondaryID]; ok {
			player.SecondaryProjection = fantasy.Float(pts)
		}
	}

	var recent *fantasy.RecentPerformance
	if player.SecondaryID != "" {
		scores, err := s.sleeper.RecentScores(ctx, player.SecondaryID, layers.season, layers.week, recentLookback)
		if err != nil {
			s.logger.Warnf("Recent stats unavailable for %s: %v", player.Name, err)
			layers.statsMu.Lock()
			layers.statsOK = false
			layers.statsMu.Unlock()
			player.MarkDegraded("recent stats unavailable")
		} else {
			recent = performance.Analyze(scores)
		}
	}

	opponent := player.Opponent
	if opponent == "" {
		opponent = s.schedule.Opponent(player.Team)
		player.Opponent = opponent
	}
	player.MatchupScore, player.MatchupDescription = matchup.Score(opponent, player.Position, layers.ranks)

	player = enhance.Enhance(player, recent, layers.byes, layers.week)

	if recent != nil {
		player.ConsistencyScore = performance.Consistency(recent.Scores)
	} else {
		player.ConsistencyScore = performance.Consistency(nil)
	}
	player.RiskLevel = performance.Risk(player.ConsistencyScore)

	if !player.OnBye {
		if base, ok := projectionBase(&player); ok {
			var scores []float64
			if recent != nil {
				scores = recent.Scores
			}
			floor, ceiling := performance.FloorCeiling(base, player.MatchupScore, scores)
			player.FloorProjection = fantasy.Float(floor)
			player.CeilingProjection = fantasy.Float(ceiling)
		}
	}

	if layers.trending != nil {
		if count, ok := layers.trending[strings.ToLower(player.Name)]; ok {
			player.TrendingScore = float64(count)
		}
	}

	return player
}

func projectionBase(p *fantasy.Player) (float64, bool) {
	if p.AdjustedProjection != nil {
		return *p.AdjustedProjection, true
	}
	return p.BestRawProjection()
}

func parseSeason(s string) (int, error) {
	var season int
	if _, err := fmt.Sscanf(s, "%d", &season); err != nil {
		return 0, err
	}
	return season, nil
}
