package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"ff-lineup-engine/internal/fantasy"
)

// Cache is the subset of the cache service providers need. A nil cache is
// valid and simply disables caching.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Per-endpoint cache TTLs. The player pool barely moves, trending churns
// every half hour, and stats refresh quickly during games.
const (
	playersTTL     = 24 * time.Hour
	trendingTTL    = 30 * time.Minute
	projectionsTTL = time.Hour
	statsTTL       = 5 * time.Minute
	stateTTL       = 5 * time.Minute
)

const sleeperBaseURL = "https://api.sleeper.app/v1"

// SleeperClient fetches the free Sleeper NFL API. No authentication is
// required; the client rate-limits itself and trips a circuit breaker on
// consecutive upstream failures.
type SleeperClient struct {
	httpClient     *http.Client
	cache          Cache
	logger         *logrus.Logger
	rateLimiter    *rate.Limiter
	circuitBreaker *gobreaker.CircuitBreaker
	baseURL        string
}

// NewSleeperClient creates a Sleeper API client. requestsPerSecond caps
// outbound traffic; values below 1 fall back to 5.
func NewSleeperClient(cache Cache, requestsPerSecond int, logger *logrus.Logger) *SleeperClient {
	if requestsPerSecond < 1 {
		requestsPerSecond = 5
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "sleeper-api",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"circuit":    name,
				"from_state": from.String(),
				"to_state":   to.String(),
			}).Info("Sleeper API circuit breaker state changed")
		},
	})

	return &SleeperClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache:          cache,
		logger:         logger,
		rateLimiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		circuitBreaker: cb,
		baseURL:        sleeperBaseURL,
	}
}

// SleeperPlayer is a row from the full player pool endpoint.
type SleeperPlayer struct {
	PlayerID     string `json:"player_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Position     string `json:"position"`
	Team         string `json:"team"`
	Active       bool   `json:"active"`
	InjuryStatus string `json:"injury_status"`
	SearchRank   int    `json:"search_rank"`
}

// FullName joins first and last name.
func (p SleeperPlayer) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// TrendingPlayer is a trending adds/drops entry enriched with identity from
// the player pool.
type TrendingPlayer struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Team     string `json:"team"`
	Count    int    `json:"count"`
}

// SeasonState is the league calendar position reported by Sleeper.
type SeasonState struct {
	Week   int    `json:"week"`
	Season string `json:"season"`
}

func (c *SleeperClient) getJSON(ctx context.Context, endpoint string, ttl time.Duration, dest interface{}) error {
	cacheKey := "sleeper:" + endpoint
	if c.cache != nil {
		if err := c.cache.Get(ctx, cacheKey, dest); err == nil {
			return nil
		}
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	raw, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		var body json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, err
		}
		return body, nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw.(json.RawMessage), dest); err != nil {
		return err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, dest, ttl); err != nil {
			c.logger.Warnf("Failed to cache %s: %v", endpoint, err)
		}
	}
	return nil
}

// GetAllPlayers fetches the full NFL player pool keyed by Sleeper ID.
func (c *SleeperClient) GetAllPlayers(ctx context.Context) (map[string]SleeperPlayer, error) {
	var players map[string]SleeperPlayer
	if err := c.getJSON(ctx, "players/nfl", playersTTL, &players); err != nil {
		return nil, fmt.Errorf("fetching player pool: %w", err)
	}
	return players, nil
}

// SecondaryRecords converts the active player pool into resolution
// candidates for cross-provider identity matching.
func (c *SleeperClient) SecondaryRecords(ctx context.Context) ([]fantasy.SecondaryRecord, error) {
	players, err := c.GetAllPlayers(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]fantasy.SecondaryRecord, 0, len(players))
	for id, p := range players {
		if !p.Active || p.Team == "" || p.FullName() == "" {
			continue
		}
		records = append(records, fantasy.SecondaryRecord{
			ID:       id,
			Name:     p.FullName(),
			Position: fantasy.Position(p.Position),
			Team:     p.Team,
		})
	}
	return records, nil
}

// GetTrendingAdds fetches the most-added players over the lookback window,
// enriched with names from the player pool.
func (c *SleeperClient) GetTrendingAdds(ctx context.Context, hours, limit int) ([]TrendingPlayer, error) {
	endpoint := fmt.Sprintf("players/nfl/trending/add?lookback_hours=%d&limit=%d", hours, limit)

	var raw []struct {
		PlayerID string `json:"player_id"`
		Count    int    `json:"count"`
	}
	if err := c.getJSON(ctx, endpoint, trendingTTL, &raw); err != nil {
		return nil, fmt.Errorf("fetching trending adds: %w", err)
	}

	pool, err := c.GetAllPlayers(ctx)
	if err != nil {
		c.logger.Warnf("Trending enrichment unavailable, returning bare IDs: %v", err)
		pool = nil
	}

	trending := make([]TrendingPlayer, 0, len(raw))
	for _, item := range raw {
		t := TrendingPlayer{PlayerID: item.PlayerID, Count: item.Count}
		if p, ok := pool[item.PlayerID]; ok {
			t.Name = p.FullName()
			t.Position = p.Position
			t.Team = p.Team
		}
		trending = append(trending, t)
	}
	return trending, nil
}

// TrendingCounts returns trending add counts keyed by lowercased player
// name, the shape waiver scoring consumes.
func (c *SleeperClient) TrendingCounts(ctx context.Context, hours, limit int) (fantasy.TrendingCounts, error) {
	trending, err := c.GetTrendingAdds(ctx, hours, limit)
	if err != nil {
		return nil, err
	}
	counts := make(fantasy.TrendingCounts, len(trending))
	for _, t := range trending {
		if t.Name != "" {
			counts[strings.ToLower(t.Name)] = t.Count
		}
	}
	return counts, nil
}

// GetWeeklyStats fetches actual fantasy points for one week, keyed by
// Sleeper player ID. PPR points are preferred, then standard.
func (c *SleeperClient) GetWeeklyStats(ctx context.Context, season, week int) (map[string]float64, error) {
	endpoint := fmt.Sprintf("stats/nfl/regular/%d/%d", season, week)

	var raw map[string]map[string]float64
	if err := c.getJSON(ctx, endpoint, statsTTL, &raw); err != nil {
		return nil, fmt.Errorf("fetching week %d stats: %w", week, err)
	}

	points := make(map[string]float64, len(raw))
	for id, stats := range raw {
		if pts, ok := stats["pts_ppr"]; ok {
			points[id] = pts
		} else if pts, ok := stats["pts_std"]; ok {
			points[id] = pts
		}
	}
	return points, nil
}

// RecentScores fetches a player's actual points for the weeks leading up to
// currentWeek, ordered most recent last. Weeks with no recorded points are
// skipped, not zeroed, so injuries and byes do not drag the average.
func (c *SleeperClient) RecentScores(ctx context.Context, sleeperID string, season, currentWeek, lookback int) ([]float64, error) {
	if sleeperID == "" || currentWeek < 2 {
		return nil, nil
	}

	start := max(1, currentWeek-lookback)
	var scores []float64
	for week := start; week < currentWeek; week++ {
		stats, err := c.GetWeeklyStats(ctx, season, week)
		if err != nil {
			c.logger.Warnf("Skipping week %d stats for player %s: %v", week, sleeperID, err)
			continue
		}
		if pts, ok := stats[sleeperID]; ok {
			scores = append(scores, pts)
		}
	}
	return scores, nil
}

// GetProjections fetches weekly point projections keyed by Sleeper ID.
// Entries with no projected points are dropped.
func (c *SleeperClient) GetProjections(ctx context.Context, season, week int) (map[string]float64, error) {
	endpoint := fmt.Sprintf("projections/nfl/regular/%d/%d", season, week)

	var raw map[string]map[string]float64
	if err := c.getJSON(ctx, endpoint, projectionsTTL, &raw); err != nil {
		return nil, fmt.Errorf("fetching week %d projections: %w", week, err)
	}

	projections := make(map[string]float64, len(raw))
	for id, proj := range raw {
		if pts, ok := proj["pts_ppr"]; ok && pts > 0 {
			projections[id] = pts
		} else if pts, ok := proj["pts"]; ok && pts > 0 {
			projections[id] = pts
		}
	}
	return projections, nil
}

// GetState fetches the current NFL week and season.
func (c *SleeperClient) GetState(ctx context.Context) (*SeasonState, error) {
	var state SeasonState
	if err := c.getJSON(ctx, "state/nfl", stateTTL, &state); err != nil {
		return nil, fmt.Errorf("fetching season state: %w", err)
	}
	if state.Week < 1 {
		state.Week = 1
	}
	return &state, nil
}
