package fantasy

// Position is a player's eligibility position. BENCH and FLEX are roster
// context only: they come from slot assignment, never from eligibility.
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDEF Position = "DEF"

	PositionFlex  Position = "FLEX"
	PositionBench Position = "BENCH"
)

// EligiblePositions are the positions a player record may carry.
var EligiblePositions = []Position{
	PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDEF,
}

// Flag is a categorical performance tag set during projection enhancement.
type Flag string

const (
	FlagOnBye             Flag = "ON_BYE"
	FlagBreakoutCandidate Flag = "BREAKOUT_CANDIDATE"
	FlagTrendingUp        Flag = "TRENDING_UP"
	FlagTrendingDown      Flag = "TRENDING_DOWN"
	FlagDecliningRole     Flag = "DECLINING_ROLE"
	FlagConsistent        Flag = "CONSISTENT"
)

// Tier is the discrete ranking bucket derived from fixed composite-score
// thresholds.
type Tier string

const (
	TierElite   Tier = "elite"
	TierSolid   Tier = "solid"
	TierDepth   Tier = "depth"
	TierUnknown Tier = "unknown"
)

// Trend classifies the direction of a player's recent output.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// Strategy selects how the lineup optimizer weighs projections.
type Strategy string

const (
	StrategyBalanced Strategy = "balanced"
	StrategyFloor    Strategy = "floor"
	StrategyCeiling  Strategy = "ceiling"
)

// NormalizeStrategy maps a request string onto a known strategy. Unknown
// names fall back to balanced; the second return reports whether the input
// was recognized so callers can log the fallback.
func NormalizeStrategy(s string) (Strategy, bool) {
	switch Strategy(s) {
	case StrategyBalanced, StrategyFloor, StrategyCeiling:
		return Strategy(s), true
	case "":
		return StrategyBalanced, true
	default:
		return StrategyBalanced, false
	}
}

// RiskLevel classifies a player's week-to-week volatility.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// PrimaryRecord is a player row as parsed from the primary provider's
// roster or free-agent payload.
type PrimaryRecord struct {
	PlayerKey    string   `json:"player_key"`
	Name         string   `json:"name"`
	Position     Position `json:"position"`
	Team         string   `json:"team"`
	Opponent     string   `json:"opponent,omitempty"`
	Projection   *float64 `json:"projection,omitempty"`
	ByeWeek      *int     `json:"bye_week,omitempty"`
	SelectedSlot string   `json:"selected_slot,omitempty"`
	OwnedPct     float64  `json:"owned_pct,omitempty"`
	WeeklyChange int      `json:"weekly_change,omitempty"`
	InjuryStatus string   `json:"injury_status,omitempty"`
}

// SecondaryRecord is a candidate player row from the secondary analytics
// provider, used for cross-provider identity resolution.
type SecondaryRecord struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Position   Position `json:"position"`
	Team       string   `json:"team"`
	Projection *float64 `json:"projection,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
}

// RecentPerformance holds short-window actual output statistics. It is
// derived per request and never persisted. Scores are ordered most recent
// last.
type RecentPerformance struct {
	WeeksAnalyzed int       `json:"weeks_analyzed"`
	AvgPoints     float64   `json:"avg_points"`
	TotalPoints   float64   `json:"total_points"`
	Scores        []float64 `json:"scores"`
	Trend         Trend     `json:"trend"`
}

// Player is the unified record reconciled from both providers. Entities are
// constructed fresh per request and are not mutated after being placed into
// a result; enhancement fields are computed once, in dependency order,
// before composite scoring.
type Player struct {
	Name     string   `json:"name"`
	Position Position `json:"position"`
	Team     string   `json:"team"`
	Opponent string   `json:"opponent,omitempty"`

	PrimaryID   string `json:"primary_id,omitempty"`
	SecondaryID string `json:"secondary_id,omitempty"`

	PrimaryProjection   *float64 `json:"primary_projection,omitempty"`
	SecondaryProjection *float64 `json:"secondary_projection,omitempty"`
	FloorProjection     *float64 `json:"floor_projection,omitempty"`
	CeilingProjection   *float64 `json:"ceiling_projection,omitempty"`
	AdjustedProjection  *float64 `json:"adjusted_projection,omitempty"`

	ConsistencyScore float64 `json:"consistency_score"`
	CompositeScore   float64 `json:"composite_score"`
	Tier             Tier    `json:"player_tier"`

	MatchupScore       float64 `json:"matchup_score"`
	MatchupDescription string  `json:"matchup_description,omitempty"`
	TrendingScore      float64 `json:"trending_score"`

	RiskLevel RiskLevel `json:"risk_level,omitempty"`
	Flags     []Flag    `json:"performance_flags,omitempty"`

	OnBye   bool `json:"on_bye"`
	ByeWeek *int `json:"bye_week,omitempty"`

	EnhancementContext string `json:"enhancement_context,omitempty"`
	Recommendation     string `json:"recommendation,omitempty"`

	// RosterSlot is the slot the optimizer assigned (QB, RB1, FLEX, BENCH).
	RosterSlot string `json:"roster_slot,omitempty"`

	// Free-agent context used by waiver scoring.
	OwnedPct         float64 `json:"owned_pct,omitempty"`
	ExpertConfidence float64 `json:"expert_confidence,omitempty"`
	WaiverPriority   float64 `json:"waiver_priority,omitempty"`
	PickupUrgency    string  `json:"pickup_urgency,omitempty"`

	Recent *RecentPerformance `json:"recent_performance,omitempty"`

	// Degraded marks players whose enhancement ran on partial data, so
	// callers can tell a degraded computation from a full one.
	Degraded        bool     `json:"degraded,omitempty"`
	DegradedReasons []string `json:"degraded_reasons,omitempty"`
}

// HasFlag reports whether the player carries the given performance flag.
func (p *Player) HasFlag(f Flag) bool {
	for _, have := range p.Flags {
		if have == f {
			return true
		}
	}
	return false
}

// AddFlag appends a flag if not already present.
func (p *Player) AddFlag(f Flag) {
	if !p.HasFlag(f) {
		p.Flags = append(p.Flags, f)
	}
}

// MarkDegraded records a partial-data reason without failing the player.
func (p *Player) MarkDegraded(reason string) {
	p.Degraded = true
	p.DegradedReasons = append(p.DegradedReasons, reason)
}

// IsValid reports whether the record carries enough identity to be scored.
func (p *Player) IsValid() bool {
	return p.Name != "" && p.Position != ""
}

// BestRawProjection returns the secondary projection when present, falling
// back to the primary. The boolean is false when neither provider supplied
// one.
func (p *Player) BestRawProjection() (float64, bool) {
	if p.SecondaryProjection != nil {
		return *p.SecondaryProjection, true
	}
	if p.PrimaryProjection != nil {
		return *p.PrimaryProjection, true
	}
	return 0, false
}

// RosterSlot is a named starting slot with an eligibility predicate over
// player positions.
type RosterSlotDef struct {
	Name     string     `json:"name"`
	Eligible []Position `json:"eligible"`
}

// Accepts reports whether a player position satisfies this slot.
func (s RosterSlotDef) Accepts(pos Position) bool {
	for _, p := range s.Eligible {
		if p == pos {
			return true
		}
	}
	return false
}

// SingleEligibility reports whether the slot accepts exactly one position.
func (s RosterSlotDef) SingleEligibility() bool {
	return len(s.Eligible) == 1
}

// StandardSlots is the default weekly roster: single-eligibility slots
// first, FLEX last, matching the optimizer's fill order.
func StandardSlots() []RosterSlotDef {
	return []RosterSlotDef{
		{Name: "QB", Eligible: []Position{PositionQB}},
		{Name: "RB1", Eligible: []Position{PositionRB}},
		{Name: "RB2", Eligible: []Position{PositionRB}},
		{Name: "WR1", Eligible: []Position{PositionWR}},
		{Name: "WR2", Eligible: []Position{PositionWR}},
		{Name: "TE", Eligible: []Position{PositionTE}},
		{Name: "K", Eligible: []Position{PositionK}},
		{Name: "DEF", Eligible: []Position{PositionDEF}},
		{Name: "FLEX", Eligible: []Position{PositionRB, PositionWR, PositionTE}},
	}
}

// Collaborator lookups. These are plain read-only maps supplied by the
// caller; the core never fetches or mutates them.

// ByeWeeks maps team abbreviation to bye week number.
type ByeWeeks map[string]int

// Schedule maps team abbreviation to current-period opponent.
type Schedule map[string]string

// PositionRanks holds a defense's rank (1 = stingiest, 32 = most generous)
// against each offensive position.
type PositionRanks struct {
	VsQB int `json:"vs_qb"`
	VsRB int `json:"vs_rb"`
	VsWR int `json:"vs_wr"`
	VsTE int `json:"vs_te"`
}

// For returns the rank relevant to the given position. Kickers and defenses
// correlate with opposing-QB strength.
func (r PositionRanks) For(pos Position) int {
	switch pos {
	case PositionRB:
		return r.VsRB
	case PositionWR:
		return r.VsWR
	case PositionTE:
		return r.VsTE
	default:
		return r.VsQB
	}
}

// DefensiveRanks maps team abbreviation to its positional defense ranks.
type DefensiveRanks map[string]PositionRanks

// TrendingCounts maps normalized player name to recent add count.
type TrendingCounts map[string]int

// Float returns a pointer to v, for optional numeric fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for optional integer fields.
func Int(v int) *int { return &v }
