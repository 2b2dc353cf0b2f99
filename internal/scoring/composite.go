// Package scoring merges enhanced projections, matchup quality, consistency
// and trending signals into a single ranking score with a discrete tier,
// and computes waiver priority for out-of-roster players. Weights and tier
// thresholds are fixed configuration constants so re-scoring an unchanged
// player set is idempotent.
package scoring

import (
	"sort"

	"ff-lineup-engine/internal/fantasy"
)

// Composite weights. Projection carries the primary weight, matchup the
// secondary, consistency and trending the tertiary.
const (
	weightProjection  = 0.50
	weightMatchup     = 0.30
	weightConsistency = 0.10
	weightTrending    = 0.10
)

// Tier thresholds over the 0-100 composite scale.
const (
	TierEliteThreshold = 75.0
	TierSolidThreshold = 55.0
)

// trendingNormalizer scales raw add counts onto 0-100; counts at or above
// this value saturate.
const trendingNormalizer = 10000.0

// positionMaxProjection normalizes projections per position so a 25-point
// RB week and a 25-point QB week are not treated the same.
var positionMaxProjection = map[fantasy.Position]float64{
	fantasy.PositionQB:  30,
	fantasy.PositionRB:  25,
	fantasy.PositionWR:  22,
	fantasy.PositionTE:  18,
	fantasy.PositionK:   12,
	fantasy.PositionDEF: 12,
}

const defaultMaxProjection = 20.0

// ComputeComposite returns a copy of the player set with composite scores
// and tiers set. Scores are a pure function of each player's enhancement
// fields, so running it twice on an unchanged set yields identical results.
func ComputeComposite(players []fantasy.Player) []fantasy.Player {
	out := make([]fantasy.Player, len(players))
	copy(out, players)
	for i := range out {
		out[i].CompositeScore = compositeFor(&out[i], projectionOf(&out[i]))
		out[i].Tier = tierFor(out[i].CompositeScore)
	}
	return out
}

// projectionOf is the default ranking projection: the adjusted projection
// when the enhancer produced one, zero otherwise.
func projectionOf(p *fantasy.Player) float64 {
	if p.AdjustedProjection != nil {
		return *p.AdjustedProjection
	}
	return 0
}

// compositeFor computes the fixed weighted sum on a 0-100 scale, with the
// given projection substituted as the primary term (the optimizer swaps in
// floor or ceiling projections for its strategies).
func compositeFor(p *fantasy.Player, projection float64) float64 {
	maxProj, ok := positionMaxProjection[p.Position]
	if !ok {
		maxProj = defaultMaxProjection
	}

	projNorm := clamp(projection/maxProj*100, 0, 100)
	matchupNorm := clamp((p.MatchupScore+10)*5, 0, 100)
	consistencyNorm := clamp(p.ConsistencyScore, 0, 100)
	trendNorm := clamp(p.TrendingScore/trendingNormalizer*100, 0, 100)

	return weightProjection*projNorm +
		weightMatchup*matchupNorm +
		weightConsistency*consistencyNorm +
		weightTrending*trendNorm
}

// RankScore is the selection key for a given strategy: floor and ceiling
// strategies substitute the corresponding projection bound for the
// adjusted projection; anything else uses the unmodified composite.
func RankScore(p *fantasy.Player, strategy fantasy.Strategy) float64 {
	switch strategy {
	case fantasy.StrategyFloor:
		if p.FloorProjection != nil {
			return compositeFor(p, *p.FloorProjection)
		}
	case fantasy.StrategyCeiling:
		if p.CeilingProjection != nil {
			return compositeFor(p, *p.CeilingProjection)
		}
	}
	return p.CompositeScore
}

func tierFor(score float64) fantasy.Tier {
	switch {
	case score >= TierEliteThreshold:
		return fantasy.TierElite
	case score >= TierSolidThreshold:
		return fantasy.TierSolid
	default:
		return fantasy.TierDepth
	}
}

// Less orders players for ranking: composite score descending, ties broken
// by higher adjusted projection, then higher consistency, then name for
// full determinism.
func Less(a, b *fantasy.Player) bool {
	if a.CompositeScore != b.CompositeScore {
		return a.CompositeScore > b.CompositeScore
	}
	ap, bp := projectionOf(a), projectionOf(b)
	if ap != bp {
		return ap > bp
	}
	if a.ConsistencyScore != b.ConsistencyScore {
		return a.ConsistencyScore > b.ConsistencyScore
	}
	return a.Name < b.Name
}

// SortByRank sorts in place using the deterministic ranking order.
func SortByRank(players []fantasy.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		return Less(&players[i], &players[j])
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
