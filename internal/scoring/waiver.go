package scoring

import (
	"fmt"

	"ff-lineup-engine/internal/fantasy"
)

// Waiver priority weights. Expert confidence dominates, projection is
// capped, low ownership earns a bonus, trending adds and positional
// scarcity round it out.
const (
	waiverConfidenceWeight = 0.35

	// waiverProjectionScale converts projected points into priority
	// points, capped so monster projections cannot swamp the score.
	waiverProjectionScale = 2.0
	waiverProjectionCap   = 30.0

	// waiverOwnershipPivot: every ownership point under this earns the
	// bonus rate; above it the bonus is zero.
	waiverOwnershipPivot = 50.0
	waiverOwnershipRate  = 0.4

	waiverTrendingScale = 1.5
	waiverTrendingCap   = 10.0

	// Scarcity bonus derived from pool-wide average ownership at the
	// player's position, capped at 5 priority points.
	scarcityBonusRate = 0.5
	scarcityBonusCap  = 5.0

	defaultConfidence = 50.0
)

// Urgency bands over the priority score (adjusted for scarcity).
const (
	UrgencyMustAdd  = "MUST ADD - Elite waiver target"
	UrgencyHigh     = "High Priority - Strong pickup"
	UrgencyModerate = "Moderate - Worth a claim"
	UrgencyDepth    = "Low Priority - Depth option"
	UrgencyAvoid    = "Avoid - Better options available"
)

// PositionScarcity summarizes how contested a position is on the waiver
// wire.
type PositionScarcity struct {
	Score          float64 `json:"scarcity_score"`
	AvgOwnership   float64 `json:"avg_ownership"`
	AvailableCount int     `json:"available_count"`
}

// ComputeScarcity derives per-position scarcity from the full candidate
// pool. It must run once before per-player scoring, never per player.
func ComputeScarcity(pool []fantasy.Player) map[fantasy.Position]PositionScarcity {
	type acc struct {
		total int
		owned float64
	}
	byPos := make(map[fantasy.Position]*acc)
	for i := range pool {
		p := &pool[i]
		if p.Position == "" {
			continue
		}
		a, ok := byPos[p.Position]
		if !ok {
			a = &acc{}
			byPos[p.Position] = a
		}
		a.total++
		a.owned += p.OwnedPct
	}

	out := make(map[fantasy.Position]PositionScarcity, len(byPos))
	for pos, a := range byPos {
		avg := 0.0
		if a.total > 0 {
			avg = a.owned / float64(a.total)
		}
		// Higher average ownership means the position is picked over.
		out[pos] = PositionScarcity{
			Score:          min(avg/10, 10),
			AvgOwnership:   avg,
			AvailableCount: a.total,
		}
	}
	return out
}

// ScoreWaiverCandidates returns a copy of the candidates with waiver
// priority, urgency, and an analysis line set. Positional scarcity is
// computed over the supplied pool (typically the full free-agent list, a
// superset of the candidates).
func ScoreWaiverCandidates(candidates []fantasy.Player, pool []fantasy.Player) []fantasy.Player {
	scarcity := ComputeScarcity(pool)

	out := make([]fantasy.Player, len(candidates))
	copy(out, candidates)
	for i := range out {
		scoreWaiver(&out[i], scarcity[out[i].Position])
	}
	return out
}

func scoreWaiver(p *fantasy.Player, scarcity PositionScarcity) {
	confidence := p.ExpertConfidence
	if confidence == 0 {
		confidence = defaultConfidence
	}

	proj := 0.0
	if p.PrimaryProjection != nil {
		proj += *p.PrimaryProjection
	}
	if p.SecondaryProjection != nil {
		proj += *p.SecondaryProjection
	}

	confidenceScore := confidence * waiverConfidenceWeight
	projectionScore := min(proj*waiverProjectionScale, waiverProjectionCap)
	ownershipBonus := max(0, (waiverOwnershipPivot-p.OwnedPct)*waiverOwnershipRate)
	trendingBonus := min(p.TrendingScore*waiverTrendingScale, waiverTrendingCap)
	scarcityBonus := min(scarcity.Score*scarcityBonusRate, scarcityBonusCap)

	p.WaiverPriority = confidenceScore + projectionScore + ownershipBonus + trendingBonus + scarcityBonus

	// Scarce positions push urgency up a notch beyond the raw priority.
	urgencyScore := p.WaiverPriority + scarcityBonus*2
	switch {
	case urgencyScore >= 80:
		p.PickupUrgency = UrgencyMustAdd
	case urgencyScore >= 65:
		p.PickupUrgency = UrgencyHigh
	case urgencyScore >= 50:
		p.PickupUrgency = UrgencyModerate
	case urgencyScore >= 35:
		p.PickupUrgency = UrgencyDepth
	default:
		p.PickupUrgency = UrgencyAvoid
	}

	p.EnhancementContext = fmt.Sprintf(
		"Priority %.1f (proj %.1f, owned %.1f%%, trending %.0f, scarcity %.1f)",
		p.WaiverPriority, proj, p.OwnedPct, p.TrendingScore, scarcity.Score)
}
