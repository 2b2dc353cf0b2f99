// Package optimizer assigns scored players to roster slots. It walks the
// starting slots in a fixed priority order (single-eligibility slots before
// flexible ones), picks the highest-ranked eligible player for each, and
// reports unfillable slots structurally while still returning the partial
// lineup it could build.
package optimizer

import (
	"fmt"
	"sort"

	"ff-lineup-engine/internal/fantasy"
	"ff-lineup-engine/internal/scoring"
)

// DataQuality counts what the optimizer had to work with, so callers can
// distinguish "no players" from "enhancement unavailable".
type DataQuality struct {
	TotalPlayers    int `json:"total_players"`
	ValidPlayers    int `json:"valid_players"`
	WithProjections int `json:"with_projections"`
	WithMatchupData int `json:"with_matchup_data"`
}

// Result is the lineup assignment: starters by slot name, the ordered
// bench, any slots that could not be filled, and advice lines.
type Result struct {
	Starters        map[string]fantasy.Player `json:"starters"`
	SlotOrder       []string                  `json:"slot_order"`
	Bench           []fantasy.Player          `json:"bench"`
	UnfilledSlots   []string                  `json:"unfilled_slots,omitempty"`
	Recommendations []string                  `json:"recommendations,omitempty"`
	Strategy        fantasy.Strategy          `json:"strategy"`
	DataQuality     DataQuality               `json:"data_quality"`
}

// ErrNoValidPlayers is the only terminal failure: nothing usable was
// supplied at all. It carries the diagnostic counts.
type ErrNoValidPlayers struct {
	DataQuality DataQuality
}

func (e *ErrNoValidPlayers) Error() string {
	return fmt.Sprintf("no valid players to optimize (total=%d)", e.DataQuality.TotalPlayers)
}

// Optimize builds the best lineup it can under the slot definitions and
// strategy. An unrecognized strategy silently falls back to balanced; the
// caller can detect that via fantasy.NormalizeStrategy beforehand. A
// shortfall at any slot is reported in UnfilledSlots, never as an error.
func Optimize(players []fantasy.Player, slots []fantasy.RosterSlotDef, strategy fantasy.Strategy) (*Result, error) {
	strategy, _ = fantasy.NormalizeStrategy(string(strategy))

	quality := measureQuality(players)
	if quality.ValidPlayers == 0 {
		return nil, &ErrNoValidPlayers{DataQuality: quality}
	}

	pool := make([]fantasy.Player, 0, len(players))
	for _, p := range players {
		if p.IsValid() {
			pool = append(pool, p)
		}
	}

	result := &Result{
		Starters:    make(map[string]fantasy.Player, len(slots)),
		Strategy:    strategy,
		DataQuality: quality,
	}

	assigned := make(map[int]bool, len(pool))

	// Single-eligibility slots fill first so FLEX never steals a player a
	// dedicated slot still needs.
	for _, slot := range orderSlots(slots) {
		result.SlotOrder = append(result.SlotOrder, slot.Name)

		best := -1
		for i := range pool {
			if assigned[i] || !slot.Accepts(pool[i].Position) {
				continue
			}
			if best == -1 || rankLess(&pool[i], &pool[best], strategy) {
				best = i
			}
		}

		if best == -1 {
			result.UnfilledSlots = append(result.UnfilledSlots, slot.Name)
			continue
		}

		assigned[best] = true
		starter := pool[best]
		starter.RosterSlot = slot.Name
		result.Starters[slot.Name] = starter
	}

	// Remaining players become the bench, ordered by descending rank.
	for i := range pool {
		if !assigned[i] {
			benched := pool[i]
			benched.RosterSlot = string(fantasy.PositionBench)
			result.Bench = append(result.Bench, benched)
		}
	}
	sort.SliceStable(result.Bench, func(i, j int) bool {
		return rankLess(&result.Bench[i], &result.Bench[j], strategy)
	})

	result.Recommendations = recommendations(result)
	return result, nil
}

// orderSlots returns the fill order: dedicated slots in their declared
// order, then flexible slots. The declared order is otherwise preserved.
func orderSlots(slots []fantasy.RosterSlotDef) []fantasy.RosterSlotDef {
	ordered := make([]fantasy.RosterSlotDef, 0, len(slots))
	for _, s := range slots {
		if s.SingleEligibility() {
			ordered = append(ordered, s)
		}
	}
	for _, s := range slots {
		if !s.SingleEligibility() {
			ordered = append(ordered, s)
		}
	}
	return ordered
}

// rankLess reports whether a outranks b under the strategy's selection
// key, with the composite tie-break chain as the fallback.
func rankLess(a, b *fantasy.Player, strategy fantasy.Strategy) bool {
	ka, kb := scoring.RankScore(a, strategy), scoring.RankScore(b, strategy)
	if ka != kb {
		return ka > kb
	}
	return scoring.Less(a, b)
}

func measureQuality(players []fantasy.Player) DataQuality {
	q := DataQuality{TotalPlayers: len(players)}
	for i := range players {
		p := &players[i]
		if !p.IsValid() {
			continue
		}
		q.ValidPlayers++
		if p.AdjustedProjection != nil || p.PrimaryProjection != nil || p.SecondaryProjection != nil {
			q.WithProjections++
		}
		if p.MatchupDescription != "" && p.MatchupDescription != "no matchup data" {
			q.WithMatchupData++
		}
	}
	return q
}

// recommendations produces human-readable advice from the finished
// assignment: shortfalls, bye-week starters, tough matchups, and strong
// bench players worth monitoring.
func recommendations(r *Result) []string {
	var recs []string

	for _, slot := range r.UnfilledSlots {
		recs = append(recs, fmt.Sprintf("No eligible player available for %s", slot))
	}

	for _, slot := range r.SlotOrder {
		p, ok := r.Starters[slot]
		if !ok {
			continue
		}
		if p.OnBye {
			recs = append(recs, fmt.Sprintf("%s (%s) is on bye - replace before kickoff", p.Name, slot))
			continue
		}
		if p.Tier != fantasy.TierElite && p.MatchupScore <= -5 {
			recs = append(recs, fmt.Sprintf("%s faces a tough matchup vs %s - consider alternatives", p.Name, p.Opponent))
		}
		if p.Tier == fantasy.TierElite && p.MatchupScore <= -5 {
			recs = append(recs, fmt.Sprintf("%s starts despite a tough matchup vs %s", p.Name, p.Opponent))
		}
	}

	for i := range r.Bench {
		p := &r.Bench[i]
		if p.HasFlag(fantasy.FlagBreakoutCandidate) {
			recs = append(recs, fmt.Sprintf("%s on bench is flagged as a breakout candidate - monitor", p.Name))
		}
	}

	return recs
}
