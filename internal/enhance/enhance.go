// Package enhance adjusts raw projections with recent-performance context.
// It zeroes projections on bye weeks, blends recent averages against the
// raw projection with fixed ratios, and sets categorical performance flags.
// Missing inputs degrade the player; they never raise errors.
package enhance

import (
	"fmt"

	"ff-lineup-engine/internal/fantasy"
)

// Thresholds and blend ratios are fixed configuration constants carried
// over from the source heuristics; they have no stated derivation and are
// deliberately not tuned here.
const (
	// BreakoutRatio: recent average at or above this multiple of the raw
	// projection flags a breakout.
	BreakoutRatio = 1.5

	// DeclineRatio: recent average below this multiple flags a declining
	// role.
	DeclineRatio = 0.7

	// breakoutRecentWeight blends the adjusted projection toward the
	// recent average for breakouts (70% recent / 30% raw).
	breakoutRecentWeight = 0.7

	// declineRecentWeight blends toward the recent average on declines.
	declineRecentWeight = 0.7

	// steadyRecentWeight keeps the adjusted projection close to the raw
	// projection for consistent players.
	steadyRecentWeight = 0.3
)

// ByeRecommendation is the explicit do-not-start marker for bye weeks.
const ByeRecommendation = "BYE WEEK - DO NOT START"

// OnBye reports whether the player's team sits out the given week, checking
// the player's own bye field first and the schedule lookup second.
func OnBye(p *fantasy.Player, byes fantasy.ByeWeeks, week int) bool {
	if week < 1 {
		return false
	}
	if p.ByeWeek != nil {
		if bw := *p.ByeWeek; bw >= 1 && bw <= 18 {
			return bw == week
		}
	}
	if bw, ok := byes[p.Team]; ok {
		return bw == week
	}
	return false
}

// Enhance produces the adjusted projection, bye handling, performance
// flags, and a one-line context for a single player. The input player is
// copied; the result is complete before composite scoring reads it.
func Enhance(p fantasy.Player, recent *fantasy.RecentPerformance, byes fantasy.ByeWeeks, week int) fantasy.Player {
	// Step 1: bye check short-circuits everything else. Displayed
	// projections are forced to zero and no other flag may coexist with
	// the bye marker.
	if OnBye(&p, byes, week) {
		p.OnBye = true
		zero := 0.0
		p.PrimaryProjection = &zero
		p.SecondaryProjection = &zero
		p.AdjustedProjection = &zero
		p.Flags = []fantasy.Flag{fantasy.FlagOnBye}
		p.Recommendation = ByeRecommendation
		if p.ByeWeek != nil {
			p.EnhancementContext = fmt.Sprintf("On bye week %d", *p.ByeWeek)
		} else {
			p.EnhancementContext = fmt.Sprintf("On bye week %d", week)
		}
		return p
	}

	raw, hasRaw := p.BestRawProjection()
	if !hasRaw {
		// No projection from either provider: adjusted stays null and the
		// player continues downstream with degraded confidence.
		p.MarkDegraded("no projection from either provider")
		p.EnhancementContext = "No projection data available"
		if recent != nil {
			p.Recent = recent
		}
		return p
	}

	// Step 2: without recent data the raw projection passes through
	// unmodified.
	if recent == nil || recent.WeeksAnalyzed == 0 {
		adjusted := raw
		p.AdjustedProjection = &adjusted
		p.EnhancementContext = "No recent performance data; using raw projection"
		return p
	}

	p.Recent = recent
	avg := recent.AvgPoints

	// Step 3: compare the recent average against the raw projection and
	// blend accordingly.
	var adjusted float64
	switch {
	case raw > 0 && avg >= raw*BreakoutRatio:
		adjusted = avg*breakoutRecentWeight + raw*(1-breakoutRecentWeight)
		p.AddFlag(fantasy.FlagBreakoutCandidate)
		p.AddFlag(fantasy.FlagTrendingUp)
		p.EnhancementContext = fmt.Sprintf(
			"Recent breakout: averaging %.1f pts over last %d weeks (projection: %.1f)",
			avg, recent.WeeksAnalyzed, raw)
	case raw > 0 && avg < raw*DeclineRatio:
		adjusted = avg*declineRecentWeight + raw*(1-declineRecentWeight)
		p.AddFlag(fantasy.FlagDecliningRole)
		p.AddFlag(fantasy.FlagTrendingDown)
		p.EnhancementContext = fmt.Sprintf(
			"Declining role: averaging %.1f pts over last %d weeks (projection: %.1f)",
			avg, recent.WeeksAnalyzed, raw)
	default:
		adjusted = avg*steadyRecentWeight + raw*(1-steadyRecentWeight)
		p.AddFlag(fantasy.FlagConsistent)
		p.EnhancementContext = fmt.Sprintf(
			"L%dW avg %.1f pts vs %.1f projected",
			recent.WeeksAnalyzed, avg, raw)
	}

	// Trend flags from the window classification, on top of the ratio
	// flags.
	switch recent.Trend {
	case fantasy.TrendImproving:
		p.AddFlag(fantasy.FlagTrendingUp)
	case fantasy.TrendDeclining:
		p.AddFlag(fantasy.FlagTrendingDown)
	}

	p.AdjustedProjection = &adjusted
	return p
}
