// Package performance computes short-window actual-output statistics:
// recent averages, trend classification, consistency, and floor/ceiling
// estimates. All functions are pure; missing data yields nil or neutral
// defaults, never an error.
package performance

import (
	"math"

	"ff-lineup-engine/internal/fantasy"
)

const (
	// MaxWindow caps the analysis window at the most recent periods.
	MaxWindow = 3

	// trendMargin is the relative gap between the recent-half and
	// earlier-half averages required to call a trend.
	trendMargin = 0.15

	// consistencyDefault is used when fewer than three scores exist.
	consistencyDefault = 50.0
)

// Analyze computes window statistics over recent actual scores, ordered
// most recent last. Zero available periods yields nil: no analysis is not
// the same as zero performance.
func Analyze(scores []float64) *fantasy.RecentPerformance {
	if len(scores) == 0 {
		return nil
	}

	window := scores
	if len(window) > MaxWindow {
		window = window[len(window)-MaxWindow:]
	}

	total := 0.0
	for _, s := range window {
		total += s
	}

	out := make([]float64, len(window))
	copy(out, window)

	return &fantasy.RecentPerformance{
		WeeksAnalyzed: len(window),
		AvgPoints:     total / float64(len(window)),
		TotalPoints:   total,
		Scores:        out,
		Trend:         classifyTrend(window),
	}
}

// classifyTrend compares the average of the most recent half of the window
// against the earlier half. A single period is always stable.
func classifyTrend(window []float64) fantasy.Trend {
	if len(window) < 2 {
		return fantasy.TrendStable
	}

	split := len(window) / 2
	earlier := mean(window[:split])
	recent := mean(window[split:])

	if earlier == 0 {
		if recent > 0 {
			return fantasy.TrendImproving
		}
		return fantasy.TrendStable
	}

	change := (recent - earlier) / earlier
	switch {
	case change > trendMargin:
		return fantasy.TrendImproving
	case change < -trendMargin:
		return fantasy.TrendDeclining
	default:
		return fantasy.TrendStable
	}
}

// Consistency scores week-to-week steadiness on a 0-100 scale from the
// coefficient of variation: 100 means no variance, 0 means boom/bust.
// Fewer than three scores yields the neutral default.
func Consistency(scores []float64) float64 {
	if len(scores) < 3 {
		return consistencyDefault
	}

	m := mean(scores)
	if m == 0 {
		return consistencyDefault
	}

	cv := stdDev(scores, m) / m
	return clamp((1-cv)*100, 0, 100)
}

// FloorCeiling estimates a projection band. With three or more recent
// scores the band comes from observed volatility (mean -0.8 sigma to mean
// +1.2 sigma), widened or tightened by matchup quality; otherwise it falls
// back to matchup-banded multiples of the base projection. matchupScore is
// on the -10..+10 scale.
func FloorCeiling(base float64, matchupScore float64, scores []float64) (floor, ceiling float64) {
	if len(scores) >= 3 {
		m := mean(scores)
		sd := stdDev(scores, m)
		floor = m - sd*0.8
		ceiling = m + sd*1.2

		if matchupScore >= 4 {
			floor *= 1.1
			ceiling *= 1.2
		} else if matchupScore <= -4 {
			floor *= 0.85
			ceiling *= 0.95
		}
		return math.Max(0, floor), ceiling
	}

	if base <= 0 {
		return 0, 0
	}

	switch {
	case matchupScore >= 4:
		floor, ceiling = base*0.75, base*1.35
	case matchupScore >= 0:
		floor, ceiling = base*0.80, base*1.25
	case matchupScore >= -4:
		floor, ceiling = base*0.70, base*1.15
	default:
		floor, ceiling = base*0.60, base*1.10
	}
	return floor, ceiling
}

// Risk classifies volatility from the consistency score.
func Risk(consistency float64) fantasy.RiskLevel {
	switch {
	case consistency >= 65:
		return fantasy.RiskLow
	case consistency >= 40:
		return fantasy.RiskMedium
	default:
		return fantasy.RiskHigh
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total / float64(len(xs))
}

func stdDev(xs []float64, m float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
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
