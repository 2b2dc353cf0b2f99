// Package matchup scores the strength of a player's upcoming opponent from
// positional defensive rankings. Scores are bounded to -10..+10 with 0
// neutral; missing data yields the neutral score with an explicit
// description instead of an error.
package matchup

import (
	"fmt"
	"math"
	"strings"

	"ff-lineup-engine/internal/fantasy"
)

const (
	// ScoreMin and ScoreMax bound the matchup score.
	ScoreMin = -10.0
	ScoreMax = 10.0

	// sigmoidSteepness shapes the rank-to-score curve: steeper at the
	// extremes, flatter through the middle ranks.
	sigmoidSteepness = 0.08

	// leagueTeams is the number of ranked defenses.
	leagueTeams = 32
)

// NoDataDescription is returned whenever opponent or ranking data is
// missing.
const NoDataDescription = "no matchup data"

// Score rates the opponent's defense against the player's position. An
// empty opponent or an unranked defense yields (0, NoDataDescription).
func Score(opponent string, position fantasy.Position, ranks fantasy.DefensiveRanks) (float64, string) {
	opp := strings.TrimSpace(strings.TrimPrefix(opponent, "@"))
	if opp == "" || len(ranks) == 0 {
		return 0, NoDataDescription
	}

	posRanks, ok := ranks[opp]
	if !ok {
		return 0, NoDataDescription
	}

	rank := posRanks.For(position)
	if rank < 1 || rank > leagueTeams {
		return 0, NoDataDescription
	}

	// Rank 32 (most generous defense) maps to the 100th percentile; the
	// sigmoid then spreads the middle ranks onto the bounded scale.
	percentile := float64(rank) / leagueTeams * 100
	unit := 1 / (1 + math.Exp(-sigmoidSteepness*(percentile-50)))
	score := (unit - 0.5) * 2 * ScoreMax

	score = math.Max(ScoreMin, math.Min(ScoreMax, score))
	return score, describe(score, opp, rank)
}

func describe(score float64, opponent string, rank int) string {
	var quality string
	switch {
	case score >= 8:
		quality = "Smash spot"
	case score >= 5:
		quality = "Elite matchup"
	case score >= 2:
		quality = "Favorable matchup"
	case score > -2:
		quality = "Neutral matchup"
	case score > -5:
		quality = "Tough matchup"
	case score > -8:
		quality = "Bad matchup"
	default:
		quality = "Avoid - elite defense"
	}
	return fmt.Sprintf("%s vs %s (#%d/%d)", quality, opponent, rank, leagueTeams)
}
