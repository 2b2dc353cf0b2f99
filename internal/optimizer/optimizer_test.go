package optimizer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ff-lineup-engine/internal/fantasy"
)

func mk(name string, pos fantasy.Position, composite float64) fantasy.Player {
	return fantasy.Player{
		Name:           name,
		Position:       pos,
		Team:           "KC",
		CompositeScore: composite,
		Tier:           fantasy.TierSolid,
	}
}

func fullRoster() []fantasy.Player {
	return []fantasy.Player{
		mk("QB Starter", fantasy.PositionQB, 80),
		mk("RB Alpha", fantasy.PositionRB, 78),
		mk("RB Beta", fantasy.PositionRB, 70),
		mk("RB Gamma", fantasy.PositionRB, 55),
		mk("WR Alpha", fantasy.PositionWR, 76),
		mk("WR Beta", fantasy.PositionWR, 68),
		mk("WR Gamma", fantasy.PositionWR, 60),
		mk("TE Starter", fantasy.PositionTE, 62),
		mk("Kicker", fantasy.PositionK, 50),
		mk("Defense", fantasy.PositionDEF, 52),
	}
}

func TestOptimizeFillsAllSlots(t *testing.T) {
	result, err := Optimize(fullRoster(), fantasy.StandardSlots(), fantasy.StrategyBalanced)
	require.NoError(t, err)

	assert.Len(t, result.Starters, 9)
	assert.Empty(t, result.UnfilledSlots)
	assert.Equal(t, "QB Starter", result.Starters["QB"].Name)
	assert.Equal(t, "RB Alpha", result.Starters["RB1"].Name)
	assert.Equal(t, "RB Beta", result.Starters["RB2"].Name)
	assert.Equal(t, "WR Alpha", result.Starters["WR1"].Name)
	assert.Equal(t, "WR Beta", result.Starters["WR2"].Name)
	assert.Equal(t, "TE Starter", result.Starters["TE"].Name)

	// FLEX takes the best leftover among RB/WR/TE.
	assert.Equal(t, "WR Gamma", result.Starters["FLEX"].Name)

	require.Len(t, result.Bench, 1)
	assert.Equal(t, "RB Gamma", result.Bench[0].Name)
	assert.Equal(t, "BENCH", result.Bench[0].RosterSlot)
}

func TestOptimizeNoDuplicateAssignments(t *testing.T) {
	result, err := Optimize(fullRoster(), fantasy.StandardSlots(), fantasy.StrategyBalanced)
	require.NoError(t, err)

	seen := make(map[string]string)
	for slot, p := range result.Starters {
		prev, dup := seen[p.Name]
		assert.Falsef(t, dup, "%s assigned to both %s and %s", p.Name, prev, slot)
		seen[p.Name] = slot
		assert.Equal(t, slot, p.RosterSlot)
	}
}

func TestOptimizeDedicatedSlotsBeforeFlex(t *testing.T) {
	// Two RBs only: both must land in RB1/RB2, never in FLEX.
	players := []fantasy.Player{
		mk("RB Alpha", fantasy.PositionRB, 90),
		mk("RB Beta", fantasy.PositionRB, 85),
		mk("QB Starter", fantasy.PositionQB, 80),
	}

	result, err := Optimize(players, fantasy.StandardSlots(), fantasy.StrategyBalanced)
	require.NoError(t, err)

	assert.Equal(t, "RB Alpha", result.Starters["RB1"].Name)
	assert.Equal(t, "RB Beta", result.Starters["RB2"].Name)
	_, flexFilled := result.Starters["FLEX"]
	assert.False(t, flexFilled)
	assert.Contains(t, result.UnfilledSlots, "FLEX")
}

func TestOptimizeReportsUnfilledSlots(t *testing.T) {
	players := []fantasy.Player{mk("QB Starter", fantasy.PositionQB, 80)}

	result, err := Optimize(players, fantasy.StandardSlots(), fantasy.StrategyBalanced)
	require.NoError(t, err)

	assert.Contains(t, result.UnfilledSlots, "TE")
	assert.Contains(t, result.UnfilledSlots, "K")
	assert.Contains(t, result.Recommendations, "No eligible player available for TE")
}

func TestOptimizeMissingPositionFillsTheRest(t *testing.T) {
	var players []fantasy.Player
	for _, p := range fullRoster() {
		if p.Position != fantasy.PositionTE {
			players = append(players, p)
		}
	}

	result, err := Optimize(players, fantasy.StandardSlots(), fantasy.StrategyBalanced)
	require.NoError(t, err)

	assert.Equal(t, []string{"TE"}, result.UnfilledSlots)
	assert.Len(t, result.Starters, 8)
}

func TestOptimizeNoValidPlayers(t *testing.T) {
	players := []fantasy.Player{
		{Name: "No Position"},
		{Position: fantasy.PositionRB},
	}

	_, err := Optimize(players, fantasy.StandardSlots(), fantasy.StrategyBalanced)
	require.Error(t, err)

	var noValid *ErrNoValidPlayers
	require.True(t, errors.As(err, &noValid))
	assert.Equal(t, 2, noValid.DataQuality.TotalPlayers)
	assert.Zero(t, noValid.DataQuality.ValidPlayers)
	assert.Equal(t, "no valid players to optimize (total=2)", err.Error())
}

func TestOptimizeUnknownStrategyFallsBack(t *testing.T) {
	result, err := Optimize(fullRoster(), fantasy.StandardSlots(), "aggressive")
	require.NoError(t, err)
	assert.Equal(t, fantasy.StrategyBalanced, result.Strategy)
}

func TestOptimizeCeilingStrategyChangesSelection(t *testing.T) {
	steady := mk("Steady WR", fantasy.PositionWR, 60)
	steady.AdjustedProjection = fantasy.Float(13)
	steady.FloorProjection = fantasy.Float(11)
	steady.CeilingProjection = fantasy.Float(14)

	boom := mk("Boom WR", fantasy.PositionWR, 58)
	boom.AdjustedProjection = fantasy.Float(12)
	boom.FloorProjection = fantasy.Float(4)
	boom.CeilingProjection = fantasy.Float(28)

	slots := []fantasy.RosterSlotDef{{Name: "WR1", Eligible: []fantasy.Position{fantasy.PositionWR}}}

	balanced, err := Optimize([]fantasy.Player{steady, boom}, slots, fantasy.StrategyBalanced)
	require.NoError(t, err)
	assert.Equal(t, "Steady WR", balanced.Starters["WR1"].Name)

	ceiling, err := Optimize([]fantasy.Player{steady, boom}, slots, fantasy.StrategyCeiling)
	require.NoError(t, err)
	assert.Equal(t, "Boom WR", ceiling.Starters["WR1"].Name)
}

func TestOptimizeBenchSortedByRank(t *testing.T) {
	players := append(fullRoster(),
		mk("Bench WR High", fantasy.PositionWR, 59),
		mk("Bench WR Low", fantasy.PositionWR, 30),
	)

	result, err := Optimize(players, fantasy.StandardSlots(), fantasy.StrategyBalanced)
	require.NoError(t, err)

	require.Len(t, result.Bench, 3)
	assert.Equal(t, "Bench WR High", result.Bench[0].Name)
	assert.Equal(t, "RB Gamma", result.Bench[1].Name)
	assert.Equal(t, "Bench WR Low", result.Bench[2].Name)
}

func TestOptimizeRecommendsOnByeAndBreakouts(t *testing.T) {
	players := fullRoster()
	players[0].OnBye = true

	breakout := mk("Stash Candidate", fantasy.PositionWR, 40)
	breakout.AddFlag(fantasy.FlagBreakoutCandidate)
	players = append(players, breakout)

	result, err := Optimize(players, fantasy.StandardSlots(), fantasy.StrategyBalanced)
	require.NoError(t, err)

	assert.Contains(t, result.Recommendations,
		"QB Starter (QB) is on bye - replace before kickoff")
	assert.Contains(t, result.Recommendations,
		"Stash Candidate on bench is flagged as a breakout candidate - monitor")
}

func TestOptimizeRecommendsToughMatchups(t *testing.T) {
	players := fullRoster()
	players[4].MatchupScore = -7
	players[4].Opponent = "CLE"

	players[0].Tier = fantasy.TierElite
	players[0].MatchupScore = -6
	players[0].Opponent = "BAL"

	result, err := Optimize(players, fantasy.StandardSlots(), fantasy.StrategyBalanced)
	require.NoError(t, err)

	assert.Contains(t, result.Recommendations,
		"WR Alpha faces a tough matchup vs CLE - consider alternatives")
	assert.Contains(t, result.Recommendations,
		"QB Starter starts despite a tough matchup vs BAL")
}

func TestOptimizeDataQuality(t *testing.T) {
	players := []fantasy.Player{
		mk("QB Starter", fantasy.PositionQB, 80),
		{Name: "Invalid"},
	}
	players[0].AdjustedProjection = fantasy.Float(20)
	players[0].MatchupDescription = "Neutral matchup vs DAL (#16/32)"

	result, err := Optimize(players, fantasy.StandardSlots(), fantasy.StrategyBalanced)
	require.NoError(t, err)

	assert.Equal(t, 2, result.DataQuality.TotalPlayers)
	assert.Equal(t, 1, result.DataQuality.ValidPlayers)
	assert.Equal(t, 1, result.DataQuality.WithProjections)
	assert.Equal(t, 1, result.DataQuality.WithMatchupData)
}
