package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ff-lineup-engine/internal/fantasy"
)

func TestComputeScarcity(t *testing.T) {
	pool := []fantasy.Player{
		{Name: "RB One", Position: fantasy.PositionRB, OwnedPct: 40},
		{Name: "RB Two", Position: fantasy.PositionRB, OwnedPct: 20},
		{Name: "WR One", Position: fantasy.PositionWR, OwnedPct: 5},
		{Name: "No Position"},
	}

	scarcity := ComputeScarcity(pool)
	require.Len(t, scarcity, 2)

	rb := scarcity[fantasy.PositionRB]
	assert.Equal(t, 2, rb.AvailableCount)
	assert.InDelta(t, 30.0, rb.AvgOwnership, 0.001)
	assert.InDelta(t, 3.0, rb.Score, 0.001)

	wr := scarcity[fantasy.PositionWR]
	assert.Equal(t, 1, wr.AvailableCount)
	assert.InDelta(t, 0.5, wr.Score, 0.001)
}

func TestComputeScarcityCapped(t *testing.T) {
	pool := make([]fantasy.Player, 3)
	for i := range pool {
		pool[i] = fantasy.Player{Name: "TE", Position: fantasy.PositionTE, OwnedPct: 100}
	}

	scarcity := ComputeScarcity(pool)
	assert.InDelta(t, 10.0, scarcity[fantasy.PositionTE].Score, 0.001)
}

func TestScoreWaiverCandidatesDefaults(t *testing.T) {
	candidates := []fantasy.Player{{Name: "Fresh Stash", Position: fantasy.PositionRB}}

	out := ScoreWaiverCandidates(candidates, candidates)
	require.Len(t, out, 1)

	// Default confidence 50 * 0.35 plus the full low-ownership bonus.
	assert.InDelta(t, 37.5, out[0].WaiverPriority, 0.001)
	assert.Equal(t, UrgencyDepth, out[0].PickupUrgency)
	assert.Equal(t,
		"Priority 37.5 (proj 0.0, owned 0.0%, trending 0, scarcity 0.0)",
		out[0].EnhancementContext)

	// Input slice stays untouched.
	assert.Zero(t, candidates[0].WaiverPriority)
	assert.Empty(t, candidates[0].PickupUrgency)
}

func TestScoreWaiverCandidatesEliteTarget(t *testing.T) {
	candidate := fantasy.Player{
		Name:                "League Winner",
		Position:            fantasy.PositionRB,
		PrimaryProjection:   fantasy.Float(10),
		SecondaryProjection: fantasy.Float(10),
		OwnedPct:            2,
		TrendingScore:       10,
		ExpertConfidence:    90,
	}
	// A picked-over position raises scarcity to its cap.
	pool := []fantasy.Player{
		{Name: "Rostered One", Position: fantasy.PositionRB, OwnedPct: 100},
		{Name: "Rostered Two", Position: fantasy.PositionRB, OwnedPct: 100},
	}

	out := ScoreWaiverCandidates([]fantasy.Player{candidate}, pool)
	require.Len(t, out, 1)

	// 31.5 confidence + 30 capped projection + 19.2 ownership + 10 capped
	// trending + 5 scarcity.
	assert.InDelta(t, 95.7, out[0].WaiverPriority, 0.001)
	assert.Equal(t, UrgencyMustAdd, out[0].PickupUrgency)
}

func TestScoreWaiverCandidatesAvoid(t *testing.T) {
	candidates := []fantasy.Player{{
		Name:     "Already Rostered Everywhere",
		Position: fantasy.PositionWR,
		OwnedPct: 100,
	}}

	out := ScoreWaiverCandidates(candidates, candidates)
	assert.InDelta(t, 17.5, out[0].WaiverPriority, 0.001)
	assert.Equal(t, UrgencyAvoid, out[0].PickupUrgency)
}

func TestScoreWaiverUrgencyBands(t *testing.T) {
	mk := func(name string, proj, trending float64) fantasy.Player {
		return fantasy.Player{
			Name:              name,
			Position:          fantasy.PositionWR,
			PrimaryProjection: fantasy.Float(proj),
			OwnedPct:          10,
			TrendingScore:     trending,
		}
	}

	// 17.5 + 10 + 16 + 9 = 52.5.
	moderate := ScoreWaiverCandidates([]fantasy.Player{mk("Moderate", 5, 6)}, nil)[0]
	assert.Equal(t, UrgencyModerate, moderate.PickupUrgency)

	// 17.5 + 24 + 16 + 9 = 66.5.
	high := ScoreWaiverCandidates([]fantasy.Player{mk("High", 12, 6)}, nil)[0]
	assert.Equal(t, UrgencyHigh, high.PickupUrgency)
}

func TestScoreWaiverMonotonicInProjection(t *testing.T) {
	lo := fantasy.Player{Name: "Lo", Position: fantasy.PositionTE, PrimaryProjection: fantasy.Float(5)}
	hi := fantasy.Player{Name: "Hi", Position: fantasy.PositionTE, PrimaryProjection: fantasy.Float(12)}

	out := ScoreWaiverCandidates([]fantasy.Player{lo, hi}, nil)
	assert.Greater(t, out[1].WaiverPriority, out[0].WaiverPriority)
}

func TestScoreWaiverOwnershipBonusFloorsAtZero(t *testing.T) {
	under := fantasy.Player{Name: "Under", Position: fantasy.PositionK, OwnedPct: 40}
	over := fantasy.Player{Name: "Over", Position: fantasy.PositionK, OwnedPct: 90}

	out := ScoreWaiverCandidates([]fantasy.Player{under, over}, nil)
	assert.InDelta(t, 21.5, out[0].WaiverPriority, 0.001)
	assert.InDelta(t, 17.5, out[1].WaiverPriority, 0.001)
}
