package providers

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ff-lineup-engine/internal/fantasy"
)

const rosterPayload = `{
  "fantasy_content": {
    "team": [
      [
        {"team_key": "nfl.l.12345.t.1"},
        {"name": "Gridiron Grinders"}
      ],
      {
        "roster": {
          "0": {
            "players": {
              "0": {
                "player": [
                  [
                    {"player_key": "nfl.p.100"},
                    {"name": {"full": "Patrick Mahomes", "first": "Patrick", "last": "Mahomes"}},
                    {"editorial_team_abbr": "KC"},
                    {"display_position": "QB"},
                    {"bye_weeks": {"week": "10"}},
                    {"status": "Q"}
                  ],
                  {"selected_position": [{"coverage_type": "week"}, {"position": "QB"}]}
                ]
              },
              "1": {
                "player": [
                  [
                    {"player_key": "nfl.p.200"},
                    {"name": {"full": "Rashee Rice"}},
                    {"editorial_team_abbr": "KC"},
                    {"display_position": "WR"},
                    {"bye_weeks": {"week": 10}}
                  ],
                  {"selected_position": [{"position": "W/R/T"}]}
                ]
              },
              "2": {
                "player": [
                  [
                    {"player_key": "nfl.p.300"},
                    {"name": {"full": "Jaylen Warren"}},
                    {"editorial_team_abbr": "PIT"},
                    {"display_position": "RB"}
                  ],
                  {"selected_position": [{"position": "BN"}]}
                ]
              },
              "count": 3
            }
          }
        }
      }
    ]
  }
}`

func TestParseTeamRoster(t *testing.T) {
	records, err := ParseTeamRoster([]byte(rosterPayload))
	require.NoError(t, err)
	require.Len(t, records, 3)

	sort.Slice(records, func(i, j int) bool { return records[i].PlayerKey < records[j].PlayerKey })

	mahomes := records[0]
	assert.Equal(t, "nfl.p.100", mahomes.PlayerKey)
	assert.Equal(t, "Patrick Mahomes", mahomes.Name)
	assert.Equal(t, fantasy.PositionQB, mahomes.Position)
	assert.Equal(t, "QB", mahomes.SelectedSlot)
	assert.Equal(t, "KC", mahomes.Team)
	require.NotNil(t, mahomes.ByeWeek)
	assert.Equal(t, 10, *mahomes.ByeWeek)
	assert.Equal(t, "Q", mahomes.InjuryStatus)

	// A player slotted at FLEX keeps the slot but takes eligibility from
	// the display position.
	rice := records[1]
	assert.Equal(t, "W/R/T", rice.SelectedSlot)
	assert.Equal(t, fantasy.PositionWR, rice.Position)
	require.NotNil(t, rice.ByeWeek)
	assert.Equal(t, 10, *rice.ByeWeek)

	// Same for the bench slot.
	warren := records[2]
	assert.Equal(t, "BN", warren.SelectedSlot)
	assert.Equal(t, fantasy.PositionRB, warren.Position)
	assert.Nil(t, warren.ByeWeek)
}

const freeAgentPayload = `{
  "fantasy_content": {
    "league": [
      {"league_key": "nfl.l.12345"},
      {
        "players": {
          "0": {
            "player": [
              [
                {"player_key": "nfl.p.400"},
                {"name": {"full": "Jordan Mason"}},
                {"display_position": "RB"},
                {"editorial_team_abbr": "SF"},
                {"ownership": {"ownership_percentage": "12.5", "weekly_change": 3}},
                {"bye_weeks": {"week": 9}}
              ]
            ]
          },
          "1": {
            "player": [
              [
                {"player_key": "nfl.p.500"},
                {"name": {"full": "Taysom Hill"}},
                {"display_position": "TE,QB"},
                {"editorial_team_abbr": "NO"},
                {"percent_owned": 44}
              ]
            ]
          },
          "count": 2
        }
      }
    ]
  }
}`

func TestParseFreeAgents(t *testing.T) {
	records, err := ParseFreeAgents([]byte(freeAgentPayload))
	require.NoError(t, err)
	require.Len(t, records, 2)

	sort.Slice(records, func(i, j int) bool { return records[i].PlayerKey < records[j].PlayerKey })

	mason := records[0]
	assert.Equal(t, "Jordan Mason", mason.Name)
	assert.Equal(t, fantasy.PositionRB, mason.Position)
	assert.Equal(t, "SF", mason.Team)
	assert.InDelta(t, 12.5, mason.OwnedPct, 0.001)
	assert.Equal(t, 3, mason.WeeklyChange)
	require.NotNil(t, mason.ByeWeek)
	assert.Equal(t, 9, *mason.ByeWeek)

	// Multi-position players keep their first listed position; ownership
	// can also arrive as a bare percent_owned number.
	hill := records[1]
	assert.Equal(t, fantasy.PositionTE, hill.Position)
	assert.InDelta(t, 44.0, hill.OwnedPct, 0.001)
}

func TestParseTeamRosterMalformed(t *testing.T) {
	_, err := ParseTeamRoster([]byte("{not json"))
	assert.Error(t, err)

	records, err := ParseTeamRoster([]byte(`{"fantasy_content": {}}`))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseFreeAgentsEmpty(t *testing.T) {
	records, err := ParseFreeAgents([]byte(`{"fantasy_content": {"league": []}}`))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParsePlayersSkipsNameless(t *testing.T) {
	payload := `{
	  "fantasy_content": {
	    "league": [
	      {
	        "players": {
	          "0": {"player": [[{"player_key": "nfl.p.600"}]]},
	          "count": 1
	        }
	      }
	    ]
	  }
	}`

	records, err := ParseFreeAgents([]byte(payload))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestNormalizePosition(t *testing.T) {
	tests := []struct {
		input    string
		expected fantasy.Position
	}{
		{"QB", fantasy.PositionQB},
		{"DEF", fantasy.PositionDEF},
		{"W/R/T", fantasy.PositionFlex},
		{"W/R", fantasy.PositionFlex},
		{"Q/W/R/T", fantasy.PositionFlex},
		{"BN", ""},
		{"IR", ""},
		{"WR,RB", fantasy.PositionWR},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizePosition(tt.input))
		})
	}
}

func TestSelectedPositionShapes(t *testing.T) {
	asDict := map[string]interface{}{"position": "RB"}
	asKeyed := map[string]interface{}{
		"0":     map[string]interface{}{"position": "WR"},
		"count": 1.0,
	}
	asList := []interface{}{
		map[string]interface{}{"coverage_type": "week"},
		map[string]interface{}{"position": "TE"},
	}

	assert.Equal(t, "RB", selectedPosition(asDict))
	assert.Equal(t, "WR", selectedPosition(asKeyed))
	assert.Equal(t, "TE", selectedPosition(asList))
	assert.Equal(t, "", selectedPosition(nil))
	assert.Equal(t, "", selectedPosition("QB"))
}
