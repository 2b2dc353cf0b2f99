package providers

import (
	"encoding/json"
	"fmt"
	"strconv"

	"ff-lineup-engine/internal/fantasy"
)

// Yahoo's fantasy API wraps everything in a "fantasy_content" envelope whose
// inner collections are JSON objects keyed by stringified indexes plus a
// "count" entry, and whose player entries are heterogeneous arrays mixing
// objects and nested arrays of objects. The parsers below scan every object
// they find and keep the first value seen for each field.

// ParseTeamRoster extracts roster rows from a team/{key}/roster response.
func ParseTeamRoster(data []byte) ([]fantasy.PrimaryRecord, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing roster payload: %w", err)
	}

	content, _ := payload["fantasy_content"].(map[string]interface{})
	team, _ := content["team"].([]interface{})

	var roster []fantasy.PrimaryRecord
	for _, item := range team {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		rosterData, ok := obj["roster"].(map[string]interface{})
		if !ok {
			continue
		}

		players := playersSection(rosterData)
		if players == nil {
			continue
		}
		roster = append(roster, parsePlayers(players)...)
	}
	return roster, nil
}

// ParseFreeAgents extracts available players from a league/{key}/players
// response, including ownership context for waiver scoring.
func ParseFreeAgents(data []byte) ([]fantasy.PrimaryRecord, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing free agent payload: %w", err)
	}

	content, _ := payload["fantasy_content"].(map[string]interface{})
	league, _ := content["league"].([]interface{})

	for _, item := range league {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if players, ok := obj["players"].(map[string]interface{}); ok {
			return parsePlayers(players), nil
		}
	}
	return nil, nil
}

// playersSection digs the players collection out of a roster object, which
// Yahoo nests differently across endpoints.
func playersSection(rosterData map[string]interface{}) map[string]interface{} {
	if zero, ok := rosterData["0"].(map[string]interface{}); ok {
		if players, ok := zero["players"].(map[string]interface{}); ok {
			return players
		}
	}
	if players, ok := rosterData["players"].(map[string]interface{}); ok {
		return players
	}
	if inner, ok := rosterData["roster"].(map[string]interface{}); ok {
		if players, ok := inner["players"].(map[string]interface{}); ok {
			return players
		}
	}
	return nil
}

func parsePlayers(players map[string]interface{}) []fantasy.PrimaryRecord {
	var records []fantasy.PrimaryRecord
	for key, pdata := range players {
		if key == "count" {
			continue
		}
		entry, ok := pdata.(map[string]interface{})
		if !ok {
			continue
		}
		playerArray, ok := entry["player"].([]interface{})
		if !ok {
			continue
		}

		var rec fantasy.PrimaryRecord
		walkContainers(playerArray, &rec)
		if rec.Name != "" {
			records = append(records, rec)
		}
	}
	return records
}

// walkContainers scans the mixed object/array player structure.
func walkContainers(elements []interface{}, rec *fantasy.PrimaryRecord) {
	for _, element := range elements {
		switch v := element.(type) {
		case map[string]interface{}:
			scanContainer(v, rec)
		case []interface{}:
			walkContainers(v, rec)
		}
	}
}

func scanContainer(container map[string]interface{}, rec *fantasy.PrimaryRecord) {
	if rec.PlayerKey == "" {
		if key, ok := container["player_key"].(string); ok {
			rec.PlayerKey = key
		}
	}

	if rec.Name == "" {
		if name, ok := container["name"].(map[string]interface{}); ok {
			if full, ok := name["full"].(string); ok {
				rec.Name = full
			}
		}
	}

	// The selected slot is roster context; eligibility comes from it only
	// when it names a single real position (FLEX, BN, and IR do not).
	if pos := selectedPosition(container["selected_position"]); pos != "" {
		rec.SelectedSlot = pos
		if rec.Position == "" {
			if normalized := normalizePosition(pos); normalized != "" && normalized != fantasy.PositionFlex {
				rec.Position = normalized
			}
		}
	}
	if rec.Position == "" {
		if display, ok := container["display_position"].(string); ok {
			rec.Position = normalizePosition(display)
		}
	}

	if rec.Team == "" {
		for _, key := range []string{"editorial_team_abbr", "team_abbr", "team_abbreviation"} {
			if team, ok := container[key].(string); ok && team != "" {
				rec.Team = team
				break
			}
		}
	}

	if rec.ByeWeek == nil {
		if byeWeeks, ok := container["bye_weeks"].(map[string]interface{}); ok {
			if week, ok := numeric(byeWeeks["week"]); ok {
				if bye := int(week); bye >= 1 && bye <= 18 {
					rec.ByeWeek = fantasy.Int(bye)
				}
			}
		}
	}

	if ownership, ok := container["ownership"].(map[string]interface{}); ok {
		if pct, ok := numeric(ownership["ownership_percentage"]); ok {
			rec.OwnedPct = pct
		}
		if change, ok := numeric(ownership["weekly_change"]); ok {
			rec.WeeklyChange = int(change)
		}
	}
	if pct, ok := numeric(container["percent_owned"]); ok {
		rec.OwnedPct = pct
	}

	if status, ok := container["status"].(string); ok && rec.InjuryStatus == "" {
		rec.InjuryStatus = status
	}
}

// selectedPosition handles the three shapes Yahoo uses for the
// selected_position field.
func selectedPosition(value interface{}) string {
	switch v := value.(type) {
	case map[string]interface{}:
		if pos, ok := v["position"].(string); ok {
			return pos
		}
		for key, inner := range v {
			if key == "count" {
				continue
			}
			if obj, ok := inner.(map[string]interface{}); ok {
				if pos, ok := obj["position"].(string); ok {
					return pos
				}
			}
		}
	case []interface{}:
		for _, entry := range v {
			if obj, ok := entry.(map[string]interface{}); ok {
				if pos, ok := obj["position"].(string); ok {
					return pos
				}
			}
		}
	}
	return ""
}

// normalizePosition maps a Yahoo slot or display position onto an
// eligibility position. Bench and IR slots carry no eligibility, so the
// display position is expected to fill those in on a later container.
func normalizePosition(pos string) fantasy.Position {
	switch pos {
	case "W/R/T", "W/R", "Q/W/R/T":
		return fantasy.PositionFlex
	case "BN", "IR":
		return ""
	}
	for _, eligible := range fantasy.EligiblePositions {
		if string(eligible) == pos {
			return eligible
		}
	}
	// Multi-position players report like "WR,RB"; keep the first.
	for _, eligible := range fantasy.EligiblePositions {
		if len(pos) > len(eligible) && pos[:len(eligible)] == string(eligible) {
			return eligible
		}
	}
	return fantasy.Position(pos)
}

// numeric accepts the number-or-string values Yahoo uses interchangeably.
func numeric(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
