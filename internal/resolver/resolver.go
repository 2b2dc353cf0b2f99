// Package resolver matches a primary-provider player record to its
// counterpart in the secondary provider's candidate pool. Matching is
// tiered: exact within the team+position bucket, then normalized name,
// then fuzzy similarity. A failed match is not an error; the player simply
// proceeds without secondary fields.
package resolver

import (
	"sort"
	"strings"

	"ff-lineup-engine/internal/fantasy"
)

// FuzzyThreshold is the minimum similarity ratio accepted by the fuzzy
// tier.
const FuzzyThreshold = 0.82

// MatchMethod records which tier produced a match, for diagnostics.
type MatchMethod string

const (
	MatchExact      MatchMethod = "exact"
	MatchNormalized MatchMethod = "normalized"
	MatchFuzzy      MatchMethod = "fuzzy"
	MatchNone       MatchMethod = "none"
)

// Match pairs a secondary record with the tier that found it.
type Match struct {
	Record fantasy.SecondaryRecord
	Method MatchMethod
	Score  float64
}

// nicknames maps common short forms to the registered full name, applied
// after normalization.
var nicknames = map[string]string{
	"deebo samuel": "demonte samuel",
	"hollywood brown": "marquise brown",
	"scotty miller":   "scott miller",
	"mitch trubisky":  "mitchell trubisky",
}

var suffixes = map[string]struct{}{
	"jr": {}, "sr": {}, "ii": {}, "iii": {}, "iv": {}, "v": {},
}

// NormalizeName lowercases a name, strips punctuation and generational
// suffixes, concatenates consecutive initials ("J.K." -> "jk"), and applies
// nickname mappings.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	n := strings.ToLower(name)
	n = strings.Map(func(r rune) rune {
		switch r {
		case '.', '\'', '`', ',', '-':
			return ' '
		}
		return r
	}, n)

	words := strings.Fields(n)

	// Concatenate runs of single letters so "j k dobbins" becomes
	// "jk dobbins".
	joined := make([]string, 0, len(words))
	for i := 0; i < len(words); i++ {
		w := words[i]
		for len(w) == 1 && i+1 < len(words) && len(words[i+1]) == 1 {
			w += words[i+1]
			i++
		}
		joined = append(joined, w)
	}

	parts := joined[:0]
	for _, w := range joined {
		if _, isSuffix := suffixes[w]; isSuffix {
			continue
		}
		parts = append(parts, w)
	}

	normalized := strings.Join(parts, " ")
	if full, ok := nicknames[normalized]; ok {
		return full
	}
	return normalized
}

// Similarity returns a 0..1 character-bigram Dice coefficient between two
// normalized names.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if len(a) < 2 || len(b) < 2 {
		return 0
	}

	bigrams := func(s string) map[string]int {
		grams := make(map[string]int)
		for i := 0; i+2 <= len(s); i++ {
			grams[s[i:i+2]]++
		}
		return grams
	}

	ga, gb := bigrams(a), bigrams(b)
	overlap := 0
	for g, ca := range ga {
		if cb, ok := gb[g]; ok {
			if ca < cb {
				overlap += ca
			} else {
				overlap += cb
			}
		}
	}

	total := len(a) - 1 + len(b) - 1
	return 2 * float64(overlap) / float64(total)
}

// Resolve finds the single best secondary match for a primary record, or
// reports no match. It never fails: an empty candidate pool simply yields
// MatchNone.
func Resolve(primary fantasy.PrimaryRecord, candidates []fantasy.SecondaryRecord) (Match, bool) {
	if primary.Name == "" || len(candidates) == 0 {
		return Match{Method: MatchNone}, false
	}

	// Tier 1: exact case-insensitive match within the same team+position
	// bucket.
	wantName := strings.ToLower(strings.TrimSpace(primary.Name))
	for _, c := range candidates {
		if strings.ToLower(c.Name) == wantName &&
			strings.EqualFold(c.Team, primary.Team) &&
			c.Position == primary.Position {
			return Match{Record: c, Method: MatchExact, Score: 1}, true
		}
	}

	// Tier 2: normalized-name match, any bucket.
	wantNorm := NormalizeName(primary.Name)
	for _, c := range candidates {
		if NormalizeName(c.Name) == wantNorm {
			return Match{Record: c, Method: MatchNormalized, Score: 1}, true
		}
	}

	// Tier 3: fuzzy similarity above the fixed threshold. Ties break on
	// identical team, then identical position, then record ID for
	// determinism.
	type scored struct {
		rec   fantasy.SecondaryRecord
		score float64
	}
	var best []scored
	for _, c := range candidates {
		s := Similarity(wantNorm, NormalizeName(c.Name))
		if s < FuzzyThreshold {
			continue
		}
		best = append(best, scored{rec: c, score: s})
	}
	if len(best) == 0 {
		return Match{Method: MatchNone}, false
	}

	sort.Slice(best, func(i, j int) bool {
		if best[i].score != best[j].score {
			return best[i].score > best[j].score
		}
		iTeam := strings.EqualFold(best[i].rec.Team, primary.Team)
		jTeam := strings.EqualFold(best[j].rec.Team, primary.Team)
		if iTeam != jTeam {
			return iTeam
		}
		iPos := best[i].rec.Position == primary.Position
		jPos := best[j].rec.Position == primary.Position
		if iPos != jPos {
			return iPos
		}
		return best[i].rec.ID < best[j].rec.ID
	})

	return Match{Record: best[0].rec, Method: MatchFuzzy, Score: best[0].score}, true
}

// BuildPlayer constructs the unified Player from a primary record and an
// optional resolved match. An unmatched player keeps its secondary fields
// null and is still processed downstream.
func BuildPlayer(primary fantasy.PrimaryRecord, match *Match) fantasy.Player {
	p := fantasy.Player{
		Name:              primary.Name,
		Position:          primary.Position,
		Team:              primary.Team,
		Opponent:          strings.TrimPrefix(primary.Opponent, "@"),
		PrimaryID:         primary.PlayerKey,
		PrimaryProjection: primary.Projection,
		ByeWeek:           primary.ByeWeek,
		OwnedPct:          primary.OwnedPct,
		Tier:              fantasy.TierUnknown,
	}
	if match != nil && match.Method != MatchNone {
		p.SecondaryID = match.Record.ID
		p.SecondaryProjection = match.Record.Projection
		if match.Record.Confidence > 0 {
			p.ExpertConfidence = match.Record.Confidence
		}
	}
	return p
}
