package vocab

import (
	"sort"
	"strings"
)

const (
	// substringBonus is added (in character units, before normalization)
	// when one side contains the other.
	substringBonus = 2.0
	// suggestionThreshold is the minimum normalized score for a candidate
	// without a substring relationship.
	suggestionThreshold = 0.7
	// maxSuggestions caps the ranked list.
	maxSuggestions = 3
)

type candidate struct {
	name      string
	score     float64
	substring bool
}

// SuggestTypes ranks the vocabulary against an unrecognized type tag and
// returns up to three full type names, best first. The ranking is
// deterministic: score descending, then name ascending.
func SuggestTypes(input string) []string {
	if input == "" {
		return nil
	}

	cands := make([]candidate, 0, 8)
	for _, full := range knownTypes {
		score, sub := scoreAgainst(input, full)
		if shortScore, shortSub := scoreAgainst(input, ShortName(full)); shortScore > score || (shortSub && !sub) {
			if shortScore > score {
				score = shortScore
			}
			sub = sub || shortSub
		}
		if sub || score >= suggestionThreshold {
			cands = append(cands, candidate{name: full, score: score, substring: sub})
		}
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		return cands[i].name < cands[j].name
	})

	if len(cands) > maxSuggestions {
		cands = cands[:maxSuggestions]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.name
	}
	return out
}

// scoreAgainst computes the normalized similarity of input to one
// candidate string: (maxlen - distance + bonus) / maxlen.
func scoreAgainst(input, cand string) (float64, bool) {
	maxLen := len(input)
	if len(cand) > maxLen {
		maxLen = len(cand)
	}
	if maxLen == 0 {
		return 0, false
	}

	dist := levenshtein(input, cand)

	sub := false
	li, lc := strings.ToLower(input), strings.ToLower(cand)
	if strings.Contains(li, lc) || strings.Contains(lc, li) {
		sub = true
	}

	bonus := 0.0
	if sub {
		bonus = substringBonus
	}
	return (float64(maxLen-dist) + bonus) / float64(maxLen), sub
}
