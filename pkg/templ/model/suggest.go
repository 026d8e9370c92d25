package model

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const maxSuggestions = 3

// suggest ranks the candidates closest to name, best first.
func suggest(name string, candidates []string) []string {
	if name == "" || len(candidates) == 0 {
		return nil
	}
	ranks := fuzzy.RankFindFold(name, candidates)
	// candidates that are abbreviations of the name
	for i, c := range candidates {
		if len(c) < len(name) && fuzzy.MatchFold(c, name) {
			ranks = append(ranks, fuzzy.Rank{
				Source:        c,
				Target:        c,
				Distance:      fuzzy.LevenshteinDistance(c, name),
				OriginalIndex: i,
			})
		}
	}
	sort.Stable(ranks)

	seen := make(map[string]bool)
	var out []string
	for _, r := range ranks {
		if seen[r.Target] || r.Target == name {
			continue
		}
		seen[r.Target] = true
		out = append(out, r.Target)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
