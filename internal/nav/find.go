package nav

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// BestMatchIndex picks the record that best matches query: exact label
// matches first, then prefixes, substrings and finally fuzzy matches ranked by
// distance. It returns -1 when nothing matches.
func BestMatchIndex(records []Record, query string) int {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" || len(records) == 0 {
		return -1
	}
	lower := strings.ToLower(trimmed)
	for i, rec := range records {
		if strings.EqualFold(rec.Label, trimmed) {
			return i
		}
	}
	for i, rec := range records {
		if strings.HasPrefix(strings.ToLower(rec.Label), lower) {
			return i
		}
	}
	for i, rec := range records {
		if strings.Contains(strings.ToLower(rec.Label), lower) {
			return i
		}
	}
	labels := make([]string, len(records))
	for i, rec := range records {
		labels[i] = rec.Label
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	if len(ranks) == 0 {
		return -1
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance {
			best = rank
			continue
		}
		if rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex {
			best = rank
		}
	}
	return best.OriginalIndex
}
