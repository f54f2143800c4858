package result

import "sort"

// Better reports whether a ranks strictly above b: higher score first,
// equal scores broken by earlier completion.
func Better(a, b Result) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.CompletedAt.Before(b.CompletedAt)
}

// Rank returns the 1-based rank of r within population: one plus the number
// of entries that rank strictly above it. r itself does not have to be part
// of the population slice.
func Rank(r Result, population []Result) int {
	rank := 1
	for _, other := range population {
		if other.ID == r.ID {
			continue
		}
		if Better(other, r) {
			rank++
		}
	}
	return rank
}

// SortByStanding orders results in place by the leaderboard total order.
func SortByStanding(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return Better(results[i], results[j])
	})
}

// Page slices an already ordered population by limit and offset. An offset
// beyond the population yields an empty slice, never an error.
func Page(ordered []Result, limit, offset int) []Result {
	if limit <= 0 || offset < 0 || offset >= len(ordered) {
		return []Result{}
	}
	end := offset + limit
	if end > len(ordered) {
		end = len(ordered)
	}

	out := make([]Result, end-offset)
	copy(out, ordered[offset:end])
	return out
}
