package grading

import "sort"

// Entry is a scored cohort member prior to ranking.
type Entry struct {
	ID    string
	Name  string
	Score float64
}

// Standing is a ranked cohort member. Position is 1-based.
type Standing struct {
	Entry
	Position int
}

// Rank sorts entries descending by score and assigns consecutive
// 1-based positions. Ties are not shared: students with identical
// scores receive distinct positions in their original input order
// (sort is stable), which mirrors how marks were entered.
func Rank(entries []Entry) []Standing {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	standings := make([]Standing, len(sorted))
	for i, e := range sorted {
		standings[i] = Standing{Entry: e, Position: i + 1}
	}
	return standings
}

// Summary holds cohort statistics for a set of scores.
type Summary struct {
	Highest float64
	Lowest  float64
	Mean    float64
	Count   int
}

// Summarize computes highest, lowest and mean over scores. An empty
// cohort yields a zero Summary rather than an error.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	s := Summary{Highest: values[0], Lowest: values[0], Count: len(values)}
	for _, v := range values {
		if v > s.Highest {
			s.Highest = v
		}
		if v < s.Lowest {
			s.Lowest = v
		}
	}
	s.Mean = Mean(values)
	return s
}
