package grading

// PeriodScores groups one student's subject totals for a single
// grading period together with that period's weight.
type PeriodScores struct {
	PeriodID string
	Weight   float64
	Totals   []float64
}

// PeriodAverage is the mean of a student's subject totals within one
// period.
func PeriodAverage(totals []float64) float64 {
	return Mean(totals)
}

// WeightedAverage combines per-period averages by period weight:
// sum(periodAverage * weight) / sum(weight), taken only over periods
// where the student has at least one result. A period that has not
// been graded yet contributes to neither numerator nor denominator, so
// a student is never penalised for a term still in progress. Returns 0
// when no period carries results.
func WeightedAverage(periods []PeriodScores) float64 {
	var weightedSum, totalWeight float64
	for _, p := range periods {
		if len(p.Totals) == 0 {
			continue
		}
		weightedSum += PeriodAverage(p.Totals) * p.Weight
		totalWeight += p.Weight
	}
	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}
