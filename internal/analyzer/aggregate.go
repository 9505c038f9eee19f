package analyzer

import (
	"fmt"
	"strings"
)

// ScoreFormula combines category scores into the overall score.
type ScoreFormula func(scores ...int) int

// UnweightedMean is the default formula: round(sum/n), halves rounded up.
func UnweightedMean(scores ...int) int {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	n := len(scores)
	return (2*sum + n) / (2 * n)
}

// WeightedMean returns a formula applying weights positionally. Missing
// weights count as zero; a zero weight sum scores 0.
func WeightedMean(weights ...float64) ScoreFormula {
	return func(scores ...int) int {
		var total, wsum float64
		for i, s := range scores {
			if i >= len(weights) {
				break
			}
			total += float64(s) * weights[i]
			wsum += weights[i]
		}
		if wsum <= 0 {
			return 0
		}
		return int(total/wsum + 0.5)
	}
}

// Overall is the aggregated outcome across the scored categories.
type Overall struct {
	Score   int    `json:"overallScore"`
	Grade   string `json:"overallGrade"`
	Summary string `json:"summary"`
}

// Aggregator folds category results into an Overall.
type Aggregator struct {
	formula ScoreFormula
}

// NewAggregator returns an aggregator using formula, or UnweightedMean when nil.
func NewAggregator(formula ScoreFormula) *Aggregator {
	if formula == nil {
		formula = UnweightedMean
	}
	return &Aggregator{formula: formula}
}

// Aggregate computes the overall score, grade and summary.
func (a *Aggregator) Aggregate(security, performance, maintainability CategoryResult) Overall {
	score := a.formula(security.Score, performance.Score, maintainability.Score)
	return Overall{
		Score:   score,
		Grade:   Grade(score),
		Summary: Summary(security, performance, maintainability),
	}
}

// Summary renders the plain-text verdict for a scan. Output depends only on
// the inputs.
func Summary(security, performance, maintainability CategoryResult) string {
	implemented := security.Implemented + performance.Implemented + maintainability.Implemented
	total := security.Total + performance.Total + maintainability.Total

	var b strings.Builder
	fmt.Fprintf(&b, "Your site implements %d out of %d recommended HTTP headers.", implemented, total)

	if missing := security.MissingCritical(); len(missing) > 0 {
		fmt.Fprintf(&b, " Critical security headers like %s are missing, which may expose your site to security vulnerabilities.",
			strings.Join(missing, ", "))
	} else if security.Implemented < security.Total {
		b.WriteString(" Some security headers are missing but all critical ones are implemented.")
	} else {
		b.WriteString(" All security headers are properly implemented, great job!")
	}

	if performance.Total > 0 && performance.Implemented < performance.Total {
		ratio := float64(performance.Implemented) / float64(performance.Total)
		if ratio > 0.7 {
			b.WriteString(" Performance headers are well implemented, but could benefit from adding additional optimizations.")
		} else {
			b.WriteString(" Performance headers are missing several important optimizations.")
		}
	}

	if maintainability.Total > 0 && maintainability.Implemented == maintainability.Total {
		b.WriteString(" Maintainability headers are all properly implemented.")
	}

	return b.String()
}
