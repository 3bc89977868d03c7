package analytics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/insightboard/insightboard/internal/insight"
)

// Summary backs the dashboard summary cards.
type Summary struct {
	Count         int     `json:"count"`
	Total         int     `json:"total"`
	AvgIntensity  float64 `json:"avg_intensity"`
	AvgLikelihood float64 `json:"avg_likelihood"`
	AvgRelevance  float64 `json:"avg_relevance"`
}

// Filtered reports whether the summary covers a strict subset of the base.
func (s Summary) Filtered() bool {
	return s.Count != s.Total
}

// Summarize computes the record count and score means over filtered. Means
// skip records without the score and are 0 when nothing contributes.
func Summarize(filtered []insight.Insight, total int) Summary {
	return Summary{
		Count:         len(filtered),
		Total:         total,
		AvgIntensity:  mean(filtered, func(i insight.Insight) insight.Score { return i.Intensity }),
		AvgLikelihood: mean(filtered, func(i insight.Insight) insight.Score { return i.Likelihood }),
		AvgRelevance:  mean(filtered, func(i insight.Insight) insight.Score { return i.Relevance }),
	}
}

func mean(items []insight.Insight, get func(insight.Insight) insight.Score) float64 {
	values := make([]float64, 0, len(items))
	for _, item := range items {
		if s := get(item); s.Valid {
			values = append(values, s.Value)
		}
	}
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}
