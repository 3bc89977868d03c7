package analytics

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/insightboard/insightboard/internal/insight"
)

// ChartID names one of the dashboard charts.
type ChartID string

// Dashboard charts.
const (
	ChartIntensity  ChartID = "intensity"
	ChartLikelihood ChartID = "likelihood"
	ChartRelevance  ChartID = "relevance"
	ChartTopics     ChartID = "topics"
	ChartYears      ChartID = "years"
	ChartSectors    ChartID = "sectors"
	ChartPestle     ChartID = "pestle"
	ChartRegions    ChartID = "regions"
	ChartScatter    ChartID = "scatter"
)

// Rank cutoffs for the category charts.
const (
	SectorCutoff = 10
	TopicCutoff  = 8
)

// ErrUnknownChart is returned for chart identifiers outside the dashboard.
var ErrUnknownChart = fmt.Errorf("analytics: unknown chart")

func scoreKey(get func(insight.Insight) insight.Score) KeyFunc {
	return func(i insight.Insight) (string, bool) {
		s := get(i)
		if !s.Valid {
			return "", false
		}
		return s.Label(), true
	}
}

func categoryOrUnknown(field string) KeyFunc {
	return func(i insight.Insight) (string, bool) {
		if v := i.Field(field); v != "" {
			return v, true
		}
		return insight.Unknown, true
	}
}

func presentOnly(field string) KeyFunc {
	return func(i insight.Insight) (string, bool) {
		v := i.Field(field)
		return v, v != ""
	}
}

// DeriveYear returns the year an insight contributes to the trend chart:
// start_year when present, otherwise the year taken from a published stamp
// shaped like "<day>, <Month> <year> ...". Records with neither contribute
// nothing.
func DeriveYear(i insight.Insight) (string, bool) {
	if y := strings.TrimSpace(string(i.StartYear)); y != "" {
		return y, true
	}
	if i.Published == "" {
		return "", false
	}
	segments := strings.Split(i.Published, ",")
	if len(segments) < 2 {
		return "", false
	}
	tokens := strings.Fields(strings.TrimSpace(segments[1]))
	for _, token := range tokens {
		if isYear(token) {
			return token, true
		}
	}
	return "", false
}

func isYear(token string) bool {
	if len(token) != 4 {
		return false
	}
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Specs lists the grouping parameters of every frequency chart.
var Specs = map[ChartID]GroupSpec{
	ChartIntensity:  {Key: scoreKey(func(i insight.Insight) insight.Score { return i.Intensity }), Order: ByNumericKey},
	ChartLikelihood: {Key: scoreKey(func(i insight.Insight) insight.Score { return i.Likelihood }), Order: ByNumericKey},
	ChartRelevance:  {Key: scoreKey(func(i insight.Insight) insight.Score { return i.Relevance }), Order: ByNumericKey},
	ChartYears:      {Key: DeriveYear, Order: ByLexicalKey},
	ChartSectors:    {Key: categoryOrUnknown(insight.FieldSector), Order: ByCountDesc, Cutoff: SectorCutoff},
	ChartTopics:     {Key: presentOnly(insight.FieldTopic), Order: ByCountDesc, Cutoff: TopicCutoff},
	ChartPestle:     {Key: categoryOrUnknown(insight.FieldPestle), Order: ByCountDesc},
	ChartRegions:    {Key: presentOnly(insight.FieldRegion), Order: ByCountDesc},
}

// ParseChartID validates a chart identifier.
func ParseChartID(raw string) (ChartID, error) {
	id := ChartID(strings.ToLower(strings.TrimSpace(raw)))
	if id == ChartScatter {
		return id, nil
	}
	if _, ok := Specs[id]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownChart, raw)
	}
	return id, nil
}

// Aggregate runs the frequency aggregation registered for id.
func Aggregate(id ChartID, items []insight.Insight) ([]Group, error) {
	spec, ok := Specs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, id)
	}
	return Frequency(items, spec), nil
}
