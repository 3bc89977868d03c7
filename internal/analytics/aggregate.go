package analytics

import (
	"sort"
	"strconv"

	"github.com/insightboard/insightboard/internal/insight"
)

// OtherLabel names the bucket that collects categories ranked past a cutoff.
const OtherLabel = "Other"

// Order selects how frequency groups are sorted.
type Order int

const (
	// ByCountDesc sorts by descending count, ties keep first occurrence.
	ByCountDesc Order = iota
	// ByNumericKey sorts ascending by the numeric value of the key.
	ByNumericKey
	// ByLexicalKey sorts ascending by the key string.
	ByLexicalKey
)

// KeyFunc extracts the grouping key of an insight. Returning false excludes
// the record from the aggregation.
type KeyFunc func(insight.Insight) (string, bool)

// GroupSpec parametrises a frequency aggregation.
type GroupSpec struct {
	Key    KeyFunc
	Order  Order
	Cutoff int
}

// Group is one bucket of a frequency aggregation.
type Group struct {
	Key   string  `json:"key"`
	Value float64 `json:"value,omitempty"`
	Count int     `json:"count"`
}

// Frequency groups items by spec.Key and counts members per group. When
// spec.Cutoff is positive and exceeded, groups ranked past it are collapsed
// into a single OtherLabel group carrying their summed count.
func Frequency(items []insight.Insight, spec GroupSpec) []Group {
	if spec.Key == nil {
		return nil
	}
	index := make(map[string]int)
	groups := make([]Group, 0)
	for _, item := range items {
		key, ok := spec.Key(item)
		if !ok {
			continue
		}
		if pos, seen := index[key]; seen {
			groups[pos].Count++
			continue
		}
		index[key] = len(groups)
		groups = append(groups, Group{Key: key, Count: 1})
	}

	switch spec.Order {
	case ByNumericKey:
		for i := range groups {
			if v, err := strconv.ParseFloat(groups[i].Key, 64); err == nil {
				groups[i].Value = v
			}
		}
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value < groups[j].Value })
	case ByLexicalKey:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	default:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count > groups[j].Count })
	}

	if spec.Cutoff > 0 && len(groups) > spec.Cutoff {
		other := 0
		for _, g := range groups[spec.Cutoff:] {
			other += g.Count
		}
		groups = append(groups[:spec.Cutoff:spec.Cutoff], Group{Key: OtherLabel, Count: other})
	}
	return groups
}

// Total sums the counts of all groups.
func Total(groups []Group) int {
	total := 0
	for _, g := range groups {
		total += g.Count
	}
	return total
}

// MaxCount returns the largest group count, 0 for no groups.
func MaxCount(groups []Group) int {
	max := 0
	for _, g := range groups {
		if g.Count > max {
			max = g.Count
		}
	}
	return max
}
