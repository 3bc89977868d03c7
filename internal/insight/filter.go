package insight

import (
	"net/url"
	"strings"
)

// Field names accepted by UniqueValues and Insight.Field.
const (
	FieldEndYear   = "end_year"
	FieldStartYear = "start_year"
	FieldTopic     = "topic"
	FieldSector    = "sector"
	FieldRegion    = "region"
	FieldPestle    = "pestle"
	FieldSource    = "source"
	FieldCountry   = "country"
	FieldCity      = "city"
)

// AllValues is the sentinel option meaning "no constraint".
const AllValues = "all"

// FilterState holds the eight user-selected constraints. Empty or "all" means
// unconstrained.
type FilterState struct {
	EndYear string `json:"endYear" validate:"max=64"`
	Topics  string `json:"topics" validate:"max=256"`
	Sector  string `json:"sector" validate:"max=256"`
	Region  string `json:"region" validate:"max=256"`
	Pestle  string `json:"pestle" validate:"max=256"`
	Source  string `json:"source" validate:"max=256"`
	Country string `json:"country" validate:"max=256"`
	City    string `json:"city" validate:"max=256"`
}

// FilterStateFromQuery reads the filter keys from a query string.
func FilterStateFromQuery(q url.Values) FilterState {
	get := func(key string) string { return strings.TrimSpace(q.Get(key)) }
	return FilterState{
		EndYear: get("endYear"),
		Topics:  get("topics"),
		Sector:  get("sector"),
		Region:  get("region"),
		Pestle:  get("pestle"),
		Source:  get("source"),
		Country: get("country"),
		City:    get("city"),
	}
}

// Query encodes the active constraints back into a query string.
func (f FilterState) Query() url.Values {
	q := url.Values{}
	for _, c := range f.constraints() {
		q.Set(c.key, c.value)
	}
	return q
}

// Clear returns the unconstrained state.
func (f FilterState) Clear() FilterState {
	return FilterState{}
}

// IsEmpty reports whether no constraint is active.
func (f FilterState) IsEmpty() bool {
	return len(f.constraints()) == 0
}

// CacheKey is a stable token describing the active constraints.
func (f FilterState) CacheKey() string {
	if f.IsEmpty() {
		return "all"
	}
	return f.Query().Encode()
}

type constraint struct {
	key   string
	value string
	match func(Insight, string) bool
}

func active(v string) bool {
	return v != "" && v != AllValues
}

func exactField(field string) func(Insight, string) bool {
	return func(i Insight, want string) bool {
		return i.Field(field) == want
	}
}

func topicContains(i Insight, want string) bool {
	return strings.Contains(strings.ToLower(i.Topic), strings.ToLower(want))
}

// constraints lists the active predicates in the order the sidebar applies them.
func (f FilterState) constraints() []constraint {
	all := []constraint{
		{key: "endYear", value: f.EndYear, match: exactField(FieldEndYear)},
		{key: "topics", value: f.Topics, match: topicContains},
		{key: "sector", value: f.Sector, match: exactField(FieldSector)},
		{key: "region", value: f.Region, match: exactField(FieldRegion)},
		{key: "pestle", value: f.Pestle, match: exactField(FieldPestle)},
		{key: "source", value: f.Source, match: exactField(FieldSource)},
		{key: "country", value: f.Country, match: exactField(FieldCountry)},
		{key: "city", value: f.City, match: exactField(FieldCity)},
	}
	out := all[:0]
	for _, c := range all {
		if active(c.value) {
			out = append(out, c)
		}
	}
	return out
}

// Matches reports whether the insight satisfies every active constraint.
func (f FilterState) Matches(i Insight) bool {
	return matchAll(i, f.constraints())
}

func matchAll(i Insight, constraints []constraint) bool {
	for _, c := range constraints {
		if !c.match(i, c.value) {
			return false
		}
	}
	return true
}

// ApplyFilters returns the records of base satisfying every active
// constraint. The base slice is never modified.
func ApplyFilters(base []Insight, filters FilterState) []Insight {
	constraints := filters.constraints()
	out := make([]Insight, 0, len(base))
	for _, item := range base {
		if matchAll(item, constraints) {
			out = append(out, item)
		}
	}
	return out
}

// UniqueValues lists the distinct non-empty values of field in first
// occurrence order.
func UniqueValues(base []Insight, field string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, item := range base {
		v := item.Field(field)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}

// FilterOptions carries the dropdown option lists for every filter key.
type FilterOptions struct {
	EndYears  []string `json:"endYears"`
	Topics    []string `json:"topics"`
	Sectors   []string `json:"sectors"`
	Regions   []string `json:"regions"`
	Pestles   []string `json:"pestles"`
	Sources   []string `json:"sources"`
	Countries []string `json:"countries"`
	Cities    []string `json:"cities"`
}

// OptionsFor derives the dropdown options from the base collection.
func OptionsFor(base []Insight) FilterOptions {
	return FilterOptions{
		EndYears:  UniqueValues(base, FieldEndYear),
		Topics:    UniqueValues(base, FieldTopic),
		Sectors:   UniqueValues(base, FieldSector),
		Regions:   UniqueValues(base, FieldRegion),
		Pestles:   UniqueValues(base, FieldPestle),
		Sources:   UniqueValues(base, FieldSource),
		Countries: UniqueValues(base, FieldCountry),
		Cities:    UniqueValues(base, FieldCity),
	}
}

// Singles enumerates every state that constrains exactly one key to one of
// the option values, in sidebar order.
func (o FilterOptions) Singles() []FilterState {
	var out []FilterState
	add := func(values []string, set func(*FilterState, string)) {
		for _, v := range values {
			var state FilterState
			set(&state, v)
			out = append(out, state)
		}
	}
	add(o.EndYears, func(s *FilterState, v string) { s.EndYear = v })
	add(o.Topics, func(s *FilterState, v string) { s.Topics = v })
	add(o.Sectors, func(s *FilterState, v string) { s.Sector = v })
	add(o.Regions, func(s *FilterState, v string) { s.Region = v })
	add(o.Pestles, func(s *FilterState, v string) { s.Pestle = v })
	add(o.Sources, func(s *FilterState, v string) { s.Source = v })
	add(o.Countries, func(s *FilterState, v string) { s.Country = v })
	add(o.Cities, func(s *FilterState, v string) { s.City = v })
	return out
}
