package insight

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func sampleBase() []Insight {
	return []Insight{
		{Sector: "Energy", Intensity: NewScore(3), Likelihood: NewScore(2), Relevance: NewScore(4), Topic: "oil", Title: "first"},
		{Sector: "Energy", Intensity: NewScore(3), Likelihood: NewScore(4), Relevance: NewScore(1), Topic: "gas", Title: "second"},
		{Sector: "Health", Intensity: NewScore(7), Likelihood: NewScore(1), Relevance: NewScore(5), Topic: "oil", Title: "third"},
	}
}

func titles(items []Insight) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}

func TestApplyFiltersSector(t *testing.T) {
	got := ApplyFilters(sampleBase(), FilterState{Sector: "Energy"})
	assert.Equal(t, []string{"first", "second"}, titles(got))
}

func TestApplyFiltersTopicSubstringIgnoresCase(t *testing.T) {
	got := ApplyFilters(sampleBase(), FilterState{Topics: "OIL"})
	assert.Equal(t, []string{"first", "third"}, titles(got))

	got = ApplyFilters(sampleBase(), FilterState{Topics: "oil", Sector: AllValues})
	assert.Equal(t, []string{"first", "third"}, titles(got))
}

func TestApplyFiltersConjunction(t *testing.T) {
	got := ApplyFilters(sampleBase(), FilterState{Topics: "oil", Sector: "Energy"})
	assert.Equal(t, []string{"first"}, titles(got))

	got = ApplyFilters(sampleBase(), FilterState{Topics: "gas", Sector: "Health"})
	assert.Empty(t, got)
}

func TestApplyFiltersMissingFieldsNeverMatch(t *testing.T) {
	base := []Insight{{Title: "bare"}, {Title: "city", City: "Lagos", EndYear: "2030"}}
	assert.Empty(t, ApplyFilters(base, FilterState{Topics: "oil"}))
	assert.Equal(t, []string{"city"}, titles(ApplyFilters(base, FilterState{City: "Lagos"})))
	assert.Equal(t, []string{"city"}, titles(ApplyFilters(base, FilterState{EndYear: "2030"})))
}

func TestApplyFiltersDoesNotModifyBase(t *testing.T) {
	base := sampleBase()
	_ = ApplyFilters(base, FilterState{Sector: "Health"})
	assert.Equal(t, []string{"first", "second", "third"}, titles(base))
}

func TestClearResetsEveryKey(t *testing.T) {
	state := FilterState{EndYear: "2020", Topics: "oil", Sector: "Energy", Region: "Asia", Pestle: "Economic", Source: "EIA", Country: "India", City: "Delhi"}
	cleared := state.Clear()
	assert.True(t, cleared.IsEmpty())
	assert.Equal(t, FilterState{}, cleared)
	assert.Len(t, ApplyFilters(sampleBase(), cleared), 3)
}

func TestFilterStateQueryRoundTrip(t *testing.T) {
	q := url.Values{}
	q.Set("sector", "Energy")
	q.Set("topics", " oil ")
	q.Set("region", AllValues)
	state := FilterStateFromQuery(q)
	require.Equal(t, "oil", state.Topics)
	assert.Equal(t, "all", state.Region)

	encoded := state.Query()
	assert.Equal(t, "Energy", encoded.Get("sector"))
	assert.Equal(t, "oil", encoded.Get("topics"))
	assert.False(t, encoded.Has("region"))
	assert.Equal(t, "all", FilterState{Region: AllValues}.CacheKey())
}

func TestUniqueValuesFirstOccurrence(t *testing.T) {
	base := []Insight{{Sector: "Energy"}, {Sector: ""}, {Sector: "Health"}, {Sector: "Energy"}}
	assert.Equal(t, []string{"Energy", "Health"}, UniqueValues(base, FieldSector))
	assert.Empty(t, UniqueValues(base, "unknown_field"))
}

func TestOptionsFor(t *testing.T) {
	base := []Insight{
		{EndYear: "2030", Topic: "oil", Sector: "Energy", Region: "Asia", Pestle: "Economic", Source: "EIA", Country: "India", City: "Delhi"},
		{EndYear: "2030", Topic: "gas"},
	}
	opts := OptionsFor(base)
	assert.Equal(t, []string{"2030"}, opts.EndYears)
	assert.Equal(t, []string{"oil", "gas"}, opts.Topics)
	assert.Equal(t, []string{"Delhi"}, opts.Cities)
}

var (
	sectors = []string{"", "Energy", "Health", "Retail", "Government"}
	topicsG = []string{"", "oil", "gas", "Oil price", "climate"}
	regions = []string{"", "Asia", "Europe", "World"}
)

func insightGen() *rapid.Generator[Insight] {
	return rapid.Custom(func(t *rapid.T) Insight {
		return Insight{
			Sector:     rapid.SampledFrom(sectors).Draw(t, "sector"),
			Topic:      rapid.SampledFrom(topicsG).Draw(t, "topic"),
			Region:     rapid.SampledFrom(regions).Draw(t, "region"),
			Intensity:  NewScore(float64(rapid.IntRange(1, 10).Draw(t, "intensity"))),
			Likelihood: NewScore(float64(rapid.IntRange(1, 5).Draw(t, "likelihood"))),
			Relevance:  NewScore(float64(rapid.IntRange(1, 5).Draw(t, "relevance"))),
		}
	})
}

func TestPropertyUnconstrainedIsIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.SliceOf(insightGen()).Draw(t, "base")
		blank := rapid.SampledFrom([]string{"", AllValues}).Draw(t, "blank")
		state := FilterState{EndYear: blank, Topics: blank, Sector: blank, Region: blank, Pestle: blank, Source: blank, Country: blank, City: blank}
		got := ApplyFilters(base, state)
		if len(got) != len(base) {
			t.Fatalf("expected %d records, got %d", len(base), len(got))
		}
		for i := range base {
			if got[i] != base[i] {
				t.Fatalf("record %d differs", i)
			}
		}
	})
}

func TestPropertyFiltersCompose(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.SliceOf(insightGen()).Draw(t, "base")
		sector := rapid.SampledFrom(sectors).Draw(t, "sectorFilter")
		topic := rapid.SampledFrom(topicsG).Draw(t, "topicFilter")
		both := ApplyFilters(base, FilterState{Sector: sector, Topics: topic})
		chained := ApplyFilters(ApplyFilters(base, FilterState{Topics: topic}), FilterState{Sector: sector})
		if len(both) != len(chained) {
			t.Fatalf("conjunction mismatch: %d vs %d", len(both), len(chained))
		}
	})
}

func TestPropertyUniqueValuesDistinctNonEmpty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.SliceOf(insightGen()).Draw(t, "base")
		field := rapid.SampledFrom([]string{FieldSector, FieldTopic, FieldRegion}).Draw(t, "field")
		seen := map[string]bool{}
		for _, v := range UniqueValues(base, field) {
			if v == "" {
				t.Fatalf("empty value in options")
			}
			if seen[v] {
				t.Fatalf("duplicate value %q", v)
			}
			seen[v] = true
		}
	})
}

func TestOptionsSinglesConstrainOneKey(t *testing.T) {
	opts := OptionsFor(sampleBase())
	singles := opts.Singles()
	// two sectors plus two topics
	require.Len(t, singles, 4)
	assert.Equal(t, FilterState{Topics: "oil"}, singles[0])
	assert.Equal(t, FilterState{Sector: "Health"}, singles[3])
	for _, s := range singles {
		assert.Len(t, s.Query(), 1)
	}
}
