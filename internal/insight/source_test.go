package insight

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const upstreamPayload = `[
  {"end_year": "", "intensity": 6, "sector": "Energy", "topic": "gas", "insight": "Annual Energy Outlook",
   "url": "http://www.eia.gov/outlooks/aeo/", "region": "Northern America", "start_year": "", "impact": "",
   "added": "January, 20 2017 03:51:25", "published": "January, 09 2017 00:00:00", "country": "United States of America",
   "relevance": 2, "pestle": "Industries", "source": "EIA", "title": "U.S. natural gas consumption is expected to increase.", "likelihood": 3},
  {"end_year": 2040, "intensity": "", "sector": "", "topic": "oil", "start_year": 2016, "relevance": "3", "likelihood": null, "title": "Oil demand"}
]`

func TestDecodeTolerantPayload(t *testing.T) {
	var items []Insight
	require.NoError(t, json.Unmarshal([]byte(upstreamPayload), &items))
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, NewScore(6), first.Intensity)
	assert.Equal(t, "Energy", first.Sector)
	assert.Equal(t, Text(""), first.EndYear)
	assert.False(t, first.Impact.Valid)

	second := items[1]
	assert.Equal(t, Text("2040"), second.EndYear)
	assert.Equal(t, Text("2016"), second.StartYear)
	assert.False(t, second.Intensity.Valid)
	assert.False(t, second.Likelihood.Valid)
	assert.Equal(t, NewScore(3), second.Relevance)
}

func TestDecodeNonFiniteScoresAsMissing(t *testing.T) {
	payload := `[{"intensity":"NaN","likelihood":"Infinity","relevance":"-Inf","title":"odd"}]`
	var items []Insight
	require.NoError(t, json.Unmarshal([]byte(payload), &items))
	require.Len(t, items, 1)
	assert.False(t, items[0].Intensity.Valid)
	assert.False(t, items[0].Likelihood.Valid)
	assert.False(t, items[0].Relevance.Valid)

	raw, err := json.Marshal(items)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"intensity":null`)
}

func TestScoreMarshalNullWhenMissing(t *testing.T) {
	raw, err := json.Marshal(Insight{Title: "x", Intensity: NewScore(2.5)})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"intensity":2.5`)
	assert.Contains(t, string(raw), `"likelihood":null`)
}

func TestHTTPSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(upstreamPayload))
	}))
	defer srv.Close()

	src := &HTTPSource{Endpoint: srv.URL, Client: srv.Client()}
	items, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestHTTPSourceUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	src := &HTTPSource{Endpoint: srv.URL}
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestHTTPSourceRequiresEndpoint(t *testing.T) {
	_, err := (&HTTPSource{}).Fetch(context.Background())
	require.Error(t, err)
}

type failingSource struct{ calls int }

func (f *failingSource) Fetch(context.Context) ([]Insight, error) {
	f.calls++
	return nil, errors.New("connection refused")
}

func TestStoreLoadFailureLeavesEmpty(t *testing.T) {
	store := NewStore(nil)
	src := &failingSource{}
	err := store.Load(context.Background(), src)
	require.Error(t, err)
	assert.False(t, store.Loaded())
	assert.Empty(t, store.All())
	assert.Equal(t, 1, src.calls)
}

func TestStoreLoadsOnce(t *testing.T) {
	store := NewStore(nil)
	var notified []int
	store.OnLoad(func(ctx context.Context, count int) { notified = append(notified, count) })

	require.NoError(t, store.Load(context.Background(), StaticSource(sampleBase())))
	require.NoError(t, store.Load(context.Background(), StaticSource(sampleBase()[:1])))

	assert.True(t, store.Loaded())
	assert.Len(t, store.All(), 3)
	assert.Equal(t, []int{3}, notified)
	assert.False(t, store.LoadedAt().IsZero())
}
