package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/asklens-labs/asklens/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Ask(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/process", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_, _ = w.Write([]byte(`{
			"chartType": "bar",
			"fields": ["boro", "num_of_requests"],
			"dataset": [{"boro": "BROOKLYN", "num_of_requests": 20}],
			"aggregationDefinition": {"dimensions": ["boro"], "measures": [{"alias": "num_of_requests"}]},
			"dataInsights": {"title": "Overview", "filterDescription": []}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	qctx := QueryContext{
		CurrentVisualization: Visualization{ChartType: "table", Dimensions: []string{}},
		ConversationHistory:  []state.Turn{{Query: "hi", Response: "hello"}},
		LocationEnabled:      true,
	}

	resp, err := c.Ask(context.Background(), "requests by borough", qctx, &Point{Latitude: 40.712775, Longitude: -74.005973})
	require.NoError(t, err)
	assert.Equal(t, "bar", resp.Result.ChartType)
	assert.Len(t, resp.Result.Dataset, 1)
	assert.Equal(t, []string{"boro"}, resp.Result.Aggregation.Dimensions)

	// The request body carries prompt, context, and 3-decimal location.
	assert.Equal(t, "requests by borough", captured["prompt"])
	loc := captured["location"].(map[string]any)
	assert.InDelta(t, 40.713, loc["latitude"], 1e-9)
	assert.InDelta(t, -74.006, loc["longitude"], 1e-9)
	reqCtx := captured["context"].(map[string]any)
	assert.Equal(t, true, reqCtx["locationEnabled"])
}

func TestClient_AskWithoutLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasLocation := body["location"]
		assert.False(t, hasLocation, "location key must be omitted entirely")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	_, err := c.Ask(context.Background(), "anything", QueryContext{}, nil)
	require.NoError(t, err)
}

func TestClient_AskErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	_, err := c.Ask(context.Background(), "anything", QueryContext{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestClient_SequenceGuard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	ctx := context.Background()

	first, err := c.Ask(ctx, "first", QueryContext{}, nil)
	require.NoError(t, err)
	second, err := c.Ask(ctx, "second", QueryContext{}, nil)
	require.NoError(t, err)

	// Only the most recently dispatched request may win.
	assert.False(t, c.Latest(first.Seq), "stale response must be dropped")
	assert.True(t, c.Latest(second.Seq))
}

func TestPoint_Round(t *testing.T) {
	p := Point{Latitude: 40.7127753, Longitude: -74.0059728}.Round()
	assert.InDelta(t, 40.713, p.Latitude, 1e-9)
	assert.InDelta(t, -74.006, p.Longitude, 1e-9)
}
