package schema

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/asklens-labs/asklens/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDoc = `{
	"dimensions": {
		"time_dimension": [
			{"physical_name": "created_date", "display_name": "Created Date", "data_type": "date", "description_to_user": "When the request was created"}
		],
		"geo_dimension": [
			{"physical_name": "boro", "display_name": "Borough", "data_type": "string", "description_to_user": "The borough of the request", "data_source_id": "nyc311"}
		],
		"categorical_dimension": [
			{"physical_name": "complaint_type", "display_name": "Complaint Type", "data_type": "string", "description_to_user": "Category of the complaint"}
		]
	},
	"measures": [
		{"physical_name": "num_of_requests", "display_name": "Number of Requests", "data_type": "integer", "description_to_user": "Count of requests"}
	]
}`

func TestStore_Load(t *testing.T) {
	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fetches.Add(1)
		_, _ = w.Write([]byte(testDoc))
	}))
	defer srv.Close()

	s := NewStore(srv.URL, testutil.NewTestLogger(t))
	ctx := context.Background()

	doc := s.Load(ctx)
	require.NotNil(t, doc)
	assert.Equal(t, 4, doc.FieldCount())
	assert.Equal(t, "Borough", doc.Dimensions.Geo[0].DisplayName)

	// Second call must come from cache, not the network.
	again := s.Load(ctx)
	assert.Same(t, doc, again, "expected cached document instance")
	assert.Equal(t, int32(1), fetches.Load(), "expected exactly one fetch")
}

func TestStore_LoadFailureReturnsEmptyAndRetries(t *testing.T) {
	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if fetches.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(testDoc))
	}))
	defer srv.Close()

	s := NewStore(srv.URL, testutil.NewSilentLogger())
	ctx := context.Background()

	doc := s.Load(ctx)
	require.NotNil(t, doc)
	assert.Equal(t, 0, doc.FieldCount(), "failed load should yield empty schema")
	assert.False(t, s.Loaded(), "failure must not be cached")

	// Retry succeeds and is cached.
	doc = s.Load(ctx)
	assert.Equal(t, 4, doc.FieldCount())
	assert.True(t, s.Loaded())
}

func TestStore_LoadBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"dimensions": [`))
	}))
	defer srv.Close()

	s := NewStore(srv.URL, testutil.NewSilentLogger())
	doc := s.Load(context.Background())
	require.NotNil(t, doc)
	assert.Equal(t, 0, doc.FieldCount())
	assert.False(t, s.Loaded())
}

func TestStore_LoadUnreachable(t *testing.T) {
	s := NewStore("http://127.0.0.1:1/schema.json", testutil.NewSilentLogger())
	doc := s.Load(context.Background())
	require.NotNil(t, doc)
	assert.NotNil(t, doc.Dimensions.Time)
	assert.NotNil(t, doc.Measures)
}

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(testDoc))
	require.NoError(t, err)
	assert.Equal(t, "created_date", doc.Dimensions.Time[0].PhysicalName)

	_, err = Parse([]byte("not json"))
	assert.Error(t, err)
}
