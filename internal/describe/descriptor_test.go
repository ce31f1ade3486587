package describe

import (
	"testing"

	"github.com/asklens-labs/asklens/internal/schema"
	"github.com/asklens-labs/asklens/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPeriod(t *testing.T) {
	agg := state.Aggregation{CreatedDateRange: []string{"2024-03-01", "2024-03-15"}}

	pills := buildPeriod(agg)
	require.Len(t, pills, 1)
	assert.Equal(t, "Mar 1, 2024 - Mar 15, 2024", pills[0].Label)
	assert.Contains(t, pills[0].TooltipBody, "March 1, 2024")
	assert.Contains(t, pills[0].TooltipBody, "March 15, 2024")
	assert.Equal(t, IconCalendar, pills[0].Icon)
}

func TestBuildPeriod_Malformed(t *testing.T) {
	tests := []struct {
		name string
		agg  state.Aggregation
	}{
		{"absent", state.Aggregation{}},
		{"single endpoint", state.Aggregation{CreatedDateRange: []string{"2024-03-01"}}},
		{"empty endpoint", state.Aggregation{CreatedDateRange: []string{"2024-03-01", ""}}},
		{"garbage", state.Aggregation{CreatedDateRange: []string{"yesterday", "today"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pills := buildPeriod(tt.agg)
			require.Len(t, pills, 1)
			assert.True(t, pills[0].EmptyState)
			assert.Equal(t, EmptyPeriod, pills[0].Label)
		})
	}
}

func TestBuildAttributes_DedupePreservesOrder(t *testing.T) {
	agg := state.Aggregation{
		Dimensions: []string{"boro", "complaint_type", "boro", "complaint_type", "boro"},
	}

	pills := buildAttributes(agg, testSchema())
	require.Len(t, pills, 2)
	assert.Equal(t, "Borough", pills[0].Label)
	assert.Equal(t, "Complaint Type", pills[1].Label)
}

func TestBuildAttributes_UnknownFieldFallsBack(t *testing.T) {
	agg := state.Aggregation{Dimensions: []string{"xyz_unknown"}}

	pills := buildAttributes(agg, testSchema())
	require.Len(t, pills, 1)
	assert.Equal(t, "xyz_unknown", pills[0].Label)
	assert.Equal(t, "xyz_unknown attribute", pills[0].TooltipBody)
	assert.Equal(t, IconText, pills[0].Icon, "unknown dimensions default to the string icon")
}

func TestBuildAttributes_InlineMetadataFallback(t *testing.T) {
	agg := state.Aggregation{
		Dimensions: []string{"agency_name"},
		FieldMetadata: []schema.Field{
			{PhysicalName: "agency_name", DisplayName: "Agency", DataType: "string", Description: "Responding agency"},
		},
	}

	pills := buildAttributes(agg, schema.Empty())
	require.Len(t, pills, 1)
	assert.Equal(t, "Agency", pills[0].Label)
	assert.Equal(t, "Responding agency", pills[0].TooltipBody)
}

func TestBuildAttributes_DataSourceSubline(t *testing.T) {
	agg := state.Aggregation{
		Dimensions: []string{"boro"},
		DatasourceMetadata: []schema.DataSource{
			{ID: "nyc311", Name: "NYC 311 Service Requests"},
		},
	}

	pills := buildAttributes(agg, testSchema())
	require.Len(t, pills, 1)
	assert.Contains(t, pills[0].TooltipBody, "The borough of the request")
	assert.Contains(t, pills[0].TooltipBody, "Source: NYC 311 Service Requests")
}

func TestBuildAttributes_NoSublineWhenSourceUnresolved(t *testing.T) {
	// boro carries data_source_id "nyc311" but no datasource metadata
	// resolves it, so no sub-line is added.
	agg := state.Aggregation{Dimensions: []string{"boro"}}

	pills := buildAttributes(agg, testSchema())
	require.Len(t, pills, 1)
	assert.NotContains(t, pills[0].TooltipBody, "Source:")
}

func TestBuildMeasures(t *testing.T) {
	agg := state.Aggregation{
		Measures: []state.Measure{
			{Alias: "num_of_requests", AggregationFn: "count"},
			{Alias: "closed_rate", AggregationFn: "avg"},
			{Alias: "mystery_metric"},
		},
	}

	pills := buildMeasures(agg, testSchema())
	require.Len(t, pills, 3)
	assert.Equal(t, "Number of Requests", pills[0].Label)
	assert.Equal(t, IconTag, pills[0].Icon)
	assert.Equal(t, IconPercent, pills[1].Icon)
	assert.Equal(t, "mystery_metric", pills[2].Label)
	assert.Equal(t, IconFunctions, pills[2].Icon)
	assert.Equal(t, "mystery_metric measure", pills[2].TooltipBody)
}

func TestBuildFilters_StructuredEntries(t *testing.T) {
	ins := state.Insights{
		FilterDescription: state.FilterDescription{
			Entries: []state.FilterEntry{
				{FilteredFieldName: "boro", Description: "Only Brooklyn"},
				{Field: "complaint_type"},
			},
		},
	}

	pills := buildFilters(state.Aggregation{}, ins, testSchema())
	require.Len(t, pills, 2)
	assert.Equal(t, "Borough", pills[0].Label)
	assert.Equal(t, "Only Brooklyn", pills[0].TooltipBody)
	assert.Equal(t, "Complaint Type", pills[1].Label)
	assert.Equal(t, "Applied filter", pills[1].TooltipBody)
}

func TestBuildFilters_StringDescription(t *testing.T) {
	ins := state.Insights{
		FilterDescription: state.FilterDescription{Text: "Filtered to 2024 requests"},
	}

	pills := buildFilters(state.Aggregation{}, ins, testSchema())
	require.Len(t, pills, 1)
	assert.Equal(t, "Filter", pills[0].Label)
	assert.Equal(t, "Filtered to 2024 requests", pills[0].TooltipBody)
}

func TestBuildFilters_PreFilterOnlyWithoutEntries(t *testing.T) {
	agg := state.Aggregation{PreAggregationFilters: "boro = 'BROOKLYN'"}

	// No structured entries: the raw pre-filter text renders.
	pills := buildFilters(agg, state.Insights{}, testSchema())
	require.Len(t, pills, 1)
	assert.Equal(t, "boro = 'BROOKLYN'", pills[0].TooltipBody)

	// With structured entries, the pre-filter text is suppressed.
	ins := state.Insights{
		FilterDescription: state.FilterDescription{
			Entries: []state.FilterEntry{{FilteredFieldName: "boro", Description: "Only Brooklyn"}},
		},
	}
	pills = buildFilters(agg, ins, testSchema())
	require.Len(t, pills, 1)
	assert.Equal(t, "Only Brooklyn", pills[0].TooltipBody)
}

func TestBuildFilters_PostFilterAlwaysLast(t *testing.T) {
	agg := state.Aggregation{PostAggregationFilters: "num_of_requests > 100"}
	ins := state.Insights{
		FilterDescription: state.FilterDescription{
			Entries: []state.FilterEntry{{FilteredFieldName: "boro", Description: "Only Brooklyn"}},
		},
	}

	pills := buildFilters(agg, ins, testSchema())
	require.Len(t, pills, 2)
	assert.Equal(t, "Post-aggregation filter", pills[1].Label)
	assert.Equal(t, "num_of_requests > 100", pills[1].TooltipBody)
}

func TestBuild_AllSectionsEmpty(t *testing.T) {
	sections := Build(state.Result{}, schema.Empty())

	for _, pills := range [][]Pill{
		sections.Period, sections.Attributes, sections.Measures, sections.Filters,
	} {
		require.Len(t, pills, 1)
		assert.True(t, pills[0].EmptyState)
	}
	assert.Equal(t, EmptyPeriod, sections.Period[0].Label)
	assert.Equal(t, EmptyAttributes, sections.Attributes[0].Label)
	assert.Equal(t, EmptyMeasures, sections.Measures[0].Label)
	assert.Equal(t, EmptyFilters, sections.Filters[0].Label)
}

func TestBuild_Deterministic(t *testing.T) {
	res := state.Result{
		Aggregation: state.Aggregation{
			Dimensions:       []string{"boro", "complaint_type"},
			Measures:         []state.Measure{{Alias: "num_of_requests"}},
			CreatedDateRange: []string{"2024-01-01", "2024-12-31"},
		},
		Insights: state.Insights{
			FilterDescription: state.FilterDescription{
				Entries: []state.FilterEntry{{FilteredFieldName: "boro", Description: "Only Brooklyn"}},
			},
		},
	}
	doc := testSchema()

	first := Build(res, doc)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Build(res, doc))
	}
}

func TestParseDate(t *testing.T) {
	y, m, d, ok := parseDate("2024-03-01")
	require.True(t, ok)
	assert.Equal(t, [3]int{2024, 3, 1}, [3]int{y, m, d})

	for _, bad := range []string{"", "2024-03", "2024-13-01", "2024-00-10", "2024-03-41", "March 1"} {
		_, _, _, ok := parseDate(bad)
		assert.False(t, ok, "expected %q to be rejected", bad)
	}
}
