// Package state holds the single canonical representation of the latest
// query result, plus the conversation history sent back with follow-up
// queries.
package state

import (
	"encoding/json"

	"github.com/asklens-labs/asklens/internal/schema"
)

// DefaultChartType is used whenever a response does not name a chart.
const DefaultChartType = "table"

// Measure is one aggregated value in an aggregation definition.
type Measure struct {
	Alias         string `json:"alias"`
	AggregationFn string `json:"aggregationFn,omitempty"`
}

// TopN limits an aggregation to the highest-ranked rows.
type TopN struct {
	OrderByKey []string `json:"orderByKey"`
	TopN       int      `json:"topN"`
}

// Aggregation is the structured specification of a query's shape, returned
// by the backend alongside the dataset.
type Aggregation struct {
	Dimensions             []string            `json:"dimensions"`
	Measures               []Measure           `json:"measures"`
	PreAggregationFilters  string              `json:"preAggregationFilters,omitempty"`
	PostAggregationFilters string              `json:"postAggregationFilters,omitempty"`
	TopN                   *TopN               `json:"topN,omitempty"`
	CreatedDateRange       []string            `json:"createdDateRange,omitempty"`
	DatasourceMetadata     []schema.DataSource `json:"datasourceMetadata,omitempty"`
	FieldMetadata          []schema.Field      `json:"fieldMetadata,omitempty"`
}

// FilterEntry describes one applied filter in the insights payload. The
// backend has used both key spellings for the field name over time.
type FilterEntry struct {
	FilteredFieldName string `json:"filteredFieldName,omitempty"`
	Field             string `json:"field,omitempty"`
	Description       string `json:"description,omitempty"`
}

// FieldName returns whichever field-name key the entry carries.
func (f FilterEntry) FieldName() string {
	if f.FilteredFieldName != "" {
		return f.FilteredFieldName
	}
	return f.Field
}

// FilterDescription is either an ordered list of filter entries or a single
// descriptive string, depending on backend version.
type FilterDescription struct {
	Entries []FilterEntry
	Text    string
}

// UnmarshalJSON accepts both the list form and the bare-string form.
func (f *FilterDescription) UnmarshalJSON(data []byte) error {
	var entries []FilterEntry
	if err := json.Unmarshal(data, &entries); err == nil {
		f.Entries = entries
		f.Text = ""
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		f.Entries = nil
		f.Text = text
		return nil
	}
	// Unknown shape: treat as absent rather than failing the whole response.
	f.Entries = nil
	f.Text = ""
	return nil
}

// MarshalJSON emits the same shape that was received.
func (f FilterDescription) MarshalJSON() ([]byte, error) {
	if f.Entries != nil {
		return json.Marshal(f.Entries)
	}
	if f.Text != "" {
		return json.Marshal(f.Text)
	}
	return []byte("[]"), nil
}

// Insights is the descriptive text the backend generates for a result.
type Insights struct {
	Title             string            `json:"title,omitempty"`
	DataDescription   string            `json:"dataDescription,omitempty"`
	FilterDescription FilterDescription `json:"filterDescription,omitempty"`
}

// Row is one record of the result dataset.
type Row map[string]any

// Result is the canonical current query result. It fully replaces the
// previous value on each successful query; there is no partial merge
// across unrelated queries.
type Result struct {
	Fields              []string         `json:"fields"`
	Dataset             []Row            `json:"dataset"`
	Aggregation         Aggregation      `json:"aggregationDefinition"`
	SQL                 string           `json:"sql"`
	ChartType           string           `json:"chartType"`
	AvailableChartTypes []string         `json:"availableChartTypes"`
	TextResponse        string           `json:"textResponse,omitempty"`
	Insights            Insights         `json:"dataInsights"`
	SchemaSnapshot      *schema.Document `json:"dataMetadataAll,omitempty"`
}

// Turn is one exchange of the conversation, sent back as context with the
// next query.
type Turn struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}
