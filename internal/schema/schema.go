// Package schema provides the field-metadata catalog used to turn raw
// field identifiers into human-readable labels, icons, and descriptions.
package schema

// Field describes one dimension or measure known to the backend.
type Field struct {
	PhysicalName string `json:"physical_name"`
	DisplayName  string `json:"display_name"`
	DataType     string `json:"data_type"`
	Description  string `json:"description_to_user"`
	DataSourceID string `json:"data_source_id,omitempty"`
}

// DataSource describes one upstream dataset that fields belong to.
type DataSource struct {
	ID          string `json:"data_source_id"`
	Name        string `json:"data_source_name"`
	ShortName   string `json:"data_source_short_name"`
	Description string `json:"description_to_user"`
	URL         string `json:"data_source_url"`
}

// Dimensions partitions dimension fields into the three buckets the
// schema document uses.
type Dimensions struct {
	Time        []Field `json:"time_dimension"`
	Geo         []Field `json:"geo_dimension"`
	Categorical []Field `json:"categorical_dimension"`
}

// Document is the parsed schema document.
type Document struct {
	Dimensions Dimensions `json:"dimensions"`
	Measures   []Field    `json:"measures"`
}

// Empty returns the canonical empty schema document. Callers receive it
// whenever the real document cannot be loaded, so lookups degrade to
// "not found" rather than failing.
func Empty() *Document {
	return &Document{
		Dimensions: Dimensions{
			Time:        []Field{},
			Geo:         []Field{},
			Categorical: []Field{},
		},
		Measures: []Field{},
	}
}

// FieldCount returns the total number of fields in the document.
func (d *Document) FieldCount() int {
	return len(d.Dimensions.Time) + len(d.Dimensions.Geo) +
		len(d.Dimensions.Categorical) + len(d.Measures)
}
