// Package describe resolves raw field identifiers against the schema
// catalog and derives the pill descriptors shown in the About Data panel.
// Everything in this package is a pure function of its inputs so a single
// implementation can back every render surface.
package describe

import "github.com/asklens-labs/asklens/internal/schema"

// ResolveDimension scans the time, geo, and categorical buckets in that
// fixed order and returns the first field whose physical name matches.
// Bucket order is the tie-break when a name erroneously appears twice.
func ResolveDimension(name string, doc *schema.Document) (schema.Field, bool) {
	if doc == nil {
		return schema.Field{}, false
	}
	for _, bucket := range [][]schema.Field{
		doc.Dimensions.Time,
		doc.Dimensions.Geo,
		doc.Dimensions.Categorical,
	} {
		for _, f := range bucket {
			if f.PhysicalName == name {
				return f, true
			}
		}
	}
	return schema.Field{}, false
}

// ResolveMeasure scans the flat measure list by physical name.
func ResolveMeasure(name string, doc *schema.Document) (schema.Field, bool) {
	if doc == nil {
		return schema.Field{}, false
	}
	for _, f := range doc.Measures {
		if f.PhysicalName == name {
			return f, true
		}
	}
	return schema.Field{}, false
}

// ResolveAny tries dimension resolution first, then measures.
func ResolveAny(name string, doc *schema.Document) (schema.Field, bool) {
	if f, ok := ResolveDimension(name, doc); ok {
		return f, true
	}
	return ResolveMeasure(name, doc)
}

// ResolveDataSource scans the data-source list by id.
func ResolveDataSource(id string, sources []schema.DataSource) (schema.DataSource, bool) {
	for _, ds := range sources {
		if ds.ID == id {
			return ds, true
		}
	}
	return schema.DataSource{}, false
}
