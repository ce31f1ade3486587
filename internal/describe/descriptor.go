package describe

import (
	"fmt"

	"github.com/asklens-labs/asklens/internal/schema"
	"github.com/asklens-labs/asklens/internal/state"
)

// Empty-state messages shown in place of a pill list when no items apply.
const (
	EmptyPeriod     = "No time period specified"
	EmptyAttributes = "No attributes in this visualization"
	EmptyMeasures   = "No measures in this visualization"
	EmptyFilters    = "No filters applied"
)

// Pill is one chip in the About Data panel: an icon, a short label, and
// hover-triggered explanatory text. Derived, never persisted.
type Pill struct {
	Icon         string
	Label        string
	TooltipTitle string
	TooltipBody  string
	Class        string
	EmptyState   bool
}

// Sections holds the four pill lists of the panel in display order.
type Sections struct {
	Period     []Pill
	Attributes []Pill
	Measures   []Pill
	Filters    []Pill
}

// Section IDs consumed by the render port.
const (
	SectionPeriod     = "period"
	SectionAttributes = "attributes"
	SectionMeasures   = "measures"
	SectionFilters    = "filters"
)

// Build derives all four pill sections from the current result and the
// schema document. It is a pure function: for fixed inputs the output is
// identical on every call.
func Build(res state.Result, doc *schema.Document) Sections {
	return Sections{
		Period:     buildPeriod(res.Aggregation),
		Attributes: buildAttributes(res.Aggregation, doc),
		Measures:   buildMeasures(res.Aggregation, doc),
		Filters:    buildFilters(res.Aggregation, res.Insights, doc),
	}
}

func emptyPill(msg string) Pill {
	return Pill{Label: msg, Class: "empty-state", EmptyState: true}
}

// buildPeriod emits the date-range pill, or the empty-state marker when
// the range is absent or malformed.
func buildPeriod(agg state.Aggregation) []Pill {
	if len(agg.CreatedDateRange) < 2 {
		return []Pill{emptyPill(EmptyPeriod)}
	}
	fy, fm, fd, okFrom := parseDate(agg.CreatedDateRange[0])
	ty, tm, td, okTo := parseDate(agg.CreatedDateRange[1])
	if !okFrom || !okTo {
		return []Pill{emptyPill(EmptyPeriod)}
	}

	label := fmt.Sprintf("%s - %s", formatDateShort(fy, fm, fd), formatDateShort(ty, tm, td))
	tooltip := fmt.Sprintf("Data covers requests created between %s and %s",
		formatDateLong(fy, fm, fd), formatDateLong(ty, tm, td))

	return []Pill{{
		Icon:         IconCalendar,
		Label:        label,
		TooltipTitle: "Time Period",
		TooltipBody:  tooltip,
	}}
}

// buildAttributes emits one pill per distinct dimension, preserving the
// order of first occurrence.
func buildAttributes(agg state.Aggregation, doc *schema.Document) []Pill {
	seen := make(map[string]struct{})
	var pills []Pill

	for _, name := range agg.Dimensions {
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		pills = append(pills, dimensionPill(name, agg, doc))
	}

	if len(pills) == 0 {
		return []Pill{emptyPill(EmptyAttributes)}
	}
	return pills
}

func dimensionPill(name string, agg state.Aggregation, doc *schema.Document) Pill {
	field, ok := ResolveDimension(name, doc)
	if !ok {
		// Inline metadata from the aggregation definition is the second
		// chance before falling back to the raw identifier.
		field, ok = resolveInline(name, agg.FieldMetadata)
	}

	pill := Pill{
		Icon:  DimensionIcon(field.DataType),
		Label: name,
	}
	if ok && field.DisplayName != "" {
		pill.Label = field.DisplayName
	}
	pill.TooltipTitle = pill.Label
	pill.TooltipBody = fmt.Sprintf("%s attribute", name)
	if ok && field.Description != "" {
		pill.TooltipBody = field.Description
	}
	if ok && field.DataSourceID != "" {
		if ds, found := ResolveDataSource(field.DataSourceID, agg.DatasourceMetadata); found && ds.Name != "" {
			pill.TooltipBody += fmt.Sprintf("\nSource: %s", ds.Name)
		}
	}
	return pill
}

// buildMeasures emits one pill per measure alias.
func buildMeasures(agg state.Aggregation, doc *schema.Document) []Pill {
	seen := make(map[string]struct{})
	var pills []Pill

	for _, m := range agg.Measures {
		if m.Alias == "" {
			continue
		}
		if _, dup := seen[m.Alias]; dup {
			continue
		}
		seen[m.Alias] = struct{}{}
		pills = append(pills, measurePill(m.Alias, agg, doc))
	}

	if len(pills) == 0 {
		return []Pill{emptyPill(EmptyMeasures)}
	}
	return pills
}

func measurePill(alias string, agg state.Aggregation, doc *schema.Document) Pill {
	field, ok := ResolveMeasure(alias, doc)
	if !ok {
		field, ok = resolveInline(alias, agg.FieldMetadata)
	}

	pill := Pill{
		Icon:  MeasureIcon(field.DataType),
		Label: alias,
	}
	if ok && field.DisplayName != "" {
		pill.Label = field.DisplayName
	}
	pill.TooltipTitle = pill.Label
	pill.TooltipBody = fmt.Sprintf("%s measure", alias)
	if ok && field.Description != "" {
		pill.TooltipBody = field.Description
	}
	if ok && field.DataSourceID != "" {
		if ds, found := ResolveDataSource(field.DataSourceID, agg.DatasourceMetadata); found && ds.Name != "" {
			pill.TooltipBody += fmt.Sprintf("\nSource: %s", ds.Name)
		}
	}
	return pill
}

// buildFilters emits pills for structured filter entries, a bare-string
// filter description, and raw pre/post aggregation filter text. The
// pre-aggregation text only renders when there are zero structured
// entries, to avoid describing the same filter twice. Post-aggregation
// text always renders last.
func buildFilters(agg state.Aggregation, ins state.Insights, doc *schema.Document) []Pill {
	var pills []Pill

	entries := ins.FilterDescription.Entries
	for _, entry := range entries {
		name := entry.FieldName()
		label := name
		if field, ok := ResolveAny(name, doc); ok && field.DisplayName != "" {
			label = field.DisplayName
		}
		if label == "" {
			label = "Filter"
		}
		tooltip := entry.Description
		if tooltip == "" {
			tooltip = "Applied filter"
		}
		pills = append(pills, Pill{
			Icon:         IconFilter,
			Label:        label,
			TooltipTitle: label,
			TooltipBody:  tooltip,
		})
	}

	if len(entries) == 0 && ins.FilterDescription.Text != "" {
		pills = append(pills, Pill{
			Icon:         IconFilter,
			Label:        "Filter",
			TooltipTitle: "Filter",
			TooltipBody:  ins.FilterDescription.Text,
		})
	}

	if len(entries) == 0 && agg.PreAggregationFilters != "" {
		pills = append(pills, Pill{
			Icon:         IconFilter,
			Label:        "Filter",
			TooltipTitle: "Filter",
			TooltipBody:  agg.PreAggregationFilters,
		})
	}

	if agg.PostAggregationFilters != "" {
		pills = append(pills, Pill{
			Icon:         IconFilter,
			Label:        "Post-aggregation filter",
			TooltipTitle: "Post-aggregation filter",
			TooltipBody:  agg.PostAggregationFilters,
		})
	}

	if len(pills) == 0 {
		return []Pill{emptyPill(EmptyFilters)}
	}
	return pills
}

// resolveInline scans the aggregation definition's inline field metadata,
// which the backend sends when a field is not in the static schema.
func resolveInline(name string, fields []schema.Field) (schema.Field, bool) {
	for _, f := range fields {
		if f.PhysicalName == name {
			return f, true
		}
	}
	return schema.Field{}, false
}
