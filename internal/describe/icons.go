package describe

import "strings"

// Material Symbols icon names used by the panel.
const (
	IconCalendar  = "calendar_month"
	IconLocation  = "location_on"
	IconText      = "text_fields"
	IconTag       = "tag"
	IconFunctions = "functions"
	IconPercent   = "percent"
	IconLabel     = "label"
	IconFilter    = "filter_alt"
)

// DimensionIcon maps a field data type to its pill icon. Matching is
// case-insensitive; an empty type is treated as "string".
func DimensionIcon(dataType string) string {
	switch normalizeType(dataType, "string") {
	case "date":
		return IconCalendar
	case "point", "geo":
		return IconLocation
	case "string":
		return IconText
	case "integer", "number", "float":
		return IconTag
	default:
		return IconLabel
	}
}

// MeasureIcon maps a measure data type to its pill icon. An empty type is
// treated as "number".
func MeasureIcon(dataType string) string {
	switch normalizeType(dataType, "number") {
	case "integer":
		return IconTag
	case "percentage":
		return IconPercent
	default:
		return IconFunctions
	}
}

func normalizeType(dataType, fallback string) string {
	t := strings.ToLower(strings.TrimSpace(dataType))
	if t == "" {
		return fallback
	}
	return t
}
