package describe

// Renderer is the narrow port between descriptor derivation and whatever
// paints the panel. Implementations exist for the web UI (SSE patches)
// and the terminal.
type Renderer interface {
	// RenderSection paints one pill list. sectionID is one of the
	// Section* constants.
	RenderSection(sectionID string, pills []Pill) error
}

// RenderAll pushes every section of the panel through the renderer in
// display order, stopping at the first error.
func RenderAll(r Renderer, s Sections) error {
	for _, part := range []struct {
		id    string
		pills []Pill
	}{
		{SectionPeriod, s.Period},
		{SectionAttributes, s.Attributes},
		{SectionMeasures, s.Measures},
		{SectionFilters, s.Filters},
	} {
		if err := r.RenderSection(part.id, part.pills); err != nil {
			return err
		}
	}
	return nil
}
