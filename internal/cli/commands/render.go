package commands

import (
	"fmt"

	"github.com/asklens-labs/asklens/internal/cli/output"
	"github.com/asklens-labs/asklens/internal/describe"
	"github.com/asklens-labs/asklens/internal/state"
	"github.com/jedib0t/go-pretty/v6/table"
)

// terminalRenderer paints pill sections as indented terminal lines. It
// implements describe.Renderer.
type terminalRenderer struct {
	r *output.Renderer
}

var sectionHeadings = map[string]string{
	describe.SectionPeriod:     "Time Period",
	describe.SectionAttributes: "Attributes",
	describe.SectionMeasures:   "Measures",
	describe.SectionFilters:    "Filters",
}

func (t *terminalRenderer) RenderSection(sectionID string, pills []describe.Pill) error {
	styles := t.r.Styles()
	t.r.Println(styles.Section.Render(sectionHeadings[sectionID]))

	for _, p := range pills {
		if p.EmptyState {
			t.r.Printf("  %s\n", styles.Muted.Render(p.Label))
			continue
		}
		line := styles.Pill.Render(p.Label)
		if p.TooltipBody != "" {
			line += " " + styles.Muted.Render("— "+firstLine(p.TooltipBody))
		}
		t.r.Printf("  %s\n", line)
	}
	t.r.Println()
	return nil
}

func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}

// renderResult writes the dataset as a table plus the insight text.
func renderResult(r *output.Renderer, res state.Result) {
	styles := r.Styles()

	if res.Insights.Title != "" {
		r.Println(styles.Title.Render(res.Insights.Title))
	}
	if res.TextResponse != "" {
		r.Println(res.TextResponse)
	}
	if res.Insights.DataDescription != "" {
		r.Println(styles.Muted.Render(res.Insights.DataDescription))
	}
	if res.Insights.Title != "" || res.TextResponse != "" || res.Insights.DataDescription != "" {
		r.Println()
	}

	if len(res.Dataset) == 0 || len(res.Fields) == 0 {
		r.Println(styles.Muted.Render("(0 rows)"))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(res.Fields))
	for i, f := range res.Fields {
		headerRow[i] = f
	}
	t.AppendHeader(headerRow)

	for _, row := range res.Dataset {
		tr := make(table.Row, len(res.Fields))
		for i, f := range res.Fields {
			tr[i] = formatValue(row[f])
		}
		t.AppendRow(tr)
	}

	t.Render()
	r.Printf("(%d rows)\n", len(res.Dataset))
}

func formatValue(v any) string {
	if v == nil {
		return ""
	}
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}
