// Package ui serves the AskLens panel in the browser. It renders the
// chart area and the About Data pill sections over datastar SSE patches,
// driven by the result store and the descriptor builder.
package ui

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/asklens-labs/asklens/internal/describe"
	"github.com/asklens-labs/asklens/internal/state"
	"github.com/starfederation/datastar-go/datastar"
)

// sectionTitles maps section IDs to panel headings.
var sectionTitles = map[string]string{
	describe.SectionPeriod:     "Time Period",
	describe.SectionAttributes: "Attributes",
	describe.SectionMeasures:   "Measures",
	describe.SectionFilters:    "Filters",
}

func esc(s string) string {
	return template.HTMLEscapeString(s)
}

// sectionHTML renders one pill section as a morph target. The element id
// must match the shell markup or the patch has nowhere to land.
func sectionHTML(sectionID string, pills []describe.Pill) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div id="about-%s" class="about-section">`, esc(sectionID))
	fmt.Fprintf(&b, `<h3>%s</h3><div class="pill-row">`, esc(sectionTitles[sectionID]))

	for _, p := range pills {
		if p.EmptyState {
			fmt.Fprintf(&b, `<span class="pill empty-state">%s</span>`, esc(p.Label))
			continue
		}
		class := "pill"
		if p.Class != "" {
			class += " " + p.Class
		}
		fmt.Fprintf(&b, `<span class="%s" title="%s">`, esc(class), esc(tooltipText(p)))
		if p.Icon != "" {
			fmt.Fprintf(&b, `<span class="material-symbols-outlined">%s</span>`, esc(p.Icon))
		}
		fmt.Fprintf(&b, `%s</span>`, esc(p.Label))
	}

	b.WriteString(`</div></div>`)
	return b.String()
}

func tooltipText(p describe.Pill) string {
	if p.TooltipTitle != "" && p.TooltipTitle != p.Label {
		return p.TooltipTitle + "\n" + p.TooltipBody
	}
	return p.TooltipBody
}

// resultHTML renders the chart area. Chart drawing proper is out of
// scope; every chart type is presented as a data table plus the insight
// text the backend produced.
func resultHTML(res state.Result) string {
	var b strings.Builder
	b.WriteString(`<div id="result-area">`)

	if res.Insights.Title != "" {
		fmt.Fprintf(&b, `<h2>%s</h2>`, esc(res.Insights.Title))
	}
	if res.TextResponse != "" {
		fmt.Fprintf(&b, `<p class="text-response">%s</p>`, esc(res.TextResponse))
	}
	if res.Insights.DataDescription != "" {
		fmt.Fprintf(&b, `<p class="data-description">%s</p>`, esc(res.Insights.DataDescription))
	}

	if len(res.Dataset) > 0 && len(res.Fields) > 0 {
		b.WriteString(`<table class="result-table"><thead><tr>`)
		for _, f := range res.Fields {
			fmt.Fprintf(&b, `<th>%s</th>`, esc(f))
		}
		b.WriteString(`</tr></thead><tbody>`)
		for _, row := range res.Dataset {
			b.WriteString(`<tr>`)
			for _, f := range res.Fields {
				fmt.Fprintf(&b, `<td>%s</td>`, esc(cellText(row[f])))
			}
			b.WriteString(`</tr>`)
		}
		b.WriteString(`</tbody></table>`)
	}

	b.WriteString(`</div>`)
	return b.String()
}

func cellText(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// sseRenderer pushes pill sections to one connected client as element
// patches. It implements describe.Renderer.
type sseRenderer struct {
	sse *datastar.ServerSentEventGenerator
}

func (r *sseRenderer) RenderSection(sectionID string, pills []describe.Pill) error {
	return r.sse.PatchElements(sectionHTML(sectionID, pills))
}
