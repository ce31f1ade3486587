// Package output provides terminal rendering helpers shared by the
// AskLens subcommands.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Mode selects the output format.
type Mode string

// Output modes.
const (
	ModeTable Mode = "table"
	ModeJSON  Mode = "json"
)

// Styles holds the lipgloss styles used across commands.
type Styles struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Pill    lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
}

// DefaultStyles returns the standard style set.
func DefaultStyles() *Styles {
	return &Styles{
		Title:   lipgloss.NewStyle().Bold(true),
		Section: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Pill:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Muted:   lipgloss.NewStyle().Faint(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Renderer writes formatted output for a command.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	styles *Styles
}

// NewRenderer creates a renderer for the given writers and mode.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeTable
	}
	return &Renderer{out: out, errOut: errOut, mode: mode, styles: DefaultStyles()}
}

// Mode returns the renderer's output mode.
func (r *Renderer) Mode() Mode { return r.mode }

// Styles returns the renderer's style set.
func (r *Renderer) Styles() *Styles { return r.styles }

// Writer returns the renderer's output writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// Println writes a line to the output writer.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to the output writer.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}
