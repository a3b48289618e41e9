// Package render formats advice for terminal output.
package render

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const defaultWidth = 80

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3498db"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e74c3c"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f39c12"))
)

// Renderer writes advice and errors to w. Markdown styling is used only when
// w is a color-capable terminal.
type Renderer struct {
	w     io.Writer
	style string
	width int
}

// New creates a Renderer for w.
func New(w io.Writer) *Renderer {
	r := &Renderer{w: w, style: "notty", width: defaultWidth}

	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return r
	}

	if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 && width < defaultWidth {
		r.width = width
	}

	out := termenv.NewOutput(f)
	switch {
	case out.Profile == termenv.Ascii:
		r.style = "ascii"
	case out.HasDarkBackground():
		r.style = "dark"
	default:
		r.style = "light"
	}
	return r
}

// Style returns the glamour style chosen for the output.
func (r *Renderer) Style() string {
	return r.style
}

// Styled reports whether output carries terminal styling.
func (r *Renderer) Styled() bool {
	return r.style != "notty"
}

// Markdown renders md for the terminal; plain text is returned unchanged when
// the output is not styled or rendering fails.
func (r *Renderer) Markdown(md string) string {
	if !r.Styled() {
		return md
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(r.width),
	)
	if err != nil {
		return md
	}
	out, err := tr.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// Advice writes the advice under its heading.
func (r *Renderer) Advice(advice string) error {
	_, err := io.WriteString(r.w, r.heading("Here's your medical advice:")+"\n"+r.Markdown(advice)+"\n")
	return err
}

// Error writes a user-facing error.
func (r *Renderer) Error(msg string) error {
	_, err := io.WriteString(r.w, r.apply(errorStyle, msg)+"\n")
	return err
}

// Warning writes a validation warning.
func (r *Renderer) Warning(msg string) error {
	_, err := io.WriteString(r.w, r.apply(warnStyle, msg)+"\n")
	return err
}

func (r *Renderer) heading(s string) string {
	return r.apply(headingStyle, s)
}

func (r *Renderer) apply(style lipgloss.Style, s string) string {
	if !r.Styled() {
		return s
	}
	return style.Render(s)
}

// Heading styles a heading for use by other terminal views.
func Heading(s string) string {
	return headingStyle.Render(s)
}

// ErrorText styles an error for use by other terminal views.
func ErrorText(s string) string {
	return errorStyle.Render(s)
}

// WarningText styles a warning for use by other terminal views.
func WarningText(s string) string {
	return warnStyle.Render(s)
}

// MarkdownWithStyle renders md with an explicit glamour style ("dark",
// "light", "ascii", "notty") and wrap width.
func MarkdownWithStyle(md, style string, width int) string {
	r := &Renderer{style: style, width: width}
	return r.Markdown(md)
}
