package sink

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Terminal writes styled text to a writer, typically stderr. Colors are
// enabled only when the writer is attached to a TTY and the environment
// does not opt out of color.
type Terminal struct {
	w        io.Writer
	renderer *lipgloss.Renderer
	scheme   Scheme
	colored  bool
	active   Role
}

// NewTerminal creates a terminal sink over w with the given scheme.
func NewTerminal(w io.Writer, scheme Scheme) *Terminal {
	return &Terminal{
		w:        w,
		renderer: lipgloss.NewRenderer(w),
		scheme:   scheme,
		colored:  shouldUseColor(w),
	}
}

// WriteString writes s, styled with the active role's color when colors
// are enabled.
func (t *Terminal) WriteString(s string) error {
	if t.colored && t.active != RoleNone {
		style := t.renderer.NewStyle().Foreground(t.scheme.Color(t.active))
		if t.active == RoleHeader || t.active == RoleSelectedSource || t.active == RoleEnvHint {
			style = style.Bold(true)
		}
		s = style.Render(s)
	}
	_, err := io.WriteString(t.w, s)
	return err
}

// SetColor activates the given role for subsequent writes.
func (t *Terminal) SetColor(role Role) error {
	t.active = role
	return nil
}

// Reset returns subsequent writes to the default style.
func (t *Terminal) Reset() error {
	t.active = RoleNone
	return nil
}

// shouldUseColor applies the usual conventions: NO_COLOR and TERM=dumb
// disable color, and the writer must be a terminal.
func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
