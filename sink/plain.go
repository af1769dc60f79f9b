package sink

import "io"

// Plain passes text through to a writer. Color operations are no-ops,
// which makes it the sink of choice for log files and in-memory
// report strings.
type Plain struct {
	w io.Writer
}

// NewPlain creates a pass-through sink over w.
func NewPlain(w io.Writer) *Plain {
	return &Plain{w: w}
}

func (p *Plain) WriteString(s string) error {
	_, err := io.WriteString(p.w, s)
	return err
}

func (p *Plain) SetColor(Role) error { return nil }

func (p *Plain) Reset() error { return nil }
