// Package sink abstracts the colorized output target a report is
// written to. Two implementations exist: a terminal sink that styles
// text per semantic role, and a plain sink that passes text through.
package sink

// Role names the semantic purpose of the text being written, so a sink
// can map it to a color without the renderer knowing about colors.
type Role int

const (
	RoleNone Role = iota
	RoleHeader
	RoleOmitted
	RoleDependency
	RoleDependencyHash
	RoleApplication
	RoleApplicationHash
	RoleLocation
	RoleLocationSeparator
	RoleSelectedSource
	RoleEnvHint
)

// Sink is the output capability a renderer writes against.
type Sink interface {
	// WriteString writes text in the currently active role, if any.
	WriteString(s string) error
	// SetColor activates the color of the given role for subsequent
	// writes.
	SetColor(role Role) error
	// Reset returns subsequent writes to the default style.
	Reset() error
}
