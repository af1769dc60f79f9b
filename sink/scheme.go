package sink

import "github.com/charmbracelet/lipgloss"

// Scheme maps every semantic role to a terminal color. Colors use ANSI
// palette indices so they track the user's terminal theme.
type Scheme struct {
	Header            lipgloss.Color
	Omitted           lipgloss.Color
	Dependency        lipgloss.Color
	DependencyHash    lipgloss.Color
	Application       lipgloss.Color
	ApplicationHash   lipgloss.Color
	Location          lipgloss.Color
	LocationSeparator lipgloss.Color
	SelectedSource    lipgloss.Color
	EnvHint           lipgloss.Color
}

// DefaultScheme is the scheme used when none is configured: dependency
// frames in green, application frames in bright red, hash suffixes
// dimmed to the plain variant of their parent color.
func DefaultScheme() Scheme {
	return Scheme{
		Header:            lipgloss.Color("1"),  // red
		Omitted:           lipgloss.Color("14"), // bright cyan
		Dependency:        lipgloss.Color("2"),  // green
		DependencyHash:    lipgloss.Color("10"), // bright green
		Application:       lipgloss.Color("9"),  // bright red
		ApplicationHash:   lipgloss.Color("1"),  // red
		Location:          lipgloss.Color("5"),  // magenta
		LocationSeparator: lipgloss.Color("7"),  // white
		SelectedSource:    lipgloss.Color("15"), // bright white
		EnvHint:           lipgloss.Color("15"), // bright white
	}
}

// LightScheme is an alternative for light terminal backgrounds.
func LightScheme() Scheme {
	s := DefaultScheme()
	s.Omitted = lipgloss.Color("6")
	s.DependencyHash = lipgloss.Color("2")
	s.Application = lipgloss.Color("1")
	s.ApplicationHash = lipgloss.Color("9")
	s.SelectedSource = lipgloss.Color("0")
	s.EnvHint = lipgloss.Color("0")
	return s
}

// Color returns the scheme color for a role. RoleNone and unknown
// roles map to the empty color, which lipgloss treats as no color.
func (s Scheme) Color(role Role) lipgloss.Color {
	switch role {
	case RoleHeader:
		return s.Header
	case RoleOmitted:
		return s.Omitted
	case RoleDependency:
		return s.Dependency
	case RoleDependencyHash:
		return s.DependencyHash
	case RoleApplication:
		return s.Application
	case RoleApplicationHash:
		return s.ApplicationHash
	case RoleLocation:
		return s.Location
	case RoleLocationSeparator:
		return s.LocationSeparator
	case RoleSelectedSource:
		return s.SelectedSource
	case RoleEnvHint:
		return s.EnvHint
	default:
		return lipgloss.Color("")
	}
}
