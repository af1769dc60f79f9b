// Package paniclens turns a captured call stack plus a panic payload
// into a colorized, human-readable crash report. It hides the panic
// delivery and startup machinery, renders application frames in a
// different color than dependency frames, and can show source snippets
// around each frame.
//
// Installing the hook is one call in main:
//
//	paniclens.Install(nil)
//
// and guarding goroutines is one deferred call:
//
//	defer paniclens.HandlePanic()
//
// Verbosity is controlled by the PANICLENS_VERBOSITY environment
// variable: unset prints only the message and location, any value adds
// the backtrace, and the literal "full" adds source snippets.
package paniclens

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/paniclens/paniclens/frame"
	"github.com/paniclens/paniclens/reportfile"
	"github.com/paniclens/paniclens/sink"
)

// Environment variables recognized by the renderer.
const (
	// EnvVerbosity selects the report verbosity: unset → minimal,
	// "full" → full, anything else → medium.
	EnvVerbosity = "PANICLENS_VERBOSITY"

	// EnvNoFilter, when set to an affirmative value, disables frame
	// filtering for that render only.
	EnvNoFilter = "PANICLENS_NOFILTER"
)

// Verbosity defines how much of the report is printed.
type Verbosity int

const (
	// VerbosityMinimal prints the message and panic location only.
	VerbosityMinimal Verbosity = iota

	// VerbosityMedium additionally prints the backtrace.
	VerbosityMedium

	// VerbosityFull additionally prints source snippets for frames
	// whose source files are found on disk.
	VerbosityFull
)

// String returns the string representation of the verbosity level.
func (v Verbosity) String() string {
	switch v {
	case VerbosityMinimal:
		return "minimal"
	case VerbosityMedium:
		return "medium"
	case VerbosityFull:
		return "full"
	default:
		return "unknown"
	}
}

// VerbosityFromEnv reads the verbosity level from EnvVerbosity. It is
// evaluated fresh on every call, never cached.
func VerbosityFromEnv() Verbosity {
	val, ok := os.LookupEnv(EnvVerbosity)
	switch {
	case !ok:
		return VerbosityMinimal
	case val == "full":
		return VerbosityFull
	default:
		return VerbosityMedium
	}
}

// filterDisabledFromEnv reports whether EnvNoFilter holds an
// affirmative value. Read per render so the override never sticks.
func filterDisabledFromEnv() bool {
	v := viper.New()
	_ = v.BindEnv("nofilter", EnvNoFilter)
	return v.GetBool("nofilter")
}

const defaultMessage = "The application panicked (crashed)."

// Options configures report rendering. Build one with NewOptions and
// the With* methods; treat it as immutable once a hook is installed.
type Options struct {
	message        string
	verbosity      Verbosity
	scheme         sink.Scheme
	stripHashes    bool
	printAddresses bool
	filters        []frame.Filter
	out            sink.Sink
	logger         *slog.Logger
	reports        *reportfile.Writer
}

// NewOptions returns options with the default greeting, the verbosity
// taken from the environment, the default color scheme, the built-in
// filter step, and a colorized stderr sink.
func NewOptions() *Options {
	scheme := sink.DefaultScheme()
	return &Options{
		message:   defaultMessage,
		verbosity: VerbosityFromEnv(),
		scheme:    scheme,
		filters:   []frame.Filter{frame.TrimPanicMachinery},
		out:       sink.NewTerminal(os.Stderr, scheme),
		logger:    slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
}

// WithMessage sets the greeting printed at the top of the report.
func (o *Options) WithMessage(msg string) *Options {
	o.message = msg
	return o
}

// WithVerbosity overrides the environment-derived verbosity.
func (o *Options) WithVerbosity(v Verbosity) *Options {
	o.verbosity = v
	return o
}

// WithScheme sets the color scheme. It only affects sinks created
// after the call, so set it before WithOut or rely on the default.
func (o *Options) WithScheme(s sink.Scheme) *Options {
	o.scheme = s
	o.out = sink.NewTerminal(os.Stderr, s)
	return o
}

// WithStripHashes drops mangled hash suffixes from symbol names
// instead of rendering them dimmed.
func (o *Options) WithStripHashes(strip bool) *Options {
	o.stripHashes = strip
	return o
}

// WithPrintAddresses adds the raw instruction address to frame lines.
func (o *Options) WithPrintAddresses(print bool) *Options {
	o.printAddresses = print
	return o
}

// WithFilters replaces the filter steps applied before rendering a
// trace. Steps run in order and may only remove frames.
func (o *Options) WithFilters(steps ...frame.Filter) *Options {
	o.filters = steps
	return o
}

// WithOut replaces the output sink.
func (o *Options) WithOut(s sink.Sink) *Options {
	o.out = s
	return o
}

// WithLogger sets the logger used for best-effort diagnostics when a
// render fails inside the installed hook.
func (o *Options) WithLogger(l *slog.Logger) *Options {
	o.logger = l
	return o
}

// WithReportFiles additionally persists each report rendered by the
// installed hook through w.
func (o *Options) WithReportFiles(w *reportfile.Writer) *Options {
	o.reports = w
	return o
}

// nopLogger discards everything; used when options carry no logger.
func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
