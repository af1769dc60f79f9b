package paniclens

import (
	"fmt"
	"strings"

	"github.com/paniclens/paniclens/frame"
	"github.com/paniclens/paniclens/internal/snippet"
	"github.com/paniclens/paniclens/sink"
)

const (
	reportWidth = 80

	unknownLocation = "<unknown>"
	unknownSymbol   = "<unknown>"
	unknownFile     = "at <unknown source file>"
	unknownLine     = "<unknown line>"
	emptyTrace      = "<empty backtrace>"

	nonStringPayload = "<non-string panic payload>"
)

// Symbol names carrying a mangled hash suffix are split at a fixed
// boundary: a 3-character marker followed by exactly 16 hex digits at
// the end of the name. Native Go symbols never contain the marker;
// names resolved by external symbolizers may.
const (
	hashMarker = "::h"
	hashDigits = 16
	hashTotal  = len(hashMarker) + hashDigits
)

// Renderer writes crash reports to an output sink. Every sink write
// error is propagated immediately; there is no partial-render retry.
type Renderer struct {
	opts *Options
	out  sink.Sink
}

// NewRenderer creates a renderer over the options' sink. A nil opts
// uses NewOptions.
func NewRenderer(opts *Options) *Renderer {
	if opts == nil {
		opts = NewOptions()
	}
	return &Renderer{opts: opts, out: opts.out}
}

// rendererTo renders with the given options but to a different sink,
// leaving the options untouched.
func rendererTo(opts *Options, out sink.Sink) *Renderer {
	if opts == nil {
		opts = NewOptions()
	}
	return &Renderer{opts: opts, out: out}
}

// RenderReport writes the full report: greeting, message, location,
// verbosity hints, and (above minimal verbosity) the backtrace. file
// and line locate the failure site; an empty file means unknown.
func (r *Renderer) RenderReport(payload any, file string, line int, frames []frame.Frame) error {
	if err := r.renderHeaderAndMessage(payload, file, line); err != nil {
		return err
	}
	if r.opts.verbosity >= VerbosityMedium {
		return r.RenderTrace(frames)
	}
	return nil
}

func (r *Renderer) renderHeaderAndMessage(payload any, file string, line int) error {
	if err := r.writeColored(sink.RoleHeader, r.opts.message+"\n"); err != nil {
		return err
	}

	if err := r.out.WriteString("Message:  " + payloadText(payload) + "\n"); err != nil {
		return err
	}

	if err := r.out.WriteString("Location: "); err != nil {
		return err
	}
	if file != "" {
		if err := r.writeColored(sink.RoleLocation, file); err != nil {
			return err
		}
		if err := r.writeColored(sink.RoleLocationSeparator, ":"); err != nil {
			return err
		}
		if err := r.writeColored(sink.RoleLocation, fmt.Sprintf("%d\n", line)); err != nil {
			return err
		}
	} else {
		if err := r.out.WriteString(unknownLocation + "\n"); err != nil {
			return err
		}
	}

	return r.renderVerbosityHints()
}

// renderVerbosityHints tells the user which environment variables
// reveal more of the report than the current level shows.
func (r *Renderer) renderVerbosityHints() error {
	switch r.opts.verbosity {
	case VerbosityMinimal:
		if err := r.out.WriteString("\nBacktrace omitted. Run with "); err != nil {
			return err
		}
		if err := r.writeColored(sink.RoleEnvHint, EnvVerbosity+"=1"); err != nil {
			return err
		}
		return r.out.WriteString(" environment variable to display it.\n")
	default:
		if err := r.out.WriteString("\nRun with "); err != nil {
			return err
		}
		if err := r.writeColored(sink.RoleEnvHint, EnvNoFilter+"=1"); err != nil {
			return err
		}
		if err := r.out.WriteString(" to disable frame filtering.\n"); err != nil {
			return err
		}
		if r.opts.verbosity >= VerbosityFull {
			return nil
		}
		if err := r.out.WriteString("Run with "); err != nil {
			return err
		}
		if err := r.writeColored(sink.RoleEnvHint, EnvVerbosity+"=full"); err != nil {
			return err
		}
		return r.out.WriteString(" to include source snippets.\n")
	}
}

// RenderTrace writes the backtrace section: filtered frames in capture
// order with omission banners at every gap. Setting EnvNoFilter
// bypasses the filter pipeline for this render only.
func (r *Renderer) RenderTrace(frames []frame.Frame) error {
	if err := r.out.WriteString(center(" BACKTRACE ", reportWidth, '─') + "\n"); err != nil {
		return err
	}

	kept := frames
	if !filterDisabledFromEnv() {
		kept = frame.NewPipeline(r.opts.filters...).Apply(frames)
	}
	if len(kept) == 0 {
		return r.out.WriteString(emptyTrace + "\n")
	}

	total := 0
	if n := len(frames); n > 0 {
		total = frames[n-1].Index
	}
	gaps := frame.Gaps(kept, total)

	banner := func(before int) error {
		for _, g := range gaps {
			if g.Before == before {
				return r.renderOmissionBanner(g.Count)
			}
		}
		return nil
	}

	for _, f := range kept {
		if err := banner(f.Index); err != nil {
			return err
		}
		if err := r.renderFrame(f); err != nil {
			return err
		}
	}
	return banner(0)
}

// renderFrame writes one frame: the original index, the colorized
// symbol name (hash suffix split off when present), the source
// location, and at full verbosity a source snippet.
func (r *Renderer) renderFrame(f frame.Frame) error {
	if err := r.out.WriteString(fmt.Sprintf("%2d: ", f.Index)); err != nil {
		return err
	}
	if r.opts.printAddresses && f.PC != 0 {
		if err := r.out.WriteString(fmt.Sprintf("0x%x - ", f.PC)); err != nil {
			return err
		}
	}

	nameRole, hashRole := sink.RoleApplication, sink.RoleApplicationHash
	if frame.IsDependency(f) {
		nameRole, hashRole = sink.RoleDependency, sink.RoleDependencyHash
	}

	name := f.Name
	if name == "" {
		name = unknownSymbol
	}
	base, hash := splitHashSuffix(name)
	if err := r.writeColored(nameRole, base); err != nil {
		return err
	}
	if hash != "" && !r.opts.stripHashes {
		if err := r.writeColored(hashRole, hash); err != nil {
			return err
		}
	}
	if err := r.out.WriteString("\n"); err != nil {
		return err
	}

	if f.File != "" {
		lineStr := unknownLine
		if f.Line > 0 {
			lineStr = fmt.Sprintf("%d", f.Line)
		}
		if err := r.out.WriteString(fmt.Sprintf("    at %s:%s\n", f.File, lineStr)); err != nil {
			return err
		}
	} else {
		if err := r.out.WriteString("    " + unknownFile + "\n"); err != nil {
			return err
		}
	}

	if r.opts.verbosity >= VerbosityFull && f.File != "" && f.Line > 0 {
		return r.renderSnippet(f.File, f.Line)
	}
	return nil
}

// renderSnippet writes the source window around line, highlighting the
// reported line itself.
func (r *Renderer) renderSnippet(file string, line int) error {
	lines, err := snippet.Read(file, line)
	if err != nil {
		return err
	}
	for _, ln := range lines {
		if ln.Number == line {
			if err := r.writeColored(sink.RoleSelectedSource,
				fmt.Sprintf("%8d > %s\n", ln.Number, ln.Text)); err != nil {
				return err
			}
			continue
		}
		if err := r.out.WriteString(fmt.Sprintf("%8d │ %s\n", ln.Number, ln.Text)); err != nil {
			return err
		}
	}
	return nil
}

// renderOmissionBanner reports a contiguous run of hidden frames.
func (r *Renderer) renderOmissionBanner(count int) error {
	word := "frames"
	if count == 1 {
		word = "frame"
	}
	text := fmt.Sprintf("(%d %s hidden)", count, word)
	return r.writeColored(sink.RoleOmitted, center(text, reportWidth, ' ')+"\n")
}

// writeColored writes s in the given role and resets afterwards.
func (r *Renderer) writeColored(role sink.Role, s string) error {
	if err := r.out.SetColor(role); err != nil {
		return err
	}
	if err := r.out.WriteString(s); err != nil {
		return err
	}
	return r.out.Reset()
}

// payloadText extracts a printable message from a panic payload,
// falling back to a fixed placeholder for non-textual values.
func payloadText(payload any) string {
	switch v := payload.(type) {
	case string:
		return v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return nonStringPayload
	}
}

// splitHashSuffix splits a symbol name into its base and a trailing
// mangled hash. The hash is exactly hashMarker followed by 16 hex
// digits (either case) at the end of a name longer than 19 characters;
// anything else stays unsplit.
func splitHashSuffix(name string) (base, hash string) {
	if len(name) <= hashTotal {
		return name, ""
	}
	cut := len(name) - hashTotal
	if name[cut:cut+len(hashMarker)] != hashMarker {
		return name, ""
	}
	for _, c := range name[cut+len(hashMarker):] {
		if !isHexDigit(c) {
			return name, ""
		}
	}
	return name[:cut], name[cut:]
}

func isHexDigit(c rune) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f':
		return true
	case c >= 'A' && c <= 'F':
		return true
	default:
		return false
	}
}

// center pads text on both sides with pad to the given width. Text
// wider than width is returned unchanged.
func center(text string, width int, pad rune) string {
	gap := width - len([]rune(text))
	if gap <= 0 {
		return text
	}
	left := gap / 2
	right := gap - left
	return strings.Repeat(string(pad), left) + text + strings.Repeat(string(pad), right)
}
