package paniclens

import (
	"strings"
	"sync"

	"github.com/paniclens/paniclens/frame"
	"github.com/paniclens/paniclens/sink"
)

// Hook packages options and a renderer behind the process-wide panic
// notification slot. A single mutex spans the whole
// classify→filter→render sequence, so reports from concurrently
// panicking goroutines never interleave in the sink.
type Hook struct {
	mu   sync.Mutex
	opts *Options
}

// NewHook creates a hook from opts. A nil opts uses NewOptions. The
// options must not be mutated after the hook starts handling events.
func NewHook(opts *Options) *Hook {
	if opts == nil {
		opts = NewOptions()
	}
	return &Hook{opts: opts}
}

// Handle renders one panic event. Render failures are reduced to a
// single log line; Handle itself never panics and never blocks the
// original panic from propagating.
func (h *Hook) Handle(payload any, frames []frame.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()

	logger := h.opts.logger
	if logger == nil {
		logger = nopLogger()
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic report rendering panicked", "panic", r)
		}
	}()

	file, line := locateFailure(h.opts, frames)
	if err := NewRenderer(h.opts).RenderReport(payload, file, line, frames); err != nil {
		logger.Error("panic report rendering failed", "error", err)
	}

	if h.opts.reports != nil {
		text, err := SprintReport(payload, frames, h.opts)
		if err == nil {
			_, err = h.opts.reports.Write(text)
		}
		if err != nil {
			logger.Error("writing crash report file failed", "error", err)
		}
	}
}

// locateFailure picks the failure site to show on the Location line:
// the innermost surviving application frame, falling back to the first
// surviving frame of any kind.
func locateFailure(opts *Options, frames []frame.Frame) (string, int) {
	kept := frame.NewPipeline(opts.filters...).Apply(frames)
	for _, f := range kept {
		if !frame.IsDependency(f) && f.File != "" {
			return f.File, f.Line
		}
	}
	for _, f := range kept {
		if f.File != "" {
			return f.File, f.Line
		}
	}
	return "", 0
}

// activeHook is the single process-wide notification slot. Installing
// overwrites; there is no stacking and no uninstall.
var activeHook struct {
	mu   sync.Mutex
	hook *Hook
}

// Install registers a hook built from opts as the process-wide panic
// handler and returns it. The last installation wins. A nil opts uses
// NewOptions.
func Install(opts *Options) *Hook {
	h := NewHook(opts)
	SetActiveHook(h)
	return h
}

// SetActiveHook replaces the process-wide hook.
func SetActiveHook(h *Hook) {
	activeHook.mu.Lock()
	defer activeHook.mu.Unlock()
	activeHook.hook = h
}

// ActiveHook returns the currently installed hook, or nil.
func ActiveHook() *Hook {
	activeHook.mu.Lock()
	defer activeHook.mu.Unlock()
	return activeHook.hook
}

// HandlePanic is a defer-compatible guard. It captures the stack,
// routes the event through the installed hook, and re-panics so the
// failure propagates as it would have without the report.
//
//	defer paniclens.HandlePanic()
func HandlePanic() {
	if r := recover(); r != nil {
		if h := ActiveHook(); h != nil {
			h.Handle(r, frame.Capture(1))
		}
		panic(r)
	}
}

// RecoverToError renders the report like HandlePanic but stores an
// error in *errPtr instead of re-panicking.
//
//	defer paniclens.RecoverToError(&err)
func RecoverToError(errPtr *error) {
	if r := recover(); r != nil {
		if h := ActiveHook(); h != nil {
			h.Handle(r, frame.Capture(1))
		}
		*errPtr = &recoveredError{payload: r}
	}
}

type recoveredError struct {
	payload any
}

func (e *recoveredError) Error() string {
	return "recovered from panic: " + payloadText(e.payload)
}

// PrintReport renders a full report for payload and frames to the
// options' sink, outside the installed-hook flow.
func PrintReport(payload any, frames []frame.Frame, opts *Options) error {
	if opts == nil {
		opts = NewOptions()
	}
	file, line := locateFailure(opts, frames)
	return NewRenderer(opts).RenderReport(payload, file, line, frames)
}

// PrintTrace renders only the backtrace section to the options' sink.
func PrintTrace(frames []frame.Frame, opts *Options) error {
	return NewRenderer(opts).RenderTrace(frames)
}

// SprintReport renders the full report into a string through a plain
// pass-through sink, leaving opts untouched.
func SprintReport(payload any, frames []frame.Frame, opts *Options) (string, error) {
	if opts == nil {
		opts = NewOptions()
	}
	var sb strings.Builder
	file, line := locateFailure(opts, frames)
	err := rendererTo(opts, sink.NewPlain(&sb)).RenderReport(payload, file, line, frames)
	return sb.String(), err
}

// SprintTrace renders only the backtrace section into a string.
func SprintTrace(frames []frame.Frame, opts *Options) (string, error) {
	var sb strings.Builder
	err := rendererTo(opts, sink.NewPlain(&sb)).RenderTrace(frames)
	return sb.String(), err
}
