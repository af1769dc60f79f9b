// Package frame models captured call-stack frames and the heuristics
// used to classify and filter them before rendering.
package frame

import "runtime"

const maxStackDepth = 64

// Frame is one entry of a captured call stack. Name, File, Line and PC
// are best-effort: symbol resolution may leave any of them empty/zero.
// Index is the 1-based position in the original capture and is never
// reassigned by filtering.
type Frame struct {
	Index int
	Name  string
	File  string
	Line  int
	PC    uintptr
}

// Capture collects the current goroutine's call stack using the runtime.
// skip is the number of callers to omit, not counting Capture itself.
// Frames are numbered from 1 in capture order (innermost first).
func Capture(skip int) []Frame {
	var pcs [maxStackDepth]uintptr
	n := runtime.Callers(skip+2, pcs[:])
	if n == 0 {
		return nil
	}

	frames := make([]Frame, 0, n)
	iter := runtime.CallersFrames(pcs[:n])
	for {
		f, more := iter.Next()
		frames = append(frames, Frame{
			Index: len(frames) + 1,
			Name:  f.Function,
			File:  f.File,
			Line:  f.Line,
			PC:    f.PC,
		})
		if !more {
			break
		}
	}
	return frames
}
