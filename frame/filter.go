package frame

// Filter is one step of the filtering pipeline. A step receives the
// current working set and returns the frames to keep. Steps may only
// remove frames; they must never reorder, duplicate, or add.
type Filter func([]Frame) []Frame

// TrimPanicMachinery is the default filter step. It removes everything
// from the start of the capture through the last post-panic frame, and
// everything from the first runtime-init frame through the end; frames
// strictly between survive.
func TrimPanicMachinery(frames []Frame) []Frame {
	start := 0
	for i, f := range frames {
		if IsPostPanic(f) {
			start = i + 1
		}
	}

	end := len(frames)
	for i := start; i < len(frames); i++ {
		if IsRuntimeInit(frames[i]) {
			end = i
			break
		}
	}

	return frames[start:end]
}

// Pipeline applies an ordered list of filter steps to a captured frame
// list. Original frame indices are preserved so omissions can be
// reported afterwards.
type Pipeline struct {
	steps []Filter
}

// NewPipeline builds a pipeline from the given steps. With no steps it
// uses the built-in TrimPanicMachinery step.
func NewPipeline(steps ...Filter) *Pipeline {
	if len(steps) == 0 {
		steps = []Filter{TrimPanicMachinery}
	}
	return &Pipeline{steps: steps}
}

// Apply runs every step in order and returns the kept subset. The kept
// indices are a strictly increasing sub-sequence of the input: any
// frame a step reordered or invented is discarded.
func (p *Pipeline) Apply(frames []Frame) []Frame {
	kept := frames
	for _, step := range p.steps {
		kept = subsequence(step(kept), kept)
	}
	return kept
}

// subsequence keeps the longest prefix-greedy sub-sequence of out that
// occurs, in order, in in. This enforces the remove-only contract on
// misbehaving steps.
func subsequence(out, in []Frame) []Frame {
	kept := make([]Frame, 0, len(out))
	j := 0
	for _, f := range out {
		for j < len(in) && in[j].Index != f.Index {
			j++
		}
		if j == len(in) {
			break
		}
		kept = append(kept, in[j])
		j++
	}
	return kept
}

// Gap is a contiguous run of hidden frames. Before is the original
// index of the first kept frame that follows the gap, or 0 when the
// gap trails the last kept frame.
type Gap struct {
	Before int
	Count  int
}

// Gaps computes the omitted ranges between a kept subset and the
// original capture of total frames. The counts always sum to
// total minus len(kept).
func Gaps(kept []Frame, total int) []Gap {
	var gaps []Gap
	prev := 0
	for _, f := range kept {
		if n := f.Index - prev - 1; n > 0 {
			gaps = append(gaps, Gap{Before: f.Index, Count: n})
		}
		prev = f.Index
	}
	if n := total - prev; n > 0 {
		gaps = append(gaps, Gap{Before: 0, Count: n})
	}
	return gaps
}
