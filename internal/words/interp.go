package words

import "github.com/ivlev/board2video/internal/ease"

// Extrapolate selects how Interp behaves for frames outside the span.
type Extrapolate int

const (
	// Clamp pins the output to the nearest edge value.
	Clamp Extrapolate = iota
	// Extend continues the eased curve past the span boundaries.
	Extend
	// Hold keeps the output at the From value, as if the span had not
	// started; after the span the animation snaps back to rest.
	Hold
)

// Span is the frame interval matched by a (startPhrase, endPhrase) pair.
type Span struct {
	StartFrame int
	EndFrame   int
}

// Span matches a start phrase and an end phrase, each with its own
// occurrence index, into a frame interval. Either miss anchors its side
// at frame 0, in keeping with the fail-soft phrase contract.
func (r *Resolver) Span(startPhrase string, startOcc int, endPhrase string, endOcc int) Span {
	return Span{
		StartFrame: r.StartFrame(startPhrase, startOcc),
		EndFrame:   r.EndFrame(endPhrase, endOcc),
	}
}

// Interp maps a frame position within a span onto an output value range.
// This is how sub-scene animations are synchronized to spoken words: the
// span comes from the transcript, From/To from the animation.
type Interp struct {
	From   float64
	To     float64
	Ease   ease.Func
	Before Extrapolate
	After  Extrapolate
}

// At returns the interpolated value for a queried scene-local frame.
func (in Interp) At(span Span, frame int) float64 {
	fn := in.Ease
	if fn == nil {
		fn = ease.Linear
	}

	width := span.EndFrame - span.StartFrame
	if width <= 0 {
		// Degenerate or unmatched span: rest before, target after.
		if frame < span.StartFrame {
			return in.From
		}
		return in.To
	}

	t := float64(frame-span.StartFrame) / float64(width)
	switch {
	case t < 0:
		// Clamp and Hold coincide on the entry side.
		if in.Before == Extend {
			return ease.Lerp(in.From, in.To, fn(t))
		}
		return in.From
	case t > 1:
		switch in.After {
		case Extend:
			return ease.Lerp(in.From, in.To, fn(t))
		case Hold:
			return in.From
		default:
			return in.To
		}
	}
	return ease.Lerp(in.From, in.To, fn(t))
}
