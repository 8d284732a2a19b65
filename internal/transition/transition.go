// Package transition assigns each scene a deterministic enter/exit visual
// treatment and computes the per-frame transform for it. Everything here
// is a pure function of the scene index and the scene-local frame, so
// re-renders and out-of-order frame evaluation always agree.
package transition

import (
	"math"

	"github.com/ivlev/board2video/internal/ease"
)

// Variant is one of the canonical enter/exit treatment families.
type Variant int

const (
	VariantFadeScaleDrift Variant = iota
	VariantSlideLeft
	VariantSlideRight
	VariantSlideUpScale
	VariantZoom
	VariantClipWipe
	VariantCrossfadeBlur
)

var variantNames = [...]string{
	VariantFadeScaleDrift: "fade-scale-drift",
	VariantSlideLeft:      "slide-left",
	VariantSlideRight:     "slide-right",
	VariantSlideUpScale:   "slide-up-scale",
	VariantZoom:           "zoom",
	VariantClipWipe:       "clip-wipe",
	VariantCrossfadeBlur:  "crossfade-blur",
}

func (v Variant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return "unknown"
	}
	return variantNames[v]
}

// variantTable lists the assignment order walked by Assign.
var variantTable = [...]Variant{
	VariantFadeScaleDrift,
	VariantSlideLeft,
	VariantSlideRight,
	VariantSlideUpScale,
	VariantZoom,
	VariantClipWipe,
	VariantCrossfadeBlur,
}

// Assignment constants. The stride must stay coprime with the table size
// so consecutive scenes walk the full variant cycle; a stride that is a
// multiple of the table size would collapse every scene to one variant.
const (
	assignStride = 3
	assignOffset = 1
)

// Assign returns the variant for a scene index. Same index, same variant,
// on every call.
func Assign(index int) Variant {
	n := len(variantTable)
	i := (index*assignStride + assignOffset) % n
	if i < 0 {
		i += n
	}
	return variantTable[i]
}

// DefaultWindowSeconds is the fixed length of the enter and exit windows.
const DefaultWindowSeconds = 0.7

// DefaultWindowFrames converts the fixed window length to frames.
func DefaultWindowFrames(fps int) int {
	return int(math.Round(DefaultWindowSeconds * float64(fps)))
}

// Transform is the visual treatment of one frame. TranslateX/TranslateY
// are fractions of the frame width/height; ClipRight is the fraction of
// the width clipped away from the right edge; Blur is in pixels.
type Transform struct {
	Opacity    float64
	Scale      float64
	TranslateX float64
	TranslateY float64
	Blur       float64
	ClipRight  float64
}

// Identity is the resting state a scene holds outside its windows.
func Identity() Transform {
	return Transform{Opacity: 1, Scale: 1}
}

// Magnitudes of the per-variant treatments.
const (
	driftDistance = 0.033 // vertical drift, fraction of height
	slideDistance = 0.08  // horizontal/vertical slide, fraction of dimension
	scaleFloor    = 0.96
	zoomFloor     = 0.8
	maxBlurPx     = 8.0
)

// At computes the transform for a scene-local frame. The entry envelope
// eases out over the first window frames; the exit envelope mirrors it
// over the last window frames (an ease-in when viewed forward in time).
// Opacity is min(enter, exit) clamped to [0,1], so scenes shorter than
// two windows stay in range.
func At(v Variant, local, sceneFrames, window int) Transform {
	if window <= 0 || sceneFrames <= 0 {
		return Identity()
	}

	enter := ease.OutCubic(ease.Clamp01(float64(local) / float64(window)))
	exit := ease.OutCubic(ease.Clamp01(float64(sceneFrames-local) / float64(window)))
	env := math.Min(enter, exit)

	tr := Identity()
	tr.Opacity = ease.Clamp01(env)

	switch v {
	case VariantFadeScaleDrift:
		tr.Scale = ease.Lerp(scaleFloor, 1, env)
		tr.TranslateY = (1 - env) * driftDistance
	case VariantSlideLeft:
		// Enters from the right, leaves to the left.
		tr.TranslateX = (1-enter)*slideDistance - (1-exit)*slideDistance
	case VariantSlideRight:
		tr.TranslateX = (1-exit)*slideDistance - (1-enter)*slideDistance
	case VariantSlideUpScale:
		tr.TranslateY = (1-enter)*slideDistance - (1-exit)*slideDistance
		tr.Scale = ease.Lerp(scaleFloor, 1, env)
	case VariantZoom:
		tr.Scale = ease.Lerp(zoomFloor, 1, env)
	case VariantClipWipe:
		tr.ClipRight = 1 - env
	case VariantCrossfadeBlur:
		tr.Blur = (1 - env) * maxBlurPx
	}
	return tr
}
