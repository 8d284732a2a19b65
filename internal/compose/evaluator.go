// Package compose answers the single question the rendering host asks:
// what should frame F show and what should be audible. Evaluation is
// frame-pure: no query depends on any previously evaluated frame, which
// is what lets a host split the frame range into disjoint chunks and
// render them in separate processes.
package compose

import (
	"fmt"

	"github.com/ivlev/board2video/internal/audio"
	"github.com/ivlev/board2video/internal/scene"
	"github.com/ivlev/board2video/internal/schedule"
	"github.com/ivlev/board2video/internal/storyboard"
	"github.com/ivlev/board2video/internal/transition"
)

// FrameSpec is the composed render instruction for one global frame.
type FrameSpec struct {
	Frame      int                  `json:"frame"`
	SceneID    string               `json:"scene_id"`
	SceneIndex int                  `json:"scene_index"`
	LocalFrame int                  `json:"local_frame"`
	Variant    string               `json:"variant"`
	Transform  transition.Transform `json:"transform"`
	Visual     scene.Node           `json:"visual"`
	Audio      []audio.TrackLevel   `json:"audio"`
}

// Evaluator holds the immutable state shared by every frame query.
type Evaluator struct {
	Board    *storyboard.Storyboard
	Timeline *schedule.Timeline
	Registry *scene.Registry
	Mixer    *audio.Mixer
	// WindowFrames is the transition window length in frames.
	WindowFrames int
}

// New builds an evaluator for a validated storyboard. Registry and mixer
// may be nil; the builtins and standard mixer are used then.
func New(sb *storyboard.Storyboard, reg *scene.Registry, mixer *audio.Mixer) (*Evaluator, error) {
	tl, err := schedule.Build(sb)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		reg = scene.NewRegistry(scene.Builtins())
	}
	if mixer == nil {
		mixer = audio.NewMixer()
	}
	return &Evaluator{
		Board:        sb,
		Timeline:     tl,
		Registry:     reg,
		Mixer:        mixer,
		WindowFrames: transition.DefaultWindowFrames(sb.Video.FPS),
	}, nil
}

// EvaluateFrame computes the full render instruction for a global frame.
// Valid for any frame in [0, total), including frames belonging to a
// chunk that does not start at 0.
func (e *Evaluator) EvaluateFrame(frame int) (*FrameSpec, error) {
	sc, local, ok := e.Timeline.Active(frame)
	if !ok {
		return nil, fmt.Errorf("frame %d outside composition [0,%d)", frame, e.Timeline.TotalFrames)
	}

	variant := transition.Assign(sc.Index)
	tr := transition.At(variant, local, sc.DurationFrames, e.WindowFrames)

	visual := e.Registry.Resolve(sc.Scene.Type).Render(scene.Context{
		Scene:          sc.Scene,
		Style:          e.Board.Style,
		LocalFrame:     local,
		DurationFrames: sc.DurationFrames,
		FPS:            e.Timeline.FPS,
	})

	return &FrameSpec{
		Frame:      frame,
		SceneID:    sc.Scene.ID,
		SceneIndex: sc.Index,
		LocalFrame: local,
		Variant:    variant.String(),
		Transform:  tr,
		Visual:     visual,
		Audio:      e.Mixer.Levels(e.Timeline, frame),
	}, nil
}

// TotalFrames is the composition length in frames.
func (e *Evaluator) TotalFrames() int {
	return e.Timeline.TotalFrames
}
