// Package schedule converts storyboard scene durations into exact frame
// offsets. The derived timeline is built once per render invocation and
// shared, read-only, by every frame query.
package schedule

import (
	"fmt"
	"math"

	"github.com/ivlev/board2video/internal/storyboard"
)

// ScheduledScene is one scene placed on the global frame axis.
type ScheduledScene struct {
	Scene           *storyboard.Scene
	Index           int
	StartFrame      int
	DurationFrames  int
	DurationSeconds float64
	// AudioFrames covers only the voiceover portion; the remainder of the
	// scene is the inter-scene buffer.
	AudioFrames int
}

// EndFrame is the first frame past the scene (exclusive).
func (s *ScheduledScene) EndFrame() int {
	return s.StartFrame + s.DurationFrames
}

// Timeline is the fully scheduled composition.
type Timeline struct {
	Board       *storyboard.Storyboard
	FPS         int
	Scenes      []ScheduledScene
	TotalFrames int
}

// Build walks the scenes in order and accumulates frame offsets. Each
// scene's seconds-duration is its audio duration plus the inter-scene
// buffer; frames are rounded up so audio is never truncated. Zero scenes
// yields a valid zero-length timeline.
func Build(sb *storyboard.Storyboard) (*Timeline, error) {
	fps := sb.Video.FPS
	if fps <= 0 {
		return nil, fmt.Errorf("schedule: fps must be positive, got %d", fps)
	}

	tl := &Timeline{
		Board:  sb,
		FPS:    fps,
		Scenes: make([]ScheduledScene, 0, len(sb.Scenes)),
	}

	offset := 0
	for i := range sb.Scenes {
		s := &sb.Scenes[i]
		if s.AudioDurationSeconds <= 0 {
			return nil, fmt.Errorf("schedule: scene %q has non-positive audio duration %g", s.ID, s.AudioDurationSeconds)
		}
		seconds := s.AudioDurationSeconds + sb.SceneBuffer(s)
		frames := FramesFor(seconds, fps)
		tl.Scenes = append(tl.Scenes, ScheduledScene{
			Scene:           s,
			Index:           i,
			StartFrame:      offset,
			DurationFrames:  frames,
			DurationSeconds: seconds,
			AudioFrames:     FramesFor(s.AudioDurationSeconds, fps),
		})
		offset += frames
	}
	tl.TotalFrames = offset
	return tl, nil
}

// FramesFor converts a seconds-duration to frames, rounding up.
func FramesFor(seconds float64, fps int) int {
	return int(math.Ceil(seconds * float64(fps)))
}

// Active returns the single scene covering the global frame, along with
// the scene-local frame. ok is false outside [0, TotalFrames).
func (t *Timeline) Active(frame int) (s *ScheduledScene, local int, ok bool) {
	if frame < 0 || frame >= t.TotalFrames {
		return nil, 0, false
	}
	for i := range t.Scenes {
		sc := &t.Scenes[i]
		if frame < sc.EndFrame() {
			return sc, frame - sc.StartFrame, true
		}
	}
	// Unreachable: scenes are contiguous and cover [0, TotalFrames).
	return nil, 0, false
}

// TotalSeconds is the composition length in seconds at the scheduled rate.
func (t *Timeline) TotalSeconds() float64 {
	return float64(t.TotalFrames) / float64(t.FPS)
}
