package storyboard

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
)

// ValidationError reports a malformed storyboard field. It is fatal: a
// storyboard failing validation never reaches frame evaluation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("storyboard validation: %s: %s", e.Field, e.Reason)
}

// totalDriftToleranceSeconds is how far the declared total duration may
// drift from the scheduled sum before a warning is logged. The upstream
// storyboard updater rounds per scene, so small drift is expected.
const totalDriftToleranceSeconds = 0.5

// Read loads and validates a storyboard document from disk.
func Read(path string) (*Storyboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read storyboard: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a storyboard document.
func Parse(data []byte) (*Storyboard, error) {
	var sb Storyboard
	if err := json.Unmarshal(data, &sb); err != nil {
		return nil, fmt.Errorf("parse storyboard: %w", err)
	}
	if err := sb.Validate(); err != nil {
		return nil, err
	}
	sb.normalize()
	return &sb, nil
}

// Validate checks every invariant that must hold before any frame is
// rendered. The first violation is returned as a *ValidationError.
func (sb *Storyboard) Validate() error {
	if sb.Video.Width <= 0 || sb.Video.Height <= 0 {
		return &ValidationError{"video", fmt.Sprintf("dimensions must be positive, got %dx%d", sb.Video.Width, sb.Video.Height)}
	}
	if sb.Video.FPS <= 0 {
		return &ValidationError{"video.fps", fmt.Sprintf("must be positive, got %d", sb.Video.FPS)}
	}
	if len(sb.Scenes) == 0 {
		return &ValidationError{"scenes", "storyboard has no scenes"}
	}
	if sb.Audio.BufferBetweenScenesSeconds < 0 {
		return &ValidationError{"audio.buffer_between_scenes_seconds", "must not be negative"}
	}
	if m := sb.Audio.BackgroundMusic; m != nil {
		if m.Path == "" {
			return &ValidationError{"audio.background_music.path", "must not be empty"}
		}
	}

	seen := make(map[string]bool, len(sb.Scenes))
	for i := range sb.Scenes {
		s := &sb.Scenes[i]
		field := fmt.Sprintf("scenes[%d]", i)
		if s.ID == "" {
			return &ValidationError{field + ".id", "must not be empty"}
		}
		if seen[s.ID] {
			return &ValidationError{field + ".id", fmt.Sprintf("duplicate scene id %q", s.ID)}
		}
		seen[s.ID] = true
		if s.Type == "" {
			return &ValidationError{field + ".type", "must not be empty"}
		}
		if s.AudioDurationSeconds <= 0 {
			return &ValidationError{field + ".audio_duration_seconds", fmt.Sprintf("must be positive, got %g", s.AudioDurationSeconds)}
		}
		if s.BufferSeconds != nil && *s.BufferSeconds < 0 {
			return &ValidationError{field + ".buffer_seconds", "must not be negative"}
		}

		sceneFrames := int(math.Ceil((s.AudioDurationSeconds + sb.SceneBuffer(s)) * float64(sb.Video.FPS)))
		for j, cue := range s.SFXCues {
			cueField := fmt.Sprintf("%s.sfx_cues[%d]", field, j)
			if cue.Sound == "" {
				return &ValidationError{cueField + ".sound", "must not be empty"}
			}
			if cue.Frame < 0 {
				return &ValidationError{cueField + ".frame", fmt.Sprintf("must not be negative, got %d", cue.Frame)}
			}
			if cue.Frame >= sceneFrames {
				return &ValidationError{cueField + ".frame", fmt.Sprintf("frame %d is past the end of the scene (%d frames)", cue.Frame, sceneFrames)}
			}
			if cue.DurationFrames < 0 {
				return &ValidationError{cueField + ".duration_frames", "must not be negative"}
			}
		}
	}
	return nil
}

// normalize clamps volumes into range and warns about declared-total drift.
// Only called on a storyboard that already passed Validate.
func (sb *Storyboard) normalize() {
	if m := sb.Audio.BackgroundMusic; m != nil {
		m.Volume = clamp01(m.Volume)
	}
	scheduled := 0.0
	for i := range sb.Scenes {
		s := &sb.Scenes[i]
		scheduled += s.AudioDurationSeconds + sb.SceneBuffer(s)
		for j := range s.SFXCues {
			if v := s.SFXCues[j].Volume; v != VolumeUnset {
				s.SFXCues[j].Volume = clamp01(v)
			}
		}
	}
	if sb.TotalDurationSeconds > 0 {
		if drift := math.Abs(sb.TotalDurationSeconds - scheduled); drift > totalDriftToleranceSeconds {
			log.Printf("[!] Declared total duration %.2fs differs from scheduled %.2fs by %.2fs",
				sb.TotalDurationSeconds, scheduled, drift)
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
