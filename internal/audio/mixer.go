// Package audio computes per-frame volume state for the three track kinds
// of a composition: voiceover, sound cues and background music. It only
// answers "how loud is each source at frame F"; summing the sources is
// the rendering host's job.
package audio

import (
	"math"
	"path/filepath"

	"github.com/ivlev/board2video/internal/ease"
	"github.com/ivlev/board2video/internal/schedule"
)

// TrackKind identifies which mix bus a level belongs to.
type TrackKind int

const (
	KindVoiceover TrackKind = iota
	KindSFX
	KindMusic
)

func (k TrackKind) String() string {
	switch k {
	case KindVoiceover:
		return "voiceover"
	case KindSFX:
		return "sfx"
	case KindMusic:
		return "music"
	}
	return "unknown"
}

// TrackLevel is one audible source at a queried frame.
type TrackLevel struct {
	Source string    `json:"source"`
	Kind   TrackKind `json:"kind"`
	Volume float64   `json:"volume"`
	// SourceFrame is the frame offset into the source file, already
	// wrapped for looping tracks when the loop length is known.
	SourceFrame int `json:"source_frame"`
}

// Mixer holds the envelope settings shared by every frame query.
type Mixer struct {
	// SFXCeiling caps cue volumes so effects stay under narration level.
	SFXCeiling float64
	// MusicFadeInSeconds and MusicFadeOutSeconds are the fixed fade
	// windows at the ends of the composition.
	MusicFadeInSeconds  float64
	MusicFadeOutSeconds float64
	// MusicFrames is the background track length in frames, when known.
	// Zero means unknown; SourceFrame is then left unwrapped.
	MusicFrames int
}

// NewMixer returns a mixer with the standard envelope settings.
func NewMixer() *Mixer {
	return &Mixer{
		SFXCeiling:          DefaultSFXCeiling,
		MusicFadeInSeconds:  2.0,
		MusicFadeOutSeconds: 3.0,
	}
}

// Levels reports every audible source at the queried global frame, in
// voiceover, SFX, music order. Frames outside [0, total) yield nothing.
func (m *Mixer) Levels(tl *schedule.Timeline, frame int) []TrackLevel {
	if tl.TotalFrames == 0 || frame < 0 || frame >= tl.TotalFrames {
		return nil
	}

	var levels []TrackLevel

	sc, local, ok := tl.Active(frame)
	if ok {
		if local < sc.AudioFrames {
			levels = append(levels, TrackLevel{
				Source:      voiceoverPath(tl, sc.Scene.AudioFile),
				Kind:        KindVoiceover,
				Volume:      1.0,
				SourceFrame: local,
			})
		}
		for _, cue := range sc.Scene.SFXCues {
			end := cue.Frame + m.cueFrames(tl.FPS, cue.DurationFrames)
			if end > sc.DurationFrames {
				end = sc.DurationFrames
			}
			if local < cue.Frame || local >= end {
				continue
			}
			levels = append(levels, TrackLevel{
				Source:      cue.Sound,
				Kind:        KindSFX,
				Volume:      m.cueVolume(cue.Sound, cue.Volume),
				SourceFrame: local - cue.Frame,
			})
		}
	}

	if music := tl.Board.Audio.BackgroundMusic; music != nil {
		vol := m.MusicVolume(frame, tl.TotalFrames, tl.FPS, music.Volume)
		levels = append(levels, TrackLevel{
			Source:      music.Path,
			Kind:        KindMusic,
			Volume:      vol,
			SourceFrame: LoopFrame(m.MusicFrames, frame),
		})
	}
	return levels
}

// MusicVolume computes the background-music level at a global frame:
// min(fadeIn, fadeOut) envelopes times the configured volume. Each
// envelope is a cubic ease clamped to [0,1], so totals shorter than the
// combined fade windows still yield a value in [0, configured].
func (m *Mixer) MusicVolume(frame, totalFrames, fps int, configured float64) float64 {
	if totalFrames <= 0 {
		return 0
	}
	fadeIn := schedule.FramesFor(m.MusicFadeInSeconds, fps)
	fadeOut := schedule.FramesFor(m.MusicFadeOutSeconds, fps)

	in := 1.0
	if fadeIn > 0 {
		in = ease.OutCubic(ease.Clamp01(float64(frame) / float64(fadeIn)))
	}
	out := 1.0
	if fadeOut > 0 {
		out = ease.OutCubic(ease.Clamp01(float64(totalFrames-frame) / float64(fadeOut)))
	}
	return math.Min(in, out) * ease.Clamp01(configured)
}

// LoopFrame wraps a composition frame into a looping track of trackFrames
// length. Unknown lengths pass through unwrapped.
func LoopFrame(trackFrames, frame int) int {
	if trackFrames <= 0 {
		return frame
	}
	return frame % trackFrames
}

// cueFrames resolves a cue's playback length, substituting one second for
// cues that do not declare one.
func (m *Mixer) cueFrames(fps, declared int) int {
	if declared > 0 {
		return declared
	}
	return fps
}

func (m *Mixer) cueVolume(sound string, declared float64) float64 {
	v := declared
	if v < 0 {
		v = DefaultCueVolume(sound)
	}
	return ease.Clamp(v, 0, m.SFXCeiling)
}

func voiceoverPath(tl *schedule.Timeline, audioFile string) string {
	if audioFile == "" || filepath.IsAbs(audioFile) {
		return audioFile
	}
	return filepath.Join(tl.Board.Audio.VoiceoverDir, audioFile)
}
