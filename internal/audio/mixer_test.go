package audio

import (
	"math"
	"testing"

	"github.com/ivlev/board2video/internal/schedule"
	"github.com/ivlev/board2video/internal/storyboard"
)

func timeline(t *testing.T, sb *storyboard.Storyboard) *schedule.Timeline {
	t.Helper()
	tl, err := schedule.Build(sb)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tl
}

func musicBoard(totalSeconds, volume float64) *storyboard.Storyboard {
	return &storyboard.Storyboard{
		Video: storyboard.VideoConfig{Width: 1280, Height: 720, FPS: 30},
		Scenes: []storyboard.Scene{
			{ID: "only", Type: "core/title", AudioDurationSeconds: totalSeconds},
		},
		Audio: storyboard.AudioConfig{
			BackgroundMusic: &storyboard.BackgroundMusic{Path: "score.mp3", Volume: volume},
		},
	}
}

func musicLevel(levels []TrackLevel) (TrackLevel, bool) {
	for _, l := range levels {
		if l.Kind == KindMusic {
			return l, true
		}
	}
	return TrackLevel{}, false
}

func TestMusicEnvelope(t *testing.T) {
	// 10s total, volume 0.15, fade in 2s, fade out 3s at 30 FPS.
	m := NewMixer()
	tl := timeline(t, musicBoard(10, 0.15))

	tests := []struct {
		frame    int
		expected float64
		tol      float64
	}{
		{0, 0, 1e-9},
		{150, 0.15, 1e-9}, // middle: both envelopes at full
		{299, 0, 0.01},    // last frame, deep in the fade-out
	}
	for _, test := range tests {
		level, ok := musicLevel(m.Levels(tl, test.frame))
		if !ok {
			t.Fatalf("No music level at frame %d", test.frame)
		}
		if math.Abs(level.Volume-test.expected) > test.tol {
			t.Errorf("Frame %d: music volume %f, expected %f", test.frame, level.Volume, test.expected)
		}
	}
}

func TestMusicEnvelopeBounded(t *testing.T) {
	m := NewMixer()
	tl := timeline(t, musicBoard(10, 0.15))

	prev := -1.0
	for f := 0; f < tl.TotalFrames; f++ {
		level, ok := musicLevel(m.Levels(tl, f))
		if !ok {
			t.Fatalf("No music level at frame %d", f)
		}
		if level.Volume < 0 || level.Volume > 0.15 {
			t.Fatalf("Frame %d: music volume %f outside [0,0.15]", f, level.Volume)
		}
		// Continuity: one frame never jumps more than a fade step.
		if prev >= 0 && math.Abs(level.Volume-prev) > 0.01 {
			t.Fatalf("Frame %d: music volume jumped %f -> %f", f, prev, level.Volume)
		}
		prev = level.Volume
	}
}

func TestMusicDegenerateTotal(t *testing.T) {
	// 2s total is shorter than the combined 5s of fade windows; the
	// clamped envelopes must still combine to a value in range.
	m := NewMixer()
	tl := timeline(t, musicBoard(2, 0.2))

	for f := 0; f < tl.TotalFrames; f++ {
		level, ok := musicLevel(m.Levels(tl, f))
		if !ok {
			t.Fatalf("No music level at frame %d", f)
		}
		if level.Volume < 0 || level.Volume > 0.2 {
			t.Fatalf("Frame %d: degenerate envelope produced %f", f, level.Volume)
		}
	}
}

func TestVoiceoverWindow(t *testing.T) {
	sb := &storyboard.Storyboard{
		Video: storyboard.VideoConfig{Width: 1280, Height: 720, FPS: 30},
		Scenes: []storyboard.Scene{
			{ID: "a", Type: "core/title", AudioFile: "a.mp3", AudioDurationSeconds: 2},
		},
		Audio: storyboard.AudioConfig{
			VoiceoverDir:               "voiceover",
			BufferBetweenScenesSeconds: 1,
		},
	}
	m := NewMixer()
	tl := timeline(t, sb)

	// Inside the audio window: full narration volume.
	levels := m.Levels(tl, 30)
	if len(levels) != 1 || levels[0].Kind != KindVoiceover {
		t.Fatalf("Expected a single voiceover level, got %+v", levels)
	}
	if levels[0].Volume != 1.0 {
		t.Errorf("Voiceover volume %f, expected 1.0", levels[0].Volume)
	}
	if levels[0].Source != "voiceover/a.mp3" {
		t.Errorf("Voiceover source %q, expected voiceover/a.mp3", levels[0].Source)
	}
	if levels[0].SourceFrame != 30 {
		t.Errorf("Voiceover source frame %d, expected 30", levels[0].SourceFrame)
	}

	// Inside the buffer: silence.
	if levels := m.Levels(tl, 70); len(levels) != 0 {
		t.Errorf("Expected silence in the buffer, got %+v", levels)
	}

	// Outside the composition: nothing.
	if levels := m.Levels(tl, tl.TotalFrames); levels != nil {
		t.Errorf("Expected nil past the end, got %+v", levels)
	}
}

func TestSFXCueWindowAndCeiling(t *testing.T) {
	sb := &storyboard.Storyboard{
		Video: storyboard.VideoConfig{Width: 1280, Height: 720, FPS: 30},
		Scenes: []storyboard.Scene{
			{
				ID: "a", Type: "core/title", AudioDurationSeconds: 5,
				SFXCues: []storyboard.SFXCue{
					{Sound: "reveal_hit", Frame: 60, Volume: 0.9, DurationFrames: 15},
					{Sound: "ui_pop", Frame: 100, Volume: storyboard.VolumeUnset},
				},
			},
		},
	}
	m := NewMixer()
	tl := timeline(t, sb)

	sfxAt := func(frame int) []TrackLevel {
		var out []TrackLevel
		for _, l := range m.Levels(tl, frame) {
			if l.Kind == KindSFX {
				out = append(out, l)
			}
		}
		return out
	}

	if got := sfxAt(59); len(got) != 0 {
		t.Errorf("Cue audible before its frame: %+v", got)
	}
	got := sfxAt(60)
	if len(got) != 1 {
		t.Fatalf("Expected one cue at frame 60, got %+v", got)
	}
	// 0.9 requested, clamped to the safety ceiling.
	if got[0].Volume != DefaultSFXCeiling {
		t.Errorf("Cue volume %f, expected ceiling %f", got[0].Volume, DefaultSFXCeiling)
	}
	if len(sfxAt(75)) != 0 {
		t.Error("Cue still audible past its duration")
	}

	// Unset volume falls back to the library default; unset duration is
	// one second.
	got = sfxAt(100)
	if len(got) != 1 {
		t.Fatalf("Expected one cue at frame 100, got %+v", got)
	}
	if got[0].Volume != 0.08 {
		t.Errorf("Default ui_pop volume %f, expected 0.08", got[0].Volume)
	}
	if len(sfxAt(129)) != 1 || len(sfxAt(130)) != 0 {
		t.Error("Default cue duration should be one second")
	}
}

func TestSFXWindowClampedToScene(t *testing.T) {
	sb := &storyboard.Storyboard{
		Video: storyboard.VideoConfig{Width: 1280, Height: 720, FPS: 30},
		Scenes: []storyboard.Scene{
			{
				ID: "a", Type: "core/title", AudioDurationSeconds: 2,
				SFXCues: []storyboard.SFXCue{
					// Declared window runs past the scene end.
					{Sound: "data_flow", Frame: 50, Volume: 0.1, DurationFrames: 600},
				},
			},
			{ID: "b", Type: "core/title", AudioDurationSeconds: 2},
		},
	}
	m := NewMixer()
	tl := timeline(t, sb)

	sceneEnd := tl.Scenes[0].EndFrame()
	for _, l := range m.Levels(tl, sceneEnd) {
		if l.Kind == KindSFX {
			t.Errorf("Cue from scene a leaked into scene b: %+v", l)
		}
	}
	found := false
	for _, l := range m.Levels(tl, sceneEnd-1) {
		if l.Kind == KindSFX {
			found = true
		}
	}
	if !found {
		t.Error("Cue should still sound on its scene's last frame")
	}
}

func TestLoopFrame(t *testing.T) {
	tests := []struct {
		trackFrames, frame, expected int
	}{
		{100, 0, 0},
		{100, 99, 99},
		{100, 100, 0},
		{100, 250, 50},
		{0, 250, 250}, // unknown length passes through
	}
	for _, test := range tests {
		if got := LoopFrame(test.trackFrames, test.frame); got != test.expected {
			t.Errorf("LoopFrame(%d, %d) = %d, expected %d", test.trackFrames, test.frame, got, test.expected)
		}
	}
}

func TestScaledCueVolume(t *testing.T) {
	if v := ScaledCueVolume("reveal_hit", 0); math.Abs(v-0.12*0.7) > 1e-9 {
		t.Errorf("Zero intensity = %f, expected %f", v, 0.12*0.7)
	}
	if v := ScaledCueVolume("reveal_hit", 1); math.Abs(v-0.12) > 1e-9 {
		t.Errorf("Full intensity reveal_hit = %f, expected 0.12", v)
	}
	if v := ScaledCueVolume("nonexistent", 0.5); v <= 0 || v > DefaultSFXCeiling {
		t.Errorf("Unknown sound volume %f out of range", v)
	}
}
