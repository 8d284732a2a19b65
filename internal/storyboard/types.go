// Package storyboard holds the validated, immutable in-memory form of the
// storyboard document that describes a composition. A model is built once
// per render invocation and never mutated afterwards.
package storyboard

import "encoding/json"

// VolumeUnset marks an SFX cue whose volume was omitted in the document.
// The mixer substitutes a per-sound default for it.
const VolumeUnset = -1.0

// DefaultMusicVolume is used when background music is declared without an
// explicit volume.
const DefaultMusicVolume = 0.1

// Storyboard is the full declarative description of one video.
type Storyboard struct {
	Title                string      `json:"title"`
	Video                VideoConfig `json:"video"`
	Style                StyleConfig `json:"style"`
	Scenes               []Scene     `json:"scenes"`
	Audio                AudioConfig `json:"audio"`
	TotalDurationSeconds float64     `json:"total_duration_seconds,omitempty"`
}

// VideoConfig carries output geometry and frame rate.
type VideoConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	FPS    int `json:"fps"`
}

// StyleConfig carries the shared visual theme passed to every renderable.
type StyleConfig struct {
	BackgroundColor string `json:"backgroundColor"`
	PrimaryColor    string `json:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor"`
	AccentColor     string `json:"accentColor"`
	FontFamily      string `json:"fontFamily"`
}

// Scene is a timed unit of the final video tied to one speech track.
type Scene struct {
	ID                   string         `json:"id"`
	Type                 string         `json:"type"`
	Title                string         `json:"title"`
	AudioFile            string         `json:"audio_file"`
	AudioDurationSeconds float64        `json:"audio_duration_seconds"`
	BufferSeconds        *float64       `json:"buffer_seconds,omitempty"`
	SFXCues              []SFXCue       `json:"sfx_cues,omitempty"`
	Props                map[string]any `json:"props,omitempty"`
}

// SFXCue is a frame-accurate sound cue relative to its scene start.
type SFXCue struct {
	Sound          string  `json:"sound"`
	Frame          int     `json:"frame"`
	Volume         float64 `json:"volume"`
	DurationFrames int     `json:"duration_frames,omitempty"`
}

// UnmarshalJSON keeps the omitted-volume case distinguishable from an
// explicit zero.
func (c *SFXCue) UnmarshalJSON(data []byte) error {
	type alias SFXCue
	tmp := alias{Volume: VolumeUnset}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*c = SFXCue(tmp)
	return nil
}

// AudioConfig groups the audio-side settings of a storyboard.
type AudioConfig struct {
	VoiceoverDir               string           `json:"voiceover_dir"`
	BufferBetweenScenesSeconds float64          `json:"buffer_between_scenes_seconds"`
	BackgroundMusic            *BackgroundMusic `json:"background_music,omitempty"`
}

// BackgroundMusic declares a looping score spanning the whole composition.
type BackgroundMusic struct {
	Path   string  `json:"path"`
	Volume float64 `json:"volume"`
}

func (m *BackgroundMusic) UnmarshalJSON(data []byte) error {
	type alias BackgroundMusic
	tmp := alias{Volume: DefaultMusicVolume}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*m = BackgroundMusic(tmp)
	return nil
}

// WordTimestamp is one spoken word with scene-local timing.
type WordTimestamp struct {
	Word         string  `json:"word"`
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
}

// SceneBuffer returns the inter-scene buffer applying to s: the per-scene
// override when present, the storyboard-wide value otherwise.
func (sb *Storyboard) SceneBuffer(s *Scene) float64 {
	if s.BufferSeconds != nil {
		return *s.BufferSeconds
	}
	return sb.Audio.BufferBetweenScenesSeconds
}
