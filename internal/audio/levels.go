package audio

// DefaultSFXCeiling keeps sound cues well under narration level.
const DefaultSFXCeiling = 0.15

// defaultCueVolumes maps library sound names to their mixing levels.
// Reveal hits and counters carry the mix; UI ticks stay near-subliminal.
var defaultCueVolumes = map[string]float64{
	"ui_pop":            0.08,
	"text_tick":         0.05,
	"reveal_hit":        0.12,
	"counter_sweep":     0.10,
	"transition_whoosh": 0.08,
	"warning_tone":      0.10,
	"success_tone":      0.10,
	"lock_click":        0.08,
	"data_flow":         0.08,
}

// fallbackCueVolume applies to sounds outside the library table.
const fallbackCueVolume = 0.08

// DefaultCueVolume returns the mixing level for a cue that declared no
// volume of its own.
func DefaultCueVolume(sound string) float64 {
	if v, ok := defaultCueVolumes[sound]; ok {
		return v
	}
	return fallbackCueVolume
}

// ScaledCueVolume adjusts a sound's base level by an intensity in [0,1]:
// 70% of base at zero intensity up to full level at one, capped at the
// SFX ceiling.
func ScaledCueVolume(sound string, intensity float64) float64 {
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	v := DefaultCueVolume(sound) * (0.7 + 0.3*intensity)
	if v > DefaultSFXCeiling {
		v = DefaultSFXCeiling
	}
	return v
}
