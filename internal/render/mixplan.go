package render

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/ivlev/board2video/internal/audio"
	"github.com/ivlev/board2video/internal/compose"
	"github.com/ivlev/board2video/internal/schedule"
	"github.com/ivlev/board2video/internal/system"
)

// MixPlanEntry records the audible sources from a frame onward. Entries
// are emitted only when the level set changes, so the plan stays compact
// outside fade windows.
type MixPlanEntry struct {
	Frame  int                `json:"frame"`
	Tracks []audio.TrackLevel `json:"tracks"`
}

// WriteMixPlan walks the frame range and writes the per-frame track
// levels as JSON lines, for the host that performs the actual summing.
// When the background track is probeable its loop length is resolved
// first so source offsets come out wrapped.
func WriteMixPlan(path string, eval *compose.Evaluator, from, to int) error {
	if to <= 0 || to > eval.TotalFrames() {
		to = eval.TotalFrames()
	}
	if from < 0 || from >= to {
		return fmt.Errorf("invalid mix-plan range [%d,%d)", from, to)
	}

	resolveMusicLength(eval)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mix plan: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)

	var prev []audio.TrackLevel
	entries := 0
	for frame := from; frame < to; frame++ {
		levels := eval.Mixer.Levels(eval.Timeline, frame)
		if frame > from && sameLevels(prev, levels) {
			continue
		}
		if err := enc.Encode(MixPlanEntry{Frame: frame, Tracks: levels}); err != nil {
			return err
		}
		prev = levels
		entries++
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("[*] Mix plan written: %s (%d entries over %d frames)\n", path, entries, to-from)
	return nil
}

func resolveMusicLength(eval *compose.Evaluator) {
	music := eval.Board.Audio.BackgroundMusic
	if music == nil || eval.Mixer.MusicFrames > 0 {
		return
	}
	dur, err := system.GetAudioDuration(music.Path)
	if err != nil {
		fmt.Printf("[!] Could not probe music length (%v); loop offsets left unwrapped\n", err)
		return
	}
	eval.Mixer.MusicFrames = schedule.FramesFor(dur, eval.Timeline.FPS)
}

// sameLevels reports whether the level set is unchanged apart from the
// steady per-frame advance of source offsets.
func sameLevels(prev, cur []audio.TrackLevel) bool {
	if len(prev) != len(cur) {
		return false
	}
	for i := range cur {
		p, c := prev[i], cur[i]
		if p.Source != c.Source || p.Kind != c.Kind {
			return false
		}
		if math.Abs(p.Volume-c.Volume) > 1e-4 {
			return false
		}
		if c.SourceFrame != p.SourceFrame+1 && c.SourceFrame != 0 {
			return false
		}
	}
	return true
}
