package storyboard

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WordTimestampFile returns the path of the word-timestamp artifact the
// speech synthesis stage writes next to a scene's voiceover file.
func WordTimestampFile(voiceoverDir, sceneID string) string {
	return filepath.Join(voiceoverDir, sceneID+".words.json")
}

// ReadWordTimestamps loads the ordered, scene-local word list for one
// scene. The sequence must be non-decreasing with end > start per word.
func ReadWordTimestamps(voiceoverDir, sceneID string) ([]WordTimestamp, error) {
	path := WordTimestampFile(voiceoverDir, sceneID)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read word timestamps: %w", err)
	}

	var words []WordTimestamp
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("parse word timestamps %s: %w", path, err)
	}

	prev := 0.0
	for i, w := range words {
		if w.EndSeconds <= w.StartSeconds {
			return nil, fmt.Errorf("word timestamps %s: word %d (%q) has end %.3f <= start %.3f",
				path, i, w.Word, w.EndSeconds, w.StartSeconds)
		}
		if w.StartSeconds < prev {
			return nil, fmt.Errorf("word timestamps %s: word %d (%q) starts at %.3f, before previous word at %.3f",
				path, i, w.Word, w.StartSeconds, prev)
		}
		prev = w.StartSeconds
	}
	return words, nil
}
