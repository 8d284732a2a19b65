package words

import (
	"testing"

	"github.com/ivlev/board2video/internal/storyboard"
)

func testWords() []storyboard.WordTimestamp {
	return []storyboard.WordTimestamp{
		{Word: "The", StartSeconds: 0.1, EndSeconds: 0.3},
		{Word: "key", StartSeconds: 0.3, EndSeconds: 0.6},
		{Word: "insight", StartSeconds: 0.6, EndSeconds: 1.1},
		{Word: "is", StartSeconds: 1.1, EndSeconds: 1.2},
		{Word: "simple:", StartSeconds: 1.2, EndSeconds: 1.7},
		{Word: "the", StartSeconds: 2.0, EndSeconds: 2.1},
		{Word: "key", StartSeconds: 2.1, EndSeconds: 2.4},
		{Word: "unlocks", StartSeconds: 2.4, EndSeconds: 2.9},
		{Word: "everything.", StartSeconds: 2.9, EndSeconds: 3.5},
		{Word: "One", StartSeconds: 10.0, EndSeconds: 10.4},
		{Word: "final", StartSeconds: 10.4, EndSeconds: 10.9},
		{Word: "insight.", StartSeconds: 12.3, EndSeconds: 12.9},
	}
}

func TestPhraseEndFrame(t *testing.T) {
	r := NewResolver([]storyboard.WordTimestamp{
		{Word: "insight.", StartSeconds: 12.3, EndSeconds: 12.9},
	}, 30)

	if got := r.EndFrame("insight.", 1); got != 387 {
		t.Errorf("EndFrame(insight.) = %d, expected 387", got)
	}
}

func TestPhraseMatching(t *testing.T) {
	r := NewResolver(testWords(), 30)

	tests := []struct {
		phrase     string
		occurrence int
		startSec   float64
		endSec     float64
	}{
		{"key", 1, 0.3, 0.6},
		{"key", 2, 2.1, 2.4},
		{"KEY", 1, 0.3, 0.6},             // case-insensitive
		{"insight", 2, 12.3, 12.9},       // trailing punctuation on transcript side
		{"insight.", 1, 0.6, 1.1},        // trailing punctuation on query side
		{"the key insight", 1, 0.1, 1.1}, // multi-word span
		{"the key", 2, 2.0, 2.4},
	}
	for _, test := range tests {
		m := r.Phrase(test.phrase, test.occurrence)
		if !m.Found {
			t.Errorf("Phrase(%q, %d) not found", test.phrase, test.occurrence)
			continue
		}
		if m.StartSeconds != test.startSec || m.EndSeconds != test.endSec {
			t.Errorf("Phrase(%q, %d) = [%.2f,%.2f], expected [%.2f,%.2f]",
				test.phrase, test.occurrence, m.StartSeconds, m.EndSeconds, test.startSec, test.endSec)
		}
	}
}

func TestPhraseMissFailSoft(t *testing.T) {
	r := NewResolver(testWords(), 30)

	tests := []struct {
		phrase     string
		occurrence int
	}{
		{"nonexistent", 1},
		{"key", 3}, // only two occurrences
		{"key insight unlocks", 1},
		{"", 1},
		{"key", 0}, // occurrences are 1-indexed
	}
	for _, test := range tests {
		m := r.Phrase(test.phrase, test.occurrence)
		if m.Found {
			t.Errorf("Phrase(%q, %d) unexpectedly found", test.phrase, test.occurrence)
		}
		if m.StartFrame != 0 || m.EndFrame != 0 {
			t.Errorf("Phrase(%q, %d) miss should anchor at frame 0, got [%d,%d]",
				test.phrase, test.occurrence, m.StartFrame, m.EndFrame)
		}
	}
}

func TestPhraseOnEmptyTranscript(t *testing.T) {
	r := NewResolver(nil, 30)
	if m := r.Phrase("anything", 1); m.Found || m.StartFrame != 0 {
		t.Errorf("Empty transcript should miss at frame 0, got %+v", m)
	}
}

func TestSpan(t *testing.T) {
	r := NewResolver(testWords(), 30)

	span := r.Span("key", 1, "everything", 1)
	if span.StartFrame != 9 { // 0.3s * 30
		t.Errorf("Span start = %d, expected 9", span.StartFrame)
	}
	if span.EndFrame != 105 { // 3.5s * 30
		t.Errorf("Span end = %d, expected 105", span.EndFrame)
	}
}
