// Package words resolves phrases against a scene's word-level speech
// timestamps, giving renderables frame-accurate cue points synchronized
// to the narration. Lookups are fail-soft: a phrase that never made it
// into the transcript must not abort an unattended render, so a miss is
// logged and anchored at frame 0.
package words

import (
	"log"
	"math"
	"strings"

	"github.com/ivlev/board2video/internal/storyboard"
)

// Resolver answers phrase queries for one scene's transcript.
type Resolver struct {
	words      []storyboard.WordTimestamp
	normalized []string
	fps        int
}

// NewResolver builds a resolver over a scene-local, ordered word list.
func NewResolver(list []storyboard.WordTimestamp, fps int) *Resolver {
	r := &Resolver{
		words:      list,
		normalized: make([]string, len(list)),
		fps:        fps,
	}
	for i, w := range list {
		r.normalized[i] = normalizeWord(w.Word)
	}
	return r
}

// Match locates a phrase occurrence in the transcript.
type Match struct {
	Found        bool
	StartSeconds float64
	EndSeconds   float64
	StartFrame   int
	EndFrame     int
}

// Phrase finds the Nth occurrence (1-indexed) of a phrase and returns the
// span from its first word's start to its last word's end. Matching is
// case-insensitive and ignores trailing punctuation on both sides. A miss
// returns a zero Match with Found false, never an error.
func (r *Resolver) Phrase(phrase string, occurrence int) Match {
	tokens := tokenize(phrase)
	if len(tokens) == 0 || occurrence < 1 {
		log.Printf("[!] Empty phrase query %q; defaulting to frame 0", phrase)
		return Match{}
	}

	seen := 0
	for i := 0; i+len(tokens) <= len(r.words); i++ {
		if !r.matchAt(i, tokens) {
			continue
		}
		seen++
		if seen < occurrence {
			continue
		}
		first := r.words[i]
		last := r.words[i+len(tokens)-1]
		return Match{
			Found:        true,
			StartSeconds: first.StartSeconds,
			EndSeconds:   last.EndSeconds,
			StartFrame:   r.Frame(first.StartSeconds),
			EndFrame:     r.Frame(last.EndSeconds),
		}
	}

	log.Printf("[!] Phrase %q (occurrence %d) not found in transcript; defaulting to frame 0", phrase, occurrence)
	return Match{}
}

// StartFrame returns the frame at which the phrase's first word begins,
// or 0 when the phrase is absent.
func (r *Resolver) StartFrame(phrase string, occurrence int) int {
	return r.Phrase(phrase, occurrence).StartFrame
}

// EndFrame returns the frame at which the phrase's last word ends, or 0
// when the phrase is absent.
func (r *Resolver) EndFrame(phrase string, occurrence int) int {
	return r.Phrase(phrase, occurrence).EndFrame
}

// Frame converts a scene-local time to the nearest frame.
func (r *Resolver) Frame(seconds float64) int {
	return int(math.Round(seconds * float64(r.fps)))
}

func (r *Resolver) matchAt(i int, tokens []string) bool {
	for j, tok := range tokens {
		if r.normalized[i+j] != tok {
			return false
		}
	}
	return true
}

func tokenize(phrase string) []string {
	fields := strings.Fields(phrase)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if n := normalizeWord(f); n != "" {
			tokens = append(tokens, n)
		}
	}
	return tokens
}

func normalizeWord(w string) string {
	w = strings.ToLower(strings.TrimSpace(w))
	return strings.TrimRight(w, ".,!?;:'\"”’)]…")
}
