package words

import (
	"math"
	"testing"

	"github.com/ivlev/board2video/internal/ease"
)

func TestInterpInsideSpan(t *testing.T) {
	span := Span{StartFrame: 100, EndFrame: 200}
	in := Interp{From: 0, To: 50}

	tests := []struct {
		frame    int
		expected float64
	}{
		{100, 0},
		{150, 25},
		{200, 50},
	}
	for _, test := range tests {
		if got := in.At(span, test.frame); math.Abs(got-test.expected) > 1e-9 {
			t.Errorf("At(%d) = %f, expected %f", test.frame, got, test.expected)
		}
	}
}

func TestInterpEased(t *testing.T) {
	span := Span{StartFrame: 0, EndFrame: 100}
	in := Interp{From: 0, To: 1, Ease: ease.OutCubic}

	got := in.At(span, 50)
	expected := ease.OutCubic(0.5) // 0.875
	if math.Abs(got-expected) > 1e-9 {
		t.Errorf("Eased midpoint = %f, expected %f", got, expected)
	}
}

func TestInterpExtrapolation(t *testing.T) {
	span := Span{StartFrame: 100, EndFrame: 200}

	tests := []struct {
		name     string
		in       Interp
		frame    int
		expected float64
	}{
		{"clamp before", Interp{From: 10, To: 20, Before: Clamp}, 50, 10},
		{"clamp after", Interp{From: 10, To: 20, After: Clamp}, 250, 20},
		{"extend before", Interp{From: 10, To: 20, Before: Extend}, 50, 5},
		{"extend after", Interp{From: 10, To: 20, After: Extend}, 250, 25},
		{"hold before", Interp{From: 10, To: 20, Before: Hold}, 50, 10},
		{"hold after snaps back", Interp{From: 10, To: 20, After: Hold}, 250, 10},
	}
	for _, test := range tests {
		if got := test.in.At(span, test.frame); math.Abs(got-test.expected) > 1e-9 {
			t.Errorf("%s: At(%d) = %f, expected %f", test.name, test.frame, got, test.expected)
		}
	}
}

func TestInterpDegenerateSpan(t *testing.T) {
	// A missed phrase anchors both ends at 0, giving a zero-width span.
	span := Span{StartFrame: 0, EndFrame: 0}
	in := Interp{From: 3, To: 7}

	if got := in.At(span, 0); got != 7 {
		t.Errorf("At span start = %f, expected target value 7", got)
	}
	if got := in.At(span, 500); got != 7 {
		t.Errorf("Past degenerate span = %f, expected 7", got)
	}
	if got := in.At(Span{StartFrame: 50, EndFrame: 50}, 10); got != 3 {
		t.Errorf("Before degenerate span = %f, expected 3", got)
	}
}
