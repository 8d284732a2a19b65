package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveBuiltinProfiles(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"16:9", 1280, 720},
		{"9:16", 720, 1280},
		{"4:5", 1080, 1350},
	}
	for _, test := range tests {
		p, err := ResolveProfile(test.name)
		if err != nil {
			t.Errorf("ResolveProfile(%q): %v", test.name, err)
			continue
		}
		if p.Width != test.width || p.Height != test.height {
			t.Errorf("Profile %q = %dx%d, expected %dx%d", test.name, p.Width, p.Height, test.width, test.height)
		}
	}
}

func TestProfileFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shorts.yaml")

	saved := Profile{Name: "shorts", Width: 720, Height: 1280, FPS: 60, Encoder: "libx264", Quality: 20}
	if err := WriteProfile(saved, path); err != nil {
		t.Fatalf("WriteProfile: %v", err)
	}

	p, err := ResolveProfile(path)
	if err != nil {
		t.Fatalf("ResolveProfile: %v", err)
	}
	if p != saved {
		t.Errorf("Round trip changed the profile: %+v vs %+v", p, saved)
	}
}

func TestReadProfileRejectsBadGeometry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("name: bad\nwidth: 0\nheight: 720\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadProfile(path); err == nil {
		t.Error("Expected an error for zero width")
	}
}

func TestProfileApply(t *testing.T) {
	cfg := &Config{Width: 1280, Height: 720, VideoEncoder: "libx264", Quality: 23}

	// Partial profile: only geometry set; encoder settings untouched.
	Profile{Width: 1080, Height: 1350}.Apply(cfg)

	if cfg.Width != 1080 || cfg.Height != 1350 {
		t.Errorf("Geometry not applied: %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.VideoEncoder != "libx264" || cfg.Quality != 23 {
		t.Errorf("Zero-valued profile fields overwrote the config: %+v", cfg)
	}
}
