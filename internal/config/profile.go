package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is a reusable output preset: geometry, rate and encoder
// settings kept in a YAML file next to the project.
type Profile struct {
	Name    string `yaml:"name"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	FPS     int    `yaml:"fps,omitempty"`
	Encoder string `yaml:"encoder,omitempty"`
	Quality int    `yaml:"quality,omitempty"`
}

// BuiltinProfiles are the aspect presets accepted by -profile without a
// file on disk.
var BuiltinProfiles = map[string]Profile{
	"16:9": {Name: "16:9", Width: 1280, Height: 720},
	"9:16": {Name: "9:16", Width: 720, Height: 1280},
	"4:5":  {Name: "4:5", Width: 1080, Height: 1350},
}

// ResolveProfile interprets the -profile argument: a builtin preset name
// or a path to a YAML profile file.
func ResolveProfile(nameOrPath string) (Profile, error) {
	if p, ok := BuiltinProfiles[nameOrPath]; ok {
		return p, nil
	}
	return ReadProfile(nameOrPath)
}

// ReadProfile reads a profile from a YAML file.
func ReadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return Profile{}, fmt.Errorf("profile %s: dimensions must be positive, got %dx%d", path, p.Width, p.Height)
	}
	return p, nil
}

// WriteProfile saves a profile to a YAML file.
func WriteProfile(p Profile, path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Apply copies the profile's settings onto a render config. Zero-valued
// profile fields leave the config untouched.
func (p Profile) Apply(cfg *Config) {
	if p.Width > 0 {
		cfg.Width = p.Width
	}
	if p.Height > 0 {
		cfg.Height = p.Height
	}
	if p.FPS > 0 {
		cfg.FPS = p.FPS
	}
	if p.Encoder != "" {
		cfg.VideoEncoder = p.Encoder
	}
	if p.Quality > 0 {
		cfg.Quality = p.Quality
	}
}
