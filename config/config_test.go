package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadMissingFile tests a missing config file returns the defaults
func TestLoadMissingFile(t *testing.T) {

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	def := Default()

	if cfg != def {
		t.Errorf("expected defaults %+v, got %+v", def, cfg)
	}
}

// TestLoadEmptyPath tests an empty path returns the defaults
func TestLoadEmptyPath(t *testing.T) {

	cfg, err := Load("")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg != Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

// TestLoadOverridesDefaults tests file values override defaults while
// unset keys keep their default values
func TestLoadOverridesDefaults(t *testing.T) {

	path := filepath.Join(t.TempDir(), "footfall.toml")

	data := `
video = "mall.mp4"
roi = 0.75
confidence = 0.4
database = "crossings.db"
`

	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("error writing config file: %v", err)
	}

	cfg, err := Load(path)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Video != "mall.mp4" {
		t.Errorf("expected video mall.mp4, got %q", cfg.Video)
	}

	if cfg.ROIPosition != 0.75 {
		t.Errorf("expected roi 0.75, got %v", cfg.ROIPosition)
	}

	if cfg.Confidence != 0.4 {
		t.Errorf("expected confidence 0.4, got %v", cfg.Confidence)
	}

	if cfg.Database != "crossings.db" {
		t.Errorf("expected database crossings.db, got %q", cfg.Database)
	}

	// keys absent from the file keep their defaults
	if cfg.Classes != "person" {
		t.Errorf("expected default classes person, got %q", cfg.Classes)
	}

	if cfg.Output != "output_footfall.mp4" {
		t.Errorf("expected default output, got %q", cfg.Output)
	}
}

// TestLoadBadFile tests a malformed config file surfaces an error
func TestLoadBadFile(t *testing.T) {

	path := filepath.Join(t.TempDir(), "footfall.toml")

	if err := os.WriteFile(path, []byte("roi = [not toml"), 0644); err != nil {
		t.Fatalf("error writing config file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed config file")
	}
}
