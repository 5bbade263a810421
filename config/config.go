// Package config provides TOML session configuration for the example
// applications.  Values from the file override the defaults and command
// line flags override the file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the counting session settings
type Config struct {
	// Video is the input video file to process
	Video string `toml:"video"`
	// Output is the annotated output video file to write
	Output string `toml:"output"`
	// Weights is the YOLO model weights file
	Weights string `toml:"weights"`
	// ModelConfig is the YOLO network configuration file
	ModelConfig string `toml:"model-config"`
	// Labels is the text file of class labels the model was trained on
	Labels string `toml:"labels"`
	// ROIPosition is the vertical placement of the counting line as a
	// fraction of the frame height, within [0,1]
	ROIPosition float64 `toml:"roi"`
	// Confidence is the minimum detection confidence threshold
	Confidence float64 `toml:"confidence"`
	// Classes is a comma delimited list of labels to restrict detection to
	Classes string `toml:"classes"`
	// Database is an optional sqlite file to record crossing events to
	Database string `toml:"database"`
	// Font is an optional TTF font file used for the statistics banner
	Font string `toml:"font"`
}

// Default returns the default session settings
func Default() Config {
	return Config{
		Output:      "output_footfall.mp4",
		ROIPosition: 0.5,
		Confidence:  0.5,
		Classes:     "person",
	}
}

// Load reads a TOML config from the given path over the defaults.  A missing
// file is not an error and returns the defaults unchanged
func Load(path string) (Config, error) {

	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to stat config: %w", err)
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}
