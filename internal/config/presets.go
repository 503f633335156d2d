package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"thirdcoast.systems/cropframe/pkg/cropsession"
)

// Preset is a named aspect ratio from the presets file:
//
//	[[preset]]
//	label = "9:16"
//	name = "Vertical"
type Preset struct {
	Label string `toml:"label" validate:"required,aspectratio"`
	Name  string `toml:"name"`
}

type presetsFile struct {
	Presets []Preset `toml:"preset" validate:"dive"`
}

// LoadPresets reads and validates a presets TOML file.
func LoadPresets(path string) ([]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var f presetsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cropsession.Validator().Struct(f); err != nil {
		return nil, fmt.Errorf("invalid preset in %s: %w", path, err)
	}

	for i := range f.Presets {
		if f.Presets[i].Name == "" {
			f.Presets[i].Name = f.Presets[i].Label
		}
	}
	return f.Presets, nil
}

// PresetNames maps preset labels to display names.
func (c *Config) PresetNames() map[string]string {
	names := make(map[string]string, len(c.Presets))
	for _, p := range c.Presets {
		names[p.Label] = p.Name
	}
	return names
}
