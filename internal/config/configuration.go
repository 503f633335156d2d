package config

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/spf13/viper"
	"thirdcoast.systems/cropframe/pkg/cropsession"
)

type Config struct {
	// WebServer Configuration
	WebServerPort int    `mapstructure:"WEBSERVER_PORT" validate:"required,min=1,max=65535"`
	SessionSecret string `mapstructure:"SESSION_SECRET"`
	LogLevel      string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	// Crop selector
	AspectRatios       []string      `mapstructure:"CROP_ASPECT_RATIOS" validate:"dive,aspectratio"`
	DefaultAspectRatio string        `mapstructure:"CROP_DEFAULT_ASPECT_RATIO" validate:"omitempty,aspectratio"`
	PresetsFile        string        `mapstructure:"CROP_PRESETS_FILE" validate:"omitempty,file"`
	HelpMarkdown       string        `mapstructure:"CROP_HELP_MARKDOWN"`
	SessionIdle        time.Duration `mapstructure:"CROP_SESSION_IDLE" validate:"min=0"`

	// Media shown in the player
	MediaPath string `mapstructure:"MEDIA_PATH" validate:"omitempty,file"`
	MediaURL  string `mapstructure:"MEDIA_URL"`

	// Presets loaded from PresetsFile.
	Presets []Preset `mapstructure:"-"`
}

// Labels returns the configured ratio labels followed by any preset labels
// that are not already listed.
func (c *Config) Labels() []string {
	seen := make(map[string]struct{}, len(c.AspectRatios)+len(c.Presets))
	labels := make([]string, 0, len(c.AspectRatios)+len(c.Presets))
	add := func(l string) {
		if _, ok := seen[l]; ok || l == "" {
			return
		}
		seen[l] = struct{}{}
		labels = append(labels, l)
	}
	for _, l := range c.AspectRatios {
		add(l)
	}
	for _, p := range c.Presets {
		add(p.Label)
	}
	return labels
}

// CropOptions builds session options from the config. The callback is left
// for the caller to attach.
func (c *Config) CropOptions() cropsession.Options {
	return cropsession.Options{
		AspectRatios:       c.Labels(),
		DefaultAspectRatio: c.DefaultAspectRatio,
	}
}

// SlogLevel returns the configured log level, Info when unset.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	val := reflect.ValueOf(c)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("mapstructure")
		if tag != "" && tag != "-" {
			viper.BindEnv(tag)
		}
	}
}

func LoadConfig(ctx context.Context) (*Config, error) {
	bindEnv(Config{})
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("WEBSERVER_PORT", 8080)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CROP_ASPECT_RATIOS", cropsession.DefaultAspectRatios)
	viper.SetDefault("CROP_SESSION_IDLE", 30*time.Minute)
	viper.SetDefault("MEDIA_URL", "/media")

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cropsession.Validator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if cfg.PresetsFile != "" {
		presets, err := LoadPresets(cfg.PresetsFile)
		if err != nil {
			return nil, err
		}
		cfg.Presets = presets
	}

	slog.Info("Loaded configuration",
		"port", cfg.WebServerPort,
		"log_level", cfg.LogLevel,
		"aspect_ratios", cfg.Labels(),
		"default_aspect_ratio", cfg.DefaultAspectRatio,
		"media_path", cfg.MediaPath,
		"session_idle", cfg.SessionIdle,
	)

	return &cfg, nil
}
