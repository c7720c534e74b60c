package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/handiism/pathtag/internal/audio"
	"github.com/handiism/pathtag/internal/logging"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment override, e.g. PATHTAG_WORKERS.
const EnvPrefix = "pathtag"

// Settings holds all configuration options.
type Settings struct {
	// Tagging
	Backend           string `json:"backend" envconfig:"BACKEND"` // auto, id3, flac, mp4, taglib
	CreateMissingTags bool   `json:"create_missing_tags" envconfig:"CREATE_MISSING_TAGS"`
	ArtistAction      string `json:"artist_action" envconfig:"ARTIST_ACTION"` // modify, keep, empty
	AlbumAction       string `json:"album_action" envconfig:"ALBUM_ACTION"`
	DryRun            bool   `json:"dry_run" envconfig:"DRY_RUN"`

	// Concurrency
	Workers int `json:"workers" envconfig:"WORKERS"`

	// Locking
	LockTree bool `json:"lock_tree" envconfig:"LOCK_TREE"`

	// Logging
	LogLevel  string `json:"log_level" envconfig:"LOG_LEVEL"`
	LogFormat string `json:"log_format" envconfig:"LOG_FORMAT"` // auto, console, json
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Backend:           audio.BackendAuto,
		CreateMissingTags: false,
		ArtistAction:      "modify",
		AlbumAction:       "modify",
		DryRun:            false,

		Workers: 1,

		LockTree: true,

		LogLevel:  "info",
		LogFormat: logging.FormatAuto,
	}
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// LoadWithEnv reads settings from path (when non-empty) and then applies
// PATHTAG_* environment overrides.
func LoadWithEnv(path string) (*Settings, error) {
	settings := DefaultSettings()
	if path != "" {
		var err error
		settings, err = Load(path)
		if err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(EnvPrefix, settings); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks that every option holds a usable value.
func (s *Settings) Validate() error {
	var errs []error

	if _, err := audio.NewBackend(s.Backend, audio.BackendOptions{}); err != nil {
		errs = append(errs, err)
	}
	if _, err := audio.ParseTagEditAction(s.ArtistAction); err != nil {
		errs = append(errs, fmt.Errorf("artist_action: %w", err))
	}
	if _, err := audio.ParseTagEditAction(s.AlbumAction); err != nil {
		errs = append(errs, fmt.Errorf("album_action: %w", err))
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", s.Workers))
	}
	if !logging.ValidFormat(s.LogFormat) {
		errs = append(errs, fmt.Errorf("unknown log format %q", s.LogFormat))
	}

	return errors.Join(errs...)
}

// ToTagConfig converts settings to an audio.TagConfig.
// Call Validate first; unparsable actions fall back to modify.
func (s *Settings) ToTagConfig() *audio.TagConfig {
	artist, _ := audio.ParseTagEditAction(s.ArtistAction)
	album, _ := audio.ParseTagEditAction(s.AlbumAction)
	return &audio.TagConfig{
		Artist: artist,
		Album:  album,
		DryRun: s.DryRun,
	}
}

// ToBackendOptions converts settings to audio.BackendOptions.
func (s *Settings) ToBackendOptions() audio.BackendOptions {
	return audio.BackendOptions{CreateMissingTags: s.CreateMissingTags}
}

// ToLoggingOptions converts settings to logging.Options.
func (s *Settings) ToLoggingOptions() logging.Options {
	return logging.Options{Level: s.LogLevel, Format: s.LogFormat}
}
