// Package config provides configuration management for pathtag.
//
// This package handles:
//   - Default configuration values
//   - Loading and saving settings from JSON files
//   - PATHTAG_* environment overrides
//   - Conversion to audio and logging options
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// auto backend, one worker, tree lock on, both fields overwritten
//
// # Loading
//
//	settings, err := config.LoadWithEnv("/etc/pathtag.json")
//	if err != nil {
//	    // a missing file is not an error; defaults are used
//	}
//	if err := settings.Validate(); err != nil {
//	    // unknown backend, bad worker count, ...
//	}
//
// Environment variables override the file:
//
//	PATHTAG_BACKEND=id3 PATHTAG_WORKERS=8 pathtag ~/Music
//
// # Saving Settings
//
//	settings.Workers = 4
//	err := settings.Save("/path/to/config.json")
package config
