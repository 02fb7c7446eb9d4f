package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound = goerr.New("configuration file not found")
	ErrInvalidDelay   = goerr.New("invalid delay value")
	ErrInvalidColor   = goerr.New("invalid color value")
	ErrMissingName    = goerr.New("name is required")
	ErrMissingValue   = goerr.New("value is required")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	SectionKey    = "section"
	EntryIndexKey = "entry_index"
)
