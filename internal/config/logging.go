package config

import "timely/internal/logging"

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`      // debug, info, warn, error
	Format     string          `yaml:"format"`     // json, console
	File       string          `yaml:"file"`       // empty = stderr for one-shot commands, silent in the chat UI
	DebugMode  bool            `yaml:"debug_mode"` // debug level + per-category toggles
	Categories map[string]bool `yaml:"categories"` // per-category toggles
}

// Options converts the section for logging.Initialize. interactive mutes
// output unless a log file is configured, so the terminal UI stays intact.
func (c *LoggingConfig) Options(interactive bool) logging.Options {
	return logging.Options{
		Level:      c.Level,
		Format:     c.Format,
		File:       c.File,
		DebugMode:  c.DebugMode,
		Categories: c.Categories,
		Silent:     interactive && c.File == "",
	}
}
