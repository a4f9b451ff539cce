package config

// LoggingConfig configures logging.
type LoggingConfig struct {
	// DebugMode enables categorized file logging under .credpoints/logs/.
	DebugMode bool `yaml:"debug_mode"`

	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text

	// Categories toggles individual log categories. Empty means all.
	Categories map[string]bool `yaml:"categories"`
}
