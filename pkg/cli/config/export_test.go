package config

// SetPath sets the config file path for testing
func (a *AppConfig) SetPath(path string) {
	a.path = path
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}
