package config

import "fmt"

// ConfigError represents a user configuration error, such as an invalid
// value in the YAML file, an environment variable or a flag.
type ConfigError struct {
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return "config: " + e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}
