package crypto

import (
	"errors"
	"fmt"
)

// ErrInvalidPassphrase is returned when a sealed record cannot be opened
var ErrInvalidPassphrase = errors.New("invalid passphrase")

// ConfigError is a cryptographic configuration problem, such as a symmetric
// key of the wrong size. Retrying with the same configuration fails the same way.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return "crypto config: " + e.Message
}

// IsConfigError checks if error is ConfigError
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ValidationError is returned for plain intents that cannot be built
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid intent %s: %s", e.Field, e.Message)
}
