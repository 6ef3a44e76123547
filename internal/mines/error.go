package mines

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every [ConfigError].
var ErrInvalidConfig = errors.New("invalid game configuration")

// ConfigError rejects a board that cannot be built, e.g. one asking for more
// mines than there are tiles to hold them.
type ConfigError struct {
	Field  string
	Reason string
}

// [ConfigError] implements [error]
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
