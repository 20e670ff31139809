package world

import "errors"

// ErrConfig matches every ConfigError via errors.Is.
var ErrConfig = errors.New("world configuration error")

// ConfigError reports a misconfigured aerodrome reference table. It is not
// recoverable at runtime.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "world configuration error: " + e.Reason
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
