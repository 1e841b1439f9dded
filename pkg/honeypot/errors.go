package honeypot

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is matched by every configuration error returned from
	// the registry. Inspection never returns it.
	ErrInvalidConfig = errors.New("honeypot: invalid configuration")
	// ErrFingerprintCollision marks configuration errors caused by two
	// honeypots claiming the same wire-level field name.
	ErrFingerprintCollision = errors.New("honeypot: fingerprint collision")
)

// ConfigError describes a rejected honeypot registration.
type ConfigError struct {
	Name   string
	Kind   Kind
	Reason string
	// Conflict holds the existing honeypot name when the error is a
	// fingerprint collision.
	Conflict string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Conflict != "":
		return fmt.Sprintf("honeypot: invalid configuration: fingerprint collision between %q and %q", e.Name, e.Conflict)
	case e.Name != "":
		return fmt.Sprintf("honeypot: invalid configuration for %q: %s", e.Name, e.Reason)
	default:
		return "honeypot: invalid configuration: " + e.Reason
	}
}

// Unwrap exposes the sentinels so callers can use errors.Is.
func (e *ConfigError) Unwrap() []error {
	if e.Conflict != "" {
		return []error{ErrInvalidConfig, ErrFingerprintCollision}
	}
	return []error{ErrInvalidConfig}
}
