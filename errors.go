package llmstream

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
// These can be checked with errors.Is().
//
// Note that the decode hot path never returns errors: element-level parse
// failures are skipped and partially-missing shapes degrade to defaults.
// Errors only surface from construction and configuration paths.
var (
	// ErrUnknownProvider indicates no normalizer is registered for the
	// requested provider ID.
	ErrUnknownProvider = errors.New("llmstream: unknown provider")

	// ErrInvalidProfile indicates a provider profile failed to load or
	// contained a non-canonical finish reason mapping.
	ErrInvalidProfile = errors.New("llmstream: invalid provider profile")
)

// ProfileError represents a failure loading or validating a provider profile.
type ProfileError struct {
	Provider string // The provider the profile belongs to ("" if unknown)
	Reason   string // Human-readable explanation
	Err      error  // Wrapped error (usually ErrInvalidProfile)
}

func (e *ProfileError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("profile for provider '%s': %s", e.Provider, e.Reason)
	}
	return fmt.Sprintf("profile: %s", e.Reason)
}

func (e *ProfileError) Unwrap() error {
	return e.Err
}
