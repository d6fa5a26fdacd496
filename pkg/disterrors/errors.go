package disterrors

import (
	"errors"
	"fmt"
)

// Error categories shared across the replication core. Callers match them
// with errors.Is to decide whether an operation is retryable.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrNetwork       = errors.New("network error")
	ErrConsensus     = errors.New("consensus error")
	ErrStorage       = errors.New("storage error")
	ErrInvalidState  = errors.New("invalid state")
)

// Configurationf wraps a formatted message in the configuration category.
func Configurationf(format string, args ...any) error {
	return wrapf(ErrConfiguration, format, args...)
}

// Networkf wraps a formatted message in the network category.
// Quorum shortfalls are reported through this category.
func Networkf(format string, args ...any) error {
	return wrapf(ErrNetwork, format, args...)
}

// Consensusf wraps a formatted message in the consensus category.
// Reserved for consensus-layer callers; unused by this core directly.
func Consensusf(format string, args ...any) error {
	return wrapf(ErrConsensus, format, args...)
}

// Storagef wraps a formatted message in the storage category.
func Storagef(format string, args ...any) error {
	return wrapf(ErrStorage, format, args...)
}

// InvalidStatef wraps a formatted message in the invalid-state category.
func InvalidStatef(format string, args ...any) error {
	return wrapf(ErrInvalidState, format, args...)
}

func wrapf(category error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", category, fmt.Sprintf(format, args...))
}
