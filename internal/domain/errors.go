package domain

import "errors"

var (
	// ErrSourceUnavailable wraps any failure to read a raw source: I/O errors,
	// missing files, or non-success HTTP statuses.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrNoValidLocations is returned when fusion leaves no location with at
	// least two measurements.
	ErrNoValidLocations = errors.New("No valid location data found") //nolint:staticcheck // user-facing message

	// ErrInvalidWeights is returned for weights or thresholds outside [0, 1].
	ErrInvalidWeights = errors.New("invalid criteria weights")
)
