package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrProductNotFound is returned when no compatible catalog product matches
	ErrProductNotFound = errors.New("no matching product in catalog")

	// ErrLowConfidence is returned when the best match scores below the threshold
	ErrLowConfidence = errors.New("match score below threshold")

	// ErrCatalogUnavailable is returned when the catalog backend fails
	ErrCatalogUnavailable = errors.New("catalog store unavailable")

	// ErrStandardizerUnavailable is returned when the AI standardizer fails
	ErrStandardizerUnavailable = errors.New("standardizer request failed")
)
