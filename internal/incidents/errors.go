package incidents

import "errors"

var (
	// ErrIncidentNotFound is returned when no incident has the requested id.
	ErrIncidentNotFound = errors.New("incident not found")

	// ErrInvalidInput wraps validation failures so handlers can map them
	// to 400 responses with errors.Is.
	ErrInvalidInput = errors.New("invalid input")
)
