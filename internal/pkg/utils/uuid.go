// Package utils holds the small identifier helpers shared by the domain
// and render layers.
package utils

import (
	"github.com/google/uuid"
)

// NewJobID generates the identifier assigned to one render invocation; it
// tags every log line and the PDF's creator metadata for that run.
func NewJobID() uuid.UUID {
	return uuid.New()
}

// ShortID is the compact 8-character form of a job ID, used where the full
// UUID would be noise (the PDF creator string, progress logs).
func ShortID(id uuid.UUID) string {
	return id.String()[:8]
}

// ParseID parses a job ID back from its string form.
func ParseID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}
