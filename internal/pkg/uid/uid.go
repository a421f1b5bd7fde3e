// Package uid generates identifiers: numeric snowflake IDs for database rows
// and UUID strings for correlation and token IDs.
package uid

import "github.com/google/uuid"

// NumberID generates unique int64 identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}

// UUID generates time-ordered version 7 UUID strings.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

// Generate never fails; when the v7 clock source errors it returns a random v4.
func (*UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
