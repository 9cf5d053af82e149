package id

import "github.com/google/uuid"

// Generator creates opaque identifiers for sync runs.
type Generator interface {
	NewID() string
}

type UUIDGenerator struct{}

func NewUUIDGenerator() UUIDGenerator {
	return UUIDGenerator{}
}

// NewID returns a time-ordered UUIDv7, falling back to v4 when the clock source fails.
func (UUIDGenerator) NewID() string {
	if v, err := uuid.NewV7(); err == nil {
		return v.String()
	}
	return uuid.NewString()
}

// Fixed returns the same id every call.
type Fixed string

func (f Fixed) NewID() string {
	return string(f)
}
