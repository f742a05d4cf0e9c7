package util

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NewID returns a fresh URL-safe random identifier.
func NewID() string {
	return gonanoid.Must()
}

// NewShortID returns a fresh random identifier of the given length,
// used as a collision-avoidance suffix on derived ids.
func NewShortID(length int) string {
	return gonanoid.Must(length)
}
