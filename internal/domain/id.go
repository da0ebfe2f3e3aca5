package domain

import "github.com/google/uuid"

// NewID returns a fresh random identifier for tours, lines and catalog rows
func NewID() string {
	return uuid.NewString()
}
