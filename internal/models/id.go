package models

import "github.com/google/uuid"

// NewID returns a fresh opaque entity id. Uniqueness is the only contract;
// nothing parses these back.
func NewID() string {
	return uuid.NewString()
}
