package util

import "github.com/google/uuid"

// NewID returns a random identifier suitable for users and requests.
func NewID() string {
	return uuid.NewString()
}
