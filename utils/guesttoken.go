package utils

import "github.com/google/uuid"

// NewGuestToken mints the opaque bearer token identifying a guest cart.
func NewGuestToken() string {
	return uuid.NewString()
}
