// Package uuid wraps github.com/google/uuid for the one thing the core
// needs: minting and validating the version-4 scope id spec.md §6 requires
// at the boundary (canonical 36-character string).
package uuid

import "github.com/google/uuid"

// New generates a new version-4 UUID string, used for scope ids.
func New() string {
	return uuid.New().String()
}

// IsValid reports whether s parses as a UUID.
func IsValid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
