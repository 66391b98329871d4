// Package uuid generates and validates the string identifiers used as
// primary keys for advisors, recommendations, users, and snapshots.
package uuid

import (
	"encoding/binary"
	"time"

	googleuuid "github.com/google/uuid"
)

// New generates a new time-ordered UUIDv7 string. Records created later sort
// after earlier ones, which keeps index inserts append-only.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Fallback to a random UUIDv4 if the entropy source fails
		return googleuuid.New().String()
	}
	return id.String()
}

// Parse validates and normalizes a UUID string.
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}

// CreatedAt extracts the embedded millisecond timestamp from a UUIDv7.
// It returns false for any other UUID version.
func CreatedAt(s string) (time.Time, bool) {
	parsed, err := googleuuid.Parse(s)
	if err != nil || parsed.Version() != 7 {
		return time.Time{}, false
	}
	ms := binary.BigEndian.Uint64(parsed[0:8]) >> 16
	return time.UnixMilli(int64(ms)).UTC(), true
}
