// Package idempotency lets clients retry mutating requests safely by
// replaying the first response recorded under an Idempotency-Key header.
package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"
	"time"
)

var (
	ErrKeyRequired = errors.New("idempotency key is required")
	ErrKeyInvalid  = errors.New("idempotency key may only contain letters, digits, '-' and '_'")
	ErrKeyTooLong  = errors.New("idempotency key is too long")
	ErrNotFound    = errors.New("idempotency record not found")
)

var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateKey checks a trimmed header value
func ValidateKey(key string, maxLength int) error {
	switch {
	case key == "":
		return ErrKeyRequired
	case len(key) > maxLength:
		return ErrKeyTooLong
	case !keyPattern.MatchString(key):
		return ErrKeyInvalid
	}
	return nil
}

// Fingerprint identifies the request a key was first used with
func Fingerprint(method, path string, body []byte) string {
	h := sha256.New()
	for _, part := range [][]byte{[]byte(method), []byte(path), body} {
		h.Write(part)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Response is the outcome replayed for a completed key
type Response struct {
	Status   int    `bson:"status"`
	Body     []byte `bson:"body,omitempty"`
	Location string `bson:"location,omitempty"`
}

// Record tracks one key from reservation until its response is stored. Keys
// are unique per service.
type Record struct {
	ID          string     `bson:"_id"`
	Service     string     `bson:"service"`
	Key         string     `bson:"key"`
	UserID      string     `bson:"userId,omitempty"`
	Method      string     `bson:"method"`
	Path        string     `bson:"path"`
	Fingerprint string     `bson:"fingerprint"`
	ReservedAt  time.Time  `bson:"reservedAt"`
	Response    *Response  `bson:"response,omitempty"`
	CompletedAt *time.Time `bson:"completedAt,omitempty"`
	ExpiresAt   time.Time  `bson:"expiresAt"`
}

// Completed reports whether a response can be replayed
func (r *Record) Completed() bool {
	return r.CompletedAt != nil && r.Response != nil
}

// InFlight reports whether another request holds the key and is still
// within the lock timeout
func (r *Record) InFlight(now time.Time, lockTimeout time.Duration) bool {
	return r.CompletedAt == nil && now.Sub(r.ReservedAt) < lockTimeout
}
