package domain

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a short unique identifier with the given prefix, for
// example PT-1A2B3C4D5E6F
func NewID(prefix string) string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + "-" + strings.ToUpper(raw[:12])
}
