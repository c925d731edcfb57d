package instance

import (
	"strings"

	"github.com/google/uuid"
)

// Id prefixes keep the kind of an opaque id readable in logs and payloads.
const (
	prefixChore   = "chore_"
	prefixTender  = "c_"
	prefixHistory = "h_"
)

// NewID returns a fresh unique id with the given prefix.
func NewID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}
