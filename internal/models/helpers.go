package models

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a short random identifier: 12 hex characters, enough
// to keep ideas, lessons, and graveyard entries distinct within a
// process without dragging full UUIDs through logs and prompts.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
