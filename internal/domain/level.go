package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultLevelSlug is used when an import supplies no level reference.
const DefaultLevelSlug = "default"

// Level is a top-level vocabulary grouping (a course tier).
//
// Slug is the caller-visible natural key: whatever string the client sent as
// level_id. ID is the internal surrogate key; everything below the transport
// boundary references levels by ID, never by slug.
type Level struct {
	ID          uuid.UUID
	Slug        string
	Name        string
	Description *string
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
