package domain

import (
	"time"

	"github.com/google/uuid"
)

// UnclassifiedSuffix is appended to a level slug to form the fallback chapter
// slug when an import supplies a level but no chapter (e.g. "B2未分类").
const UnclassifiedSuffix = "未分类"

// UnclassifiedChapterSlug derives the fallback chapter slug for a level.
func UnclassifiedChapterSlug(levelSlug string) string {
	return levelSlug + UnclassifiedSuffix
}

// Chapter is a subdivision of exactly one Level.
//
// Position is unique within the owning level and assigned as max+1 at creation.
// Slug is globally unique: the source system used caller strings as primary
// keys, so a chapter slug cannot repeat across levels either.
type Chapter struct {
	ID          uuid.UUID
	Slug        string
	Name        string
	Description *string
	Position    int
	LevelID     uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
