package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrphanWordRef identifies a word whose level or chapter reference no longer
// resolves. LevelID/ChapterID are the dangling values as stored (uuid.Nil
// when the column itself is NULL).
type OrphanWordRef struct {
	WordID         uuid.UUID
	WordText       string
	LevelID        uuid.UUID
	ChapterID      uuid.UUID
	MissingLevel   bool
	MissingChapter bool
}

// OrphanChapterRef identifies a chapter whose owning level is missing.
type OrphanChapterRef struct {
	ChapterID   uuid.UUID
	ChapterSlug string
	LevelID     uuid.UUID
}

// AuditReport is the read-only result of a consistency scan.
type AuditReport struct {
	OrphanWords    []OrphanWordRef
	OrphanChapters []OrphanChapterRef
	CheckedAt      time.Time
}

// Clean reports whether the scan found nothing to repair.
func (r AuditReport) Clean() bool {
	return len(r.OrphanWords) == 0 && len(r.OrphanChapters) == 0
}

// ReclaimReport summarizes one maintenance run for operational logging.
type ReclaimReport struct {
	ChaptersDeleted int64
	LevelsDeleted   int64
	WordsRepaired   int64
	Duration        time.Duration
}
