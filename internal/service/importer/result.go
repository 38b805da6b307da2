package importer

import "github.com/google/uuid"

// ImportOneResult reports where a single imported word ended up.
type ImportOneResult struct {
	WordID      uuid.UUID
	Updated     bool
	LevelID     uuid.UUID
	LevelSlug   string
	ChapterID   uuid.UUID
	ChapterSlug string
}

// BulkResult aggregates the outcome of one bulk import batch.
type BulkResult struct {
	Total    int
	Imported int
	Skipped  int
	Errors   []string
}

// DisplayErrors returns at most limit error messages, appending a summary
// line when the list was truncated. A limit <= 0 means no cap.
func (r *BulkResult) DisplayErrors(limit int) []string {
	if limit <= 0 || len(r.Errors) <= limit {
		return r.Errors
	}
	out := make([]string, 0, limit+1)
	out = append(out, r.Errors[:limit]...)
	out = append(out, "...")
	return out
}
