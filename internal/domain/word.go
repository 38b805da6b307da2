package domain

import (
	"time"

	"github.com/google/uuid"
)

// Placeholder literals written by the null-repair pass. Original content is
// not recoverable once a row reaches that state.
const (
	PlaceholderWordText = "未命名单词"
	PlaceholderMeaning  = "暂无释义"
)

// Word is a single vocabulary entry.
//
// Text is the deduplication key: an import matching an existing word text
// anywhere in storage updates that row in place, even when it targets a
// different chapter. Text and Meaning are never empty after a successful write.
type Word struct {
	ID         uuid.UUID
	Text       string
	Meaning    string
	Phonetic   *string
	Phrase     *string
	Example    *string
	Morphology *string
	Note       *string
	LevelID    uuid.UUID
	ChapterID  uuid.UUID
	ImagePath  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
