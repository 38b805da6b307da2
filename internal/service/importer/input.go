package importer

import (
	"github.com/linmiao/cihui-backend/internal/domain"
)

// Record is one inbound word, decoded from client JSON. All text fields are
// raw: normalization happens inside the service so every entry point (single
// import, bulk import) applies the same rules.
type Record struct {
	Word       string
	Meaning    string
	Phonetic   *string
	Phrase     *string
	Example    *string
	Morphology *string
	Note       *string
	ImagePath  *string

	LevelSlug   string
	ChapterSlug string
}

// RecordFromMap converts a loosely-typed JSON object into a Record. Clients
// send wildly inconsistent payloads, so every field goes through the junk
// filters: numbers become strings, NaN and "undefined" become nil, and
// "definition" is accepted as a synonym for "meaning".
func RecordFromMap(m map[string]any) Record {
	meaning := domain.StringFromAny(m["meaning"])
	if meaning == "" {
		meaning = domain.StringFromAny(m["definition"])
	}
	return Record{
		Word:        domain.StringFromAny(m["word"]),
		Meaning:     meaning,
		Phonetic:    domain.OptionalFromAny(m["phonetic"]),
		Phrase:      domain.OptionalFromAny(m["phrase"]),
		Example:     domain.OptionalFromAny(m["example"]),
		Morphology:  domain.OptionalFromAny(m["morphology"]),
		Note:        domain.OptionalFromAny(m["note"]),
		ImagePath:   domain.OptionalFromAny(m["image_path"]),
		LevelSlug:   domain.StringFromAny(m["level_id"]),
		ChapterSlug: domain.StringFromAny(m["chapter_id"]),
	}
}

// normalize trims and collapses the identifying fields in place and reports
// whether the record carries a usable word text and meaning.
func (r *Record) normalize() (ok bool) {
	r.Word = domain.NormalizeText(r.Word)
	r.Meaning = domain.NormalizeText(r.Meaning)
	r.LevelSlug = domain.NormalizeText(r.LevelSlug)
	r.ChapterSlug = domain.NormalizeText(r.ChapterSlug)
	return r.Word != "" && r.Meaning != ""
}
