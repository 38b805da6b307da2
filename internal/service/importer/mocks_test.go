package importer

import (
	"context"

	"github.com/google/uuid"

	"github.com/linmiao/cihui-backend/internal/domain"
)

type levelRepoMock struct {
	getBySlugFn    func(ctx context.Context, slug string) (*domain.Level, error)
	nextPositionFn func(ctx context.Context) (int, error)
	createFn       func(ctx context.Context, lvl *domain.Level) (*domain.Level, error)
}

func (m *levelRepoMock) GetBySlug(ctx context.Context, slug string) (*domain.Level, error) {
	return m.getBySlugFn(ctx, slug)
}

func (m *levelRepoMock) NextPosition(ctx context.Context) (int, error) {
	return m.nextPositionFn(ctx)
}

func (m *levelRepoMock) Create(ctx context.Context, lvl *domain.Level) (*domain.Level, error) {
	return m.createFn(ctx, lvl)
}

type chapterRepoMock struct {
	getBySlugFn    func(ctx context.Context, slug string) (*domain.Chapter, error)
	nextPositionFn func(ctx context.Context, levelID uuid.UUID) (int, error)
	createFn       func(ctx context.Context, ch *domain.Chapter) (*domain.Chapter, error)
	deleteFn       func(ctx context.Context, id uuid.UUID) error
}

func (m *chapterRepoMock) GetBySlug(ctx context.Context, slug string) (*domain.Chapter, error) {
	return m.getBySlugFn(ctx, slug)
}

func (m *chapterRepoMock) NextPosition(ctx context.Context, levelID uuid.UUID) (int, error) {
	return m.nextPositionFn(ctx, levelID)
}

func (m *chapterRepoMock) Create(ctx context.Context, ch *domain.Chapter) (*domain.Chapter, error) {
	return m.createFn(ctx, ch)
}

func (m *chapterRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

type wordRepoMock struct {
	getByTextFn       func(ctx context.Context, text string) (*domain.Word, error)
	createFn          func(ctx context.Context, w *domain.Word) (*domain.Word, error)
	updateFn          func(ctx context.Context, id uuid.UUID, meaning string, phonetic, example *string, levelID, chapterID uuid.UUID) error
	deleteByChapterFn func(ctx context.Context, chapterID uuid.UUID) (int64, error)
}

func (m *wordRepoMock) GetByText(ctx context.Context, text string) (*domain.Word, error) {
	return m.getByTextFn(ctx, text)
}

func (m *wordRepoMock) Create(ctx context.Context, w *domain.Word) (*domain.Word, error) {
	return m.createFn(ctx, w)
}

func (m *wordRepoMock) Update(ctx context.Context, id uuid.UUID, meaning string, phonetic, example *string, levelID, chapterID uuid.UUID) error {
	return m.updateFn(ctx, id, meaning, phonetic, example, levelID, chapterID)
}

func (m *wordRepoMock) DeleteByChapter(ctx context.Context, chapterID uuid.UUID) (int64, error) {
	return m.deleteByChapterFn(ctx, chapterID)
}

// txManagerMock runs the function directly; rollback behavior is exercised by
// the postgres integration tests, not here.
type txManagerMock struct{}

func (txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memStore is an in-memory backend for the three repos, handy for tests that
// need find-or-create behavior across several calls.
type memStore struct {
	levels   map[string]*domain.Level
	chapters map[string]*domain.Chapter
	words    map[string]*domain.Word

	wordUpdates int
}

func newMemStore() *memStore {
	return &memStore{
		levels:   make(map[string]*domain.Level),
		chapters: make(map[string]*domain.Chapter),
		words:    make(map[string]*domain.Word),
	}
}

func (s *memStore) levelRepo() *levelRepoMock {
	return &levelRepoMock{
		getBySlugFn: func(_ context.Context, slug string) (*domain.Level, error) {
			if lvl, ok := s.levels[slug]; ok {
				return lvl, nil
			}
			return nil, domain.ErrNotFound
		},
		nextPositionFn: func(context.Context) (int, error) {
			return len(s.levels) + 1, nil
		},
		createFn: func(_ context.Context, lvl *domain.Level) (*domain.Level, error) {
			s.levels[lvl.Slug] = lvl
			return lvl, nil
		},
	}
}

func (s *memStore) chapterRepo() *chapterRepoMock {
	return &chapterRepoMock{
		getBySlugFn: func(_ context.Context, slug string) (*domain.Chapter, error) {
			if ch, ok := s.chapters[slug]; ok {
				return ch, nil
			}
			return nil, domain.ErrNotFound
		},
		nextPositionFn: func(_ context.Context, levelID uuid.UUID) (int, error) {
			n := 1
			for _, ch := range s.chapters {
				if ch.LevelID == levelID {
					n++
				}
			}
			return n, nil
		},
		createFn: func(_ context.Context, ch *domain.Chapter) (*domain.Chapter, error) {
			s.chapters[ch.Slug] = ch
			return ch, nil
		},
		deleteFn: func(_ context.Context, id uuid.UUID) error {
			for slug, ch := range s.chapters {
				if ch.ID == id {
					delete(s.chapters, slug)
					return nil
				}
			}
			return domain.ErrNotFound
		},
	}
}

func (s *memStore) wordRepo() *wordRepoMock {
	return &wordRepoMock{
		getByTextFn: func(_ context.Context, text string) (*domain.Word, error) {
			if w, ok := s.words[text]; ok {
				return w, nil
			}
			return nil, domain.ErrNotFound
		},
		createFn: func(_ context.Context, w *domain.Word) (*domain.Word, error) {
			s.words[w.Text] = w
			return w, nil
		},
		updateFn: func(_ context.Context, id uuid.UUID, meaning string, phonetic, example *string, levelID, chapterID uuid.UUID) error {
			for _, w := range s.words {
				if w.ID == id {
					w.Meaning = meaning
					w.Phonetic = phonetic
					w.Example = example
					w.LevelID = levelID
					w.ChapterID = chapterID
					s.wordUpdates++
					return nil
				}
			}
			return domain.ErrNotFound
		},
		deleteByChapterFn: func(_ context.Context, chapterID uuid.UUID) (int64, error) {
			var n int64
			for text, w := range s.words {
				if w.ChapterID == chapterID {
					delete(s.words, text)
					n++
				}
			}
			return n, nil
		},
	}
}
