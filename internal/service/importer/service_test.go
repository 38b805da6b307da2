package importer

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linmiao/cihui-backend/internal/config"
	"github.com/linmiao/cihui-backend/internal/domain"
)

func newTestService(store *memStore) *Service {
	return NewService(
		slog.New(slog.DiscardHandler),
		store.levelRepo(),
		store.chapterRepo(),
		store.wordRepo(),
		txManagerMock{},
		config.ImportConfig{MaxBatchSize: 100, ErrorDisplayLimit: 10, ProgressInterval: 50},
	)
}

func TestImportOne_CreatesHierarchy(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := newTestService(store)

	res, err := svc.ImportOne(context.Background(), Record{
		Word: "apple", Meaning: "苹果", LevelSlug: "A1", ChapterSlug: "A1c1",
	})
	require.NoError(t, err)
	assert.False(t, res.Updated)
	assert.Equal(t, "A1", res.LevelSlug)
	assert.Equal(t, "A1c1", res.ChapterSlug)

	lvl := store.levels["A1"]
	require.NotNil(t, lvl)
	require.NotNil(t, lvl.Description)
	assert.Equal(t, "自动创建的等级: A1", *lvl.Description)
	assert.Equal(t, 1, lvl.Position)

	ch := store.chapters["A1c1"]
	require.NotNil(t, ch)
	assert.Equal(t, lvl.ID, ch.LevelID)

	w := store.words["apple"]
	require.NotNil(t, w)
	assert.Equal(t, "苹果", w.Meaning)
	assert.Equal(t, lvl.ID, w.LevelID)
	assert.Equal(t, ch.ID, w.ChapterID)
	assert.Equal(t, res.WordID, w.ID)
}

func TestImportOne_DefaultsLevelAndChapter(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := newTestService(store)

	res, err := svc.ImportOne(context.Background(), Record{Word: "cat", Meaning: "猫"})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultLevelSlug, res.LevelSlug)
	assert.Equal(t, "default未分类", res.ChapterSlug)
	assert.NotNil(t, store.levels["default"])
	assert.NotNil(t, store.chapters["default未分类"])
}

func TestImportOne_ReimportUpdatesInPlace(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	first, err := svc.ImportOne(ctx, Record{Word: "apple", Meaning: "苹果", LevelSlug: "A1", ChapterSlug: "A1c1"})
	require.NoError(t, err)

	second, err := svc.ImportOne(ctx, Record{Word: "apple", Meaning: "苹果(水果)", LevelSlug: "B2", ChapterSlug: "B2c1"})
	require.NoError(t, err)

	assert.True(t, second.Updated)
	assert.Equal(t, first.WordID, second.WordID)
	require.Len(t, store.words, 1)

	w := store.words["apple"]
	assert.Equal(t, "苹果(水果)", w.Meaning)
	assert.Equal(t, store.levels["B2"].ID, w.LevelID)
	assert.Equal(t, store.chapters["B2c1"].ID, w.ChapterID)
	assert.Equal(t, 1, store.wordUpdates)
}

func TestImportOne_NormalizesIdentifiers(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := newTestService(store)

	_, err := svc.ImportOne(context.Background(), Record{
		Word: "  hello   world ", Meaning: " 你好 ", LevelSlug: " A1 ",
	})
	require.NoError(t, err)

	require.NotNil(t, store.words["hello world"])
	assert.Equal(t, "你好", store.words["hello world"].Meaning)
	assert.NotNil(t, store.levels["A1"])
}

func TestImportOne_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemStore())
	ctx := context.Background()

	_, err := svc.ImportOne(ctx, Record{Meaning: "无词"})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.ImportOne(ctx, Record{Word: "dog"})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.ImportOne(ctx, Record{Word: "   "})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestImportMany_SkipsMalformed(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := newTestService(store)

	res, err := svc.ImportMany(context.Background(), []Record{
		{Word: "alpha", Meaning: "一"},
		{Meaning: "缺少单词"},
		{Word: "beta", Meaning: "二"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "第2条")

	assert.NotNil(t, store.levels["default"])
	assert.NotNil(t, store.chapters["default未分类"])
	assert.Len(t, store.words, 2)
}

func TestImportMany_ResolvesEachIdentityOnce(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	levels := store.levelRepo()
	lookups := 0
	inner := levels.getBySlugFn
	levels.getBySlugFn = func(ctx context.Context, slug string) (*domain.Level, error) {
		lookups++
		return inner(ctx, slug)
	}
	svc := NewService(slog.New(slog.DiscardHandler), levels, store.chapterRepo(), store.wordRepo(),
		txManagerMock{}, config.ImportConfig{MaxBatchSize: 100})

	_, err := svc.ImportMany(context.Background(), []Record{
		{Word: "a", Meaning: "一", LevelSlug: "A1"},
		{Word: "b", Meaning: "二", LevelSlug: "A1"},
		{Word: "c", Meaning: "三", LevelSlug: "A1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, lookups)
}

func TestImportMany_DedupWithinBatch(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := newTestService(store)

	res, err := svc.ImportMany(context.Background(), []Record{
		{Word: "apple", Meaning: "苹果"},
		{Word: "apple", Meaning: "苹果(更新)"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Imported)
	require.Len(t, store.words, 1)
	assert.Equal(t, "苹果(更新)", store.words["apple"].Meaning)
}

func TestImportMany_BatchLimits(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemStore())
	ctx := context.Background()

	_, err := svc.ImportMany(ctx, nil)
	require.ErrorIs(t, err, domain.ErrValidation)

	big := make([]Record, 101)
	for i := range big {
		big[i] = Record{Word: "w", Meaning: "m"}
	}
	_, err = svc.ImportMany(ctx, big)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestImportMany_StorageErrorAborts(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	words := store.wordRepo()
	boom := domain.NewStorageError("words.create", errors.New("connection reset"))
	words.createFn = func(context.Context, *domain.Word) (*domain.Word, error) {
		return nil, boom
	}
	svc := NewService(slog.New(slog.DiscardHandler), store.levelRepo(), store.chapterRepo(), words,
		txManagerMock{}, config.ImportConfig{MaxBatchSize: 100})

	_, err := svc.ImportMany(context.Background(), []Record{{Word: "a", Meaning: "一"}})
	require.ErrorIs(t, err, domain.ErrStorage)
}

func TestDeleteChapter(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.ImportOne(ctx, Record{Word: "a", Meaning: "一", LevelSlug: "A1", ChapterSlug: "A1c1"})
	require.NoError(t, err)
	_, err = svc.ImportOne(ctx, Record{Word: "b", Meaning: "二", LevelSlug: "A1", ChapterSlug: "A1c1"})
	require.NoError(t, err)

	removed, err := svc.DeleteChapter(ctx, "A1c1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	assert.Empty(t, store.words)
	assert.NotContains(t, store.chapters, "A1c1")

	_, err = svc.DeleteChapter(ctx, "A1c1")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordFromMap(t *testing.T) {
	t.Parallel()

	rec := RecordFromMap(map[string]any{
		"word":       "apple",
		"definition": "苹果",
		"phonetic":   "undefined",
		"example":    "an apple a day",
		"note":       float64(42),
		"level_id":   "A1",
	})

	assert.Equal(t, "apple", rec.Word)
	assert.Equal(t, "苹果", rec.Meaning)
	assert.Nil(t, rec.Phonetic)
	require.NotNil(t, rec.Example)
	assert.Equal(t, "an apple a day", *rec.Example)
	require.NotNil(t, rec.Note)
	assert.Equal(t, "42", *rec.Note)
	assert.Equal(t, "A1", rec.LevelSlug)
}

func TestBulkResult_DisplayErrors(t *testing.T) {
	t.Parallel()

	res := &BulkResult{Errors: []string{"e1", "e2", "e3"}}
	assert.Equal(t, []string{"e1", "e2", "e3"}, res.DisplayErrors(0))
	assert.Equal(t, []string{"e1", "e2", "e3"}, res.DisplayErrors(5))
	assert.Equal(t, []string{"e1", "e2", "..."}, res.DisplayErrors(2))
}
