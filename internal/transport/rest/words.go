package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linmiao/cihui-backend/internal/config"
	"github.com/linmiao/cihui-backend/internal/domain"
	"github.com/linmiao/cihui-backend/internal/service/importer"
	"github.com/linmiao/cihui-backend/pkg/ctxutil"
)

// importService defines the minimal interface needed by WordsHandler.
type importService interface {
	ImportOne(ctx context.Context, rec importer.Record) (*importer.ImportOneResult, error)
	ImportMany(ctx context.Context, recs []importer.Record) (*importer.BulkResult, error)
}

// WordsHandler serves the word import REST endpoints.
type WordsHandler struct {
	svc importService
	log *slog.Logger
	cfg config.ImportConfig
}

// NewWordsHandler creates a WordsHandler.
func NewWordsHandler(svc importService, logger *slog.Logger, cfg config.ImportConfig) *WordsHandler {
	return &WordsHandler{svc: svc, log: logger.With("handler", "words"), cfg: cfg}
}

type importOneResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	WordID      string `json:"wordId"`
	LevelSlug   string `json:"level_id"`
	ChapterSlug string `json:"chapter_id"`
}

// Create handles POST /api/words: one word, level and chapter created on the
// fly when missing.
func (h *WordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.ImportOne(r.Context(), importer.RecordFromMap(body))
	if err != nil {
		h.respondImportError(w, r, err)
		return
	}

	msg := "单词添加成功"
	if res.Updated {
		msg = "单词更新成功"
	}
	writeJSON(w, http.StatusOK, importOneResponse{
		Success:     true,
		Message:     msg,
		WordID:      res.WordID.String(),
		LevelSlug:   res.LevelSlug,
		ChapterSlug: res.ChapterSlug,
	})
}

type bulkImportRequest struct {
	JSONData json.RawMessage `json:"jsonData"`
}

type bulkStats struct {
	Total    int `json:"total"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
}

type bulkImportResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Stats   bulkStats `json:"stats"`
	Errors  []string  `json:"errors,omitempty"`
}

// Import handles POST /api/words/import: a whole batch in one transaction.
// Requires a valid bearer token.
func (h *WordsHandler) Import(w http.ResponseWriter, r *http.Request) {
	if _, ok := ctxutil.UserIDFromCtx(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req bulkImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	raws, err := decodeJSONData(req.JSONData)
	if err != nil {
		writeError(w, http.StatusBadRequest, "jsonData must be a JSON array or a JSON-encoded string of one")
		return
	}

	recs := make([]importer.Record, 0, len(raws))
	for _, m := range raws {
		recs = append(recs, importer.RecordFromMap(m))
	}

	res, err := h.svc.ImportMany(r.Context(), recs)
	if err != nil {
		h.respondImportError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, bulkImportResponse{
		Success: true,
		Message: "批量导入完成",
		Stats: bulkStats{
			Total:    res.Total,
			Imported: res.Imported,
			Skipped:  res.Skipped,
			Errors:   len(res.Errors),
		},
		Errors: res.DisplayErrors(h.cfg.ErrorDisplayLimit),
	})
}

// decodeJSONData accepts the two shapes clients send: an array of word
// objects, or that same array serialized into a JSON string.
func decodeJSONData(raw json.RawMessage) ([]map[string]any, error) {
	if len(raw) == 0 {
		return nil, errors.New("jsonData is empty")
	}

	var out []map[string]any
	if err := json.Unmarshal(raw, &out); err == nil {
		return out, nil
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(encoded), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (h *WordsHandler) respondImportError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.ErrorContext(r.Context(), "import failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
