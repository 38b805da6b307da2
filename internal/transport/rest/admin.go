package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linmiao/cihui-backend/internal/domain"
	"github.com/linmiao/cihui-backend/internal/transport/middleware"
)

type chapterDeleter interface {
	DeleteChapter(ctx context.Context, slug string) (int64, error)
}

// AdminHandler serves admin REST endpoints.
type AdminHandler struct {
	svc chapterDeleter
	log *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(svc chapterDeleter, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, log: logger.With("handler", "admin")}
}

// DeleteChapter handles DELETE /api/admin/chapters/{slug}. The chapter's
// words are removed with it.
func (h *AdminHandler) DeleteChapter(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	slug := r.PathValue("slug")
	removed, err := h.svc.DeleteChapter(r.Context(), slug)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "chapter not found")
		case errors.Is(err, domain.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.ErrorContext(r.Context(), "delete chapter",
				slog.String("slug", slug), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "章节已删除",
		"words_removed": removed,
	})
}

func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		writeError(w, http.StatusForbidden, "forbidden")
		return false
	}
	return true
}
