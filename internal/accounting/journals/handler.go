package journals

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fmc-saas/fleet/internal/accounting/shared"
	"github.com/fmc-saas/fleet/internal/platform/httpx"
	internalShared "github.com/fmc-saas/fleet/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list journals", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"journal_entries": entries})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid journal id", httpx.ErrValidation))
		return
	}
	entry, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrJournalNotFound) {
			httpx.RespondError(w, fmt.Errorf("%w: journal entry %d", httpx.ErrNotFound, id))
			return
		}
		h.logger.Error("get journal", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

func (h *Handler) Void(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid journal id", httpx.ErrValidation))
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid JSON body", httpx.ErrValidation))
		return
	}
	entry, err := h.service.VoidJournal(r.Context(), VoidInput{
		EntryID: id,
		ActorID: internalShared.ActorID(r.Context()),
		Reason:  req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrJournalNotFound):
			httpx.RespondError(w, fmt.Errorf("%w: journal entry %d", httpx.ErrNotFound, id))
		case errors.Is(err, shared.ErrInvalidStatus):
			httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		default:
			h.logger.Error("void journal", slog.Any("error", err), slog.Int64("id", id),
				slog.Int64("actor", internalShared.ActorID(r.Context())))
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}
