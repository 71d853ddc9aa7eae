package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inferlab/inquest/internal/domain"
	"github.com/inferlab/inquest/internal/store"
)

// ArchiveHandler reads finished consultations back out of Postgres.
// The store is nil when the server runs without a database.
type ArchiveHandler struct {
	store domain.ArchiveStore
}

func NewArchiveHandler(store domain.ArchiveStore) *ArchiveHandler {
	return &ArchiveHandler{store: store}
}

// List returns recently archived consultations.
func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "archive not configured")
		return
	}

	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 500 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	records, err := h.store.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list archive")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"consultations": records,
		"count":         len(records),
	})
}

// GetByID returns one archived consultation.
func (h *ArchiveHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "archive not configured")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid consultation id")
		return
	}

	record, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "consultation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch consultation")
		return
	}

	writeJSON(w, http.StatusOK, record)
}
