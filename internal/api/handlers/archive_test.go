package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferlab/inquest/internal/domain"
	"github.com/inferlab/inquest/internal/store"
)

type stubArchive struct {
	records []domain.ConsultationRecord
}

func (s *stubArchive) Save(ctx context.Context, rec *domain.ConsultationRecord) error {
	s.records = append(s.records, *rec)
	return nil
}

func (s *stubArchive) GetByID(ctx context.Context, id uuid.UUID) (*domain.ConsultationRecord, error) {
	for i := range s.records {
		if s.records[i].ID == id {
			rec := s.records[i]
			return &rec, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *stubArchive) ListRecent(ctx context.Context, limit int) ([]domain.ConsultationRecord, error) {
	if limit > len(s.records) {
		limit = len(s.records)
	}
	return append([]domain.ConsultationRecord(nil), s.records[:limit]...), nil
}

func newArchiveRouter(archive domain.ArchiveStore) *chi.Mux {
	h := NewArchiveHandler(archive)
	r := chi.NewRouter()
	r.Route("/v1/archive", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
	})
	return r
}

func TestArchiveHandler_NotConfigured(t *testing.T) {
	r := newArchiveRouter(nil)

	w := doJSON(t, r, http.MethodGet, "/v1/archive", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(t, r, http.MethodGet, "/v1/archive/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestArchiveHandler_ListAndGet(t *testing.T) {
	first := domain.ConsultationRecord{
		ID:        uuid.New(),
		KBName:    "threshold",
		Contexts:  []string{"c"},
		Status:    domain.StatusDone,
		CreatedAt: time.Now().UTC(),
	}
	second := domain.ConsultationRecord{
		ID:        uuid.New(),
		KBName:    "threshold",
		Contexts:  []string{"c"},
		Status:    domain.StatusCancelled,
		CreatedAt: time.Now().UTC(),
	}
	archive := &stubArchive{records: []domain.ConsultationRecord{first, second}}
	r := newArchiveRouter(archive)

	w := doJSON(t, r, http.MethodGet, "/v1/archive", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Consultations []domain.ConsultationRecord `json:"consultations"`
		Count         int                         `json:"count"`
	}
	require.NoError(t, decodeInto(w, &list))
	assert.Equal(t, 2, list.Count)

	w = doJSON(t, r, http.MethodGet, "/v1/archive?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, decodeInto(w, &list))
	assert.Equal(t, 1, list.Count)

	w = doJSON(t, r, http.MethodGet, "/v1/archive/"+first.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeRecord(t, w)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, domain.StatusDone, got.Status)
}

func TestArchiveHandler_Errors(t *testing.T) {
	r := newArchiveRouter(&stubArchive{})

	tests := []struct {
		name string
		path string
		want int
	}{
		{"limit not a number", "/v1/archive?limit=abc", http.StatusBadRequest},
		{"limit too small", "/v1/archive?limit=0", http.StatusBadRequest},
		{"limit too large", "/v1/archive?limit=1000", http.StatusBadRequest},
		{"bad id", "/v1/archive/not-a-uuid", http.StatusBadRequest},
		{"missing record", "/v1/archive/" + uuid.NewString(), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
