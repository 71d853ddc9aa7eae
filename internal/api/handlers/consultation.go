package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inferlab/inquest/internal/service"
)

// ConsultationHandler exposes consultation sessions over HTTP.
type ConsultationHandler struct {
	svc *service.ConsultationService
}

func NewConsultationHandler(svc *service.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{svc: svc}
}

type startConsultationRequest struct {
	Contexts []string `json:"contexts"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

// Create starts a consultation. An empty body (or empty contexts list)
// consults every context the knowledge base declares.
func (h *ConsultationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req startConsultationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.svc.Start(r.Context(), req.Contexts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// Get returns the current state of one consultation.
func (h *ConsultationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid consultation id")
		return
	}

	record, err := h.svc.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "consultation not found")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// Answer feeds a reply to a consultation waiting on a question.
func (h *ConsultationHandler) Answer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid consultation id")
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Answer == "" {
		writeError(w, http.StatusBadRequest, "answer is required")
		return
	}

	record, err := h.svc.Answer(id, req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, "consultation not found")
		case errors.Is(err, service.ErrSessionDone):
			writeError(w, http.StatusConflict, "consultation already finished")
		case errors.Is(err, service.ErrSessionNotWaiting):
			writeError(w, http.StatusConflict, "consultation is not awaiting input")
		default:
			writeError(w, http.StatusInternalServerError, "failed to submit answer")
		}
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// Cancel stops a running consultation and returns its final record.
func (h *ConsultationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid consultation id")
		return
	}

	if err := h.svc.Cancel(id); err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, "consultation not found")
		case errors.Is(err, service.ErrSessionDone):
			writeError(w, http.StatusConflict, "consultation already finished")
		default:
			writeError(w, http.StatusInternalServerError, "failed to cancel consultation")
		}
		return
	}

	record, err := h.svc.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "consultation not found")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// Findings returns the goal conclusions of a finished consultation.
func (h *ConsultationHandler) Findings(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid consultation id")
		return
	}

	findings, err := h.svc.Findings(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, "consultation not found")
		case errors.Is(err, service.ErrSessionNotDone):
			writeError(w, http.StatusConflict, "consultation has not finished")
		default:
			writeError(w, http.StatusInternalServerError, "failed to fetch findings")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":       id,
		"findings": findings,
	})
}

// List returns every live consultation, newest first.
func (h *ConsultationHandler) List(w http.ResponseWriter, r *http.Request) {
	records := h.svc.List()

	writeJSON(w, http.StatusOK, map[string]any{
		"consultations": records,
		"count":         len(records),
	})
}
