package domain

import (
	"time"

	"github.com/google/uuid"
)

type ConsultationStatus string

const (
	StatusRunning       ConsultationStatus = "running"
	StatusAwaitingInput ConsultationStatus = "awaiting_input"
	StatusDone          ConsultationStatus = "done"
	StatusFailed        ConsultationStatus = "failed"
	StatusCancelled     ConsultationStatus = "cancelled"
)

func ValidConsultationStatus(s string) bool {
	switch ConsultationStatus(s) {
	case StatusRunning, StatusAwaitingInput, StatusDone, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the consultation has stopped for good.
func (s ConsultationStatus) Terminal() bool {
	switch s {
	case StatusDone, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// ConsultationRecord is the observable state of one consultation session
// and, once terminal, its archived outcome. Question holds the pending
// prompt while the session awaits input and is empty otherwise.
type ConsultationRecord struct {
	ID         uuid.UUID                                `json:"id"`
	KBName     string                                   `json:"kb_name"`
	Contexts   []string                                 `json:"contexts"`
	Status     ConsultationStatus                       `json:"status"`
	Question   string                                   `json:"question,omitempty"`
	Findings   map[string]map[string]map[string]float64 `json:"findings,omitempty"`
	Transcript []string                                 `json:"transcript,omitempty"`
	CreatedAt  time.Time                                `json:"created_at"`
	FinishedAt time.Time                                `json:"finished_at"`
}
