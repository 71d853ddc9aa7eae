package domain

import (
	"context"

	"github.com/google/uuid"
)

type ArchiveStore interface {
	Save(ctx context.Context, rec *ConsultationRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*ConsultationRecord, error)
	ListRecent(ctx context.Context, limit int) ([]ConsultationRecord, error)
}
