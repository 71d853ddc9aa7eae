package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/inferlab/inquest/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultListLimit = 20

// ArchiveStore persists finished consultations in Postgres.
type ArchiveStore struct {
	db *pgxpool.Pool
}

func NewArchiveStore(db *pgxpool.Pool) *ArchiveStore {
	return &ArchiveStore{db: db}
}

func (s *ArchiveStore) Save(ctx context.Context, rec *domain.ConsultationRecord) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO consultations (id, kb_name, contexts, status, findings, transcript, created_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.KBName, rec.Contexts, rec.Status, rec.Findings, rec.Transcript, rec.CreatedAt, rec.FinishedAt,
	)
	return err
}

func (s *ArchiveStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ConsultationRecord, error) {
	rec := &domain.ConsultationRecord{}
	err := s.db.QueryRow(ctx,
		`SELECT id, kb_name, contexts, status, findings, transcript, created_at, finished_at
		 FROM consultations WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.KBName, &rec.Contexts, &rec.Status, &rec.Findings, &rec.Transcript, &rec.CreatedAt, &rec.FinishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *ArchiveStore) ListRecent(ctx context.Context, limit int) ([]domain.ConsultationRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.Query(ctx,
		`SELECT id, kb_name, contexts, status, findings, transcript, created_at, finished_at
		 FROM consultations ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.ConsultationRecord
	for rows.Next() {
		var rec domain.ConsultationRecord
		if err := rows.Scan(&rec.ID, &rec.KBName, &rec.Contexts, &rec.Status, &rec.Findings, &rec.Transcript, &rec.CreatedAt, &rec.FinishedAt); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
