package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ideakiln/ideakiln/internal/domain"
)

type CandidateStore struct {
	db *pgxpool.Pool
}

func NewCandidateStore(db *pgxpool.Pool) *CandidateStore {
	return &CandidateStore{db: db}
}

func (s *CandidateStore) GetBySession(ctx context.Context, sessionID uuid.UUID) (*domain.IdeaCandidate, error) {
	c := &domain.IdeaCandidate{}
	err := s.db.QueryRow(ctx,
		`SELECT id, session_id, title, summary, confidence, viability, status, created_at, updated_at
		 FROM idea_candidates WHERE session_id = $1`,
		sessionID,
	).Scan(&c.ID, &c.SessionID, &c.Title, &c.Summary, &c.Confidence, &c.Viability, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *CandidateStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CandidateStatus) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE idea_candidates SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
