package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ideakiln/ideakiln/internal/domain"
)

type SessionStore struct {
	db *pgxpool.Pool
}

func NewSessionStore(db *pgxpool.Pool) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Create(ctx context.Context, sess *domain.Session) error {
	if sess.Status == "" {
		sess.Status = domain.SessionActive
	}

	return s.db.QueryRow(ctx,
		`INSERT INTO sessions (status, confirmation_count, handoff_count, window_start)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		sess.Status, sess.ConfirmationCount, sess.HandoffCount, sess.WindowStart,
	).Scan(&sess.ID, &sess.CreatedAt, &sess.UpdatedAt)
}

func (s *SessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	sess := &domain.Session{}
	err := s.db.QueryRow(ctx,
		`SELECT id, status, confirmation_count, handoff_count, window_start, created_at, updated_at
		 FROM sessions WHERE id = $1`,
		id,
	).Scan(&sess.ID, &sess.Status, &sess.ConfirmationCount, &sess.HandoffCount, &sess.WindowStart, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

func (s *SessionStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SessionStatus) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE sessions SET status = $2, updated_at = NOW() WHERE id = $1`,
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

func (s *SessionStore) UpdateWindow(ctx context.Context, id uuid.UUID, windowStart, handoffCount int) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE sessions SET window_start = $2, handoff_count = $3, updated_at = NOW() WHERE id = $1`,
		id, windowStart, handoffCount,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
