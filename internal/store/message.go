package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ideakiln/ideakiln/internal/domain"
)

type MessageStore struct {
	db *pgxpool.Pool
}

func NewMessageStore(db *pgxpool.Pool) *MessageStore {
	return &MessageStore{db: db}
}

func (s *MessageStore) Create(ctx context.Context, m *domain.Message) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO messages (session_id, seq, role, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		m.SessionID, m.Seq, m.Role, m.Content,
	).Scan(&m.ID, &m.CreatedAt)
}

func (s *MessageStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.Message, error) {
	return s.list(ctx,
		`SELECT id, session_id, seq, role, content, created_at
		 FROM messages WHERE session_id = $1 ORDER BY seq`,
		sessionID)
}

func (s *MessageStore) ListFromSeq(ctx context.Context, sessionID uuid.UUID, fromSeq int) ([]domain.Message, error) {
	return s.list(ctx,
		`SELECT id, session_id, seq, role, content, created_at
		 FROM messages WHERE session_id = $1 AND seq >= $2 ORDER BY seq`,
		sessionID, fromSeq)
}

func (s *MessageStore) list(ctx context.Context, query string, args ...any) ([]domain.Message, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Seq, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *MessageStore) NextSeq(ctx context.Context, sessionID uuid.UUID) (int, error) {
	var next int
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM messages WHERE session_id = $1`,
		sessionID,
	).Scan(&next)
	if err != nil {
		return 0, err
	}
	return next, nil
}
