package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/ideakiln/ideakiln/internal/domain"
)

type MemoryDocStore struct {
	db *pgxpool.Pool
}

func NewMemoryDocStore(db *pgxpool.Pool) *MemoryDocStore {
	return &MemoryDocStore{db: db}
}

// Upsert keeps the latest version of each named document per session.
// Handoffs regenerate the whole set; older content is overwritten.
func (s *MemoryDocStore) Upsert(ctx context.Context, d *domain.MemoryDocument) error {
	var embedding *pgvector.Vector
	if len(d.Embedding) > 0 {
		v := pgvector.NewVector(d.Embedding)
		embedding = &v
	}

	return s.db.QueryRow(ctx,
		`INSERT INTO memory_documents (session_id, name, content, embedding)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (session_id, name) DO UPDATE SET
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			created_at = NOW()
		 RETURNING id, created_at`,
		d.SessionID, d.Name, d.Content, embedding,
	).Scan(&d.ID, &d.CreatedAt)
}

func (s *MemoryDocStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.MemoryDocument, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, session_id, name, content, created_at
		 FROM memory_documents WHERE session_id = $1 ORDER BY name`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.MemoryDocument
	for rows.Next() {
		var d domain.MemoryDocument
		if err := rows.Scan(&d.ID, &d.SessionID, &d.Name, &d.Content, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// FindSimilar returns the session's documents nearest to the query
// embedding by cosine distance.
func (s *MemoryDocStore) FindSimilar(ctx context.Context, sessionID uuid.UUID, embedding []float32, limit int) ([]domain.MemoryDocument, error) {
	if limit <= 0 {
		limit = 3
	}
	vec := pgvector.NewVector(embedding)

	rows, err := s.db.Query(ctx,
		`SELECT id, session_id, name, content, created_at
		 FROM memory_documents
		 WHERE session_id = $1 AND embedding IS NOT NULL
		 ORDER BY embedding <=> $2
		 LIMIT $3`,
		sessionID, vec, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.MemoryDocument
	for rows.Next() {
		var d domain.MemoryDocument
		if err := rows.Scan(&d.ID, &d.SessionID, &d.Name, &d.Content, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
