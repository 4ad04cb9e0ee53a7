package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ideakiln/ideakiln/internal/domain"
)

// BeliefStore persists the full belief state as one JSONB row per session.
// The state is small and always read and written whole, so a document column
// beats a table per signal type.
type BeliefStore struct {
	db *pgxpool.Pool
}

func NewBeliefStore(db *pgxpool.Pool) *BeliefStore {
	return &BeliefStore{db: db}
}

func (s *BeliefStore) Get(ctx context.Context, sessionID uuid.UUID) (*domain.BeliefState, error) {
	var raw []byte
	err := s.db.QueryRow(ctx,
		`SELECT state FROM belief_states WHERE session_id = $1`,
		sessionID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	state := &domain.BeliefState{}
	if err := json.Unmarshal(raw, state); err != nil {
		return nil, fmt.Errorf("unmarshal belief state: %w", err)
	}
	return state, nil
}

func (s *BeliefStore) Save(ctx context.Context, sessionID uuid.UUID, state *domain.BeliefState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal belief state: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO belief_states (session_id, state)
		 VALUES ($1, $2)
		 ON CONFLICT (session_id) DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()`,
		sessionID, raw,
	)
	return err
}
