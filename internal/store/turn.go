package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ideakiln/ideakiln/internal/domain"
)

// TurnStore commits everything one turn writes in a single transaction, so
// the transcript, belief state, candidate scores and risks never land out
// of sync with each other.
type TurnStore struct {
	db *pgxpool.Pool
}

func NewTurnStore(db *pgxpool.Pool) *TurnStore {
	return &TurnStore{db: db}
}

func (s *TurnStore) SaveTurn(ctx context.Context, turn *domain.TurnPersist) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin turn: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if turn.UserMessage != nil {
		m := turn.UserMessage
		if err := tx.QueryRow(ctx,
			`INSERT INTO messages (session_id, seq, role, content)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at`,
			m.SessionID, m.Seq, m.Role, m.Content,
		).Scan(&m.ID, &m.CreatedAt); err != nil {
			return fmt.Errorf("save user message: %w", err)
		}
	}

	if turn.AgentMessage != nil {
		m := turn.AgentMessage
		if err := tx.QueryRow(ctx,
			`INSERT INTO messages (session_id, seq, role, content)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at`,
			m.SessionID, m.Seq, m.Role, m.Content,
		).Scan(&m.ID, &m.CreatedAt); err != nil {
			return fmt.Errorf("save agent message: %w", err)
		}
	}

	if turn.State != nil {
		raw, err := json.Marshal(turn.State)
		if err != nil {
			return fmt.Errorf("marshal belief state: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO belief_states (session_id, state)
			 VALUES ($1, $2)
			 ON CONFLICT (session_id) DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()`,
			turn.SessionID, raw,
		); err != nil {
			return fmt.Errorf("save belief state: %w", err)
		}
	}

	if turn.Candidate != nil {
		c := turn.Candidate
		if c.Status == "" {
			c.Status = domain.CandidateForming
		}
		if err := tx.QueryRow(ctx,
			`INSERT INTO idea_candidates (session_id, title, summary, confidence, viability, status)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (session_id) DO UPDATE SET
				title = EXCLUDED.title,
				summary = EXCLUDED.summary,
				confidence = EXCLUDED.confidence,
				viability = EXCLUDED.viability,
				status = EXCLUDED.status,
				updated_at = NOW()
			 RETURNING id, created_at, updated_at`,
			c.SessionID, c.Title, c.Summary, c.Confidence, c.Viability, c.Status,
		).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return fmt.Errorf("save candidate: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM viability_risks WHERE session_id = $1`, turn.SessionID); err != nil {
		return fmt.Errorf("clear risks: %w", err)
	}
	for _, r := range turn.Risks {
		if _, err := tx.Exec(ctx,
			`INSERT INTO viability_risks (session_id, type, severity, description, source)
			 VALUES ($1, $2, $3, $4, $5)`,
			turn.SessionID, r.Type, r.Severity, r.Description, r.Source,
		); err != nil {
			return fmt.Errorf("save risk: %w", err)
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE sessions SET confirmation_count = $2, updated_at = NOW() WHERE id = $1`,
		turn.SessionID, turn.ConfirmationCount,
	); err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit turn: %w", err)
	}
	return nil
}
