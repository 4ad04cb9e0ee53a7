package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ideakiln/ideakiln/internal/domain"
)

type RiskStore struct {
	db *pgxpool.Pool
}

func NewRiskStore(db *pgxpool.Pool) *RiskStore {
	return &RiskStore{db: db}
}

// Replace swaps the session's risk list wholesale. Risks are recomputed
// every turn, so a delete and insert keeps the table an exact mirror.
func (s *RiskStore) Replace(ctx context.Context, sessionID uuid.UUID, risks []domain.ViabilityRisk) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM viability_risks WHERE session_id = $1`, sessionID); err != nil {
		return err
	}

	for _, r := range risks {
		if _, err := tx.Exec(ctx,
			`INSERT INTO viability_risks (session_id, type, severity, description, source)
			 VALUES ($1, $2, $3, $4, $5)`,
			sessionID, r.Type, r.Severity, r.Description, r.Source,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *RiskStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.ViabilityRisk, error) {
	rows, err := s.db.Query(ctx,
		`SELECT session_id, type, severity, description, source
		 FROM viability_risks WHERE session_id = $1 ORDER BY severity, type`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var risks []domain.ViabilityRisk
	for rows.Next() {
		var r domain.ViabilityRisk
		if err := rows.Scan(&r.SessionID, &r.Type, &r.Severity, &r.Description, &r.Source); err != nil {
			return nil, err
		}
		risks = append(risks, r)
	}
	return risks, rows.Err()
}
