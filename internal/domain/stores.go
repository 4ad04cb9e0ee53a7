package domain

import (
	"context"

	"github.com/google/uuid"
)

type SessionStore interface {
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status SessionStatus) error
	UpdateWindow(ctx context.Context, id uuid.UUID, windowStart, handoffCount int) error
}

type MessageStore interface {
	Create(ctx context.Context, m *Message) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]Message, error)
	ListFromSeq(ctx context.Context, sessionID uuid.UUID, fromSeq int) ([]Message, error)
	NextSeq(ctx context.Context, sessionID uuid.UUID) (int, error)
}

type BeliefStore interface {
	Get(ctx context.Context, sessionID uuid.UUID) (*BeliefState, error)
	Save(ctx context.Context, sessionID uuid.UUID, state *BeliefState) error
}

// CandidateStore reads and closes candidates. Per-turn candidate writes go
// through TurnStore so they commit atomically with the rest of the turn.
type CandidateStore interface {
	GetBySession(ctx context.Context, sessionID uuid.UUID) (*IdeaCandidate, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status CandidateStatus) error
}

type RiskStore interface {
	// Replace swaps the full risk list for a session. Risks are derived,
	// never diffed.
	Replace(ctx context.Context, sessionID uuid.UUID, risks []ViabilityRisk) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]ViabilityRisk, error)
}

type MemoryDocStore interface {
	Upsert(ctx context.Context, d *MemoryDocument) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]MemoryDocument, error)
	FindSimilar(ctx context.Context, sessionID uuid.UUID, embedding []float32, limit int) ([]MemoryDocument, error)
}

// TurnPersist is everything one turn writes. The store commits it in a single
// transaction so scores and narrative text can never land out of sync.
type TurnPersist struct {
	SessionID         uuid.UUID
	UserMessage       *Message
	AgentMessage      *Message
	State             *BeliefState
	Candidate         *IdeaCandidate
	Risks             []ViabilityRisk
	ConfirmationCount int
}

type TurnStore interface {
	SaveTurn(ctx context.Context, turn *TurnPersist) error
}

// LLMClient is the conversational collaborator. It returns free text which
// may or may not embed a structured JSON payload.
type LLMClient interface {
	Converse(ctx context.Context, systemPrompt string, history []Message) (string, error)
	SummarizeConversation(ctx context.Context, msgs []Message) (string, error)
}

// SearchClient returns a raw free-text search summary (with inline markdown
// links) for a query. Errors and empty text are tolerated by the caller.
type SearchClient interface {
	Search(ctx context.Context, query string) (string, error)
}

type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
