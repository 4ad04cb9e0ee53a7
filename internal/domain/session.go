package domain

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionDiscarded SessionStatus = "discarded"
)

func ValidSessionStatus(s string) bool {
	switch SessionStatus(s) {
	case SessionActive, SessionCompleted, SessionDiscarded:
		return true
	}
	return false
}

// Session is one interview. All per-turn processing for a session is strictly
// sequential; WindowStart marks where the live context begins after a handoff.
type Session struct {
	ID                uuid.UUID     `json:"id"`
	Status            SessionStatus `json:"status"`
	ConfirmationCount int           `json:"confirmation_count"`
	HandoffCount      int           `json:"handoff_count"`
	WindowStart       int           `json:"window_start"` // message seq where the live window begins
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

type MessageRole string

const (
	RoleUser  MessageRole = "user"
	RoleAgent MessageRole = "agent"
	RoleMemo  MessageRole = "memo" // injected memory document after a handoff
)

type Message struct {
	ID        uuid.UUID   `json:"id"`
	SessionID uuid.UUID   `json:"session_id"`
	Seq       int         `json:"seq"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// TurnResult is what the core emits to the UI collaborator after each turn.
type TurnResult struct {
	Reply                string              `json:"reply"`
	Buttons              []string            `json:"buttons,omitempty"`
	ClarifyingQuestions  []string            `json:"clarifying_questions,omitempty"`
	Confidence           int                 `json:"confidence"`
	Viability            int                 `json:"viability"`
	Risks                []ViabilityRisk     `json:"risks"`
	Candidate            *IdeaCandidate      `json:"candidate,omitempty"`
	RequiresIntervention bool                `json:"requires_intervention"`
	Vagueness            VaguenessAssessment `json:"vagueness"`
	HandoffPerformed     bool                `json:"handoff_performed,omitempty"`
}

// MemoryDocument is one human-readable markdown document produced at handoff.
type MemoryDocument struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
