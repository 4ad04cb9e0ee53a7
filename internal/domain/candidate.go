package domain

import (
	"time"

	"github.com/google/uuid"
)

type CandidateStatus string

const (
	CandidateForming   CandidateStatus = "forming"
	CandidateActive    CandidateStatus = "active"
	CandidateSaved     CandidateStatus = "saved"
	CandidateDiscarded CandidateStatus = "discarded"
	CandidateCaptured  CandidateStatus = "captured"
)

func ValidCandidateStatus(s string) bool {
	switch CandidateStatus(s) {
	case CandidateForming, CandidateActive, CandidateSaved, CandidateDiscarded, CandidateCaptured:
		return true
	}
	return false
}

// IsTerminal reports whether the candidate has reached an end state.
func (s CandidateStatus) IsTerminal() bool {
	return s == CandidateCaptured || s == CandidateDiscarded
}

// CandidateDisplayThreshold is the confidence score at which a forming idea
// first materializes as a candidate.
const CandidateDisplayThreshold = 30

// IdeaCandidate is the idea taking shape over the interview. Confidence and
// viability are always recomputed from the BeliefState, never nudged in place.
type IdeaCandidate struct {
	ID         uuid.UUID       `json:"id"`
	SessionID  uuid.UUID       `json:"session_id"`
	Title      string          `json:"title"`
	Summary    string          `json:"summary,omitempty"`
	Confidence int             `json:"confidence"` // 0-100
	Viability  int             `json:"viability"`  // 0-100
	Status     CandidateStatus `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
