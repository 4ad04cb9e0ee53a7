package domain

import "github.com/google/uuid"

type RiskType string

const (
	RiskImpossible       RiskType = "impossible"
	RiskUnrealistic      RiskType = "unrealistic"
	RiskTooComplex       RiskType = "too_complex"
	RiskTooVague         RiskType = "too_vague"
	RiskSaturatedMarket  RiskType = "saturated_market"
	RiskWrongTiming      RiskType = "wrong_timing"
	RiskResourceMismatch RiskType = "resource_mismatch"
)

type RiskSeverity string

const (
	RiskSeverityLow      RiskSeverity = "low"
	RiskSeverityMedium   RiskSeverity = "medium"
	RiskSeverityHigh     RiskSeverity = "high"
	RiskSeverityCritical RiskSeverity = "critical"
)

// ViabilityRisk is one derived risk against the current idea. Risks are
// recomputed from the BeliefState every turn and replaced wholesale.
type ViabilityRisk struct {
	SessionID   uuid.UUID    `json:"session_id,omitempty"`
	Type        RiskType     `json:"type"`
	Severity    RiskSeverity `json:"severity"`
	Description string       `json:"description"`
	Source      string       `json:"source,omitempty"`
}
