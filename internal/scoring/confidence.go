// Package scoring reduces a BeliefState to the two bounded scores the UI
// shows: confidence (how well-defined the idea is) and viability (how
// realistic it is), plus the derived risk list.
package scoring

import "github.com/ideakiln/ideakiln/internal/domain"

// Component caps for the confidence score. The weights sum to 100.
const (
	maxProblemDefinition = 25
	maxTargetUser        = 20
	maxSolutionDirection = 20
	maxDifferentiation   = 20
	maxUserFit           = 15
)

// ConfidenceBreakdown is the per-component contribution to the total.
type ConfidenceBreakdown struct {
	ProblemDefinition int `json:"problem_definition"`
	TargetUser        int `json:"target_user"`
	SolutionDirection int `json:"solution_direction"`
	Differentiation   int `json:"differentiation"`
	UserFit           int `json:"user_fit"`
}

// ConfidenceResult is the bounded total plus its breakdown.
type ConfidenceResult struct {
	Total      int                 `json:"total"` // 0-100
	Components ConfidenceBreakdown `json:"components"`
}

// CalculateConfidence maps the belief state to a 0-100 measure of how
// well-defined the idea is. Every component defaults to zero on an empty
// state; the result is always a clamped integer, never NaN.
func CalculateConfidence(state *domain.BeliefState, candidate *domain.IdeaCandidate, userConfirmationCount int) ConfidenceResult {
	if state == nil {
		state = domain.NewBeliefState()
	}

	var b ConfidenceBreakdown
	b.ProblemDefinition = scoreProblemDefinition(state)
	b.TargetUser = scoreTargetUser(state.Narrowing)
	b.SolutionDirection = scoreSolutionDirection(state.Narrowing)
	b.Differentiation = scoreDifferentiation(state.MarketDiscovery)
	b.UserFit = scoreUserFit(state.SelfDiscovery, userConfirmationCount)

	total := b.ProblemDefinition + b.TargetUser + b.SolutionDirection + b.Differentiation + b.UserFit
	return ConfidenceResult{Total: clampScore(total), Components: b}
}

// scoreProblemDefinition rewards concrete frustrations, scaled by severity,
// plus any market validation of the pain.
func scoreProblemDefinition(state *domain.BeliefState) int {
	score := 0
	for _, f := range state.SelfDiscovery.Frustrations {
		switch f.Severity {
		case domain.SeverityHigh:
			score += 10
		case domain.SeverityMedium:
			score += 7
		default:
			score += 4
		}
	}
	if score > 18 {
		score = 18
	}
	if len(state.MarketDiscovery.Gaps) > 0 || len(state.MarketDiscovery.Trends) > 0 {
		score += 7
	}
	return capAt(score, maxProblemDefinition)
}

func scoreTargetUser(n domain.Narrowing) int {
	score := int(n.CustomerType.Confidence*12) + int(n.Geography.Confidence*8)
	return capAt(score, maxTargetUser)
}

func scoreSolutionDirection(n domain.Narrowing) int {
	score := int(n.ProductType.Confidence*12) + int(n.TechnicalDepth.Confidence*8)
	return capAt(score, maxSolutionDirection)
}

func scoreDifferentiation(md domain.MarketDiscovery) int {
	score := 0
	if c := len(md.Competitors); c > 0 {
		score += min(c*4, 10)
	}
	if g := len(md.Gaps); g > 0 {
		score += min(g*5, 10)
	}
	return capAt(score, maxDifferentiation)
}

func scoreUserFit(sd domain.SelfDiscovery, confirmations int) int {
	score := 0
	for _, e := range sd.Expertise {
		if e.Depth == domain.DepthExpert {
			score += 7
		} else {
			score += 4
		}
	}
	if score > 7 {
		score = 7
	}
	for _, i := range sd.Interests {
		if i.Genuine {
			score += 4
			break
		}
	}
	score += min(confirmations*2, 6)
	return capAt(score, maxUserFit)
}

func capAt(v, limit int) int {
	if v > limit {
		return limit
	}
	if v < 0 {
		return 0
	}
	return v
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
