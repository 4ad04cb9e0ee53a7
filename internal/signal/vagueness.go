package signal

import (
	"strings"

	"github.com/ideakiln/ideakiln/internal/domain"
)

// Issue weights and concrete-evidence credits for the vagueness score.
const (
	weightAbstractProblem = 25
	weightUndefinedUser   = 25
	weightHandWavy        = 20
	weightMissingScope    = 15
	weightBuzzwords       = 15

	creditFrustrations  = 15
	creditExpertise     = 10
	creditNarrowingSlot = 10
	creditSummary       = 15

	vagueThreshold        = 50
	buzzwordFlagCount     = 3
	maxClarifyingQuestion = 2
)

var clarifyingQuestions = map[domain.VaguenessIssue]string{
	domain.IssueAbstractProblem:  "What's a specific moment where you personally hit this problem?",
	domain.IssueUndefinedUser:    "If you could only help one type of person first, who would it be?",
	domain.IssueHandWavySolution: "Walk me through what the product actually does, step by step.",
	domain.IssueMissingScope:     "Is this a product, a service, or something else — and for whom, where?",
	domain.IssueBuzzwordDensity:  "Strip the buzzwords for a second: what does it do in plain words?",
}

// AssessVagueness runs the second pattern pass over the recent conversation
// plus the current belief state and scores how abstract the idea still is.
// recentUserTexts should hold at most the last 10 user turns.
func AssessVagueness(candidate *domain.IdeaCandidate, sd domain.SelfDiscovery, narrowing domain.Narrowing, recentUserTexts []string, totalMessages int) domain.VaguenessAssessment {
	recent := strings.ToLower(strings.Join(recentUserTexts, "\n"))

	var issues []domain.VaguenessIssue
	score := 0

	// Abstract problem only counts before any concrete frustration landed.
	if len(sd.Frustrations) == 0 && abstractProblemCue.MatchString(recent) {
		issues = append(issues, domain.IssueAbstractProblem)
		score += weightAbstractProblem
	}

	if undefinedUserCue.MatchString(recent) {
		issues = append(issues, domain.IssueUndefinedUser)
		score += weightUndefinedUser
	}

	// Hand-wavy solution only matters while the candidate has no real summary.
	if (candidate == nil || len(candidate.Summary) < 20) && handWavyCue.MatchString(recent) {
		issues = append(issues, domain.IssueHandWavySolution)
		score += weightHandWavy
	}

	// Missing scope only after the conversation has had room to narrow.
	if totalMessages >= 10 &&
		!narrowing.ProductType.IsSet() && !narrowing.CustomerType.IsSet() && !narrowing.Geography.IsSet() {
		issues = append(issues, domain.IssueMissingScope)
		score += weightMissingScope
	}

	if countBuzzwords(recent) >= buzzwordFlagCount {
		issues = append(issues, domain.IssueBuzzwordDensity)
		score += weightBuzzwords
	}

	// Concrete evidence already on the table earns credit back.
	if len(sd.Frustrations) > 0 {
		score -= creditFrustrations
	}
	if len(sd.Expertise) > 0 {
		score -= creditExpertise
	}
	if narrowing.ProductType.IsSet() || narrowing.CustomerType.IsSet() || narrowing.Geography.IsSet() {
		score -= creditNarrowingSlot
	}
	if candidate != nil && len(candidate.Summary) > 50 {
		score -= creditSummary
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	// At most two questions, in detection order, to avoid interrogation
	// fatigue.
	var questions []string
	for _, issue := range issues {
		if len(questions) == maxClarifyingQuestion {
			break
		}
		if q, ok := clarifyingQuestions[issue]; ok {
			questions = append(questions, q)
		}
	}

	return domain.VaguenessAssessment{
		IsVague:             score >= vagueThreshold,
		Score:               score,
		Issues:              issues,
		ClarifyingQuestions: questions,
	}
}

func countBuzzwords(text string) int {
	n := 0
	for _, b := range buzzwords {
		if strings.Contains(text, b) {
			n++
		}
	}
	return n
}
