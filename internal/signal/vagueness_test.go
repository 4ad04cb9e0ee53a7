package signal

import (
	"testing"

	"github.com/ideakiln/ideakiln/internal/domain"
)

const vagueRant = "Everyone needs this ai-powered disruptive revolutionary platform, we'll figure it out later"

func TestAssessVagueness_FlagsVagueIdea(t *testing.T) {
	got := AssessVagueness(nil, domain.SelfDiscovery{}, domain.Narrowing{}, []string{vagueRant}, 4)

	// undefined user (25) + hand-wavy (20) + 3 buzzwords (15) = 60.
	if got.Score != 60 {
		t.Errorf("score = %d, want 60", got.Score)
	}
	if !got.IsVague {
		t.Error("score 60 should be vague")
	}
	wantIssues := []domain.VaguenessIssue{
		domain.IssueUndefinedUser,
		domain.IssueHandWavySolution,
		domain.IssueBuzzwordDensity,
	}
	if len(got.Issues) != len(wantIssues) {
		t.Fatalf("issues = %v, want %v", got.Issues, wantIssues)
	}
	for i, issue := range wantIssues {
		if got.Issues[i] != issue {
			t.Errorf("issue[%d] = %s, want %s", i, got.Issues[i], issue)
		}
	}
}

func TestAssessVagueness_AtMostTwoQuestions(t *testing.T) {
	got := AssessVagueness(nil, domain.SelfDiscovery{}, domain.Narrowing{}, []string{vagueRant}, 4)
	if len(got.ClarifyingQuestions) != 2 {
		t.Errorf("questions = %d, want 2 (capped)", len(got.ClarifyingQuestions))
	}
}

func TestAssessVagueness_ConcreteEvidenceEarnsCredit(t *testing.T) {
	sd := domain.SelfDiscovery{
		Frustrations: []domain.Frustration{{Description: "booking coworking space is painful", Severity: domain.SeverityHigh}},
		Expertise:    []domain.Expertise{{Area: "logistics", Depth: domain.DepthExpert}},
	}
	narrowing := domain.Narrowing{
		ProductType: domain.ConfidentValue{Value: "SaaS", Confidence: 0.7},
	}
	candidate := &domain.IdeaCandidate{
		Title:   "Coworking finder",
		Summary: "A booking tool that aggregates coworking availability across Sydney in real time.",
	}

	got := AssessVagueness(candidate, sd, narrowing, []string{vagueRant}, 4)

	// Hand-wavy no longer gates (summary is substantial): 25 + 15 = 40,
	// minus credits 15 + 10 + 10 + 15 leaves zero.
	if got.Score != 0 {
		t.Errorf("score = %d, want 0", got.Score)
	}
	if got.IsVague {
		t.Error("well-evidenced state must not be vague")
	}
}

func TestAssessVagueness_MissingScopeNeedsRoomToNarrow(t *testing.T) {
	early := AssessVagueness(nil, domain.SelfDiscovery{}, domain.Narrowing{}, []string{"just a thought"}, 4)
	for _, issue := range early.Issues {
		if issue == domain.IssueMissingScope {
			t.Error("missing scope must not fire before message 10")
		}
	}

	late := AssessVagueness(nil, domain.SelfDiscovery{}, domain.Narrowing{}, []string{"just a thought"}, 12)
	found := false
	for _, issue := range late.Issues {
		if issue == domain.IssueMissingScope {
			found = true
		}
	}
	if !found {
		t.Error("missing scope should fire after 10 messages with all slots empty")
	}
}

func TestAssessVagueness_AbstractProblemGatedByFrustrations(t *testing.T) {
	text := []string{"I just want to make the world better"}

	without := AssessVagueness(nil, domain.SelfDiscovery{}, domain.Narrowing{}, text, 4)
	if len(without.Issues) == 0 || without.Issues[0] != domain.IssueAbstractProblem {
		t.Errorf("issues = %v, want abstract_problem first", without.Issues)
	}

	sd := domain.SelfDiscovery{
		Frustrations: []domain.Frustration{{Description: "x", Severity: domain.SeverityLow}},
	}
	with := AssessVagueness(nil, sd, domain.Narrowing{}, text, 4)
	for _, issue := range with.Issues {
		if issue == domain.IssueAbstractProblem {
			t.Error("abstract problem must not fire once a concrete frustration landed")
		}
	}
}

func TestAssessVagueness_ScoreNeverNegative(t *testing.T) {
	sd := domain.SelfDiscovery{
		Frustrations: []domain.Frustration{{Description: "x", Severity: domain.SeverityHigh}},
		Expertise:    []domain.Expertise{{Area: "y", Depth: domain.DepthExpert}},
	}
	narrowing := domain.Narrowing{CustomerType: domain.ConfidentValue{Value: "B2B", Confidence: 0.9}}
	candidate := &domain.IdeaCandidate{Summary: "A very concrete and specific plan with a clear customer and market."}

	got := AssessVagueness(candidate, sd, narrowing, []string{"totally concrete text"}, 4)
	if got.Score != 0 {
		t.Errorf("score = %d, want clamp at 0", got.Score)
	}
}
