package signal

import (
	"strings"
	"testing"

	"github.com/ideakiln/ideakiln/internal/domain"
)

func TestExtractFromText_FrustrationWithGeography(t *testing.T) {
	delta := ExtractFromText("I'm so frustrated with how hard it is to find coworking spaces in Sydney", "")

	if delta.Frustration == nil {
		t.Fatal("expected a frustration to be detected")
	}
	if delta.Frustration.Severity != domain.SeverityHigh {
		t.Errorf("severity = %s, want high", delta.Frustration.Severity)
	}
	if !strings.Contains(delta.Frustration.Description, "coworking spaces") {
		t.Errorf("evidence should quote the surrounding text, got %q", delta.Frustration.Description)
	}

	if delta.Geography == nil {
		t.Fatal("expected geography from city mention")
	}
	if delta.Geography.Value != "Australia" {
		t.Errorf("geography = %q, want Australia", delta.Geography.Value)
	}
	if delta.Geography.Confidence != 0.7 {
		t.Errorf("geography confidence = %f, want 0.7", delta.Geography.Confidence)
	}
}

func TestExtractFromText_FrustrationTierOrder(t *testing.T) {
	// "so frustrated" (high) and "annoying" (low) in one message: the
	// strongest tier wins and only one frustration is emitted.
	delta := ExtractFromText("It's annoying, actually I'm so frustrated by the whole thing", "")
	if delta.Frustration == nil {
		t.Fatal("expected a frustration")
	}
	if delta.Frustration.Severity != domain.SeverityHigh {
		t.Errorf("severity = %s, want high (tier order)", delta.Frustration.Severity)
	}
}

func TestExtractFromText_ExpertiseYearsImpliesExpert(t *testing.T) {
	delta := ExtractFromText("I've been working in logistics for 12 years", "")

	if len(delta.Expertise) != 1 {
		t.Fatalf("expertise count = %d, want 1", len(delta.Expertise))
	}
	e := delta.Expertise[0]
	if e.Area != "logistics" {
		t.Errorf("area = %q, want logistics", e.Area)
	}
	if e.Depth != domain.DepthExpert {
		t.Errorf("depth = %s, want expert (12 years)", e.Depth)
	}
}

func TestExtractFromText_ExpertiseDefaultsCompetent(t *testing.T) {
	delta := ExtractFromText("I work in marketing, mostly content", "")
	if len(delta.Expertise) != 1 {
		t.Fatalf("expertise count = %d, want 1", len(delta.Expertise))
	}
	if delta.Expertise[0].Depth != domain.DepthCompetent {
		t.Errorf("depth = %s, want competent", delta.Expertise[0].Depth)
	}
}

func TestExtractFromText_Constraints(t *testing.T) {
	delta := ExtractFromText("I can give it 10 hours a week and I'd rather bootstrap with my own savings", "")

	if delta.Constraints == nil {
		t.Fatal("expected constraints")
	}
	if delta.Constraints.TimeHoursPerWeek == nil || *delta.Constraints.TimeHoursPerWeek != 10 {
		t.Errorf("hours = %v, want 10", delta.Constraints.TimeHoursPerWeek)
	}
	if delta.Constraints.Capital == nil || *delta.Constraints.Capital != domain.CapitalBootstrap {
		t.Errorf("capital = %v, want bootstrap", delta.Constraints.Capital)
	}
	if delta.Constraints.RiskTolerance != nil {
		t.Errorf("risk tolerance should stay unobserved, got %v", *delta.Constraints.RiskTolerance)
	}
}

func TestExtractFromText_GenuineInterest(t *testing.T) {
	delta := ExtractFromText("I'm passionate about urban gardening, I read about it constantly", "")
	if len(delta.Interests) != 1 {
		t.Fatalf("interests = %d, want 1", len(delta.Interests))
	}
	if !delta.Interests[0].Genuine {
		t.Error("interest should be marked genuine")
	}
}

func TestExtractFromText_NothingObserved(t *testing.T) {
	delta := ExtractFromText("We talked about the weather today", "")
	if !delta.IsEmpty() {
		t.Errorf("expected empty delta, got %+v", delta)
	}
}

func TestExtractFromText_ConfirmationAdoptsAgentFraming(t *testing.T) {
	agent := "So you want to build a SaaS for small businesses in Sydney?"
	delta := ExtractFromText("Exactly, that's the problem", agent)

	if delta.ProductType == nil {
		t.Fatal("expected product type from confirmed framing")
	}
	if delta.ProductType.Value != "SaaS" {
		t.Errorf("product type = %q, want SaaS", delta.ProductType.Value)
	}
	// Confirmed framing is weaker evidence than a direct statement.
	if delta.ProductType.Confidence >= ruleConfidenceDefault {
		t.Errorf("confirmed framing confidence = %f, want < %f", delta.ProductType.Confidence, ruleConfidenceDefault)
	}

	if delta.CustomerType == nil || delta.CustomerType.Value != "SMB" {
		t.Errorf("customer type = %v, want SMB", delta.CustomerType)
	}
	if delta.Geography == nil || delta.Geography.Value != "Australia" {
		t.Errorf("geography = %v, want Australia", delta.Geography)
	}
}

func TestExtractFromText_NonConfirmationIgnoresAgentReply(t *testing.T) {
	agent := "So you want to build a SaaS for small businesses in Sydney?"
	delta := ExtractFromText("No, more like a community thing", agent)
	if delta.ProductType != nil {
		t.Errorf("agent framing must not leak without a confirmation, got %+v", delta.ProductType)
	}
}

func TestIsConfirmation(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"Yes, that's it", true},
		{"exactly", true},
		{"Makes sense to me", true},
		{"No, not quite", false},
		{"I said yes to them yesterday", false},
	}
	for _, c := range cases {
		if got := IsConfirmation(c.text); got != c.want {
			t.Errorf("IsConfirmation(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestExtractFromText_ImpactVisionWidestScopeWins(t *testing.T) {
	delta := ExtractFromText("I want to help my community and eventually change the world", "")
	if delta.ImpactVision == nil {
		t.Fatal("expected impact vision")
	}
	if delta.ImpactVision.Level != domain.ImpactWorld {
		t.Errorf("level = %s, want world", delta.ImpactVision.Level)
	}
}
