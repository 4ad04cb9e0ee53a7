package scoring

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ideakiln/ideakiln/internal/domain"
)

// Deduction caps for the viability score. Viability starts at 100 and only
// ever goes down as evidence-backed risks accumulate.
const (
	maxMarketExistsDeduction     = 25
	maxTechFeasibilityDeduction  = 20
	maxCompetitiveDeduction      = 20
	maxResourceRealityDeduction  = 20
	maxClarityDeduction          = 15
	interventionThreshold        = 50
	criticalInterventionBoundary = 25

	saturatedCompetitorCount = 5
	crowdedCompetitorCount   = 3
)

var (
	impossibleLanguage  = regexp.MustCompile(`(?i)\b(teleport|time travel|perpetual motion|read minds|cure (all|every)|defy physics)\b`)
	unrealisticLanguage = regexp.MustCompile(`(?i)\b(everyone will (use|buy|love)|no competition( at all)?|guaranteed (success|profit)|overnight success|can't fail|trillion.dollar)\b`)
)

// ViabilityResult is the bounded total plus the wholesale-replaced risk list.
type ViabilityResult struct {
	Total                int                    `json:"total"` // 0-100
	Risks                []domain.ViabilityRisk `json:"risks"`
	RequiresIntervention bool                   `json:"requires_intervention"`
}

// CalculateViability maps the belief state, candidate, raw search evidence
// and the turn's vagueness score to a 0-100 measure of how realistic the
// idea is. Each triggered deduction category derives exactly one risk item.
// requiresIntervention is purely a function of the score.
func CalculateViability(state *domain.BeliefState, candidate *domain.IdeaCandidate, webSearchResults []string, vaguenessScore int) ViabilityResult {
	if state == nil {
		state = domain.NewBeliefState()
	}

	var risks []domain.ViabilityRisk
	deductions := 0

	if d, r := assessMarketExists(state, webSearchResults); d > 0 {
		deductions += d
		risks = append(risks, r)
	}
	if d, r := assessTechnicalFeasibility(state, candidate); d > 0 {
		deductions += d
		risks = append(risks, r)
	}
	if d, r := assessCompetitiveSpace(state); d > 0 {
		deductions += d
		risks = append(risks, r)
	}
	if d, r := assessResourceReality(state); d > 0 {
		deductions += d
		risks = append(risks, r)
	}
	if d, r := assessClarity(vaguenessScore); d > 0 {
		deductions += d
		risks = append(risks, r)
	}

	total := 100 - deductions
	if total < 0 {
		total = 0
	}

	return ViabilityResult{
		Total:                total,
		Risks:                risks,
		RequiresIntervention: total < interventionThreshold,
	}
}

// assessMarketExists penalizes the absence of market evidence. Searches that
// ran but surfaced nothing relevant are worse news than no searches at all.
func assessMarketExists(state *domain.BeliefState, webSearchResults []string) (int, domain.ViabilityRisk) {
	md := state.MarketDiscovery
	hasEvidence := len(md.Competitors) > 0 || len(md.Trends) > 0
	if hasEvidence {
		return 0, domain.ViabilityRisk{}
	}

	searched := len(webSearchResults) > 0 || len(md.Searches) > 0
	if !searched {
		return 0, domain.ViabilityRisk{}
	}

	// Results that came back but yielded nothing relevant are worse evidence
	// than searches that failed outright.
	deduction := 12
	if anyNonEmpty(webSearchResults) {
		deduction = maxMarketExistsDeduction
	}
	return deduction, domain.ViabilityRisk{
		Type:        domain.RiskWrongTiming,
		Severity:    severityFor(deduction),
		Description: "Market research found no competitors or demand trends for this idea; there may be no market yet.",
	}
}

func assessTechnicalFeasibility(state *domain.BeliefState, candidate *domain.IdeaCandidate) (int, domain.ViabilityRisk) {
	text := candidateText(candidate)
	hasExpertise := len(state.SelfDiscovery.Expertise) > 0

	if impossibleLanguage.MatchString(text) {
		deduction := maxTechFeasibilityDeduction
		if hasExpertise {
			deduction = 15
		}
		return deduction, domain.ViabilityRisk{
			Type:        domain.RiskImpossible,
			Severity:    severityFor(deduction),
			Description: "The idea as described depends on capabilities that do not exist.",
		}
	}
	if unrealisticLanguage.MatchString(text) {
		deduction := 12
		if !hasExpertise {
			deduction = 15
		}
		return deduction, domain.ViabilityRisk{
			Type:        domain.RiskUnrealistic,
			Severity:    severityFor(deduction),
			Description: "The framing assumes universal adoption or zero competition, which is not realistic.",
		}
	}

	// Broad platform ambitions without any matching expertise read as scope
	// the founder cannot yet execute.
	if state.Narrowing.ProductType.Value == "marketplace" && !hasExpertise {
		return 8, domain.ViabilityRisk{
			Type:        domain.RiskTooComplex,
			Severity:    severityFor(8),
			Description: "A two-sided marketplace is a heavy build and no relevant expertise has surfaced yet.",
		}
	}
	return 0, domain.ViabilityRisk{}
}

func assessCompetitiveSpace(state *domain.BeliefState) (int, domain.ViabilityRisk) {
	md := state.MarketDiscovery
	if len(md.Gaps) > 0 {
		return 0, domain.ViabilityRisk{}
	}

	var deduction int
	switch {
	case len(md.Competitors) >= saturatedCompetitorCount:
		deduction = maxCompetitiveDeduction
	case len(md.Competitors) >= crowdedCompetitorCount:
		deduction = 12
	default:
		return 0, domain.ViabilityRisk{}
	}

	source := ""
	for _, c := range md.Competitors {
		if c.SourceURL != "" {
			source = c.SourceURL
			break
		}
	}
	return deduction, domain.ViabilityRisk{
		Type:     domain.RiskSaturatedMarket,
		Severity: severityFor(deduction),
		Description: fmt.Sprintf("%d competitors found and no differentiating gap identified yet.",
			len(md.Competitors)),
		Source: source,
	}
}

// assessResourceReality flags mismatches between stated constraints and the
// stated scale of ambition.
func assessResourceReality(state *domain.BeliefState) (int, domain.ViabilityRisk) {
	c := state.SelfDiscovery.Constraints
	vision := state.SelfDiscovery.ImpactVision
	if vision == nil {
		return 0, domain.ViabilityRisk{}
	}
	grand := vision.Level == domain.ImpactWorld || vision.Level == domain.ImpactCountry

	deduction := 0
	if grand && c.TimeHoursPerWeek != nil && *c.TimeHoursPerWeek < 10 {
		deduction += 15
	}
	if grand && c.RiskTolerance != nil && *c.RiskTolerance == domain.RiskToleranceLow {
		deduction += 5
	}
	if grand && c.Capital != nil && *c.Capital == domain.CapitalBootstrap && deduction == 0 {
		deduction = 8
	}
	if deduction == 0 {
		return 0, domain.ViabilityRisk{}
	}
	if deduction > maxResourceRealityDeduction {
		deduction = maxResourceRealityDeduction
	}
	return deduction, domain.ViabilityRisk{
		Type:        domain.RiskResourceMismatch,
		Severity:    severityFor(deduction),
		Description: fmt.Sprintf("Stated %s-scale ambition does not match the stated time, capital or risk constraints.", vision.Level),
	}
}

func assessClarity(vaguenessScore int) (int, domain.ViabilityRisk) {
	var deduction int
	switch {
	case vaguenessScore >= 70:
		deduction = maxClarityDeduction
	case vaguenessScore >= 50:
		deduction = 10
	case vaguenessScore >= 30:
		deduction = 5
	default:
		return 0, domain.ViabilityRisk{}
	}
	return deduction, domain.ViabilityRisk{
		Type:        domain.RiskTooVague,
		Severity:    severityFor(deduction),
		Description: "The idea is still too abstract to validate against real demand.",
	}
}

// InterventionSeverity grades how urgent the pause-and-explain flow is once
// the score falls below the caution threshold.
func InterventionSeverity(total int) domain.RiskSeverity {
	switch {
	case total < criticalInterventionBoundary:
		return domain.RiskSeverityCritical
	case total < interventionThreshold:
		return domain.RiskSeverityHigh
	default:
		return domain.RiskSeverityLow
	}
}

// severityFor maps a deduction magnitude onto a risk severity: 15 and above
// is critical/high territory, below that medium/low.
func severityFor(deduction int) domain.RiskSeverity {
	switch {
	case deduction >= 20:
		return domain.RiskSeverityCritical
	case deduction >= 15:
		return domain.RiskSeverityHigh
	case deduction >= 8:
		return domain.RiskSeverityMedium
	default:
		return domain.RiskSeverityLow
	}
}

func candidateText(c *domain.IdeaCandidate) string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Title + " " + c.Summary)
}

func anyNonEmpty(results []string) bool {
	for _, r := range results {
		if strings.TrimSpace(r) != "" {
			return true
		}
	}
	return false
}
