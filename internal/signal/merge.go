package signal

import (
	"strings"
	"time"

	"github.com/ideakiln/ideakiln/internal/domain"
)

// Merge combines LLM-declared hints, the rule-based text delta, and the prior
// persisted state into a new BeliefState. Precedence is explicit: narrowing
// slots keep the candidate with strictly higher confidence (ties prefer the
// most recent source, llm over text over prior), and list-valued signals are
// a dedup union in first-seen order. Merge never mutates its inputs and is
// idempotent for identical (prior, delta) pairs.
func Merge(llmHints, textDelta domain.SignalDelta, prior *domain.BeliefState) *domain.BeliefState {
	if prior == nil {
		prior = domain.NewBeliefState()
	}
	next := cloneState(prior)

	// Self discovery. One frustration candidate per source per turn.
	for _, f := range []*domain.Frustration{textDelta.Frustration, llmHints.Frustration} {
		if f != nil {
			next.SelfDiscovery.Frustrations = appendFrustration(next.SelfDiscovery.Frustrations, *f)
		}
	}
	next.SelfDiscovery.Expertise = appendExpertise(next.SelfDiscovery.Expertise, textDelta.Expertise, llmHints.Expertise)
	next.SelfDiscovery.Interests = appendInterests(next.SelfDiscovery.Interests, textDelta.Interests, llmHints.Interests)
	mergeConstraints(&next.SelfDiscovery.Constraints, textDelta.Constraints)
	mergeConstraints(&next.SelfDiscovery.Constraints, llmHints.Constraints)
	if v := pickImpactVision(llmHints.ImpactVision, textDelta.ImpactVision, next.SelfDiscovery.ImpactVision); v != nil {
		next.SelfDiscovery.ImpactVision = v
	}

	// Market discovery.
	next.MarketDiscovery.Competitors = appendCompetitors(next.MarketDiscovery.Competitors, textDelta.Competitors, llmHints.Competitors)
	next.MarketDiscovery.Gaps = appendGaps(next.MarketDiscovery.Gaps, textDelta.Gaps, llmHints.Gaps)
	next.MarketDiscovery.Trends = appendTrends(next.MarketDiscovery.Trends, textDelta.Trends, llmHints.Trends)
	if llmHints.MarketSize != nil {
		next.MarketDiscovery.MarketSize = llmHints.MarketSize
	} else if textDelta.MarketSize != nil && next.MarketDiscovery.MarketSize == nil {
		next.MarketDiscovery.MarketSize = textDelta.MarketSize
	}

	// Narrowing slots.
	next.Narrowing.ProductType = selectHigherConfidence(next.Narrowing.ProductType, textDelta.ProductType, llmHints.ProductType)
	next.Narrowing.CustomerType = selectHigherConfidence(next.Narrowing.CustomerType, textDelta.CustomerType, llmHints.CustomerType)
	next.Narrowing.Geography = selectHigherConfidence(next.Narrowing.Geography, textDelta.Geography, llmHints.Geography)
	next.Narrowing.TechnicalDepth = selectHigherConfidence(next.Narrowing.TechnicalDepth, textDelta.TechnicalDepth, llmHints.TechnicalDepth)

	return next
}

// AppendSearchRecord adds an audit-trail entry for one executed query.
// Records are never deduplicated.
func AppendSearchRecord(state *domain.BeliefState, query, findingsSummary string, at time.Time) {
	state.MarketDiscovery.Searches = append(state.MarketDiscovery.Searches, domain.SearchRecord{
		Query:           query,
		Timestamp:       at,
		FindingsSummary: findingsSummary,
	})
}

// selectHigherConfidence is the conflict-resolution rule for a narrowing
// slot. Between the two same-turn sources an exact confidence tie prefers
// the LLM hint; the turn's winner then replaces the persisted prior only
// with strictly higher confidence, so an established slot is never churned
// by an equally confident re-observation.
func selectHigherConfidence(prior domain.ConfidentValue, text, llm *domain.ConfidentValue) domain.ConfidentValue {
	incoming := text
	if llm != nil && llm.Value != "" && (incoming == nil || incoming.Value == "" || llm.Confidence >= incoming.Confidence) {
		incoming = llm
	}
	if incoming == nil || incoming.Value == "" {
		return prior
	}
	if !prior.IsSet() || incoming.Confidence > prior.Confidence {
		return *incoming
	}
	return prior
}

func cloneState(s *domain.BeliefState) *domain.BeliefState {
	next := *s
	next.SelfDiscovery.Frustrations = append([]domain.Frustration(nil), s.SelfDiscovery.Frustrations...)
	next.SelfDiscovery.Expertise = append([]domain.Expertise(nil), s.SelfDiscovery.Expertise...)
	next.SelfDiscovery.Interests = append([]domain.Interest(nil), s.SelfDiscovery.Interests...)
	next.MarketDiscovery.Competitors = append([]domain.Competitor(nil), s.MarketDiscovery.Competitors...)
	next.MarketDiscovery.Gaps = append([]domain.Gap(nil), s.MarketDiscovery.Gaps...)
	next.MarketDiscovery.Trends = append([]domain.Trend(nil), s.MarketDiscovery.Trends...)
	next.MarketDiscovery.Searches = append([]domain.SearchRecord(nil), s.MarketDiscovery.Searches...)
	return &next
}

// naturalKey normalizes a dedup key. List merges are monotonic: the set only
// grows until the session ends.
func naturalKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func appendFrustration(existing []domain.Frustration, f domain.Frustration) []domain.Frustration {
	for _, e := range existing {
		if naturalKey(e.Description) == naturalKey(f.Description) {
			return existing
		}
	}
	return append(existing, f)
}

func appendExpertise(existing []domain.Expertise, batches ...[]domain.Expertise) []domain.Expertise {
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[naturalKey(e.Area)] = true
	}
	for _, batch := range batches {
		for _, e := range batch {
			k := naturalKey(e.Area)
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			existing = append(existing, e)
		}
	}
	return existing
}

func appendInterests(existing []domain.Interest, batches ...[]domain.Interest) []domain.Interest {
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[naturalKey(e.Topic)] = true
	}
	for _, batch := range batches {
		for _, e := range batch {
			k := naturalKey(e.Topic)
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			existing = append(existing, e)
		}
	}
	return existing
}

func appendCompetitors(existing []domain.Competitor, batches ...[]domain.Competitor) []domain.Competitor {
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[naturalKey(e.Name)] = true
	}
	for _, batch := range batches {
		for _, e := range batch {
			k := naturalKey(e.Name)
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			existing = append(existing, e)
		}
	}
	return existing
}

func appendGaps(existing []domain.Gap, batches ...[]domain.Gap) []domain.Gap {
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[naturalKey(e.Description)] = true
	}
	for _, batch := range batches {
		for _, e := range batch {
			k := naturalKey(e.Description)
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			existing = append(existing, e)
		}
	}
	return existing
}

func appendTrends(existing []domain.Trend, batches ...[]domain.Trend) []domain.Trend {
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[naturalKey(e.Name)] = true
	}
	for _, batch := range batches {
		for _, e := range batch {
			k := naturalKey(e.Name)
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			existing = append(existing, e)
		}
	}
	return existing
}

// mergeConstraints fills each constraint field from the delta when present.
// A later observation of the same field replaces the earlier one; absence
// leaves the prior value alone.
func mergeConstraints(target *domain.Constraints, delta *domain.Constraints) {
	if delta == nil {
		return
	}
	if delta.TimeHoursPerWeek != nil {
		v := *delta.TimeHoursPerWeek
		target.TimeHoursPerWeek = &v
	}
	if delta.Capital != nil {
		v := *delta.Capital
		target.Capital = &v
	}
	if delta.RiskTolerance != nil {
		v := *delta.RiskTolerance
		target.RiskTolerance = &v
	}
}

// pickImpactVision applies the narrowing-slot policy to the impact vision:
// LLM beats text on a tie, and the turn's winner must strictly beat the
// persisted prior.
func pickImpactVision(llm, text, prior *domain.ImpactVision) *domain.ImpactVision {
	incoming := text
	if llm != nil && (incoming == nil || llm.Confidence >= incoming.Confidence) {
		incoming = llm
	}
	if incoming == nil {
		return prior
	}
	if prior == nil || incoming.Confidence > prior.Confidence {
		c := *incoming
		return &c
	}
	return prior
}
