package signal

import (
	"strconv"
	"strings"

	"github.com/ideakiln/ideakiln/internal/domain"
)

// ExtractFromText runs the rule-based detectors over one message pair and
// returns a partial belief-state delta. It is a pure function: no match for a
// category leaves that field nil, which downstream treats as "nothing
// observed this turn".
func ExtractFromText(userText, agentReply string) domain.SignalDelta {
	var delta domain.SignalDelta

	delta.Frustration = detectFrustration(userText)
	delta.Expertise = detectExpertise(userText)
	delta.Interests = detectInterests(userText)
	delta.Constraints = detectConstraints(userText)
	delta.ImpactVision = detectImpactVision(userText)

	delta.CustomerType = detectCategory(userText, customerTypePatterns)
	delta.ProductType = detectCategory(userText, productTypePatterns)
	delta.Geography = detectGeography(userText)

	// When the user affirms the agent's framing ("exactly"), the framing
	// itself becomes weak evidence for the narrowing slots.
	if IsConfirmation(userText) && agentReply != "" {
		if delta.CustomerType == nil {
			delta.CustomerType = discount(detectCategory(agentReply, customerTypePatterns))
		}
		if delta.ProductType == nil {
			delta.ProductType = discount(detectCategory(agentReply, productTypePatterns))
		}
		if delta.Geography == nil {
			delta.Geography = discount(detectGeography(agentReply))
		}
	}

	return delta
}

// discount lowers a confirmed-framing observation below the direct-statement
// rule tier.
func discount(v *domain.ConfidentValue) *domain.ConfidentValue {
	if v == nil {
		return nil
	}
	v.Confidence -= 0.1
	return v
}

// detectFrustration keeps only the single strongest match per message so one
// rant does not flood the frustration list. Tiers are checked high to medium
// to low; the first hit wins.
func detectFrustration(text string) *domain.Frustration {
	for _, p := range frustrationTiers {
		loc := p.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		return &domain.Frustration{
			Description: contextAround(text, loc, evidenceRadius),
			Source:      "conversation",
			Severity:    p.severity,
		}
	}
	return nil
}

func detectExpertise(text string) []domain.Expertise {
	var out []domain.Expertise
	for _, re := range expertiseMarkers {
		m := re.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		area := strings.TrimSpace(text[m[2]:m[3]])
		if area == "" {
			continue
		}
		depth := domain.DepthCompetent
		if expertiseExpertCue.MatchString(text) {
			depth = domain.DepthExpert
		} else if y := expertiseYears.FindStringSubmatch(text); y != nil {
			if years, err := strconv.Atoi(y[1]); err == nil && years >= 7 {
				depth = domain.DepthExpert
			}
		}
		out = append(out, domain.Expertise{
			Area:     strings.ToLower(area),
			Depth:    depth,
			Evidence: contextAround(text, m[:2], evidenceRadius),
		})
		break // one expertise claim per turn is plenty
	}
	return out
}

func detectInterests(text string) []domain.Interest {
	m := interestTopicAfter.FindStringSubmatchIndex(text)
	if m == nil {
		return nil
	}
	topic := strings.TrimSpace(strings.ToLower(text[m[2]:m[3]]))
	if topic == "" {
		return nil
	}
	genuine := interestGenuineCue.MatchString(text) && !interestTepidCue.MatchString(text)
	return []domain.Interest{{
		Topic:    topic,
		Genuine:  genuine,
		Evidence: contextAround(text, m[:2], evidenceRadius),
	}}
}

func detectConstraints(text string) *domain.Constraints {
	var c domain.Constraints
	found := false

	if m := hoursPerWeek.FindStringSubmatch(text); m != nil {
		if hours, err := strconv.Atoi(m[1]); err == nil {
			c.TimeHoursPerWeek = &hours
			found = true
		}
	}

	switch {
	case capitalHaveCue.MatchString(text):
		v := domain.CapitalHaveFunding
		c.Capital = &v
		found = true
	case capitalSeekingCue.MatchString(text):
		v := domain.CapitalSeekingFunding
		c.Capital = &v
		found = true
	case capitalBootstrapCue.MatchString(text):
		v := domain.CapitalBootstrap
		c.Capital = &v
		found = true
	}

	switch {
	case riskLowCue.MatchString(text):
		v := domain.RiskToleranceLow
		c.RiskTolerance = &v
		found = true
	case riskHighCue.MatchString(text):
		v := domain.RiskToleranceHigh
		c.RiskTolerance = &v
		found = true
	}

	if !found {
		return nil
	}
	return &c
}

func detectImpactVision(text string) *domain.ImpactVision {
	for _, p := range impactPatterns {
		if p.re.MatchString(text) {
			return &domain.ImpactVision{Level: p.level, Confidence: 60}
		}
	}
	return nil
}

func detectCategory(text string, patterns []categoryPattern) *domain.ConfidentValue {
	for _, p := range patterns {
		if p.re.MatchString(text) {
			return &domain.ConfidentValue{Value: p.value, Confidence: p.confidence}
		}
	}
	return nil
}

func detectGeography(text string) *domain.ConfidentValue {
	for _, p := range geographyPatterns {
		m := p.re.FindString(text)
		if m == "" {
			continue
		}
		value := p.value
		if value == "" {
			// Country tier with no canonical mapping: use the mention itself.
			value = canonicalPlace(m)
		}
		return &domain.ConfidentValue{Value: value, Confidence: p.confidence}
	}
	return nil
}

func canonicalPlace(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// contextAround returns the text within radius characters of the match, with
// truncation ellipses on clipped ends.
func contextAround(text string, loc []int, radius int) string {
	start := loc[0] - radius
	end := loc[1] + radius
	prefix, suffix := "", ""
	if start < 0 {
		start = 0
	} else if start > 0 {
		prefix = "..."
	}
	if end > len(text) {
		end = len(text)
	} else if end < len(text) {
		suffix = "..."
	}
	return prefix + strings.TrimSpace(text[start:end]) + suffix
}
