package llm

import (
	"encoding/json"
	"strings"

	"github.com/ideakiln/ideakiln/internal/domain"
)

// llmHintDefaultConfidence is assigned to well-formed declared hints that
// omit a confidence. It sits above every rule-based tier so declared hints
// win the merger's precedence by default.
const llmHintDefaultConfidence = 0.85

// StructuredResponse is the JSON payload the model may embed in its reply.
type StructuredResponse struct {
	Text            string           `json:"text"`
	Buttons         []string         `json:"buttons,omitempty"`
	Form            json.RawMessage  `json:"form,omitempty"`
	WebSearchNeeded bool             `json:"webSearchNeeded,omitempty"`
	SearchQueries   []string         `json:"searchQueries,omitempty"`
	CandidateUpdate *CandidateUpdate `json:"candidateUpdate,omitempty"`
	Signals         *DeclaredSignals `json:"signals,omitempty"`
}

type CandidateUpdate struct {
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
}

// DeclaredSignals mirrors the three belief-state partitions as the model
// declares them.
type DeclaredSignals struct {
	SelfDiscovery   *DeclaredSelfDiscovery   `json:"selfDiscovery,omitempty"`
	MarketDiscovery *DeclaredMarketDiscovery `json:"marketDiscovery,omitempty"`
	Narrowing       *DeclaredNarrowing       `json:"narrowing,omitempty"`
}

type DeclaredSelfDiscovery struct {
	Frustration  *domain.Frustration  `json:"frustration,omitempty"`
	Expertise    []domain.Expertise   `json:"expertise,omitempty"`
	Interests    []domain.Interest    `json:"interests,omitempty"`
	Constraints  *domain.Constraints  `json:"constraints,omitempty"`
	ImpactVision *domain.ImpactVision `json:"impactVision,omitempty"`
}

type DeclaredMarketDiscovery struct {
	Competitors []domain.Competitor `json:"competitors,omitempty"`
	Gaps        []domain.Gap        `json:"gaps,omitempty"`
	Trends      []domain.Trend      `json:"trends,omitempty"`
	MarketSize  *domain.MarketSize  `json:"marketSize,omitempty"`
}

type DeclaredNarrowing struct {
	ProductType    *domain.ConfidentValue `json:"productType,omitempty"`
	CustomerType   *domain.ConfidentValue `json:"customerType,omitempty"`
	Geography      *domain.ConfidentValue `json:"geography,omitempty"`
	TechnicalDepth *domain.ConfidentValue `json:"technicalDepth,omitempty"`
}

// ParsedResponse is the tagged-union result of a strict parse: either a
// structured payload or a raw-text fallback. Exactly one branch is set.
type ParsedResponse struct {
	Structured *StructuredResponse
	Raw        string
}

// ReplyText returns the text to show the user regardless of which branch
// parsed.
func (p ParsedResponse) ReplyText() string {
	if p.Structured != nil {
		return p.Structured.Text
	}
	return p.Raw
}

// SignalDelta converts declared hints into the standard delta shape, with
// the default LLM confidence applied where the model omitted one. A fallback
// response yields an empty delta.
func (p ParsedResponse) SignalDelta() domain.SignalDelta {
	var delta domain.SignalDelta
	if p.Structured == nil || p.Structured.Signals == nil {
		return delta
	}
	s := p.Structured.Signals

	if sd := s.SelfDiscovery; sd != nil {
		if sd.Frustration != nil && domain.ValidSeverity(string(sd.Frustration.Severity)) {
			f := *sd.Frustration
			if f.Source == "" {
				f.Source = "llm"
			}
			delta.Frustration = &f
		}
		for _, e := range sd.Expertise {
			if e.Area == "" {
				continue
			}
			if !domain.ValidExpertiseDepth(string(e.Depth)) {
				e.Depth = domain.DepthCompetent
			}
			delta.Expertise = append(delta.Expertise, e)
		}
		for _, i := range sd.Interests {
			if i.Topic != "" {
				delta.Interests = append(delta.Interests, i)
			}
		}
		delta.Constraints = sd.Constraints
		if sd.ImpactVision != nil && domain.ValidImpactLevel(string(sd.ImpactVision.Level)) {
			delta.ImpactVision = sd.ImpactVision
		}
	}

	if md := s.MarketDiscovery; md != nil {
		delta.Competitors = md.Competitors
		delta.Gaps = md.Gaps
		delta.Trends = md.Trends
		delta.MarketSize = md.MarketSize
	}

	if n := s.Narrowing; n != nil {
		delta.ProductType = normalizeHint(n.ProductType)
		delta.CustomerType = normalizeHint(n.CustomerType)
		delta.Geography = normalizeHint(n.Geography)
		delta.TechnicalDepth = normalizeHint(n.TechnicalDepth)
	}

	return delta
}

func normalizeHint(v *domain.ConfidentValue) *domain.ConfidentValue {
	if v == nil || v.Value == "" {
		return nil
	}
	out := *v
	if out.Confidence <= 0 {
		out.Confidence = llmHintDefaultConfidence
	}
	if out.Confidence > 1 {
		out.Confidence = 1
	}
	return &out
}

// ParseResponse implements the strict-parse-or-degrade contract: free text
// with no JSON, or malformed JSON, always falls back to treating the whole
// reply as plain text. It never returns an error.
func ParseResponse(raw string) ParsedResponse {
	trimmed := stripFences(raw)

	candidate := trimmed
	if !strings.HasPrefix(candidate, "{") {
		// The model sometimes wraps the payload in prose; try the outermost
		// object.
		start := strings.Index(candidate, "{")
		end := strings.LastIndex(candidate, "}")
		if start < 0 || end <= start {
			return ParsedResponse{Raw: raw}
		}
		candidate = candidate[start : end+1]
	}

	var resp StructuredResponse
	if err := json.Unmarshal([]byte(candidate), &resp); err != nil || resp.Text == "" {
		return ParsedResponse{Raw: raw}
	}
	return ParsedResponse{Structured: &resp}
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
