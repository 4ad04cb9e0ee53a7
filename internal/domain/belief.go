package domain

import "time"

// Severity grades how strongly a frustration was expressed.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func ValidSeverity(s string) bool {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// ExpertiseDepth grades how deep the user's stated expertise runs.
type ExpertiseDepth string

const (
	DepthNovice    ExpertiseDepth = "novice"
	DepthCompetent ExpertiseDepth = "competent"
	DepthExpert    ExpertiseDepth = "expert"
)

func ValidExpertiseDepth(d string) bool {
	switch ExpertiseDepth(d) {
	case DepthNovice, DepthCompetent, DepthExpert:
		return true
	}
	return false
}

// CapitalPosition describes how the user intends to fund the idea.
type CapitalPosition string

const (
	CapitalBootstrap      CapitalPosition = "bootstrap"
	CapitalSeekingFunding CapitalPosition = "seeking_funding"
	CapitalHaveFunding    CapitalPosition = "have_funding"
)

// RiskTolerance is the user's stated appetite for risk.
type RiskTolerance string

const (
	RiskToleranceLow  RiskTolerance = "low"
	RiskToleranceHigh RiskTolerance = "high"
)

// ImpactLevel is the scale of change the user wants to make.
type ImpactLevel string

const (
	ImpactWorld      ImpactLevel = "world"
	ImpactCountry    ImpactLevel = "country"
	ImpactCity       ImpactLevel = "city"
	ImpactCommunity  ImpactLevel = "community"
	ImpactIndividual ImpactLevel = "individual"
)

func ValidImpactLevel(l string) bool {
	switch ImpactLevel(l) {
	case ImpactWorld, ImpactCountry, ImpactCity, ImpactCommunity, ImpactIndividual:
		return true
	}
	return false
}

// Frustration is a pain point the user voiced, with the quote that evidenced it.
type Frustration struct {
	Description string   `json:"description"`
	Source      string   `json:"source,omitempty"`
	Severity    Severity `json:"severity"`
}

type Expertise struct {
	Area     string         `json:"area"`
	Depth    ExpertiseDepth `json:"depth"`
	Evidence string         `json:"evidence,omitempty"`
}

type Interest struct {
	Topic    string `json:"topic"`
	Genuine  bool   `json:"genuine"`
	Evidence string `json:"evidence,omitempty"`
}

// Constraints holds practical limits the user has stated. Nil pointers mean
// "not yet observed", which is distinct from an explicit zero.
type Constraints struct {
	TimeHoursPerWeek *int             `json:"time_hours_per_week,omitempty"`
	Capital          *CapitalPosition `json:"capital,omitempty"`
	RiskTolerance    *RiskTolerance   `json:"risk_tolerance,omitempty"`
}

type ImpactVision struct {
	Level      ImpactLevel `json:"level"`
	Confidence int         `json:"confidence"` // 0-100
}

// SelfDiscovery accumulates what the interview has learned about the user.
type SelfDiscovery struct {
	Frustrations []Frustration `json:"frustrations,omitempty"`
	Expertise    []Expertise   `json:"expertise,omitempty"`
	Interests    []Interest    `json:"interests,omitempty"`
	Constraints  Constraints   `json:"constraints"`
	ImpactVision *ImpactVision `json:"impact_vision,omitempty"`
}

type TrendDirection string

const (
	TrendGrowing   TrendDirection = "growing"
	TrendStable    TrendDirection = "stable"
	TrendDeclining TrendDirection = "declining"
)

type Competitor struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Strengths   []string `json:"strengths,omitempty"`
	Weaknesses  []string `json:"weaknesses,omitempty"`
	SourceURL   string   `json:"source_url,omitempty"`
}

type Gap struct {
	Description string `json:"description"`
	Evidence    string `json:"evidence,omitempty"`
	Opportunity string `json:"opportunity,omitempty"`
	Confidence  int    `json:"confidence"` // 0-100
}

type Trend struct {
	Name      string         `json:"name"`
	Direction TrendDirection `json:"direction"`
	Evidence  string         `json:"evidence,omitempty"`
}

type MarketSize struct {
	Value    string `json:"value"`
	Currency string `json:"currency,omitempty"`
	Year     int    `json:"year,omitempty"`
}

// SearchRecord is an audit-trail entry for one executed web search. Records
// are append-only and never deduplicated.
type SearchRecord struct {
	Query           string    `json:"query"`
	Timestamp       time.Time `json:"timestamp"`
	FindingsSummary string    `json:"findings_summary,omitempty"`
}

// MarketDiscovery accumulates evidence mined from web search results.
type MarketDiscovery struct {
	Competitors []Competitor   `json:"competitors,omitempty"`
	Gaps        []Gap          `json:"gaps,omitempty"`
	Trends      []Trend        `json:"trends,omitempty"`
	MarketSize  *MarketSize    `json:"market_size,omitempty"`
	Searches    []SearchRecord `json:"searches,omitempty"`
}

// ConfidentValue is a confidence-weighted categorical guess for a narrowing
// slot. A slot is only overwritten by an observation with strictly higher
// confidence.
type ConfidentValue struct {
	Value      string  `json:"value,omitempty"`
	Confidence float64 `json:"confidence"` // 0.0-1.0
}

// IsSet reports whether the slot holds a value.
func (c ConfidentValue) IsSet() bool { return c.Value != "" }

// Narrowing holds the converging decisions about what the idea actually is.
type Narrowing struct {
	ProductType    ConfidentValue `json:"product_type"`
	CustomerType   ConfidentValue `json:"customer_type"`
	Geography      ConfidentValue `json:"geography"`
	TechnicalDepth ConfidentValue `json:"technical_depth"`
}

// BeliefState is the accumulating structured result of an interview session.
// It is created empty, merged into turn by turn, and serialized wholesale
// into memory documents at handoff.
type BeliefState struct {
	SelfDiscovery   SelfDiscovery   `json:"self_discovery"`
	MarketDiscovery MarketDiscovery `json:"market_discovery"`
	Narrowing       Narrowing       `json:"narrowing"`
}

// NewBeliefState returns an empty belief state for a fresh session.
func NewBeliefState() *BeliefState {
	return &BeliefState{}
}

// SignalDelta is a partial belief-state update produced by one extraction
// pass (rule-based or LLM-declared). Nil/empty fields mean "nothing observed
// this turn", never "explicitly zero".
type SignalDelta struct {
	Frustration  *Frustration  `json:"frustration,omitempty"`
	Expertise    []Expertise   `json:"expertise,omitempty"`
	Interests    []Interest    `json:"interests,omitempty"`
	Constraints  *Constraints  `json:"constraints,omitempty"`
	ImpactVision *ImpactVision `json:"impact_vision,omitempty"`

	Competitors []Competitor `json:"competitors,omitempty"`
	Gaps        []Gap        `json:"gaps,omitempty"`
	Trends      []Trend      `json:"trends,omitempty"`
	MarketSize  *MarketSize  `json:"market_size,omitempty"`

	ProductType    *ConfidentValue `json:"product_type,omitempty"`
	CustomerType   *ConfidentValue `json:"customer_type,omitempty"`
	Geography      *ConfidentValue `json:"geography,omitempty"`
	TechnicalDepth *ConfidentValue `json:"technical_depth,omitempty"`
}

// IsEmpty reports whether the delta carries no observations at all.
func (d *SignalDelta) IsEmpty() bool {
	if d == nil {
		return true
	}
	return d.Frustration == nil && len(d.Expertise) == 0 && len(d.Interests) == 0 &&
		d.Constraints == nil && d.ImpactVision == nil &&
		len(d.Competitors) == 0 && len(d.Gaps) == 0 && len(d.Trends) == 0 &&
		d.MarketSize == nil && d.ProductType == nil && d.CustomerType == nil &&
		d.Geography == nil && d.TechnicalDepth == nil
}
