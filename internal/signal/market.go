package signal

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ideakiln/ideakiln/internal/domain"
)

// Market-data mining runs the same delta shape over raw web-search text. The
// detectors are line-oriented because search summaries arrive as loosely
// structured prose with inline markdown links.
var (
	markdownLink   = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)\s]+)\)`)
	competitorCue  = regexp.MustCompile(`(?i)\b(competitor|alternative|rival|similar (product|service|app)|incumbent|market leader)\b`)
	gapCue         = regexp.MustCompile(`(?i)\b(gap in the market|underserved|unmet need|no (good|real) (solution|option)|lack of|poorly served)\b`)
	trendGrowCue   = regexp.MustCompile(`(?i)\b(growing|surging|rising|expanding|booming|increasing demand|on the rise)\b`)
	trendShrinkCue = regexp.MustCompile(`(?i)\b(declining|shrinking|falling|losing ground|decreasing)\b`)
	trendNameCue   = regexp.MustCompile(`(?i)\b(market|industry|sector|segment|trend)\b`)
	marketSizeCue  = regexp.MustCompile(`(?i)(?:market (?:size|value|worth)[^$€£]{0,40})?([$€£])\s?(\d+(?:\.\d+)?)\s?(billion|million|trillion|[bmt]n?)\b(?:[^0-9]{0,30}(\d{4}))?`)
)

// ExtractMarketData mines one search result's free text for competitors,
// gaps, trends and market size, and returns them in the standard delta
// shape. Empty or error text yields an empty delta, never an error.
func ExtractMarketData(query, resultText string) domain.SignalDelta {
	var delta domain.SignalDelta
	if strings.TrimSpace(resultText) == "" {
		return delta
	}

	links := markdownLink.FindAllStringSubmatch(resultText, -1)

	for _, line := range strings.Split(resultText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if competitorCue.MatchString(line) {
			if c := competitorFromLine(line); c != nil {
				delta.Competitors = append(delta.Competitors, *c)
			}
		}

		if gapCue.MatchString(line) {
			delta.Gaps = append(delta.Gaps, domain.Gap{
				Description: truncate(line, 160),
				Evidence:    query,
				Opportunity: "surfaced by market research",
				Confidence:  60,
			})
		}

		if trendNameCue.MatchString(line) {
			switch {
			case trendGrowCue.MatchString(line):
				delta.Trends = append(delta.Trends, domain.Trend{
					Name:      truncate(line, 120),
					Direction: domain.TrendGrowing,
					Evidence:  query,
				})
			case trendShrinkCue.MatchString(line):
				delta.Trends = append(delta.Trends, domain.Trend{
					Name:      truncate(line, 120),
					Direction: domain.TrendDeclining,
					Evidence:  query,
				})
			}
		}
	}

	if m := marketSizeCue.FindStringSubmatch(resultText); m != nil {
		size := &domain.MarketSize{
			Value:    m[2] + " " + normalizeMagnitude(m[3]),
			Currency: currencyName(m[1]),
		}
		if m[4] != "" {
			if year, err := strconv.Atoi(m[4]); err == nil {
				size.Year = year
			}
		}
		delta.MarketSize = size
	}

	// Attach the first source link to competitors that lack one so risk items
	// can carry a source URL.
	if len(links) > 0 {
		for i := range delta.Competitors {
			if delta.Competitors[i].SourceURL == "" {
				delta.Competitors[i].SourceURL = links[0][2]
			}
		}
	}

	return delta
}

// competitorFromLine pulls a competitor name out of a line, preferring the
// text of a markdown link over a leading capitalized phrase.
func competitorFromLine(line string) *domain.Competitor {
	if m := markdownLink.FindStringSubmatch(line); m != nil {
		return &domain.Competitor{
			Name:        strings.TrimSpace(m[1]),
			Description: truncate(line, 160),
			SourceURL:   m[2],
		}
	}
	name := leadingProperNoun(line)
	if name == "" {
		return nil
	}
	return &domain.Competitor{
		Name:        name,
		Description: truncate(line, 160),
	}
}

var properNoun = regexp.MustCompile(`\b([A-Z][A-Za-z0-9]+(?: [A-Z][A-Za-z0-9]+)?)\b`)

func leadingProperNoun(line string) string {
	m := properNoun.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return m[1]
}

func normalizeMagnitude(s string) string {
	switch strings.ToLower(strings.TrimSuffix(strings.ToLower(s), "n")) {
	case "b", "billion":
		return "billion"
	case "m", "million":
		return "million"
	case "t", "trillion":
		return "trillion"
	}
	return s
}

func currencyName(symbol string) string {
	switch symbol {
	case "$":
		return "USD"
	case "€":
		return "EUR"
	case "£":
		return "GBP"
	}
	return symbol
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
