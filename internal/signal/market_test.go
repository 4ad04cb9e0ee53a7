package signal

import (
	"testing"

	"github.com/ideakiln/ideakiln/internal/domain"
)

const searchResult = `Coworking demand keeps climbing in Australia.

[Deskpass](https://deskpass.com) is the best-known alternative for flexible coworking bookings.
WeWork remains the incumbent competitor in most large cities.
Analysts see a gap in the market for real-time availability across providers.
The coworking market is growing at double-digit rates.
One report puts the market size at $13.5 billion in 2024.`

func TestExtractMarketData_Competitors(t *testing.T) {
	delta := ExtractMarketData("coworking space sydney", searchResult)

	if len(delta.Competitors) != 2 {
		t.Fatalf("competitors = %d, want 2", len(delta.Competitors))
	}

	first := delta.Competitors[0]
	if first.Name != "Deskpass" {
		t.Errorf("name = %q, want Deskpass (markdown link text)", first.Name)
	}
	if first.SourceURL != "https://deskpass.com" {
		t.Errorf("source = %q, want the link URL", first.SourceURL)
	}

	second := delta.Competitors[1]
	if second.Name != "WeWork" {
		t.Errorf("name = %q, want WeWork (leading proper noun)", second.Name)
	}
	// Plain-text competitors inherit the first source link in the result.
	if second.SourceURL != "https://deskpass.com" {
		t.Errorf("source = %q, want inherited first link", second.SourceURL)
	}
}

func TestExtractMarketData_GapsAndTrends(t *testing.T) {
	delta := ExtractMarketData("coworking space sydney", searchResult)

	if len(delta.Gaps) != 1 {
		t.Fatalf("gaps = %d, want 1", len(delta.Gaps))
	}
	if delta.Gaps[0].Confidence != 60 {
		t.Errorf("gap confidence = %d, want 60", delta.Gaps[0].Confidence)
	}
	if delta.Gaps[0].Evidence != "coworking space sydney" {
		t.Errorf("gap evidence = %q, want the query", delta.Gaps[0].Evidence)
	}

	if len(delta.Trends) != 1 {
		t.Fatalf("trends = %d, want 1", len(delta.Trends))
	}
	if delta.Trends[0].Direction != domain.TrendGrowing {
		t.Errorf("trend direction = %s, want growing", delta.Trends[0].Direction)
	}
}

func TestExtractMarketData_MarketSize(t *testing.T) {
	delta := ExtractMarketData("coworking market size", searchResult)

	if delta.MarketSize == nil {
		t.Fatal("expected a market size")
	}
	if delta.MarketSize.Value != "13.5 billion" {
		t.Errorf("value = %q, want 13.5 billion", delta.MarketSize.Value)
	}
	if delta.MarketSize.Currency != "USD" {
		t.Errorf("currency = %q, want USD", delta.MarketSize.Currency)
	}
	if delta.MarketSize.Year != 2024 {
		t.Errorf("year = %d, want 2024", delta.MarketSize.Year)
	}
}

func TestExtractMarketData_EmptyText(t *testing.T) {
	delta := ExtractMarketData("anything", "   \n ")
	if !delta.IsEmpty() {
		t.Errorf("expected empty delta for empty result text, got %+v", delta)
	}
}

func TestExtractMarketData_ProseWithoutSignals(t *testing.T) {
	delta := ExtractMarketData("q", "The weather in Sydney was pleasant all week.")
	if len(delta.Competitors)+len(delta.Gaps)+len(delta.Trends) != 0 {
		t.Errorf("expected no market signals, got %+v", delta)
	}
}
