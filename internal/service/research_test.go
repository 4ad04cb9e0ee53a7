package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ideakiln/ideakiln/internal/search"
)

func TestResearchRun_CapsQueriesPerTurn(t *testing.T) {
	mock := search.NewMockClient()
	svc := NewResearchService(mock, time.Millisecond, zap.NewNop())

	queries := []string{"q1", "q2", "q3", "q4", "q5"}
	outcomes := svc.Run(context.Background(), queries)

	if len(outcomes) != DefaultMaxQueriesPerTurn {
		t.Fatalf("outcomes = %d, want %d", len(outcomes), DefaultMaxQueriesPerTurn)
	}
	if len(mock.Queries) != DefaultMaxQueriesPerTurn {
		t.Errorf("executed %d queries, want %d", len(mock.Queries), DefaultMaxQueriesPerTurn)
	}
}

func TestResearchRun_PreservesInputOrder(t *testing.T) {
	mock := search.NewMockClient()
	mock.Responses = map[string]string{
		"alpha": "alpha results",
		"beta":  "beta results",
	}
	svc := NewResearchService(mock, time.Millisecond, zap.NewNop())

	outcomes := svc.Run(context.Background(), []string{"alpha", "beta"})

	if outcomes[0].Query != "alpha" || outcomes[1].Query != "beta" {
		t.Fatalf("outcomes out of order: %+v", outcomes)
	}
	if outcomes[0].Text != "alpha results" || outcomes[1].Text != "beta results" {
		t.Errorf("results not matched to their queries: %+v", outcomes)
	}
}

func TestResearchRun_FailuresDoNotAbortBatch(t *testing.T) {
	mock := search.NewMockClient()
	mock.Error = errors.New("provider down")
	svc := NewResearchService(mock, time.Millisecond, zap.NewNop())

	outcomes := svc.Run(context.Background(), []string{"q1", "q2"})

	if len(outcomes) != 2 {
		t.Fatalf("outcomes = %d, want 2 even when every search fails", len(outcomes))
	}
	for _, o := range outcomes {
		if o.Err == nil {
			t.Errorf("outcome for %q should carry the error", o.Query)
		}
	}
}

func TestFindingsSummary(t *testing.T) {
	cases := []struct {
		name    string
		outcome SearchOutcome
		want    string
	}{
		{"error", SearchOutcome{Err: errors.New("boom")}, "search failed: boom"},
		{"empty", SearchOutcome{Text: "  \n "}, "no findings"},
		{"first line only", SearchOutcome{Text: "first line\nsecond line"}, "first line"},
	}
	for _, c := range cases {
		if got := c.outcome.FindingsSummary(); got != c.want {
			t.Errorf("%s: summary = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestFindingsSummary_TruncatesLongLines(t *testing.T) {
	o := SearchOutcome{Text: strings.Repeat("x", 500)}
	got := o.FindingsSummary()
	if len(got) != findingsSummaryLimit+3 {
		t.Errorf("len = %d, want %d plus ellipsis", len(got), findingsSummaryLimit+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated summary should end with an ellipsis, got %q", got[len(got)-10:])
	}
}
