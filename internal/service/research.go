package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ideakiln/ideakiln/internal/domain"
)

const (
	DefaultMaxQueriesPerTurn = 3
	DefaultSearchTimeout     = 10 * time.Second
	findingsSummaryLimit     = 240
)

// SearchOutcome is the result of one executed query. A failed or empty
// search still produces an outcome; the caller records it and moves on.
type SearchOutcome struct {
	Query string
	Text  string
	Err   error
}

// ResearchService fans session search queries out to the web search
// provider. Outbound calls share one rate limiter so bursts of queries
// from concurrent sessions stay within the provider's limits.
type ResearchService struct {
	search  domain.SearchClient
	limiter *rate.Limiter
	logger  *zap.Logger

	MaxQueriesPerTurn int
	Timeout           time.Duration
}

func NewResearchService(search domain.SearchClient, minInterval time.Duration, logger *zap.Logger) *ResearchService {
	if minInterval <= 0 {
		minInterval = 500 * time.Millisecond
	}
	return &ResearchService{
		search:            search,
		limiter:           rate.NewLimiter(rate.Every(minInterval), 1),
		logger:            logger,
		MaxQueriesPerTurn: DefaultMaxQueriesPerTurn,
		Timeout:           DefaultSearchTimeout,
	}
}

// Run executes up to MaxQueriesPerTurn queries concurrently and returns one
// outcome per query, in input order. Individual failures never abort the
// batch.
func (s *ResearchService) Run(ctx context.Context, queries []string) []SearchOutcome {
	if len(queries) > s.MaxQueriesPerTurn {
		queries = queries[:s.MaxQueriesPerTurn]
	}

	outcomes := make([]SearchOutcome, len(queries))
	g, gctx := errgroup.WithContext(ctx)

	for i, q := range queries {
		i, q := i, q
		outcomes[i].Query = q
		g.Go(func() error {
			if err := s.limiter.Wait(gctx); err != nil {
				outcomes[i].Err = err
				return nil
			}

			callCtx, cancel := context.WithTimeout(gctx, s.Timeout)
			defer cancel()

			text, err := s.search.Search(callCtx, q)
			if err != nil {
				s.logger.Warn("web search failed", zap.String("query", q), zap.Error(err))
				outcomes[i].Err = err
				return nil
			}
			outcomes[i].Text = text
			return nil
		})
	}

	_ = g.Wait()
	return outcomes
}

// FindingsSummary condenses a raw result into the audit-trail line kept
// with the search record.
func (o SearchOutcome) FindingsSummary() string {
	if o.Err != nil {
		return "search failed: " + o.Err.Error()
	}
	text := strings.TrimSpace(o.Text)
	if text == "" {
		return "no findings"
	}
	if line, _, found := strings.Cut(text, "\n"); found {
		text = line
	}
	if len(text) > findingsSummaryLimit {
		text = text[:findingsSummaryLimit] + "..."
	}
	return text
}
