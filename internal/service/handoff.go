package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ideakiln/ideakiln/internal/domain"
)

const (
	DefaultTokenBudget = 100000

	// handoffFraction is how full the context window may get before the
	// conversation is compacted into memory documents.
	handoffFraction = 0.8

	// Memory document names. Every handoff regenerates the full set.
	DocSelfDiscovery       = "self_discovery"
	DocMarketDiscovery     = "market_discovery"
	DocNarrowingState      = "narrowing_state"
	DocConversationSummary = "conversation_summary"
	DocIdeaCandidate       = "idea_candidate"
	DocViabilityAssessment = "viability_assessment"
	DocHandoffNotes        = "handoff_notes"
)

// HandoffService compacts a near-full conversation window into durable
// markdown memory documents and restarts the window with a memo message.
type HandoffService struct {
	sessions domain.SessionStore
	messages domain.MessageStore
	docs     domain.MemoryDocStore
	llm      domain.LLMClient
	embedder domain.EmbeddingClient
	logger   *zap.Logger

	TokenBudget int
}

func NewHandoffService(
	sessions domain.SessionStore,
	messages domain.MessageStore,
	docs domain.MemoryDocStore,
	llm domain.LLMClient,
	embedder domain.EmbeddingClient,
	logger *zap.Logger,
) *HandoffService {
	return &HandoffService{
		sessions:    sessions,
		messages:    messages,
		docs:        docs,
		llm:         llm,
		embedder:    embedder,
		logger:      logger,
		TokenBudget: DefaultTokenBudget,
	}
}

// EstimateTokens approximates the token count of a window as total
// characters divided by four.
func EstimateTokens(msgs []domain.Message) int {
	chars := 0
	for _, m := range msgs {
		chars += len(m.Content)
	}
	return chars / 4
}

// NeedsHandoff reports whether the window has crossed the compaction
// threshold.
func (s *HandoffService) NeedsHandoff(window []domain.Message) bool {
	return EstimateTokens(window) >= int(float64(s.TokenBudget)*handoffFraction)
}

// Perform writes the full memory document set, resets the session window
// and injects a memo message that seeds the next window. Document writes
// are best effort: a failed document is logged and skipped, never fatal.
func (s *HandoffService) Perform(
	ctx context.Context,
	sess *domain.Session,
	state *domain.BeliefState,
	candidate *domain.IdeaCandidate,
	risks []domain.ViabilityRisk,
	window []domain.Message,
) error {
	summary, err := s.llm.SummarizeConversation(ctx, window)
	if err != nil || strings.TrimSpace(summary) == "" {
		if err != nil {
			s.logger.Warn("summary generation failed, using fallback", zap.Error(err))
		}
		summary = fallbackSummary(state, candidate, window)
	}

	docs := []struct {
		name    string
		content string
	}{
		{DocSelfDiscovery, renderSelfDiscovery(state.SelfDiscovery)},
		{DocMarketDiscovery, renderMarketDiscovery(state.MarketDiscovery)},
		{DocNarrowingState, renderNarrowing(state.Narrowing)},
		{DocConversationSummary, summary},
		{DocIdeaCandidate, renderCandidate(candidate)},
		{DocViabilityAssessment, renderRisks(candidate, risks)},
		{DocHandoffNotes, renderHandoffNotes(sess, state, candidate)},
	}

	for _, d := range docs {
		doc := &domain.MemoryDocument{
			SessionID: sess.ID,
			Name:      d.name,
			Content:   d.content,
		}
		if embedding, err := s.embedder.Embed(ctx, d.content); err != nil {
			s.logger.Warn("embedding failed for memory document",
				zap.String("name", d.name), zap.Error(err))
		} else {
			doc.Embedding = embedding
		}
		if err := s.docs.Upsert(ctx, doc); err != nil {
			s.logger.Warn("failed to save memory document",
				zap.String("name", d.name), zap.Error(err))
		}
	}

	// Seed the new window with a memo so the next turn starts from the
	// compacted context instead of a blank slate.
	memoSeq, err := s.messages.NextSeq(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("next seq for memo: %w", err)
	}
	memo := &domain.Message{
		SessionID: sess.ID,
		Seq:       memoSeq,
		Role:      domain.RoleMemo,
		Content:   "Context restored from a previous conversation window.\n\n" + summary,
	}
	if err := s.messages.Create(ctx, memo); err != nil {
		return fmt.Errorf("save memo message: %w", err)
	}

	if err := s.sessions.UpdateWindow(ctx, sess.ID, memoSeq, sess.HandoffCount+1); err != nil {
		return fmt.Errorf("reset window: %w", err)
	}
	sess.WindowStart = memoSeq
	sess.HandoffCount++

	s.logger.Info("handoff performed",
		zap.String("session_id", sess.ID.String()),
		zap.Int("handoff_count", sess.HandoffCount),
		zap.Int("window_start", sess.WindowStart))
	return nil
}

func fallbackSummary(state *domain.BeliefState, candidate *domain.IdeaCandidate, window []domain.Message) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Conversation of %d messages compacted at %s.\n\n",
		len(window), time.Now().UTC().Format(time.RFC3339))
	if candidate != nil && candidate.Title != "" {
		fmt.Fprintf(&sb, "Idea in progress: %s.\n", candidate.Title)
	}
	if n := len(state.SelfDiscovery.Frustrations); n > 0 {
		fmt.Fprintf(&sb, "%d frustration(s) surfaced; the most recent: %s.\n",
			n, state.SelfDiscovery.Frustrations[n-1].Description)
	}
	if state.Narrowing.ProductType.IsSet() {
		fmt.Fprintf(&sb, "Product direction: %s.\n", state.Narrowing.ProductType.Value)
	}
	if state.Narrowing.CustomerType.IsSet() {
		fmt.Fprintf(&sb, "Target customer: %s.\n", state.Narrowing.CustomerType.Value)
	}
	return sb.String()
}

func renderSelfDiscovery(sd domain.SelfDiscovery) string {
	var sb strings.Builder
	sb.WriteString("# Self Discovery\n\n")

	if len(sd.Frustrations) > 0 {
		sb.WriteString("## Frustrations\n")
		for _, f := range sd.Frustrations {
			fmt.Fprintf(&sb, "- [%s] %s\n", f.Severity, f.Description)
		}
		sb.WriteString("\n")
	}
	if len(sd.Expertise) > 0 {
		sb.WriteString("## Expertise\n")
		for _, e := range sd.Expertise {
			fmt.Fprintf(&sb, "- %s (%s)", e.Area, e.Depth)
			if e.Evidence != "" {
				fmt.Fprintf(&sb, ": %s", e.Evidence)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	if len(sd.Interests) > 0 {
		sb.WriteString("## Interests\n")
		for _, i := range sd.Interests {
			fmt.Fprintf(&sb, "- %s\n", i.Topic)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Constraints\n")
	if sd.Constraints.TimeHoursPerWeek != nil {
		fmt.Fprintf(&sb, "- Time: %d hours/week\n", *sd.Constraints.TimeHoursPerWeek)
	}
	if sd.Constraints.Capital != nil {
		fmt.Fprintf(&sb, "- Capital: %s\n", *sd.Constraints.Capital)
	}
	if sd.Constraints.RiskTolerance != nil {
		fmt.Fprintf(&sb, "- Risk tolerance: %s\n", *sd.Constraints.RiskTolerance)
	}
	if sd.ImpactVision != nil {
		fmt.Fprintf(&sb, "\n## Impact Vision\n- %s scale (confidence %d)\n",
			sd.ImpactVision.Level, sd.ImpactVision.Confidence)
	}
	return sb.String()
}

func renderMarketDiscovery(md domain.MarketDiscovery) string {
	var sb strings.Builder
	sb.WriteString("# Market Discovery\n\n")

	if len(md.Competitors) > 0 {
		sb.WriteString("## Competitors\n")
		for _, c := range md.Competitors {
			fmt.Fprintf(&sb, "- %s", c.Name)
			if c.Description != "" {
				fmt.Fprintf(&sb, ": %s", c.Description)
			}
			if c.SourceURL != "" {
				fmt.Fprintf(&sb, " (%s)", c.SourceURL)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	if len(md.Gaps) > 0 {
		sb.WriteString("## Gaps\n")
		for _, g := range md.Gaps {
			fmt.Fprintf(&sb, "- %s (confidence %d)\n", g.Description, g.Confidence)
		}
		sb.WriteString("\n")
	}
	if len(md.Trends) > 0 {
		sb.WriteString("## Trends\n")
		for _, t := range md.Trends {
			fmt.Fprintf(&sb, "- %s (%s)\n", t.Name, t.Direction)
		}
		sb.WriteString("\n")
	}
	if md.MarketSize != nil {
		fmt.Fprintf(&sb, "## Market Size\n- %s", md.MarketSize.Value)
		if md.MarketSize.Year > 0 {
			fmt.Fprintf(&sb, " (%d)", md.MarketSize.Year)
		}
		sb.WriteString("\n\n")
	}
	if len(md.Searches) > 0 {
		sb.WriteString("## Searches Run\n")
		for _, s := range md.Searches {
			fmt.Fprintf(&sb, "- %q: %s\n", s.Query, s.FindingsSummary)
		}
	}
	return sb.String()
}

func renderNarrowing(n domain.Narrowing) string {
	var sb strings.Builder
	sb.WriteString("# Narrowing State\n\n")
	renderSlot(&sb, "Product type", n.ProductType)
	renderSlot(&sb, "Customer type", n.CustomerType)
	renderSlot(&sb, "Geography", n.Geography)
	renderSlot(&sb, "Technical depth", n.TechnicalDepth)
	return sb.String()
}

func renderSlot(sb *strings.Builder, label string, v domain.ConfidentValue) {
	if v.IsSet() {
		fmt.Fprintf(sb, "- %s: %s (confidence %.2f)\n", label, v.Value, v.Confidence)
	} else {
		fmt.Fprintf(sb, "- %s: undecided\n", label)
	}
}

func renderCandidate(c *domain.IdeaCandidate) string {
	if c == nil {
		return "# Idea Candidate\n\nNo candidate has formed yet.\n"
	}
	var sb strings.Builder
	sb.WriteString("# Idea Candidate\n\n")
	fmt.Fprintf(&sb, "- Title: %s\n", c.Title)
	if c.Summary != "" {
		fmt.Fprintf(&sb, "- Summary: %s\n", c.Summary)
	}
	fmt.Fprintf(&sb, "- Status: %s\n", c.Status)
	fmt.Fprintf(&sb, "- Confidence: %d/100\n", c.Confidence)
	fmt.Fprintf(&sb, "- Viability: %d/100\n", c.Viability)
	return sb.String()
}

func renderRisks(c *domain.IdeaCandidate, risks []domain.ViabilityRisk) string {
	var sb strings.Builder
	sb.WriteString("# Viability Assessment\n\n")
	if c != nil {
		fmt.Fprintf(&sb, "Viability score: %d/100\n\n", c.Viability)
	}
	if len(risks) == 0 {
		sb.WriteString("No open risks.\n")
		return sb.String()
	}
	for _, r := range risks {
		fmt.Fprintf(&sb, "- [%s] %s: %s", r.Severity, r.Type, r.Description)
		if r.Source != "" {
			fmt.Fprintf(&sb, " (source: %s)", r.Source)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderHandoffNotes(sess *domain.Session, state *domain.BeliefState, c *domain.IdeaCandidate) string {
	var sb strings.Builder
	sb.WriteString("# Handoff Notes\n\n")
	fmt.Fprintf(&sb, "- Handoffs so far: %d\n", sess.HandoffCount+1)
	fmt.Fprintf(&sb, "- User confirmations: %d\n", sess.ConfirmationCount)

	var open []string
	if !state.Narrowing.ProductType.IsSet() {
		open = append(open, "product type")
	}
	if !state.Narrowing.CustomerType.IsSet() {
		open = append(open, "customer type")
	}
	if !state.Narrowing.Geography.IsSet() {
		open = append(open, "geography")
	}
	if len(open) > 0 {
		fmt.Fprintf(&sb, "- Still undecided: %s\n", strings.Join(open, ", "))
	}
	if c == nil {
		sb.WriteString("- Next: keep digging for frustrations and expertise until an idea forms.\n")
	} else if len(state.MarketDiscovery.Searches) == 0 {
		sb.WriteString("- Next: validate the candidate against the market with a web search.\n")
	} else {
		sb.WriteString("- Next: pressure-test the remaining risks and push toward capture.\n")
	}
	return sb.String()
}
