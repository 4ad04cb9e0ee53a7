package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ideakiln/ideakiln/internal/domain"
	"github.com/ideakiln/ideakiln/internal/embedding"
	"github.com/ideakiln/ideakiln/internal/llm"
)

func newTestHandoff(db *memDB, llmClient domain.LLMClient, embedder domain.EmbeddingClient) *HandoffService {
	return NewHandoffService(
		&memSessionStore{db: db},
		&memMessageStore{db: db},
		&memMemoryDocStore{db: db},
		llmClient,
		embedder,
		zap.NewNop(),
	)
}

func seedSession(t *testing.T, db *memDB) *domain.Session {
	t.Helper()
	sess := &domain.Session{Status: domain.SessionActive}
	if err := (&memSessionStore{db: db}).Create(context.Background(), sess); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return sess
}

func TestNeedsHandoff_Boundary(t *testing.T) {
	svc := newTestHandoff(newMemDB(), llm.NewMockClient(), embedding.NewMockClient())
	svc.TokenBudget = 100 // threshold: 80 tokens = 320 chars

	below := []domain.Message{{Content: strings.Repeat("a", 319)}}
	if svc.NeedsHandoff(below) {
		t.Error("319 chars (79 tokens) must not trigger a handoff")
	}

	at := []domain.Message{{Content: strings.Repeat("a", 320)}}
	if !svc.NeedsHandoff(at) {
		t.Error("320 chars (80 tokens) must trigger a handoff")
	}
}

func TestPerform_WritesFullDocumentSet(t *testing.T) {
	db := newMemDB()
	svc := newTestHandoff(db, llm.NewMockClient(), embedding.NewMockClient())
	sess := seedSession(t, db)

	state := domain.NewBeliefState()
	state.SelfDiscovery.Frustrations = []domain.Frustration{
		{Description: "booking coworking is painful", Severity: domain.SeverityHigh},
	}
	candidate := &domain.IdeaCandidate{SessionID: sess.ID, Title: "Coworking aggregator", Confidence: 40}
	window := []domain.Message{
		{SessionID: sess.ID, Seq: 1, Role: domain.RoleUser, Content: "hello"},
		{SessionID: sess.ID, Seq: 2, Role: domain.RoleAgent, Content: "hi"},
	}

	if err := svc.Perform(context.Background(), sess, state, candidate, nil, window); err != nil {
		t.Fatalf("Perform: %v", err)
	}

	wantDocs := []string{
		DocSelfDiscovery, DocMarketDiscovery, DocNarrowingState,
		DocConversationSummary, DocIdeaCandidate, DocViabilityAssessment, DocHandoffNotes,
	}
	if len(db.docs[sess.ID]) != len(wantDocs) {
		t.Fatalf("doc count = %d, want %d", len(db.docs[sess.ID]), len(wantDocs))
	}
	for _, name := range wantDocs {
		doc, ok := db.docs[sess.ID][name]
		if !ok {
			t.Errorf("missing memory document %q", name)
			continue
		}
		if strings.TrimSpace(doc.Content) == "" {
			t.Errorf("document %q has empty content", name)
		}
		if len(doc.Embedding) == 0 {
			t.Errorf("document %q has no embedding", name)
		}
	}
}

func TestPerform_SeedsNewWindowWithMemo(t *testing.T) {
	db := newMemDB()
	svc := newTestHandoff(db, llm.NewMockClient(), embedding.NewMockClient())
	sess := seedSession(t, db)

	msgs := &memMessageStore{db: db}
	for seq := 1; seq <= 4; seq++ {
		role := domain.RoleUser
		if seq%2 == 0 {
			role = domain.RoleAgent
		}
		_ = msgs.Create(context.Background(), &domain.Message{SessionID: sess.ID, Seq: seq, Role: role, Content: "m"})
	}
	window, _ := msgs.ListBySession(context.Background(), sess.ID)

	if err := svc.Perform(context.Background(), sess, domain.NewBeliefState(), nil, nil, window); err != nil {
		t.Fatalf("Perform: %v", err)
	}

	if sess.WindowStart != 5 {
		t.Errorf("WindowStart = %d, want 5 (the memo seq)", sess.WindowStart)
	}
	if sess.HandoffCount != 1 {
		t.Errorf("HandoffCount = %d, want 1", sess.HandoffCount)
	}

	newWindow, _ := msgs.ListFromSeq(context.Background(), sess.ID, sess.WindowStart)
	if len(newWindow) != 1 {
		t.Fatalf("new window = %d messages, want only the memo", len(newWindow))
	}
	memo := newWindow[0]
	if memo.Role != domain.RoleMemo {
		t.Errorf("role = %s, want memo", memo.Role)
	}
	if !strings.HasPrefix(memo.Content, "Context restored from a previous conversation window.") {
		t.Errorf("memo content should announce the restore, got %q", memo.Content)
	}
	if !strings.Contains(memo.Content, "Mock conversation summary") {
		t.Errorf("memo should embed the summary, got %q", memo.Content)
	}

	stored := db.sessions[sess.ID]
	if stored.WindowStart != 5 || stored.HandoffCount != 1 {
		t.Errorf("stored session not updated: windowStart=%d handoffCount=%d", stored.WindowStart, stored.HandoffCount)
	}
}

func TestPerform_FallbackSummaryOnLLMError(t *testing.T) {
	db := newMemDB()
	mockLLM := llm.NewMockClient()
	mockLLM.SummarizeError = errors.New("model unavailable")
	svc := newTestHandoff(db, mockLLM, embedding.NewMockClient())
	sess := seedSession(t, db)

	state := domain.NewBeliefState()
	candidate := &domain.IdeaCandidate{SessionID: sess.ID, Title: "Coworking aggregator"}
	window := []domain.Message{{SessionID: sess.ID, Seq: 1, Role: domain.RoleUser, Content: "hello"}}

	if err := svc.Perform(context.Background(), sess, state, candidate, nil, window); err != nil {
		t.Fatalf("Perform must not fail when summarization does: %v", err)
	}

	summary := db.docs[sess.ID][DocConversationSummary]
	if !strings.Contains(summary.Content, "Coworking aggregator") {
		t.Errorf("fallback summary should mention the candidate, got %q", summary.Content)
	}
	if !strings.Contains(summary.Content, "1 messages compacted") {
		t.Errorf("fallback summary should count the window, got %q", summary.Content)
	}
}

func TestPerform_EmbeddingFailureIsNonFatal(t *testing.T) {
	db := newMemDB()
	embedder := embedding.NewMockClient()
	embedder.Error = errors.New("embedding down")
	svc := newTestHandoff(db, llm.NewMockClient(), embedder)
	sess := seedSession(t, db)

	window := []domain.Message{{SessionID: sess.ID, Seq: 1, Role: domain.RoleUser, Content: "hello"}}
	if err := svc.Perform(context.Background(), sess, domain.NewBeliefState(), nil, nil, window); err != nil {
		t.Fatalf("Perform must not fail when embedding does: %v", err)
	}

	if len(db.docs[sess.ID]) != 7 {
		t.Fatalf("doc count = %d, want 7 even without embeddings", len(db.docs[sess.ID]))
	}
	for name, doc := range db.docs[sess.ID] {
		if len(doc.Embedding) != 0 {
			t.Errorf("document %q should have no embedding", name)
		}
	}
}
