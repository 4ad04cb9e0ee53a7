package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ideakiln/ideakiln/internal/domain"
	"github.com/ideakiln/ideakiln/internal/embedding"
)

func TestMemoryRecall_EmptyQueryListsEverything(t *testing.T) {
	db := newMemDB()
	docs := &memMemoryDocStore{db: db}
	svc := NewMemoryService(docs, embedding.NewMockClient(), zap.NewNop())
	sess := seedSession(t, db)

	for _, name := range []string{DocSelfDiscovery, DocMarketDiscovery, DocHandoffNotes} {
		_ = docs.Upsert(context.Background(), &domain.MemoryDocument{
			SessionID: sess.ID, Name: name, Content: "content",
		})
	}

	got, err := svc.Recall(context.Background(), sess.ID, "   ", 0)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("docs = %d, want all 3 for an empty query", len(got))
	}
}

func TestMemoryRecall_AppliesDefaultLimit(t *testing.T) {
	db := newMemDB()
	docs := &memMemoryDocStore{db: db}
	svc := NewMemoryService(docs, embedding.NewMockClient(), zap.NewNop())
	sess := seedSession(t, db)

	names := []string{DocSelfDiscovery, DocMarketDiscovery, DocNarrowingState, DocConversationSummary, DocHandoffNotes}
	for _, name := range names {
		_ = docs.Upsert(context.Background(), &domain.MemoryDocument{
			SessionID: sess.ID, Name: name, Content: "content",
		})
	}

	got, err := svc.Recall(context.Background(), sess.ID, "what did we decide about the market?", 0)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if len(got) != defaultRecallLimit {
		t.Errorf("docs = %d, want the default recall limit of %d", len(got), defaultRecallLimit)
	}
}

func TestMemoryRecall_EmbeddingErrorSurfaces(t *testing.T) {
	db := newMemDB()
	embedder := embedding.NewMockClient()
	embedder.Error = errors.New("embedding down")
	svc := NewMemoryService(&memMemoryDocStore{db: db}, embedder, zap.NewNop())
	sess := seedSession(t, db)

	if _, err := svc.Recall(context.Background(), sess.ID, "query", 0); err == nil {
		t.Error("a failed query embedding must surface, recall cannot fall back silently")
	}
}
