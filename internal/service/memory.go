package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ideakiln/ideakiln/internal/domain"
)

const defaultRecallLimit = 3

// MemoryService reads back the documents handoffs leave behind.
type MemoryService struct {
	docs     domain.MemoryDocStore
	embedder domain.EmbeddingClient
	logger   *zap.Logger
}

func NewMemoryService(docs domain.MemoryDocStore, embedder domain.EmbeddingClient, logger *zap.Logger) *MemoryService {
	return &MemoryService{docs: docs, embedder: embedder, logger: logger}
}

// List returns every memory document for the session.
func (s *MemoryService) List(ctx context.Context, sessionID uuid.UUID) ([]domain.MemoryDocument, error) {
	return s.docs.ListBySession(ctx, sessionID)
}

// Recall returns the documents most similar to the query. An empty query
// falls back to listing everything.
func (s *MemoryService) Recall(ctx context.Context, sessionID uuid.UUID, query string, limit int) ([]domain.MemoryDocument, error) {
	if strings.TrimSpace(query) == "" {
		return s.List(ctx, sessionID)
	}
	if limit <= 0 {
		limit = defaultRecallLimit
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed recall query: %w", err)
	}
	return s.docs.FindSimilar(ctx, sessionID, embedding, limit)
}
