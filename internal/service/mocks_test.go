package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ideakiln/ideakiln/internal/domain"
	"github.com/ideakiln/ideakiln/internal/store"
)

// memDB is a shared in-memory backing for the store mocks so a test can wire
// every store against one consistent dataset.
type memDB struct {
	mu         sync.Mutex
	sessions   map[uuid.UUID]*domain.Session
	messages   map[uuid.UUID][]domain.Message
	beliefs    map[uuid.UUID]*domain.BeliefState
	candidates map[uuid.UUID]*domain.IdeaCandidate
	risks      map[uuid.UUID][]domain.ViabilityRisk
	docs       map[uuid.UUID]map[string]domain.MemoryDocument
}

func newMemDB() *memDB {
	return &memDB{
		sessions:   make(map[uuid.UUID]*domain.Session),
		messages:   make(map[uuid.UUID][]domain.Message),
		beliefs:    make(map[uuid.UUID]*domain.BeliefState),
		candidates: make(map[uuid.UUID]*domain.IdeaCandidate),
		risks:      make(map[uuid.UUID][]domain.ViabilityRisk),
		docs:       make(map[uuid.UUID]map[string]domain.MemoryDocument),
	}
}

type memSessionStore struct{ db *memDB }

func (s *memSessionStore) Create(ctx context.Context, sess *domain.Session) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	sess.ID = uuid.New()
	sess.CreatedAt = time.Now()
	sess.UpdatedAt = sess.CreatedAt
	copied := *sess
	s.db.sessions[sess.ID] = &copied
	return nil
}

func (s *memSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	sess, ok := s.db.sessions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *sess
	return &copied, nil
}

func (s *memSessionStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SessionStatus) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	sess, ok := s.db.sessions[id]
	if !ok {
		return store.ErrNotFound
	}
	sess.Status = status
	return nil
}

func (s *memSessionStore) UpdateWindow(ctx context.Context, id uuid.UUID, windowStart, handoffCount int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	sess, ok := s.db.sessions[id]
	if !ok {
		return store.ErrNotFound
	}
	sess.WindowStart = windowStart
	sess.HandoffCount = handoffCount
	return nil
}

type memMessageStore struct{ db *memDB }

func (s *memMessageStore) Create(ctx context.Context, m *domain.Message) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	s.db.messages[m.SessionID] = append(s.db.messages[m.SessionID], *m)
	return nil
}

func (s *memMessageStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.Message, error) {
	return s.ListFromSeq(ctx, sessionID, 0)
}

func (s *memMessageStore) ListFromSeq(ctx context.Context, sessionID uuid.UUID, fromSeq int) ([]domain.Message, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []domain.Message
	for _, m := range s.db.messages[sessionID] {
		if m.Seq >= fromSeq {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memMessageStore) NextSeq(ctx context.Context, sessionID uuid.UUID) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	max := 0
	for _, m := range s.db.messages[sessionID] {
		if m.Seq > max {
			max = m.Seq
		}
	}
	return max + 1, nil
}

type memBeliefStore struct{ db *memDB }

func (s *memBeliefStore) Get(ctx context.Context, sessionID uuid.UUID) (*domain.BeliefState, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	state, ok := s.db.beliefs[sessionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return state, nil
}

func (s *memBeliefStore) Save(ctx context.Context, sessionID uuid.UUID, state *domain.BeliefState) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.beliefs[sessionID] = state
	return nil
}

type memCandidateStore struct{ db *memDB }

func (s *memCandidateStore) GetBySession(ctx context.Context, sessionID uuid.UUID) (*domain.IdeaCandidate, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c, ok := s.db.candidates[sessionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *memCandidateStore) Upsert(ctx context.Context, c *domain.IdeaCandidate) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
		c.CreatedAt = time.Now()
	}
	c.UpdatedAt = time.Now()
	copied := *c
	s.db.candidates[c.SessionID] = &copied
	return nil
}

func (s *memCandidateStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CandidateStatus) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, c := range s.db.candidates {
		if c.ID == id {
			c.Status = status
			return nil
		}
	}
	return store.ErrNotFound
}

type memRiskStore struct{ db *memDB }

func (s *memRiskStore) Replace(ctx context.Context, sessionID uuid.UUID, risks []domain.ViabilityRisk) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.risks[sessionID] = append([]domain.ViabilityRisk(nil), risks...)
	return nil
}

func (s *memRiskStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.ViabilityRisk, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return append([]domain.ViabilityRisk(nil), s.db.risks[sessionID]...), nil
}

type memMemoryDocStore struct{ db *memDB }

func (s *memMemoryDocStore) Upsert(ctx context.Context, d *domain.MemoryDocument) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	if s.db.docs[d.SessionID] == nil {
		s.db.docs[d.SessionID] = make(map[string]domain.MemoryDocument)
	}
	s.db.docs[d.SessionID][d.Name] = *d
	return nil
}

func (s *memMemoryDocStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.MemoryDocument, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []domain.MemoryDocument
	for _, d := range s.db.docs[sessionID] {
		out = append(out, d)
	}
	return out, nil
}

func (s *memMemoryDocStore) FindSimilar(ctx context.Context, sessionID uuid.UUID, embedding []float32, limit int) ([]domain.MemoryDocument, error) {
	docs, _ := s.ListBySession(ctx, sessionID)
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

type memTurnStore struct{ db *memDB }

func (s *memTurnStore) SaveTurn(ctx context.Context, turn *domain.TurnPersist) error {
	msgStore := &memMessageStore{db: s.db}
	if turn.UserMessage != nil {
		if err := msgStore.Create(ctx, turn.UserMessage); err != nil {
			return err
		}
	}
	if turn.AgentMessage != nil {
		if err := msgStore.Create(ctx, turn.AgentMessage); err != nil {
			return err
		}
	}
	if turn.State != nil {
		if err := (&memBeliefStore{db: s.db}).Save(ctx, turn.SessionID, turn.State); err != nil {
			return err
		}
	}
	if turn.Candidate != nil {
		if err := (&memCandidateStore{db: s.db}).Upsert(ctx, turn.Candidate); err != nil {
			return err
		}
	}
	if err := (&memRiskStore{db: s.db}).Replace(ctx, turn.SessionID, turn.Risks); err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if sess, ok := s.db.sessions[turn.SessionID]; ok {
		sess.ConfirmationCount = turn.ConfirmationCount
	}
	return nil
}

// blockingLLM parks Converse until released, for exercising the per-session
// busy guard.
type blockingLLM struct {
	started chan struct{}
	release chan struct{}
}

func newBlockingLLM() *blockingLLM {
	return &blockingLLM{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (c *blockingLLM) Converse(ctx context.Context, systemPrompt string, history []domain.Message) (string, error) {
	close(c.started)
	<-c.release
	return `{"text": "done waiting"}`, nil
}

func (c *blockingLLM) SummarizeConversation(ctx context.Context, msgs []domain.Message) (string, error) {
	return "summary", nil
}
