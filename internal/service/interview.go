package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ideakiln/ideakiln/internal/domain"
	"github.com/ideakiln/ideakiln/internal/llm"
	"github.com/ideakiln/ideakiln/internal/scoring"
	"github.com/ideakiln/ideakiln/internal/signal"
	"github.com/ideakiln/ideakiln/internal/store"
)

const recentUserTextWindow = 10

// InterviewService runs the turn loop: it converses through the LLM,
// extracts signals from both sides of the exchange, re-scores the candidate
// and persists everything a turn produced in one transaction.
type InterviewService struct {
	sessions   domain.SessionStore
	messages   domain.MessageStore
	beliefs    domain.BeliefStore
	candidates domain.CandidateStore
	riskStore  domain.RiskStore
	turns      domain.TurnStore
	llmClient  domain.LLMClient
	research   *ResearchService
	handoff    *HandoffService
	logger     *zap.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewInterviewService(
	sessions domain.SessionStore,
	messages domain.MessageStore,
	beliefs domain.BeliefStore,
	candidates domain.CandidateStore,
	riskStore domain.RiskStore,
	turns domain.TurnStore,
	llmClient domain.LLMClient,
	research *ResearchService,
	handoff *HandoffService,
	logger *zap.Logger,
) *InterviewService {
	return &InterviewService{
		sessions:   sessions,
		messages:   messages,
		beliefs:    beliefs,
		candidates: candidates,
		riskStore:  riskStore,
		turns:      turns,
		llmClient:  llmClient,
		research:   research,
		handoff:    handoff,
		logger:     logger,
		locks:      make(map[uuid.UUID]*sync.Mutex),
	}
}

// CreateSession starts a new interview with an empty belief state.
func (s *InterviewService) CreateSession(ctx context.Context) (*domain.Session, error) {
	sess := &domain.Session{Status: domain.SessionActive}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if err := s.beliefs.Save(ctx, sess.ID, domain.NewBeliefState()); err != nil {
		return nil, fmt.Errorf("init belief state: %w", err)
	}
	return sess, nil
}

// ProcessMessage runs one full turn. A second message for the same session
// while a turn is in flight is rejected with ErrSessionBusy.
func (s *InterviewService) ProcessMessage(ctx context.Context, sessionID uuid.UUID, userText string) (*domain.TurnResult, error) {
	lock := s.sessionLock(sessionID)
	if !lock.TryLock() {
		return nil, ErrSessionBusy
	}
	defer lock.Unlock()

	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != domain.SessionActive {
		return nil, ErrSessionClosed
	}

	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	candidate, err := s.loadCandidate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	window, err := s.messages.ListFromSeq(ctx, sessionID, sess.WindowStart)
	if err != nil {
		return nil, fmt.Errorf("load window: %w", err)
	}

	// Compact before the turn, never mid-turn, so one user message is
	// processed against exactly one window. The pending message counts
	// toward the budget. A failed handoff never blocks the turn: the
	// session keeps running past the budget and compaction is retried on
	// the next message.
	handoffPerformed := false
	pending := domain.Message{SessionID: sessionID, Role: domain.RoleUser, Content: userText}
	if s.handoff.NeedsHandoff(append(append([]domain.Message{}, window...), pending)) {
		if risks, err := s.riskStore.ListBySession(ctx, sessionID); err != nil {
			s.logger.Warn("handoff skipped, could not load risks",
				zap.String("session_id", sessionID.String()), zap.Error(err))
		} else if err := s.handoff.Perform(ctx, sess, state, candidate, risks, window); err != nil {
			s.logger.Warn("handoff failed, continuing with the full window",
				zap.String("session_id", sessionID.String()), zap.Error(err))
		} else {
			handoffPerformed = true
			if reloaded, err := s.messages.ListFromSeq(ctx, sessionID, sess.WindowStart); err != nil {
				s.logger.Warn("window reload failed after handoff",
					zap.String("session_id", sessionID.String()), zap.Error(err))
			} else {
				window = reloaded
			}
		}
	}

	seq, err := s.messages.NextSeq(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("next seq: %w", err)
	}
	userMsg := &domain.Message{
		SessionID: sessionID,
		Seq:       seq,
		Role:      domain.RoleUser,
		Content:   userText,
	}

	history := append(append([]domain.Message{}, window...), *userMsg)
	raw, err := s.llmClient.Converse(ctx, llm.InterviewSystemPrompt, history)
	if err != nil {
		return nil, fmt.Errorf("converse: %w", err)
	}
	parsed := llm.ParseResponse(raw)

	textDelta := signal.ExtractFromText(userText, lastAgentReply(window))
	newState := signal.Merge(parsed.SignalDelta(), textDelta, state)

	confirmations := sess.ConfirmationCount
	if signal.IsConfirmation(userText) {
		confirmations++
	}

	var rawResults []string
	if parsed.Structured != nil && parsed.Structured.WebSearchNeeded && len(parsed.Structured.SearchQueries) > 0 {
		outcomes := s.research.Run(ctx, parsed.Structured.SearchQueries)
		for _, o := range outcomes {
			rawResults = append(rawResults, o.Text)
			marketDelta := signal.ExtractMarketData(o.Query, o.Text)
			newState = signal.Merge(domain.SignalDelta{}, marketDelta, newState)
			signal.AppendSearchRecord(newState, o.Query, o.FindingsSummary(), time.Now().UTC())
		}
	}

	candidate = applyCandidateUpdate(candidate, sessionID, parsed)

	totalMessages := len(window) + 1
	vagueness := signal.AssessVagueness(candidate, newState.SelfDiscovery, newState.Narrowing,
		recentUserTexts(window, userText), totalMessages)

	confidence := scoring.CalculateConfidence(newState, candidate, confirmations)
	viability := scoring.CalculateViability(newState, candidate, rawResults, vagueness.Score)

	candidate = advanceCandidate(candidate, sessionID, confidence.Total, viability.Total)

	agentMsg := &domain.Message{
		SessionID: sessionID,
		Seq:       seq + 1,
		Role:      domain.RoleAgent,
		Content:   parsed.ReplyText(),
	}

	turn := &domain.TurnPersist{
		SessionID:         sessionID,
		UserMessage:       userMsg,
		AgentMessage:      agentMsg,
		State:             newState,
		Candidate:         candidate,
		Risks:             viability.Risks,
		ConfirmationCount: confirmations,
	}
	if err := s.turns.SaveTurn(ctx, turn); err != nil {
		return nil, fmt.Errorf("save turn: %w", err)
	}

	result := &domain.TurnResult{
		Reply:                parsed.ReplyText(),
		Confidence:           confidence.Total,
		Viability:            viability.Total,
		Risks:                viability.Risks,
		RequiresIntervention: viability.RequiresIntervention,
		Vagueness:            vagueness,
		HandoffPerformed:     handoffPerformed,
	}
	if parsed.Structured != nil {
		result.Buttons = parsed.Structured.Buttons
	}
	if vagueness.IsVague {
		result.ClarifyingQuestions = vagueness.ClarifyingQuestions
	}
	if candidate != nil && confidence.Total >= domain.CandidateDisplayThreshold {
		result.Candidate = candidate
	}

	s.logger.Info("turn processed",
		zap.String("session_id", sessionID.String()),
		zap.Int("confidence", confidence.Total),
		zap.Int("viability", viability.Total),
		zap.Int("vagueness", vagueness.Score),
		zap.Bool("handoff", handoffPerformed))
	return result, nil
}

// CaptureCandidate locks the idea in and completes the session.
func (s *InterviewService) CaptureCandidate(ctx context.Context, sessionID uuid.UUID) (*domain.IdeaCandidate, error) {
	return s.closeCandidate(ctx, sessionID, domain.CandidateCaptured, domain.SessionCompleted)
}

// DiscardCandidate abandons the idea and discards the session.
func (s *InterviewService) DiscardCandidate(ctx context.Context, sessionID uuid.UUID) (*domain.IdeaCandidate, error) {
	return s.closeCandidate(ctx, sessionID, domain.CandidateDiscarded, domain.SessionDiscarded)
}

func (s *InterviewService) closeCandidate(ctx context.Context, sessionID uuid.UUID, cs domain.CandidateStatus, ss domain.SessionStatus) (*domain.IdeaCandidate, error) {
	candidate, err := s.candidates.GetBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoCandidate
		}
		return nil, err
	}
	if candidate.Status.IsTerminal() {
		return nil, ErrSessionClosed
	}
	if err := s.candidates.UpdateStatus(ctx, candidate.ID, cs); err != nil {
		return nil, err
	}
	candidate.Status = cs
	if err := s.sessions.UpdateStatus(ctx, sessionID, ss); err != nil {
		return nil, err
	}
	if cs == domain.CandidateDiscarded {
		// The risks were derived against the discarded idea.
		if err := s.riskStore.Replace(ctx, sessionID, nil); err != nil {
			s.logger.Warn("failed to clear risks for discarded candidate",
				zap.String("session_id", sessionID.String()), zap.Error(err))
		}
	}
	return candidate, nil
}

// SessionState is the read-model for the state endpoint.
type SessionState struct {
	Session   *domain.Session        `json:"session"`
	State     *domain.BeliefState    `json:"state"`
	Candidate *domain.IdeaCandidate  `json:"candidate,omitempty"`
	Risks     []domain.ViabilityRisk `json:"risks"`
}

func (s *InterviewService) GetState(ctx context.Context, sessionID uuid.UUID) (*SessionState, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	candidate, err := s.loadCandidate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	risks, err := s.riskStore.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionState{Session: sess, State: state, Candidate: candidate, Risks: risks}, nil
}

func (s *InterviewService) loadState(ctx context.Context, sessionID uuid.UUID) (*domain.BeliefState, error) {
	state, err := s.beliefs.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.NewBeliefState(), nil
		}
		return nil, fmt.Errorf("load belief state: %w", err)
	}
	return state, nil
}

func (s *InterviewService) loadCandidate(ctx context.Context, sessionID uuid.UUID) (*domain.IdeaCandidate, error) {
	candidate, err := s.candidates.GetBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load candidate: %w", err)
	}
	return candidate, nil
}

func (s *InterviewService) sessionLock(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func lastAgentReply(window []domain.Message) string {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i].Role == domain.RoleAgent {
			return window[i].Content
		}
	}
	return ""
}

func recentUserTexts(window []domain.Message, current string) []string {
	var texts []string
	for _, m := range window {
		if m.Role == domain.RoleUser {
			texts = append(texts, m.Content)
		}
	}
	texts = append(texts, current)
	if len(texts) > recentUserTextWindow {
		texts = texts[len(texts)-recentUserTextWindow:]
	}
	return texts
}

func applyCandidateUpdate(candidate *domain.IdeaCandidate, sessionID uuid.UUID, parsed llm.ParsedResponse) *domain.IdeaCandidate {
	if parsed.Structured == nil || parsed.Structured.CandidateUpdate == nil {
		return candidate
	}
	update := parsed.Structured.CandidateUpdate
	if update.Title == "" {
		return candidate
	}
	if candidate == nil {
		candidate = &domain.IdeaCandidate{
			SessionID: sessionID,
			Status:    domain.CandidateForming,
		}
	}
	if candidate.Status.IsTerminal() {
		return candidate
	}
	candidate.Title = update.Title
	if update.Summary != "" {
		candidate.Summary = update.Summary
	}
	return candidate
}

// advanceCandidate refreshes scores and promotes a forming candidate once
// it clears the display threshold.
func advanceCandidate(candidate *domain.IdeaCandidate, sessionID uuid.UUID, confidence, viability int) *domain.IdeaCandidate {
	if candidate == nil {
		return nil
	}
	candidate.SessionID = sessionID
	candidate.Confidence = confidence
	candidate.Viability = viability
	if candidate.Status == domain.CandidateForming && confidence >= domain.CandidateDisplayThreshold {
		candidate.Status = domain.CandidateActive
	}
	return candidate
}
