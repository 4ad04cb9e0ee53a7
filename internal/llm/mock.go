package llm

import (
	"context"

	"github.com/ideakiln/ideakiln/internal/domain"
)

// MockClient is a configurable LLM client for testing.
// Set the response fields to control what each method returns.
type MockClient struct {
	ConverseResponse  string
	ConverseError     error
	SummarizeResponse string
	SummarizeError    error

	// Call tracking for assertions
	ConverseCalls  []ConverseCall
	SummarizeCalls [][]domain.Message
}

type ConverseCall struct {
	SystemPrompt string
	History      []domain.Message
}

func NewMockClient() *MockClient {
	return &MockClient{
		ConverseResponse:  `{"text": "Tell me more about that."}`,
		SummarizeResponse: "Mock conversation summary",
	}
}

func (c *MockClient) Converse(ctx context.Context, systemPrompt string, history []domain.Message) (string, error) {
	c.ConverseCalls = append(c.ConverseCalls, ConverseCall{SystemPrompt: systemPrompt, History: history})
	if c.ConverseError != nil {
		return "", c.ConverseError
	}
	return c.ConverseResponse, nil
}

func (c *MockClient) SummarizeConversation(ctx context.Context, msgs []domain.Message) (string, error) {
	c.SummarizeCalls = append(c.SummarizeCalls, msgs)
	if c.SummarizeError != nil {
		return "", c.SummarizeError
	}
	return c.SummarizeResponse, nil
}

// Reset clears all recorded calls and resets responses to defaults.
func (c *MockClient) Reset() {
	c.ConverseResponse = `{"text": "Tell me more about that."}`
	c.ConverseError = nil
	c.SummarizeResponse = "Mock conversation summary"
	c.SummarizeError = nil
	c.ConverseCalls = nil
	c.SummarizeCalls = nil
}
