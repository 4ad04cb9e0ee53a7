package search

import (
	"context"
	"strings"
)

// MockClient is a configurable search client for testing.
type MockClient struct {
	// Responses maps query substrings to canned result text. The first
	// matching entry wins; Fallback is returned when nothing matches.
	Responses map[string]string
	Fallback  string
	Error     error

	Queries []string
}

func NewMockClient() *MockClient {
	return &MockClient{
		Fallback: "No results found.",
	}
}

func (c *MockClient) Search(ctx context.Context, query string) (string, error) {
	c.Queries = append(c.Queries, query)
	if c.Error != nil {
		return "", c.Error
	}
	for needle, text := range c.Responses {
		if needle != "" && strings.Contains(strings.ToLower(query), strings.ToLower(needle)) {
			return text, nil
		}
	}
	return c.Fallback, nil
}
