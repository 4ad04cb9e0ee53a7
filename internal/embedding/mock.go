package embedding

import (
	"context"
	"hash/fnv"
)

// MockClient produces deterministic vectors derived from the input text,
// so similarity lookups behave consistently in tests.
type MockClient struct {
	Error error
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.Error != nil {
		return nil, c.Error
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum32()

	vec := make([]float32, Dimensions)
	for i := range vec {
		seed = seed*1664525 + 1013904223
		vec[i] = float32(seed%1000)/1000.0 - 0.5
	}
	return vec, nil
}
