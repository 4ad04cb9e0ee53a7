package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideakiln/ideakiln/internal/domain"
)

func TestParseResponse_Structured(t *testing.T) {
	raw := `{"text": "Who exactly hits this problem?", "buttons": ["Freelancers", "Small teams"], "webSearchNeeded": true, "searchQueries": ["coworking space sydney"]}`

	parsed := ParseResponse(raw)

	require.NotNil(t, parsed.Structured)
	assert.Equal(t, "Who exactly hits this problem?", parsed.ReplyText())
	assert.Equal(t, []string{"Freelancers", "Small teams"}, parsed.Structured.Buttons)
	assert.True(t, parsed.Structured.WebSearchNeeded)
	assert.Equal(t, []string{"coworking space sydney"}, parsed.Structured.SearchQueries)
}

func TestParseResponse_FencedJSON(t *testing.T) {
	raw := "```json\n{\"text\": \"Tell me more.\"}\n```"

	parsed := ParseResponse(raw)

	require.NotNil(t, parsed.Structured)
	assert.Equal(t, "Tell me more.", parsed.ReplyText())
}

func TestParseResponse_JSONInsideProse(t *testing.T) {
	raw := `Here's my take: {"text": "What does it actually do?"} Hope that helps.`

	parsed := ParseResponse(raw)

	require.NotNil(t, parsed.Structured)
	assert.Equal(t, "What does it actually do?", parsed.ReplyText())
}

func TestParseResponse_MalformedFallsBackToRaw(t *testing.T) {
	raw := `{"text": "broken`

	parsed := ParseResponse(raw)

	assert.Nil(t, parsed.Structured)
	assert.Equal(t, raw, parsed.ReplyText())
}

func TestParseResponse_PlainTextFallsBackToRaw(t *testing.T) {
	raw := "Interesting. What made you notice that?"

	parsed := ParseResponse(raw)

	assert.Nil(t, parsed.Structured)
	assert.Equal(t, raw, parsed.ReplyText())
}

func TestParseResponse_EmptyTextTreatedAsFallback(t *testing.T) {
	raw := `{"buttons": ["A", "B"]}`

	parsed := ParseResponse(raw)

	// A payload with no reply text is useless as a structured turn.
	assert.Nil(t, parsed.Structured)
	assert.Equal(t, raw, parsed.ReplyText())
}

func TestSignalDelta_DefaultsHintConfidence(t *testing.T) {
	raw := `{"text": "ok", "signals": {"narrowing": {"productType": {"value": "SaaS"}}}}`

	delta := ParseResponse(raw).SignalDelta()

	require.NotNil(t, delta.ProductType)
	assert.Equal(t, "SaaS", delta.ProductType.Value)
	assert.Equal(t, llmHintDefaultConfidence, delta.ProductType.Confidence)
}

func TestSignalDelta_ValidatesEnums(t *testing.T) {
	raw := `{"text": "ok", "signals": {"selfDiscovery": {
		"frustration": {"description": "x", "severity": "catastrophic"},
		"expertise": [{"area": "logistics", "depth": "wizard"}]
	}}}`

	delta := ParseResponse(raw).SignalDelta()

	assert.Nil(t, delta.Frustration, "invalid severity must drop the frustration")
	require.Len(t, delta.Expertise, 1)
	assert.Equal(t, domain.DepthCompetent, delta.Expertise[0].Depth, "invalid depth falls back to competent")
}

func TestSignalDelta_FallbackIsEmpty(t *testing.T) {
	delta := ParseResponse("just prose").SignalDelta()
	assert.True(t, delta.IsEmpty())
}

func TestSignalDelta_ClampsConfidenceAboveOne(t *testing.T) {
	raw := `{"text": "ok", "signals": {"narrowing": {"customerType": {"value": "B2B", "confidence": 3}}}}`

	delta := ParseResponse(raw).SignalDelta()

	require.NotNil(t, delta.CustomerType)
	assert.Equal(t, 1.0, delta.CustomerType.Confidence)
}
