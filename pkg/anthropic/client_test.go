package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseText(t *testing.T) {
	resp := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: "## Segment One\n"},
			{Type: "tool_use", Text: "ignored"},
			{Type: "text", Text: "Details follow."},
		},
	}
	assert.Equal(t, "## Segment One\nDetails follow.", resp.Text())
}

func TestResponseText_EmptyTypeTreatedAsText(t *testing.T) {
	resp := &MessageResponse{Content: []ContentBlock{{Text: "plain"}}}
	assert.Equal(t, "plain", resp.Text())
}

func TestResponseText_NoContent(t *testing.T) {
	assert.Equal(t, "", (&MessageResponse{}).Text())
}

func TestEstimateCost(t *testing.T) {
	usage := TokenUsage{InputTokens: 1_000_000, OutputTokens: 500_000}

	assert.InDelta(t, 3.00+7.50, usage.EstimateCost("claude-3-5-sonnet"), 1e-9)
	assert.InDelta(t, 0.80+2.00, usage.EstimateCost("claude-3-5-haiku"), 1e-9)
}

func TestEstimateCost_UnknownModel(t *testing.T) {
	usage := TokenUsage{InputTokens: 1000, OutputTokens: 1000}
	assert.Zero(t, usage.EstimateCost("claude-2"))
}

func TestToSDKMessages_Roles(t *testing.T) {
	out := toSDKMessages([]Message{
		{Role: "user", Content: "question"},
		{Role: "assistant", Content: "answer"},
		{Role: "other", Content: "fallback"},
	})

	assert.Len(t, out, 3)
	assert.Equal(t, "user", string(out[0].Role))
	assert.Equal(t, "assistant", string(out[1].Role))
	// Unknown roles are sent as user messages.
	assert.Equal(t, "user", string(out[2].Role))
}
