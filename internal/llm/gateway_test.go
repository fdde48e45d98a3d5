package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JoePa99/segmentclaude/pkg/anthropic"
	"github.com/JoePa99/segmentclaude/pkg/openai"
)

func newTestGateway(oc openai.Client, ac anthropic.Client) *Gateway {
	return New(oc, ac, Config{
		AnthropicModel: "claude-3-5-sonnet",
		OpenAIModel:    "gpt-4",
		MaxTokens:      4000,
		Temperature:    0.7,
		RequestsPerMin: 600,
	})
}

func TestComplete_PrimaryAnthropic(t *testing.T) {
	ac := new(mockAnthropicClient)
	oc := new(mockOpenAIClient)
	ac.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.Model == "claude-3-5-sonnet" &&
			req.System == "You are a market researcher." &&
			len(req.Messages) == 1 && req.Messages[0].Content == "Segment this market."
	})).Return(anthropicResponse("## Segment One"), nil)

	g := newTestGateway(oc, ac)
	res, err := g.Complete(context.Background(), Request{
		System:   "You are a market researcher.",
		User:     "Segment this market.",
		Provider: ProviderAnthropic,
	})

	require.NoError(t, err)
	assert.Equal(t, "## Segment One", res.Text)
	assert.Equal(t, ProviderAnthropic, res.Provider)
	assert.Equal(t, "claude-3-5-sonnet", res.Model)
	assert.Equal(t, int64(120), res.InputTokens)
	assert.Equal(t, int64(450), res.OutputTokens)
	ac.AssertExpectations(t)
	oc.AssertNotCalled(t, "ChatCompletion", mock.Anything, mock.Anything)
}

func TestComplete_DefaultsToAnthropic(t *testing.T) {
	ac := new(mockAnthropicClient)
	ac.On("CreateMessage", mock.Anything, mock.Anything).Return(anthropicResponse("ok"), nil)

	g := newTestGateway(nil, ac)
	res, err := g.Complete(context.Background(), Request{User: "hello"})

	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, res.Provider)
	ac.AssertExpectations(t)
}

func TestComplete_NormalizesRequestedModel(t *testing.T) {
	ac := new(mockAnthropicClient)
	ac.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.Model == "claude-3-5-sonnet"
	})).Return(anthropicResponse("ok"), nil)

	g := newTestGateway(nil, ac)
	res, err := g.Complete(context.Background(), Request{
		User:     "hello",
		Provider: ProviderAnthropic,
		Model:    "claude-3-5-sonnet-20240620",
	})

	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-sonnet", res.Model)
	ac.AssertExpectations(t)
}

func TestComplete_FallsBackToOtherProvider(t *testing.T) {
	ac := new(mockAnthropicClient)
	oc := new(mockOpenAIClient)
	ac.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, eris.New("anthropic: 529 overloaded"))
	oc.On("ChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		// The fallback uses the fallback provider's default model,
		// not the caller's requested model.
		return req.Model == "gpt-4"
	})).Return(openaiResponse("## Segment One"), nil)

	g := newTestGateway(oc, ac)
	res, err := g.Complete(context.Background(), Request{
		User:     "hello",
		Provider: ProviderAnthropic,
		Model:    "claude-3-5-sonnet",
	})

	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, res.Provider)
	assert.Equal(t, "gpt-4", res.Model)
	assert.Equal(t, "## Segment One", res.Text)
	ac.AssertExpectations(t)
	oc.AssertExpectations(t)
}

func TestComplete_EmptyCompletionTriggersFallback(t *testing.T) {
	ac := new(mockAnthropicClient)
	oc := new(mockOpenAIClient)
	ac.On("CreateMessage", mock.Anything, mock.Anything).Return(anthropicResponse(""), nil)
	oc.On("ChatCompletion", mock.Anything, mock.Anything).Return(openaiResponse("recovered"), nil)

	g := newTestGateway(oc, ac)
	res, err := g.Complete(context.Background(), Request{User: "hello", Provider: ProviderAnthropic})

	require.NoError(t, err)
	assert.Equal(t, "recovered", res.Text)
	assert.Equal(t, ProviderOpenAI, res.Provider)
}

func TestComplete_BothProvidersFail(t *testing.T) {
	ac := new(mockAnthropicClient)
	oc := new(mockOpenAIClient)
	primary := eris.New("anthropic: 500")
	fallback := eris.New("openai: 429")
	ac.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, primary)
	oc.On("ChatCompletion", mock.Anything, mock.Anything).Return(nil, fallback)

	g := newTestGateway(oc, ac)
	_, err := g.Complete(context.Background(), Request{User: "hello", Provider: ProviderAnthropic})

	require.Error(t, err)
	var unavailable *GenerationUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, primary, unavailable.Primary)
	assert.Equal(t, fallback, unavailable.Fallback)
	assert.ErrorIs(t, err, fallback)
}

func TestComplete_NoFallbackAfterCancellation(t *testing.T) {
	ac := new(mockAnthropicClient)
	oc := new(mockOpenAIClient)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := newTestGateway(oc, ac)
	_, err := g.Complete(ctx, Request{User: "hello", Provider: ProviderAnthropic})

	require.Error(t, err)
	var unavailable *GenerationUnavailableError
	assert.False(t, errors.As(err, &unavailable))
	oc.AssertNotCalled(t, "ChatCompletion", mock.Anything, mock.Anything)
	ac.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestComplete_NilVendorFallsBack(t *testing.T) {
	ac := new(mockAnthropicClient)
	ac.On("CreateMessage", mock.Anything, mock.Anything).Return(anthropicResponse("ok"), nil)

	g := newTestGateway(nil, ac)
	res, err := g.Complete(context.Background(), Request{User: "hello", Provider: ProviderOpenAI})

	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, res.Provider)
	ac.AssertExpectations(t)
}

func TestComplete_SystemPromptOmittedWhenEmpty(t *testing.T) {
	oc := new(mockOpenAIClient)
	oc.On("ChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return len(req.Messages) == 1 && req.Messages[0].Role == "user"
	})).Return(openaiResponse("ok"), nil)

	g := newTestGateway(oc, nil)
	_, err := g.Complete(context.Background(), Request{User: "hello", Provider: ProviderOpenAI})

	require.NoError(t, err)
	oc.AssertExpectations(t)
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider("openai")
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, p)

	p, err = ParseProvider("anthropic")
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, p)

	_, err = ParseProvider("mistral")
	assert.Error(t, err)
}

func TestProviderOther(t *testing.T) {
	assert.Equal(t, ProviderAnthropic, ProviderOpenAI.Other())
	assert.Equal(t, ProviderOpenAI, ProviderAnthropic.Other())
}
