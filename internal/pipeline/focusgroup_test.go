package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JoePa99/segmentclaude/internal/llm"
	"github.com/JoePa99/segmentclaude/internal/model"
	"github.com/JoePa99/segmentclaude/internal/parse"
	"github.com/JoePa99/segmentclaude/internal/registry"
)

const focusGroupCompletion = `Moderator: Welcome everyone, let's get started.

Sarah (34, budget shopper): I always compare prices before buying.

Michael (41, brand loyalist): I stick with what I know works.
`

func testSegmentation(projectID string) *model.SegmentationResult {
	return &model.SegmentationResult{
		ID:        "seg-1",
		ProjectID: projectID,
		Segments: []model.Segment{
			{Name: "Budget Families", Description: "Price-driven households.",
				PainPoints: []string{"hidden fees"}},
		},
	}
}

func isModeratorReq(req llm.Request) bool {
	return strings.Contains(req.System, "moderator")
}

func isSummaryReq(req llm.Request) bool {
	return strings.Contains(req.System, "analyst")
}

func TestGenerateFocusGroup(t *testing.T) {
	st := new(mockStore)
	gw := new(mockCompleter)
	g := newTestGenerator(st, gw, nil)

	st.On("GetProject", mock.Anything, "proj-1").Return(testProject("proj-1"), nil)
	st.On("GetSegmentation", mock.Anything, "seg-1").Return(testSegmentation("proj-1"), nil)
	gw.On("Complete", mock.Anything, mock.MatchedBy(isModeratorReq)).Return(&llm.Result{
		Text:     focusGroupCompletion,
		Provider: llm.ProviderAnthropic,
		Model:    "claude-3-5-sonnet",
	}, nil)
	gw.On("Complete", mock.Anything, mock.MatchedBy(isSummaryReq)).Return(&llm.Result{
		Text:     "  Participants prioritized price transparency.\n",
		Provider: llm.ProviderAnthropic,
		Model:    "claude-3-5-sonnet",
	}, nil)
	st.On("SaveFocusGroup", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*model.FocusGroup).ID = "fg-1"
	}).Return(nil)

	fg, err := g.GenerateFocusGroup(context.Background(), "proj-1", "seg-1", "Budget Families", "What frustrates you most?", Options{})

	require.NoError(t, err)
	assert.Equal(t, "fg-1", fg.ID)
	assert.Equal(t, "proj-1", fg.ProjectID)
	assert.Equal(t, "seg-1", fg.SegmentationID)
	assert.Equal(t, "Budget Families", fg.SegmentName)
	assert.Equal(t, "What frustrates you most?", fg.Question)
	assert.Equal(t, model.ModelInfo{Provider: "anthropic", Name: "claude-3-5-sonnet"}, fg.Model)
	assert.Equal(t, "Participants prioritized price transparency.", fg.Summary)
	require.NotEmpty(t, fg.Transcript)
	assert.Equal(t, "Moderator", fg.Transcript[0].Speaker)
	st.AssertExpectations(t)
	gw.AssertExpectations(t)
}

func TestGenerateFocusGroup_DefaultsToLatestSegmentationAndQuestion(t *testing.T) {
	st := new(mockStore)
	gw := new(mockCompleter)
	g := newTestGenerator(st, gw, nil)

	st.On("GetProject", mock.Anything, "proj-1").Return(testProject("proj-1"), nil)
	st.On("LatestSegmentation", mock.Anything, "proj-1").Return(testSegmentation("proj-1"), nil)
	gw.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return isModeratorReq(req) && strings.Contains(req.User, registry.FirstQuestion())
	})).Return(&llm.Result{Text: focusGroupCompletion, Provider: llm.ProviderAnthropic, Model: "claude-3-5-sonnet"}, nil)
	gw.On("Complete", mock.Anything, mock.MatchedBy(isSummaryReq)).Return(&llm.Result{
		Text: "Short summary.", Provider: llm.ProviderAnthropic, Model: "claude-3-5-sonnet"}, nil)
	st.On("SaveFocusGroup", mock.Anything, mock.Anything).Return(nil)

	fg, err := g.GenerateFocusGroup(context.Background(), "proj-1", "", "Budget Families", "", Options{})

	require.NoError(t, err)
	assert.Equal(t, "seg-1", fg.SegmentationID)
	assert.Equal(t, registry.FirstQuestion(), fg.Question)
	st.AssertNotCalled(t, "GetSegmentation", mock.Anything, mock.Anything)
}

func TestGenerateFocusGroup_SegmentNotFound(t *testing.T) {
	st := new(mockStore)
	gw := new(mockCompleter)
	g := newTestGenerator(st, gw, nil)

	st.On("GetProject", mock.Anything, "proj-1").Return(testProject("proj-1"), nil)
	st.On("LatestSegmentation", mock.Anything, "proj-1").Return(testSegmentation("proj-1"), nil)

	_, err := g.GenerateFocusGroup(context.Background(), "proj-1", "", "Luxury Seekers", "", Options{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in segmentation")
	gw.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestGenerateFocusGroup_SummaryFallback(t *testing.T) {
	st := new(mockStore)
	gw := new(mockCompleter)
	g := newTestGenerator(st, gw, nil)

	st.On("GetProject", mock.Anything, "proj-1").Return(testProject("proj-1"), nil)
	st.On("LatestSegmentation", mock.Anything, "proj-1").Return(testSegmentation("proj-1"), nil)
	gw.On("Complete", mock.Anything, mock.MatchedBy(isModeratorReq)).Return(&llm.Result{
		Text: focusGroupCompletion, Provider: llm.ProviderAnthropic, Model: "claude-3-5-sonnet"}, nil)
	gw.On("Complete", mock.Anything, mock.MatchedBy(isSummaryReq)).Return(nil, eris.New("providers exhausted"))
	st.On("SaveFocusGroup", mock.Anything, mock.Anything).Return(nil)

	fg, err := g.GenerateFocusGroup(context.Background(), "proj-1", "", "Budget Families", "", Options{})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(fg.Summary, "This focus group revealed several key insights related to Budget Families"))
}

func TestCheckTranscript(t *testing.T) {
	err := checkTranscript(&model.FocusGroup{})

	require.Error(t, err)
	var emptyErr *parse.EmptyResultError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, "focus-group", emptyErr.Kind)

	assert.NoError(t, checkTranscript(&model.FocusGroup{
		Transcript: []model.Exchange{{Speaker: "Moderator", Text: "Welcome."}},
	}))
}

func TestGenerateFocusGroup_TranscriptFailure(t *testing.T) {
	st := new(mockStore)
	gw := new(mockCompleter)
	g := newTestGenerator(st, gw, nil)

	st.On("GetProject", mock.Anything, "proj-1").Return(testProject("proj-1"), nil)
	st.On("LatestSegmentation", mock.Anything, "proj-1").Return(testSegmentation("proj-1"), nil)
	gw.On("Complete", mock.Anything, mock.MatchedBy(isModeratorReq)).Return(nil, eris.New("providers exhausted"))

	_, err := g.GenerateFocusGroup(context.Background(), "proj-1", "", "Budget Families", "", Options{})

	require.Error(t, err)
	st.AssertNotCalled(t, "SaveFocusGroup", mock.Anything, mock.Anything)
}
