package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/JoePa99/segmentclaude/internal/llm"
	"github.com/JoePa99/segmentclaude/internal/model"
	"github.com/JoePa99/segmentclaude/internal/store"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateProject(ctx context.Context, bc model.BusinessContext, provider string) (*model.Project, error) {
	args := m.Called(ctx, bc, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *mockStore) GetProject(ctx context.Context, projectID string) (*model.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *mockStore) ListProjects(ctx context.Context, filter store.ProjectFilter) ([]model.Project, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *mockStore) UpdateProjectStatus(ctx context.Context, projectID string, status model.ProjectStatus, errMsg string) error {
	args := m.Called(ctx, projectID, status, errMsg)
	return args.Error(0)
}

func (m *mockStore) UpdateProjectProvider(ctx context.Context, projectID, provider string) error {
	args := m.Called(ctx, projectID, provider)
	return args.Error(0)
}

func (m *mockStore) DeleteProject(ctx context.Context, projectID string) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *mockStore) CreateDocument(ctx context.Context, doc *model.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *mockStore) GetDocument(ctx context.Context, docID string) (*model.Document, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *mockStore) ListDocuments(ctx context.Context, projectID string) ([]model.Document, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *mockStore) UpdateDocumentText(ctx context.Context, docID, text string) error {
	args := m.Called(ctx, docID, text)
	return args.Error(0)
}

func (m *mockStore) UpdateDocumentStatus(ctx context.Context, docID string, status model.DocumentStatus, errMsg string) error {
	args := m.Called(ctx, docID, status, errMsg)
	return args.Error(0)
}

func (m *mockStore) SaveSegmentation(ctx context.Context, result *model.SegmentationResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *mockStore) GetSegmentation(ctx context.Context, segmentationID string) (*model.SegmentationResult, error) {
	args := m.Called(ctx, segmentationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SegmentationResult), args.Error(1)
}

func (m *mockStore) ListSegmentations(ctx context.Context, projectID string) ([]model.SegmentationResult, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SegmentationResult), args.Error(1)
}

func (m *mockStore) LatestSegmentation(ctx context.Context, projectID string) (*model.SegmentationResult, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SegmentationResult), args.Error(1)
}

func (m *mockStore) SaveFocusGroup(ctx context.Context, fg *model.FocusGroup) error {
	args := m.Called(ctx, fg)
	return args.Error(0)
}

func (m *mockStore) GetFocusGroup(ctx context.Context, focusGroupID string) (*model.FocusGroup, error) {
	args := m.Called(ctx, focusGroupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FocusGroup), args.Error(1)
}

func (m *mockStore) ListFocusGroups(ctx context.Context, projectID string) ([]model.FocusGroup, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FocusGroup), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, req llm.Request) (*llm.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Result), args.Error(1)
}

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, data []byte, mimeType string) (string, error) {
	args := m.Called(ctx, data, mimeType)
	return args.String(0), args.Error(1)
}
