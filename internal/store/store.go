// Package store persists projects, uploaded documents, segmentation
// results, and focus group sessions. Two implementations are provided:
// SQLite for single-user local use and Postgres for server deployments.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/JoePa99/segmentclaude/internal/config"
	"github.com/JoePa99/segmentclaude/internal/model"
)

// ProjectFilter specifies criteria for listing projects.
type ProjectFilter struct {
	Status model.ProjectStatus `json:"status,omitempty"`
	Limit  int                 `json:"limit,omitempty"`
	Offset int                 `json:"offset,omitempty"`
}

// Store defines the persistence interface for the segmentation app.
type Store interface {
	// Projects
	CreateProject(ctx context.Context, bc model.BusinessContext, provider string) (*model.Project, error)
	GetProject(ctx context.Context, projectID string) (*model.Project, error)
	ListProjects(ctx context.Context, filter ProjectFilter) ([]model.Project, error)
	UpdateProjectStatus(ctx context.Context, projectID string, status model.ProjectStatus, errMsg string) error
	UpdateProjectProvider(ctx context.Context, projectID, provider string) error
	DeleteProject(ctx context.Context, projectID string) error

	// Documents
	CreateDocument(ctx context.Context, doc *model.Document) error
	GetDocument(ctx context.Context, docID string) (*model.Document, error)
	ListDocuments(ctx context.Context, projectID string) ([]model.Document, error)
	UpdateDocumentText(ctx context.Context, docID, text string) error
	UpdateDocumentStatus(ctx context.Context, docID string, status model.DocumentStatus, errMsg string) error

	// Segmentations
	SaveSegmentation(ctx context.Context, result *model.SegmentationResult) error
	GetSegmentation(ctx context.Context, segmentationID string) (*model.SegmentationResult, error)
	ListSegmentations(ctx context.Context, projectID string) ([]model.SegmentationResult, error)
	LatestSegmentation(ctx context.Context, projectID string) (*model.SegmentationResult, error)

	// Focus groups
	SaveFocusGroup(ctx context.Context, fg *model.FocusGroup) error
	GetFocusGroup(ctx context.Context, focusGroupID string) (*model.FocusGroup, error)
	ListFocusGroups(ctx context.Context, projectID string) ([]model.FocusGroup, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store from config, selecting the driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.SQLitePath)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
