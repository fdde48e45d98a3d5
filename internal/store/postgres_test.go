package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoePa99/segmentclaude/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func projectColumns() []string {
	return []string{"id", "context", "provider", "status", "error", "created_at", "updated_at"}
}

func TestPostgresStore_CreateProject(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO projects`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "anthropic", "draft", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	p, err := s.CreateProject(context.Background(), testBusinessContext(), "anthropic")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, model.ProjectStatusDraft, p.Status)
	assert.Equal(t, "Artisan Coffee Launch", p.Context.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetProject(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, context, provider, status, error, created_at, updated_at FROM projects WHERE id = \$1`).
		WithArgs("proj-1").
		WillReturnRows(pgxmock.NewRows(projectColumns()).AddRow(
			"proj-1", `{"name":"Artisan Coffee Launch","weights":{"demographics":25}}`,
			"openai", model.ProjectStatusCompleted, "", now, now,
		))

	p, err := s.GetProject(context.Background(), "proj-1")
	require.NoError(t, err)
	assert.Equal(t, "proj-1", p.ID)
	assert.Equal(t, "Artisan Coffee Launch", p.Context.Name)
	assert.Equal(t, 25, p.Context.Weights.Demographics)
	assert.Equal(t, model.ProjectStatusCompleted, p.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetProject_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, context, provider, status, error, created_at, updated_at FROM projects WHERE id = \$1`).
		WithArgs("nonexistent").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetProject(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListProjects_StatusFilter(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM projects WHERE status = \$1 ORDER BY created_at DESC LIMIT \$2`).
		WithArgs("completed", 5).
		WillReturnRows(pgxmock.NewRows(projectColumns()).AddRow(
			"proj-1", `{"name":"A"}`, "", model.ProjectStatusCompleted, "", now, now,
		))

	projects, err := s.ListProjects(context.Background(), ProjectFilter{
		Status: model.ProjectStatusCompleted,
		Limit:  5,
	})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "proj-1", projects[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateProjectStatus_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE projects SET status = \$1`).
		WithArgs("completed", "", pgxmock.AnyArg(), "nonexistent").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateProjectStatus(context.Background(), "nonexistent", model.ProjectStatusCompleted, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteProject(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM projects WHERE id = \$1`).
		WithArgs("proj-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, s.DeleteProject(context.Background(), "proj-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateDocument(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO documents`).
		WithArgs(pgxmock.AnyArg(), "proj-1", "survey.pdf", "application/pdf", int64(2048),
			"uploaded", "", "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	doc := &model.Document{
		ProjectID: "proj-1",
		FileName:  "survey.pdf",
		MimeType:  "application/pdf",
		SizeBytes: 2048,
	}
	require.NoError(t, s.CreateDocument(context.Background(), doc))
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, model.DocumentStatusUploaded, doc.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateDocumentText(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE documents SET extracted_text = \$1`).
		WithArgs("extracted text", "processed", pgxmock.AnyArg(), "doc-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, s.UpdateDocumentText(context.Background(), "doc-1", "extracted text"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveSegmentation(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO segmentations`).
		WithArgs(pgxmock.AnyArg(), "proj-1", pgxmock.AnyArg(), "summary", "raw",
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	result := &model.SegmentationResult{
		ProjectID: "proj-1",
		Segments:  []model.Segment{{Name: "Young Urban Professionals", Size: "15%"}},
		Summary:   "summary",
		RawText:   "raw",
		Model:     model.ModelInfo{Provider: "anthropic", Name: "claude-3-5-sonnet"},
	}
	require.NoError(t, s.SaveSegmentation(context.Background(), result))
	assert.NotEmpty(t, result.ID)
	assert.False(t, result.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LatestSegmentation(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`FROM segmentations WHERE project_id = \$1 ORDER BY created_at DESC LIMIT 1`).
		WithArgs("proj-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "project_id", "segments", "summary", "raw_text", "model", "created_at"}).
			AddRow("seg-1", "proj-1", `[{"name":"Budget Families","size":"20%"}]`, "sum", "raw",
				`{"provider":"openai","name":"gpt-4"}`, now))

	result, err := s.LatestSegmentation(context.Background(), "proj-1")
	require.NoError(t, err)
	require.Len(t, result.Segments, 1)
	assert.Equal(t, "Budget Families", result.Segments[0].Name)
	assert.Equal(t, "openai", result.Model.Provider)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveFocusGroup(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO focus_groups`).
		WithArgs(pgxmock.AnyArg(), "proj-1", "seg-1", "Budget Families", "Why switch brands?",
			pgxmock.AnyArg(), pgxmock.AnyArg(), "summary", "raw", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	fg := &model.FocusGroup{
		ProjectID:      "proj-1",
		SegmentationID: "seg-1",
		SegmentName:    "Budget Families",
		Question:       "Why switch brands?",
		Participants:   []model.Participant{{Name: "Moderator"}},
		Transcript:     []model.Exchange{{Speaker: "Moderator", Text: "Welcome."}},
		Summary:        "summary",
		RawText:        "raw",
	}
	require.NoError(t, s.SaveFocusGroup(context.Background(), fg))
	assert.NotEmpty(t, fg.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS projects`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	assert.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
