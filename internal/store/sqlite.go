package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/JoePa99/segmentclaude/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS projects (
	id         TEXT PRIMARY KEY,
	context    TEXT NOT NULL,
	provider   TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'draft',
	error      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS documents (
	id             TEXT PRIMARY KEY,
	project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	file_name      TEXT NOT NULL,
	mime_type      TEXT NOT NULL,
	size_bytes     INTEGER NOT NULL DEFAULT 0,
	status         TEXT NOT NULL DEFAULT 'uploaded',
	extracted_text TEXT NOT NULL DEFAULT '',
	error          TEXT NOT NULL DEFAULT '',
	created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS segmentations (
	id         TEXT PRIMARY KEY,
	project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	segments   TEXT NOT NULL,
	summary    TEXT NOT NULL DEFAULT '',
	raw_text   TEXT NOT NULL DEFAULT '',
	model      TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS focus_groups (
	id              TEXT PRIMARY KEY,
	project_id      TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	segmentation_id TEXT NOT NULL DEFAULT '',
	segment_name    TEXT NOT NULL,
	question        TEXT NOT NULL DEFAULT '',
	participants    TEXT NOT NULL,
	transcript      TEXT NOT NULL,
	summary         TEXT NOT NULL DEFAULT '',
	raw_text        TEXT NOT NULL DEFAULT '',
	model           TEXT NOT NULL,
	created_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status);
CREATE INDEX IF NOT EXISTS idx_documents_project_id ON documents(project_id);
CREATE INDEX IF NOT EXISTS idx_segmentations_project_id ON segmentations(project_id);
CREATE INDEX IF NOT EXISTS idx_focus_groups_project_id ON focus_groups(project_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateProject(ctx context.Context, bc model.BusinessContext, provider string) (*model.Project, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	contextJSON, err := json.Marshal(bc)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal business context")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (id, context, provider, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(contextJSON), provider, string(model.ProjectStatusDraft), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert project")
	}

	return &model.Project{
		ID:        id,
		Context:   bc,
		Provider:  provider,
		Status:    model.ProjectStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) GetProject(ctx context.Context, projectID string) (*model.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, context, provider, status, error, created_at, updated_at FROM projects WHERE id = ?`,
		projectID,
	)
	return scanProject(row)
}

func (s *SQLiteStore) ListProjects(ctx context.Context, filter ProjectFilter) ([]model.Project, error) {
	query := `SELECT id, context, provider, status, error, created_at, updated_at FROM projects`
	args := []any{}
	if filter.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list projects")
	}
	defer rows.Close() //nolint:errcheck

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, eris.Wrap(rows.Err(), "sqlite: iterate projects")
}

func (s *SQLiteStore) UpdateProjectStatus(ctx context.Context, projectID string, status model.ProjectStatus, errMsg string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE projects SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(status), errMsg, time.Now().UTC(), projectID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update project status %s", projectID)
	}
	return checkRowsAffected(res, "project", projectID)
}

func (s *SQLiteStore) UpdateProjectProvider(ctx context.Context, projectID, provider string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE projects SET provider = ?, updated_at = ? WHERE id = ?`,
		provider, time.Now().UTC(), projectID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update project provider %s", projectID)
	}
	return checkRowsAffected(res, "project", projectID)
}

func (s *SQLiteStore) DeleteProject(ctx context.Context, projectID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, projectID)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete project %s", projectID)
	}
	return checkRowsAffected(res, "project", projectID)
}

func (s *SQLiteStore) CreateDocument(ctx context.Context, doc *model.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if doc.Status == "" {
		doc.Status = model.DocumentStatusUploaded
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, project_id, file_name, mime_type, size_bytes, status, extracted_text, error, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.ProjectID, doc.FileName, doc.MimeType, doc.SizeBytes,
		string(doc.Status), doc.ExtractedText, doc.Error, now, now,
	)
	return eris.Wrap(err, "sqlite: insert document")
}

func (s *SQLiteStore) GetDocument(ctx context.Context, docID string) (*model.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, file_name, mime_type, size_bytes, status, extracted_text, error, created_at, updated_at
		 FROM documents WHERE id = ?`,
		docID,
	)
	return scanDocument(row)
}

func (s *SQLiteStore) ListDocuments(ctx context.Context, projectID string) ([]model.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, file_name, mime_type, size_bytes, status, extracted_text, error, created_at, updated_at
		 FROM documents WHERE project_id = ? ORDER BY created_at`,
		projectID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list documents")
	}
	defer rows.Close() //nolint:errcheck

	var docs []model.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, eris.Wrap(rows.Err(), "sqlite: iterate documents")
}

func (s *SQLiteStore) UpdateDocumentText(ctx context.Context, docID, text string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET extracted_text = ?, status = ?, error = '', updated_at = ? WHERE id = ?`,
		text, string(model.DocumentStatusProcessed), time.Now().UTC(), docID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update document text %s", docID)
	}
	return checkRowsAffected(res, "document", docID)
}

func (s *SQLiteStore) UpdateDocumentStatus(ctx context.Context, docID string, status model.DocumentStatus, errMsg string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(status), errMsg, time.Now().UTC(), docID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update document status %s", docID)
	}
	return checkRowsAffected(res, "document", docID)
}

func (s *SQLiteStore) SaveSegmentation(ctx context.Context, result *model.SegmentationResult) error {
	if result.ID == "" {
		result.ID = uuid.New().String()
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}

	segmentsJSON, err := json.Marshal(result.Segments)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal segments")
	}
	modelJSON, err := json.Marshal(result.Model)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal model info")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO segmentations (id, project_id, segments, summary, raw_text, model, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.ProjectID, string(segmentsJSON), result.Summary,
		result.RawText, string(modelJSON), result.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert segmentation")
}

func (s *SQLiteStore) GetSegmentation(ctx context.Context, segmentationID string) (*model.SegmentationResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, segments, summary, raw_text, model, created_at
		 FROM segmentations WHERE id = ?`,
		segmentationID,
	)
	return scanSegmentation(row)
}

func (s *SQLiteStore) ListSegmentations(ctx context.Context, projectID string) ([]model.SegmentationResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, segments, summary, raw_text, model, created_at
		 FROM segmentations WHERE project_id = ? ORDER BY created_at DESC`,
		projectID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list segmentations")
	}
	defer rows.Close() //nolint:errcheck

	var results []model.SegmentationResult
	for rows.Next() {
		r, err := scanSegmentation(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, eris.Wrap(rows.Err(), "sqlite: iterate segmentations")
}

func (s *SQLiteStore) LatestSegmentation(ctx context.Context, projectID string) (*model.SegmentationResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, segments, summary, raw_text, model, created_at
		 FROM segmentations WHERE project_id = ? ORDER BY created_at DESC LIMIT 1`,
		projectID,
	)
	return scanSegmentation(row)
}

func (s *SQLiteStore) SaveFocusGroup(ctx context.Context, fg *model.FocusGroup) error {
	if fg.ID == "" {
		fg.ID = uuid.New().String()
	}
	if fg.CreatedAt.IsZero() {
		fg.CreatedAt = time.Now().UTC()
	}

	participantsJSON, err := json.Marshal(fg.Participants)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal participants")
	}
	transcriptJSON, err := json.Marshal(fg.Transcript)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal transcript")
	}
	modelJSON, err := json.Marshal(fg.Model)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal model info")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO focus_groups (id, project_id, segmentation_id, segment_name, question, participants, transcript, summary, raw_text, model, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fg.ID, fg.ProjectID, fg.SegmentationID, fg.SegmentName, fg.Question,
		string(participantsJSON), string(transcriptJSON), fg.Summary, fg.RawText,
		string(modelJSON), fg.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert focus group")
}

func (s *SQLiteStore) GetFocusGroup(ctx context.Context, focusGroupID string) (*model.FocusGroup, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, segmentation_id, segment_name, question, participants, transcript, summary, raw_text, model, created_at
		 FROM focus_groups WHERE id = ?`,
		focusGroupID,
	)
	return scanFocusGroup(row)
}

func (s *SQLiteStore) ListFocusGroups(ctx context.Context, projectID string) ([]model.FocusGroup, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, segmentation_id, segment_name, question, participants, transcript, summary, raw_text, model, created_at
		 FROM focus_groups WHERE project_id = ? ORDER BY created_at`,
		projectID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list focus groups")
	}
	defer rows.Close() //nolint:errcheck

	var groups []model.FocusGroup
	for rows.Next() {
		fg, err := scanFocusGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *fg)
	}
	return groups, eris.Wrap(rows.Err(), "sqlite: iterate focus groups")
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}
