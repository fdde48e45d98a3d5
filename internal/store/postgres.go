package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/JoePa99/segmentclaude/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies
// it for tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_project":        `INSERT INTO projects (id, context, provider, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
	"get_project":           `SELECT id, context, provider, status, error, created_at, updated_at FROM projects WHERE id = $1`,
	"update_project_status": `UPDATE projects SET status = $1, error = $2, updated_at = $3 WHERE id = $4`,
	"insert_document":       `INSERT INTO documents (id, project_id, file_name, mime_type, size_bytes, status, extracted_text, error, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
	"insert_segmentation":   `INSERT INTO segmentations (id, project_id, segments, summary, raw_text, model, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	"latest_segmentation":   `SELECT id, project_id, segments, summary, raw_text, model, created_at FROM segmentations WHERE project_id = $1 ORDER BY created_at DESC LIMIT 1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS projects (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	context    JSONB NOT NULL,
	provider   TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'draft',
	error      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS documents (
	id             TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	file_name      TEXT NOT NULL,
	mime_type      TEXT NOT NULL,
	size_bytes     BIGINT NOT NULL DEFAULT 0,
	status         TEXT NOT NULL DEFAULT 'uploaded',
	extracted_text TEXT NOT NULL DEFAULT '',
	error          TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS segmentations (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	segments   JSONB NOT NULL,
	summary    TEXT NOT NULL DEFAULT '',
	raw_text   TEXT NOT NULL DEFAULT '',
	model      JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS focus_groups (
	id              TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	project_id      TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	segmentation_id TEXT NOT NULL DEFAULT '',
	segment_name    TEXT NOT NULL,
	question        TEXT NOT NULL DEFAULT '',
	participants    JSONB NOT NULL,
	transcript      JSONB NOT NULL,
	summary         TEXT NOT NULL DEFAULT '',
	raw_text        TEXT NOT NULL DEFAULT '',
	model           JSONB NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status);
CREATE INDEX IF NOT EXISTS idx_documents_project_id ON documents(project_id);
CREATE INDEX IF NOT EXISTS idx_segmentations_project_id ON segmentations(project_id);
CREATE INDEX IF NOT EXISTS idx_segmentations_project_created ON segmentations(project_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_focus_groups_project_id ON focus_groups(project_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) CreateProject(ctx context.Context, bc model.BusinessContext, provider string) (*model.Project, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	contextJSON, err := json.Marshal(bc)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal business context")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO projects (id, context, provider, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, string(contextJSON), provider, string(model.ProjectStatusDraft), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert project")
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

func (s *PostgresStore) GetProject(ctx context.Context, projectID string) (*model.Project, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, context, provider, status, error, created_at, updated_at FROM projects WHERE id = $1`,
		projectID,
	)
	return scanProject(row)
}

func (s *PostgresStore) ListProjects(ctx context.Context, filter ProjectFilter) ([]model.Project, error) {
	query := `SELECT id, context, provider, status, error, created_at, updated_at FROM projects`
	args := []any{}
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list projects")
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, eris.Wrap(rows.Err(), "postgres: iterate projects")
}

func (s *PostgresStore) UpdateProjectStatus(ctx context.Context, projectID string, status model.ProjectStatus, errMsg string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE projects SET status = $1, error = $2, updated_at = $3 WHERE id = $4`,
		string(status), errMsg, time.Now().UTC(), projectID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update project status %s", projectID)
	}
	return checkTag(tag, "project", projectID)
}

func (s *PostgresStore) UpdateProjectProvider(ctx context.Context, projectID, provider string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE projects SET provider = $1, updated_at = $2 WHERE id = $3`,
		provider, time.Now().UTC(), projectID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update project provider %s", projectID)
	}
	return checkTag(tag, "project", projectID)
}

func (s *PostgresStore) DeleteProject(ctx context.Context, projectID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, projectID)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete project %s", projectID)
	}
	return checkTag(tag, "project", projectID)
}

func (s *PostgresStore) CreateDocument(ctx context.Context, doc *model.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if doc.Status == "" {
		doc.Status = model.DocumentStatusUploaded
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO documents (id, project_id, file_name, mime_type, size_bytes, status, extracted_text, error, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		doc.ID, doc.ProjectID, doc.FileName, doc.MimeType, doc.SizeBytes,
		string(doc.Status), doc.ExtractedText, doc.Error, now, now,
	)
	return eris.Wrap(err, "postgres: insert document")
}

func (s *PostgresStore) GetDocument(ctx context.Context, docID string) (*model.Document, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, project_id, file_name, mime_type, size_bytes, status, extracted_text, error, created_at, updated_at
		 FROM documents WHERE id = $1`,
		docID,
	)
	return scanDocument(row)
}

func (s *PostgresStore) ListDocuments(ctx context.Context, projectID string) ([]model.Document, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, project_id, file_name, mime_type, size_bytes, status, extracted_text, error, created_at, updated_at
		 FROM documents WHERE project_id = $1 ORDER BY created_at`,
		projectID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list documents")
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, eris.Wrap(rows.Err(), "postgres: iterate documents")
}

func (s *PostgresStore) UpdateDocumentText(ctx context.Context, docID, text string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE documents SET extracted_text = $1, status = $2, error = '', updated_at = $3 WHERE id = $4`,
		text, string(model.DocumentStatusProcessed), time.Now().UTC(), docID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update document text %s", docID)
	}
	return checkTag(tag, "document", docID)
}

func (s *PostgresStore) UpdateDocumentStatus(ctx context.Context, docID string, status model.DocumentStatus, errMsg string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE documents SET status = $1, error = $2, updated_at = $3 WHERE id = $4`,
		string(status), errMsg, time.Now().UTC(), docID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update document status %s", docID)
	}
	return checkTag(tag, "document", docID)
}

func (s *PostgresStore) SaveSegmentation(ctx context.Context, result *model.SegmentationResult) error {
	if result.ID == "" {
		result.ID = uuid.New().String()
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}

	segmentsJSON, err := json.Marshal(result.Segments)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal segments")
	}
	modelJSON, err := json.Marshal(result.Model)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal model info")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO segmentations (id, project_id, segments, summary, raw_text, model, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		result.ID, result.ProjectID, string(segmentsJSON), result.Summary,
		result.RawText, string(modelJSON), result.CreatedAt,
	)
	return eris.Wrap(err, "postgres: insert segmentation")
}

func (s *PostgresStore) GetSegmentation(ctx context.Context, segmentationID string) (*model.SegmentationResult, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, project_id, segments, summary, raw_text, model, created_at
		 FROM segmentations WHERE id = $1`,
		segmentationID,
	)
	return scanSegmentation(row)
}

func (s *PostgresStore) ListSegmentations(ctx context.Context, projectID string) ([]model.SegmentationResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, project_id, segments, summary, raw_text, model, created_at
		 FROM segmentations WHERE project_id = $1 ORDER BY created_at DESC`,
		projectID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list segmentations")
	}
	defer rows.Close()

	var results []model.SegmentationResult
	for rows.Next() {
		r, err := scanSegmentation(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, eris.Wrap(rows.Err(), "postgres: iterate segmentations")
}

func (s *PostgresStore) LatestSegmentation(ctx context.Context, projectID string) (*model.SegmentationResult, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, project_id, segments, summary, raw_text, model, created_at
		 FROM segmentations WHERE project_id = $1 ORDER BY created_at DESC LIMIT 1`,
		projectID,
	)
	return scanSegmentation(row)
}

func (s *PostgresStore) SaveFocusGroup(ctx context.Context, fg *model.FocusGroup) error {
	if fg.ID == "" {
		fg.ID = uuid.New().String()
	}
	if fg.CreatedAt.IsZero() {
		fg.CreatedAt = time.Now().UTC()
	}

	participantsJSON, err := json.Marshal(fg.Participants)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal participants")
	}
	transcriptJSON, err := json.Marshal(fg.Transcript)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal transcript")
	}
	modelJSON, err := json.Marshal(fg.Model)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal model info")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO focus_groups (id, project_id, segmentation_id, segment_name, question, participants, transcript, summary, raw_text, model, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		fg.ID, fg.ProjectID, fg.SegmentationID, fg.SegmentName, fg.Question,
		string(participantsJSON), string(transcriptJSON), fg.Summary, fg.RawText,
		string(modelJSON), fg.CreatedAt,
	)
	return eris.Wrap(err, "postgres: insert focus group")
}

func (s *PostgresStore) GetFocusGroup(ctx context.Context, focusGroupID string) (*model.FocusGroup, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, project_id, segmentation_id, segment_name, question, participants, transcript, summary, raw_text, model, created_at
		 FROM focus_groups WHERE id = $1`,
		focusGroupID,
	)
	return scanFocusGroup(row)
}

func (s *PostgresStore) ListFocusGroups(ctx context.Context, projectID string) ([]model.FocusGroup, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, project_id, segmentation_id, segment_name, question, participants, transcript, summary, raw_text, model, created_at
		 FROM focus_groups WHERE project_id = $1 ORDER BY created_at`,
		projectID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list focus groups")
	}
	defer rows.Close()

	var groups []model.FocusGroup
	for rows.Next() {
		fg, err := scanFocusGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *fg)
	}
	return groups, eris.Wrap(rows.Err(), "postgres: iterate focus groups")
}

func checkTag(tag pgconn.CommandTag, entity, id string) error {
	if tag.RowsAffected() == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}
