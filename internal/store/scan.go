package store

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/JoePa99/segmentclaude/internal/model"
)

// scannable abstracts over database/sql and pgx row types so both
// store implementations share the same row mapping.
type scannable interface {
	Scan(dest ...any) error
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}

func scanProject(row scannable) (*model.Project, error) {
	var p model.Project
	var contextJSON string

	err := row.Scan(&p.ID, &contextJSON, &p.Provider, &p.Status, &p.Error, &p.CreatedAt, &p.UpdatedAt)
	if isNoRows(err) {
		return nil, eris.New("project not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: scan project")
	}

	if err := json.Unmarshal([]byte(contextJSON), &p.Context); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal business context")
	}
	return &p, nil
}

func scanDocument(row scannable) (*model.Document, error) {
	var d model.Document

	err := row.Scan(&d.ID, &d.ProjectID, &d.FileName, &d.MimeType, &d.SizeBytes,
		&d.Status, &d.ExtractedText, &d.Error, &d.CreatedAt, &d.UpdatedAt)
	if isNoRows(err) {
		return nil, eris.New("document not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: scan document")
	}
	return &d, nil
}

func scanSegmentation(row scannable) (*model.SegmentationResult, error) {
	var r model.SegmentationResult
	var segmentsJSON, modelJSON string

	err := row.Scan(&r.ID, &r.ProjectID, &segmentsJSON, &r.Summary, &r.RawText, &modelJSON, &r.CreatedAt)
	if isNoRows(err) {
		return nil, eris.New("segmentation not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: scan segmentation")
	}

	if err := json.Unmarshal([]byte(segmentsJSON), &r.Segments); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal segments")
	}
	if err := json.Unmarshal([]byte(modelJSON), &r.Model); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal model info")
	}
	return &r, nil
}

func scanFocusGroup(row scannable) (*model.FocusGroup, error) {
	var fg model.FocusGroup
	var participantsJSON, transcriptJSON, modelJSON string

	err := row.Scan(&fg.ID, &fg.ProjectID, &fg.SegmentationID, &fg.SegmentName, &fg.Question,
		&participantsJSON, &transcriptJSON, &fg.Summary, &fg.RawText, &modelJSON, &fg.CreatedAt)
	if isNoRows(err) {
		return nil, eris.New("focus group not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: scan focus group")
	}

	if err := json.Unmarshal([]byte(participantsJSON), &fg.Participants); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal participants")
	}
	if err := json.Unmarshal([]byte(transcriptJSON), &fg.Transcript); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal transcript")
	}
	if err := json.Unmarshal([]byte(modelJSON), &fg.Model); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal model info")
	}
	return &fg, nil
}
