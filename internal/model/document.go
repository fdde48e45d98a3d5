package model

import "time"

// DocumentStatus tracks a document through text extraction.
type DocumentStatus string

const (
	DocumentStatusUploaded   DocumentStatus = "uploaded"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusProcessed  DocumentStatus = "processed"
	DocumentStatusError      DocumentStatus = "error"
)

// Document is an uploaded research file belonging to a project. The
// raw bytes are not retained after extraction; only the metadata and
// the extracted text are.
type Document struct {
	ID            string         `json:"id"`
	ProjectID     string         `json:"project_id"`
	FileName      string         `json:"file_name"`
	MimeType      string         `json:"mime_type"`
	SizeBytes     int64          `json:"size_bytes"`
	Status        DocumentStatus `json:"status"`
	ExtractedText string         `json:"extracted_text,omitempty"`
	Error         string         `json:"error,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
