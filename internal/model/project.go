package model

import "time"

// ProjectStatus represents the current state of a research project.
type ProjectStatus string

const (
	ProjectStatusDraft      ProjectStatus = "draft"
	ProjectStatusProcessing ProjectStatus = "processing"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusError      ProjectStatus = "error"
)

// BusinessType distinguishes business-to-business from consumer businesses.
type BusinessType string

const (
	BusinessTypeB2B BusinessType = "B2B"
	BusinessTypeB2C BusinessType = "B2C"
)

// Weights expresses the user's relative emphasis across the four
// segmentation dimensions. Intended to sum to 100; not enforced.
type Weights struct {
	Demographics   int `json:"demographics"`
	Psychographics int `json:"psychographics"`
	Behaviors      int `json:"behaviors"`
	Geography      int `json:"geography"`
}

// DefaultWeights returns an even split across the four dimensions.
func DefaultWeights() Weights {
	return Weights{Demographics: 25, Psychographics: 25, Behaviors: 25, Geography: 25}
}

// BusinessContext is the user-entered description of the client's
// business. It is read-only input to the generation pipeline.
type BusinessContext struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Objective    string       `json:"objective"`
	BusinessType BusinessType `json:"business_type"`
	Industry     string       `json:"industry"`
	Region       string       `json:"region"`
	Weights      Weights      `json:"weights"`
}

// Project owns uploaded documents and accumulates generation results.
type Project struct {
	ID        string          `json:"id"`
	Context   BusinessContext `json:"context"`
	Provider  string          `json:"provider,omitempty"` // preferred LLM provider
	Status    ProjectStatus   `json:"status"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
