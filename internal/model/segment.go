package model

import "time"

// Segment is one customer sub-population parsed from an LLM completion.
// Segments are immutable once created; a re-run produces a new
// SegmentationResult rather than patching an old one.
type Segment struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// Size is a cosmetic percentage assigned from a round-robin bucket
	// list during parsing. Sizes across a segment set are not derived
	// from model output and are not guaranteed to sum to 100%.
	Size string `json:"size"`

	Demographics   map[string]string `json:"demographics"`
	Psychographics map[string]string `json:"psychographics"`
	Behaviors      map[string]string `json:"behaviors"`

	PainPoints          []string `json:"pain_points"`
	Motivations         []string `json:"motivations"`
	PurchaseTriggers    []string `json:"purchase_triggers"`
	MarketingStrategies []string `json:"marketing_strategies"`
}

// HasContent reports whether the segment accumulated anything beyond
// its name. Boundary parsing discards empty segments.
func (s *Segment) HasContent() bool {
	return len(s.Demographics) > 0 ||
		len(s.Psychographics) > 0 ||
		len(s.Behaviors) > 0 ||
		len(s.PainPoints) > 0 ||
		len(s.Motivations) > 0
}

// ModelInfo records which provider and model produced a result.
type ModelInfo struct {
	Provider string `json:"provider"`
	Name     string `json:"name"`
}

// SegmentationResult is one complete generation run. A project keeps
// an append-only history of these; the newest is the current one.
type SegmentationResult struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Segments  []Segment `json:"segments"`
	Summary   string    `json:"summary"`

	// RawText is the untouched LLM completion, retained for audit.
	RawText string `json:"raw_text"`

	Model     ModelInfo `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// FindSegment returns the segment with the given name, or nil.
func (r *SegmentationResult) FindSegment(name string) *Segment {
	for i := range r.Segments {
		if r.Segments[i].Name == name {
			return &r.Segments[i]
		}
	}
	return nil
}
