package model

import "time"

// Participant is one voice in a simulated focus group, registered in
// order of first appearance in the transcript. Name is the bare
// speaker name; any annotation lives only in Details.
type Participant struct {
	Name string `json:"name"`

	// Details holds the age/occupation annotation from the speaker
	// label, e.g. "34, Marketing Manager". Empty for plain labels.
	Details string `json:"details,omitempty"`

	SegmentLabel string `json:"segment_label,omitempty"`
}

// Exchange is a single utterance in the transcript.
type Exchange struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Details string `json:"details,omitempty"`
}

// FocusGroup is one simulated discussion for a segment. Same
// immutability and raw-text retention policy as SegmentationResult.
type FocusGroup struct {
	ID             string        `json:"id"`
	ProjectID      string        `json:"project_id"`
	SegmentationID string        `json:"segmentation_id,omitempty"`
	SegmentName    string        `json:"segment_name"`
	Question       string        `json:"question,omitempty"`
	Participants   []Participant `json:"participants"`
	Transcript     []Exchange    `json:"transcript"`
	Summary        string        `json:"summary"`
	RawText        string        `json:"raw_text"`
	Model          ModelInfo     `json:"model"`
	CreatedAt      time.Time     `json:"created_at"`
}
