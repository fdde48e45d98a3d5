// Package parse converts LLM prose into structured segmentation and
// focus-group records. Vendor output nominally follows the markdown
// contract requested by the prompt builder but is never
// schema-validated, so parsing is heuristic: an explicit line-scanner
// state machine first, then successively weaker fallback tiers. The
// postcondition for both entry points is that non-empty input never
// yields an empty result set.
package parse

import "fmt"

// EmptyResultError reports that parsing yielded no records. It should
// be unreachable given the fallback tiers; callers treat it as a
// persistence-adjacent failure rather than silently storing an empty
// result.
type EmptyResultError struct {
	Kind string // "segmentation" or "focus-group"
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("parse: %s parsing produced no records", e.Kind)
}
