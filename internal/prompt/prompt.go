// Package prompt builds deterministic vendor-agnostic prompt text from
// a business context. Builders are pure functions: no I/O, no
// randomness, byte-identical output for identical input. Missing
// optional fields are substituted with safe defaults rather than
// leaking empty placeholders into the prompt.
package prompt

import "strings"

// Prompt is a system/user instruction pair ready for the LLM gateway.
type Prompt struct {
	System string
	User   string
}

// TruncateCorpus bounds corpus text at maxChars without splitting a
// UTF-8 sequence. A non-positive bound disables truncation.
func TruncateCorpus(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}

// orDefault returns the fallback when the value is blank.
func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
