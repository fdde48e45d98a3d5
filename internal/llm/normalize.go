package llm

import (
	"regexp"
	"strings"
)

// Vendors churn through dated and suffixed variants of the same model
// family ("claude-3-5-sonnet-20240620", "gpt-4-0613",
// "claude-3-5-sonnet-latest"). Callers should not have to track that,
// so model names are collapsed to the bare family name before sending.
var (
	datedSuffix   = regexp.MustCompile(`-\d{4}(\d{2})?(\d{2})?$`)
	versionSuffix = regexp.MustCompile(`-(latest|preview)$`)
)

// NormalizeModel collapses a vendor model alias to its canonical family
// name. Empty input stays empty so the provider default applies.
func NormalizeModel(model string) string {
	m := strings.TrimSpace(strings.ToLower(model))
	if m == "" {
		return ""
	}
	m = versionSuffix.ReplaceAllString(m, "")
	m = datedSuffix.ReplaceAllString(m, "")
	return m
}
