package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/JoePa99/segmentclaude/internal/model"
)

var markdownHeading = regexp.MustCompile(`(?m)^##\s+(.+)$`)

// attrPatterns extract loosely-labeled attributes ("age: 25-34",
// "income - high") from an unstructured segment span during the
// heading fallback.
var attrPatterns = map[string]*regexp.Regexp{
	"age":       regexp.MustCompile(`(?i)age[:\s-]+([^,\n]+)`),
	"income":    regexp.MustCompile(`(?i)income[:\s-]+([^,\n]+)`),
	"education": regexp.MustCompile(`(?i)education[:\s-]+([^,\n]+)`),
	"location":  regexp.MustCompile(`(?i)location[:\s-]+([^,\n]+)`),
}

var psychoPatterns = map[string]*regexp.Regexp{
	"values":    regexp.MustCompile(`(?i)values[:\s-]+([^,\n]+)`),
	"interests": regexp.MustCompile(`(?i)interests[:\s-]+([^,\n]+)`),
}

// segmentsFromHeadings is fallback tier 1: when the primary scan found
// nothing, re-scan for markdown headings anywhere and synthesize one
// segment per heading from the raw text between consecutive headings.
func segmentsFromHeadings(text string) []model.Segment {
	matches := markdownHeading.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	segments := make([]model.Segment, 0, len(matches))
	for i, m := range matches {
		name := strings.TrimSpace(text[m[2]:m[3]])
		if name == "" {
			continue
		}

		start := m[1]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		span := strings.TrimSpace(text[start:end])

		description := "Market segment for the specified business"
		if first := firstLine(span); first != "" {
			description = first
		}

		seg := model.Segment{
			Name:        name,
			Description: description,
			Size:        fmt.Sprintf("%d%%", 25+5*len(segments)),
			Demographics: map[string]string{
				"age":       extractAttr(span, attrPatterns["age"], "25-55"),
				"income":    extractAttr(span, attrPatterns["income"], "Mixed"),
				"education": extractAttr(span, attrPatterns["education"], "Various"),
				"location":  extractAttr(span, attrPatterns["location"], "Multiple regions"),
			},
			Psychographics: map[string]string{
				"values":    extractAttr(span, psychoPatterns["values"], "Quality, Value, Innovation"),
				"interests": extractAttr(span, psychoPatterns["interests"], "Industry-specific"),
				"lifestyle": "Modern, Connected",
			},
			Behaviors: map[string]string{
				"purchase_frequency": "Varies by need",
				"brand_loyalty":      "Medium - value-driven",
				"decision_factors":   "Quality, Price, Features",
			},
			PainPoints:          []string{"Finding the right solutions", "Price sensitivity", "Feature comparison"},
			Motivations:         []string{"Solve specific problems", "Improve efficiency", "Stay competitive"},
			PurchaseTriggers:    []string{"Clear value proposition", "Demonstrated ROI", "Peer recommendations"},
			MarketingStrategies: []string{"Highlight ROI", "Focus on pain points", "Case studies"},
		}
		segments = append(segments, seg)
	}
	return segments
}

// syntheticSegment is fallback tier 2: exactly one generically named
// segment built from the first part of the completion, guaranteeing a
// non-empty result for any non-empty input.
func syntheticSegment(text string) model.Segment {
	description := strings.TrimSpace(text)
	if runes := []rune(description); len(runes) > 200 {
		description = string(runes[:200]) + "..."
	}
	if description == "" {
		description = "Market segment for the specified business"
	}

	return model.Segment{
		Name:        "Primary Market Segment",
		Description: description,
		Size:        "100%",
		Demographics: map[string]string{
			"age":       "25-55",
			"income":    "Variable",
			"education": "Mixed",
			"location":  "Global",
		},
		Psychographics: map[string]string{
			"values":    "Innovation, Quality, Convenience",
			"interests": "Industry-specific solutions",
			"lifestyle": "Modern, Connected",
		},
		Behaviors: map[string]string{
			"purchase_frequency": "Varies by need",
			"brand_loyalty":      "Medium - value-driven",
			"decision_factors":   "Quality, Price, Features",
		},
		PainPoints:          []string{"Finding the right solutions", "Price sensitivity", "Feature comparison"},
		Motivations:         []string{"Solve specific problems", "Improve efficiency", "Stay competitive"},
		PurchaseTriggers:    []string{"Clear value proposition", "Demonstrated ROI", "Peer recommendations"},
		MarketingStrategies: []string{"Highlight ROI", "Focus on pain points", "Case studies"},
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

func extractAttr(span string, re *regexp.Regexp, fallback string) string {
	if m := re.FindStringSubmatch(span); len(m) > 1 {
		if v := strings.TrimSpace(m[1]); v != "" {
			return v
		}
	}
	return fallback
}
