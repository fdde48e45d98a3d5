package parse

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/JoePa99/segmentclaude/internal/model"
)

// subsection identifies which part of a segment the scanner is filling.
type subsection int

const (
	secNone subsection = iota
	secDemographics
	secPsychographics
	secBehaviors
	secPainPoints
	secMotivations
	secPurchaseTriggers
	secMarketingStrategies
	secSummary
)

// subsectionKeywords maps header keywords to subsections. Checked in
// order against non-bullet lines, case-insensitively, first match wins.
// The aliases cover the drift observed across vendors (e.g. a model
// writing "Challenges" instead of "Pain Points").
var subsectionKeywords = []struct {
	keyword string
	section subsection
}{
	{"demographic", secDemographics},
	{"psychographic", secPsychographics},
	{"values", secPsychographics},
	{"attitudes", secPsychographics},
	{"behavior", secBehaviors},
	{"pain points", secPainPoints},
	{"challenges", secPainPoints},
	{"frustrations", secPainPoints},
	{"motivation", secMotivations},
	{"drivers", secMotivations},
	{"purchase triggers", secPurchaseTriggers},
	{"buying triggers", secPurchaseTriggers},
	{"marketing strateg", secMarketingStrategies},
	{"marketing approach", secMarketingStrategies},
	{"summary", secSummary},
	{"overview", secSummary},
}

// sizeBuckets holds the cosmetic segment sizes handed out round-robin.
// They are placeholders, not computed from content, and are not
// guaranteed to sum to 100% across a segment set.
var sizeBuckets = []string{"15%", "20%", "25%", "30%", "35%", "40%", "45%"}

const descriptionMaxChars = 300

var (
	segmentNumberLine = regexp.MustCompile(`(?i)^segment\s*\d+:?\s`)
	segmentNameLine   = regexp.MustCompile(`(?i)^segment\s*name:?\s`)
	titleCaseLine     = regexp.MustCompile(`^[A-Z][\w\s&-]+:?$`)
	headingPrefix     = regexp.MustCompile(`^#+\s*`)
	segmentPrefix     = regexp.MustCompile(`(?i)^segment\s*\d*:?\s*`)
)

var titleCaser = cases.Title(language.English, cases.NoLower)

// Segmentation parses an LLM completion into segments plus a summary.
// The returned result carries the raw completion for audit; identity
// and provenance fields are left for the caller to fill. Non-empty
// input never yields zero segments.
func Segmentation(text string) *model.SegmentationResult {
	sc := &segmentScanner{}
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		switch {
		case isSegmentBoundary(lines, i):
			sc.closeSegment()
			sc.openSegment(line)
		case sc.current != nil:
			sc.contentLine(line)
		}
	}
	sc.closeSegment()

	segments := sc.segments
	if len(segments) == 0 {
		zap.L().Debug("parse: primary segmentation scan found nothing, trying heading fallback")
		segments = segmentsFromHeadings(text)
	}
	if len(segments) == 0 {
		zap.L().Warn("parse: no segment structure recognized, synthesizing one segment")
		segments = []model.Segment{syntheticSegment(text)}
	}

	return &model.SegmentationResult{
		Segments: segments,
		Summary:  strings.TrimSpace(sc.summary.String()),
		RawText:  text,
	}
}

// isSegmentBoundary applies the boundary heuristics in order: markdown
// heading, "Segment N:" style, then a short Title-Case line preceded by
// a blank line.
func isSegmentBoundary(lines []string, i int) bool {
	line := lines[i]
	if strings.HasPrefix(line, "## ") || strings.HasPrefix(line, "### ") {
		return true
	}
	if segmentNumberLine.MatchString(line) || segmentNameLine.MatchString(line) {
		return true
	}
	if titleCaseLine.MatchString(line) && len(line) > 5 && len(line) < 60 {
		if i == 0 || strings.TrimSpace(lines[i-1]) == "" {
			return true
		}
	}
	return false
}

// segmentScanner is the line-scanner state: the open segment plus the
// subsection its content lines currently belong to.
type segmentScanner struct {
	segments []model.Segment
	current  *model.Segment
	section  subsection
	summary  strings.Builder
}

func (sc *segmentScanner) openSegment(heading string) {
	sc.current = &model.Segment{
		Name:           cleanSegmentName(heading),
		Demographics:   map[string]string{},
		Psychographics: map[string]string{},
		Behaviors:      map[string]string{},
	}
	sc.section = secNone
}

// closeSegment appends the open segment, discarding it if it never
// accumulated content in any subsection (a heading immediately followed
// by another heading must not emit a phantom segment).
func (sc *segmentScanner) closeSegment() {
	seg := sc.current
	sc.current = nil
	if seg == nil || seg.Name == "" || !seg.HasContent() {
		if seg != nil && seg.Name != "" {
			zap.L().Debug("parse: discarding empty segment", zap.String("name", seg.Name))
		}
		return
	}
	seg.Size = sizeBuckets[len(sc.segments)%len(sizeBuckets)]
	sc.segments = append(sc.segments, *seg)
}

func (sc *segmentScanner) contentLine(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}

	bullet, isBullet := stripBullet(trimmed)

	// Subsection headers are non-bullet lines naming a known keyword.
	if !isBullet {
		if sec, ok := matchSubsection(trimmed); ok {
			sc.section = sec
			return
		}
	}

	switch sc.section {
	case secNone:
		// Free text before any recognized subsection becomes the
		// description, bounded so unheadered prose cannot run away.
		if !isBullet && len(sc.current.Description) < descriptionMaxChars {
			sc.current.Description += trimmed + " "
			sc.current.Description = strings.TrimLeft(sc.current.Description, " ")
		}
	case secSummary:
		sc.summary.WriteString(trimmed)
		sc.summary.WriteString("\n")
	case secDemographics:
		if isBullet && bullet != "" {
			addAttribute(sc.current.Demographics, bullet)
		}
	case secPsychographics:
		if isBullet && bullet != "" {
			addAttribute(sc.current.Psychographics, bullet)
		}
	case secBehaviors:
		if isBullet && bullet != "" {
			addAttribute(sc.current.Behaviors, bullet)
		}
	case secPainPoints:
		if isBullet && bullet != "" {
			sc.current.PainPoints = append(sc.current.PainPoints, bullet)
		}
	case secMotivations:
		if isBullet && bullet != "" {
			sc.current.Motivations = append(sc.current.Motivations, bullet)
		}
	case secPurchaseTriggers:
		if isBullet && bullet != "" {
			sc.current.PurchaseTriggers = append(sc.current.PurchaseTriggers, bullet)
		}
	case secMarketingStrategies:
		if isBullet && bullet != "" {
			sc.current.MarketingStrategies = append(sc.current.MarketingStrategies, bullet)
		}
	}
}

func matchSubsection(line string) (subsection, bool) {
	lower := strings.ToLower(line)
	for _, kw := range subsectionKeywords {
		if strings.Contains(lower, kw.keyword) {
			return kw.section, true
		}
	}
	return secNone, false
}

// stripBullet returns the bullet text and whether the line was one.
func stripBullet(line string) (string, bool) {
	switch {
	case strings.HasPrefix(line, "- "):
		return strings.TrimSpace(line[2:]), true
	case strings.HasPrefix(line, "* "):
		return strings.TrimSpace(line[2:]), true
	}
	return "", false
}

// addAttribute classifies a bullet inside a mapping-typed subsection:
// split on the first colon, then the first " - ", else store under a
// synthetic positional key.
func addAttribute(attrs map[string]string, item string) {
	if key, value, ok := strings.Cut(item, ":"); ok {
		key = normalizeAttrKey(key)
		value = strings.TrimSpace(value)
		if key != "" && value != "" {
			attrs[key] = value
			return
		}
	}
	if key, value, ok := strings.Cut(item, " - "); ok {
		key = normalizeAttrKey(key)
		value = strings.TrimSpace(value)
		if key != "" && value != "" {
			attrs[key] = value
			return
		}
	}
	attrs["item"+strconv.Itoa(len(attrs))] = item
}

func normalizeAttrKey(key string) string {
	key = strings.TrimSpace(key)
	key = strings.Trim(key, "*_")
	return strings.ToLower(key)
}

// cleanSegmentName strips markdown markers, "Segment N:" prefixes, and
// trailing colons from a boundary line. "Segment N"-style boundaries
// with no residual name get a title-cased generic name.
func cleanSegmentName(heading string) string {
	name := headingPrefix.ReplaceAllString(heading, "")
	name = segmentPrefix.ReplaceAllString(name, "")
	name = strings.TrimSuffix(strings.TrimSpace(name), ":")
	name = strings.Trim(name, "*")
	name = strings.TrimSpace(name)
	if name == "" {
		name = titleCaser.String("market segment")
	}
	return name
}
