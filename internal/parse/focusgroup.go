package parse

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/JoePa99/segmentclaude/internal/model"
)

var (
	// "Sarah (34, Marketing Manager): Hello." is name, annotation, text.
	detailedSpeakerLine = regexp.MustCompile(`^([^(:]+?)\s*\(([^)]+)\)\s*:\s*(.*)$`)
	// "Moderator: Welcome." is a plain label. Bounded so a prose sentence
	// containing a colon deep into the line is not mistaken for a speaker.
	simpleSpeakerLine = regexp.MustCompile(`^([^:]{1,60}):\s*(.*)$`)
)

// FocusGroup parses a simulated transcript into participants (in order
// of first appearance) and exchanges. Lines without a speaker label are
// continuations of the current speaker's utterance. If nothing parses,
// a fixed synthetic transcript is returned so the result is never empty.
func FocusGroup(text string) *model.FocusGroup {
	fg := &model.FocusGroup{RawText: text}

	var (
		currentSpeaker string
		currentDetails string
		currentText    strings.Builder
		seen           = map[string]bool{}
	)

	flush := func() {
		if currentSpeaker == "" || strings.TrimSpace(currentText.String()) == "" {
			return
		}
		fg.Transcript = append(fg.Transcript, model.Exchange{
			Speaker: currentSpeaker,
			Text:    strings.TrimSpace(currentText.String()),
			Details: currentDetails,
		})
	}

	// Registered under the bare name so the same person labeled both
	// with and without an annotation appears once.
	register := func(name, details string) {
		if seen[name] {
			return
		}
		seen[name] = true
		fg.Participants = append(fg.Participants, model.Participant{
			Name:    name,
			Details: details,
		})
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := detailedSpeakerLine.FindStringSubmatch(line); m != nil {
			flush()
			name := strings.TrimSpace(m[1])
			details := strings.TrimSpace(m[2])
			currentSpeaker = name + " (" + details + ")"
			currentDetails = details
			currentText.Reset()
			currentText.WriteString(strings.TrimSpace(m[3]))
			register(name, details)
			continue
		}

		if m := simpleSpeakerLine.FindStringSubmatch(line); m != nil {
			flush()
			currentSpeaker = strings.TrimSpace(m[1])
			currentDetails = ""
			currentText.Reset()
			currentText.WriteString(strings.TrimSpace(m[2]))
			register(currentSpeaker, "")
			continue
		}

		// Continuation of the current utterance.
		if currentSpeaker != "" {
			if currentText.Len() > 0 {
				currentText.WriteString(" ")
			}
			currentText.WriteString(line)
		}
	}
	flush()

	if len(fg.Participants) == 0 || len(fg.Transcript) == 0 {
		zap.L().Warn("parse: no speakers recognized in transcript, using synthetic focus group")
		synthetic := syntheticFocusGroup()
		synthetic.RawText = text
		return synthetic
	}

	return fg
}

// syntheticFocusGroup is the fixed fallback transcript used when a
// completion yields no recognizable speakers.
func syntheticFocusGroup() *model.FocusGroup {
	participants := []model.Participant{
		{Name: "Moderator", Details: "Focus Group Facilitator"},
		{Name: "Sarah", Details: "34, Marketing Manager"},
		{Name: "Michael", Details: "42, Engineer"},
		{Name: "Jennifer", Details: "29, Teacher"},
		{Name: "David", Details: "37, Healthcare Professional"},
		{Name: "Aisha", Details: "31, Small Business Owner"},
	}

	transcript := []model.Exchange{
		{Speaker: "Moderator", Details: "Focus Group Facilitator",
			Text: "Welcome everyone to today's focus group. We're here to discuss your experiences and preferences. Let's start with introductions."},
		{Speaker: "Sarah (34, Marketing Manager)", Details: "34, Marketing Manager",
			Text: "Hi everyone, I'm Sarah. I've been working in marketing for tech companies for about 10 years. I'm interested in how products fit into people's daily lives."},
		{Speaker: "Michael (42, Engineer)", Details: "42, Engineer",
			Text: "Hey, I'm Michael. I'm a software engineer with a background in consumer electronics. I'm always looking for products that solve real problems efficiently."},
		{Speaker: "Jennifer (29, Teacher)", Details: "29, Teacher",
			Text: "Hello, I'm Jennifer. I teach elementary school and I'm focused on finding products that save me time given my busy schedule."},
		{Speaker: "David (37, Healthcare Professional)", Details: "37, Healthcare Professional",
			Text: "Hi, I'm David. I work in healthcare administration and I tend to research products thoroughly before making a purchase decision."},
		{Speaker: "Aisha (31, Small Business Owner)", Details: "31, Small Business Owner",
			Text: "Hello, I'm Aisha. I run a small online business and I'm always balancing quality and cost considerations when making purchasing decisions."},
		{Speaker: "Moderator", Details: "Focus Group Facilitator",
			Text: "What factors are most important to you when making a purchase decision?"},
		{Speaker: "Sarah (34, Marketing Manager)", Details: "34, Marketing Manager",
			Text: "For me, it's about the brand's reputation and values. I'm willing to pay a premium for brands that I feel good about supporting."},
		{Speaker: "Michael (42, Engineer)", Details: "42, Engineer",
			Text: "I focus primarily on functionality and quality. I research specifications extensively and read technical reviews before buying."},
		{Speaker: "Jennifer (29, Teacher)", Details: "29, Teacher",
			Text: "Price-to-value ratio is my main concern. I look for products that offer the best value without unnecessary bells and whistles."},
		{Speaker: "David (37, Healthcare Professional)", Details: "37, Healthcare Professional",
			Text: "For me, it's all about reliability and reviews from other customers. I want to know how a product performs over time."},
		{Speaker: "Aisha (31, Small Business Owner)", Details: "31, Small Business Owner",
			Text: "I consider the total cost of ownership. Sometimes paying more upfront for quality saves money in the long run."},
		{Speaker: "Moderator", Details: "Focus Group Facilitator",
			Text: "Thank you all for your insights today. Your feedback has been extremely valuable."},
	}

	return &model.FocusGroup{
		Participants: participants,
		Transcript:   transcript,
	}
}
