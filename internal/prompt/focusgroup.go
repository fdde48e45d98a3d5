package prompt

import (
	"fmt"
	"strings"

	"github.com/JoePa99/segmentclaude/internal/model"
)

// focusGroupSystem fixes the transcript contract: a moderator plus 5-7
// named participants with age/occupation annotations, one speaker label
// per line. The response parser's speaker patterns are written against
// this format.
const focusGroupSystem = `You are a market research moderator skilled at simulating realistic focus group discussions.

Simulate a focus group as a natural conversation between a moderator and 5-7 participants who represent the requested market segment. Requirements:

1. A moderator who guides the discussion with open questions
2. Participants with realistic names, ages, and occupations
3. Natural dialogue exploring their needs and preferences, pain points and frustrations, purchase decision factors, brand perceptions and loyalty drivers, media consumption habits, and responses to potential marketing messages

Make the discussion realistic, with participants agreeing, disagreeing, and building on each other's points. Include specific details that illustrate why these consumers fit the segment.

Format every line of the transcript as one of:
Moderator: [question or comment]
[Participant Name] ([Age], [Occupation]): [response]

Do not add any commentary outside the transcript.`

// FocusGroup builds the focus-group prompt for one segment. The
// discussion question is optional; when blank the moderator is left to
// direct the conversation from the segment profile alone.
func FocusGroup(ctx model.BusinessContext, segment model.Segment, question string) Prompt {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a realistic focus group transcript for the market segment: %q.\n\n", segment.Name)

	b.WriteString("BUSINESS CONTEXT:\n")
	fmt.Fprintf(&b, "- Business Type: %s\n", orDefault(string(ctx.BusinessType), "Unknown"))
	fmt.Fprintf(&b, "- Industry: %s\n", orDefault(ctx.Industry, "Unknown"))
	fmt.Fprintf(&b, "- Region: %s\n", orDefault(ctx.Region, "Unknown"))
	fmt.Fprintf(&b, "- Project: %s\n", orDefault(ctx.Name, "Unnamed Project"))

	b.WriteString("\nSEGMENT DETAILS:\n")
	b.WriteString(orDefault(segment.Description, "No description provided"))
	b.WriteString("\n")

	if len(segment.PainPoints) > 0 {
		b.WriteString("\nKnown pain points:\n")
		for _, p := range segment.PainPoints {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}
	if len(segment.Motivations) > 0 {
		b.WriteString("\nKnown motivations:\n")
		for _, m := range segment.Motivations {
			fmt.Fprintf(&b, "- %s\n", m)
		}
	}

	if strings.TrimSpace(question) != "" {
		fmt.Fprintf(&b, "\nThe moderator must explore this question in depth: %q\n", question)
	}

	if strings.TrimSpace(segment.Name) != "" && strings.TrimSpace(ctx.Name) != "" {
		fmt.Fprintf(&b, "\nTHE FOCUS GROUP MUST BE DIRECTLY RELEVANT TO %s FOR %s.\n", segment.Name, ctx.Name)
	}

	return Prompt{System: focusGroupSystem, User: b.String()}
}

// TranscriptSummary builds the prompt for a short post-discussion
// summary. The transcript is truncated so the request stays within
// vendor context limits.
func TranscriptSummary(ctx model.BusinessContext, segmentName, transcript string) Prompt {
	const transcriptBound = 8000

	var b strings.Builder
	fmt.Fprintf(&b, "I need a concise, insightful summary of the following focus group transcript for market segment %q in the %s industry.\n\n",
		segmentName, orDefault(ctx.Industry, "unknown"))
	b.WriteString("TRANSCRIPT:\n")
	b.WriteString(TruncateCorpus(transcript, transcriptBound))
	b.WriteString(`

Please provide a 4-5 sentence summary that highlights:
1. Key insights about consumer preferences, behaviors, and motivations
2. Common pain points identified by multiple participants
3. Potential marketing implications for the business
4. Any surprising or unexpected findings
`)

	return Prompt{
		System: "You are a market research analyst who writes concise, specific summaries of qualitative research sessions.",
		User:   b.String(),
	}
}
