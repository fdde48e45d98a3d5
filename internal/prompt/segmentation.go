package prompt

import (
	"fmt"
	"strings"

	"github.com/JoePa99/segmentclaude/internal/model"
)

// segmentationSystem fixes the markdown output contract the response
// parser is written against: one ##-level heading per segment followed
// by the fixed-name bold subsections rendered as bullet lists. Changing
// heading levels or subsection names here breaks parsing downstream.
const segmentationSystem = `You are a market research expert who specializes in creating detailed, insightful market segmentations tailored to specific businesses and industries.

IMPORTANT: You must create segments that are DIRECTLY RELEVANT to the specific business and objective mentioned by the user. DO NOT use generic segments or default patterns.

Instructions:
1. Carefully analyze the business description and objective
2. Create segments ONLY for this specific industry/business
3. Each segment must relate directly to the user's stated goal
4. DO NOT create generic segments for food, retail, or other markets unless explicitly mentioned
5. Follow the EXACT format below with markdown headers for each segment
6. CREATE AT LEAST 3 SEGMENTS, ideally 4-6, to provide comprehensive coverage of the market

Create distinct market segments for the business described by the user. AIM FOR 4-6 SEGMENTS - most businesses serve multiple customer types with different needs and motivations. For each segment, use the following EXACT format:

## [Segment Name]

A 1-2 sentence description of this segment.

**Demographics:**
- age: [age range]
- income: [income range]
- education: [education level]
- location: [geographic areas]
- gender: [gender distribution]
- family_status: [family composition]

**Psychographics:**
- values: [core values]
- interests: [key interests]
- lifestyle: [lifestyle characteristics]
- media_consumption: [media habits]
- attitudes: [attitudes toward category/product]

**Behaviors:**
- purchase_frequency: [how often they buy]
- brand_loyalty: [loyalty characteristics]
- research_habit: [research behavior]
- spending_pattern: [spending behavior]
- decision_factors: [key decision drivers]
- shopping_channel: [preferred purchase channels]

**Pain Points:**
- [Pain point 1]
- [Pain point 2]
- [Pain point 3]

**Motivations:**
- [Motivation 1]
- [Motivation 2]
- [Motivation 3]

**Purchase Triggers:**
- [Trigger 1]
- [Trigger 2]
- [Trigger 3]

**Marketing Strategies:**
- [Strategy 1]
- [Strategy 2]
- [Strategy 3]

Make segments distinct, realistic, and actionable with specific, non-generic details. Ensure each segment has properly formatted markdown with section headers exactly as shown above.`

// Segmentation builds the segmentation prompt from the business
// context plus optional corpus text. The corpus is expected to be
// pre-truncated by the caller (pipeline.BuildCorpus); an untruncated
// corpus is passed through as-is.
func Segmentation(ctx model.BusinessContext, corpus string) Prompt {
	var b strings.Builder

	b.WriteString("IMPORTANT INSTRUCTION: Create specific market segments for THIS EXACT business only. DO NOT use default segments.\n\n")
	b.WriteString("BUSINESS DETAILS:\n")
	fmt.Fprintf(&b, "- Business Type: %s\n", orDefault(string(ctx.BusinessType), "Unknown"))
	fmt.Fprintf(&b, "- Industry: %s\n", orDefault(ctx.Industry, "Unknown"))
	fmt.Fprintf(&b, "- Region: %s\n", orDefault(ctx.Region, "Unknown"))
	fmt.Fprintf(&b, "- Business Description: %s\n", orDefault(ctx.Description, "No description provided"))
	fmt.Fprintf(&b, "- OBJECTIVE: %s\n", orDefault(ctx.Objective, "No objective provided"))
	fmt.Fprintf(&b, "- PROJECT NAME: %s\n", orDefault(ctx.Name, "Unnamed Project"))

	b.WriteString("\nWEIGHTING PREFERENCES (out of 100 total):\n")
	fmt.Fprintf(&b, "- Demographics: %d%%\n", ctx.Weights.Demographics)
	fmt.Fprintf(&b, "- Psychographics: %d%%\n", ctx.Weights.Psychographics)
	fmt.Fprintf(&b, "- Behaviors: %d%%\n", ctx.Weights.Behaviors)
	fmt.Fprintf(&b, "- Geography: %d%%\n", ctx.Weights.Geography)

	if strings.TrimSpace(ctx.Objective) != "" {
		fmt.Fprintf(&b, "\nUSER'S GOAL: %q\n", ctx.Objective)
	}

	b.WriteString(`
INSTRUCTIONS:
1. Create AT LEAST 3 DISTINCT MARKET SEGMENTS, ideally 4-6, for comprehensive analysis
2. Each segment must be properly differentiated with unique characteristics
3. All segments MUST be DIRECTLY RELEVANT to the business above
4. Look at the PROJECT NAME and OBJECTIVE first to determine the industry
5. Do NOT use generic segments or default categories
6. Each segment should have detailed demographics, psychographics, behaviors, pain points, motivations, purchase triggers, and marketing strategies
`)

	if strings.TrimSpace(corpus) != "" {
		b.WriteString("\nIncorporate insights from the following market research documents:\n\n")
		b.WriteString(corpus)
		b.WriteString("\n")
	}

	if strings.TrimSpace(ctx.Name) != "" || strings.TrimSpace(ctx.Objective) != "" {
		fmt.Fprintf(&b, "\nREPEAT: The segments must be 100%% related to '%s' and '%s'.", ctx.Name, ctx.Objective)
	}

	return Prompt{System: segmentationSystem, User: b.String()}
}
