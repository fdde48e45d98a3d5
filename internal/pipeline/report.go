package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/JoePa99/segmentclaude/internal/model"
)

// FormatReport renders a segmentation result, with any focus groups
// run against it, as a markdown report.
func FormatReport(project *model.Project, result *model.SegmentationResult, groups []model.FocusGroup) string {
	var b strings.Builder

	name := project.Context.Name
	if name == "" {
		name = project.ID
	}
	fmt.Fprintf(&b, "# Market Segmentation Report: %s\n\n", name)

	fmt.Fprintf(&b, "Industry: %s\n", orUnknown(project.Context.Industry))
	fmt.Fprintf(&b, "Business type: %s\n", orUnknown(string(project.Context.BusinessType)))
	fmt.Fprintf(&b, "Region: %s\n", orUnknown(project.Context.Region))
	fmt.Fprintf(&b, "Generated by: %s/%s on %s\n\n",
		result.Model.Provider, result.Model.Name, result.CreatedAt.Format("2006-01-02"))

	if result.Summary != "" {
		b.WriteString("## Summary\n")
		b.WriteString(result.Summary)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "## Segments (%d)\n\n", len(result.Segments))
	for _, seg := range result.Segments {
		fmt.Fprintf(&b, "### %s (%s of market)\n", seg.Name, seg.Size)
		if seg.Description != "" {
			b.WriteString(seg.Description)
			b.WriteString("\n")
		}
		b.WriteString("\n")

		writeAttrs(&b, "Demographics", seg.Demographics)
		writeAttrs(&b, "Psychographics", seg.Psychographics)
		writeAttrs(&b, "Behaviors", seg.Behaviors)
		writeList(&b, "Pain Points", seg.PainPoints)
		writeList(&b, "Motivations", seg.Motivations)
		writeList(&b, "Purchase Triggers", seg.PurchaseTriggers)
		writeList(&b, "Marketing Strategies", seg.MarketingStrategies)
	}

	if len(groups) > 0 {
		b.WriteString("## Focus Groups\n\n")
		for _, fg := range groups {
			fmt.Fprintf(&b, "### %s\n", fg.SegmentName)
			if fg.Question != "" {
				fmt.Fprintf(&b, "Question: %s\n\n", fg.Question)
			}
			fmt.Fprintf(&b, "Participants: %s\n\n", participantNames(fg.Participants))
			if fg.Summary != "" {
				b.WriteString(fg.Summary)
				b.WriteString("\n\n")
			}
		}
	}

	return b.String()
}

func writeAttrs(b *strings.Builder, title string, attrs map[string]string) {
	if len(attrs) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s**\n", title)

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "- %s: %s\n", k, attrs[k])
	}
	b.WriteString("\n")
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s**\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func participantNames(participants []model.Participant) string {
	if len(participants) == 0 {
		return "none recorded"
	}
	names := make([]string, len(participants))
	for i, p := range participants {
		names[i] = p.Name
		if p.Details != "" {
			names[i] = fmt.Sprintf("%s (%s)", p.Name, p.Details)
		}
	}
	return strings.Join(names, ", ")
}

func orUnknown(v string) string {
	if strings.TrimSpace(v) == "" {
		return "Unknown"
	}
	return v
}
