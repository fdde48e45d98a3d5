package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JoePa99/segmentclaude/internal/pipeline"
)

var (
	fgSegment        string
	fgSegmentationID string
	fgQuestion       string
	fgProvider       string
	fgModel          string
	fgTranscript     bool
)

var focusGroupCmd = &cobra.Command{
	Use:   "focusgroup <project-id>",
	Short: "Simulate a focus group for one market segment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		fg, err := env.Generator.GenerateFocusGroup(cmd.Context(), args[0], fgSegmentationID, fgSegment, fgQuestion, pipeline.Options{
			Provider: fgProvider,
			Model:    fgModel,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Focus group %s for segment %q\n", fg.ID, fg.SegmentName)
		fmt.Printf("Participants (%d):\n", len(fg.Participants))
		for _, p := range fg.Participants {
			if p.Details != "" {
				fmt.Printf("  %s (%s)\n", p.Name, p.Details)
			} else {
				fmt.Printf("  %s\n", p.Name)
			}
		}
		fmt.Printf("\nSummary:\n%s\n", fg.Summary)

		if fgTranscript {
			fmt.Println("\nTranscript:")
			for _, ex := range fg.Transcript {
				fmt.Printf("%s: %s\n\n", ex.Speaker, ex.Text)
			}
		}
		return nil
	},
}

func init() {
	focusGroupCmd.Flags().StringVar(&fgSegment, "segment", "", "segment name (required)")
	focusGroupCmd.Flags().StringVar(&fgSegmentationID, "segmentation", "", "segmentation id (default: newest)")
	focusGroupCmd.Flags().StringVar(&fgQuestion, "question", "", "discussion question (default: built-in question set)")
	focusGroupCmd.Flags().StringVar(&fgProvider, "provider", "", "LLM provider override: anthropic or openai")
	focusGroupCmd.Flags().StringVar(&fgModel, "model", "", "model name override")
	focusGroupCmd.Flags().BoolVar(&fgTranscript, "transcript", false, "print the full transcript")
	_ = focusGroupCmd.MarkFlagRequired("segment")
	rootCmd.AddCommand(focusGroupCmd)
}
