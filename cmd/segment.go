package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JoePa99/segmentclaude/internal/pipeline"
)

var (
	segmentProvider string
	segmentModel    string
)

var segmentCmd = &cobra.Command{
	Use:   "segment <project-id>",
	Short: "Generate a market segmentation for a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Generator.GenerateSegmentation(cmd.Context(), args[0], pipeline.Options{
			Provider: segmentProvider,
			Model:    segmentModel,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Segmentation %s (%s/%s)\n\n", result.ID, result.Model.Provider, result.Model.Name)
		for _, seg := range result.Segments {
			fmt.Printf("%-40s %s\n", seg.Name, seg.Size)
		}
		if result.Summary != "" {
			fmt.Printf("\n%s\n", result.Summary)
		}
		return nil
	},
}

func init() {
	segmentCmd.Flags().StringVar(&segmentProvider, "provider", "", "LLM provider override: anthropic or openai")
	segmentCmd.Flags().StringVar(&segmentModel, "model", "", "model name override")
	rootCmd.AddCommand(segmentCmd)
}
