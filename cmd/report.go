package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JoePa99/segmentclaude/internal/pipeline"
)

var reportOut string

var reportCmd = &cobra.Command{
	Use:   "report <project-id>",
	Short: "Render the latest segmentation as a markdown report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		project, err := env.Store.GetProject(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		result, err := env.Store.LatestSegmentation(cmd.Context(), project.ID)
		if err != nil {
			return err
		}
		groups, err := env.Store.ListFocusGroups(cmd.Context(), project.ID)
		if err != nil {
			return err
		}

		report := pipeline.FormatReport(project, result, groups)
		if reportOut == "" {
			fmt.Print(report)
			return nil
		}
		if err := os.WriteFile(reportOut, []byte(report), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("Wrote %s\n", reportOut)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportOut, "out", "", "write report to file instead of stdout")
	rootCmd.AddCommand(reportCmd)
}
