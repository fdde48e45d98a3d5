package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JoePa99/segmentclaude/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "segmentclaude",
	Short: "AI market segmentation for research teams",
	Long:  "Builds market segmentations and simulated focus groups from business context and uploaded research documents, using OpenAI and Anthropic models with cross-vendor fallback.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
