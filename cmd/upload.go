package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JoePa99/segmentclaude/internal/extract"
	"github.com/JoePa99/segmentclaude/internal/model"
	"github.com/JoePa99/segmentclaude/internal/pipeline"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <project-id> <file>...",
	Short: "Upload research documents and extract their text",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		projectID := args[0]
		files := make([]pipeline.FileUpload, 0, len(args)-1)
		for _, path := range args[1:] {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			files = append(files, pipeline.FileUpload{
				FileName: filepath.Base(path),
				MimeType: mimeFromExtension(path),
				Data:     data,
			})
		}

		docs, err := env.Generator.UploadAll(cmd.Context(), projectID, files)
		if err != nil {
			return err
		}

		for _, d := range docs {
			if d.Status == model.DocumentStatusError {
				fmt.Printf("%s  %-10s  %s (%s)\n", d.ID, d.Status, d.FileName, d.Error)
				continue
			}
			fmt.Printf("%s  %-10s  %s (%d chars)\n", d.ID, d.Status, d.FileName, len(d.ExtractedText))
		}
		return nil
	},
}

func mimeFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extract.MimePDF
	case ".docx":
		return extract.MimeDOCX
	default:
		return extract.MimeText
	}
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
