package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JoePa99/segmentclaude/internal/model"
	"github.com/JoePa99/segmentclaude/internal/store"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage research projects",
}

var (
	projectName        string
	projectDescription string
	projectObjective   string
	projectType        string
	projectIndustry    string
	projectRegion      string
	projectProvider    string
	projectWeights     []int
)

var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project from business context",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		weights := model.DefaultWeights()
		if len(projectWeights) == 4 {
			weights = model.Weights{
				Demographics:   projectWeights[0],
				Psychographics: projectWeights[1],
				Behaviors:      projectWeights[2],
				Geography:      projectWeights[3],
			}
		}

		bc := model.BusinessContext{
			Name:         projectName,
			Description:  projectDescription,
			Objective:    projectObjective,
			BusinessType: model.BusinessType(strings.ToUpper(projectType)),
			Industry:     projectIndustry,
			Region:       projectRegion,
			Weights:      weights,
		}

		project, err := env.Store.CreateProject(cmd.Context(), bc, projectProvider)
		if err != nil {
			return err
		}

		fmt.Printf("Created project %s (%s)\n", project.ID, project.Context.Name)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		projects, err := env.Store.ListProjects(cmd.Context(), store.ProjectFilter{})
		if err != nil {
			return err
		}

		if len(projects) == 0 {
			fmt.Println("No projects.")
			return nil
		}
		for _, p := range projects {
			fmt.Printf("%s  %-10s  %s\n", p.ID, p.Status, p.Context.Name)
		}
		return nil
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "Show a project and its documents",
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

		fmt.Printf("Project:   %s\n", project.ID)
		fmt.Printf("Name:      %s\n", project.Context.Name)
		fmt.Printf("Industry:  %s\n", project.Context.Industry)
		fmt.Printf("Type:      %s\n", project.Context.BusinessType)
		fmt.Printf("Region:    %s\n", project.Context.Region)
		fmt.Printf("Status:    %s\n", project.Status)
		if project.Error != "" {
			fmt.Printf("Error:     %s\n", project.Error)
		}

		docs, err := env.Store.ListDocuments(cmd.Context(), project.ID)
		if err != nil {
			return err
		}
		fmt.Printf("Documents: %d\n", len(docs))
		for _, d := range docs {
			fmt.Printf("  %s  %-10s  %s\n", d.ID, d.Status, d.FileName)
		}
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project and everything under it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Store.DeleteProject(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted project %s\n", args[0])
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().StringVar(&projectName, "name", "", "business name (required)")
	projectCreateCmd.Flags().StringVar(&projectDescription, "description", "", "business description")
	projectCreateCmd.Flags().StringVar(&projectObjective, "objective", "", "segmentation objective")
	projectCreateCmd.Flags().StringVar(&projectType, "type", "B2C", "business type: B2B or B2C")
	projectCreateCmd.Flags().StringVar(&projectIndustry, "industry", "", "industry")
	projectCreateCmd.Flags().StringVar(&projectRegion, "region", "", "target region")
	projectCreateCmd.Flags().StringVar(&projectProvider, "provider", "", "preferred LLM provider: anthropic or openai")
	projectCreateCmd.Flags().IntSliceVar(&projectWeights, "weights", nil, "dimension weights: demographics,psychographics,behaviors,geography")
	_ = projectCreateCmd.MarkFlagRequired("name")

	projectCmd.AddCommand(projectCreateCmd, projectListCmd, projectShowCmd, projectDeleteCmd)
	rootCmd.AddCommand(projectCmd)
}
