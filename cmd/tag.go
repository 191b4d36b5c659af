package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/routeml/internal/db"
	"github.com/VoxDroid/routeml/internal/registry"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags for saved solutions",
	Long:  "Manage tags for saved solutions: add, remove, list",
}

var tagAddCmd = &cobra.Command{
	Use:   "add <solution> <tag>",
	Short: "Add a tag to a solution",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSolution(args[0], func(r *registry.Repository, s *registry.SolutionRecord) error {
			if err := r.AddTag(s.ID, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added tag '%s' to '%s'\n", args[1], s.Name)
			return nil
		})
	},
}

var tagRemoveCmd = &cobra.Command{
	Use:   "remove <solution> <tag>",
	Short: "Remove a tag from a solution",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSolution(args[0], func(r *registry.Repository, s *registry.SolutionRecord) error {
			if err := r.RemoveTag(s.ID, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed tag '%s' from '%s'\n", args[1], s.Name)
			return nil
		})
	},
}

var tagListCmd = &cobra.Command{
	Use:   "list <solution>",
	Short: "List tags of a solution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSolution(args[0], func(_ *registry.Repository, s *registry.SolutionRecord) error {
			for _, t := range s.Tags {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", t)
			}
			return nil
		})
	},
}

// withSolution opens the registry, looks up name and calls fn with it.
func withSolution(name string, fn func(*registry.Repository, *registry.SolutionRecord) error) error {
	dbConn, err := db.InitDB()
	if err != nil {
		return err
	}
	defer func() { _ = dbConn.Close() }()

	r := registry.NewRepository(dbConn)
	s, err := r.GetSolutionByName(name)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("solution not found: %s", name)
	}
	return fn(r, s)
}

func init() {
	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagRemoveCmd)
	tagCmd.AddCommand(tagListCmd)
	rootCmd.AddCommand(tagCmd)
}
