package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/routeml/internal/registry"
	"github.com/VoxDroid/routeml/internal/vrp"
)

var describeCmd = &cobra.Command{
	Use:   "describe <name>",
	Short: "Show details for a saved solution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSolution(args[0], func(_ *registry.Repository, s *registry.SolutionRecord) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name: %s\n", s.Name)
			if s.Instance.Valid {
				fmt.Fprintf(out, "Instance: %s\n", s.Instance.String)
			}
			if s.Description.Valid {
				fmt.Fprintf(out, "Description: %s\n", s.Description.String)
			}
			fmt.Fprintf(out, "Cost: %.6f\n", s.Cost)
			fmt.Fprintf(out, "Vehicles: %d\n", s.Vehicles)
			if len(s.Tags) > 0 {
				fmt.Fprintf(out, "Tags: %s\n", strings.Join(s.Tags, ", "))
			}
			fmt.Fprintf(out, "Created: %s\n", s.CreatedAt)
			fmt.Fprintln(out, "Routes:")
			for i, r := range s.Routes() {
				fmt.Fprintf(out, "%d: %s\n", i+1, vrp.FormatSolution(vrp.Solution(r)))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
