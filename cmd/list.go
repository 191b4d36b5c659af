package cmd

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/VoxDroid/routeml/internal/db"
	"github.com/VoxDroid/routeml/internal/registry"
)

// descriptionWidth caps the description column in terminal cells.
const descriptionWidth = 40

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved solutions",
	Long: `List saved solutions, newest first. Examples:
  routeml list
  routeml list --instance depot     (cheapest first)
  routeml list --filter dpt --fuzzy`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()

		r := registry.NewRepository(dbConn)
		tagFilter, _ := cmd.Flags().GetString("tag")
		textFilter, _ := cmd.Flags().GetString("filter")
		fuzzyFlag, _ := cmd.Flags().GetBool("fuzzy")
		instance, _ := cmd.Flags().GetString("instance")
		var recs []registry.SolutionRecord
		switch {
		case instance != "":
			recs, err = r.ListSolutionsByInstance(instance)
		case tagFilter != "":
			recs, err = r.ListSolutionsByTag(tagFilter)
		case textFilter != "" && fuzzyFlag:
			recs, err = r.FuzzySearchSolutions(textFilter)
		case textFilter != "":
			recs, err = r.SearchSolutions(textFilter)
		default:
			recs, err = r.ListSolutions()
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, s := range recs {
			line := fmt.Sprintf("- %s\t%s\tcost=%.6f\tvehicles=%d", s.Name, s.Instance.String, s.Cost, s.Vehicles)
			if s.Description.Valid {
				line += "\t" + runewidth.Truncate(s.Description.String, descriptionWidth, "...")
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().String("tag", "", "Filter by tag name")
	listCmd.Flags().String("filter", "", "Filter by text search")
	listCmd.Flags().Bool("fuzzy", false, "Enable fuzzy matching for text filter")
	listCmd.Flags().String("instance", "", "Only solutions of this instance, cheapest first")
	rootCmd.AddCommand(listCmd)
}
