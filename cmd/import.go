package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/routeml/internal/db"
	"github.com/VoxDroid/routeml/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a database file or exported solutions into the active environment",
}

var importDBCmd = &cobra.Command{
	Use:   "db <path>",
	Short: "Replace the active database with a copy of path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		if err := importer.ImportDatabase(args[0], overwrite); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported database from %s\n", args[0])
		return nil
	},
}

var importSolutionsCmd = &cobra.Command{
	Use:   "solutions <path>",
	Short: "Merge the solutions stored in an exported database",
	Long: `Merge the solutions stored in an exported database into the active one.
Name collisions are renamed with a numeric suffix unless --overwrite is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()
		n, err := importer.ImportSolutions(dbConn, args[0], overwrite)
		if err != nil {
			return err
		}
		logger.Infow("solutions imported", "src", args[0], "count", n, "overwrite", overwrite)
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d solution(s) from %s\n", n, args[0])
		return nil
	},
}

func init() {
	importDBCmd.Flags().Bool("overwrite", false, "Overwrite the active database if it exists")
	importSolutionsCmd.Flags().Bool("overwrite", false, "Replace existing solutions with the same name")
	importCmd.AddCommand(importDBCmd)
	importCmd.AddCommand(importSolutionsCmd)
	rootCmd.AddCommand(importCmd)
}
