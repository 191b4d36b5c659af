package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/routeml/internal/db"
	"github.com/VoxDroid/routeml/internal/registry"
	"github.com/VoxDroid/routeml/internal/utils"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved solution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		yes, _ := cmd.Flags().GetBool("yes")

		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()

		r := registry.NewRepository(dbConn)
		if !yes {
			if !utils.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete '%s' permanently?", name)) {
				fmt.Fprintln(cmd.OutOrStdout(), "aborted")
				return nil
			}
		}
		if err := r.DeleteSolution(name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted '%s'\n", name)
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "Delete without asking for confirmation")
	rootCmd.AddCommand(deleteCmd)
}
