package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/routeml/internal/vrp"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert between route lists and flat solutions",
}

var convertToSolutionCmd = &cobra.Command{
	Use:   "to-solution [routes.json]",
	Short: "Flatten a JSON list of closed routes into one solution",
	Long: `Flatten a JSON list of closed routes into one solution. Example:
  echo '[[0,1,2,0],[0,3,0]]' | routeml convert to-solution
  [0,1,2,0,3,0]`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, closeIn, err := openInput(cmd, args)
		if err != nil {
			return err
		}
		defer closeIn()
		routes, err := vrp.ReadRoutes(in)
		if err != nil {
			return err
		}
		sol, err := vrp.RoutesToSolution(routes)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), sol)
	},
}

var convertToRoutesCmd = &cobra.Command{
	Use:   "to-routes [solution.json]",
	Short: "Split a flat solution into its closed routes",
	Long: `Split a flat solution into its closed routes. A trailing route that
never returns to the depot is dropped. Example:
  echo '[0,1,2,0,3,0]' | routeml convert to-routes
  [[0,1,2,0],[0,3,0]]`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, closeIn, err := openInput(cmd, args)
		if err != nil {
			return err
		}
		defer closeIn()
		sol, err := vrp.ReadSolution(in)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), vrp.SolutionToRoutes(sol))
	},
}

// openInput opens args[0], or the command's stdin when no path or "-" is given.
func openInput(cmd *cobra.Command, args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func init() {
	convertCmd.AddCommand(convertToSolutionCmd)
	convertCmd.AddCommand(convertToRoutesCmd)
	rootCmd.AddCommand(convertCmd)
}
