package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/routeml/internal/db"
	"github.com/VoxDroid/routeml/internal/registry"
	"github.com/VoxDroid/routeml/internal/utils"
	"github.com/VoxDroid/routeml/internal/vrp"
)

var saveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save a solution for an instance under a name",
	Long: `Save a solution for an instance under a name. The routes are checked
against the instance (every customer once, capacity respected) and the cost
is computed before storing. Examples:
  routeml save depot-cw --instance depot.yaml --routes routes.json -d 'savings only'
  routeml save depot-flat --instance depot.yaml --solution-file sol.json --tags baseline,small`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		instancePath, _ := cmd.Flags().GetString("instance")
		desc, _ := cmd.Flags().GetString("description")
		tagsFlag, _ := cmd.Flags().GetString("tags")
		if instancePath == "" {
			return fmt.Errorf("--instance is required to validate and cost the solution")
		}
		in, err := vrp.LoadInstance(instancePath)
		if err != nil {
			return err
		}
		routes, err := routesForSave(cmd)
		if err != nil {
			return err
		}
		if err := vrp.ValidateRoutes(in, routes); err != nil {
			return err
		}
		cost, err := vrp.RoutesCost(in, routes)
		if err != nil {
			return err
		}
		sol, err := vrp.RoutesToSolution(routes)
		if err != nil {
			return err
		}

		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()
		r := registry.NewRepository(dbConn)

		var descPtr *string
		if desc != "" {
			descPtr = &desc
		}
		instance := in.Name
		id, err := r.SaveSolution(name, &instance, descPtr, sol, cost)
		answers := bufio.NewReader(cmd.InOrStdin())
		for errors.Is(err, registry.ErrNameInUse) {
			newName := utils.Prompt(answers, cmd.OutOrStdout(), fmt.Sprintf("name '%s' already exists; enter a different name (leave empty to abort)", name))
			if newName == "" {
				return err
			}
			name = newName
			id, err = r.SaveSolution(name, &instance, descPtr, sol, cost)
		}
		if err != nil {
			return err
		}
		for _, tag := range splitTags(tagsFlag) {
			if err := r.AddTag(id, tag); err != nil {
				return err
			}
		}
		logger.Infow("solution saved", "name", name, "id", id, "cost", cost, "vehicles", len(routes))
		fmt.Fprintf(cmd.OutOrStdout(), "saved '%s' (cost %.6f, %d vehicles)\n", name, cost, len(routes))
		return nil
	},
}

func routesForSave(cmd *cobra.Command) ([]vrp.Route, error) {
	routesPath, _ := cmd.Flags().GetString("routes")
	solPath, _ := cmd.Flags().GetString("solution-file")
	switch {
	case routesPath != "" && solPath != "":
		return nil, fmt.Errorf("use either --routes or --solution-file, not both")
	case routesPath != "":
		f, err := os.Open(routesPath)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		return vrp.ReadRoutes(f)
	case solPath != "":
		f, err := os.Open(solPath)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		sol, err := vrp.ReadSolution(f)
		if err != nil {
			return nil, err
		}
		return vrp.SolutionToRoutes(sol), nil
	default:
		return nil, fmt.Errorf("one of --routes or --solution-file is required")
	}
}

func splitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func init() {
	saveCmd.Flags().String("instance", "", "Instance file (.json, .yaml) the solution belongs to")
	saveCmd.Flags().String("routes", "", "JSON file holding a list of closed routes")
	saveCmd.Flags().String("solution-file", "", "JSON file holding a flat solution")
	saveCmd.Flags().StringP("description", "d", "", "Description for the solution")
	saveCmd.Flags().String("tags", "", "Comma-separated tags to attach")
	rootCmd.AddCommand(saveCmd)
}
