package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/routeml/internal/db"
	"github.com/VoxDroid/routeml/internal/draw"
	"github.com/VoxDroid/routeml/internal/registry"
	"github.com/VoxDroid/routeml/internal/vrp"
)

var plotCmd = &cobra.Command{
	Use:   "plot <instance.json|instance.yaml>",
	Short: "Plot routes over the instance coordinates",
	Long: `Plot routes over the instance coordinates as a PNG. The routes come from a
JSON file (--routes) or a stored solution (--solution). Examples:
  routeml plot depot.yaml --routes routes.json -o routes.png
  routeml plot depot.yaml --solution depot-best`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := vrp.LoadInstance(args[0])
		if err != nil {
			return err
		}
		routes, err := routesFromFlags(cmd)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		written, err := draw.PlotRoutesFile(out, routes, in.Coords, plotOptions())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "plot written to %s\n", written)
		return nil
	},
}

var embedCmd = &cobra.Command{
	Use:   "embed <embeddings.json>",
	Short: "Project node embeddings to 2D and colour them by route",
	Long: `Project node embeddings (a JSON matrix, one row per node with row 0 the
depot) to 2D with t-SNE and scatter them coloured by route. Example:
  routeml embed emb.json --routes routes.json -o test.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		var embeddings [][]float64
		err = json.NewDecoder(f).Decode(&embeddings)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("decode embeddings: %w", err)
		}
		routes, err := routesFromFlags(cmd)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		logger.Infow("projecting embeddings", "points", len(embeddings), "routes", len(routes))
		written, err := draw.PlotEmbeddingsFile(context.Background(), out, routes, embeddings, plotOptions())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "plot written to %s\n", written)
		return nil
	},
}

var gridCmd = &cobra.Command{
	Use:   "grid <image>...",
	Short: "Tile images row-major on a rows x cols grid",
	Long: `Tile images row-major on a rows x cols grid and save the result as PNG.
Every cell takes the size of the first image. Example:
  routeml grid a.png b.png c.png --rows 2 --cols 2 -o grid.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, _ := cmd.Flags().GetInt("rows")
		cols, _ := cmd.Flags().GetInt("cols")
		out, _ := cmd.Flags().GetString("output")
		if cols <= 0 {
			cols = len(args)
		}
		if rows <= 0 {
			rows = (len(args) + cols - 1) / cols
		}
		if err := draw.ConcatenateImages(args, rows, cols, out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "grid written to %s\n", out)
		return nil
	},
}

// routesFromFlags reads routes from --routes (a JSON file) or --solution
// (a registry name).
func routesFromFlags(cmd *cobra.Command) ([]vrp.Route, error) {
	routesPath, _ := cmd.Flags().GetString("routes")
	solName, _ := cmd.Flags().GetString("solution")
	switch {
	case routesPath != "" && solName != "":
		return nil, fmt.Errorf("use either --routes or --solution, not both")
	case routesPath != "":
		f, err := os.Open(routesPath)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		return vrp.ReadRoutes(f)
	case solName != "":
		dbConn, err := db.InitDB()
		if err != nil {
			return nil, err
		}
		defer func() { _ = dbConn.Close() }()
		rec, err := registry.NewRepository(dbConn).GetSolutionByName(solName)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, fmt.Errorf("solution not found: %s", solName)
		}
		return rec.Routes(), nil
	default:
		return nil, fmt.Errorf("one of --routes or --solution is required")
	}
}

func init() {
	plotCmd.Flags().String("routes", "", "JSON file holding a list of routes")
	plotCmd.Flags().String("solution", "", "Name of a stored solution")
	plotCmd.Flags().StringP("output", "o", "routes.png", "Output PNG path")
	rootCmd.AddCommand(plotCmd)

	embedCmd.Flags().String("routes", "", "JSON file holding a list of routes")
	embedCmd.Flags().String("solution", "", "Name of a stored solution")
	embedCmd.Flags().StringP("output", "o", draw.DefaultEmbeddingPath, "Output PNG path")
	rootCmd.AddCommand(embedCmd)

	gridCmd.Flags().Int("rows", 0, "Grid rows (default: enough for all images)")
	gridCmd.Flags().Int("cols", 0, "Grid columns (default: one row of all images)")
	gridCmd.Flags().StringP("output", "o", "grid.png", "Output PNG path")
	rootCmd.AddCommand(gridCmd)
}
