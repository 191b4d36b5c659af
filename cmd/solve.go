package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/routeml/internal/db"
	"github.com/VoxDroid/routeml/internal/draw"
	"github.com/VoxDroid/routeml/internal/registry"
	"github.com/VoxDroid/routeml/internal/vrp"
)

var solveCmd = &cobra.Command{
	Use:   "solve <instance.json|instance.yaml>",
	Short: "Build routes for an instance with savings and 2-opt",
	Long: `Build routes for a capacitated instance with the Clarke-Wright savings
heuristic, then improve each route with 2-opt. Examples:
  routeml solve depot.yaml
  routeml solve depot.yaml --max-vehicles 3 --save depot-best --plot depot.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := vrp.LoadInstance(args[0])
		if err != nil {
			return err
		}
		opts, err := solveOptions(cmd)
		if err != nil {
			return err
		}

		logger.Infow("solving", "instance", in.Name, "customers", len(in.Customers()), "capacity", in.Capacity, "max_vehicles", opts.MaxVehicles)
		start := time.Now()
		res, err := vrp.Solve(context.Background(), in, opts)
		switch {
		case errors.Is(err, vrp.ErrTimeLimit):
			logger.Warnw("2-opt stopped early; keeping best routes found", "elapsed", time.Since(start))
		case err != nil:
			return err
		}
		logger.Infow("solved", "vehicles", len(res.Routes), "cost", res.Cost, "elapsed", time.Since(start))

		out := cmd.OutOrStdout()
		for i, r := range res.Routes {
			fmt.Fprintf(out, "route %d: %s\n", i+1, vrp.FormatSolution(vrp.Solution(r)))
		}
		fmt.Fprintf(out, "cost: %.6f\n", res.Cost)
		fmt.Fprintf(out, "solution: %s\n", vrp.FormatSolution(res.Solution))

		if plotPath, _ := cmd.Flags().GetString("plot"); plotPath != "" {
			written, err := draw.PlotRoutesFile(plotPath, res.Routes, in.Coords, plotOptions())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "plot written to %s\n", written)
		}

		if name, _ := cmd.Flags().GetString("save"); name != "" {
			dbConn, err := db.InitDB()
			if err != nil {
				return err
			}
			defer func() { _ = dbConn.Close() }()
			r := registry.NewRepository(dbConn)
			instance := in.Name
			if _, err := r.SaveSolution(name, &instance, nil, res.Solution, res.Cost); err != nil {
				return err
			}
			fmt.Fprintf(out, "saved solution '%s'\n", name)
		}
		return nil
	},
}

func solveOptions(cmd *cobra.Command) (vrp.Options, error) {
	opts := vrp.DefaultOptions()
	opts.MaxVehicles = settings.Solver.MaxVehicles
	if settings.Solver.TwoOpt != nil {
		opts.TwoOpt = *settings.Solver.TwoOpt
	}
	if settings.Solver.TimeLimit != "" {
		d, err := time.ParseDuration(settings.Solver.TimeLimit)
		if err != nil {
			return opts, fmt.Errorf("solver.time_limit: %w", err)
		}
		opts.TimeLimit = d
	}

	if cmd.Flags().Changed("max-vehicles") {
		opts.MaxVehicles, _ = cmd.Flags().GetInt("max-vehicles")
	}
	if noTwoOpt, _ := cmd.Flags().GetBool("no-two-opt"); noTwoOpt {
		opts.TwoOpt = false
	}
	if cmd.Flags().Changed("time-limit") {
		opts.TimeLimit, _ = cmd.Flags().GetDuration("time-limit")
	}
	return opts, nil
}

func plotOptions() draw.Options {
	return draw.Options{
		Width:  settings.Plot.Width,
		Height: settings.Plot.Height,
		DPI:    settings.Plot.DPI,
	}
}

func init() {
	solveCmd.Flags().Int("max-vehicles", 0, "Maximum number of routes (0 = unlimited)")
	solveCmd.Flags().Bool("no-two-opt", false, "Skip the 2-opt improvement pass")
	solveCmd.Flags().Duration("time-limit", 0, "Time budget for 2-opt (0 = none)")
	solveCmd.Flags().String("save", "", "Save the solution in the registry under this name")
	solveCmd.Flags().String("plot", "", "Write a PNG plot of the routes to this path")
	rootCmd.AddCommand(solveCmd)
}
