package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/routeml/internal/executor"
	"github.com/VoxDroid/routeml/internal/release"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Deploy the docs site, then build and upload the package",
	Long: `Publish the project in two steps:
  1. docs     mkdocs gh-deploy
  2. publish  python -m build && twine upload dist/*

TWINE_USERNAME and TWINE_PASSWORD must be set (the names can be changed in
the settings file). The first failing step stops the release and its exit
code becomes routeml's exit code. Examples:
  routeml release --dry-run
  routeml release --check
  routeml release --dir ./python`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dry, _ := cmd.Flags().GetBool("dry-run")
		check, _ := cmd.Flags().GetBool("check")
		verbose, _ := cmd.Flags().GetBool("verbose")
		cfg := settings.Release
		if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
			cfg.Dir = dir
		}

		p := release.New(cfg, executor.New(dry, verbose), logger)
		if check {
			return preflight(cmd, p)
		}

		ctx := context.Background()
		if cfg.Timeout != "" {
			d, err := time.ParseDuration(cfg.Timeout)
			if err != nil {
				return fmt.Errorf("release.timeout: %w", err)
			}
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
		if err := p.Run(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
			return err
		}
		if !dry {
			fmt.Fprintln(cmd.OutOrStdout(), "release complete")
		}
		return nil
	},
}

// preflight reports missing credentials and tools without running anything.
func preflight(cmd *cobra.Command, p *release.Pipeline) error {
	out := cmd.OutOrStdout()
	ok := true
	if err := release.CheckCredentials(p.Lookup, p.Credentials...); err != nil {
		fmt.Fprintf(out, "credentials: %v\n", err)
		ok = false
	} else {
		fmt.Fprintln(out, "credentials: ok")
	}
	for _, s := range p.Steps {
		missing, err := executor.Missing(s.Command)
		switch {
		case err != nil:
			fmt.Fprintf(out, "%s: %v\n", s.Name, err)
			ok = false
		case len(missing) > 0:
			fmt.Fprintf(out, "%s: not found in PATH: %v\n", s.Name, missing)
			ok = false
		default:
			fmt.Fprintf(out, "%s: ok (%s)\n", s.Name, s.Command)
		}
	}
	if !ok {
		return errors.New("release preflight failed")
	}
	return nil
}

var installCommandCmd = &cobra.Command{
	Use:   "install-command",
	Short: "Print the command that installs the published package",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), release.InstallCommand(settings.Package))
	},
}

// exitCode maps a command error to the process exit status. A failed
// release step exits with the failing tool's own status.
func exitCode(err error) int {
	var se *release.StepError
	if errors.As(err, &se) {
		if code := se.ExitCode(); code > 0 {
			return code
		}
	}
	return 1
}

func init() {
	releaseCmd.Flags().Bool("dry-run", false, "Print the release commands instead of running them")
	releaseCmd.Flags().Bool("check", false, "Only check credentials and required tools")
	releaseCmd.Flags().String("dir", "", "Project directory to run the release in")
	rootCmd.AddCommand(releaseCmd)
	rootCmd.AddCommand(installCommandCmd)
}
