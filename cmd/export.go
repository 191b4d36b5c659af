package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/routeml/internal/db"
	"github.com/VoxDroid/routeml/internal/exporter"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the database or single solutions to portable files",
}

var exportDBCmd = &cobra.Command{
	Use:   "db",
	Short: "Copy the active database to a file",
	Long: `Copy the active database to a file. Without --dst the copy is written to
./routeml-<date>.db, numbered when that file already exists.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dst, _ := cmd.Flags().GetString("dst")
		if dst == "" {
			dst = defaultExportPath(".", time.Now().UTC())
		}
		// make sure the database exists and is migrated before copying it
		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		_ = dbConn.Close()
		if err := exporter.ExportDatabase(dst); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported database to %s\n", dst)
		return nil
	},
}

var exportSolutionCmd = &cobra.Command{
	Use:   "solution <name> --dst <path>",
	Short: "Export one solution to a standalone SQLite file or JSON document",
	Long: `Export one solution. A --dst ending in .json gets a JSON document with the
routes, cost and tags; any other path gets a standalone SQLite database that
'routeml import solutions' understands. Use --dst - for JSON on stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		dst, _ := cmd.Flags().GetString("dst")
		if dst == "" {
			return fmt.Errorf("--dst is required")
		}
		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()

		switch {
		case dst == "-":
			return exporter.ExportSolutionJSON(dbConn, name, cmd.OutOrStdout())
		case strings.EqualFold(filepath.Ext(dst), ".json"):
			f, err := os.Create(dst)
			if err != nil {
				return err
			}
			if err := exporter.ExportSolutionJSON(dbConn, name, f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		default:
			if err := exporter.ExportSolution(dbConn, name, dst); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported solution '%s' to %s\n", name, dst)
		return nil
	},
}

// defaultExportPath returns dir/routeml-<date>.db, or the first free
// routeml-<date>-N.db when that exists.
func defaultExportPath(dir string, now time.Time) string {
	date := now.Format("2006-01-02")
	dst := filepath.Join(dir, fmt.Sprintf("routeml-%s.db", date))
	for i := 1; ; i++ {
		if _, err := os.Stat(dst); os.IsNotExist(err) {
			return dst
		}
		dst = filepath.Join(dir, fmt.Sprintf("routeml-%s-%d.db", date, i))
	}
}

func init() {
	exportDBCmd.Flags().String("dst", "", "Destination file path for the exported database")
	exportSolutionCmd.Flags().String("dst", "", "Destination path (.json for a JSON document, - for stdout)")
	exportCmd.AddCommand(exportDBCmd)
	exportCmd.AddCommand(exportSolutionCmd)
	rootCmd.AddCommand(exportCmd)
}
