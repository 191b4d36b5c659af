package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/VoxDroid/routeml/internal/config"
	"github.com/VoxDroid/routeml/internal/utils"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or edit the settings file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings and database locations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		sp, err := settingsFile(cmd)
		if err != nil {
			return err
		}
		dbp, err := config.DBPath()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "settings: %s\ndatabase: %s\n", sp, dbp)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings as YAML",
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, err := yaml.Marshal(settings)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the settings file in $VISUAL or $EDITOR",
	Long: `Open the settings file in $VISUAL or $EDITOR. A missing file is first
created with the built-in defaults. The file is validated after editing.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := settingsFile(cmd)
		if err != nil {
			return err
		}
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			if err := writeDefaultSettings(p); err != nil {
				return err
			}
		}
		if err := utils.OpenEditor(p); err != nil {
			return err
		}
		if _, err := config.Load(p); err != nil {
			return fmt.Errorf("settings saved but invalid: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "settings saved to %s\n", p)
		return nil
	},
}

func settingsFile(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p, nil
	}
	return config.SettingsPath()
}

func writeDefaultSettings(path string) error {
	b, err := yaml.Marshal(config.Defaults())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}
