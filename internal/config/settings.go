package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Settings is the on-disk configuration. Every field is optional; Defaults
// fills the gaps.
type Settings struct {
	Package string      `yaml:"package"`
	Release Release     `yaml:"release"`
	Plot    PlotSetting `yaml:"plot"`
	Solver  Solver      `yaml:"solver"`
}

// Release configures the two publishing steps and the credential variables
// the upload step needs.
type Release struct {
	DocsCommand    string `yaml:"docs_command"`
	PublishCommand string `yaml:"publish_command"`
	UserEnv        string `yaml:"user_env"`
	PasswordEnv    string `yaml:"password_env"`
	Dir            string `yaml:"dir"`
	Timeout        string `yaml:"timeout"`
}

// PlotSetting controls rendered image sizes.
type PlotSetting struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	DPI    float64 `yaml:"dpi"`
}

// Solver holds defaults for the solve command.
type Solver struct {
	MaxVehicles int    `yaml:"max_vehicles"`
	TwoOpt      *bool  `yaml:"two_opt"`
	TimeLimit   string `yaml:"time_limit"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	twoOpt := true
	return Settings{
		Package: "routeml",
		Release: Release{
			DocsCommand:    "mkdocs gh-deploy",
			PublishCommand: "python -m build && twine upload dist/*",
			UserEnv:        "TWINE_USERNAME",
			PasswordEnv:    "TWINE_PASSWORD",
			Timeout:        "30m",
		},
		Plot:   PlotSetting{Width: 800, Height: 800, DPI: 100},
		Solver: Solver{TwoOpt: &twoOpt},
	}
}

// Load reads the settings file at path and merges it over Defaults. An
// empty path means SettingsPath; a missing file there is not an error.
func Load(path string) (Settings, error) {
	s := Defaults()
	explicit := path != ""
	if !explicit {
		p, err := SettingsPath()
		if err != nil {
			return s, err
		}
		path = p
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return s, nil
		}
		return s, fmt.Errorf("read settings: %w", err)
	}
	var fileSettings Settings
	if err := yaml.UnmarshalStrict(b, &fileSettings); err != nil {
		return s, fmt.Errorf("parse settings %s: %w", path, err)
	}
	s.merge(fileSettings)
	return s, nil
}

func (s *Settings) merge(o Settings) {
	if o.Package != "" {
		s.Package = o.Package
	}
	setString(&s.Release.DocsCommand, o.Release.DocsCommand)
	setString(&s.Release.PublishCommand, o.Release.PublishCommand)
	setString(&s.Release.UserEnv, o.Release.UserEnv)
	setString(&s.Release.PasswordEnv, o.Release.PasswordEnv)
	setString(&s.Release.Dir, o.Release.Dir)
	setString(&s.Release.Timeout, o.Release.Timeout)
	if o.Plot.Width > 0 {
		s.Plot.Width = o.Plot.Width
	}
	if o.Plot.Height > 0 {
		s.Plot.Height = o.Plot.Height
	}
	if o.Plot.DPI > 0 {
		s.Plot.DPI = o.Plot.DPI
	}
	if o.Solver.MaxVehicles > 0 {
		s.Solver.MaxVehicles = o.Solver.MaxVehicles
	}
	if o.Solver.TwoOpt != nil {
		s.Solver.TwoOpt = o.Solver.TwoOpt
	}
	setString(&s.Solver.TimeLimit, o.Solver.TimeLimit)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
