// Package release publishes the project: it deploys the documentation site
// and then builds and uploads the Python package. Steps run in order and the
// pipeline stops at the first failure.
package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/VoxDroid/routeml/internal/config"
	"github.com/VoxDroid/routeml/internal/executor"
	"github.com/VoxDroid/routeml/internal/logging"
	"github.com/VoxDroid/routeml/internal/security"
)

// ErrMissingCredentials is returned before any step runs when a credential
// variable is unset or empty.
var ErrMissingCredentials = errors.New("release: missing credentials")

// Step is one shell command of the pipeline.
type Step struct {
	Name    string
	Command string
	// Env holds extra KEY=VALUE entries for this step only.
	Env []string
}

// StepError reports the step that failed and the underlying error.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("release step %q failed: %v", e.Step.Name, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// ExitCode is the exit status of the failed tool, or -1 when the step did
// not get as far as exiting.
func (e *StepError) ExitCode() int {
	return executor.ExitCode(e.Err)
}

// Pipeline runs Steps through Runner.
type Pipeline struct {
	Steps  []Step
	Runner executor.Runner
	// Dir is the working directory for every step; empty means the
	// current directory.
	Dir string
	// Credentials names the environment variables that must be set.
	Credentials []string
	// Lookup reads the environment; nil means os.LookupEnv.
	Lookup func(string) (string, bool)
	Log    logging.Logger
}

// DefaultSteps builds the docs deploy and package publish steps from cfg.
func DefaultSteps(cfg config.Release) []Step {
	def := config.Defaults().Release
	docs := cfg.DocsCommand
	if docs == "" {
		docs = def.DocsCommand
	}
	publish := cfg.PublishCommand
	if publish == "" {
		publish = def.PublishCommand
	}
	return []Step{
		{Name: "docs", Command: docs},
		{Name: "publish", Command: publish, Env: credentialEnv(cfg, def)},
	}
}

// credentialEnv forwards custom credential variables under the names twine
// reads. Nothing is added when the default names are in use.
func credentialEnv(cfg, def config.Release) []string {
	var env []string
	if cfg.UserEnv != "" && cfg.UserEnv != def.UserEnv {
		env = append(env, def.UserEnv+"="+os.Getenv(cfg.UserEnv))
	}
	if cfg.PasswordEnv != "" && cfg.PasswordEnv != def.PasswordEnv {
		env = append(env, def.PasswordEnv+"="+os.Getenv(cfg.PasswordEnv))
	}
	return env
}

// CredentialVars returns the credential variable names configured in cfg.
func CredentialVars(cfg config.Release) []string {
	def := config.Defaults().Release
	user, pass := cfg.UserEnv, cfg.PasswordEnv
	if user == "" {
		user = def.UserEnv
	}
	if pass == "" {
		pass = def.PasswordEnv
	}
	return []string{user, pass}
}

// New returns the default pipeline for cfg.
func New(cfg config.Release, runner executor.Runner, log logging.Logger) *Pipeline {
	return &Pipeline{
		Steps:       DefaultSteps(cfg),
		Runner:      runner,
		Dir:         cfg.Dir,
		Credentials: CredentialVars(cfg),
		Log:         log,
	}
}

// CheckCredentials fails with ErrMissingCredentials naming every variable
// in vars that lookup reports unset or empty.
func CheckCredentials(lookup func(string) (string, bool), vars ...string) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var missing []string
	for _, v := range vars {
		if val, ok := lookup(v); !ok || strings.TrimSpace(val) == "" {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// Run checks credentials and then runs each step in order, streaming its
// output to stdout and stderr. The first failing step stops the pipeline
// and is returned as a *StepError. Nothing is retried.
func (p *Pipeline) Run(ctx context.Context, stdout, stderr io.Writer) error {
	log := logging.OrNop(p.Log)
	if p.Runner == nil {
		return errors.New("release: no runner configured")
	}
	if err := CheckCredentials(p.Lookup, p.Credentials...); err != nil {
		return err
	}
	for i, s := range p.Steps {
		if err := security.CheckAllowed(s.Command); err != nil {
			return &StepError{Step: s, Err: err}
		}
		if err := ctx.Err(); err != nil {
			return &StepError{Step: s, Err: err}
		}
		start := time.Now()
		log.Infow("release step started", "step", s.Name, "index", i+1, "of", len(p.Steps), "command", s.Command)
		if err := p.Runner.Execute(ctx, s.Command, p.Dir, s.Env, stdout, stderr); err != nil {
			log.Errorw("release step failed", "step", s.Name, "exit_code", executor.ExitCode(err), "error", err)
			return &StepError{Step: s, Err: err}
		}
		log.Infow("release step finished", "step", s.Name, "elapsed", time.Since(start))
	}
	return nil
}

// InstallCommand returns the command users run to install pkg.
func InstallCommand(pkg string) string {
	if strings.TrimSpace(pkg) == "" {
		pkg = config.Defaults().Package
	}
	return "pip install " + pkg
}
