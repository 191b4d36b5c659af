// Package executor runs single-line shell commands for the release pipeline.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Executor runs shell commands in an OS-aware way.
type Executor struct {
	DryRun  bool
	Verbose bool
	Shell   string // optional override (e.g., "sh")
}

// Runner is an interface for executing commands. It allows tests to inject
// fake implementations without running real shell commands.
type Runner interface {
	Execute(ctx context.Context, command string, cwd string, env []string, stdout io.Writer, stderr io.Writer) error
}

// New returns a Runner backed by the real Executor implementation.
func New(dry, verbose bool) Runner {
	return &Executor{DryRun: dry, Verbose: verbose}
}

// Execute runs command through the platform shell (`bash -c` on Unix,
// `cmd /C` on Windows) with output streamed to stdout and stderr. env
// entries (KEY=VALUE) are appended to the current environment; cwd, when
// non-empty, is the working directory. A non-zero exit is returned as an
// error wrapping *exec.ExitError.
func (e *Executor) Execute(ctx context.Context, command string, cwd string, env []string, stdout io.Writer, stderr io.Writer) error {
	command, err := validateAndSanitize(command)
	if err != nil {
		return err
	}

	if e.DryRun {
		_, _ = fmt.Fprintf(stdout, "dry-run: %s\n", command)
		return nil
	}

	shell, args := shellInvocation(command, e.Shell)
	if _, err := exec.LookPath(shell); err != nil {
		return fmt.Errorf("shell not found in PATH: %s", shell)
	}

	cmd := exec.CommandContext(ctx, shell, args...)
	cmd.Dir = cwd
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command failed: %w (shell=%s command=%q)", err, shell, command)
	}
	return nil
}

// ExitCode extracts the process exit status from an Execute error. It
// returns 0 for nil and -1 when err does not carry an exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Programs returns the executables a command line invokes: the first word
// of every `&&`, `||`, `;` or `|` separated segment. Quoting is resolved
// with shell rules.
func Programs(command string) ([]string, error) {
	toks, err := shellquote.Split(command)
	if err != nil {
		return nil, fmt.Errorf("parse command: %w", err)
	}
	var out []string
	expect := true
	for _, t := range toks {
		switch t {
		case "&&", "||", ";", "|":
			expect = true
			continue
		}
		if expect {
			out = append(out, strings.TrimSuffix(t, ";"))
		}
		expect = strings.HasSuffix(t, ";")
	}
	return out, nil
}

// Missing reports the programs of command that cannot be found in PATH.
func Missing(command string) ([]string, error) {
	progs, err := Programs(command)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, p := range progs {
		if _, err := exec.LookPath(p); err != nil {
			missing = append(missing, p)
		}
	}
	return missing, nil
}

func shellInvocation(command string, overrideShell string) (string, []string) {
	if overrideShell != "" {
		switch overrideShell {
		case "pwsh", "powershell":
			return overrideShell, []string{"-Command", command}
		default:
			return overrideShell, []string{"-c", command}
		}
	}
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", command}
	}
	return "bash", []string{"-c", command}
}

// sanitizeCommand normalizes unicode punctuation that editors insert into
// config files (smart quotes, NBSP, zero-width spaces) and drops NUL bytes.
func sanitizeCommand(s string) string {
	r := strings.NewReplacer(
		"\u2018", "'", // left single quote
		"\u2019", "'", // right single quote
		"\u201C", "\"", // left double quote
		"\u201D", "\"", // right double quote
		"\u00A0", " ", // no-break space
		"\u200B", "", // zero width space
		"\u200E", "", // left-to-right mark
		"\u200F", "", // right-to-left mark
	)
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, r.Replace(s))
}

func validateAndSanitize(command string) (string, error) {
	command = strings.TrimSpace(sanitizeCommand(command))
	if command == "" {
		return "", fmt.Errorf("invalid command: empty")
	}
	if strings.Contains(command, "\n") {
		return "", fmt.Errorf("invalid command: contains newline characters; each command must be a single line")
	}
	if strings.IndexFunc(command, func(r rune) bool { return (r < 32 && r != '\t') || r == 0x7f }) != -1 {
		return "", fmt.Errorf("invalid command: contains control characters; remove non-printable characters")
	}
	return command, nil
}
