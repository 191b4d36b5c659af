package executor

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"testing"
	"time"
)

func skipWithoutBash(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("bash-based test")
	}
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}
}

func TestExecuteEcho(t *testing.T) {
	skipWithoutBash(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out, errb bytes.Buffer
	e := &Executor{}
	if err := e.Execute(ctx, "echo hello", "", nil, &out, &errb); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out.String(), "hello") {
		t.Fatalf("expected 'hello' in stdout, got: %q", out.String())
	}
}

func TestExecutePassesEnvAndDir(t *testing.T) {
	skipWithoutBash(t)
	dir := t.TempDir()
	var out bytes.Buffer
	e := &Executor{}
	err := e.Execute(context.Background(), `echo "$ROUTEML_TEST_VAR" && pwd`, dir, []string{"ROUTEML_TEST_VAR=xyz"}, &out, io.Discard)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out.String(), "xyz") || !strings.Contains(out.String(), dir) {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestExecuteFailSurfacesExitCode(t *testing.T) {
	skipWithoutBash(t)
	e := &Executor{}
	err := e.Execute(context.Background(), "exit 3", "", nil, io.Discard, io.Discard)
	if err == nil {
		t.Fatalf("expected error for failing command")
	}
	if code := ExitCode(err); code != 3 {
		t.Fatalf("expected exit code 3, got %d", code)
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != 0 {
		t.Fatalf("nil error should map to 0")
	}
	if ExitCode(io.EOF) != -1 {
		t.Fatalf("non-exit error should map to -1")
	}
}

func TestDryRun(t *testing.T) {
	var out bytes.Buffer
	e := &Executor{DryRun: true, Verbose: true}
	if err := e.Execute(context.Background(), "echo hi", "", nil, &out, io.Discard); err != nil {
		t.Fatalf("dry-run should not error: %v", err)
	}
	if !strings.Contains(out.String(), "dry-run: echo hi") {
		t.Fatalf("expected dry-run message, got: %q", out.String())
	}
}

func TestExecuteRemovesNullByte(t *testing.T) {
	e := &Executor{DryRun: true}
	if err := e.Execute(context.Background(), "echo hi\x00bad", "", nil, io.Discard, io.Discard); err != nil {
		t.Fatalf("expected NUL to be removed and command to run in dry-run, got: %v", err)
	}
}

func TestExecuteRejectsBadCommands(t *testing.T) {
	e := &Executor{DryRun: true}
	for _, c := range []string{"echo hi\nnext", "echo \x07bell", "   "} {
		if err := e.Execute(context.Background(), c, "", nil, io.Discard, io.Discard); err == nil {
			t.Fatalf("expected error for %q", c)
		}
	}
}

func TestSanitizeSmartQuotes(t *testing.T) {
	got := sanitizeCommand("echo \u201Chi\u201D \u2018x\u2019 y\u200B")
	if got != `echo "hi" 'x' y` {
		t.Fatalf("unexpected sanitized command: %q", got)
	}
}

func TestSanitizeInvisibleSpaces(t *testing.T) {
	got := sanitizeCommand("mkdocs\u00A0gh-deploy\u200E\u200F")
	if got != "mkdocs gh-deploy" {
		t.Fatalf("unexpected sanitized command: %q", got)
	}
}

func TestPrograms(t *testing.T) {
	cases := map[string][]string{
		"mkdocs gh-deploy":                       {"mkdocs"},
		"python -m build && twine upload dist/*": {"python", "twine"},
		`echo "a && b"; ls | wc -l`:              {"echo", "ls", "wc"},
	}
	for in, want := range cases {
		got, err := Programs(in)
		if err != nil {
			t.Fatalf("Programs(%q): %v", in, err)
		}
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Fatalf("Programs(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := Programs(`echo "unterminated`); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestMissing(t *testing.T) {
	skipWithoutBash(t)
	missing, err := Missing("bash -c true && routeml-definitely-not-installed --flag")
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	if len(missing) != 1 || missing[0] != "routeml-definitely-not-installed" {
		t.Fatalf("unexpected missing list: %v", missing)
	}
}
