// Package security vets configured shell commands before they run.
package security

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnsafeCommand is returned for commands matching a destructive pattern.
var ErrUnsafeCommand = errors.New("command appears destructive or unsafe")

type rule struct {
	what string
	re   *regexp.Regexp
}

var dangerousPatterns = []rule{
	{"recursive delete of the filesystem root", regexp.MustCompile(`(?i)\brm\s+-(rf|fr)\s+/(\s|$|\*)`)},
	{"recursive delete of the home directory", regexp.MustCompile(`(?i)\brm\s+-(rf|fr)\s+~/?(\s|$)`)},
	{"filesystem creation", regexp.MustCompile(`(?i)\bmkfs\b`)},
	{"raw disk write", regexp.MustCompile(`(?i)\bdd\s+if=`)},
	{"fork bomb", regexp.MustCompile(`:\(\)\s*\{`)},
	{"disk wipe", regexp.MustCompile(`(?i)\bwipefs\b`)},
	{"forced push", regexp.MustCompile(`(?i)\bgit\s+push\b.*\s(--force|-f)(\s|$)`)},
}

// CheckAllowed returns nil if command may run, or an error wrapping
// ErrUnsafeCommand that names the matched pattern. Checking is
// conservative and not exhaustive.
func CheckAllowed(command string) error {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return errors.New("empty command")
	}
	for _, r := range dangerousPatterns {
		if r.re.MatchString(cmd) {
			return fmt.Errorf("%w: %s", ErrUnsafeCommand, r.what)
		}
	}
	return nil
}
