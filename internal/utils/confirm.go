// Package utils holds small interactive helpers for the CLI.
package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm writes msg to w and reads a y/n answer from r. Anything other
// than "y" or "yes" (including EOF) counts as no.
func Confirm(r io.Reader, w io.Writer, msg string) bool {
	resp := strings.ToLower(Prompt(bufio.NewReader(r), w, msg+" [y/N]"))
	return resp == "y" || resp == "yes"
}

// Prompt writes msg to w and returns the trimmed line read from r.
// Callers asking more than one question share the same reader so that
// buffered input is not lost between answers.
func Prompt(r *bufio.Reader, w io.Writer, msg string) string {
	_, _ = fmt.Fprintf(w, "%s: ", msg)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}
