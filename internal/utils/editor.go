package utils

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/kballard/go-shellquote"
)

// EditorCommand returns the argv used to edit path. $VISUAL wins over
// $EDITOR and both may carry arguments (e.g. "code --wait"); without
// either, notepad is used on Windows and vi elsewhere.
func EditorCommand(path string) ([]string, error) {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		if runtime.GOOS == "windows" {
			return []string{"notepad", path}, nil
		}
		return []string{"vi", path}, nil
	}
	argv, err := shellquote.Split(editor)
	if err != nil {
		return nil, fmt.Errorf("parse editor %q: %w", editor, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("parse editor %q: empty", editor)
	}
	return append(argv, path), nil
}

// OpenEditor opens path in the user's editor and waits for it to exit.
func OpenEditor(path string) error {
	argv, err := EditorCommand(path)
	if err != nil {
		return err
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("open editor: %w", err)
	}
	return nil
}
