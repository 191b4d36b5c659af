// Package nameutil validates and cleans the names solutions are stored under.
package nameutil

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLen is the longest accepted name, in runes.
const MaxLen = 128

// ValidateName checks whether name is acceptable for a stored solution. It
// trims whitespace and rejects empty names, invalid UTF-8, control
// characters and names longer than MaxLen. It does not mutate its input;
// SanitizeName cleans a name first when that is wanted.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("invalid name: name cannot be empty")
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("invalid name: contains invalid encoding")
	}
	if n := utf8.RuneCountInString(name); n > MaxLen {
		return fmt.Errorf("invalid name: %d characters, at most %d allowed", n, MaxLen)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("invalid name: contains control character U+%04X (%q)", r, r)
		}
	}
	return nil
}

// SanitizeName removes control and zero-width characters, trims the
// result and reports whether anything changed.
func SanitizeName(name string) (string, bool) {
	if name == "" {
		return name, false
	}
	out := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		switch r {
		case '\u200B', '\u200C', '\u200D', '\uFEFF':
			return -1
		}
		return r
	}, name)
	out = strings.TrimSpace(out)
	return out, out != name
}

// FromPath derives a solution name from a file path: the base name without
// extension, sanitised.
func FromPath(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	s, _ := SanitizeName(base)
	return s
}

// Unique returns base when taken reports it free, otherwise the first of
// base-2, base-3, … that is free.
func Unique(base string, taken func(string) (bool, error)) (string, error) {
	name := base
	for i := 2; ; i++ {
		used, err := taken(name)
		if err != nil {
			return "", err
		}
		if !used {
			return name, nil
		}
		name = base + "-" + strconv.Itoa(i)
	}
}
