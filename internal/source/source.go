// Package source loads text sources from disk.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Mode selects how Read treats a missing file.
type Mode int

const (
	// Strict fails with ErrSourceNotFound when the file is missing.
	Strict Mode = iota
	// Optional returns an empty body when the file is missing.
	Optional
)

// ErrSourceNotFound indicates a required source file does not exist.
var ErrSourceNotFound = errors.New("source not found")

// CommentMarker starts a comment line once surrounding whitespace is trimmed.
const CommentMarker = "#"

// Read returns the full text of path.
func Read(path string, mode Mode) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if mode == Optional {
				return "", nil
			}
			return "", fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// RequireDir fails with ErrSourceNotFound unless path is an existing directory.
func RequireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", path)
	}
	return nil
}

// IsComment reports whether line is a comment line.
func IsComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), CommentMarker)
}

// Lines splits text into lines, accepting both \n and \r\n endings.
// A trailing newline does not produce a final empty line.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// StripComments drops comment lines and keeps everything else, blank lines
// included, so the remaining text can still be matched across lines.
func StripComments(text string) string {
	var kept []string
	for _, line := range Lines(text) {
		if IsComment(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// StripCommentsAndBlanks drops every line that is blank or a comment once
// trimmed. Remaining lines are kept verbatim.
func StripCommentsAndBlanks(text string) string {
	var kept []string
	for _, line := range Lines(text) {
		if strings.TrimSpace(line) == "" || IsComment(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
