// Package envvar expands environment references in user-supplied paths.
package envvar

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// pattern matches ${VAR_NAME} placeholders.
var pattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Expand replaces ${VAR_NAME} placeholders with their values. Unset variables
// expand to the empty string.
func Expand(value string) string {
	if value == "" {
		return value
	}

	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// ExpandPath expands placeholders and a leading "~" home reference in path.
// The home reference is kept verbatim when the home directory is unknown.
func ExpandPath(path string) string {
	path = Expand(path)

	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
