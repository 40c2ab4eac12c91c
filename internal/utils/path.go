// Package utils holds small helpers shared across lazychanges.
package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading tilde and environment variables in path.
func ExpandPath(path string) (string, error) {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
