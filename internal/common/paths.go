package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AppDirName is the per-user directory holding the config file.
const AppDirName = ".imc"

// CleanPath expands a leading ~ and rejects paths that climb out with "..".
// The result is absolute.
func CleanPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("invalid path: empty")
	}

	expanded, err := ExpandHome(path)
	if err != nil {
		return "", err
	}

	cleaned := filepath.Clean(expanded)
	for _, part := range strings.Split(filepath.ToSlash(cleaned), "/") {
		if part == ".." {
			return "", fmt.Errorf("invalid path: contains directory traversal")
		}
	}

	if !filepath.IsAbs(cleaned) {
		abs, err := filepath.Abs(cleaned)
		if err != nil {
			return "", fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		cleaned = abs
	}

	return cleaned, nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ConfigDir returns $HOME/.imc, or "" when the home directory is unknown.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, AppDirName)
}
