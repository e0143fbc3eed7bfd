// Package filex has filesystem helpers for the client's local state.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureParentDir creates the directory that will hold path, if missing, and
// returns it. Directories are created owner-only since they hold credentials.
func EnsureParentDir(path string) (string, error) {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return dir, nil
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// DefaultDataPath returns the location of the session database under the
// user's config directory, falling back to the working directory.
func DefaultDataPath(appName, fileName string) string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return fileName
	}
	return filepath.Join(base, appName, fileName)
}
