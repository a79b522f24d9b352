// Package filex holds small file-system helpers for the CLI.
package filex

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// EnsureSubdDir creates dirName under the working directory, or dirName
// itself when it is absolute, and returns the absolute path.
func EnsureSubdDir(dirName string) (string, error) {
	dir := dirName
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dirName)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// SafeBaseName reduces a name received from elsewhere to a plain file name
// with no directory part. Empty and dot names become "download".
func SafeBaseName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := path.Base(name)
	if base == "." || base == ".." || base == "/" || strings.TrimSpace(base) == "" {
		return "download"
	}
	return base
}

// UniquePath returns a path in dir for name that does not exist yet in
// fsys, appending " (n)" before the extension when needed.
func UniquePath(fsys afero.Fs, dir, name string) (string, error) {
	name = SafeBaseName(name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := filepath.Join(dir, name)
	for i := 1; ; i++ {
		exists, err := afero.Exists(fsys, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
	}
}
