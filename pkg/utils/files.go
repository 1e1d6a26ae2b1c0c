package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	// Get the directory containing the file
	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// CleanDir removes dir and everything in it, then recreates it empty.
// It refuses the working directory and any directory containing it, the
// filesystem root included.
func CleanDir(dir string) error {
	full, _, err := GetPathInfo(dir)
	if err != nil {
		return err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	if full == filepath.Dir(full) || contains(full, cwd) {
		return fmt.Errorf("refusing to clean %q: it contains the working directory", full)
	}
	if err := os.RemoveAll(full); err != nil {
		return err
	}
	return os.MkdirAll(full, 0o755)
}

// contains reports whether path is dir or lies somewhere below it.
func contains(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ArtifactName derives the generated file name for a source path:
// "src/demo.toy" becomes "demo.c".
func ArtifactName(srcPath string) string {
	base := filepath.Base(srcPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".c"
}
