// Package logfinder locates the log file a previewed grammar is run against.
package logfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// EnvLogDir is the environment variable naming the default log directory.
const EnvLogDir = "LAYOUTGRAMMAR_LOGDIR"

// DefaultPattern matches the file names NLog file targets usually write.
const DefaultPattern = "*.log"

var (
	ErrLogDirNotFound = errors.New("log directory not found")
	ErrNoLogFiles     = errors.New("no log files found")
)

// Resolve turns a user-supplied path into a log file path:
//   - a regular file is returned as is
//   - a directory yields its newest file matching pattern
//   - an empty path falls back to the directory in EnvLogDir
func Resolve(path, pattern string) (string, error) {
	if path == "" {
		dir, err := FindLogDir("", pattern)
		if err != nil {
			return "", err
		}
		return FindLatestLogFile(dir, pattern)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoLogFiles, err)
	}
	if !info.IsDir() {
		return path, nil
	}
	return FindLatestLogFile(path, pattern)
}

// FindLogDir returns the directory to search for logs: explicit if set,
// otherwise the EnvLogDir environment variable. The directory must contain
// at least one file matching pattern. Symlinks in the result are resolved.
func FindLogDir(explicit, pattern string) (string, error) {
	if explicit != "" {
		if resolved := resolveAndValidateLogDir(explicit, pattern); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: specified directory is invalid or contains no log files", ErrLogDirNotFound)
	}

	if envDir := os.Getenv(EnvLogDir); envDir != "" {
		if resolved := resolveAndValidateLogDir(envDir, pattern); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s environment variable points to invalid directory", ErrLogDirNotFound, EnvLogDir)
	}

	return "", fmt.Errorf("%w: no path given and %s is not set", ErrLogDirNotFound, EnvLogDir)
}

// logCandidate caches a file's modification time so files deleted while
// sorting do not break the comparison.
type logCandidate struct {
	path    string
	modTime int64
}

// FindLatestLogFile returns the most recently modified regular file in dir
// matching pattern, or ErrNoLogFiles.
func FindLatestLogFile(dir, pattern string) (string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", fmt.Errorf("globbing log files: %w", err)
	}

	candidates := make([]logCandidate, 0, len(matches))
	for _, m := range matches {
		info, err := os.Lstat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		candidates = append(candidates, logCandidate{path: m, modTime: info.ModTime().UnixNano()})
	}
	if len(candidates) == 0 {
		return "", ErrNoLogFiles
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime > candidates[j].modTime
	})
	return candidates[0].path, nil
}

func resolveAndValidateLogDir(dir, pattern string) string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return ""
	}
	if _, err := FindLatestLogFile(resolved, pattern); err != nil {
		return ""
	}
	return resolved
}
