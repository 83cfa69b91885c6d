package util

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeDir returns the user's home directory.
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// ConfigPath returns the guidectx configuration directory.
func ConfigPath() string {
	return filepath.Join(HomeDir(), ".guidectx")
}

// CachePath returns the default document cache directory.
func CachePath() string {
	return filepath.Join(ConfigPath(), "cache")
}

// UserInstructionsPath returns the user-level instruction root.
func UserInstructionsPath() string {
	return filepath.Join(ConfigPath(), "instructions")
}

// ProjectInstructionsPath returns the conventional project-level instruction
// root inside a working directory.
func ProjectInstructionsPath(projectDir string) string {
	return filepath.Join(projectDir, ".github", "instructions")
}

// ExpandPath expands a leading ~ to the home directory and resolves relative
// paths against baseDir. Returns "" for empty input.
func ExpandPath(path, baseDir string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(HomeDir(), path[2:])
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	if baseDir == "" {
		baseDir, _ = os.Getwd()
	}
	return filepath.Join(baseDir, path)
}

// ExpandPaths expands each path in order, dropping entries that expand to "".
func ExpandPaths(paths []string, baseDir string) []string {
	expanded := make([]string, 0, len(paths))
	for _, p := range paths {
		if e := ExpandPath(p, baseDir); e != "" {
			expanded = append(expanded, e)
		}
	}
	return expanded
}
