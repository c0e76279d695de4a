package config

import (
	"os"
	"path/filepath"
	"strings"
)

// fileName is the settings dotfile in the user's home directory.
const fileName = ".als.cfg"

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home
	}
	return "~"
}

func homePath(elem ...string) string {
	return filepath.Join(append([]string{homeDir()}, elem...)...)
}

// DefaultPath returns the settings file location, ~/.als.cfg.
func DefaultPath() string {
	return homePath(fileName)
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
