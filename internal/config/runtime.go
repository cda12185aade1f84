package config

import (
	"os"
	"path/filepath"
)

func GetRuntimePath() string {
	path := os.Getenv("CONVERSIFY_RUNTIME_PATH")
	if path == "" {
		path = ".conversify"
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}

func IsDebug() bool {
	return os.Getenv("CONVERSIFY_DEBUG") == "1"
}
