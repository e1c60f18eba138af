// Package misc keeps build time program identification.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// Values are set at build time with -ldflags "-X".
var (
	version = "dev"
	gitHash = "unknown"
)

// GetAppName returns name of the running executable without extension.
func GetAppName() string {
	name := filepath.Base(os.Args[0])
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if len(name) == 0 || strings.HasPrefix(name, "__debug_bin") || strings.HasSuffix(name, ".test") {
		return "estoria"
	}
	return name
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
