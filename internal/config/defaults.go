package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/ekisa-team/topology/internal/envvar"
)

// DefaultHost is the interface the HTTP API binds to by default.
const DefaultHost = "127.0.0.1"

const defaultHTTPPort = 8080

// DefaultConfigPath returns the default path for the topology config directory.
func DefaultConfigPath() string {
	if p := os.Getenv(envvar.TopologyConfigPath); p != "" {
		return p
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "topology", "config")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "topology")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "topology")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "topology")
		}
		return filepath.Join(home, ".config", "topology")
	}
}

// DefaultHTTPPort returns the HTTP port from TOPOLOGY_HTTP_PORT, or 8080.
func DefaultHTTPPort() int {
	if p, err := strconv.Atoi(os.Getenv(envvar.TopologyHTTPPort)); err == nil && p > 0 {
		return p
	}

	return defaultHTTPPort
}
