package env

import (
	"os"
	"strings"

	"github.com/ekisa-team/topology/internal/envvar"
)

// Environment is the deployment environment the process runs in.
type Environment string

const (
	// Development enables human-friendly console output.
	Development Environment = "development"

	// Production enables machine-readable output.
	Production Environment = "production"
)

// FromEnv reads the environment from TOPOLOGY_ENV, defaulting to development.
func FromEnv() Environment {
	return Parse(os.Getenv(envvar.TopologyEnv))
}

// Parse converts a string into an Environment. Unknown values map to development.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prod", "production":
		return Production
	default:
		return Development
	}
}

// IsProduction reports whether e is the production environment.
func (e Environment) IsProduction() bool {
	return e == Production
}
