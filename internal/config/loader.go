package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.yaml.in/yaml/v3"

	"github.com/ekisa-team/topology/internal/envvar"
	"github.com/ekisa-team/topology/internal/xfs"
)

//go:embed topology.v1.schema.json
var defaultSchema string

const defaultSchemaURL = "topology.v1.schema.json"

// LoadAndValidate loads and validates the configuration.
// An empty schemaPath validates against the embedded schema.
func LoadAndValidate(path, schemaPath string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read config: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: invalid YAML: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	schema, err := compileSchema(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("config: failed to compile schema: %w", err)
	}

	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal into Config struct: %w", err)
	}

	applyEnv(config)
	expandPaths(config)

	return config, nil
}

// Load reads the config at path, falling back to Default when the file does not exist.
func Load(path, schemaPath string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		config := Default()
		applyEnv(config)
		expandPaths(config)
		return config, nil
	}

	return LoadAndValidate(path, schemaPath)
}

func compileSchema(schemaPath string) (*jsonschema.Schema, error) {
	if schemaPath != "" {
		return jsonschema.Compile(schemaPath)
	}

	return jsonschema.CompileString(defaultSchemaURL, defaultSchema)
}

// applyEnv applies environment variable overrides.
// Precedence: environment variable, then config file, then defaults.
func applyEnv(config *Config) {
	if dir := os.Getenv(envvar.TopologyOutputDir); dir != "" {
		config.Storage.OutputDir = dir
	}
	if os.Getenv(envvar.TopologyHTTPPort) != "" {
		config.Server.HTTPPort = DefaultHTTPPort()
	}
}

func expandPaths(config *Config) {
	config.Storage.OutputDir = xfs.ExpandTilde(config.Storage.OutputDir)
	config.Storage.WatchDir = xfs.ExpandTilde(config.Storage.WatchDir)
	config.Log.File = xfs.ExpandTilde(config.Log.File)
	for i, p := range config.Registry.Preload {
		config.Registry.Preload[i] = xfs.ExpandTilde(p)
	}
}
