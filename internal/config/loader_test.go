package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/topology/internal/envvar"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAndValidate(t *testing.T) {
	path := writeConfig(t, `
version: "1"
server:
  http_port: 9090
storage:
  output_dir: /var/lib/topology
  watch_dir: /var/spool/topology
  indent: true
registry:
  reject_duplicates: true
  preload:
    - /etc/topology/base.json
log:
  level: debug
`)

	cfg, err := LoadAndValidate(path, "")
	require.NoError(t, err)

	assert.Equal(t, "1", cfg.Version)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, DefaultHost, cfg.Server.Host)
	assert.Equal(t, "/var/lib/topology", cfg.Storage.OutputDir)
	assert.Equal(t, "/var/spool/topology", cfg.Storage.WatchDir)
	assert.True(t, cfg.Storage.Indent)
	assert.True(t, cfg.Registry.RejectDuplicates)
	assert.Equal(t, []string{"/etc/topology/base.json"}, cfg.Registry.Preload)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadAndValidate_SchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown key", content: "version: \"1\"\nstorage:\n  outputdir: /tmp\n"},
		{name: "port out of range", content: "server:\n  http_port: 70000\n"},
		{name: "bad level", content: "log:\n  level: loud\n"},
		{name: "wrong type", content: "registry:\n  reject_duplicates: \"yes\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAndValidate(writeConfig(t, tt.content), "")
			assert.ErrorContains(t, err, "validation failed")
		})
	}
}

func TestLoadAndValidate_InvalidYAML(t *testing.T) {
	_, err := LoadAndValidate(writeConfig(t, "server: [unclosed"), "")
	assert.ErrorContains(t, err, "invalid YAML")
}

func TestLoadAndValidate_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := LoadAndValidate(writeConfig(t, ""), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.NoError(t, err)
	assert.Equal(t, defaultHTTPPort, cfg.Server.HTTPPort)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(envvar.TopologyHTTPPort, "7070")
	t.Setenv(envvar.TopologyOutputDir, "/srv/out")

	cfg, err := Load(writeConfig(t, "server:\n  http_port: 9090\nstorage:\n  output_dir: /tmp\n"), "")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.HTTPPort)
	assert.Equal(t, "/srv/out", cfg.Storage.OutputDir)
}

func TestLoad_ExpandsTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := Load(writeConfig(t, "storage:\n  watch_dir: ~/inbox\n"), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "inbox"), cfg.Storage.WatchDir)
}
