package config

// Config holds the main configuration for the application.
type Config struct {
	Version  string         `json:"version"            yaml:"version"`
	Server   ServerConfig   `json:"server,omitempty"   yaml:"server,omitempty"`
	Storage  StorageConfig  `json:"storage,omitempty"  yaml:"storage,omitempty"`
	Registry RegistryConfig `json:"registry,omitempty" yaml:"registry,omitempty"`
	Log      LogConfig      `json:"log,omitempty"      yaml:"log,omitempty"`
}

// ServerConfig holds configuration for the HTTP API.
type ServerConfig struct {
	Host     string `json:"host,omitempty"      yaml:"host,omitempty"`
	HTTPPort int    `json:"http_port,omitempty" yaml:"http_port,omitempty"`
}

// StorageConfig holds configuration for where topology files are read and written.
type StorageConfig struct {
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	WatchDir  string `json:"watch_dir,omitempty"  yaml:"watch_dir,omitempty"`
	Indent    bool   `json:"indent,omitempty"     yaml:"indent,omitempty"`
}

// RegistryConfig holds configuration for the in-memory topology registry.
type RegistryConfig struct {
	Preload          []string `json:"preload,omitempty"           yaml:"preload,omitempty"` // Files or directories loaded at startup
	RejectDuplicates bool     `json:"reject_duplicates,omitempty" yaml:"reject_duplicates,omitempty"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	File  string `json:"file,omitempty"  yaml:"file,omitempty"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			Host:     DefaultHost,
			HTTPPort: DefaultHTTPPort(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
