package envvar

const (
	// TopologyEnv is the environment variable used to determine the environment
	TopologyEnv = "TOPOLOGY_ENV"

	// TopologyConfigPath is the environment variable used to override the config file path
	TopologyConfigPath = "TOPOLOGY_CONFIG_PATH"

	// TopologyHTTPPort is the environment variable used to determine the HTTP port
	TopologyHTTPPort = "TOPOLOGY_HTTP_PORT"

	// TopologyOutputDir is the environment variable used to determine where topologies are saved
	TopologyOutputDir = "TOPOLOGY_OUTPUT_DIR"
)
