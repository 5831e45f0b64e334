// Package config loads runtime configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"time"
)

// TransportType selects how the MCP tool server communicates.
type TransportType string

const (
	// TransportStdio uses stdin/stdout for communication.
	TransportStdio TransportType = "stdio"
	// TransportHTTP uses HTTP/SSE for communication.
	TransportHTTP TransportType = "sse"
)

// Config holds runtime settings sourced from the environment.
type Config struct {
	Transport         TransportType
	HTTPAddress       string
	HTTPSocketPath    string
	CORSOrigin        string
	HeartbeatInterval time.Duration
	HTTPReadTimeout   time.Duration
	HTTPWriteTimeout  time.Duration

	// RequestTimeout bounds a single accessibility-tree read or action call.
	RequestTimeout time.Duration
	// ScrollHardTimeout overrides the scroll-into-view service's hard deadline.
	ScrollHardTimeout time.Duration
	// Debug enables verbose slog output.
	Debug bool

	// QueryCacheSize bounds the number of distinct find/read queries the MCP
	// server keeps a recent result for.
	QueryCacheSize int
	// QueryCacheTTL is how long a cached query result is served before the
	// server re-walks the accessibility tree for it.
	QueryCacheTTL time.Duration
}

// Load reads Config from the environment, applying defaults for anything unset.
func Load() (*Config, error) {
	requestTimeout, err := getEnvAsDuration("DESKAUTO_REQUEST_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	scrollTimeout, err := getEnvAsDuration("DESKAUTO_SCROLL_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	heartbeat, err := getEnvAsDuration("DESKAUTO_MCP_HEARTBEAT_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}
	httpReadTimeout, err := getEnvAsDuration("DESKAUTO_MCP_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	httpWriteTimeout, err := getEnvAsDuration("DESKAUTO_MCP_HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	queryCacheTTL, err := getEnvAsDuration("DESKAUTO_MCP_CACHE_TTL", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Transport:         TransportType(getEnv("DESKAUTO_MCP_TRANSPORT", string(TransportStdio))),
		HTTPAddress:       getEnv("DESKAUTO_MCP_HTTP_ADDRESS", ":8080"),
		HTTPSocketPath:    os.Getenv("DESKAUTO_MCP_HTTP_SOCKET"),
		CORSOrigin:        getEnv("DESKAUTO_MCP_CORS_ORIGIN", "*"),
		HeartbeatInterval: heartbeat,
		HTTPReadTimeout:   httpReadTimeout,
		HTTPWriteTimeout:  httpWriteTimeout,
		RequestTimeout:    requestTimeout,
		ScrollHardTimeout: scrollTimeout,
		Debug:             getEnvAsBool("DESKAUTO_DEBUG", false),
		QueryCacheSize:    getEnvAsInt("DESKAUTO_MCP_CACHE_SIZE", 128),
		QueryCacheTTL:     queryCacheTTL,
	}

	if cfg.Transport != TransportStdio && cfg.Transport != TransportHTTP {
		return nil, fmt.Errorf("invalid transport type: %s (must be 'stdio' or 'sse')", cfg.Transport)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n := defaultValue
	if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
		return defaultValue
	}
	return n
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q (expected duration, e.g. \"30s\", \"5m\")", key, value)
	}
	return d, nil
}
