package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
	"github.com/dmitrijs2005/gophnotes/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk form of Config. Durations accept "10s" style
// strings or integer nanoseconds.
type FileConfig struct {
	EndpointAddrHTTP    string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	EndpointAddrGRPC    string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDSN         string         `json:"database_dsn" yaml:"database_dsn"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
	ShutdownTimeout     timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	HealthCheckInterval timex.Duration `json:"health_check_interval" yaml:"health_check_interval"`
	ReadHeaderTimeout   timex.Duration `json:"read_header_timeout" yaml:"read_header_timeout"`
	SeedUsers           []SeedUser     `json:"seed_users" yaml:"seed_users"`
}

// decodeFile picks the decoder by extension: .yaml and .yml are YAML,
// anything else is JSON.
func decodeFile(path string, data []byte) (*FileConfig, error) {
	c := &FileConfig{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("yaml config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("json config %s: %w", path, err)
		}
	}

	return c, nil
}

// apply copies the fields that were set in the file.
func (c *FileConfig) apply(config *Config) {
	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.EndpointAddrGRPC != "" {
		config.EndpointAddrGRPC = c.EndpointAddrGRPC
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.HealthCheckInterval.Duration != 0 {
		config.HealthCheckInterval = c.HealthCheckInterval.Duration
	}
	if c.ReadHeaderTimeout.Duration != 0 {
		config.ReadHeaderTimeout = c.ReadHeaderTimeout.Duration
	}
	if len(c.SeedUsers) > 0 {
		config.SeedUsers = c.SeedUsers
	}
}

// parseFile overlays values from the file named by -c/-config, if any.
// An unreadable or malformed file panics, as do bad flags.
func parseFile(config *Config) {

	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c, err := decodeFile(path, data)
	if err != nil {
		panic(err)
	}

	c.apply(config)
}
