package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseFile(t *testing.T) {
	jsonPath := writeTemp(t, "cfg.json", `{
		"endpoint_addr_http": ":9000",
		"endpoint_addr_grpc": ":9001",
		"database_dsn": "notes.db",
		"log_level": "warn",
		"shutdown_timeout": "30s",
		"health_check_interval": 1000000000,
		"read_header_timeout": "2s",
		"seed_users": [{"email": "dev@example.com", "password": "devpass"}]
	}`)
	yamlPath := writeTemp(t, "cfg.yaml", `
endpoint_addr_http: ":9000"
endpoint_addr_grpc: ":9001"
database_dsn: notes.db
log_level: warn
shutdown_timeout: 30s
health_check_interval: 1000000000
read_header_timeout: 2s
seed_users:
  - email: dev@example.com
    password: devpass
`)

	want := &Config{
		EndpointAddrHTTP:    ":9000",
		EndpointAddrGRPC:    ":9001",
		DatabaseDSN:         "notes.db",
		LogLevel:            "warn",
		ShutdownTimeout:     30 * time.Second,
		HealthCheckInterval: time.Second,
		ReadHeaderTimeout:   2 * time.Second,
		SeedUsers:           []SeedUser{{Email: "dev@example.com", Password: "devpass"}},
	}

	for _, path := range []string{jsonPath, yamlPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = []string{"testbin", "-config", path}

			cfg := &Config{}
			require.NotPanics(t, func() { parseFile(cfg) })
			assert.Empty(t, cmp.Diff(want, cfg))
		})
	}
}

func TestParseFile_PartialKeepsDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTemp(t, "cfg.yml", "log_level: debug\n")
	os.Args = []string{"testbin", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)

	want := &Config{}
	want.LoadDefaults()
	want.LogLevel = "debug"
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseFile_NoFlagIsNoop(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := &Config{}
	parseFile(cfg)
	assert.Equal(t, Config{}, *cfg)
}

func TestParseFile_Panics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-c", filepath.Join(t.TempDir(), "missing.json")}
	assert.Panics(t, func() { parseFile(&Config{}) })

	os.Args = []string{"testbin", "-c", writeTemp(t, "bad.json", "{not json")}
	assert.Panics(t, func() { parseFile(&Config{}) })

	os.Args = []string{"testbin", "-c", writeTemp(t, "bad.yaml", "shutdown_timeout: [1, 2]\n")}
	assert.Panics(t, func() { parseFile(&Config{}) })
}
