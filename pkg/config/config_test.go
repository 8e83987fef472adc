package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{"HOST", "PORT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil, "")
	require.NoError(t, err)

	assert.False(t, cfg.Debug)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, TransportHTTP, cfg.Server.Transport)
	assert.Equal(t, "masscan", cfg.Scanner.Binary)
	assert.Equal(t, 5*time.Minute, cfg.Scanner.Timeout)
	assert.False(t, cfg.Scanner.Sudo)
	assert.Equal(t, RunnerProcess, cfg.Scanner.Runner)
	assert.Equal(t, "masscan/masscan", cfg.Scanner.Image)
	assert.True(t, cfg.Scanner.DetectPermission)
	assert.Equal(t, "build/masscan-mcp.db", cfg.Storage.Path)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Address())
}

func TestLoad_UnchangedFlagsDoNotOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("MASSCAN_MCP_SERVER_TRANSPORT", "sse")

	cfg, err := Load(newFlags(t), "")
	require.NoError(t, err)

	assert.Equal(t, TransportSSE, cfg.Server.Transport)
}

func TestLoad_PlatformEnv(t *testing.T) {
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "10000")

	cfg, err := Load(nil, "")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:10000", cfg.Server.Address())
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)

	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
server:
  port: 7000
  transport: sse
scanner:
  timeout: 30s
  sudo: true
  detect_permission: false
storage:
  path: ""
`), 0o600))

	t.Setenv("PORT", "7100")
	t.Setenv("MASSCAN_MCP_SERVER_PORT", "7200")
	t.Setenv("MASSCAN_MCP_SCANNER_TIMEOUT", "45s")
	t.Setenv("MASSCAN_MCP_SCANNER_DETECT_PERMISSION", "true")

	cfg, err := Load(newFlags(t, "--port=7300", "--runner=docker"), configFile)
	require.NoError(t, err)

	assert.Equal(t, 7300, cfg.Server.Port)
	assert.Equal(t, TransportSSE, cfg.Server.Transport)
	assert.Equal(t, 45*time.Second, cfg.Scanner.Timeout)
	assert.True(t, cfg.Scanner.Sudo)
	assert.True(t, cfg.Scanner.DetectPermission)
	assert.Equal(t, RunnerDocker, cfg.Scanner.Runner)
	assert.Empty(t, cfg.Storage.Path)
}

func TestLoad_EnvOverridesPlatformEnv(t *testing.T) {
	t.Setenv("PORT", "7100")
	t.Setenv("MASSCAN_MCP_SERVER_PORT", "7200")

	cfg, err := Load(nil, "")
	require.NoError(t, err)

	assert.Equal(t, 7200, cfg.Server.Port)
}

func TestLoad_FlagTypes(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(newFlags(t, "--debug", "--timeout=90s", "--sudo", "--detect-permission=false", "--db=", "--transport=stdio"), "")
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 90*time.Second, cfg.Scanner.Timeout)
	assert.True(t, cfg.Scanner.Sudo)
	assert.False(t, cfg.Scanner.DetectPermission)
	assert.Empty(t, cfg.Storage.Path)
	assert.Equal(t, TransportStdio, cfg.Server.Transport)
}

func TestLoad_InvalidTransport(t *testing.T) {
	clearEnv(t)

	_, err := Load(newFlags(t, "--transport=websocket"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoad_InvalidRunner(t *testing.T) {
	clearEnv(t)
	t.Setenv("MASSCAN_MCP_SCANNER_RUNNER", "podman")

	_, err := Load(nil, "")
	require.Error(t, err)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestPrefixedEnvKey(t *testing.T) {
	assert.Equal(t, "server.transport", prefixedEnvKey("MASSCAN_MCP_SERVER_TRANSPORT"))
	assert.Equal(t, "scanner.detect_permission", prefixedEnvKey("MASSCAN_MCP_SCANNER_DETECT_PERMISSION"))
	assert.Equal(t, "debug", prefixedEnvKey("MASSCAN_MCP_DEBUG"))
}

func TestPlatformEnvKey(t *testing.T) {
	assert.Equal(t, "server.host", platformEnvKey("HOST"))
	assert.Equal(t, "server.port", platformEnvKey("PORT"))
	assert.Empty(t, platformEnvKey("PATH"))
}
