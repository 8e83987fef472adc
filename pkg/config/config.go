// Package config loads the server configuration once at startup.
//
// Precedence (highest to lowest):
//  1. Command-line flags (--transport=sse)
//  2. MASSCAN_MCP_* environment variables (MASSCAN_MCP_SERVER_TRANSPORT=sse)
//  3. Bare HOST and PORT environment variables set by hosting platforms
//  4. Config file (YAML)
//  5. Default values
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	EnvPrefix = "MASSCAN_MCP_"

	TransportHTTP  = "http"
	TransportSSE   = "sse"
	TransportStdio = "stdio"

	RunnerProcess = "process"
	RunnerDocker  = "docker"
)

type Config struct {
	Debug   bool          `koanf:"debug"`
	Server  ServerConfig  `koanf:"server"`
	Scanner ScannerConfig `koanf:"scanner"`
	Storage StorageConfig `koanf:"storage"`
}

type ServerConfig struct {
	Host      string `koanf:"host" validate:"required"`
	Port      int    `koanf:"port" validate:"min=1,max=65535"`
	Transport string `koanf:"transport" validate:"oneof=http sse stdio"`
}

// Address is host:port for the HTTP listener.
func (c ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type ScannerConfig struct {
	Binary           string        `koanf:"binary" validate:"required"`
	Timeout          time.Duration `koanf:"timeout" validate:"gt=0"`
	Sudo             bool          `koanf:"sudo"`
	Runner           string        `koanf:"runner" validate:"oneof=process docker"`
	Image            string        `koanf:"image" validate:"required"`
	DetectPermission bool          `koanf:"detect_permission"`
}

type StorageConfig struct {
	// Path of the SQLite audit database. Empty disables the audit log.
	Path string `koanf:"path"`
}

// Defaults are the lowest-priority values.
func Defaults() map[string]any {
	return map[string]any{
		"debug":                     false,
		"server.host":               "0.0.0.0",
		"server.port":               8000,
		"server.transport":          TransportHTTP,
		"scanner.binary":            "masscan",
		"scanner.timeout":           "5m",
		"scanner.sudo":              false,
		"scanner.runner":            RunnerProcess,
		"scanner.image":             "masscan/masscan",
		"scanner.detect_permission": true,
		"storage.path":              "build/masscan-mcp.db",
	}
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"debug":             "debug",
	"host":              "server.host",
	"port":              "server.port",
	"transport":         "server.transport",
	"binary":            "scanner.binary",
	"timeout":           "scanner.timeout",
	"sudo":              "scanner.sudo",
	"runner":            "scanner.runner",
	"image":             "scanner.image",
	"detect-permission": "scanner.detect_permission",
	"db":                "storage.path",
}

// RegisterFlags adds the configuration flags to fs. Flag defaults are only
// for help output; unchanged flags never override other sources.
func RegisterFlags(fs *pflag.FlagSet) {
	defaults := Defaults()
	fs.String("config", "", "path to YAML config file")
	fs.Bool("debug", false, "debug mode")
	fs.String("host", defaults["server.host"].(string), "bind host (env HOST)")
	fs.Int("port", defaults["server.port"].(int), "bind port (env PORT)")
	fs.String("transport", TransportHTTP, "MCP transport: http, sse or stdio")
	fs.String("binary", "masscan", "masscan binary name or path")
	fs.Duration("timeout", 5*time.Minute, "scan timeout")
	fs.Bool("sudo", false, "run masscan through sudo -n")
	fs.String("runner", RunnerProcess, "execution runner: process or docker")
	fs.String("image", "masscan/masscan", "masscan container image for the docker runner")
	fs.Bool("detect-permission", true, "report raw socket permission failures as guidance")
	fs.String("db", defaults["storage.path"].(string), "SQLite audit database path (empty disables)")
}

// Load merges all sources and validates the result. flags may be nil.
func Load(flags *pflag.FlagSet, configFile string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("error loading defaults: %w", err)
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("error loading config file %s: %w", configFile, err)
		}
	}

	if err := k.Load(env.Provider("", ".", platformEnvKey), nil); err != nil {
		return Config{}, fmt.Errorf("error loading platform environment: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", prefixedEnvKey), nil); err != nil {
		return Config{}, fmt.Errorf("error loading environment: %w", err)
	}

	if flags != nil {
		overrides := map[string]any{}
		flags.Visit(func(f *pflag.Flag) {
			if key, ok := flagKeys[f.Name]; ok {
				overrides[key] = f.Value.String()
			}
		})
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return Config{}, fmt.Errorf("error loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// platformEnvKey keeps only HOST and PORT.
func platformEnvKey(key string) string {
	switch key {
	case "HOST":
		return "server.host"
	case "PORT":
		return "server.port"
	default:
		return ""
	}
}

// prefixedEnvKey maps MASSCAN_MCP_SCANNER_DETECT_PERMISSION to
// scanner.detect_permission: the first underscore separates the section.
func prefixedEnvKey(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}
