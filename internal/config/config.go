// ABOUTME: Configuration loading and management for the playground server
// ABOUTME: Supports YAML files, env overrides, and XDG path expansion

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/harper/jsonrpc-playground/internal/xdg"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
}

type ServerConfig struct {
	Host               string `mapstructure:"host" yaml:"host"`
	Port               int    `mapstructure:"port" yaml:"port"`
	ManagementHost     string `mapstructure:"management_host" yaml:"management_host"`
	ManagementPort     int    `mapstructure:"management_port" yaml:"management_port"`
	ReadTimeoutSeconds int    `mapstructure:"read_timeout_seconds" yaml:"read_timeout_seconds"`
}

type LogConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type DatabaseConfig struct {
	// Path to the SQLite call-history database. Empty disables recording.
	Path string `mapstructure:"path" yaml:"path"`
}

// Addr returns the listen address for the RPC endpoint.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// ManagementAddr returns the listen address for the management API.
func (s ServerConfig) ManagementAddr() string {
	return net.JoinHostPort(s.ManagementHost, strconv.Itoa(s.ManagementPort))
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               "localhost",
			Port:               8080,
			ManagementHost:     "127.0.0.1",
			ManagementPort:     8082,
			ReadTimeoutSeconds: 30,
		},
		Log: LogConfig{
			Path: "server_log.txt",
		},
	}
}

// Load reads the YAML config at path, applying defaults and PLAYGROUND_*
// environment overrides (e.g. PLAYGROUND_SERVER_PORT).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	def := Default()
	v.SetDefault("server.host", def.Server.Host)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.management_host", def.Server.ManagementHost)
	v.SetDefault("server.management_port", def.Server.ManagementPort)
	v.SetDefault("server.read_timeout_seconds", def.Server.ReadTimeoutSeconds)
	v.SetDefault("log.path", def.Log.Path)
	v.SetDefault("database.path", "")

	v.SetEnvPrefix("PLAYGROUND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Log.Path = xdg.ExpandPath(cfg.Log.Path)
	cfg.Database.Path = xdg.ExpandPath(cfg.Database.Path)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", c.Server.Port)
	}
	if c.Server.ManagementPort < 1 || c.Server.ManagementPort > 65535 {
		return fmt.Errorf("invalid server.management_port: %d", c.Server.ManagementPort)
	}
	if c.Server.Port == c.Server.ManagementPort {
		return fmt.Errorf("server.port and server.management_port must differ, both are %d", c.Server.Port)
	}
	if c.Log.Path == "" {
		return fmt.Errorf("log.path must not be empty")
	}
	return nil
}

// WriteDefault writes a starter config file to path. Fails if the file
// already exists.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	header := "# jsonrpc-playground configuration\n"
	if _, err := f.WriteString(header + string(data)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
