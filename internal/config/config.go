// Package config loads the server configuration.
//
// Precedence: built-in defaults, then an optional config file
// (zentao-mcp.json in the working directory or ~/.zentao-mcp/), then
// ZENTAO_* environment variables. CLI flags override on top in cmd.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the complete server configuration.
type Config struct {
	Database DatabaseConfig `json:"database" mapstructure:"database"`
	Server   ServerConfig   `json:"server" mapstructure:"server"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// DatabaseConfig names the store to read. Driver is any registered
// database/sql driver; the default SQLite path expects an imported
// snapshot of the zt_* tables.
type DatabaseConfig struct {
	Driver string `json:"driver" mapstructure:"driver"`
	DSN    string `json:"dsn" mapstructure:"dsn"`
}

// ServerConfig selects the MCP transport. Port only applies to sse.
type ServerConfig struct {
	Transport string `json:"transport" mapstructure:"transport"`
	Port      int    `json:"port" mapstructure:"port"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level string `json:"level" mapstructure:"level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "zentao.db",
		},
		Server: ServerConfig{
			Transport: "stdio",
			Port:      8000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration. An explicit path loads exactly that
// file; otherwise the search path is the working directory and
// ~/.zentao-mcp/, and a missing file just means defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("database.driver", def.Database.Driver)
	v.SetDefault("database.dsn", def.Database.DSN)
	v.SetDefault("server.transport", def.Server.Transport)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("logging.level", def.Logging.Level)

	v.SetEnvPrefix("ZENTAO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("zentao-mcp")
		v.SetConfigType("json")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".zentao-mcp"))
		}
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the server cannot start with.
func (c *Config) Validate() error {
	if c.Database.Driver == "" {
		return &Error{Field: "database.driver", Message: "must not be empty"}
	}
	if c.Database.DSN == "" {
		return &Error{Field: "database.dsn", Message: "must not be empty"}
	}
	switch c.Server.Transport {
	case "stdio", "sse":
	default:
		return &Error{Field: "server.transport", Message: "must be stdio or sse"}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &Error{Field: "server.port", Message: "must be a valid TCP port"}
	}
	return nil
}

// Error reports an invalid configuration field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
