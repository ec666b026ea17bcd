package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound = errors.New("could not find config file in any config path")
	ErrMissingToken       = errors.New("discord token is not set")
	ErrMissingRoleID      = errors.New("role id is not configured")
)

// EnvPrefix namespaces environment variable overrides, e.g.
// RECUENTO_DISCORD__TOKEN or RECUENTO_REDIS__PASSWORD.
const EnvPrefix = "RECUENTO_"

// Config represents the entire application configuration.
type Config struct {
	Discord DiscordConfig `koanf:"discord"`
	Roles   RolesConfig   `koanf:"roles"`
	Redis   RedisConfig   `koanf:"redis"`
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
}

// DiscordConfig contains the bot credentials.
type DiscordConfig struct {
	// Bot token used to open the gateway connection.
	Token string `koanf:"token"`
}

// RolesConfig maps the three tracked role tags to Discord role IDs.
// The mapping is total and immutable for the process lifetime.
type RolesConfig struct {
	Staff uint64 `koanf:"staff"`
	Mod   uint64 `koanf:"mod"`
	Admin uint64 `koanf:"admin"`
}

// RedisConfig contains connection details for the stats mirror.
type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// ServerConfig contains settings for the liveness HTTP endpoint.
type ServerConfig struct {
	Port int `koanf:"port"`
}

// LoggingConfig controls the zap loggers.
type LoggingConfig struct {
	Level         string `koanf:"level"`
	MaxLogsToKeep int    `koanf:"max_logs_to_keep"`
}

// LoadConfig loads the TOML config, then applies RECUENTO_-prefixed
// environment overrides so secrets never need to live in the file.
// A .env file in the working directory is loaded first if present.
func LoadConfig() (*Config, error) {
	// Ignore a missing .env; deployments may inject real env vars instead
	_ = godotenv.Load()

	k := koanf.New(".")

	// List search paths
	configPaths := []string{
		".recuento",
		"/etc/recuento",
		"/app/config",
		"config",
		".",
	}

	configLoaded := false

	for _, path := range configPaths {
		configPath := fmt.Sprintf("%s/config.toml", path)
		if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
			configLoaded = true
			break
		}
	}

	if !configLoaded {
		return nil, fmt.Errorf("%w: config.toml", ErrConfigFileNotFound)
	}

	// Environment overrides: RECUENTO_DISCORD__TOKEN -> discord.token
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("error loading environment overrides: %w", err)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// The original deployment passed the token via TOKEN; keep accepting it
	if config.Discord.Token == "" {
		config.Discord.Token = os.Getenv("TOKEN")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks required fields and fills defaults.
func (c *Config) Validate() error {
	if c.Discord.Token == "" {
		return ErrMissingToken
	}

	for tag, id := range map[string]uint64{
		"staff": c.Roles.Staff,
		"mod":   c.Roles.Mod,
		"admin": c.Roles.Admin,
	} {
		if id == 0 {
			return fmt.Errorf("%w: %s", ErrMissingRoleID, tag)
		}
	}

	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	if c.Logging.MaxLogsToKeep == 0 {
		c.Logging.MaxLogsToKeep = 10
	}

	return nil
}
