package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Protocol  ProtocolConfig  `mapstructure:"protocol"`
	Integrity IntegrityConfig `mapstructure:"integrity"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ProtocolConfig holds the fixed economic constants of this deployment.
// They are loaded once at startup and read-only afterwards.
type ProtocolConfig struct {
	Name            string  `mapstructure:"name"`
	Version         string  `mapstructure:"version"`
	GenesisDate     string  `mapstructure:"genesis_date"` // YYYY-MM-DD
	KwhPerUnit      float64 `mapstructure:"kwh_per_unit"`
	SubUnitsPerUnit int64   `mapstructure:"sub_units_per_unit"`
	ModuleCount     int     `mapstructure:"module_count"`
}

type IntegrityConfig struct {
	NodeName string        `mapstructure:"node_name"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type LedgerConfig struct {
	// SeedBalance is credited to every implicitly created wallet.
	SeedBalance float64 `mapstructure:"seed_balance"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: SOL_ (Solar Ledger).
// Nested keys use underscore: SOL_SERVER_PORT, SOL_INTEGRITY_NODE_NAME, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("protocol.name", "SOLAR")
	v.SetDefault("protocol.version", "1.0.0")
	v.SetDefault("protocol.genesis_date", "2024-06-21")
	v.SetDefault("protocol.kwh_per_unit", 100)
	v.SetDefault("protocol.sub_units_per_unit", 100000000)
	v.SetDefault("protocol.module_count", 12)
	v.SetDefault("integrity.node_name", "solar-node")
	v.SetDefault("integrity.timeout", "5s")
	v.SetDefault("ledger.seed_balance", 1.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: SOL_SERVER_PORT -> server.port
	v.SetEnvPrefix("SOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
