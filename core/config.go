package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	SecurityStrategyEnforce    = "enforce"
	SecurityStrategyPermissive = "permissive"

	DefaultValuePrefix = "file://"
)

type SecurityConfig struct {
	Enabled        bool   `koanf:"enabled" mapstructure:"enabled"`
	Strategy       string `koanf:"strategy" mapstructure:"strategy"`
	Keystore       string `koanf:"keystore" mapstructure:"keystore"`
	Enclave        string `koanf:"enclave" mapstructure:"enclave"`
	RootDirectory  string `koanf:"root_directory" mapstructure:"root_directory"`
	ValuePrefix    string `koanf:"value_prefix" mapstructure:"value_prefix"`
	SupportsPKCS11 bool   `koanf:"supports_pkcs11" mapstructure:"supports_pkcs11"`
}

type DatabaseConfig struct {
	Driver      string        `koanf:"driver" mapstructure:"driver"`
	DSN         string        `koanf:"dsn" mapstructure:"dsn"`
	Debug       bool          `koanf:"debug" mapstructure:"debug"`
	PingTimeout time.Duration `koanf:"ping_timeout" mapstructure:"ping_timeout"`
}

type Config struct {
	ServiceName string         `koanf:"service_name" mapstructure:"service_name"`
	Security    SecurityConfig `koanf:"security" mapstructure:"security"`
	Database    DatabaseConfig `koanf:"database" mapstructure:"database"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "rmw",
		Security: SecurityConfig{
			Strategy:    SecurityStrategyPermissive,
			ValuePrefix: DefaultValuePrefix,
		},
		Database: DatabaseConfig{
			Driver:      "sqlite3",
			PingTimeout: 5 * time.Second,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if err := c.Security.Validate(); err != nil {
		return err
	}
	return nil
}

func (c SecurityConfig) Validate() error {
	switch NormalizeStrategy(c.Strategy) {
	case SecurityStrategyEnforce, SecurityStrategyPermissive:
	default:
		return fmt.Errorf("core: security strategy %q is invalid", c.Strategy)
	}
	if !c.Enabled {
		return nil
	}
	if strings.TrimSpace(c.RootDirectory) == "" && strings.TrimSpace(c.Keystore) == "" {
		return fmt.Errorf("core: security root_directory or keystore is required when security is enabled")
	}
	if strings.TrimSpace(c.RootDirectory) == "" && strings.TrimSpace(c.Enclave) == "" {
		return fmt.Errorf("core: security enclave is required when resolving from a keystore")
	}
	return nil
}

// Enforced reports whether a failed resolution must stop the caller.
func (c SecurityConfig) Enforced() bool {
	return NormalizeStrategy(c.Strategy) == SecurityStrategyEnforce
}

func NormalizeStrategy(strategy string) string {
	strategy = strings.ToLower(strings.TrimSpace(strategy))
	if strategy == "" {
		return SecurityStrategyPermissive
	}
	return strategy
}

func (c DatabaseConfig) GetDebug() bool {
	return c.Debug
}

func (c DatabaseConfig) GetDriver() string {
	return strings.TrimSpace(c.Driver)
}

func (c DatabaseConfig) GetServer() string {
	return strings.TrimSpace(c.DSN)
}

func (c DatabaseConfig) GetPingTimeout() time.Duration {
	if c.PingTimeout <= 0 {
		return 5 * time.Second
	}
	return c.PingTimeout
}

func (c DatabaseConfig) GetOtelIdentifier() string {
	return "go-rmw"
}
