package core

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	opts "github.com/goliatone/go-options"
)

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

// LoadConfig runs the defaults -> provider -> runtime pipeline used by every
// entry point of the module. Validation runs once, on the merged result.
func LoadConfig(ctx context.Context, runtime Config, provider ConfigProvider, resolver OptionsResolver) (Config, error) {
	if provider == nil {
		provider = NewCfgxConfigProvider(nil)
	}
	if resolver == nil {
		resolver = GoOptionsResolver{}
	}
	defaults := DefaultConfig()
	loaded, err := provider.Load(ctx, defaults)
	if err != nil {
		return Config{}, err
	}
	return resolver.Resolve(defaults, loaded, runtime)
}

type StaticRawConfigLoader struct {
	Values map[string]any
}

func (l StaticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

// EnvRawConfigLoader maps the ROS security environment contract and the
// RMW_* overrides onto the raw config tree.
type EnvRawConfigLoader struct {
	Lookup func(key string) (string, bool)
}

func (l EnvRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	lookup := l.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	security := map[string]any{}
	database := map[string]any{}

	boolVars := []struct {
		env string
		key string
	}{
		{env: "ROS_SECURITY_ENABLE", key: "enabled"},
		{env: "RMW_SECURITY_PKCS11", key: "supports_pkcs11"},
	}
	for _, entry := range boolVars {
		raw, ok := lookup(entry.env)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		value, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("core: %s must be a boolean: %w", entry.env, err)
		}
		security[entry.key] = value
	}

	stringVars := []struct {
		env    string
		key    string
		target map[string]any
	}{
		{env: "ROS_SECURITY_STRATEGY", key: "strategy", target: security},
		{env: "ROS_SECURITY_KEYSTORE", key: "keystore", target: security},
		{env: "ROS_SECURITY_ENCLAVE_OVERRIDE", key: "enclave", target: security},
		{env: "RMW_SECURITY_ROOT_DIRECTORY", key: "root_directory", target: security},
		{env: "RMW_SECURITY_VALUE_PREFIX", key: "value_prefix", target: security},
		{env: "RMW_DATABASE_DRIVER", key: "driver", target: database},
		{env: "RMW_DATABASE_DSN", key: "dsn", target: database},
	}
	for _, entry := range stringVars {
		raw, ok := lookup(entry.env)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		value := strings.TrimSpace(raw)
		if entry.key == "strategy" {
			value = NormalizeStrategy(value)
		}
		entry.target[entry.key] = value
	}

	out := map[string]any{}
	if len(security) > 0 {
		out["security"] = security
	}
	if len(database) > 0 {
		out["database"] = database
	}
	return out, nil
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = StaticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	// Cross-field rules only hold on the merged config, so the loaded layer
	// is not validated here.
	cfg, err := cfgx.Build[Config](raw, cfgx.WithDefaults(defaults))
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	defaultLayer := configToLayerMap(defaults, true)
	loadedLayer := configToLayerMap(loaded, false)
	runtimeLayer := configToLayerMap(runtime, false)

	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			defaultLayer,
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			loadedLayer,
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			runtimeLayer,
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[Config](merged.Value, cfgx.WithDefaults(defaults))
	if err != nil {
		return Config{}, err
	}
	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

// configToLayerMap only emits non-zero values for upper layers so they never
// mask a lower layer with a Go zero value. Booleans can therefore only be
// switched on by an upper layer.
func configToLayerMap(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.ServiceName) != "" {
		layer["service_name"] = cfg.ServiceName
	}

	security := map[string]any{}
	putString := func(target map[string]any, key string, value string) {
		if includeZero || strings.TrimSpace(value) != "" {
			target[key] = value
		}
	}
	putBool := func(target map[string]any, key string, value bool) {
		if includeZero || value {
			target[key] = value
		}
	}
	putBool(security, "enabled", cfg.Security.Enabled)
	putString(security, "strategy", cfg.Security.Strategy)
	putString(security, "keystore", cfg.Security.Keystore)
	putString(security, "enclave", cfg.Security.Enclave)
	putString(security, "root_directory", cfg.Security.RootDirectory)
	putString(security, "value_prefix", cfg.Security.ValuePrefix)
	putBool(security, "supports_pkcs11", cfg.Security.SupportsPKCS11)
	if len(security) > 0 {
		layer["security"] = security
	}

	database := map[string]any{}
	putString(database, "driver", cfg.Database.Driver)
	putString(database, "dsn", cfg.Database.DSN)
	putBool(database, "debug", cfg.Database.Debug)
	if includeZero || cfg.Database.PingTimeout > 0 {
		database["ping_timeout"] = cfg.Database.PingTimeout
	}
	if len(database) > 0 {
		layer["database"] = database
	}
	return layer
}
