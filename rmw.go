package rmw

import (
	"github.com/goliatone/go-rmw/core"
	"github.com/goliatone/go-rmw/endpoint"
	"github.com/goliatone/go-rmw/security"
)

type Config = core.Config
type SecurityConfig = core.SecurityConfig
type DatabaseConfig = core.DatabaseConfig

type SecurityFilesRequest = core.SecurityFilesRequest
type SecurityBundle = core.SecurityBundle

type Allocator = core.Allocator
type MetricsRecorder = core.MetricsRecorder
type ConfigProvider = core.ConfigProvider
type OptionsResolver = core.OptionsResolver

type CatalogStore = endpoint.CatalogStore
type FileSystem = security.FileSystem

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return NewService(cfg, opts...)
}
