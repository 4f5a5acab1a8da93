package rmw

import (
	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-rmw/allocator"
	"github.com/goliatone/go-rmw/core"
	"github.com/goliatone/go-rmw/endpoint"
	"github.com/goliatone/go-rmw/security"
)

type serviceBuilder struct {
	runtimeConfig     Config
	logger            core.Logger
	loggerProvider    core.LoggerProvider
	metricsRecorder   MetricsRecorder
	allocator         Allocator
	fileSystem        FileSystem
	rules             []security.Rule
	catalogStore      CatalogStore
	repositoryFactory any
	configProvider    ConfigProvider
	optionsResolver   OptionsResolver
}

type Option func(*serviceBuilder)

func WithLogger(logger core.Logger) Option {
	return func(b *serviceBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(b *serviceBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(b *serviceBuilder) {
		b.metricsRecorder = recorder
	}
}

// WithAllocator sets the allocator used for every owned record the service
// hands out. Callers must finalize those records with the same allocator.
func WithAllocator(a Allocator) Option {
	return func(b *serviceBuilder) {
		b.allocator = a
	}
}

func WithFileSystem(fsys FileSystem) Option {
	return func(b *serviceBuilder) {
		b.fileSystem = fsys
	}
}

func WithSecurityRules(rules []security.Rule) Option {
	return func(b *serviceBuilder) {
		b.rules = rules
	}
}

func WithCatalogStore(store CatalogStore) Option {
	return func(b *serviceBuilder) {
		b.catalogStore = store
	}
}

// WithRepositoryFactory accepts anything exposing CatalogStore(), such as
// the sqlstore repository factory.
func WithRepositoryFactory(factory any) Option {
	return func(b *serviceBuilder) {
		b.repositoryFactory = factory
	}
}

func WithConfigProvider(provider ConfigProvider) Option {
	return func(b *serviceBuilder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver OptionsResolver) Option {
	return func(b *serviceBuilder) {
		b.optionsResolver = resolver
	}
}

func defaultServiceBuilder(runtime Config) serviceBuilder {
	loggerProvider, logger := glog.Resolve("rmw", nil, nil)
	return serviceBuilder{
		runtimeConfig:   runtime,
		loggerProvider:  loggerProvider,
		logger:          logger,
		metricsRecorder: core.NopMetricsRecorder{},
		allocator:       allocator.Default(),
		configProvider:  core.NewCfgxConfigProvider(nil),
		optionsResolver: core.GoOptionsResolver{},
	}
}

func resolveCatalogStore(b serviceBuilder) CatalogStore {
	if b.catalogStore != nil {
		return b.catalogStore
	}
	if provider, ok := b.repositoryFactory.(interface{ CatalogStore() endpoint.CatalogStore }); ok {
		if store := provider.CatalogStore(); store != nil {
			return store
		}
	}
	return NewMemoryCatalogStore()
}
