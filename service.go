package rmw

import (
	"context"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-rmw/allocator"
	"github.com/goliatone/go-rmw/core"
	"github.com/goliatone/go-rmw/endpoint"
	"github.com/goliatone/go-rmw/security"
)

// Service ties the resolved configuration to the credential resolver and
// the endpoint catalog.
type Service struct {
	config         Config
	logger         core.Logger
	loggerProvider core.LoggerProvider
	observer       *core.Observer
	allocator      Allocator
	resolver       *security.Resolver
	catalog        CatalogStore
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("rmw", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("rmw"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if !allocator.IsValid(builder.allocator) {
		return nil, core.InvalidArgument("rmw: allocator is invalid")
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = core.NopMetricsRecorder{}
	}

	finalConfig, err := core.LoadConfig(context.Background(), builder.runtimeConfig, builder.configProvider, builder.optionsResolver)
	if err != nil {
		return nil, core.InvalidConfig(err)
	}

	return &Service{
		config:         finalConfig,
		logger:         logger,
		loggerProvider: provider,
		observer:       core.NewObserver(logger, builder.metricsRecorder),
		allocator:      builder.allocator,
		resolver: security.NewResolver(security.Config{
			FileSystem: builder.fileSystem,
			Logger:     logger,
			Rules:      builder.rules,
		}),
		catalog: resolveCatalogStore(builder),
	}, nil
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Allocator() Allocator {
	if s == nil {
		return nil
	}
	return s.allocator
}

func (s *Service) Logger() core.Logger {
	if s == nil {
		return glog.Nop()
	}
	return s.logger
}

// SecurityFiles resolves the credential bundle of the configured enclave.
// With security disabled and no explicit root directory it returns a
// disabled bundle. Under the permissive strategy a resolution failure is
// reported in SecurityBundle.Err instead of the returned error.
func (s *Service) SecurityFiles(ctx context.Context, req SecurityFilesRequest) (bundle SecurityBundle, err error) {
	if s == nil || s.resolver == nil {
		return SecurityBundle{}, core.InvalidState("rmw: service is not configured")
	}
	startedAt := time.Now().UTC()
	cfg := s.config.Security
	fields := map[string]any{
		"strategy": core.NormalizeStrategy(cfg.Strategy),
		"pkcs11":   cfg.SupportsPKCS11,
	}
	defer func() {
		s.observer.ObserveOperation(ctx, startedAt, "security_files.resolve", err, fields)
	}()

	explicitRoot := strings.TrimSpace(req.RootDirectory)
	if !cfg.Enabled && explicitRoot == "" {
		fields["enabled"] = false
		return SecurityBundle{}, nil
	}

	bundle = SecurityBundle{Enabled: true, Enforced: cfg.Enforced()}
	root, err := s.securityRoot(cfg, req)
	if err != nil {
		return bundle, err
	}
	bundle.RootDirectory = root
	fields["root_directory"] = root

	files, resolveErr := s.resolver.Resolve(ctx, security.Request{
		SupportsPKCS11: cfg.SupportsPKCS11,
		Prefix:         cfg.ValuePrefix,
		RootDirectory:  root,
	})
	if resolveErr != nil {
		if bundle.Enforced {
			err = resolveErr
			return bundle, err
		}
		fields["degraded"] = true
		s.logger.Warn("security bundle unresolved, continuing without it", "root_directory", root, "error", resolveErr)
		bundle.Err = resolveErr
		return bundle, nil
	}

	digest, err := files.Digest()
	if err != nil {
		err = core.Unspecified("rmw: credential digest failed", err)
		return bundle, err
	}
	bundle.Files = map[string]string(files.Clone())
	bundle.Digest = digest
	fields["attributes"] = len(files)
	return bundle, nil
}

func (s *Service) securityRoot(cfg SecurityConfig, req SecurityFilesRequest) (string, error) {
	if root := strings.TrimSpace(req.RootDirectory); root != "" {
		return root, nil
	}
	enclave := strings.TrimSpace(req.Enclave)
	if enclave == "" {
		if root := strings.TrimSpace(cfg.RootDirectory); root != "" {
			return root, nil
		}
		enclave = cfg.Enclave
	}
	return security.SecureRoot(cfg.Keystore, enclave)
}

// RecordServiceEndpoints replaces the catalog entry of serviceName with
// descriptors and returns how many were recorded.
func (s *Service) RecordServiceEndpoints(ctx context.Context, serviceName string, descriptors []endpoint.Descriptor) (count int, err error) {
	if s == nil || s.catalog == nil {
		return 0, core.InvalidState("rmw: service catalog is not configured")
	}
	startedAt := time.Now().UTC()
	serviceName = strings.TrimSpace(serviceName)
	fields := map[string]any{
		"service_name": serviceName,
		"endpoints":    len(descriptors),
	}
	defer func() {
		s.observer.ObserveOperation(ctx, startedAt, "service_endpoints.record", err, fields)
	}()

	if serviceName == "" {
		err = core.InvalidArgument("rmw: service name is required")
		return 0, err
	}
	clients, servers := 0, 0
	for _, d := range descriptors {
		if err = d.Validate(); err != nil {
			return 0, err
		}
		if d.EndpointKind == endpoint.KindClient {
			clients++
		} else {
			servers++
		}
	}
	fields["clients"] = clients
	fields["servers"] = servers
	if err = s.catalog.Replace(ctx, serviceName, descriptors); err != nil {
		err = core.MapError(err)
		return 0, err
	}
	return len(descriptors), nil
}

// RecordServiceEndpointArray records the records held by an owned array.
// The array stays owned by the caller.
func (s *Service) RecordServiceEndpointArray(ctx context.Context, serviceName string, arr *endpoint.Array) (int, error) {
	if arr == nil {
		return 0, core.InvalidArgument("rmw: endpoint array is nil")
	}
	return s.RecordServiceEndpoints(ctx, serviceName, arr.Descriptors())
}

func (s *Service) ServiceEndpointDescriptors(ctx context.Context, serviceName string) (descriptors []endpoint.Descriptor, err error) {
	if s == nil || s.catalog == nil {
		return nil, core.InvalidState("rmw: service catalog is not configured")
	}
	startedAt := time.Now().UTC()
	serviceName = strings.TrimSpace(serviceName)
	fields := map[string]any{"service_name": serviceName}
	defer func() {
		fields["endpoints"] = len(descriptors)
		s.observer.ObserveOperation(ctx, startedAt, "service_endpoints.list", err, fields)
	}()

	if serviceName == "" {
		err = core.InvalidArgument("rmw: service name is required")
		return nil, err
	}
	descriptors, err = s.catalog.List(ctx, serviceName)
	if err != nil {
		err = core.MapError(err)
		return nil, err
	}
	return descriptors, nil
}

// ServiceEndpoints returns the recorded endpoints as an owned array built
// with the service allocator. The caller finalizes it with Allocator().
func (s *Service) ServiceEndpoints(ctx context.Context, serviceName string) (endpoint.Array, error) {
	descriptors, err := s.ServiceEndpointDescriptors(ctx, serviceName)
	if err != nil {
		return endpoint.ZeroArray(), err
	}
	return endpoint.NewArrayFromDescriptors(descriptors, s.allocator)
}

func (s *Service) ExportSnapshot(ctx context.Context, serviceName string) ([]byte, error) {
	descriptors, err := s.ServiceEndpointDescriptors(ctx, serviceName)
	if err != nil {
		return nil, err
	}
	return endpoint.EncodeSnapshot(endpoint.Snapshot{
		ServiceName: strings.TrimSpace(serviceName),
		Endpoints:   descriptors,
	})
}

// ImportSnapshot validates a snapshot document and records its endpoints.
func (s *Service) ImportSnapshot(ctx context.Context, data []byte) (string, int, error) {
	snapshot, err := endpoint.DecodeSnapshot(data)
	if err != nil {
		return "", 0, err
	}
	count, err := s.RecordServiceEndpoints(ctx, snapshot.ServiceName, snapshot.Endpoints)
	return snapshot.ServiceName, count, err
}
