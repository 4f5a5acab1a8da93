package gocommand

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
	rmw "github.com/goliatone/go-rmw"
	rmwcommand "github.com/goliatone/go-rmw/command"
	"github.com/goliatone/go-rmw/core"
	"github.com/goliatone/go-rmw/endpoint"
	rmwquery "github.com/goliatone/go-rmw/query"
)

const messageTypePrefix = "rmw."

// ValidateMessageContract checks the optional Validate() of msg and that its
// Type() sits in the rmw.* namespace.
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	return validateMessageType(msg)
}

func validateMessageType(msg any) error {
	m, ok := msg.(command.Message)
	if !ok {
		return fmt.Errorf("gocommand: message %T must implement Type() string", msg)
	}
	kind := strings.TrimSpace(m.Type())
	if kind == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	if !strings.HasPrefix(kind, messageTypePrefix) {
		return fmt.Errorf("gocommand: message type %q is outside the %s namespace", kind, messageTypePrefix)
	}
	return nil
}

// RegistryAdapter owns a command registry and every dispatcher subscription
// made through it, so a whole facade can be torn down with Close.
type RegistryAdapter struct {
	registry *command.Registry

	mu            sync.Mutex
	subscriptions []commanddispatcher.Subscription
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) ready() error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return nil
}

func (a *RegistryAdapter) AddResolver(key string, resolver command.Resolver) error {
	if err := a.ready(); err != nil {
		return err
	}
	return a.registry.AddResolver(strings.TrimSpace(key), resolver)
}

// AddQueueResolver mirrors every registered command into queueRegistry so
// endpoint recording can also run as a background job.
func (a *RegistryAdapter) AddQueueResolver(key string, queueRegistry *jobqueuecommand.Registry) error {
	if queueRegistry == nil {
		return fmt.Errorf("gocommand: queue registry is required")
	}
	return a.AddResolver(key, jobqueuecommand.QueueResolver(queueRegistry))
}

func (a *RegistryAdapter) HasResolver(key string) bool {
	if a.ready() != nil {
		return false
	}
	return a.registry.HasResolver(strings.TrimSpace(key))
}

func (a *RegistryAdapter) Initialize() error {
	if err := a.ready(); err != nil {
		return err
	}
	return a.registry.Initialize()
}

// Subscriptions reports how many dispatcher subscriptions are live.
func (a *RegistryAdapter) Subscriptions() int {
	if a == nil {
		return 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.subscriptions)
}

// Close cancels every subscription made through the adapter.
func (a *RegistryAdapter) Close() {
	if a == nil {
		return
	}
	a.unsubscribeFrom(0)
}

func (a *RegistryAdapter) track(sub commanddispatcher.Subscription) {
	if sub == nil {
		return
	}
	a.mu.Lock()
	a.subscriptions = append(a.subscriptions, sub)
	a.mu.Unlock()
}

func (a *RegistryAdapter) unsubscribeFrom(index int) {
	a.mu.Lock()
	if index < 0 || index > len(a.subscriptions) {
		index = len(a.subscriptions)
	}
	dropped := a.subscriptions[index:]
	a.subscriptions = a.subscriptions[:index]
	a.mu.Unlock()
	for _, sub := range dropped {
		sub.Unsubscribe()
	}
}

// Register subscribes cmd to the dispatcher and adds it to the registry.
// The subscription is cancelled when registration fails.
func Register[T any](a *RegistryAdapter, cmd command.Commander[T], runnerOpts ...runner.Option) error {
	if err := a.ready(); err != nil {
		return err
	}
	if cmd == nil {
		return fmt.Errorf("gocommand: command is required")
	}
	var msg T
	if err := validateMessageType(msg); err != nil {
		return err
	}
	sub := commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
	if err := a.registry.RegisterCommand(cmd); err != nil {
		if sub != nil {
			sub.Unsubscribe()
		}
		return err
	}
	a.track(sub)
	return nil
}

// RegisterQuery is Register for queriers.
func RegisterQuery[T any, R any](a *RegistryAdapter, qry command.Querier[T, R], runnerOpts ...runner.Option) error {
	if err := a.ready(); err != nil {
		return err
	}
	if qry == nil {
		return fmt.Errorf("gocommand: query is required")
	}
	var msg T
	if err := validateMessageType(msg); err != nil {
		return err
	}
	sub := commanddispatcher.SubscribeQuery(qry, runnerOpts...)
	if err := a.registry.RegisterCommand(qry); err != nil {
		if sub != nil {
			sub.Unsubscribe()
		}
		return err
	}
	a.track(sub)
	return nil
}

// RegisterFacade registers the facade's command and queries. On failure the
// subscriptions made by this call are cancelled.
func (a *RegistryAdapter) RegisterFacade(facade *rmw.Facade, runnerOpts ...runner.Option) error {
	if err := a.ready(); err != nil {
		return err
	}
	if facade == nil {
		return fmt.Errorf("gocommand: facade is required")
	}
	commands := facade.Commands()
	queries := facade.Queries()

	a.mu.Lock()
	start := len(a.subscriptions)
	a.mu.Unlock()

	steps := []func() error{
		func() error {
			return Register[rmwcommand.RecordServiceEndpointsMessage](a, commands.RecordServiceEndpoints, runnerOpts...)
		},
		func() error {
			return RegisterQuery[rmwquery.ResolveSecurityFilesMessage, core.SecurityBundle](a, queries.ResolveSecurityFiles, runnerOpts...)
		},
		func() error {
			return RegisterQuery[rmwquery.ListServiceEndpointsMessage, []endpoint.Descriptor](a, queries.ListServiceEndpoints, runnerOpts...)
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			a.unsubscribeFrom(start)
			return err
		}
	}
	return nil
}

// RecordServiceEndpoints dispatches msg and returns the recorded count.
func RecordServiceEndpoints(ctx context.Context, msg rmwcommand.RecordServiceEndpointsMessage) (int, error) {
	collector := command.NewResult[int]()
	if err := commanddispatcher.Dispatch(command.ContextWithResult(ctx, collector), msg); err != nil {
		return 0, err
	}
	count, _ := collector.Load()
	return count, nil
}

func ResolveSecurityFiles(ctx context.Context, msg rmwquery.ResolveSecurityFilesMessage) (core.SecurityBundle, error) {
	return commanddispatcher.Query[rmwquery.ResolveSecurityFilesMessage, core.SecurityBundle](ctx, msg)
}

func ListServiceEndpoints(ctx context.Context, msg rmwquery.ListServiceEndpointsMessage) ([]endpoint.Descriptor, error) {
	return commanddispatcher.Query[rmwquery.ListServiceEndpointsMessage, []endpoint.Descriptor](ctx, msg)
}
