package cli

import (
	"fmt"
	"log/slog"

	httpAdapter "github.com/aretw0/schat/pkg/adapters/http"
	"github.com/aretw0/schat/pkg/agent"
	"github.com/aretw0/schat/pkg/domain"
	"github.com/aretw0/schat/pkg/observability"
	"github.com/aretw0/schat/pkg/session"
)

// app bundles the components of one schat process.
type app struct {
	provider   agent.Provider
	controller *session.Controller
	metrics    *observability.Metrics
	streams    *httpAdapter.StreamManager
}

// resolveProvider loads the catalog and applies command line overrides.
func resolveProvider(opts RunOptions) (agent.Provider, error) {
	catalog, err := agent.LoadCatalog(opts.ConfigPath)
	if err != nil {
		return agent.Provider{}, err
	}

	name := opts.Provider
	if name == "" {
		name = agent.DefaultProvider
	}
	provider, err := catalog.Lookup(name)
	if err != nil {
		return agent.Provider{}, err
	}

	if opts.Model != "" {
		if provider.ModelFlag == "" {
			return agent.Provider{}, fmt.Errorf("provider %q does not accept a model", provider.Name)
		}
		provider.Model = opts.Model
	}
	if opts.Timeout > 0 {
		provider.Timeout = opts.Timeout
	}
	return provider, nil
}

// createApp wires provider, invoker, controller and observability with
// standard CLI conventions.
func createApp(opts RunOptions, logger *slog.Logger) (*app, error) {
	provider, err := resolveProvider(opts)
	if err != nil {
		return nil, err
	}

	invoker := agent.NewInvoker(provider,
		agent.WithLogger(logger),
		agent.WithWorkDir(opts.WorkDir),
	)

	metrics := observability.NewMetrics(provider.Name)
	streams := httpAdapter.NewStreamManager(httpAdapter.WithStreamLogger(logger))

	hooks := []domain.LifecycleHooks{metrics.Hooks(), streams.Hooks()}
	if opts.Debug {
		hooks = append(hooks, observability.LogHooks(logger))
	}

	controller := session.NewController(invoker,
		session.WithLogger(logger),
		session.WithHooks(observability.Combine(hooks...)),
	)

	return &app{
		provider:   provider,
		controller: controller,
		metrics:    metrics,
		streams:    streams,
	}, nil
}
