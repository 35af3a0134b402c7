package container

import (
	"context"
	"fmt"
	"strings"

	glideerrors "github.com/glide-cli/plugo/pkg/errors"
	"github.com/glide-cli/plugo/pkg/logging"
	"github.com/glide-cli/plugo/pkg/plugin/sdk"
	"go.uber.org/fx"
)

// LifecycleParams groups all components that need lifecycle management.
type LifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Logger    *logging.Logger
	Manager   *sdk.Manager
	Monitor   sdk.ProgressMonitor
	Roots     PluginRoots
}

// registerLifecycleHooks registers startup and shutdown hooks for the
// application.
//
// This is called automatically by uber-fx when the container is
// created.
//
// Lifecycle hooks execute in dependency order:
//   - OnStart: from least dependent to most dependent
//   - OnStop: from most dependent to least dependent (reverse order)
//
// OnStart discovers and loads every plugin spec under Roots, then
// initializes them in dependency order. A plugin whose Initialize
// requested shutdown aborts startup entirely; any other failure just
// unloads that plugin's dependents and continues with the rest.
// OnStop unloads everything and persists the disabled-plugin list.
func registerLifecycleHooks(params LifecycleParams) {
	suggestions := glideerrors.NewSuggestionEngine()

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			params.Logger.Info("Starting plugin manager", "roots", []string(params.Roots))

			if err := params.Manager.LoadPlugins([]string(params.Roots)); err != nil {
				hints := suggestions.GetSuggestions(err, map[string]string{
					"root": strings.Join([]string(params.Roots), ", "),
				})
				return glideerrors.New(glideerrors.TypePlugin, "failed to load plugins",
					glideerrors.WithError(err),
					glideerrors.WithSuggestions(hints...))
			}

			ok, shutdownBy := params.Manager.InitializePlugins(params.Monitor)
			if shutdownBy != "" {
				err := fmt.Errorf("plugin %q requested shutdown during initialization", shutdownBy)
				hints := suggestions.GetSuggestions(err, map[string]string{"plugin": shutdownBy})
				return glideerrors.New(glideerrors.TypePlugin, err.Error(),
					glideerrors.WithError(err),
					glideerrors.WithSuggestions(hints...))
			}
			if !ok {
				params.Logger.Warn("One or more plugins failed to initialize; continuing with the rest")
			}

			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Shutting down plugin manager")
			params.Manager.Shutdown()
			return nil
		},
	})
}
