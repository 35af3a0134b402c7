// Package container provides dependency injection using uber-fx.
//
// The container wires together the plugin lifecycle manager and its
// supporting components so a host application only needs to call
// container.New and container.Run.
//
// # Basic Usage
//
//	c, err := container.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = c.Run(ctx, func() error {
//	    // Plugins have already been discovered, loaded, and initialized
//	    // by the lifecycle hooks registered in New.
//	    <-ctx.Done()
//	    return nil
//	})
//
// # Default Providers
//
// The container automatically provides these dependencies:
//   - *logging.Logger - Structured logging
//   - io.Writer - Output destination, defaults to os.Stdout
//   - PluginRoots - Directories LoadPlugins discovers manifests under
//   - *sdk.Validator - Binary trust checks before loading a plugin
//   - sdk.DynamicLoader - Launches plugin binaries as go-plugin subprocesses
//   - sdk.SettingsStore - Persists the disabled-plugin list
//   - sdk.ProgressMonitor - Reports initialization progress
//   - *sdk.Manager - Drives discover/resolve/load/initialize/shutdown
//
// # Custom Providers
//
// Override default providers for testing or customization:
//
//	c, err := container.New(
//	    container.WithPluginRoots("/tmp/test-plugins"),
//	    container.WithLoader(sdktest.NewFakeLoader()),
//	)
//
// # Lifecycle Management
//
// The container manages startup and shutdown of the plugin manager:
//
//	c.Run(ctx, func() error {
//	    // Plugins are loaded and initialized before this function runs
//	    <-ctx.Done()
//	    // Plugins are unloaded and disabled state persisted on shutdown
//	    return nil
//	})
package container
