package container

import (
	"io"

	"github.com/glide-cli/plugo/pkg/logging"
	"github.com/glide-cli/plugo/pkg/plugin/sdk"
	"go.uber.org/fx"
)

// Option is a functional option for configuring the container.
//
// Options are typically used in tests to override default providers.
type Option = fx.Option

// WithLogger overrides the logger provider.
//
// Useful in tests to capture log output or disable logging.
//
// Example:
//
//	testLogger := logging.New(&logging.Config{Level: slog.LevelDebug})
//	c, _ := container.New(container.WithLogger(testLogger))
func WithLogger(logger *logging.Logger) Option {
	return fx.Replace(func() *logging.Logger {
		return logger
	})
}

// WithWriter overrides the output writer.
//
// Useful in tests to capture output to a buffer.
//
// Example:
//
//	buf := &bytes.Buffer{}
//	c, _ := container.New(container.WithWriter(buf))
func WithWriter(w io.Writer) Option {
	return fx.Replace(func() io.Writer {
		return w
	})
}

// WithPluginRoots overrides the directories LoadPlugins discovers
// manifests under.
//
// Example:
//
//	c, _ := container.New(container.WithPluginRoots("/tmp/test-plugins"))
func WithPluginRoots(roots ...string) Option {
	return fx.Replace(func() PluginRoots {
		return PluginRoots(roots)
	})
}

// WithLoader overrides the DynamicLoader provider.
//
// Useful in tests to substitute an in-memory loader for one that would
// otherwise launch real plugin subprocesses.
//
// Example:
//
//	c, _ := container.New(container.WithLoader(sdktest.NewFakeLoader()))
func WithLoader(loader sdk.DynamicLoader) Option {
	return fx.Replace(func() sdk.DynamicLoader {
		return loader
	})
}

// WithSettingsStore overrides the SettingsStore provider.
//
// Useful in tests that want to observe persisted disabled-plugin state
// without touching disk.
//
// Example:
//
//	c, _ := container.New(container.WithSettingsStore(sdk.NewMemorySettingsStore()))
func WithSettingsStore(store sdk.SettingsStore) Option {
	return fx.Replace(func() sdk.SettingsStore {
		return store
	})
}

// WithMonitor overrides the ProgressMonitor provider.
//
// Example:
//
//	recorder := &sdktest.RecordingMonitor{}
//	c, _ := container.New(container.WithMonitor(recorder))
func WithMonitor(monitor sdk.ProgressMonitor) Option {
	return fx.Replace(func() sdk.ProgressMonitor {
		return monitor
	})
}

// WithoutLifecycle adds a no-op fx.Invoke.
//
// It does not remove the OnStart and OnStop hooks: New still invokes
// registerLifecycleHooks, so Start and Stop run them as usual.
//
// Example:
//
//	c, _ := container.New(container.WithoutLifecycle())
func WithoutLifecycle() Option {
	return fx.Options(
		// Skip lifecycle invocations
		fx.Invoke(func() {
			// No-op instead of registerLifecycleHooks
		}),
	)
}
