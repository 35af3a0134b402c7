package container

import (
	"io"
	"os"
	"path/filepath"

	"github.com/glide-cli/plugo/pkg/logging"
	"github.com/glide-cli/plugo/pkg/plugin/sdk"
	"go.uber.org/fx"
)

// Provider functions create and configure application dependencies.
// These are called by uber-fx in dependency order.

// provideLogger creates the application logger.
//
// The logger is configured from environment variables:
//   - PLUGO_LOG_LEVEL: debug, info, warn, error
//   - PLUGO_LOG_FORMAT: text, json
//   - PLUGO_DEBUG: enables debug logging
func provideLogger() *logging.Logger {
	return logging.New(logging.FromEnv())
}

// provideWriter provides the output writer.
//
// Defaults to os.Stdout. Can be overridden in tests using WithWriter().
func provideWriter() io.Writer {
	return os.Stdout
}

// PluginRoots is the ordered list of directories LoadPlugins walks to
// discover plugin manifests. Exported so hosts embedding the container
// can override it with fx.Replace without reaching into provider
// internals.
type PluginRoots []string

// provideDefaultPluginRoots returns the per-user and system-wide plugin
// directories, matching the trusted paths sdk.NewValidator seeds by
// default.
func provideDefaultPluginRoots() PluginRoots {
	home, _ := os.UserHomeDir()
	return PluginRoots{
		filepath.Join(home, ".config", "plugo", "plugins"),
		"/usr/local/lib/plugo/plugins",
	}
}

// provideValidator creates the plugin binary validator used before any
// plugin library is handed to the loader. Strict mode is off by
// default; hosts that want it can fx.Replace this provider.
func provideValidator() *sdk.Validator {
	return sdk.NewValidator(false)
}

// provideLoader creates the DynamicLoader that launches plugin binaries
// as hashicorp/go-plugin subprocesses over the net/rpc wire protocol.
func provideLoader(validator *sdk.Validator) sdk.DynamicLoader {
	return sdk.NewGoPluginLoader(validator)
}

// SettingsPath is the file a YAMLSettingsStore persists the disabled
// plugin list to.
type SettingsPath string

// provideDefaultSettingsPath places the settings file alongside the
// per-user plugin directory.
func provideDefaultSettingsPath() SettingsPath {
	home, _ := os.UserHomeDir()
	return SettingsPath(filepath.Join(home, ".config", "plugo", "settings.yml"))
}

// provideSettingsStore creates the store LoadPlugins/Shutdown use to
// persist which plugins the user has disabled across runs.
func provideSettingsStore(logger *logging.Logger, path SettingsPath) (sdk.SettingsStore, error) {
	logger.Debug("Loading plugin settings", "path", string(path))
	return sdk.NewYAMLSettingsStore(string(path))
}

// provideMonitor creates the console progress monitor InitializePlugins
// reports status through. Color is used only when os.Stdout is a
// terminal; w itself is not checked.
func provideMonitor(w io.Writer) sdk.ProgressMonitor {
	monitor := sdk.NewConsoleMonitor()
	monitor.Writer = w
	return monitor
}

// ManagerParams groups dependencies for the manager provider.
type ManagerParams struct {
	fx.In

	Loader sdk.DynamicLoader
	Store  sdk.SettingsStore
	Logger *logging.Logger
}

// provideManager creates the plugin lifecycle manager, wired to log
// through the same *logging.Logger the rest of the container uses.
func provideManager(params ManagerParams) *sdk.Manager {
	params.Logger.Debug("Creating plugin manager")
	manager := sdk.NewManager(params.Loader, params.Store)
	manager.SetLogger(params.Logger)
	return manager
}
