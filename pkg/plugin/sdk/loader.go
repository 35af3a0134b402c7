package sdk

import (
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"
)

// loadedLibrary tracks a single running plugin binary and how many Load
// calls for its path are outstanding, so Unload can report whether the
// process is still needed.
type loadedLibrary struct {
	client   *goplugin.Client
	plugin   Plugin
	refCount int
}

// GoPluginLoader is a DynamicLoader that runs each plugin library as a
// subprocess speaking net/rpc over go-plugin's handshake protocol,
// grounded on the same goplugin.Client wiring the host used for its
// gRPC-based plugins, adapted to net/rpc because this deployment's
// plugin binaries are plain executables rather than generated gRPC
// service stubs.
type GoPluginLoader struct {
	mu        sync.Mutex
	byPath    map[string]*loadedLibrary
	validator *Validator
}

// NewGoPluginLoader returns a loader that validates every path with
// validator before launching it.
func NewGoPluginLoader(validator *Validator) *GoPluginLoader {
	return &GoPluginLoader{
		byPath:    make(map[string]*loadedLibrary),
		validator: validator,
	}
}

// Load launches path as a plugin subprocess (or reuses an already-running
// one, incrementing its reference count) and dispenses the single "plugin"
// implementation, returning it as a Plugin.
func (l *GoPluginLoader) Load(path string) (Plugin, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.byPath[path]; ok {
		existing.refCount++
		return existing.plugin, nil
	}

	if l.validator != nil {
		if err := l.validator.Validate(path); err != nil {
			return nil, &LibraryLoadError{Path: path, Cause: err}
		}
	}

	logger := hclog.NewNullLogger()
	if Debug {
		logger = hclog.New(&hclog.LoggerOptions{Name: "plugin", Level: hclog.Debug, Output: os.Stderr})
	}

	client := goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig:  HandshakeConfig,
		Plugins:          PluginMap,
		Cmd:              exec.Command(path),
		AllowedProtocols: []goplugin.Protocol{goplugin.ProtocolNetRPC},
		Managed:          true,
		Logger:           logger,
	})

	rpcClientConn, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, &LibraryLoadError{Path: path, Cause: err}
	}

	raw, err := rpcClientConn.Dispense(rpcPluginName)
	if err != nil {
		client.Kill()
		return nil, &LibraryLoadError{Path: path, Cause: err}
	}

	plugin, ok := raw.(Plugin)
	if !ok {
		client.Kill()
		return nil, &LibraryLoadError{Path: path, Cause: fmt.Errorf("dispensed value does not implement Plugin")}
	}

	l.byPath[path] = &loadedLibrary{client: client, plugin: plugin, refCount: 1}
	return plugin, nil
}

// Unload decrements path's reference count. When it reaches zero the
// subprocess is killed and (false, nil) is returned; otherwise (true,
// nil) reports that the library is still referenced elsewhere.
func (l *GoPluginLoader) Unload(path string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lib, ok := l.byPath[path]
	if !ok {
		return false, nil
	}

	lib.refCount--
	if lib.refCount > 0 {
		return true, nil
	}

	lib.client.Kill()
	delete(l.byPath, path)
	return false, nil
}
