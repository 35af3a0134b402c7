package sdk

import (
	"net/rpc"

	goplugin "github.com/hashicorp/go-plugin"
)

// HandshakeConfig is the handshake every plugin binary and this host must
// agree on before a connection is trusted. MagicCookie guards against a
// plugin binary being invoked directly by something other than this host.
var HandshakeConfig = goplugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "PLUGO_PLUGIN",
	MagicCookieValue: "plugo",
}

// rpcPluginName is the single name every plugin binary dispenses under.
const rpcPluginName = "plugin"

// PluginMap is the go-plugin plugin set this host dispenses. There is
// exactly one kind of plugin, so the map has one entry.
var PluginMap = map[string]goplugin.Plugin{
	rpcPluginName: &rpcPlugin{},
}

// rpcPlugin adapts the sdk Plugin interface to go-plugin's net/rpc
// plugin contract. It carries no state of its own on the host side;
// Server is only invoked inside the plugin binary's own process.
type rpcPlugin struct {
	Impl Plugin
}

func (p *rpcPlugin) Server(*goplugin.MuxBroker) (interface{}, error) {
	return &rpcServer{impl: p.Impl}, nil
}

func (p *rpcPlugin) Client(b *goplugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &rpcClient{client: c}, nil
}

// rpcServer runs inside a plugin binary, exposing its Plugin
// implementation over net/rpc.
type rpcServer struct {
	impl Plugin
}

func (s *rpcServer) Initialize(args interface{}, resp *string) error {
	if err := s.impl.Initialize(); err != nil {
		*resp = err.Error()
		return nil
	}
	*resp = ""
	return nil
}

func (s *rpcServer) Shutdown(args interface{}, resp *interface{}) error {
	s.impl.Shutdown()
	return nil
}

func (s *rpcServer) IsShutdownRequested(args interface{}, resp *bool) error {
	*resp = s.impl.IsShutdownRequested()
	return nil
}

// rpcClient runs inside this host process and implements the Plugin
// interface by forwarding every call across the net/rpc connection to
// the plugin binary's rpcServer.
type rpcClient struct {
	client *rpc.Client
}

func (c *rpcClient) Initialize() error {
	var errString string
	if err := c.client.Call("Plugin.Initialize", new(interface{}), &errString); err != nil {
		return err
	}
	if errString != "" {
		return &InitializationError{Cause: remoteError(errString)}
	}
	return nil
}

func (c *rpcClient) Shutdown() {
	var resp interface{}
	_ = c.client.Call("Plugin.Shutdown", new(interface{}), &resp)
}

func (c *rpcClient) IsShutdownRequested() bool {
	var requested bool
	if err := c.client.Call("Plugin.IsShutdownRequested", new(interface{}), &requested); err != nil {
		return false
	}
	return requested
}

// remoteError turns the plain error string sent back across net/rpc into
// an error value.
type remoteError string

func (e remoteError) Error() string { return string(e) }
