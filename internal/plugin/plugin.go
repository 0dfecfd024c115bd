// Package plugin defines the startup hooks pindeck runs before its
// window comes up. Plugins initialize exactly once, in registration
// order; a failing Init aborts bootstrap.
package plugin

// Plugin is a named startup hook.
type Plugin interface {
	// Name identifies the plugin in logs and status output.
	Name() string
	// Init performs the plugin's one-time setup.
	Init() error
}

// Func adapts a bare function into a Plugin.
type Func struct {
	PluginName string
	InitFunc   func() error
}

func (f Func) Name() string {
	return f.PluginName
}

func (f Func) Init() error {
	if f.InitFunc == nil {
		return nil
	}
	return f.InitFunc()
}
