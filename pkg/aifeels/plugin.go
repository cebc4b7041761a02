package aifeels

import (
	"fmt"

	"github.com/aifeels-org/aifeels-conformance-suite/pkg/plugin"
)

// Plugin installs the reference implementation through the
// plugin surface, so hosts load it the same way they load
// third-party extensions.
type Plugin struct{}

// NewPlugin creates the reference implementation plugin.
func NewPlugin() *Plugin {
	return &Plugin{}
}

// Name returns the plugin name.
func (*Plugin) Name() string { return "aifeels-reference" }

// Version returns the reference implementation version.
func (*Plugin) Version() string { return Version }

// Init registers the reference implementation with the host's
// subject registry.
func (p *Plugin) Init(ctx *plugin.Context) error {
	if ctx.Subjects == nil {
		return fmt.Errorf("plugin context has no subject registry")
	}
	return Register(ctx.Subjects)
}
