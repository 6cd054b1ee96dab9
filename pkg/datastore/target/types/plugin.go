//go:generate mockgen -source=plugin.go -destination=../../../../mocks/mocktarget/plugin.go -package=mocktarget

package types

import (
	"context"

	"github.com/sdcio/fea-server/pkg/tree"
)

// Plugin is the lifecycle shared by every backend plugin. Start on a
// running plugin and Stop on a stopped one are no-ops.
type Plugin interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Status() *PluginStatus
}

// Get reads the live configuration.
type Get interface {
	Plugin
	// PullConfig overwrites t with the complete live state.
	PullConfig(ctx context.Context, t *tree.IfTree) error
}

// Set writes the configuration.
type Set interface {
	Plugin
	// PushConfig applies t as the complete desired state. An interface that
	// had to be disabled and re-enabled to apply a change is flagged as
	// flipped in t.
	PushConfig(ctx context.Context, t *tree.IfTree) error
}

// Observer receives spontaneous change notifications of the substrate.
type Observer interface {
	Plugin
	// ReceiveData hands over an opaque notification buffer. The plugin
	// decodes it and forwards the result to its ChangeSink.
	ReceiveData(ctx context.Context, raw []byte) error
}

// VlanGet reads the VLAN sub-interfaces.
type VlanGet interface {
	Plugin
	PullVlanConfig(ctx context.Context, t *tree.IfTree) error
}

// VlanSet writes the VLAN sub-interfaces.
type VlanSet interface {
	Plugin
	PushVlanConfig(ctx context.Context, t *tree.IfTree) error
}

// ObservedChange mutates the system tree according to a decoded
// notification.
type ObservedChange func(system *tree.IfTree) error

// ChangeSink queues observed changes for the orchestrator.
type ChangeSink interface {
	ObservedChange(ctx context.Context, change ObservedChange)
}

// SinkBinder is implemented by observers that deliver decoded changes.
type SinkBinder interface {
	BindSink(sink ChangeSink)
}

// VlanSetBinder is implemented by Set plugins that delegate the VLAN part
// of a push to the VlanSet plugin of the same mechanism.
type VlanSetBinder interface {
	BindVlanSet(vs VlanSet)
}

// Backend bundles the plugins of one mechanism. Roles a mechanism does not
// provide are nil.
type Backend struct {
	Get      Get
	Set      Set
	Observer Observer
	VlanGet  VlanGet
	VlanSet  VlanSet
}
