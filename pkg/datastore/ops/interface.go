package ops

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/sdcio/fea-server/pkg/tree"
)

const (
	MinMTU = 68
	MaxMTU = 65536
)

var ErrNoSystemConfig = errors.New("no system configuration available")

type systemConfigKey struct{}

// WithSystemConfig attaches the most recently pulled tree to ctx. Operations
// that copy state from the system read it back with SystemConfigFromContext.
func WithSystemConfig(ctx context.Context, t *tree.IfTree) context.Context {
	return context.WithValue(ctx, systemConfigKey{}, t)
}

func SystemConfigFromContext(ctx context.Context) *tree.IfTree {
	t, _ := ctx.Value(systemConfigKey{}).(*tree.IfTree)
	return t
}

func findInterface(t *tree.IfTree, ifname string) (*tree.Interface, error) {
	ifp := t.FindInterface(ifname)
	if ifp == nil || ifp.IsMarked(tree.Deleted) {
		return nil, fmt.Errorf("interface %s: %w", ifname, tree.ErrNotFound)
	}
	return ifp, nil
}

type AddInterface struct {
	Ifname string
}

func NewAddInterface(ifname string) *AddInterface {
	return &AddInterface{Ifname: ifname}
}

func (o *AddInterface) Dispatch(_ context.Context, t *tree.IfTree) error {
	if o.Ifname == "" {
		return errors.New("empty interface name")
	}
	return t.AddInterface(o.Ifname)
}

func (o *AddInterface) String() string {
	return fmt.Sprintf("AddInterface: %s", o.Ifname)
}

type RemoveInterface struct {
	Ifname string
}

func NewRemoveInterface(ifname string) *RemoveInterface {
	return &RemoveInterface{Ifname: ifname}
}

func (o *RemoveInterface) Dispatch(_ context.Context, t *tree.IfTree) error {
	return t.RemoveInterface(o.Ifname)
}

func (o *RemoveInterface) String() string {
	return fmt.Sprintf("RemoveInterface: %s", o.Ifname)
}

// ConfigureInterfaceFromSystem copies an interface, vifs and addresses
// included, from the system configuration and flags it as mirroring the
// system.
type ConfigureInterfaceFromSystem struct {
	Ifname string
	Enable bool
}

func NewConfigureInterfaceFromSystem(ifname string, enable bool) *ConfigureInterfaceFromSystem {
	return &ConfigureInterfaceFromSystem{Ifname: ifname, Enable: enable}
}

func (o *ConfigureInterfaceFromSystem) Dispatch(ctx context.Context, t *tree.IfTree) error {
	system := SystemConfigFromContext(ctx)
	if system == nil {
		return ErrNoSystemConfig
	}
	sifp := system.FindInterface(o.Ifname)
	if sifp == nil || sifp.IsMarked(tree.Deleted) {
		return fmt.Errorf("interface %s not in system configuration: %w", o.Ifname, tree.ErrNotFound)
	}
	if err := t.UpdateInterface(sifp); err != nil {
		return err
	}
	ifp := t.FindInterface(o.Ifname)
	ifp.SetDefaultSystemConfig(true)
	if o.Enable {
		ifp.SetEnabled(true)
	}
	return nil
}

func (o *ConfigureInterfaceFromSystem) String() string {
	return fmt.Sprintf("ConfigureInterfaceFromSystem: %s enable: %t", o.Ifname, o.Enable)
}

type SetInterfaceEnabled struct {
	Ifname  string
	Enabled bool
}

func NewSetInterfaceEnabled(ifname string, enabled bool) *SetInterfaceEnabled {
	return &SetInterfaceEnabled{Ifname: ifname, Enabled: enabled}
}

func (o *SetInterfaceEnabled) Dispatch(_ context.Context, t *tree.IfTree) error {
	ifp, err := findInterface(t, o.Ifname)
	if err != nil {
		return err
	}
	ifp.SetEnabled(o.Enabled)
	return nil
}

func (o *SetInterfaceEnabled) String() string {
	return fmt.Sprintf("SetInterfaceEnabled: %s %t", o.Ifname, o.Enabled)
}

type SetInterfaceMTU struct {
	Ifname string
	MTU    uint32
}

func NewSetInterfaceMTU(ifname string, mtu uint32) *SetInterfaceMTU {
	return &SetInterfaceMTU{Ifname: ifname, MTU: mtu}
}

func (o *SetInterfaceMTU) Dispatch(_ context.Context, t *tree.IfTree) error {
	if o.MTU < MinMTU || o.MTU > MaxMTU {
		return fmt.Errorf("mtu %d out of range", o.MTU)
	}
	ifp, err := findInterface(t, o.Ifname)
	if err != nil {
		return err
	}
	ifp.SetMTU(o.MTU)
	return nil
}

func (o *SetInterfaceMTU) String() string {
	s := fmt.Sprintf("SetInterfaceMTU: %s %d", o.Ifname, o.MTU)
	if o.MTU < MinMTU || o.MTU > MaxMTU {
		s += fmt.Sprintf(" (valid range %d--%d)", MinMTU, MaxMTU)
	}
	return s
}

type SetInterfaceMAC struct {
	Ifname string
	MAC    net.HardwareAddr
}

func NewSetInterfaceMAC(ifname string, mac net.HardwareAddr) *SetInterfaceMAC {
	return &SetInterfaceMAC{Ifname: ifname, MAC: mac}
}

func (o *SetInterfaceMAC) Dispatch(_ context.Context, t *tree.IfTree) error {
	if len(o.MAC) != 6 {
		return fmt.Errorf("invalid ethernet address %q", o.MAC)
	}
	ifp, err := findInterface(t, o.Ifname)
	if err != nil {
		return err
	}
	ifp.SetMAC(o.MAC)
	return nil
}

func (o *SetInterfaceMAC) String() string {
	return fmt.Sprintf("SetInterfaceMAC: %s %s", o.Ifname, o.MAC)
}

type SetInterfaceDefaultSystemConfig struct {
	Ifname string
	Value  bool
}

func NewSetInterfaceDefaultSystemConfig(ifname string, v bool) *SetInterfaceDefaultSystemConfig {
	return &SetInterfaceDefaultSystemConfig{Ifname: ifname, Value: v}
}

func (o *SetInterfaceDefaultSystemConfig) Dispatch(_ context.Context, t *tree.IfTree) error {
	ifp, err := findInterface(t, o.Ifname)
	if err != nil {
		return err
	}
	ifp.SetDefaultSystemConfig(o.Value)
	return nil
}

func (o *SetInterfaceDefaultSystemConfig) String() string {
	return fmt.Sprintf("SetInterfaceDefaultSystemConfig: %s %t", o.Ifname, o.Value)
}
