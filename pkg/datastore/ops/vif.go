package ops

import (
	"context"
	"fmt"

	"github.com/sdcio/fea-server/pkg/tree"
)

const MaxVlanID = 4094

func findVif(t *tree.IfTree, ifname, vifname string) (*tree.Vif, error) {
	ifp, err := findInterface(t, ifname)
	if err != nil {
		return nil, err
	}
	vifp := ifp.FindVif(vifname)
	if vifp == nil || vifp.IsMarked(tree.Deleted) {
		return nil, fmt.Errorf("vif %s/%s: %w", ifname, vifname, tree.ErrNotFound)
	}
	return vifp, nil
}

type AddInterfaceVif struct {
	Ifname  string
	Vifname string
}

func NewAddInterfaceVif(ifname, vifname string) *AddInterfaceVif {
	return &AddInterfaceVif{Ifname: ifname, Vifname: vifname}
}

func (o *AddInterfaceVif) Dispatch(_ context.Context, t *tree.IfTree) error {
	ifp, err := findInterface(t, o.Ifname)
	if err != nil {
		return err
	}
	return ifp.AddVif(o.Vifname)
}

func (o *AddInterfaceVif) String() string {
	return fmt.Sprintf("AddInterfaceVif: %s %s", o.Ifname, o.Vifname)
}

type RemoveInterfaceVif struct {
	Ifname  string
	Vifname string
}

func NewRemoveInterfaceVif(ifname, vifname string) *RemoveInterfaceVif {
	return &RemoveInterfaceVif{Ifname: ifname, Vifname: vifname}
}

func (o *RemoveInterfaceVif) Dispatch(_ context.Context, t *tree.IfTree) error {
	ifp, err := findInterface(t, o.Ifname)
	if err != nil {
		return err
	}
	return ifp.RemoveVif(o.Vifname)
}

func (o *RemoveInterfaceVif) String() string {
	return fmt.Sprintf("RemoveInterfaceVif: %s %s", o.Ifname, o.Vifname)
}

type SetVifEnabled struct {
	Ifname  string
	Vifname string
	Enabled bool
}

func NewSetVifEnabled(ifname, vifname string, enabled bool) *SetVifEnabled {
	return &SetVifEnabled{Ifname: ifname, Vifname: vifname, Enabled: enabled}
}

func (o *SetVifEnabled) Dispatch(_ context.Context, t *tree.IfTree) error {
	vifp, err := findVif(t, o.Ifname, o.Vifname)
	if err != nil {
		return err
	}
	vifp.SetEnabled(o.Enabled)
	return nil
}

func (o *SetVifEnabled) String() string {
	return fmt.Sprintf("SetVifEnabled: %s %s %t", o.Ifname, o.Vifname, o.Enabled)
}

// SetVifVlan turns the vif into a VLAN sub-interface.
type SetVifVlan struct {
	Ifname  string
	Vifname string
	VlanID  uint32
}

func NewSetVifVlan(ifname, vifname string, id uint32) *SetVifVlan {
	return &SetVifVlan{Ifname: ifname, Vifname: vifname, VlanID: id}
}

func (o *SetVifVlan) Dispatch(_ context.Context, t *tree.IfTree) error {
	if o.VlanID > MaxVlanID {
		return fmt.Errorf("vlan id %d out of range", o.VlanID)
	}
	vifp, err := findVif(t, o.Ifname, o.Vifname)
	if err != nil {
		return err
	}
	vifp.SetVlan(true, uint16(o.VlanID))
	return nil
}

func (o *SetVifVlan) String() string {
	s := fmt.Sprintf("SetVifVlan: %s %s %d", o.Ifname, o.Vifname, o.VlanID)
	if o.VlanID > MaxVlanID {
		s += fmt.Sprintf(" (valid range 0--%d)", MaxVlanID)
	}
	return s
}
