// Copyright 2024 Nokia
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tree

import (
	"bytes"
	"fmt"
	"maps"
	"net"
	"slices"
)

// Interface is a physical (or OS level) network interface.
type Interface struct {
	item
	tree *IfTree

	name           string
	enabled        bool
	mac            net.HardwareAddr
	mtu            uint32
	interfaceFlags uint32
	noCarrier      bool
	// mirrors whatever the OS has instead of being operator declared
	defaultSystemConfig bool
	// set by a Set plugin that disabled and re-enabled the interface
	flipped  bool
	pifIndex uint32

	vifs map[string]*Vif
}

func newInterface(t *IfTree, name string) *Interface {
	return &Interface{
		item: item{state: Created},
		tree: t,
		name: name,
		vifs: map[string]*Vif{},
	}
}

func (i *Interface) Name() string                { return i.name }
func (i *Interface) Enabled() bool               { return i.enabled }
func (i *Interface) MAC() net.HardwareAddr       { return i.mac }
func (i *Interface) MTU() uint32                 { return i.mtu }
func (i *Interface) InterfaceFlags() uint32      { return i.interfaceFlags }
func (i *Interface) NoCarrier() bool             { return i.noCarrier }
func (i *Interface) DefaultSystemConfig() bool   { return i.defaultSystemConfig }
func (i *Interface) Flipped() bool               { return i.flipped }
func (i *Interface) PifIndex() uint32            { return i.pifIndex }
func (i *Interface) FindVif(vifname string) *Vif { return i.vifs[vifname] }

func (i *Interface) SetEnabled(v bool) {
	if i.enabled != v {
		i.enabled = v
		i.mark(Changed)
	}
}

func (i *Interface) SetMAC(v net.HardwareAddr) {
	if !bytes.Equal(i.mac, v) {
		i.mac = slices.Clone(v)
		i.mark(Changed)
	}
}

func (i *Interface) SetMTU(v uint32) {
	if i.mtu != v {
		i.mtu = v
		i.mark(Changed)
	}
}

func (i *Interface) SetInterfaceFlags(v uint32) {
	if i.interfaceFlags != v {
		i.interfaceFlags = v
		i.mark(Changed)
	}
}

func (i *Interface) SetNoCarrier(v bool) {
	if i.noCarrier != v {
		i.noCarrier = v
		i.mark(Changed)
	}
}

func (i *Interface) SetDefaultSystemConfig(v bool) {
	if i.defaultSystemConfig != v {
		i.defaultSystemConfig = v
		i.mark(Changed)
	}
}

// SetFlipped does not touch the change state, the flag is cleared by
// FinalizeState.
func (i *Interface) SetFlipped(v bool) {
	i.flipped = v
}

func (i *Interface) SetPifIndex(v uint32) {
	if i.pifIndex == v {
		return
	}
	old := i.pifIndex
	i.pifIndex = v
	if i.tree != nil {
		i.tree.updateIfIndex(i, old)
	}
	i.mark(Changed)
}

// Vifs returns the vifs sorted by name.
func (i *Interface) Vifs() []*Vif {
	result := make([]*Vif, 0, len(i.vifs))
	for _, name := range slices.Sorted(maps.Keys(i.vifs)) {
		result = append(result, i.vifs[name])
	}
	return result
}

// AddVif creates the vif marked as Created. Adding an existing vif is a
// no-op.
func (i *Interface) AddVif(vifname string) error {
	if vifp, exists := i.vifs[vifname]; exists {
		if vifp.IsMarked(Deleted) {
			return fmt.Errorf("vif %s/%s: %w", i.name, vifname, ErrPendingDelete)
		}
		return nil
	}
	i.vifs[vifname] = newVif(vifname)
	return nil
}

// RemoveVif marks the vif and its addresses as deleted.
func (i *Interface) RemoveVif(vifname string) error {
	vifp := i.FindVif(vifname)
	if vifp == nil {
		return fmt.Errorf("vif %s/%s: %w", i.name, vifname, ErrNotFound)
	}
	vifp.markDeleted()
	return nil
}

func (i *Interface) dropVif(vifp *Vif) {
	if vifp.IsMarked(Created) {
		delete(i.vifs, vifp.name)
		return
	}
	vifp.markDeleted()
}

func (i *Interface) markDeleted() {
	i.mark(Deleted)
	for _, vifp := range i.vifs {
		vifp.markDeleted()
	}
}

func (i *Interface) finalizeState() {
	for name, vifp := range i.vifs {
		if vifp.IsMarked(Deleted) {
			delete(i.vifs, name)
			continue
		}
		vifp.finalizeState()
	}
	i.flipped = false
	i.setState(NoChange)
}

// copyState copies the attributes of o. The default-system-config and
// flipped flags belong to the owning tree and are left alone.
func (i *Interface) copyState(o *Interface) {
	i.SetEnabled(o.enabled)
	i.SetMAC(o.mac)
	i.SetMTU(o.mtu)
	i.SetInterfaceFlags(o.interfaceFlags)
	i.SetNoCarrier(o.noCarrier)
	i.SetPifIndex(o.pifIndex)
}

// copySubtree makes the vifs and addresses of i look like the ones of o.
func (i *Interface) copySubtree(o *Interface) {
	for _, ovifp := range o.Vifs() {
		if ovifp.IsMarked(Deleted) {
			continue
		}
		vifp := i.FindVif(ovifp.name)
		if vifp == nil {
			vifp = newVif(ovifp.name)
			i.vifs[ovifp.name] = vifp
		} else if vifp.IsMarked(Deleted) {
			continue
		}
		vifp.copyState(ovifp)
		vifp.copySubtree(ovifp)
	}
	for _, vifp := range i.Vifs() {
		ovifp := o.FindVif(vifp.name)
		if ovifp == nil || ovifp.IsMarked(Deleted) {
			i.dropVif(vifp)
		}
	}
}

func (i *Interface) sameState(o *Interface) bool {
	return i.enabled == o.enabled &&
		bytes.Equal(i.mac, o.mac) &&
		i.mtu == o.mtu &&
		i.interfaceFlags == o.interfaceFlags &&
		i.noCarrier == o.noCarrier &&
		i.defaultSystemConfig == o.defaultSystemConfig &&
		i.pifIndex == o.pifIndex
}

func (i *Interface) equal(o *Interface) bool {
	if i.state != o.state || !i.sameState(o) || len(i.vifs) != len(o.vifs) {
		return false
	}
	for name, vifp := range i.vifs {
		ovifp, ok := o.vifs[name]
		if !ok || !vifp.equal(ovifp) {
			return false
		}
	}
	return true
}

func (i *Interface) clone(t *IfTree) *Interface {
	c := *i
	c.tree = t
	c.mac = slices.Clone(i.mac)
	c.vifs = make(map[string]*Vif, len(i.vifs))
	for name, vifp := range i.vifs {
		c.vifs[name] = vifp.clone()
	}
	return &c
}

func (i *Interface) String() string {
	return fmt.Sprintf("Interface %s { enabled := %t } { mtu := %d } { mac := %s } { pif_index := %d } { no_carrier := %t } { flags := %#x } { default_system_config := %t } { flipped := %t } %s",
		i.name, i.enabled, i.mtu, i.mac, i.pifIndex, i.noCarrier, i.interfaceFlags, i.defaultSystemConfig, i.flipped, i.state)
}
