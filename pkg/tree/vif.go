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
	"fmt"
	"maps"
	"net/netip"
	"slices"
)

// Vif is a virtual interface, a logical attachment point below an
// interface.
type Vif struct {
	item

	name         string
	enabled      bool
	broadcast    bool
	loopback     bool
	pointToPoint bool
	multicast    bool
	pifIndex     uint32
	isVlan       bool
	vlanID       uint16

	ipv4addrs map[netip.Addr]*Addr4
	ipv6addrs map[netip.Addr]*Addr6
}

func newVif(name string) *Vif {
	return &Vif{
		item:      item{state: Created},
		name:      name,
		ipv4addrs: map[netip.Addr]*Addr4{},
		ipv6addrs: map[netip.Addr]*Addr6{},
	}
}

func (v *Vif) Name() string       { return v.name }
func (v *Vif) Enabled() bool      { return v.enabled }
func (v *Vif) Broadcast() bool    { return v.broadcast }
func (v *Vif) Loopback() bool     { return v.loopback }
func (v *Vif) PointToPoint() bool { return v.pointToPoint }
func (v *Vif) Multicast() bool    { return v.multicast }
func (v *Vif) PifIndex() uint32   { return v.pifIndex }
func (v *Vif) IsVlan() bool       { return v.isVlan }
func (v *Vif) VlanID() uint16     { return v.vlanID }

func (v *Vif) SetEnabled(b bool)      { v.setBool(&v.enabled, b) }
func (v *Vif) SetBroadcast(b bool)    { v.setBool(&v.broadcast, b) }
func (v *Vif) SetLoopback(b bool)     { v.setBool(&v.loopback, b) }
func (v *Vif) SetPointToPoint(b bool) { v.setBool(&v.pointToPoint, b) }
func (v *Vif) SetMulticast(b bool)    { v.setBool(&v.multicast, b) }

func (v *Vif) setBool(dst *bool, b bool) {
	if *dst != b {
		*dst = b
		v.mark(Changed)
	}
}

func (v *Vif) SetPifIndex(idx uint32) {
	if v.pifIndex != idx {
		v.pifIndex = idx
		v.mark(Changed)
	}
}

// SetVlan sets the VLAN membership of the vif.
func (v *Vif) SetVlan(isVlan bool, id uint16) {
	if v.isVlan != isVlan || v.vlanID != id {
		v.isVlan = isVlan
		v.vlanID = id
		v.mark(Changed)
	}
}

// IPv4Addrs returns the IPv4 addresses in ascending order.
func (v *Vif) IPv4Addrs() []*Addr4 {
	result := make([]*Addr4, 0, len(v.ipv4addrs))
	for _, a := range slices.SortedFunc(maps.Keys(v.ipv4addrs), netip.Addr.Compare) {
		result = append(result, v.ipv4addrs[a])
	}
	return result
}

// IPv6Addrs returns the IPv6 addresses in ascending order.
func (v *Vif) IPv6Addrs() []*Addr6 {
	result := make([]*Addr6, 0, len(v.ipv6addrs))
	for _, a := range slices.SortedFunc(maps.Keys(v.ipv6addrs), netip.Addr.Compare) {
		result = append(result, v.ipv6addrs[a])
	}
	return result
}

func (v *Vif) FindAddr4(a netip.Addr) *Addr4 { return v.ipv4addrs[a] }
func (v *Vif) FindAddr6(a netip.Addr) *Addr6 { return v.ipv6addrs[a] }

// AddAddr4 creates the IPv4 address marked as Created.
func (v *Vif) AddAddr4(a netip.Addr) error {
	if !a.Is4() {
		return fmt.Errorf("%s is not an IPv4 address", a)
	}
	if ap, exists := v.ipv4addrs[a]; exists {
		if ap.IsMarked(Deleted) {
			return fmt.Errorf("address %s on %s: %w", a, v.name, ErrPendingDelete)
		}
		return nil
	}
	v.ipv4addrs[a] = newAddr4(a)
	return nil
}

// RemoveAddr4 marks the IPv4 address as deleted.
func (v *Vif) RemoveAddr4(a netip.Addr) error {
	ap := v.FindAddr4(a)
	if ap == nil {
		return fmt.Errorf("address %s on %s: %w", a, v.name, ErrNotFound)
	}
	ap.mark(Deleted)
	return nil
}

// AddAddr6 creates the IPv6 address marked as Created.
func (v *Vif) AddAddr6(a netip.Addr) error {
	if !a.Is6() || a.Is4In6() {
		return fmt.Errorf("%s is not an IPv6 address", a)
	}
	if ap, exists := v.ipv6addrs[a]; exists {
		if ap.IsMarked(Deleted) {
			return fmt.Errorf("address %s on %s: %w", a, v.name, ErrPendingDelete)
		}
		return nil
	}
	v.ipv6addrs[a] = newAddr6(a)
	return nil
}

// RemoveAddr6 marks the IPv6 address as deleted.
func (v *Vif) RemoveAddr6(a netip.Addr) error {
	ap := v.FindAddr6(a)
	if ap == nil {
		return fmt.Errorf("address %s on %s: %w", a, v.name, ErrNotFound)
	}
	ap.mark(Deleted)
	return nil
}

func (v *Vif) dropAddr4(ap *Addr4) {
	if ap.IsMarked(Created) {
		delete(v.ipv4addrs, ap.addr)
		return
	}
	ap.mark(Deleted)
}

func (v *Vif) dropAddr6(ap *Addr6) {
	if ap.IsMarked(Created) {
		delete(v.ipv6addrs, ap.addr)
		return
	}
	ap.mark(Deleted)
}

func (v *Vif) markDeleted() {
	v.mark(Deleted)
	for _, ap := range v.ipv4addrs {
		ap.mark(Deleted)
	}
	for _, ap := range v.ipv6addrs {
		ap.mark(Deleted)
	}
}

func (v *Vif) finalizeState() {
	for a, ap := range v.ipv4addrs {
		if ap.IsMarked(Deleted) {
			delete(v.ipv4addrs, a)
			continue
		}
		ap.setState(NoChange)
	}
	for a, ap := range v.ipv6addrs {
		if ap.IsMarked(Deleted) {
			delete(v.ipv6addrs, a)
			continue
		}
		ap.setState(NoChange)
	}
	v.setState(NoChange)
}

func (v *Vif) copyState(o *Vif) {
	v.SetEnabled(o.enabled)
	v.SetBroadcast(o.broadcast)
	v.SetLoopback(o.loopback)
	v.SetPointToPoint(o.pointToPoint)
	v.SetMulticast(o.multicast)
	v.SetPifIndex(o.pifIndex)
	v.SetVlan(o.isVlan, o.vlanID)
}

// copySubtree makes the addresses of v look like the ones of o.
func (v *Vif) copySubtree(o *Vif) {
	for _, oap := range o.IPv4Addrs() {
		if oap.IsMarked(Deleted) {
			continue
		}
		ap := v.FindAddr4(oap.addr)
		if ap == nil {
			ap = newAddr4(oap.addr)
			v.ipv4addrs[oap.addr] = ap
		} else if ap.IsMarked(Deleted) {
			continue
		}
		ap.copyState(oap)
	}
	for _, ap := range v.IPv4Addrs() {
		oap := o.FindAddr4(ap.addr)
		if oap == nil || oap.IsMarked(Deleted) {
			v.dropAddr4(ap)
		}
	}
	for _, oap := range o.IPv6Addrs() {
		if oap.IsMarked(Deleted) {
			continue
		}
		ap := v.FindAddr6(oap.addr)
		if ap == nil {
			ap = newAddr6(oap.addr)
			v.ipv6addrs[oap.addr] = ap
		} else if ap.IsMarked(Deleted) {
			continue
		}
		ap.copyState(oap)
	}
	for _, ap := range v.IPv6Addrs() {
		oap := o.FindAddr6(ap.addr)
		if oap == nil || oap.IsMarked(Deleted) {
			v.dropAddr6(ap)
		}
	}
}

func (v *Vif) sameState(o *Vif) bool {
	return v.enabled == o.enabled &&
		v.broadcast == o.broadcast &&
		v.loopback == o.loopback &&
		v.pointToPoint == o.pointToPoint &&
		v.multicast == o.multicast &&
		v.pifIndex == o.pifIndex &&
		v.isVlan == o.isVlan &&
		v.vlanID == o.vlanID
}

func (v *Vif) equal(o *Vif) bool {
	if v.state != o.state || !v.sameState(o) ||
		len(v.ipv4addrs) != len(o.ipv4addrs) || len(v.ipv6addrs) != len(o.ipv6addrs) {
		return false
	}
	for a, ap := range v.ipv4addrs {
		oap, ok := o.ipv4addrs[a]
		if !ok || ap.state != oap.state || !ap.sameState(oap) {
			return false
		}
	}
	for a, ap := range v.ipv6addrs {
		oap, ok := o.ipv6addrs[a]
		if !ok || ap.state != oap.state || !ap.sameState(oap) {
			return false
		}
	}
	return true
}

func (v *Vif) clone() *Vif {
	c := *v
	c.ipv4addrs = make(map[netip.Addr]*Addr4, len(v.ipv4addrs))
	for a, ap := range v.ipv4addrs {
		ac := *ap
		c.ipv4addrs[a] = &ac
	}
	c.ipv6addrs = make(map[netip.Addr]*Addr6, len(v.ipv6addrs))
	for a, ap := range v.ipv6addrs {
		ac := *ap
		c.ipv6addrs[a] = &ac
	}
	return &c
}

func (v *Vif) String() string {
	return fmt.Sprintf("VIF %s { enabled := %t } { broadcast := %t } { loopback := %t } { point_to_point := %t } { multicast := %t } { pif_index := %d } { vlan := %t/%d } %s",
		v.name, v.enabled, v.broadcast, v.loopback, v.pointToPoint, v.multicast, v.pifIndex, v.isVlan, v.vlanID, v.state)
}
