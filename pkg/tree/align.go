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

// AlignWith drops every entity that is not present in actual. Entities that
// were created in this round are removed, older ones are marked as deleted.
// Present entities adopt the attributes owned by the OS (physical index,
// carrier, interface flags). Entities only present in actual are ignored.
func (t *IfTree) AlignWith(actual *IfTree) *IfTree {
	for _, ifp := range t.Interfaces() {
		other := actual.FindInterface(ifp.name)
		if other == nil || other.IsMarked(Deleted) {
			t.dropInterface(ifp)
			continue
		}
		if ifp.IsMarked(Deleted) {
			continue
		}
		ifp.SetPifIndex(other.pifIndex)
		ifp.SetNoCarrier(other.noCarrier)
		ifp.SetInterfaceFlags(other.interfaceFlags)

		for _, vifp := range ifp.Vifs() {
			ovifp := other.FindVif(vifp.name)
			if ovifp == nil || ovifp.IsMarked(Deleted) {
				ifp.dropVif(vifp)
				continue
			}
			if vifp.IsMarked(Deleted) {
				continue
			}
			vifp.SetPifIndex(ovifp.pifIndex)

			for _, ap := range vifp.IPv4Addrs() {
				oap := ovifp.FindAddr4(ap.addr)
				if oap == nil || oap.IsMarked(Deleted) {
					vifp.dropAddr4(ap)
				}
			}
			for _, ap := range vifp.IPv6Addrs() {
				oap := ovifp.FindAddr6(ap.addr)
				if oap == nil || oap.IsMarked(Deleted) {
					vifp.dropAddr6(ap)
				}
			}
		}
	}
	return t
}

// AlignWithObservedChanges merges spontaneous changes of the system tree.
// Only the system entities that changed since the last finalization are
// considered. Entities declared by the operator are left alone unless the
// interface is flagged default-system-config, everything else takes the
// system state.
func (t *IfTree) AlignWithObservedChanges(system, userDeclared *IfTree) *IfTree {
	for _, sifp := range system.Interfaces() {
		uifp := userDeclared.FindInterface(sifp.name)
		systemOwned := uifp == nil || uifp.defaultSystemConfig
		ifp := t.FindInterface(sifp.name)

		if systemOwned {
			switch {
			case sifp.IsMarked(Deleted):
				if ifp != nil {
					t.dropInterface(ifp)
				}
				continue
			case ifp != nil && ifp.IsMarked(Deleted):
				continue
			case sifp.IsMarked(NoChange) && ifp == nil:
				// nothing happened to an interface we never tracked
			case sifp.IsMarked(NoChange):
				ifp.copySubtreeChanges(sifp)
				continue
			default:
				// the interface is created or changed, take it as a whole
				_ = t.UpdateInterface(sifp)
				continue
			}
		}
		if ifp == nil || ifp.IsMarked(Deleted) {
			continue
		}
		ifp.alignObservedVifs(sifp, uifp)
	}
	return t
}

// copySubtreeChanges merges the vifs and addresses of o that carry a change.
func (i *Interface) copySubtreeChanges(o *Interface) {
	i.alignObservedVifs(o, nil)
}

// alignObservedVifs merges the changed vifs of o. A vif that is declared in
// user is skipped, its addresses are still considered.
func (i *Interface) alignObservedVifs(o, user *Interface) {
	for _, ovifp := range o.Vifs() {
		var uvifp *Vif
		if user != nil && !user.defaultSystemConfig {
			uvifp = user.FindVif(ovifp.name)
		}
		vifp := i.FindVif(ovifp.name)
		if uvifp == nil {
			switch {
			case ovifp.IsMarked(Deleted):
				if vifp != nil {
					i.dropVif(vifp)
				}
				continue
			case vifp != nil && vifp.IsMarked(Deleted):
				continue
			case ovifp.IsMarked(NoChange):
				if vifp != nil {
					vifp.alignObservedAddrs(ovifp, nil)
				}
				continue
			default:
				if vifp == nil {
					vifp = newVif(ovifp.name)
					i.vifs[ovifp.name] = vifp
				}
				vifp.copyState(ovifp)
				vifp.copySubtree(ovifp)
				continue
			}
		}
		if vifp == nil || vifp.IsMarked(Deleted) {
			continue
		}
		vifp.alignObservedAddrs(ovifp, uvifp)
	}
}

// alignObservedAddrs merges the changed addresses of o that are not declared
// in user.
func (v *Vif) alignObservedAddrs(o, user *Vif) {
	for _, oap := range o.IPv4Addrs() {
		if oap.IsMarked(NoChange) {
			continue
		}
		if user != nil && user.FindAddr4(oap.addr) != nil {
			continue
		}
		ap := v.FindAddr4(oap.addr)
		if oap.IsMarked(Deleted) {
			if ap != nil {
				v.dropAddr4(ap)
			}
			continue
		}
		if ap == nil {
			ap = newAddr4(oap.addr)
			v.ipv4addrs[oap.addr] = ap
		} else if ap.IsMarked(Deleted) {
			continue
		}
		ap.copyState(oap)
	}
	for _, oap := range o.IPv6Addrs() {
		if oap.IsMarked(NoChange) {
			continue
		}
		if user != nil && user.FindAddr6(oap.addr) != nil {
			continue
		}
		ap := v.FindAddr6(oap.addr)
		if oap.IsMarked(Deleted) {
			if ap != nil {
				v.dropAddr6(ap)
			}
			continue
		}
		if ap == nil {
			ap = newAddr6(oap.addr)
			v.ipv6addrs[oap.addr] = ap
		} else if ap.IsMarked(Deleted) {
			continue
		}
		ap.copyState(oap)
	}
}

// PrepareReplacementState turns t into a plan that replaces other: every
// local entity is marked as created, every entity that only exists in other
// is added and marked as deleted.
func (t *IfTree) PrepareReplacementState(other *IfTree) *IfTree {
	for _, ifp := range t.interfaces {
		ifp.setState(Created)
		for _, vifp := range ifp.vifs {
			vifp.setState(Created)
			for _, ap := range vifp.ipv4addrs {
				ap.setState(Created)
			}
			for _, ap := range vifp.ipv6addrs {
				ap.setState(Created)
			}
		}
	}

	for _, oifp := range other.Interfaces() {
		ifp := t.FindInterface(oifp.name)
		if ifp == nil {
			ifp = oifp.clone(t)
			t.interfaces[ifp.name] = ifp
			t.updateIfIndex(ifp, 0)
			ifp.flipped = false
			ifp.setState(Deleted)
			for _, vifp := range ifp.vifs {
				vifp.setState(Deleted)
				for _, ap := range vifp.ipv4addrs {
					ap.setState(Deleted)
				}
				for _, ap := range vifp.ipv6addrs {
					ap.setState(Deleted)
				}
			}
			continue
		}
		for _, ovifp := range oifp.Vifs() {
			vifp := ifp.FindVif(ovifp.name)
			if vifp == nil {
				vifp = ovifp.clone()
				ifp.vifs[vifp.name] = vifp
				vifp.setState(Deleted)
				for _, ap := range vifp.ipv4addrs {
					ap.setState(Deleted)
				}
				for _, ap := range vifp.ipv6addrs {
					ap.setState(Deleted)
				}
				continue
			}
			for _, oap := range ovifp.IPv4Addrs() {
				if vifp.FindAddr4(oap.addr) == nil {
					ap := *oap
					ap.setState(Deleted)
					vifp.ipv4addrs[ap.addr] = &ap
				}
			}
			for _, oap := range ovifp.IPv6Addrs() {
				if vifp.FindAddr6(oap.addr) == nil {
					ap := *oap
					ap.setState(Deleted)
					vifp.ipv6addrs[ap.addr] = &ap
				}
			}
		}
	}
	return t
}

// PruneBogusDeletedState removes the entities marked as deleted that did
// not exist in previous either.
func (t *IfTree) PruneBogusDeletedState(previous *IfTree) *IfTree {
	for _, ifp := range t.Interfaces() {
		pifp := previous.FindInterface(ifp.name)
		if ifp.IsMarked(Deleted) && pifp == nil {
			t.eraseInterface(ifp)
			continue
		}
		for _, vifp := range ifp.Vifs() {
			var pvifp *Vif
			if pifp != nil {
				pvifp = pifp.FindVif(vifp.name)
			}
			if vifp.IsMarked(Deleted) && pvifp == nil {
				delete(ifp.vifs, vifp.name)
				continue
			}
			for _, ap := range vifp.IPv4Addrs() {
				if ap.IsMarked(Deleted) && (pvifp == nil || pvifp.FindAddr4(ap.addr) == nil) {
					delete(vifp.ipv4addrs, ap.addr)
				}
			}
			for _, ap := range vifp.IPv6Addrs() {
				if ap.IsMarked(Deleted) && (pvifp == nil || pvifp.FindAddr6(ap.addr) == nil) {
					delete(vifp.ipv6addrs, ap.addr)
				}
			}
		}
	}
	return t
}
