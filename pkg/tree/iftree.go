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
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrPendingDelete = errors.New("pending deletion")
)

// IfTree is the interface configuration tree: interfaces own vifs, vifs own
// addresses. Every tree owns its entities, nothing is shared between trees.
type IfTree struct {
	name       string
	interfaces map[string]*Interface
	// reverse lookup by physical interface index
	ifindex map[uint32]*Interface
}

// NewIfTree returns an empty tree. The name is only used in debug output.
func NewIfTree(name string) *IfTree {
	return &IfTree{
		name:       name,
		interfaces: map[string]*Interface{},
		ifindex:    map[uint32]*Interface{},
	}
}

func (t *IfTree) Name() string {
	return t.name
}

// Clear removes all entities.
func (t *IfTree) Clear() {
	t.interfaces = map[string]*Interface{}
	t.ifindex = map[uint32]*Interface{}
}

// IsEmpty reports whether the tree holds no interface at all.
func (t *IfTree) IsEmpty() bool {
	return len(t.interfaces) == 0
}

// Interfaces returns the interfaces sorted by name, including the ones
// marked as deleted.
func (t *IfTree) Interfaces() []*Interface {
	result := make([]*Interface, 0, len(t.interfaces))
	for _, name := range slices.Sorted(maps.Keys(t.interfaces)) {
		result = append(result, t.interfaces[name])
	}
	return result
}

// FindInterface returns the named interface or nil.
func (t *IfTree) FindInterface(ifname string) *Interface {
	return t.interfaces[ifname]
}

// FindInterfaceByPifIndex returns the interface with the given physical
// index or nil.
func (t *IfTree) FindInterfaceByPifIndex(idx uint32) *Interface {
	if idx == 0 {
		return nil
	}
	return t.ifindex[idx]
}

// FindVif returns the vif or nil.
func (t *IfTree) FindVif(ifname, vifname string) *Vif {
	ifp := t.FindInterface(ifname)
	if ifp == nil {
		return nil
	}
	return ifp.FindVif(vifname)
}

// AddInterface creates the interface marked as Created. Adding an existing
// interface is a no-op, adding one that is pending deletion fails.
func (t *IfTree) AddInterface(ifname string) error {
	if ifp, exists := t.interfaces[ifname]; exists {
		if ifp.IsMarked(Deleted) {
			return fmt.Errorf("interface %s: %w", ifname, ErrPendingDelete)
		}
		return nil
	}
	t.interfaces[ifname] = newInterface(t, ifname)
	return nil
}

// RemoveInterface marks the interface and its subtree as deleted. The
// entities are physically removed by FinalizeState.
func (t *IfTree) RemoveInterface(ifname string) error {
	ifp := t.FindInterface(ifname)
	if ifp == nil {
		return fmt.Errorf("interface %s: %w", ifname, ErrNotFound)
	}
	ifp.markDeleted()
	return nil
}

// UpdateInterface copies the state of other, including its subtree, into
// this tree. The interface is created if missing. Vifs and addresses that
// are not present in other are marked as deleted.
func (t *IfTree) UpdateInterface(other *Interface) error {
	if err := t.AddInterface(other.Name()); err != nil {
		return err
	}
	ifp := t.interfaces[other.Name()]
	ifp.copyState(other)
	ifp.copySubtree(other)
	return nil
}

// eraseInterface physically removes the interface.
func (t *IfTree) eraseInterface(ifp *Interface) {
	if ifp.pifIndex != 0 && t.ifindex[ifp.pifIndex] == ifp {
		delete(t.ifindex, ifp.pifIndex)
	}
	delete(t.interfaces, ifp.name)
}

// dropInterface removes an interface that never existed anywhere else or
// marks it as deleted.
func (t *IfTree) dropInterface(ifp *Interface) {
	if ifp.IsMarked(Created) {
		t.eraseInterface(ifp)
		return
	}
	ifp.markDeleted()
}

func (t *IfTree) updateIfIndex(ifp *Interface, old uint32) {
	if old != 0 && t.ifindex[old] == ifp {
		delete(t.ifindex, old)
	}
	if ifp.pifIndex != 0 {
		t.ifindex[ifp.pifIndex] = ifp
	}
}

// FinalizeState removes every entity marked as deleted and resets the
// remaining ones to NoChange. Transient flags are cleared as well.
func (t *IfTree) FinalizeState() {
	for _, ifp := range t.Interfaces() {
		if ifp.IsMarked(Deleted) {
			t.eraseInterface(ifp)
			continue
		}
		ifp.finalizeState()
	}
}

// Clone returns a deep copy, states included.
func (t *IfTree) Clone() *IfTree {
	result := NewIfTree(t.name)
	t.cloneInto(result)
	return result
}

// CloneAs returns a deep copy carrying a different name.
func (t *IfTree) CloneAs(name string) *IfTree {
	result := NewIfTree(name)
	t.cloneInto(result)
	return result
}

func (t *IfTree) cloneInto(result *IfTree) {
	for name, ifp := range t.interfaces {
		c := ifp.clone(result)
		result.interfaces[name] = c
		if c.pifIndex != 0 {
			result.ifindex[c.pifIndex] = c
		}
	}
}

// Set replaces the content of the tree with a deep copy of other.
func (t *IfTree) Set(other *IfTree) {
	t.Clear()
	other.cloneInto(t)
}

// Equal compares the content of two trees, change states included.
func (t *IfTree) Equal(o *IfTree) bool {
	if len(t.interfaces) != len(o.interfaces) {
		return false
	}
	for name, ifp := range t.interfaces {
		oifp, ok := o.interfaces[name]
		if !ok || !ifp.equal(oifp) {
			return false
		}
	}
	return true
}

// String dumps the tree for debugging.
func (t *IfTree) String() string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "IfTree %s\n", t.name)
	for _, ifp := range t.Interfaces() {
		fmt.Fprintf(sb, "  %s\n", ifp)
		for _, vifp := range ifp.Vifs() {
			fmt.Fprintf(sb, "    %s\n", vifp)
			for _, a := range vifp.IPv4Addrs() {
				fmt.Fprintf(sb, "      %s\n", a)
			}
			for _, a := range vifp.IPv6Addrs() {
				fmt.Fprintf(sb, "      %s\n", a)
			}
		}
	}
	return sb.String()
}
