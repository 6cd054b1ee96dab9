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
	"net/netip"
)

const (
	MaxPrefixLen4 = 32
	MaxPrefixLen6 = 128
)

// Addr4 is an IPv4 address configured on a vif.
type Addr4 struct {
	item

	addr      netip.Addr
	enabled   bool
	prefixLen uint8
	// broadcast and endpoint are mutually exclusive, the latter is used on
	// point-to-point links
	bcast    netip.Addr
	endpoint netip.Addr
}

func newAddr4(a netip.Addr) *Addr4 {
	return &Addr4{
		item: item{state: Created},
		addr: a,
	}
}

func (a *Addr4) Addr() netip.Addr      { return a.addr }
func (a *Addr4) Enabled() bool         { return a.enabled }
func (a *Addr4) PrefixLen() uint8      { return a.prefixLen }
func (a *Addr4) Broadcast() netip.Addr { return a.bcast }
func (a *Addr4) Endpoint() netip.Addr  { return a.endpoint }

// Prefix returns the address with its prefix length.
func (a *Addr4) Prefix() netip.Prefix {
	return netip.PrefixFrom(a.addr, int(a.prefixLen))
}

func (a *Addr4) SetEnabled(v bool) {
	if a.enabled != v {
		a.enabled = v
		a.mark(Changed)
	}
}

// SetPrefixLen fails if the length exceeds the address width.
func (a *Addr4) SetPrefixLen(l uint8) error {
	if l > MaxPrefixLen4 {
		return fmt.Errorf("prefix length %d out of range 0..%d", l, MaxPrefixLen4)
	}
	if a.prefixLen != l {
		a.prefixLen = l
		a.mark(Changed)
	}
	return nil
}

func (a *Addr4) SetBroadcast(b netip.Addr) {
	if a.bcast != b {
		a.bcast = b
		a.mark(Changed)
	}
}

func (a *Addr4) SetEndpoint(e netip.Addr) {
	if a.endpoint != e {
		a.endpoint = e
		a.mark(Changed)
	}
}

func (a *Addr4) copyState(o *Addr4) {
	a.SetEnabled(o.enabled)
	_ = a.SetPrefixLen(o.prefixLen)
	a.SetBroadcast(o.bcast)
	a.SetEndpoint(o.endpoint)
}

func (a *Addr4) sameState(o *Addr4) bool {
	return a.enabled == o.enabled && a.prefixLen == o.prefixLen &&
		a.bcast == o.bcast && a.endpoint == o.endpoint
}

func (a *Addr4) String() string {
	return fmt.Sprintf("IPv4 %s { enabled := %t } { prefix_len := %d } { broadcast := %s } { endpoint := %s } %s",
		a.addr, a.enabled, a.prefixLen, a.bcast, a.endpoint, a.state)
}

// Addr6 is an IPv6 address configured on a vif.
type Addr6 struct {
	item

	addr      netip.Addr
	enabled   bool
	prefixLen uint8
	endpoint  netip.Addr
}

func newAddr6(a netip.Addr) *Addr6 {
	return &Addr6{
		item: item{state: Created},
		addr: a,
	}
}

func (a *Addr6) Addr() netip.Addr     { return a.addr }
func (a *Addr6) Enabled() bool        { return a.enabled }
func (a *Addr6) PrefixLen() uint8     { return a.prefixLen }
func (a *Addr6) Endpoint() netip.Addr { return a.endpoint }

func (a *Addr6) Prefix() netip.Prefix {
	return netip.PrefixFrom(a.addr, int(a.prefixLen))
}

func (a *Addr6) SetEnabled(v bool) {
	if a.enabled != v {
		a.enabled = v
		a.mark(Changed)
	}
}

func (a *Addr6) SetPrefixLen(l uint8) error {
	if l > MaxPrefixLen6 {
		return fmt.Errorf("prefix length %d out of range 0..%d", l, MaxPrefixLen6)
	}
	if a.prefixLen != l {
		a.prefixLen = l
		a.mark(Changed)
	}
	return nil
}

func (a *Addr6) SetEndpoint(e netip.Addr) {
	if a.endpoint != e {
		a.endpoint = e
		a.mark(Changed)
	}
}

func (a *Addr6) copyState(o *Addr6) {
	a.SetEnabled(o.enabled)
	_ = a.SetPrefixLen(o.prefixLen)
	a.SetEndpoint(o.endpoint)
}

func (a *Addr6) sameState(o *Addr6) bool {
	return a.enabled == o.enabled && a.prefixLen == o.prefixLen && a.endpoint == o.endpoint
}

func (a *Addr6) String() string {
	return fmt.Sprintf("IPv6 %s { enabled := %t } { prefix_len := %d } { endpoint := %s } %s",
		a.addr, a.enabled, a.prefixLen, a.endpoint, a.state)
}
