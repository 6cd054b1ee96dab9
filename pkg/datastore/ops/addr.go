package ops

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/sdcio/fea-server/pkg/tree"
)

func findAddr4(t *tree.IfTree, ifname, vifname string, a netip.Addr) (*tree.Addr4, error) {
	vifp, err := findVif(t, ifname, vifname)
	if err != nil {
		return nil, err
	}
	ap := vifp.FindAddr4(a)
	if ap == nil || ap.IsMarked(tree.Deleted) {
		return nil, fmt.Errorf("address %s on %s/%s: %w", a, ifname, vifname, tree.ErrNotFound)
	}
	return ap, nil
}

func findAddr6(t *tree.IfTree, ifname, vifname string, a netip.Addr) (*tree.Addr6, error) {
	vifp, err := findVif(t, ifname, vifname)
	if err != nil {
		return nil, err
	}
	ap := vifp.FindAddr6(a)
	if ap == nil || ap.IsMarked(tree.Deleted) {
		return nil, fmt.Errorf("address %s on %s/%s: %w", a, ifname, vifname, tree.ErrNotFound)
	}
	return ap, nil
}

// AddrKey locates an address below an interface and vif.
type AddrKey struct {
	Ifname  string
	Vifname string
	Addr    netip.Addr
}

func (k AddrKey) String() string {
	return fmt.Sprintf("%s %s %s", k.Ifname, k.Vifname, k.Addr)
}

type AddAddr4 struct{ AddrKey }

func NewAddAddr4(ifname, vifname string, a netip.Addr) *AddAddr4 {
	return &AddAddr4{AddrKey{ifname, vifname, a}}
}

func (o *AddAddr4) Dispatch(_ context.Context, t *tree.IfTree) error {
	vifp, err := findVif(t, o.Ifname, o.Vifname)
	if err != nil {
		return err
	}
	return vifp.AddAddr4(o.Addr)
}

func (o *AddAddr4) String() string { return "AddAddr4: " + o.AddrKey.String() }

type RemoveAddr4 struct{ AddrKey }

func NewRemoveAddr4(ifname, vifname string, a netip.Addr) *RemoveAddr4 {
	return &RemoveAddr4{AddrKey{ifname, vifname, a}}
}

func (o *RemoveAddr4) Dispatch(_ context.Context, t *tree.IfTree) error {
	vifp, err := findVif(t, o.Ifname, o.Vifname)
	if err != nil {
		return err
	}
	return vifp.RemoveAddr4(o.Addr)
}

func (o *RemoveAddr4) String() string { return "RemoveAddr4: " + o.AddrKey.String() }

type SetAddr4Enabled struct {
	AddrKey
	Enabled bool
}

func NewSetAddr4Enabled(ifname, vifname string, a netip.Addr, enabled bool) *SetAddr4Enabled {
	return &SetAddr4Enabled{AddrKey{ifname, vifname, a}, enabled}
}

func (o *SetAddr4Enabled) Dispatch(_ context.Context, t *tree.IfTree) error {
	ap, err := findAddr4(t, o.Ifname, o.Vifname, o.Addr)
	if err != nil {
		return err
	}
	ap.SetEnabled(o.Enabled)
	return nil
}

func (o *SetAddr4Enabled) String() string {
	return fmt.Sprintf("SetAddr4Enabled: %s %t", o.AddrKey, o.Enabled)
}

type SetAddr4Prefix struct {
	AddrKey
	PrefixLen uint32
}

func NewSetAddr4Prefix(ifname, vifname string, a netip.Addr, l uint32) *SetAddr4Prefix {
	return &SetAddr4Prefix{AddrKey{ifname, vifname, a}, l}
}

func (o *SetAddr4Prefix) Dispatch(_ context.Context, t *tree.IfTree) error {
	if o.PrefixLen > tree.MaxPrefixLen4 {
		return fmt.Errorf("prefix length %d out of range", o.PrefixLen)
	}
	ap, err := findAddr4(t, o.Ifname, o.Vifname, o.Addr)
	if err != nil {
		return err
	}
	return ap.SetPrefixLen(uint8(o.PrefixLen))
}

func (o *SetAddr4Prefix) String() string {
	s := fmt.Sprintf("SetAddr4Prefix: %s %d", o.AddrKey, o.PrefixLen)
	if o.PrefixLen > tree.MaxPrefixLen4 {
		s += fmt.Sprintf(" (valid range 0--%d)", tree.MaxPrefixLen4)
	}
	return s
}

type SetAddr4Endpoint struct {
	AddrKey
	Endpoint netip.Addr
}

func NewSetAddr4Endpoint(ifname, vifname string, a, endpoint netip.Addr) *SetAddr4Endpoint {
	return &SetAddr4Endpoint{AddrKey{ifname, vifname, a}, endpoint}
}

func (o *SetAddr4Endpoint) Dispatch(_ context.Context, t *tree.IfTree) error {
	if !o.Endpoint.Is4() {
		return fmt.Errorf("endpoint %s is not an IPv4 address", o.Endpoint)
	}
	ap, err := findAddr4(t, o.Ifname, o.Vifname, o.Addr)
	if err != nil {
		return err
	}
	ap.SetBroadcast(netip.Addr{})
	ap.SetEndpoint(o.Endpoint)
	return nil
}

func (o *SetAddr4Endpoint) String() string {
	return fmt.Sprintf("SetAddr4Endpoint: %s %s", o.AddrKey, o.Endpoint)
}

type SetAddr4Broadcast struct {
	AddrKey
	Broadcast netip.Addr
}

func NewSetAddr4Broadcast(ifname, vifname string, a, bcast netip.Addr) *SetAddr4Broadcast {
	return &SetAddr4Broadcast{AddrKey{ifname, vifname, a}, bcast}
}

func (o *SetAddr4Broadcast) Dispatch(_ context.Context, t *tree.IfTree) error {
	if !o.Broadcast.Is4() {
		return fmt.Errorf("broadcast %s is not an IPv4 address", o.Broadcast)
	}
	ap, err := findAddr4(t, o.Ifname, o.Vifname, o.Addr)
	if err != nil {
		return err
	}
	ap.SetEndpoint(netip.Addr{})
	ap.SetBroadcast(o.Broadcast)
	return nil
}

func (o *SetAddr4Broadcast) String() string {
	return fmt.Sprintf("SetAddr4Broadcast: %s %s", o.AddrKey, o.Broadcast)
}

type AddAddr6 struct{ AddrKey }

func NewAddAddr6(ifname, vifname string, a netip.Addr) *AddAddr6 {
	return &AddAddr6{AddrKey{ifname, vifname, a}}
}

func (o *AddAddr6) Dispatch(_ context.Context, t *tree.IfTree) error {
	vifp, err := findVif(t, o.Ifname, o.Vifname)
	if err != nil {
		return err
	}
	return vifp.AddAddr6(o.Addr)
}

func (o *AddAddr6) String() string { return "AddAddr6: " + o.AddrKey.String() }

type RemoveAddr6 struct{ AddrKey }

func NewRemoveAddr6(ifname, vifname string, a netip.Addr) *RemoveAddr6 {
	return &RemoveAddr6{AddrKey{ifname, vifname, a}}
}

func (o *RemoveAddr6) Dispatch(_ context.Context, t *tree.IfTree) error {
	vifp, err := findVif(t, o.Ifname, o.Vifname)
	if err != nil {
		return err
	}
	return vifp.RemoveAddr6(o.Addr)
}

func (o *RemoveAddr6) String() string { return "RemoveAddr6: " + o.AddrKey.String() }

type SetAddr6Enabled struct {
	AddrKey
	Enabled bool
}

func NewSetAddr6Enabled(ifname, vifname string, a netip.Addr, enabled bool) *SetAddr6Enabled {
	return &SetAddr6Enabled{AddrKey{ifname, vifname, a}, enabled}
}

func (o *SetAddr6Enabled) Dispatch(_ context.Context, t *tree.IfTree) error {
	ap, err := findAddr6(t, o.Ifname, o.Vifname, o.Addr)
	if err != nil {
		return err
	}
	ap.SetEnabled(o.Enabled)
	return nil
}

func (o *SetAddr6Enabled) String() string {
	return fmt.Sprintf("SetAddr6Enabled: %s %t", o.AddrKey, o.Enabled)
}

type SetAddr6Prefix struct {
	AddrKey
	PrefixLen uint32
}

func NewSetAddr6Prefix(ifname, vifname string, a netip.Addr, l uint32) *SetAddr6Prefix {
	return &SetAddr6Prefix{AddrKey{ifname, vifname, a}, l}
}

func (o *SetAddr6Prefix) Dispatch(_ context.Context, t *tree.IfTree) error {
	if o.PrefixLen > tree.MaxPrefixLen6 {
		return fmt.Errorf("prefix length %d out of range", o.PrefixLen)
	}
	ap, err := findAddr6(t, o.Ifname, o.Vifname, o.Addr)
	if err != nil {
		return err
	}
	return ap.SetPrefixLen(uint8(o.PrefixLen))
}

func (o *SetAddr6Prefix) String() string {
	s := fmt.Sprintf("SetAddr6Prefix: %s %d", o.AddrKey, o.PrefixLen)
	if o.PrefixLen > tree.MaxPrefixLen6 {
		s += fmt.Sprintf(" (valid range 0--%d)", tree.MaxPrefixLen6)
	}
	return s
}

type SetAddr6Endpoint struct {
	AddrKey
	Endpoint netip.Addr
}

func NewSetAddr6Endpoint(ifname, vifname string, a, endpoint netip.Addr) *SetAddr6Endpoint {
	return &SetAddr6Endpoint{AddrKey{ifname, vifname, a}, endpoint}
}

func (o *SetAddr6Endpoint) Dispatch(_ context.Context, t *tree.IfTree) error {
	if !o.Endpoint.Is6() || o.Endpoint.Is4In6() {
		return fmt.Errorf("endpoint %s is not an IPv6 address", o.Endpoint)
	}
	ap, err := findAddr6(t, o.Ifname, o.Vifname, o.Addr)
	if err != nil {
		return err
	}
	ap.SetEndpoint(o.Endpoint)
	return nil
}

func (o *SetAddr6Endpoint) String() string {
	return fmt.Sprintf("SetAddr6Endpoint: %s %s", o.AddrKey, o.Endpoint)
}
