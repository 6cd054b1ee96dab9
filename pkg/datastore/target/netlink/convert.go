package netlink

import (
	"net"
	"net/netip"

	"github.com/sdcio/fea-server/pkg/tree"
	"go4.org/netipx"
)

// linkFlags carries the link attributes the tree cares about, decoupled from
// the netlink types.
type linkFlags struct {
	up           bool
	broadcast    bool
	loopback     bool
	pointToPoint bool
	multicast    bool
}

func flagsFrom(f net.Flags) linkFlags {
	return linkFlags{
		up:           f&net.FlagUp != 0,
		broadcast:    f&net.FlagBroadcast != 0,
		loopback:     f&net.FlagLoopback != 0,
		pointToPoint: f&net.FlagPointToPoint != 0,
		multicast:    f&net.FlagMulticast != 0,
	}
}

func (lf linkFlags) applyToVif(vifp *tree.Vif) {
	vifp.SetEnabled(lf.up)
	vifp.SetBroadcast(lf.broadcast)
	vifp.SetLoopback(lf.loopback)
	vifp.SetPointToPoint(lf.pointToPoint)
	vifp.SetMulticast(lf.multicast)
}

// addAddress records an address reported by the kernel on vifp.
func addAddress(vifp *tree.Vif, ipnet *net.IPNet, peer *net.IPNet, bcast net.IP) error {
	p, ok := netipx.FromStdIPNet(ipnet)
	if !ok {
		return &net.ParseError{Type: "IP network", Text: ipnet.String()}
	}
	a := p.Addr()
	if a.Is4() {
		if err := vifp.AddAddr4(a); err != nil {
			return err
		}
		ap := vifp.FindAddr4(a)
		ap.SetEnabled(true)
		if err := ap.SetPrefixLen(uint8(p.Bits())); err != nil {
			return err
		}
		if b, ok := netipx.FromStdIP(bcast); ok {
			ap.SetBroadcast(b)
		}
		if peer != nil {
			if e, ok := netipx.FromStdIP(peer.IP); ok && e != a {
				ap.SetEndpoint(e)
			}
		}
		return nil
	}
	if err := vifp.AddAddr6(a); err != nil {
		return err
	}
	ap := vifp.FindAddr6(a)
	ap.SetEnabled(true)
	if err := ap.SetPrefixLen(uint8(p.Bits())); err != nil {
		return err
	}
	if peer != nil {
		if e, ok := netipx.FromStdIP(peer.IP); ok && e != a {
			ap.SetEndpoint(e)
		}
	}
	return nil
}

// removeAddress drops the address reported as gone by the kernel.
func removeAddress(vifp *tree.Vif, ipnet *net.IPNet) {
	p, ok := netipx.FromStdIPNet(ipnet)
	if !ok {
		return
	}
	if p.Addr().Is4() {
		_ = vifp.RemoveAddr4(p.Addr())
		return
	}
	_ = vifp.RemoveAddr6(p.Addr())
}

// toIPNet converts a tree prefix and optional peer for the kernel.
func toIPNet(p netip.Prefix) *net.IPNet {
	return netipx.PrefixIPNet(p)
}

func toPeer(endpoint netip.Addr) *net.IPNet {
	if !endpoint.IsValid() {
		return nil
	}
	return netipx.AddrIPNet(endpoint)
}

func toIP(a netip.Addr) net.IP {
	if !a.IsValid() {
		return nil
	}
	return net.IP(a.AsSlice())
}

// managed reports whether the link is within the configured filter.
func managed(filter map[string]struct{}, name string) bool {
	if len(filter) == 0 {
		return true
	}
	_, ok := filter[name]
	return ok
}
