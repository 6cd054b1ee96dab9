package ops

import (
	"net/netip"

	"github.com/AlekSi/pointer"
	"github.com/sdcio/fea-server/pkg/config"
	"github.com/sdcio/fea-server/pkg/tree"
)

// ToInterfaceConfig renders t as interface records, the inverse of
// FromInterfaceConfig. Entities marked as deleted are skipped.
func ToInterfaceConfig(t *tree.IfTree) []*config.InterfaceConfig {
	result := make([]*config.InterfaceConfig, 0, len(t.Interfaces()))
	for _, ifp := range t.Interfaces() {
		if ifp.IsMarked(tree.Deleted) {
			continue
		}
		ic := &config.InterfaceConfig{
			Name:                ifp.Name(),
			Enabled:             pointer.ToBool(ifp.Enabled()),
			MTU:                 ifp.MTU(),
			DefaultSystemConfig: ifp.DefaultSystemConfig(),
		}
		if mac := ifp.MAC(); len(mac) > 0 {
			ic.MAC = mac.String()
		}
		for _, vifp := range ifp.Vifs() {
			if vifp.IsMarked(tree.Deleted) {
				continue
			}
			ic.Vifs = append(ic.Vifs, toVifConfig(vifp))
		}
		result = append(result, ic)
	}
	return result
}

func toVifConfig(vifp *tree.Vif) *config.VifConfig {
	vc := &config.VifConfig{
		Name:    vifp.Name(),
		Enabled: pointer.ToBool(vifp.Enabled()),
	}
	if vifp.IsVlan() {
		vc.VlanID = pointer.ToUint32(uint32(vifp.VlanID()))
	}
	for _, ap := range vifp.IPv4Addrs() {
		if ap.IsMarked(tree.Deleted) {
			continue
		}
		ac := &config.AddressConfig{
			Prefix:  ap.Prefix().String(),
			Enabled: pointer.ToBool(ap.Enabled()),
		}
		if b := ap.Broadcast(); b.IsValid() {
			ac.Broadcast = b.String()
		}
		ac.Endpoint = addrString(ap.Endpoint())
		vc.Addresses = append(vc.Addresses, ac)
	}
	for _, ap := range vifp.IPv6Addrs() {
		if ap.IsMarked(tree.Deleted) {
			continue
		}
		vc.Addresses = append(vc.Addresses, &config.AddressConfig{
			Prefix:   ap.Prefix().String(),
			Enabled:  pointer.ToBool(ap.Enabled()),
			Endpoint: addrString(ap.Endpoint()),
		})
	}
	return vc
}

func addrString(a netip.Addr) string {
	if !a.IsValid() {
		return ""
	}
	return a.String()
}
