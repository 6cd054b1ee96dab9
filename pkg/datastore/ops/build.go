package ops

import (
	"github.com/sdcio/fea-server/pkg/config"
	"github.com/sdcio/fea-server/pkg/datastore/types"
)

// FromInterfaceConfig translates an interface record into the operations
// that create or update it. Records flagged as deleted translate into
// removals.
func FromInterfaceConfig(ic *config.InterfaceConfig) []types.Operation {
	if ic.Deleted {
		return []types.Operation{NewRemoveInterface(ic.Name)}
	}
	result := []types.Operation{NewAddInterface(ic.Name)}
	if ic.DefaultSystemConfig {
		// attributes come from the system
		return append(result, NewConfigureInterfaceFromSystem(ic.Name, ic.IsEnabled()))
	}
	result = append(result, NewSetInterfaceEnabled(ic.Name, ic.IsEnabled()))
	if ic.MTU != 0 {
		result = append(result, NewSetInterfaceMTU(ic.Name, ic.MTU))
	}
	if mac := ic.HardwareAddr(); mac != nil {
		result = append(result, NewSetInterfaceMAC(ic.Name, mac))
	}
	for _, vc := range ic.Vifs {
		result = append(result, fromVifConfig(ic.Name, vc)...)
	}
	return result
}

func fromVifConfig(ifname string, vc *config.VifConfig) []types.Operation {
	if vc.Deleted {
		return []types.Operation{NewRemoveInterfaceVif(ifname, vc.Name)}
	}
	result := []types.Operation{
		NewAddInterfaceVif(ifname, vc.Name),
		NewSetVifEnabled(ifname, vc.Name, vc.IsEnabled()),
	}
	if vc.VlanID != nil {
		result = append(result, NewSetVifVlan(ifname, vc.Name, *vc.VlanID))
	}
	for _, ac := range vc.Addresses {
		p := ac.PrefixValue()
		a := p.Addr()
		if a.Is4() {
			if ac.Deleted {
				result = append(result, NewRemoveAddr4(ifname, vc.Name, a))
				continue
			}
			result = append(result,
				NewAddAddr4(ifname, vc.Name, a),
				NewSetAddr4Prefix(ifname, vc.Name, a, uint32(p.Bits())),
				NewSetAddr4Enabled(ifname, vc.Name, a, ac.IsEnabled()),
			)
			if b := ac.BroadcastAddr(); b.IsValid() {
				result = append(result, NewSetAddr4Broadcast(ifname, vc.Name, a, b))
			}
			if e := ac.EndpointAddr(); e.IsValid() {
				result = append(result, NewSetAddr4Endpoint(ifname, vc.Name, a, e))
			}
			continue
		}
		if ac.Deleted {
			result = append(result, NewRemoveAddr6(ifname, vc.Name, a))
			continue
		}
		result = append(result,
			NewAddAddr6(ifname, vc.Name, a),
			NewSetAddr6Prefix(ifname, vc.Name, a, uint32(p.Bits())),
			NewSetAddr6Enabled(ifname, vc.Name, a, ac.IsEnabled()),
		)
		if e := ac.EndpointAddr(); e.IsValid() {
			result = append(result, NewSetAddr6Endpoint(ifname, vc.Name, a, e))
		}
	}
	return result
}
