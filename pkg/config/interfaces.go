package config

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"

	"gopkg.in/yaml.v2"
)

// InterfaceConfig describes an interface with its vifs and addresses. The
// same record is used for the declared configuration, the initial state of
// the dummy backend and the notifications it observes.
type InterfaceConfig struct {
	Name    string `yaml:"name" json:"name"`
	Enabled *bool  `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	MTU     uint32 `yaml:"mtu,omitempty" json:"mtu,omitempty"`
	MAC     string `yaml:"mac,omitempty" json:"mac,omitempty"`
	// mirror the system state instead of declaring attributes
	DefaultSystemConfig bool `yaml:"default-system-config,omitempty" json:"default-system-config,omitempty"`
	// only meaningful in notifications
	Deleted bool         `yaml:"deleted,omitempty" json:"deleted,omitempty"`
	Vifs    []*VifConfig `yaml:"vifs,omitempty" json:"vifs,omitempty"`

	mac net.HardwareAddr
}

type VifConfig struct {
	Name    string `yaml:"name" json:"name"`
	Enabled *bool  `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	// makes the vif a VLAN sub-interface
	VlanID    *uint32          `yaml:"vlan-id,omitempty" json:"vlan-id,omitempty"`
	Deleted   bool             `yaml:"deleted,omitempty" json:"deleted,omitempty"`
	Addresses []*AddressConfig `yaml:"addresses,omitempty" json:"addresses,omitempty"`
}

type AddressConfig struct {
	// address with prefix length, e.g. 10.0.0.1/24
	Prefix    string `yaml:"prefix" json:"prefix"`
	Enabled   *bool  `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Broadcast string `yaml:"broadcast,omitempty" json:"broadcast,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	Deleted   bool   `yaml:"deleted,omitempty" json:"deleted,omitempty"`

	prefix    netip.Prefix
	broadcast netip.Addr
	endpoint  netip.Addr
}

// LoadInterfaces reads a YAML list of interface records.
func LoadInterfaces(file string) ([]*InterfaceConfig, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return ParseInterfaces(b)
}

// ParseInterfaces decodes and validates a YAML list of interface records.
func ParseInterfaces(b []byte) ([]*InterfaceConfig, error) {
	result := []*InterfaceConfig{}
	if err := yaml.Unmarshal(b, &result); err != nil {
		return nil, err
	}
	if err := validateInterfaces(result); err != nil {
		return nil, err
	}
	return result, nil
}

func validateInterfaces(ifs []*InterfaceConfig) error {
	seen := map[string]struct{}{}
	for _, i := range ifs {
		if err := i.validateSetDefaults(); err != nil {
			return err
		}
		if _, exists := seen[i.Name]; exists {
			return fmt.Errorf("duplicate interface %q", i.Name)
		}
		seen[i.Name] = struct{}{}
	}
	return nil
}

func (i *InterfaceConfig) validateSetDefaults() error {
	if i.Name == "" {
		return errors.New("interface without name")
	}
	if i.MAC != "" {
		mac, err := net.ParseMAC(i.MAC)
		if err != nil {
			return fmt.Errorf("interface %s: %w", i.Name, err)
		}
		i.mac = mac
	}
	seen := map[string]struct{}{}
	for _, v := range i.Vifs {
		if v.Name == "" {
			return fmt.Errorf("interface %s: vif without name", i.Name)
		}
		if _, exists := seen[v.Name]; exists {
			return fmt.Errorf("interface %s: duplicate vif %q", i.Name, v.Name)
		}
		seen[v.Name] = struct{}{}
		for _, a := range v.Addresses {
			if err := a.validateSetDefaults(); err != nil {
				return fmt.Errorf("interface %s vif %s: %w", i.Name, v.Name, err)
			}
		}
	}
	return nil
}

func (i *InterfaceConfig) HardwareAddr() net.HardwareAddr {
	return i.mac
}

func (i *InterfaceConfig) IsEnabled() bool {
	return i.Enabled == nil || *i.Enabled
}

func (v *VifConfig) IsEnabled() bool {
	return v.Enabled == nil || *v.Enabled
}

func (a *AddressConfig) validateSetDefaults() error {
	p, err := netip.ParsePrefix(a.Prefix)
	if err != nil {
		return err
	}
	a.prefix = p
	if a.Broadcast != "" {
		if a.broadcast, err = netip.ParseAddr(a.Broadcast); err != nil {
			return err
		}
		if !p.Addr().Is4() || !a.broadcast.Is4() {
			return fmt.Errorf("broadcast %s only valid for IPv4", a.Broadcast)
		}
	}
	if a.Endpoint != "" {
		if a.endpoint, err = netip.ParseAddr(a.Endpoint); err != nil {
			return err
		}
		if a.endpoint.Is4() != p.Addr().Is4() {
			return fmt.Errorf("endpoint %s does not match the family of %s", a.Endpoint, a.Prefix)
		}
	}
	if a.Broadcast != "" && a.Endpoint != "" {
		return fmt.Errorf("address %s: broadcast and endpoint are mutually exclusive", a.Prefix)
	}
	return nil
}

func (a *AddressConfig) PrefixValue() netip.Prefix { return a.prefix }
func (a *AddressConfig) BroadcastAddr() netip.Addr { return a.broadcast }
func (a *AddressConfig) EndpointAddr() netip.Addr  { return a.endpoint }

func (a *AddressConfig) IsEnabled() bool {
	return a.Enabled == nil || *a.Enabled
}
