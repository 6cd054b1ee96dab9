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

package config

import (
	"fmt"
)

const (
	BackendTypeDummy   = "dummy"
	BackendTypeNetlink = "netlink"

	TracingExporterStdout = "stdout"
	TracingExporterOTLP   = "otlp"
)

type BackendConfig struct {
	// Backend type, one of: dummy, netlink
	Type           string                 `yaml:"type,omitempty" json:"type,omitempty"`
	DummyOptions   *BackendDummyOptions   `yaml:"dummy-options,omitempty" json:"dummy-options,omitempty"`
	NetlinkOptions *BackendNetlinkOptions `yaml:"netlink-options,omitempty" json:"netlink-options,omitempty"`
}

type BackendDummyOptions struct {
	// interfaces present on the simulated substrate at startup
	SystemInterfaces []*InterfaceConfig `yaml:"system-interfaces,omitempty" json:"system-interfaces,omitempty"`
}

type BackendNetlinkOptions struct {
	// restrict the managed links to these names, all links when empty
	Interfaces []string `yaml:"interfaces,omitempty" json:"interfaces,omitempty"`
	// do not subscribe to link and address notifications, the observer
	// then only decodes pushed payloads
	DisableObserver bool `yaml:"disable-observer,omitempty" json:"disable-observer,omitempty"`
}

func (b *BackendConfig) validateSetDefaults() error {
	switch b.Type {
	case "":
		b.Type = defaultBackendType
		fallthrough
	case BackendTypeDummy:
		if b.DummyOptions == nil {
			b.DummyOptions = &BackendDummyOptions{}
		}
		if err := validateInterfaces(b.DummyOptions.SystemInterfaces); err != nil {
			return fmt.Errorf("dummy-options system-interfaces: %w", err)
		}
	case BackendTypeNetlink:
		if b.NetlinkOptions == nil {
			b.NetlinkOptions = &BackendNetlinkOptions{}
		}
	default:
		return fmt.Errorf("unknown backend type %q", b.Type)
	}
	return nil
}
