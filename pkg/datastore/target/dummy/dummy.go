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

package dummy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"slices"
	"sync"

	"github.com/sdcio/fea-server/pkg/config"
	"github.com/sdcio/fea-server/pkg/datastore/ops"
	"github.com/sdcio/fea-server/pkg/datastore/target/types"
	"github.com/sdcio/fea-server/pkg/tree"
	logf "github.com/sdcio/logger"
)

var ErrNotRunning = errors.New("plugin not running")

// New returns the plugins of a dummy backend sharing one device.
func New(_ context.Context, cfg *config.BackendDummyOptions) (*types.Backend, *Device, error) {
	var initial []*config.InterfaceConfig
	if cfg != nil {
		initial = cfg.SystemInterfaces
	}
	dev, err := NewDevice(initial)
	if err != nil {
		return nil, nil, err
	}
	return NewBackend(dev), dev, nil
}

// NewBackend returns a new set of plugins operating on dev.
func NewBackend(dev *Device) *types.Backend {
	return &types.Backend{
		Get:      NewGet(dev),
		Set:      NewSet(dev),
		Observer: NewObserver(dev),
		VlanGet:  NewVlanGet(dev),
		VlanSet:  NewVlanSet(dev),
	}
}

// plugin implements the shared lifecycle.
type plugin struct {
	types.StatusTracker
	name string
	dev  *Device
}

func (p *plugin) Name() string { return p.name }

func (p *plugin) Start(ctx context.Context) error {
	if p.Status().IsRunning() {
		return nil
	}
	logf.FromContext(ctx).V(logf.VDebug).Info("plugin started", "plugin", p.name)
	p.SetStatus(types.PluginStatusRunning, nil)
	return nil
}

func (p *plugin) Stop(ctx context.Context) error {
	if !p.Status().IsRunning() {
		return nil
	}
	logf.FromContext(ctx).V(logf.VDebug).Info("plugin stopped", "plugin", p.name)
	p.SetStatus(types.PluginStatusStopped, nil)
	return nil
}

func (p *plugin) checkRunning() error {
	if !p.Status().IsRunning() {
		return fmt.Errorf("%s: %w", p.name, ErrNotRunning)
	}
	return nil
}

type getPlugin struct {
	plugin
}

func NewGet(dev *Device) types.Get {
	return &getPlugin{plugin{name: "dummy-get", dev: dev}}
}

// PullConfig copies the device state. VLAN membership is left to the
// VlanGet plugin.
func (p *getPlugin) PullConfig(ctx context.Context, t *tree.IfTree) error {
	if err := p.checkRunning(); err != nil {
		return err
	}
	p.dev.m.Lock()
	defer p.dev.m.Unlock()
	if p.dev.pullErr != nil {
		return p.dev.pullErr
	}
	t.Set(p.dev.config)
	for _, ifp := range t.Interfaces() {
		for _, vifp := range ifp.Vifs() {
			vifp.SetVlan(false, 0)
		}
	}
	t.FinalizeState()
	logf.FromContext(ctx).V(logf.VTrace).Info("pulled config", "config", t.String())
	return nil
}

type setPlugin struct {
	plugin
	vm      sync.Mutex
	vlanSet types.VlanSet
}

func NewSet(dev *Device) types.Set {
	return &setPlugin{plugin: plugin{name: "dummy-set", dev: dev}}
}

func (p *setPlugin) BindVlanSet(vs types.VlanSet) {
	p.vm.Lock()
	defer p.vm.Unlock()
	p.vlanSet = vs
}

// PushConfig applies the interfaces of t to the device. Interfaces that
// are not part of t are left alone. Changing the MAC of an enabled
// interface flips it.
func (p *setPlugin) PushConfig(ctx context.Context, t *tree.IfTree) error {
	if err := p.checkRunning(); err != nil {
		return err
	}
	log := logf.FromContext(ctx).WithName("Set")

	p.vm.Lock()
	vlanSet := p.vlanSet
	p.vm.Unlock()
	if vlanSet == nil && hasVlan(t) {
		return errors.New("vlan configuration requires a vlan plugin")
	}

	p.dev.m.Lock()
	if p.dev.pushErr != nil {
		p.dev.m.Unlock()
		return p.dev.pushErr
	}
	for _, ifp := range t.Interfaces() {
		dif := p.dev.config.FindInterface(ifp.Name())
		if ifp.IsMarked(tree.Deleted) {
			if dif != nil {
				_ = p.dev.config.RemoveInterface(ifp.Name())
			}
			continue
		}
		var oldMAC net.HardwareAddr
		pif := uint32(0)
		vlans := map[string]vlanState{}
		if dif != nil {
			oldMAC = slices.Clone(dif.MAC())
			pif = dif.PifIndex()
			for _, vifp := range dif.Vifs() {
				vlans[vifp.Name()] = vlanState{vifp.IsVlan(), vifp.VlanID()}
			}
		}
		if err := p.dev.config.UpdateInterface(ifp); err != nil {
			p.dev.m.Unlock()
			return err
		}
		dif = p.dev.config.FindInterface(ifp.Name())
		dif.SetPifIndex(pif)
		// VLAN membership is owned by the VlanSet plugin
		for _, vifp := range dif.Vifs() {
			st := vlans[vifp.Name()]
			vifp.SetVlan(st.isVlan, st.id)
		}
		p.dev.assignOSAttributes(dif)
		if oldMAC != nil && !bytes.Equal(oldMAC, ifp.MAC()) && ifp.Enabled() {
			log.V(logf.VDebug).Info("flipping interface", "interface", ifp.Name())
			ifp.SetFlipped(true)
		}
	}
	p.dev.config.FinalizeState()
	p.dev.m.Unlock()

	if vlanSet != nil {
		if err := vlanSet.PushVlanConfig(ctx, t); err != nil {
			return err
		}
	}

	p.dev.m.Lock()
	p.dev.pushes++
	p.dev.m.Unlock()
	return nil
}

type vlanState struct {
	isVlan bool
	id     uint16
}

func hasVlan(t *tree.IfTree) bool {
	for _, ifp := range t.Interfaces() {
		for _, vifp := range ifp.Vifs() {
			if vifp.IsVlan() && !vifp.IsMarked(tree.Deleted) {
				return true
			}
		}
	}
	return false
}

type vlanGetPlugin struct {
	plugin
}

func NewVlanGet(dev *Device) types.VlanGet {
	return &vlanGetPlugin{plugin{name: "dummy-vlan-get", dev: dev}}
}

// PullVlanConfig adds the VLAN membership of the device vifs to t.
func (p *vlanGetPlugin) PullVlanConfig(_ context.Context, t *tree.IfTree) error {
	if err := p.checkRunning(); err != nil {
		return err
	}
	p.dev.m.Lock()
	defer p.dev.m.Unlock()
	for _, dif := range p.dev.config.Interfaces() {
		for _, dvif := range dif.Vifs() {
			if !dvif.IsVlan() {
				continue
			}
			if vifp := t.FindVif(dif.Name(), dvif.Name()); vifp != nil {
				vifp.SetVlan(true, dvif.VlanID())
			}
		}
	}
	t.FinalizeState()
	return nil
}

type vlanSetPlugin struct {
	plugin
}

func NewVlanSet(dev *Device) types.VlanSet {
	return &vlanSetPlugin{plugin{name: "dummy-vlan-set", dev: dev}}
}

// PushVlanConfig applies the VLAN membership of the vifs in t.
func (p *vlanSetPlugin) PushVlanConfig(_ context.Context, t *tree.IfTree) error {
	if err := p.checkRunning(); err != nil {
		return err
	}
	p.dev.m.Lock()
	defer p.dev.m.Unlock()
	for _, ifp := range t.Interfaces() {
		for _, vifp := range ifp.Vifs() {
			if vifp.IsMarked(tree.Deleted) {
				continue
			}
			if dvif := p.dev.config.FindVif(ifp.Name(), vifp.Name()); dvif != nil {
				dvif.SetVlan(vifp.IsVlan(), vifp.VlanID())
			}
		}
	}
	p.dev.config.FinalizeState()
	return nil
}

type observerPlugin struct {
	plugin
	sm   sync.Mutex
	sink types.ChangeSink
}

func NewObserver(dev *Device) types.Observer {
	return &observerPlugin{plugin: plugin{name: "dummy-observer", dev: dev}}
}

func (p *observerPlugin) BindSink(sink types.ChangeSink) {
	p.sm.Lock()
	defer p.sm.Unlock()
	p.sink = sink
}

func (p *observerPlugin) Start(ctx context.Context) error {
	if err := p.plugin.Start(ctx); err != nil {
		return err
	}
	p.dev.registerObserver(p)
	return nil
}

func (p *observerPlugin) Stop(ctx context.Context) error {
	p.dev.unregisterObserver(p)
	return p.plugin.Stop(ctx)
}

// ReceiveData decodes a YAML list of interface records and forwards the
// resulting change to the sink.
func (p *observerPlugin) ReceiveData(ctx context.Context, raw []byte) error {
	if err := p.checkRunning(); err != nil {
		return err
	}
	records, err := config.ParseInterfaces(raw)
	if err != nil {
		return fmt.Errorf("%s: decoding notification: %w", p.name, err)
	}
	p.sm.Lock()
	sink := p.sink
	p.sm.Unlock()
	if sink == nil {
		logf.FromContext(ctx).Info("dropping notification, no sink bound", "plugin", p.name)
		return nil
	}
	sink.ObservedChange(ctx, func(system *tree.IfTree) error {
		opCtx := context.Background()
		for _, rec := range records {
			if rec.Deleted && system.FindInterface(rec.Name) == nil {
				continue
			}
			for _, op := range ops.FromInterfaceConfig(systemRecord(rec)) {
				if err := op.Dispatch(opCtx, system); err != nil {
					return fmt.Errorf("%s: %w", op, err)
				}
			}
		}
		return nil
	})
	return nil
}
