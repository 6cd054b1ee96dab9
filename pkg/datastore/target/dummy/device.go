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
	"context"
	"fmt"
	"sync"

	"github.com/sdcio/fea-server/pkg/config"
	"github.com/sdcio/fea-server/pkg/datastore/ops"
	"github.com/sdcio/fea-server/pkg/tree"
)

// flagUp mirrors IFF_UP.
const flagUp = 0x1

// Device simulates a forwarding substrate. All plugins of a dummy backend
// share one device.
type Device struct {
	m           sync.Mutex
	config      *tree.IfTree
	nextIfIndex uint32
	pushErr     error
	pullErr     error
	pushes      int
	observers   map[*observerPlugin]struct{}
}

// NewDevice returns a device holding the given interfaces.
func NewDevice(initial []*config.InterfaceConfig) (*Device, error) {
	d := &Device{
		config:    tree.NewIfTree("dummy-device"),
		observers: map[*observerPlugin]struct{}{},
	}
	if err := d.apply(initial); err != nil {
		return nil, err
	}
	return d, nil
}

// Config returns a copy of the device state.
func (d *Device) Config() *tree.IfTree {
	d.m.Lock()
	defer d.m.Unlock()
	return d.config.Clone()
}

// SetPushError makes every following push fail with err, nil restores
// normal operation.
func (d *Device) SetPushError(err error) {
	d.m.Lock()
	defer d.m.Unlock()
	d.pushErr = err
}

// SetPullError makes every following pull fail with err.
func (d *Device) SetPullError(err error) {
	d.m.Lock()
	defer d.m.Unlock()
	d.pullErr = err
}

// Pushes returns the number of successful pushes.
func (d *Device) Pushes() int {
	d.m.Lock()
	defer d.m.Unlock()
	return d.pushes
}

// Notify applies the records to the device as if they happened outside of
// the FEA and delivers them to the running observers.
func (d *Device) Notify(ctx context.Context, raw []byte) error {
	records, err := config.ParseInterfaces(raw)
	if err != nil {
		return err
	}
	d.m.Lock()
	err = d.apply(records)
	observers := make([]*observerPlugin, 0, len(d.observers))
	for o := range d.observers {
		observers = append(observers, o)
	}
	d.m.Unlock()
	if err != nil {
		return err
	}
	for _, o := range observers {
		if err := o.ReceiveData(ctx, raw); err != nil {
			return err
		}
	}
	return nil
}

// apply requires the caller to hold the lock unless the device is not yet
// shared.
func (d *Device) apply(records []*config.InterfaceConfig) error {
	ctx := context.Background()
	for _, rec := range records {
		for _, op := range ops.FromInterfaceConfig(systemRecord(rec)) {
			if err := op.Dispatch(ctx, d.config); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
		if ifp := d.config.FindInterface(rec.Name); ifp != nil && !ifp.IsMarked(tree.Deleted) {
			d.assignOSAttributes(ifp)
		}
	}
	d.config.FinalizeState()
	return nil
}

// assignOSAttributes sets the attributes the OS owns.
func (d *Device) assignOSAttributes(ifp *tree.Interface) {
	if ifp.PifIndex() == 0 {
		d.nextIfIndex++
		ifp.SetPifIndex(d.nextIfIndex)
	}
	var flags uint32
	if ifp.Enabled() {
		flags |= flagUp
	}
	ifp.SetInterfaceFlags(flags)
	for _, vifp := range ifp.Vifs() {
		vifp.SetPifIndex(ifp.PifIndex())
	}
}

func (d *Device) registerObserver(o *observerPlugin) {
	d.m.Lock()
	defer d.m.Unlock()
	d.observers[o] = struct{}{}
}

func (d *Device) unregisterObserver(o *observerPlugin) {
	d.m.Lock()
	defer d.m.Unlock()
	delete(d.observers, o)
}

// systemRecord strips the flags that only make sense for declared
// configuration.
func systemRecord(rec *config.InterfaceConfig) *config.InterfaceConfig {
	if !rec.DefaultSystemConfig {
		return rec
	}
	r := *rec
	r.DefaultSystemConfig = false
	return &r
}
