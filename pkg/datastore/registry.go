package datastore

import (
	"context"
	"slices"

	targettypes "github.com/sdcio/fea-server/pkg/datastore/target/types"
	logf "github.com/sdcio/logger"
)

type registrable interface {
	comparable
	targettypes.Plugin
}

// register adds p to list. An exclusive registration replaces the list,
// a plugin already present is ignored.
func register[P registrable](list []P, p P, exclusive bool) ([]P, bool) {
	if exclusive {
		return []P{p}, true
	}
	if slices.Contains(list, p) {
		return list, false
	}
	return append(list, p), true
}

func unregister[P registrable](list []P, p P) ([]P, error) {
	idx := slices.Index(list, p)
	if idx < 0 {
		return list, ErrNotFound
	}
	return slices.Delete(list, idx, idx+1), nil
}

// startLate starts a plugin registered while the datastore is running.
func (d *Datastore) startLate(ctx context.Context, p targettypes.Plugin) error {
	if !d.running {
		return nil
	}
	if err := p.Start(ctx); err != nil {
		return pluginError(p.Name(), err)
	}
	logf.FromContext(ctx).V(logf.VDebug).Info("late plugin started", "plugin", p.Name())
	return nil
}

// stopRejected stops a late plugin that was started but not kept.
func (d *Datastore) stopRejected(ctx context.Context, p targettypes.Plugin) {
	if err := p.Stop(ctx); err != nil {
		logf.FromContext(ctx).Error(err, "failed to stop rejected plugin", "plugin", p.Name())
	}
}

func (d *Datastore) stopRemoved(ctx context.Context, p targettypes.Plugin) error {
	if !d.running {
		return nil
	}
	return pluginError(p.Name(), p.Stop(ctx))
}

func (d *Datastore) RegisterGet(ctx context.Context, p targettypes.Get, exclusive bool) error {
	d.m.Lock()
	defer d.m.Unlock()
	prev := d.gets
	var added bool
	if d.gets, added = register(d.gets, p, exclusive); !added {
		return nil
	}
	if err := d.startLate(ctx, p); err != nil {
		d.gets = prev
		return err
	}
	return nil
}

func (d *Datastore) UnregisterGet(ctx context.Context, p targettypes.Get) error {
	d.m.Lock()
	defer d.m.Unlock()
	var err error
	if d.gets, err = unregister(d.gets, p); err != nil {
		return err
	}
	return d.stopRemoved(ctx, p)
}

// RegisterSet adds a Set plugin. A plugin joining a running datastore
// receives the live configuration right away and is not kept if it fails
// to start or to take that configuration.
func (d *Datastore) RegisterSet(ctx context.Context, p targettypes.Set, exclusive bool) error {
	d.m.Lock()
	defer d.m.Unlock()
	prev := d.sets
	var added bool
	if d.sets, added = register(d.sets, p, exclusive); !added {
		return nil
	}
	if b, ok := p.(targettypes.VlanSetBinder); ok && len(d.vlanSets) > 0 {
		b.BindVlanSet(d.vlanSets[0])
	}
	if err := d.startLate(ctx, p); err != nil {
		d.sets = prev
		return err
	}
	if !d.running {
		return nil
	}
	if err := p.PushConfig(ctx, d.pushed.Clone()); err != nil {
		d.sets = prev
		d.stopRejected(ctx, p)
		return pluginError(p.Name(), err)
	}
	return nil
}

func (d *Datastore) UnregisterSet(ctx context.Context, p targettypes.Set) error {
	d.m.Lock()
	defer d.m.Unlock()
	var err error
	if d.sets, err = unregister(d.sets, p); err != nil {
		return err
	}
	return d.stopRemoved(ctx, p)
}

// RegisterObserver adds an Observer plugin. Observers able to deliver
// decoded changes are bound to the datastore.
func (d *Datastore) RegisterObserver(ctx context.Context, p targettypes.Observer, exclusive bool) error {
	d.m.Lock()
	defer d.m.Unlock()
	prev := d.observers
	var added bool
	if d.observers, added = register(d.observers, p, exclusive); !added {
		return nil
	}
	if b, ok := p.(targettypes.SinkBinder); ok {
		b.BindSink(d)
	}
	if err := d.startLate(ctx, p); err != nil {
		d.observers = prev
		return err
	}
	return nil
}

func (d *Datastore) UnregisterObserver(ctx context.Context, p targettypes.Observer) error {
	d.m.Lock()
	defer d.m.Unlock()
	var err error
	if d.observers, err = unregister(d.observers, p); err != nil {
		return err
	}
	return d.stopRemoved(ctx, p)
}

func (d *Datastore) RegisterVlanGet(ctx context.Context, p targettypes.VlanGet, exclusive bool) error {
	d.m.Lock()
	defer d.m.Unlock()
	prev := d.vlanGets
	var added bool
	if d.vlanGets, added = register(d.vlanGets, p, exclusive); !added {
		return nil
	}
	if err := d.startLate(ctx, p); err != nil {
		d.vlanGets = prev
		return err
	}
	return nil
}

func (d *Datastore) UnregisterVlanGet(ctx context.Context, p targettypes.VlanGet) error {
	d.m.Lock()
	defer d.m.Unlock()
	var err error
	if d.vlanGets, err = unregister(d.vlanGets, p); err != nil {
		return err
	}
	return d.stopRemoved(ctx, p)
}

// RegisterVlanSet adds a VlanSet plugin and binds it to the Set plugins
// delegating their VLAN work. A plugin joining a running datastore
// receives the live configuration right away and is not kept if it fails
// to start or to take that configuration.
func (d *Datastore) RegisterVlanSet(ctx context.Context, p targettypes.VlanSet, exclusive bool) error {
	d.m.Lock()
	defer d.m.Unlock()
	prev := d.vlanSets
	var added bool
	if d.vlanSets, added = register(d.vlanSets, p, exclusive); !added {
		return nil
	}
	d.bindVlanSet()
	if err := d.startLate(ctx, p); err != nil {
		d.vlanSets = prev
		d.bindVlanSet()
		return err
	}
	if !d.running {
		return nil
	}
	if err := p.PushVlanConfig(ctx, d.pushed.Clone()); err != nil {
		d.vlanSets = prev
		d.bindVlanSet()
		d.stopRejected(ctx, p)
		return pluginError(p.Name(), err)
	}
	return nil
}

func (d *Datastore) UnregisterVlanSet(ctx context.Context, p targettypes.VlanSet) error {
	d.m.Lock()
	defer d.m.Unlock()
	var err error
	if d.vlanSets, err = unregister(d.vlanSets, p); err != nil {
		return err
	}
	d.bindVlanSet()
	return d.stopRemoved(ctx, p)
}

// bindVlanSet hands the first VlanSet plugin, or nil, to the Set plugins.
func (d *Datastore) bindVlanSet() {
	var vs targettypes.VlanSet
	if len(d.vlanSets) > 0 {
		vs = d.vlanSets[0]
	}
	for _, set := range d.sets {
		if b, ok := set.(targettypes.VlanSetBinder); ok {
			b.BindVlanSet(vs)
		}
	}
}

// RegisterBackend registers every plugin of b under its role.
func (d *Datastore) RegisterBackend(ctx context.Context, b *targettypes.Backend, exclusive bool) error {
	if b.Get != nil {
		if err := d.RegisterGet(ctx, b.Get, exclusive); err != nil {
			return err
		}
	}
	if b.VlanSet != nil {
		if err := d.RegisterVlanSet(ctx, b.VlanSet, exclusive); err != nil {
			return err
		}
	}
	if b.Set != nil {
		if err := d.RegisterSet(ctx, b.Set, exclusive); err != nil {
			return err
		}
	}
	if b.Observer != nil {
		if err := d.RegisterObserver(ctx, b.Observer, exclusive); err != nil {
			return err
		}
	}
	if b.VlanGet != nil {
		if err := d.RegisterVlanGet(ctx, b.VlanGet, exclusive); err != nil {
			return err
		}
	}
	return nil
}
