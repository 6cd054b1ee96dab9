package datastore

import (
	"context"
	"fmt"
	"net/netip"
	"slices"
	"sync"

	"github.com/sdcio/fea-server/pkg/tree"
	logf "github.com/sdcio/logger"
)

type EventKind int

const (
	EventCreated EventKind = iota
	EventChanged
	EventDeleted
	// EventCompleted closes a batch of events.
	EventCompleted
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventChanged:
		return "changed"
	case EventDeleted:
		return "deleted"
	case EventCompleted:
		return "completed"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

type EntityType int

const (
	EntityNone EntityType = iota
	EntityInterface
	EntityVif
	EntityAddr4
	EntityAddr6
)

func (e EntityType) String() string {
	switch e {
	case EntityNone:
		return "none"
	case EntityInterface:
		return "interface"
	case EntityVif:
		return "vif"
	case EntityAddr4:
		return "ipv4"
	case EntityAddr6:
		return "ipv6"
	}
	return fmt.Sprintf("EntityType(%d)", int(e))
}

// Event describes a change of one entity of the live configuration.
type Event struct {
	Kind    EventKind
	Entity  EntityType
	Ifname  string
	Vifname string
	Addr    netip.Addr
	Enabled bool
}

func (e Event) String() string {
	switch e.Entity {
	case EntityNone:
		return e.Kind.String()
	case EntityInterface:
		return fmt.Sprintf("%s %s %s enabled=%t", e.Kind, e.Entity, e.Ifname, e.Enabled)
	case EntityVif:
		return fmt.Sprintf("%s %s %s/%s enabled=%t", e.Kind, e.Entity, e.Ifname, e.Vifname, e.Enabled)
	}
	return fmt.Sprintf("%s %s %s/%s %s enabled=%t", e.Kind, e.Entity, e.Ifname, e.Vifname, e.Addr, e.Enabled)
}

// UpdateListener receives the changes of the live configuration.
type UpdateListener interface {
	Update(ctx context.Context, ev Event)
}

// UpdateListenerFunc adapts a function to UpdateListener.
type UpdateListenerFunc func(ctx context.Context, ev Event)

func (f UpdateListenerFunc) Update(ctx context.Context, ev Event) { f(ctx, ev) }

type listenerEntry struct {
	id int
	l  UpdateListener
}

// reporter replicates the tags of a tree to the registered listeners.
type reporter struct {
	m         sync.RWMutex
	nextID    int
	listeners []listenerEntry
	metrics   *metrics
}

// addListener returns the function removing the listener again.
func (r *reporter) addListener(l UpdateListener) func() {
	r.m.Lock()
	defer r.m.Unlock()
	r.nextID++
	id := r.nextID
	r.listeners = append(r.listeners, listenerEntry{id: id, l: l})
	return func() {
		r.m.Lock()
		defer r.m.Unlock()
		r.listeners = slices.DeleteFunc(r.listeners, func(e listenerEntry) bool { return e.id == id })
	}
}

func (r *reporter) send(ctx context.Context, ev Event) {
	r.m.RLock()
	listeners := slices.Clone(r.listeners)
	r.m.RUnlock()
	logf.FromContext(ctx).V(logf.VTrace).Info("update", "event", ev.String())
	for _, e := range listeners {
		e.l.Update(ctx, ev)
	}
	if r.metrics != nil {
		r.metrics.events.WithLabelValues(ev.Kind.String()).Inc()
	}
}

func kindOf(st tree.State) (EventKind, bool) {
	switch st {
	case tree.Created:
		return EventCreated, true
	case tree.Changed:
		return EventChanged, true
	case tree.Deleted:
		return EventDeleted, true
	}
	return 0, false
}

// report sends an event per tagged entity of t followed by a completion
// barrier, then reports the flipped interfaces as disabled and enabled
// again, each phase with its own barrier.
func (r *reporter) report(ctx context.Context, t *tree.IfTree) {
	updated := false
	emit := func(st tree.State, ev Event) {
		kind, ok := kindOf(st)
		if !ok {
			return
		}
		ev.Kind = kind
		r.send(ctx, ev)
		updated = true
	}

	for _, ifp := range t.Interfaces() {
		emit(ifp.State(), Event{Entity: EntityInterface, Ifname: ifp.Name(), Enabled: ifp.Enabled()})
		for _, vifp := range ifp.Vifs() {
			emit(vifp.State(), Event{Entity: EntityVif, Ifname: ifp.Name(), Vifname: vifp.Name(), Enabled: vifp.Enabled()})
			for _, ap := range vifp.IPv4Addrs() {
				emit(ap.State(), Event{Entity: EntityAddr4, Ifname: ifp.Name(), Vifname: vifp.Name(), Addr: ap.Addr(), Enabled: ap.Enabled()})
			}
			for _, ap := range vifp.IPv6Addrs() {
				emit(ap.State(), Event{Entity: EntityAddr6, Ifname: ifp.Name(), Vifname: vifp.Name(), Addr: ap.Addr(), Enabled: ap.Enabled()})
			}
		}
	}
	if updated {
		r.send(ctx, Event{Kind: EventCompleted})
	}

	var flipped []*tree.Interface
	for _, ifp := range t.Interfaces() {
		if ifp.Flipped() && ifp.Enabled() && !ifp.IsMarked(tree.Deleted) {
			flipped = append(flipped, ifp)
		}
	}
	if len(flipped) == 0 {
		return
	}
	for _, ifp := range flipped {
		r.send(ctx, Event{Kind: EventChanged, Entity: EntityInterface, Ifname: ifp.Name(), Enabled: false})
	}
	r.send(ctx, Event{Kind: EventCompleted})
	for _, ifp := range flipped {
		r.send(ctx, Event{Kind: EventChanged, Entity: EntityInterface, Ifname: ifp.Name(), Enabled: true})
	}
	r.send(ctx, Event{Kind: EventCompleted})
}
