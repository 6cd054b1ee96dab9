//go:build linux

package netlink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sdcio/fea-server/pkg/config"
	"github.com/sdcio/fea-server/pkg/datastore/target/types"
	"github.com/sdcio/fea-server/pkg/tree"
	logf "github.com/sdcio/logger"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// New returns the plugins driving the kernel through rtnetlink.
func New(_ context.Context, cfg *config.BackendNetlinkOptions) (*types.Backend, error) {
	if cfg == nil {
		cfg = &config.BackendNetlinkOptions{}
	}
	m := &mechanism{filter: map[string]struct{}{}}
	for _, name := range cfg.Interfaces {
		m.filter[name] = struct{}{}
	}
	return &types.Backend{
		Get:      &getPlugin{plugin: plugin{name: "netlink-get", m: m}},
		Set:      &setPlugin{plugin: plugin{name: "netlink-set", m: m}},
		Observer: newObserverPlugin(m, cfg.DisableObserver),
		VlanGet:  &vlanGetPlugin{plugin: plugin{name: "netlink-vlan-get", m: m}},
		VlanSet:  &vlanSetPlugin{plugin: plugin{name: "netlink-vlan-set", m: m}},
	}, nil
}

type mechanism struct {
	filter map[string]struct{}
}

type plugin struct {
	types.StatusTracker
	name string
	m    *mechanism
}

func (p *plugin) Name() string { return p.name }

func (p *plugin) Start(ctx context.Context) error {
	if p.Status().IsRunning() {
		return nil
	}
	p.SetStatus(types.PluginStatusRunning, nil)
	logf.FromContext(ctx).V(logf.VDebug).Info("plugin started", "plugin", p.name)
	return nil
}

func (p *plugin) Stop(ctx context.Context) error {
	if !p.Status().IsRunning() {
		return nil
	}
	p.SetStatus(types.PluginStatusStopped, nil)
	logf.FromContext(ctx).V(logf.VDebug).Info("plugin stopped", "plugin", p.name)
	return nil
}

// fillInterface copies the link attributes into the interface and its
// same-named vif.
func fillInterface(t *tree.IfTree, link netlink.Link) error {
	attrs := link.Attrs()
	if err := t.AddInterface(attrs.Name); err != nil {
		return err
	}
	ifp := t.FindInterface(attrs.Name)
	lf := flagsFrom(attrs.Flags)
	ifp.SetEnabled(lf.up)
	ifp.SetMTU(uint32(attrs.MTU))
	if len(attrs.HardwareAddr) > 0 {
		ifp.SetMAC(attrs.HardwareAddr)
	}
	ifp.SetInterfaceFlags(attrs.RawFlags)
	ifp.SetNoCarrier(attrs.RawFlags&unix.IFF_LOWER_UP == 0)
	ifp.SetPifIndex(uint32(attrs.Index))

	if err := ifp.AddVif(attrs.Name); err != nil {
		return err
	}
	vifp := ifp.FindVif(attrs.Name)
	lf.applyToVif(vifp)
	vifp.SetPifIndex(uint32(attrs.Index))
	return nil
}

func fillAddresses(vifp *tree.Vif, link netlink.Link) error {
	addrs, err := netlink.AddrList(link, netlink.FAMILY_ALL)
	if err != nil {
		return err
	}
	for _, a := range addrs {
		if err := addAddress(vifp, a.IPNet, a.Peer, a.Broadcast); err != nil {
			return err
		}
	}
	return nil
}

type getPlugin struct {
	plugin
}

// PullConfig reads every managed, non VLAN link with its addresses.
func (p *getPlugin) PullConfig(ctx context.Context, t *tree.IfTree) error {
	log := logf.FromContext(ctx).WithName("Get")
	links, err := netlink.LinkList()
	if err != nil {
		return err
	}
	t.Clear()
	for _, link := range links {
		if _, isVlan := link.(*netlink.Vlan); isVlan || !managed(p.m.filter, link.Attrs().Name) {
			continue
		}
		if err := fillInterface(t, link); err != nil {
			return err
		}
		vifp := t.FindVif(link.Attrs().Name, link.Attrs().Name)
		if err := fillAddresses(vifp, link); err != nil {
			return fmt.Errorf("link %s: %w", link.Attrs().Name, err)
		}
	}
	t.FinalizeState()
	log.V(logf.VTrace).Info("pulled config", "config", t.String())
	return nil
}

type vlanGetPlugin struct {
	plugin
}

// PullVlanConfig adds the VLAN links as vifs of their parent interface.
func (p *vlanGetPlugin) PullVlanConfig(_ context.Context, t *tree.IfTree) error {
	links, err := netlink.LinkList()
	if err != nil {
		return err
	}
	for _, link := range links {
		vlan, ok := link.(*netlink.Vlan)
		if !ok {
			continue
		}
		parent := t.FindInterfaceByPifIndex(uint32(vlan.ParentIndex))
		if parent == nil {
			continue
		}
		if err := parent.AddVif(vlan.Name); err != nil {
			return err
		}
		vifp := parent.FindVif(vlan.Name)
		flagsFrom(vlan.Flags).applyToVif(vifp)
		vifp.SetPifIndex(uint32(vlan.Index))
		vifp.SetVlan(true, uint16(vlan.VlanId))
		if err := fillAddresses(vifp, link); err != nil {
			return fmt.Errorf("vlan %s: %w", vlan.Name, err)
		}
	}
	t.FinalizeState()
	return nil
}

type setPlugin struct {
	plugin
	vm      sync.Mutex
	vlanSet types.VlanSet
}

func (p *setPlugin) BindVlanSet(vs types.VlanSet) {
	p.vm.Lock()
	defer p.vm.Unlock()
	p.vlanSet = vs
}

// PushConfig applies the managed interfaces of t to the kernel. Physical
// links cannot be removed, deleted interfaces are set down.
func (p *setPlugin) PushConfig(ctx context.Context, t *tree.IfTree) error {
	log := logf.FromContext(ctx).WithName("Set")
	var errs []error
	for _, ifp := range t.Interfaces() {
		if !managed(p.m.filter, ifp.Name()) {
			continue
		}
		link, err := netlink.LinkByName(ifp.Name())
		if err != nil {
			if !ifp.IsMarked(tree.Deleted) {
				errs = append(errs, fmt.Errorf("interface %s: %w", ifp.Name(), err))
			}
			continue
		}
		if ifp.IsMarked(tree.Deleted) {
			if err := netlink.LinkSetDown(link); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		if err := p.pushInterface(ctx, ifp, link); err != nil {
			errs = append(errs, fmt.Errorf("interface %s: %w", ifp.Name(), err))
			continue
		}
		if vifp := ifp.FindVif(ifp.Name()); vifp != nil {
			if err := pushAddresses(link, vifp); err != nil {
				errs = append(errs, fmt.Errorf("interface %s: %w", ifp.Name(), err))
			}
		}
	}

	p.vm.Lock()
	vlanSet := p.vlanSet
	p.vm.Unlock()
	if vlanSet != nil {
		if err := vlanSet.PushVlanConfig(ctx, t); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		log.Info("push failed", "errors", len(errs))
	}
	return errors.Join(errs...)
}

func (p *setPlugin) pushInterface(ctx context.Context, ifp *tree.Interface, link netlink.Link) error {
	attrs := link.Attrs()
	if ifp.MTU() != 0 && int(ifp.MTU()) != attrs.MTU {
		if err := netlink.LinkSetMTU(link, int(ifp.MTU())); err != nil {
			return err
		}
	}
	up := flagsFrom(attrs.Flags).up
	if mac := ifp.MAC(); len(mac) > 0 && !bytes.Equal(mac, attrs.HardwareAddr) {
		// the kernel refuses a new address on a running link
		if up {
			if err := netlink.LinkSetDown(link); err != nil {
				return err
			}
		}
		if err := netlink.LinkSetHardwareAddr(link, mac); err != nil {
			return err
		}
		if up && ifp.Enabled() {
			logf.FromContext(ctx).V(logf.VDebug).Info("flipping interface", "interface", ifp.Name())
			ifp.SetFlipped(true)
		}
		up = false
	}
	switch {
	case ifp.Enabled() && !up:
		return netlink.LinkSetUp(link)
	case !ifp.Enabled() && up:
		return netlink.LinkSetDown(link)
	}
	return nil
}

func pushAddresses(link netlink.Link, vifp *tree.Vif) error {
	for _, ap := range vifp.IPv4Addrs() {
		addr := &netlink.Addr{IPNet: toIPNet(ap.Prefix()), Peer: toPeer(ap.Endpoint()), Broadcast: toIP(ap.Broadcast())}
		if err := pushAddress(link, addr, ap.IsMarked(tree.Deleted) || !ap.Enabled()); err != nil {
			return err
		}
	}
	for _, ap := range vifp.IPv6Addrs() {
		addr := &netlink.Addr{IPNet: toIPNet(ap.Prefix()), Peer: toPeer(ap.Endpoint())}
		if err := pushAddress(link, addr, ap.IsMarked(tree.Deleted) || !ap.Enabled()); err != nil {
			return err
		}
	}
	return nil
}

func pushAddress(link netlink.Link, addr *netlink.Addr, remove bool) error {
	if remove {
		if err := netlink.AddrDel(link, addr); err != nil && !errors.Is(err, unix.EADDRNOTAVAIL) {
			return err
		}
		return nil
	}
	return netlink.AddrReplace(link, addr)
}

type vlanSetPlugin struct {
	plugin
}

// PushVlanConfig creates, updates and removes the VLAN links of t.
func (p *vlanSetPlugin) PushVlanConfig(_ context.Context, t *tree.IfTree) error {
	var errs []error
	for _, ifp := range t.Interfaces() {
		if !managed(p.m.filter, ifp.Name()) {
			continue
		}
		for _, vifp := range ifp.Vifs() {
			if !vifp.IsVlan() {
				continue
			}
			if err := p.pushVlan(ifp, vifp); err != nil {
				errs = append(errs, fmt.Errorf("vlan %s: %w", vifp.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}

func (p *vlanSetPlugin) pushVlan(ifp *tree.Interface, vifp *tree.Vif) error {
	link, err := netlink.LinkByName(vifp.Name())
	var notFound netlink.LinkNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return err
	}
	deleted := vifp.IsMarked(tree.Deleted) || ifp.IsMarked(tree.Deleted)
	if deleted {
		if link == nil {
			return nil
		}
		return netlink.LinkDel(link)
	}
	if vlan, ok := link.(*netlink.Vlan); ok && vlan.VlanId != int(vifp.VlanID()) {
		// the id of a VLAN link is immutable
		if err := netlink.LinkDel(link); err != nil {
			return err
		}
		link = nil
	}
	if link == nil {
		parent, err := netlink.LinkByName(ifp.Name())
		if err != nil {
			return err
		}
		la := netlink.NewLinkAttrs()
		la.Name = vifp.Name()
		la.ParentIndex = parent.Attrs().Index
		if err := netlink.LinkAdd(&netlink.Vlan{LinkAttrs: la, VlanId: int(vifp.VlanID())}); err != nil {
			return err
		}
		if link, err = netlink.LinkByName(vifp.Name()); err != nil {
			return err
		}
	}
	if vifp.Enabled() {
		if err := netlink.LinkSetUp(link); err != nil {
			return err
		}
	} else if err := netlink.LinkSetDown(link); err != nil {
		return err
	}
	return pushAddresses(link, vifp)
}

type observerPlugin struct {
	plugin
	// a passive observer does not subscribe, it only decodes ReceiveData
	passive       bool
	linkSubscribe func(ch chan<- netlink.LinkUpdate, done <-chan struct{}) error
	addrSubscribe func(ch chan<- netlink.AddrUpdate, done <-chan struct{}) error

	sm   sync.Mutex
	sink types.ChangeSink

	// guards the subscription lifecycle
	lm     sync.Mutex
	done   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newObserverPlugin(m *mechanism, passive bool) *observerPlugin {
	return &observerPlugin{
		plugin:        plugin{name: "netlink-observer", m: m},
		passive:       passive,
		linkSubscribe: netlink.LinkSubscribe,
		addrSubscribe: netlink.AddrSubscribe,
	}
}

func (p *observerPlugin) BindSink(sink types.ChangeSink) {
	p.sm.Lock()
	defer p.sm.Unlock()
	p.sink = sink
}

// Start subscribes to link and address notifications. The forwarding
// goroutine outlives ctx and ends with Stop.
func (p *observerPlugin) Start(ctx context.Context) error {
	p.lm.Lock()
	defer p.lm.Unlock()
	if p.Status().IsRunning() {
		return nil
	}
	if p.passive {
		return p.plugin.Start(ctx)
	}
	done := make(chan struct{})
	linkCh := make(chan netlink.LinkUpdate)
	addrCh := make(chan netlink.AddrUpdate)
	if err := p.linkSubscribe(linkCh, done); err != nil {
		close(done)
		p.SetStatus(types.PluginStatusFailed, err)
		return err
	}
	if err := p.addrSubscribe(addrCh, done); err != nil {
		close(done)
		p.SetStatus(types.PluginStatusFailed, err)
		return err
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.done, p.cancel = done, cancel
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.run(runCtx, linkCh, addrCh)
	}()
	return p.plugin.Start(ctx)
}

// Stop closes the subscriptions and waits for the forwarding goroutine.
func (p *observerPlugin) Stop(ctx context.Context) error {
	p.lm.Lock()
	defer p.lm.Unlock()
	if p.cancel != nil {
		p.cancel()
		close(p.done)
		p.cancel, p.done = nil, nil
	}
	p.wg.Wait()
	return p.plugin.Stop(ctx)
}

func (p *observerPlugin) run(ctx context.Context, linkCh <-chan netlink.LinkUpdate, addrCh <-chan netlink.AddrUpdate) {
	for {
		select {
		case <-ctx.Done():
			return
		case upd, ok := <-linkCh:
			if !ok {
				return
			}
			if !managed(p.m.filter, upd.Link.Attrs().Name) {
				continue
			}
			p.forward(ctx, linkChange(upd.Link, upd.Header.Type == unix.RTM_DELLINK))
		case upd, ok := <-addrCh:
			if !ok {
				return
			}
			p.forward(ctx, addrChange(upd))
		}
	}
}

// ReceiveData decodes a raw RTM_NEWLINK payload.
func (p *observerPlugin) ReceiveData(ctx context.Context, raw []byte) error {
	link, err := netlink.LinkDeserialize(nil, raw)
	if err != nil {
		return fmt.Errorf("%s: decoding notification: %w", p.name, err)
	}
	if managed(p.m.filter, link.Attrs().Name) {
		p.forward(ctx, linkChange(link, false))
	}
	return nil
}

func (p *observerPlugin) forward(ctx context.Context, change types.ObservedChange) {
	p.sm.Lock()
	sink := p.sink
	p.sm.Unlock()
	if sink == nil {
		logf.FromContext(ctx).Info("dropping notification, no sink bound", "plugin", p.name)
		return
	}
	sink.ObservedChange(ctx, change)
}

func linkChange(link netlink.Link, deleted bool) types.ObservedChange {
	return func(system *tree.IfTree) error {
		name := link.Attrs().Name
		if vlan, ok := link.(*netlink.Vlan); ok {
			parent := system.FindInterfaceByPifIndex(uint32(vlan.ParentIndex))
			if parent == nil {
				return nil
			}
			if deleted {
				if parent.FindVif(name) != nil {
					return parent.RemoveVif(name)
				}
				return nil
			}
			if err := parent.AddVif(name); err != nil {
				return err
			}
			vifp := parent.FindVif(name)
			flagsFrom(vlan.Flags).applyToVif(vifp)
			vifp.SetPifIndex(uint32(vlan.Index))
			vifp.SetVlan(true, uint16(vlan.VlanId))
			return nil
		}
		if deleted {
			if system.FindInterface(name) != nil {
				return system.RemoveInterface(name)
			}
			return nil
		}
		return fillInterface(system, link)
	}
}

func addrChange(upd netlink.AddrUpdate) types.ObservedChange {
	return func(system *tree.IfTree) error {
		ifp := system.FindInterfaceByPifIndex(uint32(upd.LinkIndex))
		var vifp *tree.Vif
		if ifp != nil {
			vifp = ifp.FindVif(ifp.Name())
		} else {
			// address on a VLAN link
			for _, i := range system.Interfaces() {
				for _, v := range i.Vifs() {
					if v.PifIndex() == uint32(upd.LinkIndex) {
						vifp = v
					}
				}
			}
		}
		if vifp == nil {
			return nil
		}
		ipnet := upd.LinkAddress
		if !upd.NewAddr {
			removeAddress(vifp, &ipnet)
			return nil
		}
		return addAddress(vifp, &ipnet, nil, nil)
	}
}
