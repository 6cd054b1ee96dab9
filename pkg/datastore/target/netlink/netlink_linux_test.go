//go:build linux

package netlink

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"github.com/sdcio/fea-server/pkg/datastore/target/types"
)

// blockingSink holds every change until the forwarding context ends.
type blockingSink struct {
	entered  chan struct{}
	released chan struct{}
}

func (s *blockingSink) ObservedChange(ctx context.Context, _ types.ObservedChange) {
	close(s.entered)
	<-ctx.Done()
	close(s.released)
}

func newTestObserver(passive bool) *observerPlugin {
	return newObserverPlugin(&mechanism{filter: map[string]struct{}{}}, passive)
}

func TestObserver_StopEndsForwarding(t *testing.T) {
	var linkCh chan<- netlink.LinkUpdate
	var done <-chan struct{}
	p := newTestObserver(false)
	p.linkSubscribe = func(ch chan<- netlink.LinkUpdate, d <-chan struct{}) error {
		linkCh, done = ch, d
		return nil
	}
	p.addrSubscribe = func(chan<- netlink.AddrUpdate, <-chan struct{}) error { return nil }
	sink := &blockingSink{entered: make(chan struct{}), released: make(chan struct{})}
	p.BindSink(sink)

	ctx := context.Background()
	require.NoError(t, p.Start(ctx))
	assert.True(t, p.Status().IsRunning())

	linkCh <- netlink.LinkUpdate{
		Header: unix.NlMsghdr{Type: unix.RTM_NEWLINK},
		Link:   &netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Name: "eth0", Index: 5}},
	}
	select {
	case <-sink.entered:
	case <-time.After(time.Second):
		t.Fatal("change was not forwarded")
	}

	require.NoError(t, p.Stop(ctx))
	select {
	case <-sink.released:
	default:
		t.Fatal("forwarding goroutine still blocked after Stop")
	}
	select {
	case <-done:
	default:
		t.Fatal("subscriptions still open after Stop")
	}
	assert.False(t, p.Status().IsRunning())

	// restartable
	require.NoError(t, p.Start(ctx))
	require.NoError(t, p.Stop(ctx))
}

func TestObserver_StopWithoutStart(t *testing.T) {
	p := newTestObserver(false)
	require.NoError(t, p.Stop(context.Background()))
	assert.False(t, p.Status().IsRunning())
}

func TestObserver_SubscribeFailure(t *testing.T) {
	var linkDone <-chan struct{}
	p := newTestObserver(false)
	p.linkSubscribe = func(_ chan<- netlink.LinkUpdate, d <-chan struct{}) error {
		linkDone = d
		return nil
	}
	p.addrSubscribe = func(chan<- netlink.AddrUpdate, <-chan struct{}) error {
		return errors.New("permission denied")
	}

	err := p.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, types.PluginStatusFailed, p.Status().Status)
	select {
	case <-linkDone:
	default:
		t.Fatal("link subscription left open")
	}
	require.NoError(t, p.Stop(context.Background()))
}

func TestObserver_Passive(t *testing.T) {
	p := newTestObserver(true)
	p.linkSubscribe = func(chan<- netlink.LinkUpdate, <-chan struct{}) error {
		t.Error("passive observer subscribed to links")
		return nil
	}
	p.addrSubscribe = func(chan<- netlink.AddrUpdate, <-chan struct{}) error {
		t.Error("passive observer subscribed to addresses")
		return nil
	}

	ctx := context.Background()
	require.NoError(t, p.Start(ctx))
	assert.True(t, p.Status().IsRunning())
	require.NoError(t, p.Stop(ctx))
	assert.False(t, p.Status().IsRunning())
}

func TestNew_AlwaysHasObserver(t *testing.T) {
	b, err := New(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, b.Observer)
	assert.False(t, b.Observer.(*observerPlugin).passive)
}
