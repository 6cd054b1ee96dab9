package datastore

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/sdcio/fea-server/mocks/mocktarget"
	"github.com/sdcio/fea-server/pkg/config"
	"github.com/sdcio/fea-server/pkg/datastore/target/dummy"
	"github.com/sdcio/fea-server/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// eventRecorder collects the events sent to a listener.
type eventRecorder struct {
	m      sync.Mutex
	events []Event
}

func (r *eventRecorder) Update(_ context.Context, ev Event) {
	r.m.Lock()
	defer r.m.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) Events() []Event {
	r.m.Lock()
	defer r.m.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *eventRecorder) Reset() {
	r.m.Lock()
	defer r.m.Unlock()
	r.events = nil
}

type pluginRecorder interface {
	Name() *gomock.Call
	Start(ctx any) *gomock.Call
	Stop(ctx any) *gomock.Call
}

func allowName(r pluginRecorder, name string) {
	r.Name().Return(name).AnyTimes()
}

func allowLifecycle(r pluginRecorder, name string) {
	allowName(r, name)
	r.Start(gomock.Any()).Return(nil).AnyTimes()
	r.Stop(gomock.Any()).Return(nil).AnyTimes()
}

// idleGet pulls an empty substrate.
func idleGet(ctrl *gomock.Controller) *mocktarget.MockGet {
	get := mocktarget.NewMockGet(ctrl)
	allowLifecycle(get.EXPECT(), "idle-get")
	get.EXPECT().PullConfig(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	return get
}

// idleSet accepts every push.
func idleSet(ctrl *gomock.Controller) *mocktarget.MockSet {
	set := mocktarget.NewMockSet(ctrl)
	allowLifecycle(set.EXPECT(), "idle-set")
	set.EXPECT().PushConfig(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	return set
}

// idleObserver never reports a change.
func idleObserver(ctrl *gomock.Controller) *mocktarget.MockObserver {
	obs := mocktarget.NewMockObserver(ctrl)
	allowLifecycle(obs.EXPECT(), "idle-observer")
	return obs
}

const systemInterfaces = `
- name: lo
  mtu: 65536
  vifs:
  - name: lo
    addresses:
    - prefix: 127.0.0.1/8
`

// newDummyDatastore returns a running datastore driving a dummy device
// that starts with a loopback interface.
func newDummyDatastore(t *testing.T, cfg *config.Config) (*Datastore, *dummy.Device, *eventRecorder) {
	t.Helper()
	ctx := context.Background()
	ifs, err := config.ParseInterfaces([]byte(systemInterfaces))
	require.NoError(t, err)
	b, dev, err := dummy.New(ctx, &config.BackendDummyOptions{SystemInterfaces: ifs})
	require.NoError(t, err)

	d, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, d.RegisterBackend(ctx, b, false))
	require.NoError(t, d.Start(ctx))
	t.Cleanup(func() { _ = d.Stop(ctx) })

	rec := &eventRecorder{}
	d.AddListener(rec)
	return d, dev, rec
}

func TestStart_NoBackend(t *testing.T) {
	d, err := New(nil)
	require.NoError(t, err)
	err = d.Start(context.Background())
	assert.ErrorIs(t, err, ErrNoBackend)
	assert.False(t, d.IsRunning())
}

func TestStart_RequiresMandatoryRoles(t *testing.T) {
	tests := []struct {
		name     string
		get      bool
		set      bool
		observer bool
		want     string
	}{
		{name: "no get", set: true, observer: true, want: "no Get plugin"},
		{name: "no set", get: true, observer: true, want: "no Set plugin"},
		{name: "no observer", get: true, set: true, want: "no Observer plugin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mockCtrl := gomock.NewController(t)
			d, err := New(nil)
			require.NoError(t, err)

			// no Start expectations, nothing may be started
			if tt.get {
				get := mocktarget.NewMockGet(mockCtrl)
				allowName(get.EXPECT(), "get")
				require.NoError(t, d.RegisterGet(ctx, get, false))
			}
			if tt.set {
				set := mocktarget.NewMockSet(mockCtrl)
				allowName(set.EXPECT(), "set")
				require.NoError(t, d.RegisterSet(ctx, set, false))
			}
			if tt.observer {
				obs := mocktarget.NewMockObserver(mockCtrl)
				allowName(obs.EXPECT(), "observer")
				require.NoError(t, d.RegisterObserver(ctx, obs, false))
			}

			err = d.Start(ctx)
			assert.ErrorIs(t, err, ErrNoBackend)
			assert.ErrorContains(t, err, tt.want)
			assert.False(t, d.IsRunning())
		})
	}
}

func TestStart_StopOrder(t *testing.T) {
	ctx := context.Background()
	mockCtrl := gomock.NewController(t)

	get := mocktarget.NewMockGet(mockCtrl)
	set := mocktarget.NewMockSet(mockCtrl)
	obs := mocktarget.NewMockObserver(mockCtrl)
	vget := mocktarget.NewMockVlanGet(mockCtrl)
	vset := mocktarget.NewMockVlanSet(mockCtrl)
	allowName(get.EXPECT(), "get")
	allowName(set.EXPECT(), "set")
	allowName(obs.EXPECT(), "observer")
	allowName(vget.EXPECT(), "vlan-get")
	allowName(vset.EXPECT(), "vlan-set")

	gomock.InOrder(
		get.EXPECT().Start(gomock.Any()).Return(nil),
		set.EXPECT().Start(gomock.Any()).Return(nil),
		obs.EXPECT().Start(gomock.Any()).Return(nil),
		vget.EXPECT().Start(gomock.Any()).Return(nil),
		vset.EXPECT().Start(gomock.Any()).Return(nil),
		get.EXPECT().PullConfig(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, t *tree.IfTree) error {
			return t.AddInterface("eth0")
		}),
		vget.EXPECT().PullVlanConfig(gomock.Any(), gomock.Any()).Return(nil),
		vset.EXPECT().Stop(gomock.Any()).Return(nil),
		vget.EXPECT().Stop(gomock.Any()).Return(nil),
		obs.EXPECT().Stop(gomock.Any()).Return(nil),
		set.EXPECT().Stop(gomock.Any()).Return(nil),
		get.EXPECT().Stop(gomock.Any()).Return(nil),
	)

	d, err := New(nil)
	require.NoError(t, err)
	// registration order differs from start order on purpose
	require.NoError(t, d.RegisterVlanSet(ctx, vset, false))
	require.NoError(t, d.RegisterObserver(ctx, obs, false))
	require.NoError(t, d.RegisterVlanGet(ctx, vget, false))
	require.NoError(t, d.RegisterSet(ctx, set, false))
	require.NoError(t, d.RegisterGet(ctx, get, false))

	require.NoError(t, d.Start(ctx))
	assert.True(t, d.IsRunning())
	assert.NotNil(t, d.OriginalConfig().FindInterface("eth0"))
	assert.NotNil(t, d.LiveConfig().FindInterface("eth0"))

	// starting twice is a no-op
	require.NoError(t, d.Start(ctx))

	require.NoError(t, d.Stop(ctx))
	assert.False(t, d.IsRunning())
	require.NoError(t, d.Stop(ctx))
}

func TestStart_PluginFailureStopsStartedPlugins(t *testing.T) {
	ctx := context.Background()
	mockCtrl := gomock.NewController(t)

	get := mocktarget.NewMockGet(mockCtrl)
	set := mocktarget.NewMockSet(mockCtrl)
	obs := mocktarget.NewMockObserver(mockCtrl)
	allowName(get.EXPECT(), "get")
	allowName(set.EXPECT(), "set")
	allowName(obs.EXPECT(), "observer")

	startErr := errors.New("socket unavailable")
	gomock.InOrder(
		get.EXPECT().Start(gomock.Any()).Return(nil),
		set.EXPECT().Start(gomock.Any()).Return(startErr),
		get.EXPECT().Stop(gomock.Any()).Return(nil),
	)

	d, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, d.RegisterGet(ctx, get, false))
	require.NoError(t, d.RegisterSet(ctx, set, false))
	require.NoError(t, d.RegisterObserver(ctx, obs, false))

	err = d.Start(ctx)
	assert.ErrorIs(t, err, ErrPluginFailure)
	assert.ErrorIs(t, err, startErr)
	var pe *PluginError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "set", pe.Plugin)
	assert.False(t, d.IsRunning())
}

func TestStop_CollectsFailures(t *testing.T) {
	ctx := context.Background()
	mockCtrl := gomock.NewController(t)

	get := mocktarget.NewMockGet(mockCtrl)
	set := mocktarget.NewMockSet(mockCtrl)
	allowName(get.EXPECT(), "get")
	allowName(set.EXPECT(), "set")
	get.EXPECT().Start(gomock.Any()).Return(nil)
	set.EXPECT().Start(gomock.Any()).Return(nil)
	get.EXPECT().PullConfig(gomock.Any(), gomock.Any()).Return(nil)

	errGet := errors.New("get stuck")
	errSet := errors.New("set stuck")
	set.EXPECT().Stop(gomock.Any()).Return(errSet)
	get.EXPECT().Stop(gomock.Any()).Return(errGet)

	d, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, d.RegisterGet(ctx, get, false))
	require.NoError(t, d.RegisterSet(ctx, set, false))
	require.NoError(t, d.RegisterObserver(ctx, idleObserver(mockCtrl), false))
	require.NoError(t, d.Start(ctx))

	err = d.Stop(ctx)
	assert.ErrorIs(t, err, errGet)
	assert.ErrorIs(t, err, errSet)
	assert.ErrorIs(t, err, ErrPluginFailure)
	assert.False(t, d.IsRunning())
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	mockCtrl := gomock.NewController(t)

	get1 := mocktarget.NewMockGet(mockCtrl)
	get2 := mocktarget.NewMockGet(mockCtrl)
	get3 := mocktarget.NewMockGet(mockCtrl)

	d, err := New(nil)
	require.NoError(t, err)

	require.NoError(t, d.RegisterGet(ctx, get1, false))
	require.NoError(t, d.RegisterGet(ctx, get2, false))
	// duplicates are ignored
	require.NoError(t, d.RegisterGet(ctx, get1, false))
	assert.Equal(t, []*mocktarget.MockGet{get1, get2}, asMocks(d.gets))

	// exclusive replaces the list
	require.NoError(t, d.RegisterGet(ctx, get3, true))
	assert.Equal(t, []*mocktarget.MockGet{get3}, asMocks(d.gets))

	assert.ErrorIs(t, d.UnregisterGet(ctx, get1), ErrNotFound)
	require.NoError(t, d.UnregisterGet(ctx, get3))
	assert.Empty(t, d.gets)
	assert.ErrorIs(t, d.Start(ctx), ErrNoBackend)
}

func asMocks[P any](list []P) []*mocktarget.MockGet {
	var result []*mocktarget.MockGet
	for _, p := range list {
		result = append(result, any(p).(*mocktarget.MockGet))
	}
	return result
}

func TestRegisterSet_LateJoinerReceivesLiveConfig(t *testing.T) {
	ctx := context.Background()
	mockCtrl := gomock.NewController(t)

	get := mocktarget.NewMockGet(mockCtrl)
	late := mocktarget.NewMockSet(mockCtrl)
	allowName(get.EXPECT(), "get")
	allowName(late.EXPECT(), "late-set")
	get.EXPECT().Start(gomock.Any()).Return(nil)
	get.EXPECT().Stop(gomock.Any()).Return(nil).AnyTimes()
	get.EXPECT().PullConfig(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, t *tree.IfTree) error {
		return t.AddInterface("eth0")
	})

	d, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, d.RegisterGet(ctx, get, false))
	require.NoError(t, d.RegisterSet(ctx, idleSet(mockCtrl), false))
	require.NoError(t, d.RegisterObserver(ctx, idleObserver(mockCtrl), false))
	require.NoError(t, d.Start(ctx))

	var pushed *tree.IfTree
	gomock.InOrder(
		late.EXPECT().Start(gomock.Any()).Return(nil),
		late.EXPECT().PushConfig(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, t *tree.IfTree) error {
			pushed = t.Clone()
			return nil
		}),
	)
	late.EXPECT().Stop(gomock.Any()).Return(nil).AnyTimes()

	require.NoError(t, d.RegisterSet(ctx, late, false))
	require.NotNil(t, pushed)
	assert.NotNil(t, pushed.FindInterface("eth0"))
	require.NoError(t, d.Stop(ctx))
}

func TestRegisterSet_RejectedLateJoinerIsNotKept(t *testing.T) {
	ctx := context.Background()
	mockCtrl := gomock.NewController(t)
	d, dev, rec := newDummyDatastore(t, nil)
	sets := slices.Clone(d.sets)

	broken := mocktarget.NewMockSet(mockCtrl)
	allowName(broken.EXPECT(), "broken")
	startErr := errors.New("no socket")
	broken.EXPECT().Start(gomock.Any()).Return(startErr)
	err := d.RegisterSet(ctx, broken, false)
	assert.ErrorIs(t, err, ErrPluginFailure)
	assert.ErrorIs(t, err, startErr)
	assert.Equal(t, sets, d.sets)

	refusing := mocktarget.NewMockSet(mockCtrl)
	allowName(refusing.EXPECT(), "refusing")
	pushErr := errors.New("table full")
	gomock.InOrder(
		refusing.EXPECT().Start(gomock.Any()).Return(nil),
		refusing.EXPECT().PushConfig(gomock.Any(), gomock.Any()).Return(pushErr),
		refusing.EXPECT().Stop(gomock.Any()).Return(nil),
	)
	err = d.RegisterSet(ctx, refusing, false)
	assert.ErrorIs(t, err, ErrPluginFailure)
	assert.ErrorIs(t, err, pushErr)
	assert.Equal(t, sets, d.sets)
	assert.NotContains(t, d.PluginStatus(), "refusing")

	// any further call on the rejected plugins fails the test
	commit(t, d, addInterfaceOps("eth0", "10.0.0.1", 24)...)
	assert.NotNil(t, dev.Config().FindInterface("eth0"))
	assert.NotEmpty(t, rec.Events())
}

func TestRegisterVlanSet_RejectedLateJoinerIsNotKept(t *testing.T) {
	ctx := context.Background()
	mockCtrl := gomock.NewController(t)
	d, dev, _ := newDummyDatastore(t, nil)
	vlanSets := slices.Clone(d.vlanSets)

	broken := mocktarget.NewMockVlanSet(mockCtrl)
	allowName(broken.EXPECT(), "broken")
	startErr := errors.New("no socket")
	broken.EXPECT().Start(gomock.Any()).Return(startErr)
	// exclusive binds the newcomer to the Set plugins
	err := d.RegisterVlanSet(ctx, broken, true)
	assert.ErrorIs(t, err, startErr)
	assert.Equal(t, vlanSets, d.vlanSets)

	refusing := mocktarget.NewMockVlanSet(mockCtrl)
	allowName(refusing.EXPECT(), "refusing")
	pushErr := errors.New("vlan id in use")
	gomock.InOrder(
		refusing.EXPECT().Start(gomock.Any()).Return(nil),
		refusing.EXPECT().PushVlanConfig(gomock.Any(), gomock.Any()).Return(pushErr),
		refusing.EXPECT().Stop(gomock.Any()).Return(nil),
	)
	err = d.RegisterVlanSet(ctx, refusing, true)
	assert.ErrorIs(t, err, ErrPluginFailure)
	assert.ErrorIs(t, err, pushErr)
	assert.Equal(t, vlanSets, d.vlanSets)

	// the Set plugin is bound to the kept VlanSet again
	commit(t, d, addInterfaceOps("eth0", "10.0.0.1", 24)...)
	assert.NotNil(t, dev.Config().FindInterface("eth0"))
}

func TestPullConfig_FirstGetOnly(t *testing.T) {
	ctx := context.Background()
	mockCtrl := gomock.NewController(t)

	first := mocktarget.NewMockGet(mockCtrl)
	second := mocktarget.NewMockGet(mockCtrl)
	allowName(first.EXPECT(), "first")
	allowName(second.EXPECT(), "second")
	first.EXPECT().Start(gomock.Any()).Return(nil)
	second.EXPECT().Start(gomock.Any()).Return(nil)
	first.EXPECT().Stop(gomock.Any()).Return(nil).AnyTimes()
	second.EXPECT().Stop(gomock.Any()).Return(nil).AnyTimes()

	calls := 0
	first.EXPECT().PullConfig(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, t *tree.IfTree) error {
		calls++
		// the tree is cleared before every pull
		if !t.IsEmpty() {
			return errors.New("pulled tree not cleared")
		}
		return t.AddInterface("eth0")
	}).Times(2)

	d, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, d.RegisterGet(ctx, first, false))
	require.NoError(t, d.RegisterGet(ctx, second, false))
	require.NoError(t, d.RegisterSet(ctx, idleSet(mockCtrl), false))
	require.NoError(t, d.RegisterObserver(ctx, idleObserver(mockCtrl), false))
	require.NoError(t, d.Start(ctx))

	pulled, err := d.PullConfig(ctx)
	require.NoError(t, err)
	assert.NotNil(t, pulled.FindInterface("eth0"))
	assert.Equal(t, 2, calls)
	require.NoError(t, d.Stop(ctx))
}

func TestPushConfig_FailureKeepsLiveConfig(t *testing.T) {
	ctx := context.Background()
	mockCtrl := gomock.NewController(t)

	set1 := mocktarget.NewMockSet(mockCtrl)
	set2 := mocktarget.NewMockSet(mockCtrl)
	allowName(set1.EXPECT(), "set1")
	allowName(set2.EXPECT(), "set2")
	for _, s := range []*mocktarget.MockSet{set1, set2} {
		s.EXPECT().Start(gomock.Any()).Return(nil)
		s.EXPECT().Stop(gomock.Any()).Return(nil).AnyTimes()
	}

	d, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, d.RegisterSet(ctx, set1, false))
	require.NoError(t, d.RegisterSet(ctx, set2, false))
	require.NoError(t, d.RegisterGet(ctx, idleGet(mockCtrl), false))
	require.NoError(t, d.RegisterObserver(ctx, idleObserver(mockCtrl), false))
	require.NoError(t, d.Start(ctx))

	desired := tree.NewIfTree("desired")
	require.NoError(t, desired.AddInterface("eth0"))

	pushErr := errors.New("device busy")
	gomock.InOrder(
		set1.EXPECT().PushConfig(gomock.Any(), desired).Return(nil),
		set2.EXPECT().PushConfig(gomock.Any(), desired).Return(pushErr),
	)
	err = d.PushConfig(ctx, desired)
	assert.ErrorIs(t, err, ErrPluginFailure)
	assert.ErrorIs(t, err, pushErr)
	assert.True(t, d.LiveConfig().IsEmpty())

	set1.EXPECT().PushConfig(gomock.Any(), desired).Return(nil)
	set2.EXPECT().PushConfig(gomock.Any(), desired).Return(nil)
	require.NoError(t, d.PushConfig(ctx, desired))
	live := d.LiveConfig()
	require.NotNil(t, live.FindInterface("eth0"))
	assert.Equal(t, tree.NoChange, live.FindInterface("eth0").State())
	require.NoError(t, d.Stop(ctx))
}

func TestPushConfig_NoSetPlugin(t *testing.T) {
	ctx := context.Background()
	d, dev, rec := newDummyDatastore(t, nil)
	require.Len(t, d.sets, 1)
	require.NoError(t, d.UnregisterSet(ctx, d.sets[0]))

	desired := tree.NewIfTree("desired")
	require.NoError(t, desired.AddInterface("eth0"))
	assert.ErrorIs(t, d.PushConfig(ctx, desired), ErrNoBackend)

	err := runTransaction(t, d, addInterfaceOps("eth0", "10.0.0.1", 24)...)
	assert.ErrorIs(t, err, ErrNoBackend)
	assert.True(t, d.DeclaredConfig().IsEmpty())
	assert.Empty(t, rec.Events())
	assert.Zero(t, dev.Pushes())
	assert.Nil(t, dev.Config().FindInterface("eth0"))
}

func TestPushConfig_NotRunning(t *testing.T) {
	d, err := New(nil)
	require.NoError(t, err)
	assert.ErrorIs(t, d.PushConfig(context.Background(), tree.NewIfTree("x")), ErrNotRunning)
}

func TestStop_RestoresOriginalConfig(t *testing.T) {
	ctx := context.Background()
	cfg, err := config.New("")
	require.NoError(t, err)
	cfg.RestoreOriginalConfigOnShutdown = true

	d, dev, _ := newDummyDatastore(t, cfg)
	commit(t, d, addInterfaceOps("eth0", "10.0.0.1", 24)...)
	require.NotNil(t, dev.Config().FindInterface("eth0"))

	require.NoError(t, d.Stop(ctx))
	assert.Nil(t, dev.Config().FindInterface("eth0"))
	assert.NotNil(t, dev.Config().FindInterface("lo"))
}

func TestPluginStatus(t *testing.T) {
	d, _, _ := newDummyDatastore(t, nil)
	st := d.PluginStatus()
	require.Len(t, st, 5)
	for name, s := range st {
		assert.True(t, s.IsRunning(), name)
	}
	require.NoError(t, d.Stop(context.Background()))
	for name, s := range d.PluginStatus() {
		assert.False(t, s.IsRunning(), name)
	}
}
