package ops

import (
	"context"
	"net"
	"net/netip"
	"strings"
	"testing"

	"github.com/sdcio/fea-server/pkg/datastore/types"
	"github.com/sdcio/fea-server/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ types.Operation = (*AddInterface)(nil)
	_ types.Operation = (*ConfigureInterfaceFromSystem)(nil)
	_ types.Operation = (*SetVifVlan)(nil)
	_ types.Operation = (*SetAddr6Endpoint)(nil)
)

func baseTree(t *testing.T) *tree.IfTree {
	t.Helper()
	ctx := context.Background()
	it := tree.NewIfTree("test")
	for _, op := range []types.Operation{
		NewAddInterface("eth0"),
		NewAddInterfaceVif("eth0", "eth0"),
		NewAddAddr4("eth0", "eth0", netip.MustParseAddr("10.0.0.1")),
		NewAddAddr6("eth0", "eth0", netip.MustParseAddr("2001:db8::1")),
	} {
		require.NoError(t, op.Dispatch(ctx, it))
	}
	return it
}

func TestOperations_Dispatch(t *testing.T) {
	a4 := netip.MustParseAddr("10.0.0.1")
	a6 := netip.MustParseAddr("2001:db8::1")

	tests := []struct {
		name     string
		op       types.Operation
		wantErr  bool
		validate func(t *testing.T, it *tree.IfTree)
	}{
		{
			name: "set mtu",
			op:   NewSetInterfaceMTU("eth0", 9000),
			validate: func(t *testing.T, it *tree.IfTree) {
				assert.Equal(t, uint32(9000), it.FindInterface("eth0").MTU())
			},
		},
		{name: "mtu below minimum", op: NewSetInterfaceMTU("eth0", 67), wantErr: true},
		{name: "mtu above maximum", op: NewSetInterfaceMTU("eth0", 65537), wantErr: true},
		{name: "mtu on unknown interface", op: NewSetInterfaceMTU("eth9", 1500), wantErr: true},
		{
			name: "set mac",
			op:   NewSetInterfaceMAC("eth0", net.HardwareAddr{0, 1, 2, 3, 4, 5}),
			validate: func(t *testing.T, it *tree.IfTree) {
				assert.Equal(t, "00:01:02:03:04:05", it.FindInterface("eth0").MAC().String())
			},
		},
		{name: "invalid mac", op: NewSetInterfaceMAC("eth0", net.HardwareAddr{0, 1}), wantErr: true},
		{
			name: "enable interface",
			op:   NewSetInterfaceEnabled("eth0", true),
			validate: func(t *testing.T, it *tree.IfTree) {
				assert.True(t, it.FindInterface("eth0").Enabled())
			},
		},
		{
			name: "vlan",
			op:   NewSetVifVlan("eth0", "eth0", 4094),
			validate: func(t *testing.T, it *tree.IfTree) {
				vifp := it.FindVif("eth0", "eth0")
				assert.True(t, vifp.IsVlan())
				assert.Equal(t, uint16(4094), vifp.VlanID())
			},
		},
		{name: "vlan out of range", op: NewSetVifVlan("eth0", "eth0", 4095), wantErr: true},
		{name: "vif enable on unknown vif", op: NewSetVifEnabled("eth0", "eth0.5", true), wantErr: true},
		{
			name: "ipv4 prefix",
			op:   NewSetAddr4Prefix("eth0", "eth0", a4, 24),
			validate: func(t *testing.T, it *tree.IfTree) {
				assert.Equal(t, "10.0.0.1/24", it.FindVif("eth0", "eth0").FindAddr4(a4).Prefix().String())
			},
		},
		{name: "ipv4 prefix too long", op: NewSetAddr4Prefix("eth0", "eth0", a4, 33), wantErr: true},
		{name: "ipv6 prefix too long", op: NewSetAddr6Prefix("eth0", "eth0", a6, 129), wantErr: true},
		{
			name: "ipv6 prefix max",
			op:   NewSetAddr6Prefix("eth0", "eth0", a6, 128),
			validate: func(t *testing.T, it *tree.IfTree) {
				assert.Equal(t, uint8(128), it.FindVif("eth0", "eth0").FindAddr6(a6).PrefixLen())
			},
		},
		{
			name: "broadcast replaces endpoint",
			op:   NewSetAddr4Broadcast("eth0", "eth0", a4, netip.MustParseAddr("10.0.0.255")),
			validate: func(t *testing.T, it *tree.IfTree) {
				ap := it.FindVif("eth0", "eth0").FindAddr4(a4)
				assert.Equal(t, "10.0.0.255", ap.Broadcast().String())
				assert.False(t, ap.Endpoint().IsValid())
			},
		},
		{name: "ipv6 endpoint for ipv4", op: NewSetAddr4Endpoint("eth0", "eth0", a4, a6), wantErr: true},
		{name: "unknown address", op: NewSetAddr6Enabled("eth0", "eth0", netip.MustParseAddr("2001:db8::9"), true), wantErr: true},
		{
			name: "remove address",
			op:   NewRemoveAddr4("eth0", "eth0", a4),
			validate: func(t *testing.T, it *tree.IfTree) {
				assert.True(t, it.FindVif("eth0", "eth0").FindAddr4(a4).IsMarked(tree.Deleted))
			},
		},
		{
			name: "remove vif",
			op:   NewRemoveInterfaceVif("eth0", "eth0"),
			validate: func(t *testing.T, it *tree.IfTree) {
				assert.True(t, it.FindVif("eth0", "eth0").IsMarked(tree.Deleted))
			},
		},
		{name: "remove unknown interface", op: NewRemoveInterface("eth9"), wantErr: true},
		{name: "empty interface name", op: NewAddInterface(""), wantErr: true},
		{name: "configure from system without system tree", op: NewConfigureInterfaceFromSystem("eth0", true), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := baseTree(t)
			err := tt.op.Dispatch(context.Background(), it)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, it)
			}
		})
	}
}

func TestOperations_DescribeRange(t *testing.T) {
	assert.True(t, strings.HasSuffix(NewSetInterfaceMTU("eth0", 10).String(), "(valid range 68--65536)"))
	assert.True(t, strings.HasSuffix(NewSetVifVlan("eth0", "eth0", 5000).String(), "(valid range 0--4094)"))
	assert.Equal(t, "SetAddr4Prefix: eth0 eth0 10.0.0.1 24", NewSetAddr4Prefix("eth0", "eth0", netip.MustParseAddr("10.0.0.1"), 24).String())
}

func TestConfigureInterfaceFromSystem(t *testing.T) {
	system := baseTree(t)
	system.FindInterface("eth0").SetMTU(1500)
	system.FinalizeState()
	ctx := WithSystemConfig(context.Background(), system)

	target := tree.NewIfTree("declared")
	require.NoError(t, NewConfigureInterfaceFromSystem("eth0", true).Dispatch(ctx, target))

	ifp := target.FindInterface("eth0")
	require.NotNil(t, ifp)
	assert.True(t, ifp.DefaultSystemConfig())
	assert.True(t, ifp.Enabled())
	assert.Equal(t, uint32(1500), ifp.MTU())
	assert.NotNil(t, target.FindVif("eth0", "eth0").FindAddr4(netip.MustParseAddr("10.0.0.1")))

	err := NewConfigureInterfaceFromSystem("eth9", false).Dispatch(ctx, target)
	assert.ErrorIs(t, err, tree.ErrNotFound)
}
