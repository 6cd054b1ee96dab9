package ops

import (
	"context"
	"testing"

	"github.com/AlekSi/pointer"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sdcio/fea-server/pkg/config"
	"github.com/sdcio/fea-server/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const records = `
- name: eth0
  mtu: 1500
  mac: 02:00:00:00:00:01
  vifs:
  - name: eth0
    addresses:
    - prefix: 10.0.0.1/24
      broadcast: 10.0.0.255
    - prefix: 2001:db8::1/64
  - name: eth0.10
    enabled: false
    vlan-id: 10
    addresses:
    - prefix: 10.1.1.1/32
      endpoint: 10.1.1.2
- name: lo
  default-system-config: true
`

// applyRecords dispatches the operations of the records against a system
// tree holding a loopback interface.
func applyRecords(t *testing.T, it *tree.IfTree, raw string) {
	t.Helper()
	system := tree.NewIfTree("system")
	require.NoError(t, system.AddInterface("lo"))
	system.FindInterface("lo").SetMTU(65536)
	system.FindInterface("lo").SetEnabled(true)
	ctx := WithSystemConfig(context.Background(), system)

	ifs, err := config.ParseInterfaces([]byte(raw))
	require.NoError(t, err)
	for _, ic := range ifs {
		for _, op := range FromInterfaceConfig(ic) {
			require.NoError(t, op.Dispatch(ctx, it), op.String())
		}
	}
}

func TestFromInterfaceConfig(t *testing.T) {
	it := tree.NewIfTree("declared")
	applyRecords(t, it, records)

	want := []*config.InterfaceConfig{
		{
			Name:    "eth0",
			Enabled: pointer.ToBool(true),
			MTU:     1500,
			MAC:     "02:00:00:00:00:01",
			Vifs: []*config.VifConfig{
				{
					Name:    "eth0",
					Enabled: pointer.ToBool(true),
					Addresses: []*config.AddressConfig{
						{Prefix: "10.0.0.1/24", Enabled: pointer.ToBool(true), Broadcast: "10.0.0.255"},
						{Prefix: "2001:db8::1/64", Enabled: pointer.ToBool(true)},
					},
				},
				{
					Name:    "eth0.10",
					Enabled: pointer.ToBool(false),
					VlanID:  pointer.ToUint32(10),
					Addresses: []*config.AddressConfig{
						{Prefix: "10.1.1.1/32", Enabled: pointer.ToBool(true), Endpoint: "10.1.1.2"},
					},
				},
			},
		},
		{
			Name:                "lo",
			Enabled:             pointer.ToBool(true),
			MTU:                 65536,
			DefaultSystemConfig: true,
		},
	}
	got := ToInterfaceConfig(it)
	opts := cmpopts.IgnoreUnexported(config.InterfaceConfig{}, config.AddressConfig{})
	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestFromInterfaceConfig_Deleted(t *testing.T) {
	it := tree.NewIfTree("declared")
	applyRecords(t, it, records)
	it.FinalizeState()

	applyRecords(t, it, `
- name: eth0
  vifs:
  - name: eth0
    addresses:
    - prefix: 10.0.0.1/24
      deleted: true
  - name: eth0.10
    deleted: true
- name: lo
  deleted: true
`)
	assert.True(t, it.FindInterface("lo").IsMarked(tree.Deleted))
	assert.True(t, it.FindVif("eth0", "eth0.10").IsMarked(tree.Deleted))

	got := ToInterfaceConfig(it)
	require.Len(t, got, 1)
	require.Len(t, got[0].Vifs, 1)
	require.Len(t, got[0].Vifs[0].Addresses, 1)
	assert.Equal(t, "2001:db8::1/64", got[0].Vifs[0].Addresses[0].Prefix)
}
