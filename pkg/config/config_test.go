package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)

	want := &TransactionsConfig{
		MaxPending:    10,
		Timeout:       5 * time.Second,
		SweepInterval: time.Second,
	}
	if diff := cmp.Diff(want, c.Transactions); diff != "" {
		t.Errorf("transactions mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, BackendTypeDummy, c.Backend.Type)
	assert.NotNil(t, c.Backend.DummyOptions)
	assert.Equal(t, defaultObserverQueueSize, c.ObserverQueueSize)
	assert.Equal(t, defaultServiceName, c.Tracing.ServiceName)
	assert.Equal(t, defaultHTTPAddress, c.HTTPServer.Address)
	assert.Nil(t, c.Prometheus)
}

func TestNew_File(t *testing.T) {
	content := `
backend:
  type: netlink
  netlink-options:
    interfaces: [eth0]
transactions:
  max-pending: 3
  timeout: 2s
restore-original-config-on-shutdown: true
http-server:
  address: 127.0.0.1:8080
prometheus: {}
tracing:
  enabled: true
  exporter: otlp
interfaces:
  - name: eth0
    mtu: 1500
    mac: "00:11:22:33:44:55"
    vifs:
      - name: eth0
        vlan-id: 10
        addresses:
          - prefix: 10.0.0.1/24
            broadcast: 10.0.0.255
          - prefix: 2001:db8::1/64
`
	file := filepath.Join(t.TempDir(), "fea.yaml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	c, err := New(file)
	require.NoError(t, err)

	assert.Equal(t, BackendTypeNetlink, c.Backend.Type)
	assert.Equal(t, []string{"eth0"}, c.Backend.NetlinkOptions.Interfaces)
	assert.Equal(t, 3, c.Transactions.MaxPending)
	assert.Equal(t, 2*time.Second, c.Transactions.Timeout)
	assert.True(t, c.RestoreOriginalConfigOnShutdown)
	assert.Equal(t, "127.0.0.1:8080", c.HTTPServer.Address)
	assert.Equal(t, defaultHTTPTimeout, c.HTTPServer.Timeout)
	assert.NotNil(t, c.Prometheus)
	assert.Equal(t, defaultOTLPEndpoint, c.Tracing.Endpoint)

	require.Len(t, c.Interfaces, 1)
	ic := c.Interfaces[0]
	assert.True(t, ic.IsEnabled())
	assert.Equal(t, "00:11:22:33:44:55", ic.HardwareAddr().String())
	require.Len(t, ic.Vifs, 1)
	assert.Equal(t, uint32(10), *ic.Vifs[0].VlanID)
	require.Len(t, ic.Vifs[0].Addresses, 2)
	assert.Equal(t, "10.0.0.1/24", ic.Vifs[0].Addresses[0].PrefixValue().String())
	assert.Equal(t, "10.0.0.255", ic.Vifs[0].Addresses[0].BroadcastAddr().String())
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown backend", content: "backend: {type: bsd}"},
		{name: "negative max pending", content: "transactions: {max-pending: -1}"},
		{name: "unknown exporter", content: "tracing: {enabled: true, exporter: zipkin}"},
		{name: "bad prefix", content: "interfaces: [{name: eth0, vifs: [{name: eth0, addresses: [{prefix: 10.0.0.1}]}]}]"},
		{name: "bad mac", content: "interfaces: [{name: eth0, mac: zz}]"},
		{name: "duplicate interface", content: "interfaces: [{name: eth0}, {name: eth0}]"},
		{name: "ipv6 broadcast", content: "interfaces: [{name: eth0, vifs: [{name: eth0, addresses: [{prefix: \"2001:db8::1/64\", broadcast: \"2001:db8::ff\"}]}]}]"},
		{name: "broadcast and endpoint", content: "interfaces: [{name: eth0, vifs: [{name: eth0, addresses: [{prefix: 10.0.0.1/32, broadcast: 10.0.0.255, endpoint: 10.0.0.2}]}]}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "fea.yaml")
			require.NoError(t, os.WriteFile(file, []byte(tt.content), 0o600))
			_, err := New(file)
			assert.Error(t, err)
		})
	}
}

func TestParseInterfaces(t *testing.T) {
	ifs, err := ParseInterfaces([]byte(`
- name: eth1
  deleted: true
- name: eth0
  enabled: false
`))
	require.NoError(t, err)
	require.Len(t, ifs, 2)
	assert.True(t, ifs[0].Deleted)
	assert.False(t, ifs[1].IsEnabled())
}
