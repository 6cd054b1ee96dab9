package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/sdcio/fea-server/pkg/config"
	"github.com/sdcio/fea-server/pkg/datastore"
	"github.com/sdcio/fea-server/pkg/datastore/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
backend:
  type: dummy
  dummy-options:
    system-interfaces:
    - name: lo
      mtu: 65536
prometheus: {}
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()
	file := t.TempDir() + "/fea.yaml"
	require.NoError(t, os.WriteFile(file, []byte(testConfig), 0o600))
	c, err := config.New(file)
	require.NoError(t, err)

	s, err := New(ctx, c)
	require.NoError(t, err)
	require.NoError(t, s.Datastore().Start(ctx))
	t.Cleanup(func() { _ = s.Datastore().Stop(ctx) })
	return s
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v))
	return v
}

func TestGetInterfaces(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s, http.MethodGet, "/api/v1/interfaces", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[[]*config.InterfaceConfig](t, rr))

	for _, view := range []string{ViewSystem, ViewLive, ViewOriginal} {
		t.Run(view, func(t *testing.T) {
			rr := do(t, s, http.MethodGet, "/api/v1/interfaces/"+view, "")
			require.Equal(t, http.StatusOK, rr.Code)
			ifs := decode[[]*config.InterfaceConfig](t, rr)
			require.Len(t, ifs, 1)
			assert.Equal(t, "lo", ifs[0].Name)
			assert.EqualValues(t, 65536, ifs[0].MTU)
		})
	}

	rr = do(t, s, http.MethodGet, "/api/v1/interfaces/candidate", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestApplyInterfaces(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s, http.MethodPost, "/api/v1/interfaces", `
- name: eth0
  mtu: 1500
  vifs:
  - name: eth0
    addresses:
    - prefix: 10.0.0.1/24
`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, ApplyResponse{Interfaces: 1}, decode[ApplyResponse](t, rr))

	rr = do(t, s, http.MethodGet, "/api/v1/interfaces/declared", "")
	ifs := decode[[]*config.InterfaceConfig](t, rr)
	require.Len(t, ifs, 1)
	assert.Equal(t, "eth0", ifs[0].Name)
	require.Len(t, ifs[0].Vifs, 1)
	assert.Equal(t, "10.0.0.1/24", ifs[0].Vifs[0].Addresses[0].Prefix)

	// JSON is accepted as well
	rr = do(t, s, http.MethodPost, "/api/v1/interfaces", `[{"name": "eth0", "mtu": 9000}]`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.EqualValues(t, 9000, s.Datastore().LiveConfig().FindInterface("eth0").MTU())
}

func TestApplyInterfaces_Errors(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s, http.MethodPost, "/api/v1/interfaces", "- name: eth0\n  mac: zz\n")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, s, http.MethodPost, "/api/v1/interfaces", "- name: eth0\n  mtu: 10\n")
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	resp := decode[ErrorResponse](t, rr)
	assert.Contains(t, resp.Operation, "SetInterfaceMTU")
	assert.Contains(t, resp.Error, "operation failed")
}

func TestGetPlugins(t *testing.T) {
	s := newTestServer(t)
	rr := do(t, s, http.MethodGet, "/api/v1/plugins", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, map[string]string{
		"dummy-get":      "running",
		"dummy-set":      "running",
		"dummy-observer": "running",
		"dummy-vlan-get": "running",
		"dummy-vlan-set": "running",
	}, decode[map[string]string](t, rr))
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/api/v1/interfaces", "- name: eth0\n")

	rr := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	b, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), `fea_commits_total{result="success"} 1`)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: x", types.ErrOperationFailed), http.StatusUnprocessableEntity},
		{types.ErrResourceExhausted, http.StatusTooManyRequests},
		{types.ErrInvalidTransaction, http.StatusConflict},
		{&datastore.PluginError{Plugin: "p", Err: io.EOF}, http.StatusBadGateway},
		{datastore.ErrNotRunning, http.StatusServiceUnavailable},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, httpStatus(tt.err))
		})
	}
}
