package netinfo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"vpnaas/controlplane/internal/netinfo"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v2.0/routers/r1", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Auth-Token") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"router": {"id": "r1", "external_gateway_info": {
			"network_id": "public",
			"external_fixed_ips": [{"subnet_id": "ext-v4", "ip_address": "172.24.4.10"}]}}}`))
	})
	mux.HandleFunc("/v2.0/routers/r2", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"router": {"id": "r2", "external_gateway_info": null}}`))
	})
	mux.HandleFunc("/v2.0/subnets/s1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"subnet": {"id": "s1", "cidr": "10.1.0.0/24", "ip_version": 4}}`))
	})
	mux.HandleFunc("/v2.0/ports", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("device_id") == "r1" && r.URL.Query().Get("fixed_ips") == "subnet_id=s1" {
			_, _ = w.Write([]byte(`{"ports": [{"id": "p1"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"ports": []}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient(t *testing.T) {
	srv := newServer(t)
	c := netinfo.NewClient(srv.URL+"/", "secret")
	ctx := context.Background()

	r1, err := c.GetRouter(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, "public", r1.ExternalGateway.NetworkID)
	require.Equal(t, []string{"172.24.4.10"}, r1.GatewayIPs())

	r2, err := c.GetRouter(ctx, "r2")
	require.NoError(t, err)
	require.Nil(t, r2.ExternalGateway)

	_, err = c.GetRouter(ctx, "r9")
	require.ErrorIs(t, err, netinfo.ErrNotFound)

	s1, err := c.GetSubnet(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "10.1.0.0/24", s1.CIDR)
	require.Equal(t, 4, s1.IPVersion)

	_, err = c.GetSubnet(ctx, "s9")
	require.ErrorIs(t, err, netinfo.ErrNotFound)

	attached, err := c.IsSubnetAttached(ctx, "s1", "r1")
	require.NoError(t, err)
	require.True(t, attached)

	attached, err = c.IsSubnetAttached(ctx, "s1", "r2")
	require.NoError(t, err)
	require.False(t, attached)
}

func TestClient_Unauthorized(t *testing.T) {
	srv := newServer(t)
	c := netinfo.NewClient(srv.URL, "")

	_, err := c.GetRouter(context.Background(), "r1")
	require.ErrorIs(t, err, netinfo.ErrUnauthorized)
}
