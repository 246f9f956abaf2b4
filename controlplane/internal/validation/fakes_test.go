package validation_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"vpnaas/controlplane/internal/model"
	"vpnaas/controlplane/internal/netinfo"
	"vpnaas/controlplane/internal/validation"
)

const (
	routerID     = "router-1"
	subnetV4a    = "7b1f3c52-0b5e-4f0e-9c1a-3f0f6e1d0a01"
	subnetV4b    = "7b1f3c52-0b5e-4f0e-9c1a-3f0f6e1d0a02"
	subnetV6     = "7b1f3c52-0b5e-4f0e-9c1a-3f0f6e1d0a06"
	subnetLoose  = "7b1f3c52-0b5e-4f0e-9c1a-3f0f6e1d0a09"
	subnetAbsent = "7b1f3c52-0b5e-4f0e-9c1a-3f0f6e1d0aff"
)

type fakeNet struct {
	routers  map[string]model.Router
	subnets  map[string]model.Subnet
	attached map[string]bool
}

func newFakeNet() *fakeNet {
	return &fakeNet{
		routers: map[string]model.Router{
			routerID: {
				ID: routerID,
				ExternalGateway: &model.ExternalGateway{
					NetworkID: "ext-net",
					FixedIPs:  []string{"172.24.4.10", "2001:db8::10"},
				},
			},
		},
		subnets: map[string]model.Subnet{
			subnetV4a:   {ID: subnetV4a, CIDR: "10.1.0.0/24", IPVersion: 4},
			subnetV4b:   {ID: subnetV4b, CIDR: "10.2.0.0/24", IPVersion: 4},
			subnetV6:    {ID: subnetV6, CIDR: "2001:db8:1::/64", IPVersion: 6},
			subnetLoose: {ID: subnetLoose, CIDR: "10.9.0.0/24", IPVersion: 4},
		},
		attached: map[string]bool{
			subnetV4a: true,
			subnetV4b: true,
			subnetV6:  true,
		},
	}
}

func (f *fakeNet) GetRouter(_ context.Context, id string) (model.Router, error) {
	r, ok := f.routers[id]
	if !ok {
		return model.Router{}, fmt.Errorf("router %s: %w", id, netinfo.ErrNotFound)
	}
	return r, nil
}

func (f *fakeNet) GetSubnet(_ context.Context, id string) (model.Subnet, error) {
	s, ok := f.subnets[id]
	if !ok {
		return model.Subnet{}, fmt.Errorf("subnet %s: %w", id, netinfo.ErrNotFound)
	}
	return s, nil
}

func (f *fakeNet) IsSubnetAttached(_ context.Context, subnetID, rID string) (bool, error) {
	return rID == routerID && f.attached[subnetID], nil
}

type fakeResolver struct {
	hosts map[string][]string
	calls atomic.Int32
}

func (r *fakeResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	r.calls.Add(1)
	if addrs, ok := r.hosts[host]; ok {
		return addrs, nil
	}
	if host == "slow.example.com" {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return nil, errors.New("no such host")
}

func newDeps() (validation.Deps, *fakeNet, *fakeResolver) {
	net := newFakeNet()
	res := &fakeResolver{hosts: map[string][]string{
		"peer.example.com":  {"198.51.100.7"},
		"peer6.example.com": {"2001:db8:ffff::7"},
	}}
	return validation.Deps{Routers: net, Subnets: net, Resolver: res}, net, res
}

func localGroup(ids ...string) *model.EndpointGroup {
	return &model.EndpointGroup{ID: "local-group", Type: model.EndpointTypeSubnet, Endpoints: ids}
}

func peerGroup(cidrs ...string) *model.EndpointGroup {
	return &model.EndpointGroup{ID: "peer-group", Type: model.EndpointTypeCIDR, Endpoints: cidrs}
}

// groupRequest builds a valid endpoint group mode connection request.
func groupRequest(t *testing.T) *validation.ConnectionRequest {
	t.Helper()
	conn := model.NewSiteConnection("tenant", "svc", "ike", "ipsec", "198.51.100.7", "198.51.100.7")
	conn.SetDPD(model.DefaultDPD)
	conn.LocalEPGroupID = "local-group"
	conn.PeerEPGroupID = "peer-group"

	ike := model.NewIkePolicy("tenant", "ike")
	ipsec := model.NewIpsecPolicy("tenant", "ipsec")
	return &validation.ConnectionRequest{
		Connection:  &conn,
		Service:     model.VPNService{ID: "svc", RouterID: routerID},
		IkePolicy:   ike,
		IpsecPolicy: ipsec,
		LocalGroup:  localGroup(subnetV4a, subnetV4b),
		PeerGroup:   peerGroup("192.168.0.0/24", "192.168.1.0/24"),
	}
}

// legacyRequest builds a valid legacy peer CIDR mode connection request.
func legacyRequest(t *testing.T) *validation.ConnectionRequest {
	t.Helper()
	req := groupRequest(t)
	req.Connection.LocalEPGroupID = ""
	req.Connection.PeerEPGroupID = ""
	req.Connection.PeerCIDRs = []string{"192.168.0.0/24"}
	req.Service.SubnetID = subnetV4a
	req.LocalGroup = nil
	req.PeerGroup = nil
	return req
}
