// Package validation checks IPsec site-to-site configuration before it is
// committed or pushed to a gateway device.
//
// ReferenceValidator holds the generic rules. Backends that drive a specific
// device wrap it and add their own restrictions; see NewBackend.
package validation

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"vpnaas/controlplane/internal/model"
)

// Resource names used in error values.
const (
	ResourceSiteConnection = "IPsec site-to-site connection"
	ResourceIkePolicy      = "IKE Policy"
	ResourceIpsecPolicy    = "IPSec Policy"
	ResourceVPNService     = "VPN Service"
	ResourceEndpointGroup  = "Endpoint Group"
	ResourceRouter         = "Router"
)

// DefaultResolveTimeout bounds a single peer address lookup.
const DefaultResolveTimeout = 5 * time.Second

// Validator is the set of hooks a backend exposes to the connection and
// policy workflows.
type Validator interface {
	ValidateVPNService(ctx context.Context, svc model.VPNService) error
	ValidateIkePolicy(ctx context.Context, p model.IkePolicy) error
	ValidateIpsecPolicy(ctx context.Context, p model.IpsecPolicy) error
	ValidateEndpointGroup(ctx context.Context, g model.EndpointGroup) error
	AssignDefaults(conn *model.SiteConnection, dpd *model.DPDUpdate, prev *model.SiteConnection)
	ValidateSiteConnection(ctx context.Context, req *ConnectionRequest) error
}

// RouterLookup returns the router view needed by the gateway checks.
type RouterLookup interface {
	GetRouter(ctx context.Context, routerID string) (model.Router, error)
}

// SubnetLookup answers subnet questions. GetSubnet must wrap
// netinfo.ErrNotFound when the subnet does not exist.
type SubnetLookup interface {
	GetSubnet(ctx context.Context, subnetID string) (model.Subnet, error)
	IsSubnetAttached(ctx context.Context, subnetID, routerID string) (bool, error)
}

// Resolver resolves host names. *net.Resolver satisfies it.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Deps are the collaborators a validator consults.
type Deps struct {
	Routers        RouterLookup
	Subnets        SubnetLookup
	Resolver       Resolver
	ResolveTimeout time.Duration
}

// ConnectionRequest is a site connection together with the records it
// references. Validation may rewrite Connection.PeerAddress to the
// resolved literal.
type ConnectionRequest struct {
	Connection  *model.SiteConnection
	Service     model.VPNService
	IkePolicy   model.IkePolicy
	IpsecPolicy model.IpsecPolicy
	LocalGroup  *model.EndpointGroup
	PeerGroup   *model.EndpointGroup
}

func (d Deps) withDefaults() Deps {
	if d.Resolver == nil {
		d.Resolver = net.DefaultResolver
	}
	if d.ResolveTimeout <= 0 {
		d.ResolveTimeout = DefaultResolveTimeout
	}
	return d
}

func addrVersion(a netip.Addr) int {
	if a.Unmap().Is4() {
		return 4
	}
	return 6
}

func ipVersionName(v int) string {
	return fmt.Sprintf("IPv%d", v)
}
