package validation

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"vpnaas/controlplane/internal/model"
)

// Smallest MTU each IP version must carry.
var minMTU = map[int]int{
	4: 68,
	6: 1280,
}

// ReferenceValidator implements the rules every backend shares. Each rule
// is an exported method so backends can call them one by one.
type ReferenceValidator struct {
	routers        RouterLookup
	subnets        SubnetLookup
	resolver       Resolver
	resolveTimeout time.Duration
}

func NewReferenceValidator(deps Deps) *ReferenceValidator {
	deps = deps.withDefaults()
	return &ReferenceValidator{
		routers:        deps.Routers,
		subnets:        deps.Subnets,
		resolver:       deps.Resolver,
		resolveTimeout: deps.ResolveTimeout,
	}
}

// CheckDPD requires the DPD timeout to exceed the interval.
func (v *ReferenceValidator) CheckDPD(conn model.SiteConnection) error {
	if conn.DPDTimeout <= conn.DPDInterval {
		return dpdIntervalError(conn.DPDInterval, conn.DPDTimeout)
	}
	return nil
}

func (v *ReferenceValidator) CheckMTU(mtu, ipVersion int) error {
	minimum, ok := minMTU[ipVersion]
	if !ok {
		return fmt.Errorf("unknown IP version %d", ipVersion)
	}
	if mtu < minimum {
		return mtuTooSmall(mtu, ipVersion, minimum)
	}
	return nil
}

// ResolvePeerAddress turns a host name peer address into an IP literal
// and checks the router can reach that IP version. The resolved literal
// replaces conn.PeerAddress.
func (v *ReferenceValidator) ResolvePeerAddress(ctx context.Context, conn *model.SiteConnection, router model.Router) error {
	addr, err := netip.ParseAddr(conn.PeerAddress)
	if err != nil {
		addr, err = v.resolve(ctx, conn.PeerAddress)
		if err != nil {
			return err
		}
		conn.PeerAddress = addr.String()
	}
	return v.ValidatePeerAddress(addrVersion(addr), router)
}

func (v *ReferenceValidator) resolve(ctx context.Context, host string) (netip.Addr, error) {
	ctx, cancel := context.WithTimeout(ctx, v.resolveTimeout)
	defer cancel()

	addrs, err := v.resolver.LookupHost(ctx, host)
	if err != nil {
		return netip.Addr{}, peerAddressUnresolved(host, err)
	}
	for _, a := range addrs {
		if addr, err := netip.ParseAddr(a); err == nil {
			return addr, nil
		}
	}
	return netip.Addr{}, peerAddressUnresolved(host, nil)
}

// ValidatePeerAddress requires a gateway fixed IP of the given version.
// IPv6 link-local gateway addresses are not reachable from a peer and
// never count.
func (v *ReferenceValidator) ValidatePeerAddress(ipVersion int, router model.Router) error {
	for _, s := range router.GatewayIPs() {
		ip, err := netip.ParseAddr(s)
		if err != nil {
			continue
		}
		if addrVersion(ip) != ipVersion {
			continue
		}
		if ipVersion == 6 && ip.IsLinkLocalUnicast() {
			continue
		}
		return nil
	}
	return noMatchingExternalSubnet(router.ID, ipVersion)
}

// CheckRouter fetches the router and requires an external gateway.
func (v *ReferenceValidator) CheckRouter(ctx context.Context, routerID string) (model.Router, error) {
	router, err := v.routers.GetRouter(ctx, routerID)
	if err != nil {
		return model.Router{}, fmt.Errorf("get router: %w", err)
	}
	if router.ExternalGateway == nil {
		return model.Router{}, routerNotExternal(routerID)
	}
	return router, nil
}

func (v *ReferenceValidator) CheckSubnetOnRouter(ctx context.Context, routerID, subnetID string) error {
	attached, err := v.subnets.IsSubnetAttached(ctx, subnetID, routerID)
	if err != nil {
		return fmt.Errorf("check subnet %s on router %s: %w", subnetID, routerID, err)
	}
	if !attached {
		return subnetNotOnRouter(subnetID, routerID)
	}
	return nil
}

// AssignDefaults fills the DPD fields of conn from the request's partial
// DPD block, the previous connection and the built-in defaults, in that
// order of precedence.
func (v *ReferenceValidator) AssignDefaults(conn *model.SiteConnection, dpd *model.DPDUpdate, prev *model.SiteConnection) {
	var prevDPD *model.DPD
	if prev != nil {
		d := prev.DPD()
		prevDPD = &d
	}
	conn.SetDPD(model.MergeDPD(dpd, prevDPD, model.DefaultDPD))
}

func (v *ReferenceValidator) ValidateIkePolicy(context.Context, model.IkePolicy) error {
	return nil
}

func (v *ReferenceValidator) ValidateIpsecPolicy(context.Context, model.IpsecPolicy) error {
	return nil
}

func (v *ReferenceValidator) ValidateVPNService(ctx context.Context, svc model.VPNService) error {
	if _, err := v.CheckRouter(ctx, svc.RouterID); err != nil {
		return err
	}
	if svc.Legacy() {
		return v.CheckSubnetOnRouter(ctx, svc.RouterID, svc.SubnetID)
	}
	return nil
}

// ValidateSiteConnection runs every connection rule. req.Connection must
// already carry its DPD defaults.
func (v *ReferenceValidator) ValidateSiteConnection(ctx context.Context, req *ConnectionRequest) error {
	conn := req.Connection
	if err := v.CheckDPD(*conn); err != nil {
		return err
	}
	if err := v.CheckConnectionMode(*conn, req.Service.SubnetID); err != nil {
		return err
	}

	version, err := v.connectionIPVersion(ctx, req)
	if err != nil {
		return err
	}
	if err := v.CheckMTU(conn.MTU, version); err != nil {
		return err
	}

	router, err := v.CheckRouter(ctx, req.Service.RouterID)
	if err != nil {
		return err
	}
	return v.ResolvePeerAddress(ctx, conn, router)
}

// connectionIPVersion checks that local and peer sides agree on an IP
// version and returns it.
func (v *ReferenceValidator) connectionIPVersion(ctx context.Context, req *ConnectionRequest) (int, error) {
	conn := req.Connection
	if req.Service.Legacy() {
		subnet, err := v.subnets.GetSubnet(ctx, req.Service.SubnetID)
		if err != nil {
			return 0, fmt.Errorf("get subnet of vpn service %s: %w", req.Service.ID, err)
		}
		peer, err := v.CheckPeerCIDRsIPVersions(conn.PeerCIDRs)
		if err != nil {
			return 0, err
		}
		if err := v.CheckCompatibleIPVersions(subnet.IPVersion, peer); err != nil {
			return 0, err
		}
		return subnet.IPVersion, nil
	}

	local, err := requireGroup(req.LocalGroup, conn.LocalEPGroupID, "local_ep_group_id")
	if err != nil {
		return 0, err
	}
	peerGroup, err := requireGroup(req.PeerGroup, conn.PeerEPGroupID, "peer_ep_group_id")
	if err != nil {
		return 0, err
	}

	subnets, err := v.LocalSubnets(ctx, local)
	if err != nil {
		return 0, err
	}
	localVersion, err := v.CheckLocalEndpointIPVersions(local.ID, subnets)
	if err != nil {
		return 0, err
	}
	if err := v.CheckLocalSubnetsOnRouter(ctx, req.Service.RouterID, subnets); err != nil {
		return 0, err
	}

	cidrs, err := v.PeerCIDRs(peerGroup)
	if err != nil {
		return 0, err
	}
	peerVersion, err := v.CheckPeerEndpointIPVersions(peerGroup.ID, cidrs)
	if err != nil {
		return 0, err
	}
	if err := v.CheckCompatibleIPVersions(localVersion, peerVersion); err != nil {
		return 0, err
	}
	return localVersion, nil
}

func requireGroup(g *model.EndpointGroup, id, field string) (model.EndpointGroup, error) {
	if g == nil || g.ID != id {
		return model.EndpointGroup{}, missingRequiredEndpointGroup([]string{field})
	}
	return *g, nil
}
