package validation

import (
	"context"
	"errors"
	"fmt"
	"net/netip"

	"github.com/google/uuid"

	"vpnaas/controlplane/internal/model"
	"vpnaas/controlplane/internal/netinfo"
)

// CheckConnectionMode enforces that a connection uses either the legacy
// peer CIDR list (service bound to a subnet) or endpoint groups, never
// both.
func (v *ReferenceValidator) CheckConnectionMode(conn model.SiteConnection, serviceSubnetID string) error {
	if serviceSubnetID != "" {
		var groups []string
		if conn.LocalEPGroupID != "" {
			groups = append(groups, "local_ep_group_id")
		}
		if conn.PeerEPGroupID != "" {
			groups = append(groups, "peer_ep_group_id")
		}
		if len(groups) > 0 {
			return invalidEndpointGroup(groups)
		}
		if len(conn.PeerCIDRs) == 0 {
			return missingPeerCidrs()
		}
		return nil
	}

	if len(conn.PeerCIDRs) > 0 {
		return peerCidrsInvalid(conn.PeerCIDRs)
	}
	var missing []string
	if conn.LocalEPGroupID == "" {
		missing = append(missing, "local_ep_group_id")
	}
	if conn.PeerEPGroupID == "" {
		missing = append(missing, "peer_ep_group_id")
	}
	if len(missing) > 0 {
		return missingRequiredEndpointGroup(missing)
	}
	return nil
}

// ValidateEndpointGroup checks a group on its own: it is non-empty and
// every member parses as the declared type. Subnet members must exist and
// share one IP version.
func (v *ReferenceValidator) ValidateEndpointGroup(ctx context.Context, g model.EndpointGroup) error {
	if len(g.Endpoints) == 0 {
		return missingEndpointForEndpointGroup(g.ID)
	}
	switch g.Type {
	case model.EndpointTypeCIDR:
		for _, ep := range g.Endpoints {
			if _, err := netip.ParsePrefix(ep); err != nil {
				return invalidEndpointInEndpointGroup(g.ID, g.Type, ep, "not a valid CIDR")
			}
		}
		return nil
	case model.EndpointTypeSubnet:
		for _, ep := range g.Endpoints {
			if err := uuid.Validate(ep); err != nil {
				return invalidEndpointInEndpointGroup(g.ID, g.Type, ep, "not a valid subnet id")
			}
		}
		subnets, err := v.lookupSubnets(ctx, g)
		if err != nil {
			return err
		}
		_, err = v.CheckLocalEndpointIPVersions(g.ID, subnets)
		return err
	default:
		return &Error{
			Kind:     KindInvalidRequest,
			Resource: ResourceEndpointGroup,
			Field:    "type",
			Value:    g.Type,
			GroupID:  g.ID,
			Msg:      fmt.Sprintf("endpoint group type %q is not supported", g.Type),
		}
	}
}

// LocalSubnets resolves the members of a subnet-typed local group.
func (v *ReferenceValidator) LocalSubnets(ctx context.Context, g model.EndpointGroup) ([]model.Subnet, error) {
	if g.Type != model.EndpointTypeSubnet {
		return nil, wrongEndpointGroupType("local", g.ID, g.Type, model.EndpointTypeSubnet)
	}
	return v.lookupSubnets(ctx, g)
}

func (v *ReferenceValidator) lookupSubnets(ctx context.Context, g model.EndpointGroup) ([]model.Subnet, error) {
	subnets := make([]model.Subnet, 0, len(g.Endpoints))
	for _, id := range g.Endpoints {
		s, err := v.subnets.GetSubnet(ctx, id)
		if errors.Is(err, netinfo.ErrNotFound) {
			return nil, nonExistingSubnetInEndpointGroup(g.ID, id)
		}
		if err != nil {
			return nil, fmt.Errorf("get subnet %s: %w", id, err)
		}
		subnets = append(subnets, s)
	}
	return subnets, nil
}

// PeerCIDRs returns the members of a cidr-typed peer group.
func (v *ReferenceValidator) PeerCIDRs(g model.EndpointGroup) ([]string, error) {
	if g.Type != model.EndpointTypeCIDR {
		return nil, wrongEndpointGroupType("peer", g.ID, g.Type, model.EndpointTypeCIDR)
	}
	return g.Endpoints, nil
}

// CheckLocalEndpointIPVersions returns the IP version shared by all
// subnets of a local group.
func (v *ReferenceValidator) CheckLocalEndpointIPVersions(groupID string, subnets []model.Subnet) (int, error) {
	if len(subnets) == 0 {
		return 0, missingEndpointForEndpointGroup(groupID)
	}
	version := subnets[0].IPVersion
	for _, s := range subnets[1:] {
		if s.IPVersion != version {
			return 0, mixedIPVersionsForEndpoints(groupID)
		}
	}
	return version, nil
}

// CheckPeerEndpointIPVersions returns the IP version shared by all CIDRs
// of a peer group.
func (v *ReferenceValidator) CheckPeerEndpointIPVersions(groupID string, cidrs []string) (int, error) {
	if len(cidrs) == 0 {
		return 0, missingEndpointForEndpointGroup(groupID)
	}
	version := 0
	for _, c := range cidrs {
		p, err := netip.ParsePrefix(c)
		if err != nil {
			return 0, invalidEndpointInEndpointGroup(groupID, model.EndpointTypeCIDR, c, "not a valid CIDR")
		}
		switch pv := addrVersion(p.Addr()); {
		case version == 0:
			version = pv
		case pv != version:
			return 0, mixedIPVersionsForEndpoints(groupID)
		}
	}
	return version, nil
}

// CheckPeerCIDRsIPVersions returns the IP version shared by a legacy peer
// CIDR list.
func (v *ReferenceValidator) CheckPeerCIDRsIPVersions(cidrs []string) (int, error) {
	if len(cidrs) == 0 {
		return 0, missingPeerCidrs()
	}
	version := 0
	for _, c := range cidrs {
		p, err := netip.ParsePrefix(c)
		if err != nil {
			return 0, invalidPeerCidr(c, err)
		}
		switch pv := addrVersion(p.Addr()); {
		case version == 0:
			version = pv
		case pv != version:
			return 0, mixedIPVersionsForPeerCidrs(cidrs)
		}
	}
	return version, nil
}

func (v *ReferenceValidator) CheckCompatibleIPVersions(localVersion, peerVersion int) error {
	if localVersion != peerVersion {
		return mixedIPVersionsForConnection(localVersion, peerVersion)
	}
	return nil
}

// CheckLocalSubnetsOnRouter fails on the first subnet not attached to the
// router.
func (v *ReferenceValidator) CheckLocalSubnetsOnRouter(ctx context.Context, routerID string, subnets []model.Subnet) error {
	for _, s := range subnets {
		if err := v.CheckSubnetOnRouter(ctx, routerID, s.ID); err != nil {
			return err
		}
	}
	return nil
}
