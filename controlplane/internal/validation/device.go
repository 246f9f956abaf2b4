package validation

import (
	"context"
	"fmt"
	"net/netip"

	"vpnaas/controlplane/internal/model"
)

const deviceName = "Cisco CSR"

// MTU range accepted by the gateway device.
const (
	DeviceMinMTU = 1500
	DeviceMaxMTU = 9192
)

type bounds struct {
	min, max int
}

var lifetimeBounds = map[string]bounds{
	ResourceIkePolicy:   {60, 86400},
	ResourceIpsecPolicy: {120, 2592000},
}

// DeviceValidator adds the restrictions of a Cisco CSR gateway on top of
// the reference rules. Connections it accepts need device ids.
type DeviceValidator struct {
	ref     *ReferenceValidator
	routers RouterLookup
}

func NewDeviceValidator(deps Deps) *DeviceValidator {
	return &DeviceValidator{
		ref:     NewReferenceValidator(deps),
		routers: deps.Routers,
	}
}

func (v *DeviceValidator) NeedsDeviceIDs() bool {
	return true
}

func (v *DeviceValidator) ValidateIkeVersion(p model.IkePolicy) error {
	if p.IkeVersion != model.IkeV1 {
		return Failure(deviceName, ResourceIkePolicy, "ike_version", p.IkeVersion, "only v1 is supported")
	}
	return nil
}

// ValidateLifetime checks a policy lifetime against the device limits of
// resource. Only seconds are accepted and values are never converted.
func (v *DeviceValidator) ValidateLifetime(resource string, lt model.Lifetime) error {
	if lt.Units != model.LifetimeSeconds {
		return Failure(deviceName, resource, "lifetime", lt.Units, "units must be seconds")
	}
	b, ok := lifetimeBounds[resource]
	if !ok {
		return fmt.Errorf("no lifetime limits for %s", resource)
	}
	if lt.Value < b.min || lt.Value > b.max {
		err := Failure(deviceName, resource, "lifetime", lt.Value,
			fmt.Sprintf("must be between %d and %d seconds", b.min, b.max))
		err.Limit = [2]int{b.min, b.max}
		return err
	}
	return nil
}

func (v *DeviceValidator) ValidateMTU(conn model.SiteConnection) error {
	if conn.MTU < DeviceMinMTU || conn.MTU > DeviceMaxMTU {
		err := Failure(deviceName, ResourceSiteConnection, "mtu", conn.MTU,
			fmt.Sprintf("must be between %d and %d", DeviceMinMTU, DeviceMaxMTU))
		err.Limit = [2]int{DeviceMinMTU, DeviceMaxMTU}
		return err
	}
	return nil
}

func (v *DeviceValidator) ValidateEncapMode(p model.IpsecPolicy) error {
	if p.EncapsulationMode != model.EncapsulationTunnel {
		return Failure(deviceName, ResourceIpsecPolicy, "encapsulation_mode", p.EncapsulationMode, "only tunnel mode is supported")
	}
	return nil
}

func (v *DeviceValidator) ValidateTransformProtocol(p model.IpsecPolicy) error {
	return rejectAHESP(deviceName, p)
}

// ValidatePeerID requires the peer id to be an IP address.
func (v *DeviceValidator) ValidatePeerID(conn model.SiteConnection) error {
	if _, err := netip.ParseAddr(conn.PeerID); err != nil {
		return Failure(deviceName, ResourceSiteConnection, "peer_id", conn.PeerID, "must be an IP address")
	}
	return nil
}

// ValidatePublicIPPresent requires the router gateway to have an address.
func (v *DeviceValidator) ValidatePublicIPPresent(router model.Router) error {
	if len(router.GatewayIPs()) == 0 {
		err := Failure(deviceName, ResourceRouter, "external_gateway_info", router.ID, "router has no public IP")
		err.RouterID = router.ID
		return err
	}
	return nil
}

func (v *DeviceValidator) ValidateVPNService(ctx context.Context, svc model.VPNService) error {
	return v.ref.ValidateVPNService(ctx, svc)
}

func (v *DeviceValidator) ValidateEndpointGroup(ctx context.Context, g model.EndpointGroup) error {
	return v.ref.ValidateEndpointGroup(ctx, g)
}

func (v *DeviceValidator) AssignDefaults(conn *model.SiteConnection, dpd *model.DPDUpdate, prev *model.SiteConnection) {
	v.ref.AssignDefaults(conn, dpd, prev)
}

func (v *DeviceValidator) ValidateIkePolicy(ctx context.Context, p model.IkePolicy) error {
	if err := v.ref.ValidateIkePolicy(ctx, p); err != nil {
		return err
	}
	if err := v.ValidateIkeVersion(p); err != nil {
		return err
	}
	return v.ValidateLifetime(ResourceIkePolicy, p.Lifetime)
}

func (v *DeviceValidator) ValidateIpsecPolicy(ctx context.Context, p model.IpsecPolicy) error {
	if err := v.ref.ValidateIpsecPolicy(ctx, p); err != nil {
		return err
	}
	if err := v.ValidateTransformProtocol(p); err != nil {
		return err
	}
	if err := v.ValidateEncapMode(p); err != nil {
		return err
	}
	return v.ValidateLifetime(ResourceIpsecPolicy, p.Lifetime)
}

// ValidateSiteConnection runs the reference rules, then checks the
// referenced policies and the connection against the device limits.
func (v *DeviceValidator) ValidateSiteConnection(ctx context.Context, req *ConnectionRequest) error {
	if err := v.ref.ValidateSiteConnection(ctx, req); err != nil {
		return err
	}
	if err := v.ValidateIkePolicy(ctx, req.IkePolicy); err != nil {
		return err
	}
	if err := v.ValidateIpsecPolicy(ctx, req.IpsecPolicy); err != nil {
		return err
	}
	if err := v.ValidateMTU(*req.Connection); err != nil {
		return err
	}
	if err := v.ValidatePeerID(*req.Connection); err != nil {
		return err
	}
	router, err := v.routers.GetRouter(ctx, req.Service.RouterID)
	if err != nil {
		return fmt.Errorf("get router: %w", err)
	}
	return v.ValidatePublicIPPresent(router)
}
