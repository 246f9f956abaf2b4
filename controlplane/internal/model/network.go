package model

import "github.com/google/uuid"

// VPNService ties connections to one router. SubnetID is only set for
// legacy connections that use a flat peer CIDR list.
type VPNService struct {
	ID       string `json:"id" yaml:"id" validate:"required"`
	TenantID string `json:"tenant_id" yaml:"tenant_id"`
	Name     string `json:"name" yaml:"name"`
	RouterID string `json:"router_id" yaml:"router_id" validate:"required"`
	SubnetID string `json:"subnet_id,omitempty" yaml:"subnet_id"`
}

func NewVPNService(tenantID, name, routerID, subnetID string) VPNService {
	return VPNService{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		Name:     name,
		RouterID: routerID,
		SubnetID: subnetID,
	}
}

// Legacy reports whether the service binds a subnet.
func (s VPNService) Legacy() bool {
	return s.SubnetID != ""
}

// Router is the view of a router the validators need.
type Router struct {
	ID              string           `json:"id" yaml:"id"`
	ExternalGateway *ExternalGateway `json:"external_gateway_info,omitempty" yaml:"external_gateway"`
}

// ExternalGateway describes the router's gateway port. FixedIPs are the
// addresses on that port.
type ExternalGateway struct {
	NetworkID string   `json:"network_id" yaml:"network_id"`
	FixedIPs  []string `json:"fixed_ips" yaml:"fixed_ips"`
}

// GatewayIPs returns the fixed IPs of the gateway port, nil when the
// router has no gateway.
func (r Router) GatewayIPs() []string {
	if r.ExternalGateway == nil {
		return nil
	}
	return r.ExternalGateway.FixedIPs
}

type Subnet struct {
	ID        string `json:"id" yaml:"id"`
	CIDR      string `json:"cidr" yaml:"cidr"`
	IPVersion int    `json:"ip_version" yaml:"ip_version"`
}
