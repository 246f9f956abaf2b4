package model

import "github.com/google/uuid"

// Endpoint group types. A group holds members of exactly one type.
const (
	EndpointTypeSubnet = "subnet"
	EndpointTypeCIDR   = "cidr"
)

type EndpointGroup struct {
	ID        string   `json:"id" yaml:"id" validate:"required"`
	TenantID  string   `json:"tenant_id" yaml:"tenant_id"`
	Name      string   `json:"name" yaml:"name"`
	Type      string   `json:"type" yaml:"type" validate:"required,oneof=subnet cidr"`
	Endpoints []string `json:"endpoints" yaml:"endpoints"`
}

func NewEndpointGroup(tenantID, name, typ string, endpoints []string) EndpointGroup {
	return EndpointGroup{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Name:      name,
		Type:      typ,
		Endpoints: endpoints,
	}
}
