package model

import "github.com/google/uuid"

// Lifetime units.
const (
	LifetimeSeconds   = "seconds"
	LifetimeKilobytes = "kilobytes"
)

// IKE versions.
const (
	IkeV1 = "v1"
	IkeV2 = "v2"
)

// IPsec transform protocols.
const (
	TransformESP   = "esp"
	TransformAH    = "ah"
	TransformAHESP = "ah-esp"
)

// IPsec encapsulation modes.
const (
	EncapsulationTunnel    = "tunnel"
	EncapsulationTransport = "transport"
)

// Lifetime is a policy lifetime. Value is expressed in Units and is never
// converted.
type Lifetime struct {
	Units string `json:"units" yaml:"units" validate:"required"`
	Value int    `json:"value" yaml:"value" validate:"gt=0"`
}

// DefaultLifetime is the lifetime given to policies created without one.
var DefaultLifetime = Lifetime{Units: LifetimeSeconds, Value: 3600}

type IkePolicy struct {
	ID                    string   `json:"id" yaml:"id" validate:"required"`
	TenantID              string   `json:"tenant_id" yaml:"tenant_id"`
	Name                  string   `json:"name" yaml:"name"`
	AuthAlgorithm         string   `json:"auth_algorithm" yaml:"auth_algorithm"`
	EncryptionAlgorithm   string   `json:"encryption_algorithm" yaml:"encryption_algorithm"`
	Phase1NegotiationMode string   `json:"phase1_negotiation_mode" yaml:"phase1_negotiation_mode"`
	IkeVersion            string   `json:"ike_version" yaml:"ike_version" validate:"omitempty,oneof=v1 v2"`
	Lifetime              Lifetime `json:"lifetime" yaml:"lifetime"`
	PFS                   string   `json:"pfs" yaml:"pfs"`
}

func NewIkePolicy(tenantID, name string) IkePolicy {
	return IkePolicy{
		ID:                    uuid.NewString(),
		TenantID:              tenantID,
		Name:                  name,
		AuthAlgorithm:         "sha1",
		EncryptionAlgorithm:   "aes-128",
		Phase1NegotiationMode: "main",
		IkeVersion:            IkeV1,
		Lifetime:              DefaultLifetime,
		PFS:                   "group5",
	}
}

type IpsecPolicy struct {
	ID                  string   `json:"id" yaml:"id" validate:"required"`
	TenantID            string   `json:"tenant_id" yaml:"tenant_id"`
	Name                string   `json:"name" yaml:"name"`
	TransformProtocol   string   `json:"transform_protocol" yaml:"transform_protocol" validate:"omitempty,oneof=esp ah ah-esp"`
	EncapsulationMode   string   `json:"encapsulation_mode" yaml:"encapsulation_mode" validate:"omitempty,oneof=tunnel transport"`
	AuthAlgorithm       string   `json:"auth_algorithm" yaml:"auth_algorithm"`
	EncryptionAlgorithm string   `json:"encryption_algorithm" yaml:"encryption_algorithm"`
	Lifetime            Lifetime `json:"lifetime" yaml:"lifetime"`
	PFS                 string   `json:"pfs" yaml:"pfs"`
}

func NewIpsecPolicy(tenantID, name string) IpsecPolicy {
	return IpsecPolicy{
		ID:                  uuid.NewString(),
		TenantID:            tenantID,
		Name:                name,
		TransformProtocol:   TransformESP,
		EncapsulationMode:   EncapsulationTunnel,
		AuthAlgorithm:       "sha1",
		EncryptionAlgorithm: "aes-128",
		Lifetime:            DefaultLifetime,
		PFS:                 "group5",
	}
}
