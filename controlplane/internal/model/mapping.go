package model

import (
	"fmt"
	"time"
)

// IdentifierMapping binds a site connection to the small integer ids a
// gateway device needs. Each id column is unique across all tenants.
type IdentifierMapping struct {
	ConnectionID  string    `gorm:"column:ipsec_site_conn_id;primaryKey" json:"ipsec_site_conn_id" yaml:"ipsec_site_conn_id"`
	TenantID      string    `gorm:"column:tenant_id;index" json:"tenant_id" yaml:"tenant_id"`
	TunnelID      int       `gorm:"column:csr_tunnel_id;not null;uniqueIndex" json:"tunnel_id" yaml:"tunnel_id"`
	IkePolicyID   int       `gorm:"column:csr_ike_policy_id;not null;uniqueIndex" json:"ike_policy_id" yaml:"ike_policy_id"`
	IpsecPolicyID int       `gorm:"column:csr_ipsec_policy_id;not null;uniqueIndex" json:"ipsec_policy_id" yaml:"ipsec_policy_id"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at" yaml:"created_at"`
}

func (IdentifierMapping) TableName() string {
	return "identifier_mappings"
}

func NewIdentifierMapping(connectionID, tenantID string, tunnelID, ikePolicyID, ipsecPolicyID int) IdentifierMapping {
	return IdentifierMapping{
		ConnectionID:  connectionID,
		TenantID:      tenantID,
		TunnelID:      tunnelID,
		IkePolicyID:   ikePolicyID,
		IpsecPolicyID: ipsecPolicyID,
		CreatedAt:     time.Now().UTC(),
	}
}

// DeviceIDs are the names a gateway device uses for one connection.
type DeviceIDs struct {
	SiteConnID    string `json:"site_conn_id" yaml:"site_conn_id"`
	IkePolicyID   string `json:"ike_policy_id" yaml:"ike_policy_id"`
	IpsecPolicyID string `json:"ipsec_policy_id" yaml:"ipsec_policy_id"`
}

func (m IdentifierMapping) DeviceIDs() DeviceIDs {
	return DeviceIDs{
		SiteConnID:    fmt.Sprintf("Tunnel%d", m.TunnelID),
		IkePolicyID:   fmt.Sprintf("%d", m.IkePolicyID),
		IpsecPolicyID: fmt.Sprintf("%d", m.IpsecPolicyID),
	}
}

// IDSpace names one of the independently allocated device id spaces.
type IDSpace string

const (
	SpaceTunnel      IDSpace = "tunnel"
	SpaceIkePolicy   IDSpace = "ike_policy"
	SpaceIpsecPolicy IDSpace = "ipsec_policy"
)

// IDSpaces lists the spaces in allocation order.
var IDSpaces = []IDSpace{SpaceTunnel, SpaceIkePolicy, SpaceIpsecPolicy}
