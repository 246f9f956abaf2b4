package model

import (
	"time"

	"github.com/google/uuid"
)

// DPD actions accepted for a site connection.
const (
	DPDActionHold          = "hold"
	DPDActionClear         = "clear"
	DPDActionRestart       = "restart"
	DPDActionRestartByPeer = "restart-by-peer"
	DPDActionDisabled      = "disabled"
)

// Initiator modes.
const (
	InitiatorBiDirectional = "bi-directional"
	InitiatorResponseOnly  = "response-only"
)

// SiteConnection is an IPsec site-to-site connection as stored by the
// caller. DPD is kept flat; requests carry it nested as a DPDUpdate.
type SiteConnection struct {
	ID             string    `json:"id" yaml:"id"`
	TenantID       string    `json:"tenant_id" yaml:"tenant_id" validate:"required"`
	Name           string    `json:"name" yaml:"name"`
	VPNServiceID   string    `json:"vpnservice_id" yaml:"vpnservice_id" validate:"required"`
	IkePolicyID    string    `json:"ikepolicy_id" yaml:"ikepolicy_id" validate:"required"`
	IpsecPolicyID  string    `json:"ipsecpolicy_id" yaml:"ipsecpolicy_id" validate:"required"`
	PeerAddress    string    `json:"peer_address" yaml:"peer_address" validate:"required"`
	PeerID         string    `json:"peer_id" yaml:"peer_id" validate:"required"`
	PeerCIDRs      []string  `json:"peer_cidrs" yaml:"peer_cidrs"`
	LocalEPGroupID string    `json:"local_ep_group_id,omitempty" yaml:"local_ep_group_id"`
	PeerEPGroupID  string    `json:"peer_ep_group_id,omitempty" yaml:"peer_ep_group_id"`
	MTU            int       `json:"mtu" yaml:"mtu" validate:"gte=0"`
	Initiator      string    `json:"initiator" yaml:"initiator" validate:"omitempty,oneof=bi-directional response-only"`
	PSK            string    `json:"psk" yaml:"psk"`
	AdminStateUp   bool      `json:"admin_state_up" yaml:"admin_state_up"`
	DPDAction      string    `json:"dpd_action" yaml:"dpd_action" validate:"omitempty,oneof=hold clear restart restart-by-peer disabled"`
	DPDInterval    int       `json:"dpd_interval" yaml:"dpd_interval"`
	DPDTimeout     int       `json:"dpd_timeout" yaml:"dpd_timeout"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewSiteConnection returns a connection with a fresh id and the
// defaults the API applies on create.
func NewSiteConnection(tenantID, vpnServiceID, ikePolicyID, ipsecPolicyID, peerAddress, peerID string) SiteConnection {
	now := time.Now().UTC()
	return SiteConnection{
		ID:            uuid.NewString(),
		TenantID:      tenantID,
		VPNServiceID:  vpnServiceID,
		IkePolicyID:   ikePolicyID,
		IpsecPolicyID: ipsecPolicyID,
		PeerAddress:   peerAddress,
		PeerID:        peerID,
		MTU:           DefaultMTU,
		Initiator:     InitiatorBiDirectional,
		AdminStateUp:  true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// DefaultMTU is the MTU given to connections that do not set one.
const DefaultMTU = 1500

// DPD returns the flat DPD fields as one value.
func (c SiteConnection) DPD() DPD {
	return DPD{Action: c.DPDAction, Interval: c.DPDInterval, Timeout: c.DPDTimeout}
}

// SetDPD stores d into the flat DPD fields.
func (c *SiteConnection) SetDPD(d DPD) {
	c.DPDAction = d.Action
	c.DPDInterval = d.Interval
	c.DPDTimeout = d.Timeout
}

// UsesEndpointGroups reports whether any endpoint group is referenced.
func (c SiteConnection) UsesEndpointGroups() bool {
	return c.LocalEPGroupID != "" || c.PeerEPGroupID != ""
}
