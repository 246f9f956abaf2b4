package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"vpnaas/controlplane/internal/model"
	"vpnaas/controlplane/internal/validation"
)

// Request kinds accepted by the validate command.
const (
	KindConnection    = "connection"
	KindIkePolicy     = "ike-policy"
	KindIpsecPolicy   = "ipsec-policy"
	KindVPNService    = "vpn-service"
	KindEndpointGroup = "endpoint-group"
)

// requestFile is the YAML document a command reads. Which sections are
// needed depends on Kind.
type requestFile struct {
	Kind          string                `yaml:"kind"`
	Connection    *model.SiteConnection `yaml:"connection"`
	DPD           *model.DPDUpdate      `yaml:"dpd"`
	Previous      *model.SiteConnection `yaml:"previous"`
	VPNService    *model.VPNService     `yaml:"vpn_service"`
	IkePolicy     *model.IkePolicy      `yaml:"ike_policy"`
	IpsecPolicy   *model.IpsecPolicy    `yaml:"ipsec_policy"`
	LocalEPGroup  *model.EndpointGroup  `yaml:"local_ep_group"`
	PeerEPGroup   *model.EndpointGroup  `yaml:"peer_ep_group"`
	EndpointGroup *model.EndpointGroup  `yaml:"endpoint_group"`
}

func readRequest(path string) (requestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return requestFile{}, fmt.Errorf("read request: %w", err)
	}
	var req requestFile
	if err := yaml.Unmarshal(data, &req); err != nil {
		return requestFile{}, fmt.Errorf("parse request: %w", err)
	}
	if req.Kind == "" {
		req.Kind = KindConnection
	}
	return req, nil
}

// connectionRequest assembles the validation input of a connection and
// fills the values the API would default on create.
func (r requestFile) connectionRequest() (*validation.ConnectionRequest, error) {
	var missing []string
	if r.Connection == nil {
		missing = append(missing, "connection")
	}
	if r.VPNService == nil {
		missing = append(missing, "vpn_service")
	}
	if r.IkePolicy == nil {
		missing = append(missing, "ike_policy")
	}
	if r.IpsecPolicy == nil {
		missing = append(missing, "ipsec_policy")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("request is missing %v", missing)
	}

	conn := *r.Connection
	if conn.ID == "" {
		conn.ID = uuid.NewString()
	}
	if conn.MTU == 0 {
		conn.MTU = model.DefaultMTU
	}
	if conn.Initiator == "" {
		conn.Initiator = model.InitiatorBiDirectional
	}
	if conn.VPNServiceID == "" {
		conn.VPNServiceID = r.VPNService.ID
	}
	if conn.IkePolicyID == "" {
		conn.IkePolicyID = r.IkePolicy.ID
	}
	if conn.IpsecPolicyID == "" {
		conn.IpsecPolicyID = r.IpsecPolicy.ID
	}

	return &validation.ConnectionRequest{
		Connection:  &conn,
		Service:     *r.VPNService,
		IkePolicy:   ikeWithDefaults(*r.IkePolicy),
		IpsecPolicy: ipsecWithDefaults(*r.IpsecPolicy),
		LocalGroup:  r.LocalEPGroup,
		PeerGroup:   r.PeerEPGroup,
	}, nil
}

func ikeWithDefaults(p model.IkePolicy) model.IkePolicy {
	if p.Lifetime == (model.Lifetime{}) {
		p.Lifetime = model.DefaultLifetime
	}
	if p.IkeVersion == "" {
		p.IkeVersion = model.IkeV1
	}
	return p
}

func ipsecWithDefaults(p model.IpsecPolicy) model.IpsecPolicy {
	if p.Lifetime == (model.Lifetime{}) {
		p.Lifetime = model.DefaultLifetime
	}
	if p.TransformProtocol == "" {
		p.TransformProtocol = model.TransformESP
	}
	if p.EncapsulationMode == "" {
		p.EncapsulationMode = model.EncapsulationTunnel
	}
	return p
}

var errSectionMissing = errors.New("request section missing")

func requireSection[T any](section *T, name string) (T, error) {
	if section == nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", name, errSectionMissing)
	}
	return *section, nil
}
