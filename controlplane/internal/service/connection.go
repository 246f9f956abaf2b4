package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"vpnaas/controlplane/internal/model"
	"vpnaas/controlplane/internal/validation"
)

// Resource labels used for logging and metrics.
const (
	resourceConnection    = "connection"
	resourceIkePolicy     = "ike_policy"
	resourceIpsecPolicy   = "ipsec_policy"
	resourceVPNService    = "vpn_service"
	resourceEndpointGroup = "endpoint_group"
)

// ConnectionService runs the configured backend's validator over
// connection, policy, service and endpoint group changes, and keeps the
// device id mappings of backends that need them.
type ConnectionService struct {
	backend validation.Backend
	mapper  *Mapper
	log     logrus.FieldLogger
	metrics Metrics
}

func NewConnectionService(backend validation.Backend, mapper *Mapper, log logrus.FieldLogger, m Metrics) *ConnectionService {
	if m == nil {
		m = nopMetrics{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ConnectionService{
		backend: backend,
		mapper:  mapper,
		log:     log.WithField("backend", backend.Name),
		metrics: m,
	}
}

// CreateResult is a validated connection and, for device backends, its
// id mapping.
type CreateResult struct {
	Connection model.SiteConnection     `json:"connection" yaml:"connection"`
	Mapping    *model.IdentifierMapping `json:"mapping,omitempty" yaml:"mapping,omitempty"`
	DeviceIDs  *model.DeviceIDs         `json:"device_ids,omitempty" yaml:"device_ids,omitempty"`
}

// ValidateConnection fills DPD defaults and validates req. prev is the
// stored connection on update, nil on create. On success
// req.Connection holds the defaults and the resolved peer address.
func (s *ConnectionService) ValidateConnection(ctx context.Context, req *validation.ConnectionRequest, dpd *model.DPDUpdate, prev *model.SiteConnection) error {
	if req.Connection == nil {
		return errors.New("connection request without connection")
	}
	err := s.checkShapes(req)
	if err == nil {
		s.backend.Validator.AssignDefaults(req.Connection, dpd, prev)
		err = s.backend.Validator.ValidateSiteConnection(ctx, req)
	}
	return s.observe(resourceConnection, req.Connection.ID, err)
}

func (s *ConnectionService) checkShapes(req *validation.ConnectionRequest) error {
	if err := validation.CheckRequest(validation.ResourceSiteConnection, req.Connection); err != nil {
		return err
	}
	if err := validation.CheckRequest(validation.ResourceVPNService, req.Service); err != nil {
		return err
	}
	if err := validation.CheckRequest(validation.ResourceIkePolicy, req.IkePolicy); err != nil {
		return err
	}
	if err := validation.CheckRequest(validation.ResourceIpsecPolicy, req.IpsecPolicy); err != nil {
		return err
	}
	for _, g := range []*model.EndpointGroup{req.LocalGroup, req.PeerGroup} {
		if g == nil {
			continue
		}
		if err := validation.CheckRequest(validation.ResourceEndpointGroup, g); err != nil {
			return err
		}
	}
	return nil
}

// CreateConnection validates a new connection and, when the backend
// addresses tunnels by number, allocates its device ids.
func (s *ConnectionService) CreateConnection(ctx context.Context, req *validation.ConnectionRequest, dpd *model.DPDUpdate) (CreateResult, error) {
	if err := s.ValidateConnection(ctx, req, dpd, nil); err != nil {
		return CreateResult{}, err
	}
	result := CreateResult{Connection: *req.Connection}
	if !s.backend.DeviceIDs {
		return result, nil
	}

	mapping, err := s.mapper.CreateMapping(ctx, *req.Connection)
	if err != nil {
		return CreateResult{}, err
	}
	ids := mapping.DeviceIDs()
	result.Mapping = &mapping
	result.DeviceIDs = &ids
	return result, nil
}

// UpdateConnection validates changes to a stored connection. Its device
// ids are kept.
func (s *ConnectionService) UpdateConnection(ctx context.Context, req *validation.ConnectionRequest, dpd *model.DPDUpdate, prev model.SiteConnection) error {
	return s.ValidateConnection(ctx, req, dpd, &prev)
}

// DeleteConnection releases the device ids of a deleted connection.
func (s *ConnectionService) DeleteConnection(ctx context.Context, connectionID string) error {
	if !s.backend.DeviceIDs {
		return nil
	}
	_, err := s.mapper.DeleteMapping(ctx, connectionID)
	return err
}

// DeviceIDs returns the device names of a connection.
func (s *ConnectionService) DeviceIDs(ctx context.Context, connectionID string) (model.DeviceIDs, error) {
	mapping, err := s.mapper.MappingFor(ctx, connectionID)
	if err != nil {
		return model.DeviceIDs{}, err
	}
	return mapping.DeviceIDs(), nil
}

func (s *ConnectionService) ValidateIkePolicy(ctx context.Context, p model.IkePolicy) error {
	err := validation.CheckRequest(validation.ResourceIkePolicy, p)
	if err == nil {
		err = s.backend.Validator.ValidateIkePolicy(ctx, p)
	}
	return s.observe(resourceIkePolicy, p.ID, err)
}

func (s *ConnectionService) ValidateIpsecPolicy(ctx context.Context, p model.IpsecPolicy) error {
	err := validation.CheckRequest(validation.ResourceIpsecPolicy, p)
	if err == nil {
		err = s.backend.Validator.ValidateIpsecPolicy(ctx, p)
	}
	return s.observe(resourceIpsecPolicy, p.ID, err)
}

func (s *ConnectionService) ValidateVPNService(ctx context.Context, svc model.VPNService) error {
	err := validation.CheckRequest(validation.ResourceVPNService, svc)
	if err == nil {
		err = s.backend.Validator.ValidateVPNService(ctx, svc)
	}
	return s.observe(resourceVPNService, svc.ID, err)
}

func (s *ConnectionService) ValidateEndpointGroup(ctx context.Context, g model.EndpointGroup) error {
	err := validation.CheckRequest(validation.ResourceEndpointGroup, g)
	if err == nil {
		err = s.backend.Validator.ValidateEndpointGroup(ctx, g)
	}
	return s.observe(resourceEndpointGroup, g.ID, err)
}

// observe records the outcome of one validation run and passes err
// through unchanged.
func (s *ConnectionService) observe(resource, id string, err error) error {
	s.metrics.IncValidation(s.backend.Name, resource)
	if err == nil {
		return nil
	}
	entry := s.log.WithFields(logrus.Fields{"resource": resource, "id": id})
	if kind := validation.KindOf(err); kind != "" {
		s.metrics.IncValidationFailure(s.backend.Name, resource, string(kind))
		entry.WithField("kind", kind).Debug(err.Error())
		return err
	}
	entry.WithError(err).Warn("validation could not complete")
	return err
}
