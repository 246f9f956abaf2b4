package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"vpnaas/controlplane/internal/model"
	"vpnaas/controlplane/internal/repository"
)

// Metrics receives service events. *metrics.Collector implements it.
type Metrics interface {
	IncValidation(backend, resource string)
	IncValidationFailure(backend, resource, kind string)
	IncIDAllocated(space string)
	IncIDSpaceExhausted(space string)
	SetMappings(n int)
}

type nopMetrics struct{}

func (nopMetrics) IncValidation(string, string)                {}
func (nopMetrics) IncValidationFailure(string, string, string) {}
func (nopMetrics) IncIDAllocated(string)                       {}
func (nopMetrics) IncIDSpaceExhausted(string)                  {}
func (nopMetrics) SetMappings(int)                             {}

// Mapper owns the identifier mappings of site connections. Ids are
// global across tenants.
//
// Allocation reads the used ids and inserts the new row in one
// transaction while holding mu, so two connections created through the
// same Mapper never get the same id. The unique indexes on the id columns
// reject a collision with another process; the losing create fails and
// persists nothing.
type Mapper struct {
	mu      sync.Mutex
	repo    repository.Repository
	ranges  Ranges
	log     logrus.FieldLogger
	metrics Metrics
}

func NewMapper(repo repository.Repository, ranges Ranges, log logrus.FieldLogger, m Metrics) *Mapper {
	if m == nil {
		m = nopMetrics{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Mapper{repo: repo, ranges: ranges, log: log, metrics: m}
}

// CreateMapping allocates a tunnel id, an IKE policy id and an IPsec
// policy id for conn and stores them.
func (m *Mapper) CreateMapping(ctx context.Context, conn model.SiteConnection) (model.IdentifierMapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var created model.IdentifierMapping
	err := m.repo.WithTx(ctx, func(repo repository.Repository) error {
		_, err := repo.GetMapping(ctx, conn.ID)
		if err == nil {
			return fmt.Errorf("connection %s: %w", conn.ID, ErrMappingExists)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		ids := make(map[model.IDSpace]int, len(model.IDSpaces))
		for _, space := range model.IDSpaces {
			id, err := m.allocate(ctx, repo, space)
			if err != nil {
				return err
			}
			ids[space] = id
		}

		row := model.NewIdentifierMapping(conn.ID, conn.TenantID,
			ids[model.SpaceTunnel], ids[model.SpaceIkePolicy], ids[model.SpaceIpsecPolicy])
		if err := repo.CreateMapping(ctx, &row); err != nil {
			return fmt.Errorf("store mapping for connection %s: %w", conn.ID, err)
		}
		created = row
		return nil
	})
	if err != nil {
		return model.IdentifierMapping{}, err
	}

	for _, space := range model.IDSpaces {
		m.metrics.IncIDAllocated(string(space))
	}
	m.refreshCount(ctx)
	m.log.WithFields(logrus.Fields{
		"connection_id":   conn.ID,
		"tunnel_id":       created.TunnelID,
		"ike_policy_id":   created.IkePolicyID,
		"ipsec_policy_id": created.IpsecPolicyID,
	}).Info("identifier mapping created")
	return created, nil
}

func (m *Mapper) allocate(ctx context.Context, repo repository.Repository, space model.IDSpace) (int, error) {
	r, err := m.ranges.For(space)
	if err != nil {
		return 0, err
	}
	used, err := repo.UsedIDs(ctx, space)
	if err != nil {
		return 0, fmt.Errorf("read used %s ids: %w", space, err)
	}
	id, err := Allocate(used, r.Min, r.Max)
	if err != nil {
		if errors.Is(err, ErrIDSpaceExhausted) {
			m.metrics.IncIDSpaceExhausted(string(space))
			m.log.WithField("space", space).Warn("device id space exhausted")
		}
		return 0, fmt.Errorf("allocate %s id: %w", space, err)
	}
	return id, nil
}

func (m *Mapper) MappingFor(ctx context.Context, connectionID string) (model.IdentifierMapping, error) {
	row, err := m.repo.GetMapping(ctx, connectionID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.IdentifierMapping{}, fmt.Errorf("connection %s: %w", connectionID, ErrMappingNotFound)
	}
	return row, err
}

// DeleteMapping removes the mapping of a deleted connection, freeing its
// ids. It reports whether a mapping existed.
func (m *Mapper) DeleteMapping(ctx context.Context, connectionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted, err := m.repo.DeleteMapping(ctx, connectionID)
	if err != nil {
		return false, fmt.Errorf("delete mapping for connection %s: %w", connectionID, err)
	}
	if deleted {
		m.refreshCount(ctx)
		m.log.WithField("connection_id", connectionID).Info("identifier mapping deleted")
	}
	return deleted, nil
}

func (m *Mapper) ListMappings(ctx context.Context) ([]model.IdentifierMapping, error) {
	return m.repo.ListMappings(ctx)
}

func (m *Mapper) refreshCount(ctx context.Context) {
	n, err := m.repo.CountMappings(ctx)
	if err != nil {
		m.log.WithError(err).Warn("count identifier mappings")
		return
	}
	m.metrics.SetMappings(int(n))
}
