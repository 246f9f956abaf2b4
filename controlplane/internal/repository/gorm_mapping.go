package repository

import (
	"context"
	"fmt"

	"vpnaas/controlplane/internal/model"
)

var spaceColumns = map[model.IDSpace]string{
	model.SpaceTunnel:      "csr_tunnel_id",
	model.SpaceIkePolicy:   "csr_ike_policy_id",
	model.SpaceIpsecPolicy: "csr_ipsec_policy_id",
}

func (r *GormRepository) UsedIDs(ctx context.Context, space model.IDSpace) ([]int, error) {
	column, ok := spaceColumns[space]
	if !ok {
		return nil, fmt.Errorf("unknown id space %q", space)
	}
	var ids []int
	if err := r.db.WithContext(ctx).
		Model(&model.IdentifierMapping{}).
		Order(column).
		Pluck(column, &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GormRepository) CreateMapping(ctx context.Context, m *model.IdentifierMapping) error {
	return mapErr(r.db.WithContext(ctx).Create(m).Error)
}

func (r *GormRepository) GetMapping(ctx context.Context, connectionID string) (model.IdentifierMapping, error) {
	var m model.IdentifierMapping
	if err := r.db.WithContext(ctx).First(&m, "ipsec_site_conn_id = ?", connectionID).Error; err != nil {
		return model.IdentifierMapping{}, mapErr(err)
	}
	return m, nil
}

func (r *GormRepository) ListMappings(ctx context.Context) ([]model.IdentifierMapping, error) {
	var out []model.IdentifierMapping
	if err := r.db.WithContext(ctx).Order("csr_tunnel_id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepository) CountMappings(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.IdentifierMapping{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormRepository) DeleteMapping(ctx context.Context, connectionID string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.IdentifierMapping{}, "ipsec_site_conn_id = ?", connectionID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
