// Package netinfo answers router and subnet questions for the validators,
// either from a static inventory file or from a networking API.
package netinfo

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"vpnaas/controlplane/internal/model"
)

var ErrNotFound = errors.New("not found")

// Inventory is a static view of routers and subnets. Attachments maps a
// router id to the subnets on its internal interfaces.
type Inventory struct {
	Routers     []model.Router      `yaml:"routers"`
	Subnets     []model.Subnet      `yaml:"subnets"`
	Attachments map[string][]string `yaml:"attachments"`
}

func LoadInventory(path string) (*Inventory, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var inv Inventory
	if err := yaml.Unmarshal(b, &inv); err != nil {
		return nil, fmt.Errorf("parse inventory %s: %w", path, err)
	}
	return &inv, nil
}

func (i *Inventory) GetRouter(_ context.Context, routerID string) (model.Router, error) {
	for _, r := range i.Routers {
		if r.ID == routerID {
			return r, nil
		}
	}
	return model.Router{}, fmt.Errorf("router %s: %w", routerID, ErrNotFound)
}

func (i *Inventory) GetSubnet(_ context.Context, subnetID string) (model.Subnet, error) {
	for _, s := range i.Subnets {
		if s.ID == subnetID {
			return s, nil
		}
	}
	return model.Subnet{}, fmt.Errorf("subnet %s: %w", subnetID, ErrNotFound)
}

func (i *Inventory) IsSubnetAttached(_ context.Context, subnetID, routerID string) (bool, error) {
	for _, id := range i.Attachments[routerID] {
		if id == subnetID {
			return true, nil
		}
	}
	return false, nil
}
