// allocator.go hands out the small integer ids a gateway device uses to
// name tunnels and policies.
//
// Each id space is a closed range. Allocation always returns the lowest
// free id in the range, so ids released by deleted connections are reused
// before the range grows:
//   - used ids outside the range are ignored
//   - duplicates in the used set are tolerated
//   - a full range is an error, allocation never wraps
package service

import (
	"fmt"
	"slices"

	"vpnaas/controlplane/internal/model"
)

// Range is a closed interval of ids.
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Ranges holds the id range of every space.
type Ranges struct {
	Tunnel      Range
	IkePolicy   Range
	IpsecPolicy Range
}

// Device limits of a Cisco CSR.
const (
	DefaultMaxTunnels       = 10000
	DefaultMaxIkePolicies   = 2000
	DefaultMaxIpsecPolicies = 2000
)

// RangesFromLimits builds ranges from device capacity limits. Tunnel ids
// start at 0 and policy ids at 1.
func RangesFromLimits(maxTunnels, maxIkePolicies, maxIpsecPolicies int) Ranges {
	return Ranges{
		Tunnel:      Range{Min: 0, Max: maxTunnels - 1},
		IkePolicy:   Range{Min: 1, Max: maxIkePolicies},
		IpsecPolicy: Range{Min: 1, Max: maxIpsecPolicies},
	}
}

func DefaultRanges() Ranges {
	return RangesFromLimits(DefaultMaxTunnels, DefaultMaxIkePolicies, DefaultMaxIpsecPolicies)
}

func (r Ranges) For(space model.IDSpace) (Range, error) {
	switch space {
	case model.SpaceTunnel:
		return r.Tunnel, nil
	case model.SpaceIkePolicy:
		return r.IkePolicy, nil
	case model.SpaceIpsecPolicy:
		return r.IpsecPolicy, nil
	}
	return Range{}, fmt.Errorf("unknown id space %q", space)
}

// Allocate returns the lowest id in [lo, hi] that is not in used.
func Allocate(used []int, lo, hi int) (int, error) {
	if lo > hi {
		return 0, fmt.Errorf("%w: empty range [%d, %d]", ErrIDSpaceExhausted, lo, hi)
	}

	sorted := slices.Clone(used)
	slices.Sort(sorted)

	candidate := lo
	for _, id := range sorted {
		if id < candidate {
			continue
		}
		if id > candidate {
			break
		}
		candidate++
	}
	if candidate > hi {
		return 0, fmt.Errorf("%w: all ids in [%d, %d] are in use", ErrIDSpaceExhausted, lo, hi)
	}
	return candidate, nil
}
