package validation

import (
	"fmt"
	"sort"
)

// Backend names accepted in configuration.
const (
	BackendReference  = "reference"
	BackendOpenswan   = "openswan"
	BackendStrongswan = "strongswan"
	BackendLibreswan  = "libreswan"
	BackendCiscoCSR   = "cisco-csr"
)

// Backend is the validator of one VPN driver. DeviceIDs is set for
// drivers that address tunnels and policies by small integers.
type Backend struct {
	Name      string
	Validator Validator
	DeviceIDs bool
}

var backends = map[string]func(Deps) Backend{
	BackendReference: func(d Deps) Backend {
		return Backend{Name: BackendReference, Validator: NewReferenceValidator(d)}
	},
	BackendOpenswan:   swanBackend(BackendOpenswan, "Openswan"),
	BackendStrongswan: swanBackend(BackendStrongswan, "Strongswan"),
	BackendLibreswan:  swanBackend(BackendLibreswan, "Libreswan"),
	BackendCiscoCSR: func(d Deps) Backend {
		v := NewDeviceValidator(d)
		return Backend{Name: BackendCiscoCSR, Validator: v, DeviceIDs: v.NeedsDeviceIDs()}
	},
}

func swanBackend(name, display string) func(Deps) Backend {
	return func(d Deps) Backend {
		return Backend{Name: name, Validator: NewSwanValidator(display, d)}
	}
}

// NewBackend returns the validator configured for the named driver.
func NewBackend(name string, deps Deps) (Backend, error) {
	build, ok := backends[name]
	if !ok {
		return Backend{}, fmt.Errorf("unknown vpn backend %q (want one of %v)", name, BackendNames())
	}
	return build(deps), nil
}

func BackendNames() []string {
	names := make([]string, 0, len(backends))
	for n := range backends {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
