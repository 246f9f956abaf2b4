package validation

import (
	"context"

	"vpnaas/controlplane/internal/model"
)

// SwanValidator serves the Openswan, Strongswan and Libreswan drivers.
// They take the reference rules except that AH combined with ESP is not
// supported.
type SwanValidator struct {
	*ReferenceValidator
	name string
}

func NewSwanValidator(name string, deps Deps) *SwanValidator {
	return &SwanValidator{ReferenceValidator: NewReferenceValidator(deps), name: name}
}

func (v *SwanValidator) ValidateIpsecPolicy(ctx context.Context, p model.IpsecPolicy) error {
	if err := v.ReferenceValidator.ValidateIpsecPolicy(ctx, p); err != nil {
		return err
	}
	return rejectAHESP(v.name, p)
}

func (v *SwanValidator) NeedsDeviceIDs() bool {
	return false
}

func rejectAHESP(backend string, p model.IpsecPolicy) error {
	if p.TransformProtocol == model.TransformAHESP {
		return Failure(backend, ResourceIpsecPolicy, "transform_protocol", p.TransformProtocol, "")
	}
	return nil
}
