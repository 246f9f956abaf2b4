package validation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"vpnaas/controlplane/internal/model"
	"vpnaas/controlplane/internal/validation"
)

func TestNewBackend(t *testing.T) {
	deps, _, _ := newDeps()

	for _, name := range validation.BackendNames() {
		b, err := validation.NewBackend(name, deps)
		require.NoError(t, err, name)
		require.Equal(t, name, b.Name)
		require.NotNil(t, b.Validator)
		require.Equal(t, name == validation.BackendCiscoCSR, b.DeviceIDs, name)
	}

	_, err := validation.NewBackend("juniper", deps)
	require.Error(t, err)
}

func TestSwanValidator_RejectsAHESP(t *testing.T) {
	deps, _, _ := newDeps()
	ctx := context.Background()

	b, err := validation.NewBackend(validation.BackendStrongswan, deps)
	require.NoError(t, err)

	p := model.NewIpsecPolicy("t", "p")
	require.NoError(t, b.Validator.ValidateIpsecPolicy(ctx, p))

	// transport mode and other lifetimes are fine outside the device backend
	p.EncapsulationMode = model.EncapsulationTransport
	p.Lifetime = model.Lifetime{Units: model.LifetimeKilobytes, Value: 10}
	require.NoError(t, b.Validator.ValidateIpsecPolicy(ctx, p))

	p.TransformProtocol = model.TransformAHESP
	err = b.Validator.ValidateIpsecPolicy(ctx, p)
	require.ErrorIs(t, err, validation.ErrValidationFailure)
	require.Contains(t, err.Error(), "Strongswan")

	ref, err := validation.NewBackend(validation.BackendReference, deps)
	require.NoError(t, err)
	require.NoError(t, ref.Validator.ValidateIpsecPolicy(ctx, p))
}

func TestCheckRequest(t *testing.T) {
	conn := model.NewSiteConnection("tenant", "svc", "ike", "ipsec", "198.51.100.7", "198.51.100.7")
	require.NoError(t, validation.CheckRequest(validation.ResourceSiteConnection, conn))

	conn.DPDAction = "shout"
	err := validation.CheckRequest(validation.ResourceSiteConnection, conn)
	require.ErrorIs(t, err, validation.ErrInvalidRequest)
	require.Equal(t, validation.KindInvalidRequest, validation.KindOf(err))

	conn = model.NewSiteConnection("tenant", "", "ike", "ipsec", "198.51.100.7", "198.51.100.7")
	err = validation.CheckRequest(validation.ResourceSiteConnection, conn)
	require.ErrorIs(t, err, validation.ErrInvalidRequest)
	require.Contains(t, err.Error(), "VPNServiceID")
}
