package validation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"vpnaas/controlplane/internal/model"
	"vpnaas/controlplane/internal/validation"
)

func TestDeviceValidator_Lifetime(t *testing.T) {
	deps, _, _ := newDeps()
	v := validation.NewDeviceValidator(deps)

	cases := []struct {
		resource string
		lifetime model.Lifetime
		ok       bool
	}{
		{validation.ResourceIkePolicy, model.Lifetime{Units: "seconds", Value: 60}, true},
		{validation.ResourceIkePolicy, model.Lifetime{Units: "seconds", Value: 86400}, true},
		{validation.ResourceIkePolicy, model.Lifetime{Units: "seconds", Value: 59}, false},
		{validation.ResourceIkePolicy, model.Lifetime{Units: "seconds", Value: 86401}, false},
		{validation.ResourceIkePolicy, model.Lifetime{Units: "kilobytes", Value: 3600}, false},
		{validation.ResourceIpsecPolicy, model.Lifetime{Units: "seconds", Value: 120}, true},
		{validation.ResourceIpsecPolicy, model.Lifetime{Units: "seconds", Value: 2592000}, true},
		{validation.ResourceIpsecPolicy, model.Lifetime{Units: "seconds", Value: 119}, false},
		{validation.ResourceIpsecPolicy, model.Lifetime{Units: "seconds", Value: 2592001}, false},
	}
	for _, c := range cases {
		err := v.ValidateLifetime(c.resource, c.lifetime)
		if c.ok {
			require.NoError(t, err, "%s %+v", c.resource, c.lifetime)
			continue
		}
		require.ErrorIs(t, err, validation.ErrValidationFailure, "%s %+v", c.resource, c.lifetime)
	}
}

func TestDeviceValidator_MTU(t *testing.T) {
	deps, _, _ := newDeps()
	v := validation.NewDeviceValidator(deps)

	for _, mtu := range []int{1500, 9192} {
		require.NoError(t, v.ValidateMTU(model.SiteConnection{MTU: mtu}))
	}
	for _, mtu := range []int{1499, 9193} {
		err := v.ValidateMTU(model.SiteConnection{MTU: mtu})
		require.ErrorIs(t, err, validation.ErrValidationFailure)
		var verr *validation.Error
		require.True(t, errors.As(err, &verr))
		require.Equal(t, "mtu", verr.Field)
		require.Equal(t, mtu, verr.Value)
	}
}

func TestDeviceValidator_Policies(t *testing.T) {
	deps, _, _ := newDeps()
	v := validation.NewDeviceValidator(deps)
	ctx := context.Background()

	ike := model.NewIkePolicy("t", "ike")
	require.NoError(t, v.ValidateIkePolicy(ctx, ike))
	ike.IkeVersion = model.IkeV2
	err := v.ValidateIkePolicy(ctx, ike)
	require.ErrorIs(t, err, validation.ErrValidationFailure)
	require.Contains(t, err.Error(), "ike_version")

	ipsec := model.NewIpsecPolicy("t", "ipsec")
	require.NoError(t, v.ValidateIpsecPolicy(ctx, ipsec))

	transport := ipsec
	transport.EncapsulationMode = model.EncapsulationTransport
	require.ErrorIs(t, v.ValidateIpsecPolicy(ctx, transport), validation.ErrValidationFailure)

	ahesp := ipsec
	ahesp.TransformProtocol = model.TransformAHESP
	require.ErrorIs(t, v.ValidateIpsecPolicy(ctx, ahesp), validation.ErrValidationFailure)
}

func TestDeviceValidator_PeerIDAndPublicIP(t *testing.T) {
	deps, _, _ := newDeps()
	v := validation.NewDeviceValidator(deps)

	require.NoError(t, v.ValidatePeerID(model.SiteConnection{PeerID: "10.1.1.1"}))
	require.ErrorIs(t, v.ValidatePeerID(model.SiteConnection{PeerID: "peer@example.com"}), validation.ErrValidationFailure)

	require.NoError(t, v.ValidatePublicIPPresent(model.Router{ID: "r", ExternalGateway: &model.ExternalGateway{FixedIPs: []string{"172.24.4.10"}}}))
	require.ErrorIs(t, v.ValidatePublicIPPresent(model.Router{ID: "r", ExternalGateway: &model.ExternalGateway{}}), validation.ErrValidationFailure)
}

func TestDeviceValidator_SiteConnection(t *testing.T) {
	deps, _, _ := newDeps()
	v := validation.NewDeviceValidator(deps)
	ctx := context.Background()

	require.NoError(t, v.ValidateSiteConnection(ctx, groupRequest(t)))

	// reference rules still apply
	req := groupRequest(t)
	req.Connection.DPDTimeout = 10
	require.ErrorIs(t, v.ValidateSiteConnection(ctx, req), validation.ErrDpdInterval)

	req = groupRequest(t)
	req.Connection.MTU = 1400
	require.ErrorIs(t, v.ValidateSiteConnection(ctx, req), validation.ErrValidationFailure)

	req = groupRequest(t)
	req.Connection.PeerID = "peer@example.com"
	require.ErrorIs(t, v.ValidateSiteConnection(ctx, req), validation.ErrValidationFailure)

	req = groupRequest(t)
	req.IkePolicy.Lifetime = model.Lifetime{Units: "seconds", Value: 30}
	require.ErrorIs(t, v.ValidateSiteConnection(ctx, req), validation.ErrValidationFailure)
}

func TestDeviceValidator_DelegatesDefaults(t *testing.T) {
	deps, _, _ := newDeps()
	v := validation.NewDeviceValidator(deps)

	var conn model.SiteConnection
	v.AssignDefaults(&conn, nil, nil)
	require.Equal(t, model.DefaultDPD, conn.DPD())
	require.True(t, v.NeedsDeviceIDs())
}
