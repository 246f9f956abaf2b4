package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"vpnaas/controlplane/internal/metrics"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.IncValidation("cisco-csr", "connection")
	c.IncValidation("cisco-csr", "connection")
	c.IncValidationFailure("cisco-csr", "connection", "MtuTooSmall")
	c.IncIDAllocated("tunnel")
	c.IncIDSpaceExhausted("ike_policy")
	c.SetMappings(3)

	require.Equal(t, 2.0, testutil.ToFloat64(c.Validations.WithLabelValues("cisco-csr", "connection")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.ValidationFailures.WithLabelValues("cisco-csr", "connection", "MtuTooSmall")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.IDsAllocated.WithLabelValues("tunnel")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.IDSpaceExhausted.WithLabelValues("ike_policy")))
	require.Equal(t, 3.0, testutil.ToFloat64(c.Mappings))

	expected := `
# HELP vpnaas_mapping_ids_allocated_total Total device ids allocated.
# TYPE vpnaas_mapping_ids_allocated_total counter
vpnaas_mapping_ids_allocated_total{space="tunnel"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "vpnaas_mapping_ids_allocated_total"))
}

func TestNewCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewCollector(reg)
	require.Panics(t, func() { metrics.NewCollector(reg) })
}
