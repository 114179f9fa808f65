package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_DefaultRegistry(t *testing.T) {
	require.NotPanics(t, func() {
		Register()
		Register()
	})

	ObserveAuth("signup", ResultSuccess)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["auth_operations_total"])
	assert.True(t, names["go_goroutines"], "runtime collectors come from the default registry")
}

func TestObserveAuth(t *testing.T) {
	before := testutil.ToFloat64(AuthOperations.WithLabelValues("login", ResultRejected))

	ObserveAuth("login", ResultRejected)
	ObserveAuth("login", ResultRejected)

	after := testutil.ToFloat64(AuthOperations.WithLabelValues("login", ResultRejected))
	assert.Equal(t, before+2, after)
}
