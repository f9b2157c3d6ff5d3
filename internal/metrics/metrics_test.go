package metrics_test

import (
	"errors"
	"testing"

	"dispatch/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDefault_IsIdempotent(t *testing.T) {
	require.NotPanics(t, metrics.RegisterDefault)
	require.NotPanics(t, metrics.RegisterDefault)

	families, err := metrics.Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestObserveCall_LabelsStatus(t *testing.T) {
	before := testutil.CollectAndCount(metrics.CollaboratorLatency)

	metrics.ObserveCall("test", "ok_call")(nil)
	metrics.ObserveCall("test", "failed_call")(errors.New("boom"))

	assert.Equal(t, before+2, testutil.CollectAndCount(metrics.CollaboratorLatency))
}

func TestNotifications_CountsByLabel(t *testing.T) {
	c := metrics.Notifications.WithLabelValues("customer", "sent")
	before := testutil.ToFloat64(c)

	c.Inc()

	assert.InDelta(t, before+1, testutil.ToFloat64(c), 0)
}
