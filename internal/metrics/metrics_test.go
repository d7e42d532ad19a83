package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/tank-emergency/internal/domain/emergency"
	"github.com/oshokin/tank-emergency/internal/domain/tank"
)

// TestRecorder_Emergencies counts triggers, fire outcomes and resolutions.
func TestRecorder_Emergencies(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	r := New(reg)

	fire, ok := emergency.Lookup(emergency.IDFire1)
	require.True(t, ok)

	e := emergency.New(fire, time.Now())
	e.SystemResponse = &emergency.Outcome{Status: emergency.StatusFailure}
	e.PeakTemperature = 4200

	r.Triggered(e)
	require.InDelta(t, 1.0, testutil.ToFloat64(r.triggered.WithLabelValues(emergency.IDFire1, "fire")), 0)
	require.InDelta(t, 1.0, testutil.ToFloat64(r.fireResponses.WithLabelValues("failure")), 0)
	require.InDelta(t, 1.0, testutil.ToFloat64(r.active), 0)

	r.Resolved(e)
	require.InDelta(t, 1.0, testutil.ToFloat64(r.resolved.WithLabelValues(emergency.IDFire1, "fire-response")), 0)
	require.InDelta(t, 0.0, testutil.ToFloat64(r.active), 0)

	r.Resolved(nil)
	require.InDelta(t, 1.0, testutil.ToFloat64(r.idleResolves), 0)
}

// TestRecorder_ObserveTanks mirrors a snapshot and serves it over HTTP.
func TestRecorder_ObserveTanks(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	r := New(reg)

	s := tank.DefaultSnapshot()
	s.Tank2.Level = 30
	s.FlowEnabled = false

	r.ObserveTanks(s)
	require.InDelta(t, 30.0, testutil.ToFloat64(r.level.WithLabelValues("2")), 0)
	require.InDelta(t, 25.0, testutil.ToFloat64(r.temperature.WithLabelValues("1", "external")), 0)
	require.InDelta(t, 0.0, testutil.ToFloat64(r.flow), 0)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "tank_emergency_tank_level_percent")
}
