package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleMetricsRecorder(t *testing.T) {
	r := NewConsoleMetricsRecorder()

	before := testutil.ToFloat64(MenuFetchTotal.WithLabelValues("static", ResultError))
	r.RecordMenuFetch("static", 5*time.Millisecond, errors.New("down"))
	assert.Equal(t, before+1, testutil.ToFloat64(MenuFetchTotal.WithLabelValues("static", ResultError)))

	beforeNav := testutil.ToFloat64(NavigationsTotal.WithLabelValues(NavCommitted))
	beforeRedirect := testutil.ToFloat64(NavigationRedirectsTotal)
	r.RecordNavigation(NavCommitted, true)
	assert.Equal(t, beforeNav+1, testutil.ToFloat64(NavigationsTotal.WithLabelValues(NavCommitted)))
	assert.Equal(t, beforeRedirect+1, testutil.ToFloat64(NavigationRedirectsTotal))

	r.SetActiveSessions(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(ActiveSessions))
}

func TestConsoleMetricsRecorder_Nil(t *testing.T) {
	var r *ConsoleMetricsRecorder
	assert.NotPanics(t, func() {
		r.RecordMenuFetch("http", time.Second, nil)
		r.RecordPermissionLoad(3, nil)
		r.RecordNavigation(NavFailed, false)
		r.RecordStorageError("visited-routes")
		r.SetActiveSessions(1)
	})
}

func TestNewMetricsServer(t *testing.T) {
	s := NewMetricsServer(MetricsConfig{Enable: true})
	assert.NotNil(t, s.Handler())
	assert.True(t, s.Enabled())
	// port 0 does not start a listener
	assert.NoError(t, s.Start())
}

func TestRegisterConsoleMetrics_PerRegistry(t *testing.T) {
	a := NewMetricsServer(MetricsConfig{Enable: true})
	b := NewMetricsServer(MetricsConfig{Enable: true})

	ActiveSessions.Set(2)
	for _, s := range []*Server{a, b} {
		families, err := s.GetRegistry().Gather()
		require.NoError(t, err)
		var names []string
		for _, f := range families {
			names = append(names, f.GetName())
		}
		assert.Contains(t, names, "console_active_sessions")
	}
}
