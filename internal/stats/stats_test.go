package stats

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStatsUpdater(t *testing.T) {
	mux := http.NewServeMux()
	su := NewStatsUpdater(mux)
	assert.NotNil(t, su, "expected StatsUpdater to be non-nil")
	assert.NotNil(t, su.updateChan, "expected updateChan to be initialized")
	handler, pattern := mux.Handler(&http.Request{URL: &url.URL{Path: "/debug/vars"}, Method: http.MethodGet})
	assert.NotNil(t, handler, "expected handler for /debug/vars to be set")
	assert.Equal(t, "GET /debug/vars", pattern, "expected handler to be registered for GET method on /debug/vars")
}

func TestStatsUpdater_Counters(t *testing.T) {
	mux := http.NewServeMux()
	su := NewStatsUpdater(mux)
	su.RegisterMetric("ActiveRooms")
	su.Run()
	defer su.Stop()

	su.Incr("ActiveRooms")
	su.Incr("ActiveRooms")
	su.Decr("ActiveRooms")

	require.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/vars", nil))

		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			return false
		}
		_, hasUptime := body["Uptime"]
		return hasUptime && body["ActiveRooms"] == float64(1)
	}, time.Second, 10*time.Millisecond)
}

func TestStatsUpdater_UpdatesAfterStop(t *testing.T) {
	su := NewStatsUpdater(http.NewServeMux())
	su.RegisterMetric("ActiveConnections")
	su.Run()
	su.Stop()
	su.Stop()

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for range cap(su.updateChan) + 10 {
			su.Incr("ActiveConnections")
			su.Decr("ActiveConnections")
		}
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("updates after Stop blocked")
	}
}
