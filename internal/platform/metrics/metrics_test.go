package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCollectors(t *testing.T) {
	RegisterDefault()
	RegisterDefault()

	TripsCalculated.WithLabelValues("true").Inc()
	DistanceLookups.WithLabelValues("fallback").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "trips_calculated_total")
	assert.Contains(t, body, "distance_lookups_total")
	assert.Contains(t, body, "go_goroutines")
}
