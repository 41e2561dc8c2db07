package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveStart(t *testing.T) {
	before := testutil.ToFloat64(ComponentStarts.WithLabelValues("*metrics.sample", ResultFailure))

	ObserveStart("*metrics.sample", 10*time.Millisecond, nil)
	ObserveStart("*metrics.sample", 5*time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(ComponentStarts.WithLabelValues("*metrics.sample", ResultSuccess)))
	assert.Equal(t, before+1, testutil.ToFloat64(ComponentStarts.WithLabelValues("*metrics.sample", ResultFailure)))
}

func TestHandlerServesExtraGatherers(t *testing.T) {
	private := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "private_metrics_test_total", Help: "test"})
	private.MustRegister(c)
	c.Inc()
	RegisterGatherer(private)
	RegisterGatherer(nil)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "private_metrics_test_total")
	assert.Contains(t, rec.Body.String(), "asphalt_component_registered_total")
}
