package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveDocument(t *testing.T) {
	m := New()
	m.ObserveDocument("VALID", 10*time.Millisecond)
	m.ObserveDocument("VALID", 5*time.Millisecond)
	m.ObserveDocument("NO_SIGNAL", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.documents.WithLabelValues("VALID")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.documents.WithLabelValues("NO_SIGNAL")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveDocument("VALID", time.Second)
		m.ObserveRPC("/x", "OK")
	})
}

func TestHandlerServesText(t *testing.T) {
	m := New()
	m.ObserveRPC("/expediente.v1.ExpedienteService/Normalize", "OK")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `expedientes_grpc_requests_total{code="OK",method="/expediente.v1.ExpedienteService/Normalize"} 1`), body)
}
