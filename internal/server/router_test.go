package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicbook/booking-portal/internal/demo"
	"github.com/clinicbook/booking-portal/pkg/logging"
)

func TestHealthEndpoint(t *testing.T) {
	srv := httptest.NewServer(New(&Config{Logger: logging.New("error")}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv := httptest.NewServer(New(&Config{
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDemoBackendMount(t *testing.T) {
	srv := httptest.NewServer(New(&Config{DemoBackend: demo.NewHandler().Routes()}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/demo/clinics/demo-clinic-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDemoBackendAbsentInProduction(t *testing.T) {
	srv := httptest.NewServer(New(&Config{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/demo/clinics/demo-clinic-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
