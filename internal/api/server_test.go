package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/component"
	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/ports"
	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/services"
	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/simulators"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPort struct {
	mu            sync.Mutex
	connectResult bool
	connected     bool
}

func (s *stubPort) Connect(_ context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = s.connectResult
	return s.connectResult
}

func (s *stubPort) Publish(_ context.Context, _ string, _ []byte, _ byte) bool { return true }
func (s *stubPort) Subscribe(_ context.Context, _ string, _ byte) bool         { return true }

func (s *stubPort) Disconnect(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
}

func (s *stubPort) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func newTestServer(t *testing.T, connectResult bool) (*Server, *services.SimulationSvc) {
	t.Helper()

	logger := logrus.New()
	logger.Out = io.Discard

	registry := simulators.DefaultRegistry()
	factory := func(_ *logrus.Logger, _ *component.MQTTConfig) ports.MqttPort {
		return &stubPort{connectResult: connectResult}
	}
	ctrl := services.NewSimulationSvc(logger, registry, services.NewHistorySvc(100), nil, factory)
	catalog := services.NewCatalogSvc(logger, registry, time.Minute)
	t.Cleanup(catalog.Close)
	t.Cleanup(func() { ctrl.Stop() })

	return NewServer(":0", logger, ctrl, catalog, nil), ctrl
}

func doRequest(t *testing.T, server *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t, true)
	rec := doRequest(t, server, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStartStopRoundTrip(t *testing.T) {
	server, ctrl := newTestServer(t, true)

	body := `{
		"mqtt": {"host": "localhost", "port": 1883},
		"profile": {"name": "weather", "parameters": {"city": "Roma"}},
		"interval": 1
	}`
	rec := doRequest(t, server, http.MethodPost, "/simulation/start", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "weather", resp.Data["profile"])

	assert.True(t, ctrl.Status().IsRunning)

	// A second start is rejected while running.
	rec = doRequest(t, server, http.MethodPost, "/simulation/start", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, server, http.MethodPost, "/simulation/stop", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, ctrl.Status().IsRunning)

	// Stopping again reports nothing running.
	rec = doRequest(t, server, http.MethodPost, "/simulation/stop", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartUnknownProfileReturns404(t *testing.T) {
	server, _ := newTestServer(t, true)

	body := `{"mqtt": {}, "profile": {"name": "maritime"}}`
	rec := doRequest(t, server, http.MethodPost, "/simulation/start", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "maritime")
	assert.Contains(t, resp.Error, "weather")
}

func TestStartConnectFailureReturns400(t *testing.T) {
	server, _ := newTestServer(t, false)

	body := `{"mqtt": {}, "profile": {"name": "weather"}}`
	rec := doRequest(t, server, http.MethodPost, "/simulation/start", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	server, _ := newTestServer(t, true)

	rec := doRequest(t, server, http.MethodGet, "/simulation/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var status StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.IsRunning)
	assert.Empty(t, status.StartTime)
}

func TestDataEndpoint(t *testing.T) {
	server, _ := newTestServer(t, true)

	rec := doRequest(t, server, http.MethodGet, "/simulation/data?limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var data DataResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.NotNil(t, data.Messages)
	assert.Zero(t, data.TotalCount)

	rec = doRequest(t, server, http.MethodGet, "/simulation/data?limit=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfileEndpoints(t *testing.T) {
	server, _ := newTestServer(t, true)

	rec := doRequest(t, server, http.MethodGet, "/profiles", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list ProfileListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Profiles, 3)

	rec = doRequest(t, server, http.MethodGet, "/profiles/energy", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var info services.ProfileInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "energy", info.Name)
	assert.Equal(t, "energy/meter/energy-01", info.ExampleTopic)

	rec = doRequest(t, server, http.MethodGet, "/profiles/maritime", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreviewEndpoint(t *testing.T) {
	server, _ := newTestServer(t, true)

	body := `{"parameters": {"city": "Torino"}}`
	rec := doRequest(t, server, http.MethodPost, "/profiles/weather/preview", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	preview, ok := resp.Data["preview"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Torino", preview["city"])

	rec = doRequest(t, server, http.MethodPost, "/profiles/maritime/preview", "{}")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConnectEndpoint(t *testing.T) {
	server, _ := newTestServer(t, true)

	body := `{"host": "localhost", "port": 1883}`
	rec := doRequest(t, server, http.MethodPost, "/mqtt/connect", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, true, resp.Data["connected"])
}

func TestMethodNotAllowed(t *testing.T) {
	server, _ := newTestServer(t, true)

	rec := doRequest(t, server, http.MethodGet, "/simulation/start", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = doRequest(t, server, http.MethodPost, "/simulation/status", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
