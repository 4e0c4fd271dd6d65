package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/component"
	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/services"
	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/simulators"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Server exposes the simulation controller and the profile catalog over
// HTTP. Routing is a plain mux; the controller holds all the state.
type Server struct {
	log     *logrus.Logger
	ctrl    *services.SimulationSvc
	catalog *services.CatalogSvc
	http    *http.Server
}

func NewServer(
	bind string,
	log *logrus.Logger,
	ctrl *services.SimulationSvc,
	catalog *services.CatalogSvc,
	metrics http.Handler,
) *Server {
	s := &Server{log: log, ctrl: ctrl, catalog: catalog}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.getHealth)
	mux.HandleFunc("/simulation/start", s.postStart)
	mux.HandleFunc("/simulation/stop", s.postStop)
	mux.HandleFunc("/simulation/status", s.getStatus)
	mux.HandleFunc("/simulation/data", s.getData)
	mux.HandleFunc("/profiles", s.getProfiles)
	mux.HandleFunc("/profiles/", s.profileSubtree)
	mux.HandleFunc("/mqtt/connect", s.postConnect)
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}

	s.http = &http.Server{
		Addr:    bind,
		Handler: mux,
	}
	return s
}

func (s *Server) Start() error {
	s.log.WithField("Bind", s.http.Addr).Infoln("HTTP API listening 🔔")
	return s.http.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Infoln("HTTP API shutting down.. 🔔")
	return s.http.Shutdown(ctx)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "ok"})
}

func (s *Server) postStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Profile.Name == "" {
		writeError(w, http.StatusBadRequest, "profile name is required")
		return
	}

	err := s.ctrl.Start(services.SimulationConfig{
		MQTT:     mqttConfigFromRequest(req.MQTT),
		Profile:  req.Profile.Name,
		Params:   req.Profile.Parameters,
		Topic:    req.Profile.Topic,
		Interval: time.Duration(req.Interval) * time.Second,
		Duration: time.Duration(req.Duration) * time.Second,
	})
	if err != nil {
		var notFound *simulators.NotFoundError
		switch {
		case errors.As(err, &notFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrAlreadyRunning),
			errors.Is(err, services.ErrConnectFailed):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	topic := req.Profile.Topic
	if topic == "" {
		topic = "auto-generated"
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "Simulation started successfully with profile: " + req.Profile.Name,
		Data: map[string]any{
			"profile":  req.Profile.Name,
			"topic":    topic,
			"interval": req.Interval,
		},
	})
}

func (s *Server) postStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.ctrl.Stop() {
		writeError(w, http.StatusBadRequest, "no simulation is currently running")
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Simulation stopped"})
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	snap := s.ctrl.Status()
	resp := StatusResponse{
		IsRunning:    snap.IsRunning,
		IsConnected:  snap.IsConnected,
		ProfileName:  snap.ProfileName,
		Topic:        snap.Topic,
		Interval:     int(snap.Interval / time.Second),
		MessagesSent: snap.MessagesSent,
		LastMessage:  snap.LastReading,
	}
	if !snap.StartTime.IsZero() {
		resp.StartTime = snap.StartTime.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	messages, total := s.ctrl.Data(limit)
	if messages == nil {
		messages = []services.Record{}
	}
	writeJSON(w, http.StatusOK, DataResponse{Messages: messages, TotalCount: total})
}

func (s *Server) getProfiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, ProfileListResponse{Profiles: s.catalog.ListProfiles()})
}

// profileSubtree routes /profiles/{name} and /profiles/{name}/preview.
func (s *Server) profileSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/profiles/"), "/")
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		s.getProfile(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "preview":
		s.postPreview(w, r, parts[0])
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request, name string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	info, err := s.catalog.ProfileInfo(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) postPreview(w http.ResponseWriter, r *http.Request, name string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req PreviewRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	reading, err := s.catalog.Preview(name, req.Parameters)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "Preview generated for profile: " + name,
		Data:    map[string]any{"preview": reading},
	})
}

func (s *Server) postConnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req MQTTConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	host, port := hostPortDefaults(req)

	connected := s.ctrl.TestConnection(host, port, req.Username, req.Password)
	message := fmt.Sprintf("Successfully connected to MQTT broker at %s:%d", host, port)
	if !connected {
		message = fmt.Sprintf("Failed to connect to MQTT broker at %s:%d", host, port)
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: connected,
		Message: message,
		Data:    map[string]any{"host": host, "port": port, "connected": connected},
	})
}

func mqttConfigFromRequest(req MQTTConfigRequest) *component.MQTTConfig {
	cfg := component.NewMQTTConfig()
	host, port := hostPortDefaults(req)
	cfg.URL = fmt.Sprintf("tcp://%s:%d", host, port)
	cfg.User = req.Username
	cfg.Password = req.Password
	if req.Keepalive > 0 {
		cfg.KeepAlive = uint16(req.Keepalive)
	}
	if req.QoS != nil {
		cfg.QoS = *req.QoS
	}
	return cfg
}

func hostPortDefaults(req MQTTConfigRequest) (string, int) {
	host := req.Host
	if host == "" {
		host = "localhost"
	}
	port := req.Port
	if port == 0 {
		port = 1883
	}
	return host, port
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Error: message})
}
