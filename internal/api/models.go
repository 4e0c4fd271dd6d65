package api

import (
	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/services"
	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/simulators"
)

// MQTTConfigRequest is the broker part of a start or connection-test
// request.
type MQTTConfigRequest struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`
	Keepalive int    `json:"keepalive,omitempty"`
	QoS       *uint8 `json:"qos,omitempty"`
}

// ProfileConfigRequest selects a profile and its parameters; Topic, when
// set, overrides the profile-derived publish topic.
type ProfileConfigRequest struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Topic      string         `json:"topic,omitempty"`
}

// StartRequest is a complete simulation configuration. Interval and
// Duration are in seconds; Duration zero means run until stopped.
type StartRequest struct {
	MQTT     MQTTConfigRequest    `json:"mqtt"`
	Profile  ProfileConfigRequest `json:"profile"`
	Interval int                  `json:"interval,omitempty"`
	Duration int                  `json:"duration,omitempty"`
}

// PreviewRequest carries profile parameters for a one-off reading.
type PreviewRequest struct {
	Parameters map[string]any `json:"parameters,omitempty"`
}

// StatusResponse is the phase-derived view of the simulation state.
type StatusResponse struct {
	IsRunning    bool               `json:"is_running"`
	IsConnected  bool               `json:"is_connected"`
	ProfileName  string             `json:"profile_name,omitempty"`
	Topic        string             `json:"topic,omitempty"`
	Interval     int                `json:"interval,omitempty"`
	MessagesSent int64              `json:"messages_sent"`
	StartTime    string             `json:"start_time,omitempty"`
	LastMessage  simulators.Reading `json:"last_message,omitempty"`
}

// DataResponse is the recent-messages view.
type DataResponse struct {
	Messages   []services.Record `json:"messages"`
	TotalCount int64             `json:"total_count"`
}

// ProfileListResponse wraps the profile catalog.
type ProfileListResponse struct {
	Profiles []services.ProfileInfo `json:"profiles"`
}

// APIResponse is the generic success wrapper.
type APIResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// ErrorResponse is the generic failure wrapper.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
