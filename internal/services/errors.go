package services

import "github.com/pkg/errors"

var (
	// ErrAlreadyRunning is returned by Start when a simulation is
	// active. The caller should stop it first.
	ErrAlreadyRunning = errors.New("a simulation is already running, stop it first")

	// ErrConnectFailed is returned by Start when the broker handshake
	// doesn't complete within the connect timeout.
	ErrConnectFailed = errors.New("couldn't connect to the MQTT broker")
)
