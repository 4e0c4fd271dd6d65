package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/api"
	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/config"
	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/log"
	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/services"
	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/simulators"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Run() {

	// Get configs from file
	cfg := config.GetConfigs()

	// Instantiate a new logger
	logger := log.NewLogger(
		cfg.LoggerConfig.Level,
		cfg.LoggerConfig.Format,
		cfg.LoggerConfig.DisableTimestamp,
	)

	registry := simulators.DefaultRegistry()
	history := services.NewHistorySvc(cfg.SimulationConfig.HistorySize)

	var monitor *services.Monitor
	var metricsHandler http.Handler
	if cfg.EnablePrometheus {
		monitor = services.NewMonitor(prometheus.DefaultRegisterer)
		metricsHandler = promhttp.Handler()
	}

	controller := services.NewSimulationSvc(logger, registry, history, monitor, nil)
	catalog := services.NewCatalogSvc(logger, registry, time.Duration(cfg.APIConfig.CatalogTTL)*time.Second)
	defer catalog.Close()

	server := api.NewServer(cfg.APIConfig.Bind, logger, controller, catalog, metricsHandler)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for a signal before exiting
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sig:
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			logger.Errorf("HTTP API failed : %v ⛔\n", err)
		}
	}

	// Stop any running simulation before shutting the API down.
	controller.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Stop(ctx)

	logger.Info("Shutdown complete ✅")
}
