package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"pinterest-forwarder/internal/config"
	"pinterest-forwarder/internal/controller"
	httpserver "pinterest-forwarder/internal/http"
	"pinterest-forwarder/internal/manager"
	"pinterest-forwarder/internal/model"
	"pinterest-forwarder/internal/pinterest"
	"pinterest-forwarder/internal/router"
	"pinterest-forwarder/internal/service"
	"pinterest-forwarder/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})).
		With("service", "pinterest-forwarder", "mode", cfg.AppMode)
	slog.SetDefault(logger)

	if cfg.Settings.Get("tid") == "" {
		logger.Warn("no pinterest tag id configured, requests will rely on payload tid")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mgr := manager.New()
	counters := &model.Counters{}

	tr := transport.New(cfg.TransportTimeout, logger)
	handler := pinterest.NewHandler(tr.Send)
	router.New(handler, cfg.Settings, counters, logger).Register(mgr)

	eventService := service.NewEventService(mgr, counters)

	var source service.EventSource
	if cfg.ConsumesKafka() {
		reader, err := service.NewKafkaReader(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.KafkaTopic)
		if err != nil {
			logger.Error("create kafka reader", "error", err)
			os.Exit(1)
		}
		source = service.NewKafkaEventSource(reader, eventService, logger)
		logger.Info("consuming events from kafka", "topic", cfg.KafkaTopic, "group_id", cfg.KafkaGroupID)
	}

	eventController := controller.NewEventController(eventService)
	server := httpserver.NewServer(cfg, eventController)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.HTTPPort, "event_types", len(mgr.EventTypes()))
		errCh <- server.Listen(cfg.HTTPPort)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped", "error", err)
		}
	}

	if err := server.Shutdown(); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if source != nil {
		source.Shutdown()
	}
	tr.Wait()

	logger.Info("stopped", "stats", counters.Snapshot())
}
