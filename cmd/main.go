package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/minaret/internal/alarm"
	"github.com/UnknownOlympus/minaret/internal/api"
	"github.com/UnknownOlympus/minaret/internal/config"
	"github.com/UnknownOlympus/minaret/internal/geocoding"
	"github.com/UnknownOlympus/minaret/internal/metrics"
	"github.com/UnknownOlympus/minaret/internal/models"
	"github.com/UnknownOlympus/minaret/internal/repository"
	"github.com/UnknownOlympus/minaret/internal/scheduler"
	"github.com/UnknownOlympus/minaret/internal/service"
	"github.com/UnknownOlympus/minaret/internal/timings"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)
	if cfg.Env != envLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Open the key-value backend holding alarms and prayer times.
	store, closeStore, err := repository.NewStore(ctx, repository.StoreConfig{
		Backend:          repository.BackendType(cfg.Storage.Backend),
		FilePath:         cfg.Storage.FilePath,
		PostgresHost:     cfg.Database.Host,
		PostgresPort:     cfg.Database.Port,
		PostgresUser:     cfg.Database.User,
		PostgresPassword: cfg.Database.Password,
		PostgresName:     cfg.Database.Name,
		RedisAddr:        cfg.Redis.Addr,
		RedisUsername:    cfg.Redis.Username,
		RedisPassword:    cfg.Redis.Password,
		RedisDB:          cfg.Redis.DB,
		RedisPrefix:      cfg.Redis.Prefix,
		Logger:           logger,
	})
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.Storage.Backend, err)
	}
	defer closeStore()

	repo := repository.NewRepository(store, logger, appMetrics)

	// Alarms fire through MQTT when a broker is configured, otherwise they are only logged.
	var notifier scheduler.Notifier = scheduler.NewLogNotifier(logger)
	var native scheduler.NativeAlarmScheduler
	if cfg.MQTT.Broker != "" {
		client, mqttErr := scheduler.NewMQTTClient(cfg.MQTT.Broker, cfg.MQTT.ClientID, logger)
		if mqttErr != nil {
			log.Fatalf("Failed to connect to MQTT broker: %v", mqttErr)
		}
		defer client.Disconnect(250)

		notifier = scheduler.NewMQTTNotifier(client, cfg.MQTT.TopicPrefix, logger)
		if cfg.MQTT.DeviceAlarm {
			native = scheduler.NewDeviceAlarmBridge(client, cfg.MQTT.TopicPrefix, logger)
		}
	}

	localScheduler := scheduler.NewLocalScheduler(notifier, logger)
	defer localScheduler.Stop()

	alarmService := alarm.NewService(logger, repo, appMetrics, alarm.Options{
		Scheduler:     localScheduler,
		Native:        native,
		NativeOptions: scheduler.NativeAlarmOptions{Vibrate: true},
		Permissions:   scheduler.StaticPermission(true),
		UIOnly:        cfg.UIOnly,
	})

	state := alarmService.LoadPersistedState(ctx)
	rearmed := alarmService.Rearm(ctx)
	logger.InfoContext(ctx, "Persisted state loaded",
		"alarms", len(state.Alarms), "rearmed", rearmed, "prayer_times_stored", state.PrayerTimesStored)

	// Reverse geocoding is optional: without it prayer times use the fallback city.
	var geoProvider geocoding.Provider
	if cfg.Geocoder.Type != "" && cfg.Geocoder.Type != "none" {
		geoProvider, err = geocoding.NewProvider(geocoding.ProviderConfig{
			Type:      geocoding.ProviderType(cfg.Geocoder.Type),
			APIKey:    cfg.Geocoder.APIKey,
			RateLimit: cfg.Geocoder.RateLimit,
			Logger:    logger,
		})
		if err != nil {
			log.Fatalf("Failed to create geocoding provider: %v", err)
		}
		logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.Geocoder.Type)
	}

	prayerService := service.NewPrayerService(
		logger,
		alarmService,
		repo,
		timings.NewAladhanProvider(cfg.Aladhan.Method, cfg.Aladhan.RateLimit, logger),
		geoProvider,
		cfg.Geocoder.Type, // Provider name for metrics
		appMetrics,
		models.Place{City: cfg.Fallback.City, Country: cfg.Fallback.Country},
	)

	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           api.NewRouter(logger, api.NewHandler(logger, alarmService, prayerService)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	monitoringServer := newMonitoringServer(ctx, logger, reg, store, cfg.MonitoringPort)

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	go serve(ctx, logger, "api", apiServer)
	go serve(ctx, logger, "monitoring", monitoringServer)

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	// Log that a shutdown signal has been received.
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	for name, server := range map[string]*http.Server{"api": apiServer, "monitoring": monitoringServer} {
		if err = server.Shutdown(shutdownCtx); err != nil {
			logger.ErrorContext(shutdownCtx, "Server shutdown failed", "server", name, "error", err)
		}
	}

	// Log graceful shutdown completion.
	logger.InfoContext(shutdownCtx, "Application stopped gracefully.")
}

func serve(ctx context.Context, log *slog.Logger, name string, server *http.Server) {
	log.InfoContext(ctx, "Starting server", "server", name, "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "Server failed", "server", name, "error", err)
	}
}

// newMonitoringServer builds an HTTP server that provides health check and metrics endpoints.
//
// Parameters:
// - ctx: A context.Context for managing cancellation and timeouts.
// - log: A logger for logging server events and errors.
// - reg: A registry with Prometheus collectors.
// - store: The key-value backend whose ping decides the health status.
// - port: The port number on which the server will listen.
func newMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	store repository.Store,
	port int,
) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, req *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if err := store.Ping(req.Context()); err != nil {
			status, body = http.StatusServiceUnavailable, "storage ping failed"
		}
		writer.WriteHeader(status)
		_, err := writer.Write([]byte(body))
		if err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	readTimeout := 5
	writeTimeout := 10
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
