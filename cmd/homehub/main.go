// HomeHub Core - Smart Home Dashboard Backend
//
// This is the main entry point for the HomeHub Core application.
// HomeHub bridges a browser dashboard to the Blynk cloud IoT platform:
//   - In-memory device store synced from the cloud by a background poller
//   - Scenes and automations evaluated locally
//   - REST API plus WebSocket push for the dashboard
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"homehub-core/internal/api"
	"homehub-core/internal/automation"
	"homehub-core/internal/blynk"
	"homehub-core/internal/device"
	"homehub-core/internal/infrastructure/config"
	"homehub-core/internal/infrastructure/influxdb"
	"homehub-core/internal/infrastructure/logging"
	"homehub-core/internal/notify"
	"homehub-core/internal/scene"
	"homehub-core/internal/seed"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// notificationCapacity bounds the in-memory notification feed.
const notificationCapacity = 100

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting HomeHub Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Load seed state
	seedState, err := seed.Load(cfg.Seed.Path)
	if err != nil {
		return fmt.Errorf("loading seed: %w", err)
	}
	log.Info("seed loaded",
		"path", cfg.Seed.Path,
		"devices", len(seedState.Devices),
		"scenes", len(seedState.Scenes),
		"automations", len(seedState.Automations),
	)

	// Device store and history
	store := device.NewStore()
	store.SetLogger(log)
	for i := range seedState.Devices {
		if addErr := store.Add(&seedState.Devices[i]); addErr != nil {
			return fmt.Errorf("seeding device %s: %w", seedState.Devices[i].ID, addErr)
		}
	}

	history := device.NewHistory(cfg.History.Capacity)
	history.Attach(store)

	// WebSocket hub, shared by the API server and the engines
	hub := api.NewHub(cfg.WebSocket, log)

	// Notification centre
	notifications := notify.NewCenter(notificationCapacity, hub)

	// Scenes
	sceneRegistry := scene.NewRegistry()
	for i := range seedState.Scenes {
		if _, createErr := sceneRegistry.Create(&seedState.Scenes[i]); createErr != nil {
			return fmt.Errorf("seeding scene %s: %w", seedState.Scenes[i].ID, createErr)
		}
	}
	sceneEngine := scene.NewEngine(sceneRegistry, store, hub)
	sceneEngine.SetLogger(log)

	// Automations
	automationRegistry := automation.NewRegistry()
	for i := range seedState.Automations {
		if _, createErr := automationRegistry.Create(&seedState.Automations[i]); createErr != nil {
			return fmt.Errorf("seeding automation %s: %w", seedState.Automations[i].ID, createErr)
		}
	}
	automationEngine := automation.NewEngine(automationRegistry, store, sceneEngine, notifications)
	automationEngine.SetLogger(log)
	store.Subscribe(automationEngine.HandleStateChange)
	log.Info("automation engine wired",
		"scenes", sceneRegistry.Count(),
		"automations", automationRegistry.Count(),
	)

	// Connect to InfluxDB (optional telemetry sink)
	influxClient, err := influxdb.Connect(cfg.InfluxDB)
	switch {
	case errors.Is(err, influxdb.ErrDisabled):
		log.Info("InfluxDB disabled")
	case err != nil:
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	default:
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})

		// Mirror every state change into the telemetry bucket.
		store.Subscribe(func(ev device.Event) {
			influxClient.WriteDeviceReading(ev.DeviceID, string(ev.Device.Type), ev.Device.Location, ev.NewValue)
			if ev.OldStatus != ev.NewStatus {
				influxClient.WriteStateChange(ev.DeviceID, string(ev.Device.Type), ev.NewStatus)
			}
		})
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	// Cloud poller (only with a token; without one HomeHub serves the
	// seed state, which is the dashboard development mode)
	var (
		cloudClient *blynk.Client
		poller      *blynk.Poller
	)
	if cfg.Blynk.Token != "" {
		cloudClient = blynk.NewClient(cfg.Blynk.ServerURL, cfg.Blynk.Token, cfg.GetBlynkTimeout())
		poller = blynk.NewPoller(cloudClient, store, cfg.GetPollInterval())
		poller.SetLogger(log)
		g.Go(func() error {
			err := poller.Run(gctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
		log.Info("cloud poller started",
			"server", cfg.Blynk.ServerURL,
			"interval", cfg.GetPollInterval(),
		)
	} else {
		log.Info("no cloud token configured, running from seed state only")
	}

	// Schedule scanner
	scheduler := automation.NewScheduler(automationEngine, automationRegistry, cfg.GetScanInterval())
	scheduler.SetLogger(log)
	g.Go(func() error {
		err := scheduler.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	// API server
	server, err := api.New(api.Deps{
		Config:        cfg.API,
		WS:            cfg.WebSocket,
		Logger:        log,
		Store:         store,
		History:       history,
		SceneRegistry: sceneRegistry,
		SceneEngine:   sceneEngine,
		Automations:   automationRegistry,
		Notifications: notifications,
		Poller:        poller,
		Cloud:         cloudClient,
		ExternalHub:   hub,
		Version:       version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(gctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
	)

	log.Info("initialisation complete, waiting for shutdown signal")

	if err := g.Wait(); err != nil {
		return fmt.Errorf("background worker failed: %w", err)
	}

	log.Info("HomeHub Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses HOMEHUB_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HOMEHUB_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
