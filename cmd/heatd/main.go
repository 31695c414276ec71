// Command heatd runs the heating controller: the Work Dispatcher event
// loop, the price cache's periodic refresh, the MQTT sensor subscriber,
// the Tibber live-consumption subscriber, the notification handler, and
// the HTTP API. Wiring and graceful shutdown are ported verbatim from the
// teacher's cmd/trader/main.go (signal.NotifyContext, a sync.WaitGroup per
// background goroutine, http.Server.Shutdown), generalized from one
// trading loop to this process's several independent background tasks.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/madssf/smart-home/clients/mqtt"
	"github.com/madssf/smart-home/clients/notify"
	"github.com/madssf/smart-home/clients/priceprovider"
	"github.com/madssf/smart-home/handler"
	"github.com/madssf/smart-home/internal/config"
	"github.com/madssf/smart-home/internal/consumption"
	"github.com/madssf/smart-home/internal/dispatcher"
	notifyhandler "github.com/madssf/smart-home/internal/notify"
	"github.com/madssf/smart-home/internal/pricecache"
	"github.com/madssf/smart-home/internal/relay"
	"github.com/madssf/smart-home/internal/store"
	"github.com/madssf/smart-home/internal/store/memstore"
	"github.com/madssf/smart-home/internal/store/postgres"
)

// priceRefreshInterval is the price cache's periodic job cadence (spec
// §4.F: "interval ≈ 4-8 hours").
const priceRefreshInterval = 6 * time.Hour

// probeBufferSize bounds the consumption-probe channel between the cache
// and the notification handler; a full buffer means probes are dropped
// rather than blocking the live-consumption subscriber (consumption.Cache
// already does the same best-effort send internally).
const probeBufferSize = 8

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("starting heatd",
		"service", cfg.ServiceName,
		"listen_addr", cfg.HTTPListenAddr,
		"store_driver", cfg.StoreDriver,
		"time_zone", cfg.TimeZone,
	)

	st, closeStore, err := openStore(cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	loc := cfg.Location()
	now := func() time.Time { return time.Now().In(loc) }

	priceProvider := priceprovider.New(cfg.TibberAPIToken, cfg.TibberHomeID)
	priceCache := pricecache.New(priceProvider, st, now)
	relayClient := relay.New(cfg.RelayDummyPrefix)
	disp := dispatcher.New(st, priceCache, relayClient, now)

	probes := make(chan consumption.Probe, probeBufferSize)
	consumptionCache := consumption.New(probes)
	notifyClient := notify.New(cfg.NtfyBaseURL)
	notifyHandler := notifyhandler.New(notifyClient, st, now)
	disp.SetNotifier(notifyHandler)

	h := handler.New(st, disp, consumptionCache, now)
	server := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      h.NewRouter(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		disp.Start(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		notifyHandler.Start(ctx, probes)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		runPollTicker(ctx, disp, cfg.PollInterval)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		runPriceRefreshLoop(ctx, priceCache)
	}()

	if cfg.RunMQTT {
		mqttClient := mqtt.New(mqtt.Config{
			Host:      cfg.MQTTHost,
			Port:      cfg.MQTTPort,
			ClientID:  cfg.MQTTClientID,
			BaseTopic: cfg.MQTTBaseTopic,
		}, st, disp)
		mqttClient.SetNotifier(notifyHandler)
		wg.Add(1)
		go func() {
			defer wg.Done()
			mqttClient.Start(ctx)
		}()
	}

	if cfg.RunSubscriber && cfg.TibberAPIToken != "" && cfg.TibberHomeID != "" {
		liveConsumption := priceprovider.NewLiveConsumptionSubscriber(cfg.TibberAPIToken, cfg.TibberHomeID, consumptionCache)
		liveConsumption.SetNotifier(notifyHandler)
		wg.Add(1)
		go func() {
			defer wg.Done()
			liveConsumption.Start(ctx)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("HTTP server listening", "addr", cfg.HTTPListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	notifyHandler.SendStartup(ctx)

	<-ctx.Done()
	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	wg.Wait()
	slog.Info("shutdown complete")
}

// openStore builds the configured store.Store and returns a close func
// that is always safe to call, even for drivers with nothing to close.
func openStore(cfg *config.Config) (store.Store, func(), error) {
	if cfg.StoreDriver != "postgres" {
		slog.Warn("running with the in-memory store; data does not survive a restart", "store_driver", cfg.StoreDriver)
		return memstore.New(), func() {}, nil
	}

	if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
		return nil, nil, err
	}
	pg, err := postgres.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return pg, pg.Close, nil
}

// runPollTicker emits the periodic Poll event spec §4.E requires.
func runPollTicker(ctx context.Context, disp *dispatcher.Dispatcher, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			enqueueCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if err := disp.Enqueue(enqueueCtx, dispatcher.Poll()); err != nil {
				slog.Warn("failed to enqueue poll event, dispatcher queue may be saturated", "error", err)
			}
			cancel()
		}
	}
}

// runPriceRefreshLoop drives pricecache.Cache.Refresh on the cadence spec
// §4.F calls for, refreshing once immediately at startup.
func runPriceRefreshLoop(ctx context.Context, cache *pricecache.Cache) {
	refresh := func() {
		refreshCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := cache.Refresh(refreshCtx); err != nil {
			slog.Error("price cache refresh failed", "error", err)
		}
	}

	refresh()
	ticker := time.NewTicker(priceRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
