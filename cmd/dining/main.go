// Command dining seats five philosophers at a table and lets them eat,
// either as actors coordinated by a waiter actor (MODE=actor) or as plain
// goroutines behind a locking waiter (MODE=baseline).
//
// Meal tallies are kept in memory (BACKEND=mem) or in a NATS JetStream
// bucket (BACKEND=nats). Without NATS_URL a NATS container is started.
//
// Prometheus metrics are served on :$PROM_PORT/metrics.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/codewandler/actr-go/adapters/nats"
	promadapter "github.com/codewandler/actr-go/adapters/prometheus"
	"github.com/codewandler/actr-go/internal/dining"
	"github.com/codewandler/actr-go/ports/kv"
)

// === Config ===

var (
	mode     = getEnv("MODE", "actor")
	backend  = getEnv("BACKEND", "mem")
	natsURL  = getEnv("NATS_URL", "")
	seats    = getEnvInt("SEATS", len(dining.DefaultNames))
	capacity = getEnvInt("CAPACITY", 0)
	meals    = getEnvInt("MEALS", 0)
	maxEat   = getEnvDuration("MAX_EAT", 100*time.Millisecond)
	maxThink = getEnvDuration("MAX_THINK", 100*time.Millisecond)
	promPort = getEnvInt("PROM_PORT", 2121)
	logLevel = getEnv("LOG_LEVEL", "info")
)

func getEnv(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil {
		return fallback
	}
	return v
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// names returns the default names, padded with numbered guests.
func names(n int) []string {
	out := slices.Clone(dining.DefaultNames)
	if n <= len(out) {
		return out[:n]
	}
	for i := len(out); i < n; i++ {
		out = append(out, fmt.Sprintf("Guest%d", i+1))
	}
	return out
}

type dinner interface {
	Meals(ctx context.Context) (map[string]int, error)
	Stop()
}

// === Main ===

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(logLevel)}))
	slog.SetDefault(log)

	if err := run(ctx, log); err != nil {
		log.Error("dinner failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	metrics := promadapter.NewMetrics(prometheus.DefaultRegisterer)

	promMux := http.NewServeMux()
	promMux.Handle("/metrics", promhttp.Handler())
	promServer := &http.Server{Addr: fmt.Sprintf(":%d", promPort), Handler: promMux}
	go func() {
		log.Info("prometheus metrics server starting", slog.Int("port", promPort))
		if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("prometheus server error", slog.Any("error", err))
		}
	}()
	defer promServer.Shutdown(context.Background())

	store, cleanup, err := openStore(ctx, log)
	if err != nil {
		return fmt.Errorf("open %s store: %w", backend, err)
	}
	defer cleanup()

	cfg := dining.Config{
		Options: dining.Options{
			Context:      ctx,
			Logger:       log,
			ActorMetrics: metrics.Actor,
			Metrics:      metrics.Dining,
			MaxThink:     maxThink,
			MaxEat:       maxEat,
			Meals:        meals,
		},
		Names:    names(seats),
		Capacity: capacity,
		Store:    store,
	}

	var d dinner
	switch mode {
	case "actor":
		d, err = dining.Start(cfg)
	case "baseline":
		d, err = dining.StartBaseline(cfg)
	default:
		err = fmt.Errorf("unknown mode %q", mode)
	}
	if err != nil {
		return err
	}
	defer d.Stop()

	log.Info("press Ctrl+C to stop", slog.String("mode", mode), slog.String("backend", backend))

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down...")
			return nil
		case <-ticker.C:
		}

		counts, err := d.Meals(ctx)
		if err != nil {
			log.Warn("failed to read tallies", slog.Any("error", err))
			continue
		}
		logTallies(log, cfg.Names, counts)
		if meals > 0 && satisfied(cfg.Names, counts) {
			log.Info("everybody is satisfied")
			return nil
		}
	}
}

func logTallies(log *slog.Logger, names []string, counts map[string]int) {
	attrs := make([]any, 0, len(names))
	for _, n := range names {
		attrs = append(attrs, slog.Int(strings.ToLower(n), counts[n]))
	}
	log.Info("meals", attrs...)
}

func satisfied(names []string, counts map[string]int) bool {
	for _, n := range names {
		if counts[n] < meals {
			return false
		}
	}
	return true
}

// === Infrastructure ===

func openStore(ctx context.Context, log *slog.Logger) (kv.Store, func(), error) {
	switch backend {
	case "mem":
		return kv.NewMemStore(), func() {}, nil
	case "nats":
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", backend)
	}

	url, stopContainer := natsURL, func() {}
	if url == "" {
		log.Info("starting NATS container...")
		var err error
		if url, stopContainer, err = startNATSContainer(ctx, log); err != nil {
			return nil, nil, err
		}
	}
	log.Info("NATS ready", slog.String("url", url))

	store, err := nats.NewKvStore(ctx, nats.KvConfig{Connect: nats.ConnectURL(url)})
	if err != nil {
		stopContainer()
		return nil, nil, err
	}
	return store, func() {
		store.Close()
		stopContainer()
	}, nil
}

func startNATSContainer(ctx context.Context, log *slog.Logger) (string, func(), error) {
	natsC, err := testcontainers.Run(
		ctx, "nats:latest",
		testcontainers.WithCmd("-js"),
		testcontainers.WithExposedPorts("4222/tcp"),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("4222/tcp"),
			wait.ForLog("Server is ready"),
		),
	)
	if err != nil {
		return "", nil, fmt.Errorf("start container: %w", err)
	}

	url, err := natsC.PortEndpoint(ctx, "4222/tcp", "nats")
	if err != nil {
		_ = testcontainers.TerminateContainer(natsC)
		return "", nil, fmt.Errorf("get container endpoint: %w", err)
	}

	cleanup := func() {
		log.Info("terminating NATS container...")
		if err := testcontainers.TerminateContainer(natsC); err != nil {
			log.Error("failed to terminate container", slog.Any("error", err))
		}
	}
	return url, cleanup, nil
}
