package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pull "github.com/ducka/go-pull"
	"github.com/ducka/go-pull/instrumentation"
	"github.com/ducka/go-pull/observe"
	"github.com/ducka/go-pull/stream"
	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "", "Path to the YAML config file")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	logger := createLogger(*debug)
	defer logger.Sync()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	logger.Info("starting pullbench",
		zap.String("source", cfg.Source.Kind),
		zap.Int("items", cfg.Items),
		zap.Duration("consumer_delay", cfg.ConsumerDelay),
		zap.String("metrics_addr", cfg.MetricsAddr),
	)

	measurer := instrumentation.NewPrometheusMeasurer("pullbench")
	registry := prometheus.NewRegistry()
	registry.MustRegister(measurer)

	instrumentation.SetLogger(logger)
	instrumentation.SetMeasurer(measurer)

	if cfg.MetricsAddr != "" {
		metricsServer := &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}

		go func() {
			logger.Info("Prometheus metrics listening", zap.String("addr", cfg.MetricsAddr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", zap.Error(err))
			}
		}()

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			metricsServer.Shutdown(shutdownCtx)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	waits, err := runSource(ctx, cfg, logger)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("benchmark stopped early", zap.Error(err), zap.Int("pulled", len(waits)))
	}

	if err := report(os.Stdout, waits, cfg.PlotHeight); err != nil {
		logger.Error("failed to report", zap.Error(err))
	}

	logger.Info("pullbench complete", zap.Int("pulled", len(waits)))
}

// runSource builds the configured source and pulls from it
func runSource(ctx context.Context, cfg config, logger *zap.Logger) ([]time.Duration, error) {
	opts := []observe.ObservableOption{
		observe.WithContext(ctx),
		observe.WithActivityName(cfg.Activity),
		observe.WithLogger(logger),
	}

	switch cfg.Source.Kind {
	case sourceTimer:
		return bench(ctx, observe.Timer(cfg.Source.Timer.Delay, cfg.Source.Timer.Period, cfg.Items, opts...), cfg)

	case sourceCron:
		source, err := observe.Cron(cfg.Source.Cron.Pattern, opts...)
		if err != nil {
			return nil, err
		}
		return bench(ctx, source, cfg)

	case sourceRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Source.Redis.Addr})
		defer client.Close()
		return bench(ctx, observe.Redis(client, cfg.Source.Redis.Channels, opts...), cfg)

	case sourceKafka:
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers: cfg.Source.Kafka.Brokers,
			Topic:   cfg.Source.Kafka.Topic,
			GroupID: cfg.Source.Kafka.GroupID,
		})
		defer reader.Close()

		opts = append(opts, observe.WithRetry(cfg.Source.Kafka.RetryAttempts, cfg.Source.Kafka.RetryDelay))
		return bench(ctx, observe.Kafka(reader, opts...), cfg)

	default:
		return nil, fmt.Errorf("%w: unknown source kind %q", errInvalidConfig, cfg.Source.Kind)
	}
}

// bench pulls up to cfg.Items items from source and returns how long each pull waited. The subscription is
// cancelled once enough items have been pulled.
func bench[T any](ctx context.Context, source stream.Source[T], cfg config) ([]time.Duration, error) {
	it := pull.New(source, pull.WithActivityName(cfg.Activity))
	defer it.Cancel()

	waits := make([]time.Duration, 0, cfg.Items)

	for len(waits) < cfg.Items {
		start := time.Now()

		_, ok, err := it.Next(ctx)
		if err != nil {
			return waits, err
		}
		if !ok {
			break
		}

		waits = append(waits, time.Since(start))

		if cfg.ConsumerDelay > 0 {
			select {
			case <-ctx.Done():
				return waits, ctx.Err()
			case <-time.After(cfg.ConsumerDelay):
			}
		}
	}

	return waits, nil
}

// report plots the pull waits in milliseconds
func report(w io.Writer, waits []time.Duration, height int) error {
	if len(waits) == 0 {
		_, err := fmt.Fprintln(w, "no items pulled")
		return err
	}

	millis := lo.Map(waits, func(d time.Duration, _ int) float64 {
		return float64(d.Microseconds()) / 1000
	})

	graph := asciigraph.Plot(millis,
		asciigraph.Height(height),
		asciigraph.Caption(fmt.Sprintf("pull wait (ms), %d items, mean %s, max %s",
			len(waits), lo.Sum(waits)/time.Duration(len(waits)), lo.Max(waits))),
	)

	_, err := fmt.Fprintln(w, graph)
	return err
}

func createLogger(debug bool) *zap.Logger {
	loggerConfig := zap.NewProductionConfig()

	if debug {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	if os.Getenv("MODE") == "development" {
		loggerConfig = zap.NewDevelopmentConfig()
		loggerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := loggerConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	return logger
}
