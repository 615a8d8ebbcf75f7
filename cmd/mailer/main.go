package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	kingpin "github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hashfx/techblog/internal/logger"
	"github.com/hashfx/techblog/config"
	"github.com/hashfx/techblog/eventbus"
	"github.com/hashfx/techblog/events"
	"github.com/hashfx/techblog/notify"
)

// mailer 는 웹 서버가 발행한 문의 이벤트를 소비해 SMTP 로 전달한다. (mail.mode=kafka)
func main() {
	var (
		configFile  = kingpin.Flag("config", "Path to config.yaml (default: search upward from the working directory)").Short('c').Envar("TECHBLOG_CONFIG").String()
		metricsAddr = kingpin.Flag("metrics-addr", "Prometheus listen address, empty to disable").Default(":9101").Envar("TECHBLOG_MAILER_METRICS_ADDR").String()
		partitions  = kingpin.Flag("partitions", "Partitions for the contact topic when it is created").Default("3").Int()
	)
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.ErrorWithFields("failed to load config", logger.Fields{"path": *configFile, "error": err.Error()})
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel())

	if cfg.Kafka.Brokers == "" || cfg.Kafka.GroupID == "" {
		logger.Log.Error("kafka.brokers and kafka.group_id are required")
		os.Exit(1)
	}
	if err := cfg.Mail.ValidateSMTP(); err != nil {
		logger.ErrorWithFields("invalid smtp settings", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}

	smtp, err := notify.NewSMTPNotifier(cfg.Mail)
	if err != nil {
		logger.ErrorWithFields("failed to create smtp notifier", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	topic := eventbus.ContactTopic(cfg.Kafka.Topic)
	if err := eventbus.EnsureTopics(ctx, cfg.Kafka.Brokers, topic, *partitions); err != nil {
		logger.WarnWithFields("failed to ensure contact topics", logger.Fields{"topic": topic.Base(), "error": err.Error()})
	}

	bus, err := eventbus.NewKafkaEventBus(cfg.Kafka.Brokers)
	if err != nil {
		logger.ErrorWithFields("failed to create event bus", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
	defer bus.Close()

	var metricsSrv *http.Server
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.ErrorWithFields("metrics server failed", logger.Fields{"error": err.Error()})
			}
		}()
	}

	done := make(chan struct{}, 2)
	go func() {
		defer func() { done <- struct{}{} }()
		err := eventbus.SubscribeJSON[events.ContactSubmittedEvent](ctx, bus, cfg.Kafka.GroupID, topic, deliverContact(smtp))
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorWithFields("contact subscriber stopped", logger.Fields{"error": err.Error()})
			cancel()
		}
	}()
	go func() {
		defer func() { done <- struct{}{} }()
		err := bus.StartRetryReinjector(ctx, cfg.Kafka.GroupID+"-retry", topic)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorWithFields("retry reinjector stopped", logger.Fields{"error": err.Error()})
			cancel()
		}
	}()

	logger.InfoWithFields("mailer started", logger.Fields{"topic": topic.Base(), "group_id": cfg.Kafka.GroupID})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		logger.Log.Info("received shutdown signal, stopping mailer...")
	case <-ctx.Done():
	}
	cancel()
	<-done
	<-done

	if metricsSrv != nil {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancelShutdown()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	logger.Log.Info("mailer stopped")
}
