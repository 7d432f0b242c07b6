package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/davicafu/taskforge/internal/config"
	consumerApp "github.com/davicafu/taskforge/internal/consumer/application"
	consumerEvents "github.com/davicafu/taskforge/internal/consumer/infra/inbound/events"
	sharedInfraEvents "github.com/davicafu/taskforge/internal/shared/infra/events"
)

func runConsumer(c *cli.Context, cfg *config.Config, log *zap.Logger) error {
	if cfg.Broker.Driver != "kafka" {
		return fmt.Errorf("consumer requires broker.driver=kafka (got %q); the in-memory bus runs inside the api process", cfg.Broker.Driver)
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cleanup closer
	defer cleanup.run()

	reader := consumerEvents.NewKafkaReader(cfg.Broker.Brokers, cfg.Broker.Topic, cfg.Broker.GroupID)
	cleanup.add(func() { _ = reader.Close() })

	dlq := sharedInfraEvents.NewKafkaWriter(cfg.Broker.Brokers, cfg.Broker.ErrorTopic)
	cleanup.add(func() { _ = dlq.Close() })

	consumer := consumerApp.NewTaskChangeConsumer(log, forwarders(ctx, cfg, "consumer", log, &cleanup)...)
	policy := consumerEvents.RedeliveryPolicy{Retries: cfg.Broker.Retries, Interval: cfg.Broker.RetryInterval}

	adapter := consumerEvents.NewConsumerAdapter(reader, dlq, consumer, policy, log).
		WithHeartbeat(cfg.Broker.Heartbeat)

	log.Info("📋 Listening for task change events",
		zap.String("topic", cfg.Broker.Topic),
		zap.String("error_topic", cfg.Broker.ErrorTopic),
	)
	adapter.Run(ctx)

	log.Info("🛑 Consumer stopped", zap.Int("processed", len(consumer.Processed())))
	return nil
}
