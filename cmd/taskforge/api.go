package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/urfave/cli/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/davicafu/taskforge/internal/config"
	consumerApp "github.com/davicafu/taskforge/internal/consumer/application"
	consumerEvents "github.com/davicafu/taskforge/internal/consumer/infra/inbound/events"
	sharedInfraEvents "github.com/davicafu/taskforge/internal/shared/infra/events"
	sharedCache "github.com/davicafu/taskforge/internal/shared/infra/platform/cache"
	"github.com/davicafu/taskforge/internal/shared/infra/system"
	taskApp "github.com/davicafu/taskforge/internal/task/application"
	taskDomain "github.com/davicafu/taskforge/internal/task/domain"
	taskHttp "github.com/davicafu/taskforge/internal/task/infra/inbound/http"
	"github.com/davicafu/taskforge/internal/task/infra/outbound/analytics/clickhouse"
	"github.com/davicafu/taskforge/internal/task/infra/outbound/db/memory"
	"github.com/davicafu/taskforge/internal/task/infra/outbound/db/mongodb"
	"github.com/davicafu/taskforge/internal/task/infra/outbound/db/sqlstore"
	"github.com/davicafu/taskforge/internal/task/infra/outbound/sinks"
)

const sourceAddressAPI = "taskforge-api"

// closer acumula los cierres de recursos en orden inverso.
type closer []func()

func (c *closer) add(fn func()) { *c = append(*c, fn) }

func (c closer) run() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func runAPI(c *cli.Context, cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cleanup closer
	defer cleanup.run()

	// ---------------- DB ----------------
	store, storeCheck, err := openStore(ctx, cfg, log, &cleanup)
	if err != nil {
		return err
	}
	checks := []system.ReadinessCheck{storeCheck}

	if cfg.Store.Seed {
		// Un fallo de la carga inicial no impide arrancar
		if _, err := taskApp.SeedTasks(ctx, store, time.Now(), log); err != nil {
			log.Error("❌ Error seeding sample tasks", zap.Error(err))
		}
	}

	// ---------------- Cache ----------------
	cacheInstance, cacheCheck := openCache(ctx, cfg, log, &cleanup)
	if cacheCheck != nil {
		checks = append(checks, *cacheCheck)
	}

	// ---------------- Events ---------------
	eventSinks := buildSinks(ctx, cfg, log, &cleanup)
	emitter := taskApp.NewEmitter(eventSinks, cfg.API.EmitTimeout, log)
	// Al salir esperamos a los envíos en curso (cada uno acotado por su timeout)
	cleanup.add(func() {
		log.Info("Waiting for in-flight change events")
		emitter.Wait()
	})

	// --------------- Servicio --------------
	taskService := taskApp.NewTaskService(store, cacheInstance, emitter, log)

	// ---------------- HTTP ----------------
	router := newRouter(cfg, log, cfg.API.CORSOrigins)
	taskHttp.RegisterTaskRoutes(router, taskHttp.NewTaskHandler(taskService, log))
	system.RegisterHealth(router, "api", checks...)
	system.RegisterVersion(router, system.VersionInfo{Environment: cfg.Environment, Version: cfg.Version})

	return serve(ctx, router, cfg.API.Port, log)
}

// openStore abre el almacén configurado y devuelve su comprobación de disponibilidad.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger, cleanup *closer) (taskDomain.TaskStore, system.ReadinessCheck, error) {
	check := system.ReadinessCheck{Name: "store", Check: func(context.Context) error { return nil }}

	switch cfg.Store.Driver {
	case "memory":
		log.Warn("⚠️ Using in-memory task store, data is lost on restart")
		return memory.NewTaskStore(), check, nil

	case "sqlite", "postgres":
		dialect := sqlstore.Dialect(cfg.Store.Driver)
		db, err := sqlstore.Open(ctx, dialect, cfg.Store.DSN)
		if err != nil {
			return nil, check, err
		}
		cleanup.add(func() { _ = db.Close() })
		if err := sqlstore.RunMigrations(ctx, db, dialect, log); err != nil {
			return nil, check, err
		}
		check.Check = db.PingContext
		log.Info("✅ SQL task store ready", zap.String("dialect", string(dialect)))
		return sqlstore.NewTaskStore(db, dialect), check, nil

	case "mongodb":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Store.MongoURI))
		if err != nil {
			return nil, check, fmt.Errorf("connect mongodb: %w", err)
		}
		cleanup.add(func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		})
		store, err := mongodb.NewTaskStoreMongoDB(ctx, client, cfg.Store.MongoDatabase)
		if err != nil {
			return nil, check, err
		}
		check.Check = func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
		log.Info("✅ MongoDB task store ready", zap.String("database", cfg.Store.MongoDatabase))
		return store, check, nil
	}
	return nil, check, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// openCache usa Redis si responde; si no, la caché en memoria. Sólo Redis
// aporta comprobación de disponibilidad.
func openCache(ctx context.Context, cfg *config.Config, log *zap.Logger, cleanup *closer) (sharedCache.Cache, *system.ReadinessCheck) {
	fallback := func() sharedCache.Cache {
		mem := sharedCache.NewInMemoryCache(cfg.Cache.TTL, 3*cfg.Cache.TTL)
		cleanup.add(mem.Stop)
		return mem
	}

	if cfg.Cache.RedisAddr == "" {
		log.Info("Cache en memoria (sin Redis configurado)")
		return fallback(), nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("⚠️ Redis no disponible, cache en memoria", zap.Error(err))
		_ = rdb.Close()
		return fallback(), nil
	}
	cleanup.add(func() { _ = rdb.Close() })
	log.Info("✅ Redis conectado, cache habilitado")
	return sharedCache.NewRedisCache(rdb, cfg.Cache.TTL), &system.ReadinessCheck{
		Name:  "cache",
		Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}
}

// buildSinks arma los destinos del emisor: Event Log por HTTP, broker y, si se
// configura, el archivo analítico.
func buildSinks(ctx context.Context, cfg *config.Config, log *zap.Logger, cleanup *closer) []taskDomain.EventSink {
	httpSink := sinks.NewHTTPSink(cfg.API.EventLogURL, &http.Client{Timeout: cfg.API.SinkTimeout}, log)
	if !httpSink.Enabled() {
		log.Info("Event log URL not configured, HTTP sink disabled")
	}
	result := []taskDomain.EventSink{httpSink}

	switch cfg.Broker.Driver {
	case "kafka":
		log.Info("🚀 Usando Kafka como bus de eventos", zap.Strings("brokers", cfg.Broker.Brokers))
		writer := sharedInfraEvents.NewKafkaWriter(cfg.Broker.Brokers, cfg.Broker.Topic)
		cleanup.add(func() { _ = writer.Close() })
		publisher := sharedInfraEvents.NewKafkaPublisher(writer, sourceAddressAPI, log)
		result = append(result, sinks.NewBrokerSink(publisher, log))

	case "inmemory":
		// El bus en memoria sólo existe dentro de este proceso: el consumidor corre aquí.
		log.Info("⚡️ Usando bus de eventos en memoria (canales de Go)")
		bus := sharedInfraEvents.NewInMemoryEventBus(cfg.Broker.Topic, sourceAddressAPI, log)
		consumer := consumerApp.NewTaskChangeConsumer(log, forwarders(ctx, cfg, "consumer", log, cleanup)...)
		policy := consumerEvents.RedeliveryPolicy{Retries: cfg.Broker.Retries, Interval: cfg.Broker.RetryInterval}
		consumerCtx, cancel := context.WithCancel(context.Background())
		done := consumerEvents.BackgroundConsumerChan(consumerCtx, bus.Subscribe(64), consumer, policy, log)
		cleanup.add(func() {
			bus.Close()
			<-done
			cancel()
		})
		result = append(result, sinks.NewBrokerSink(bus, log))

	default:
		log.Info("Broker disabled, change events are not published")
		result = append(result, sinks.NewNoopSink(log))
	}

	for _, archive := range forwarders(ctx, cfg, "api", log, cleanup) {
		result = append(result, archive)
	}
	return result
}

// forwarders abre el archivo analítico si está configurado para la etapa dada.
func forwarders(ctx context.Context, cfg *config.Config, stage string, log *zap.Logger, cleanup *closer) []consumerApp.Forwarder {
	if cfg.Analytics.ClickHouseAddr == "" || cfg.Analytics.Stage != stage {
		return nil
	}

	archive, err := clickhouse.NewEventArchive(ctx, cfg.Analytics.ClickHouseAddr, cfg.Analytics.Database, cfg.Analytics.User, cfg.Analytics.Password)
	if err != nil {
		log.Warn("⚠️ ClickHouse no disponible, archivo analítico desactivado", zap.Error(err))
		return nil
	}
	if err := archive.InitSchema(ctx); err != nil {
		log.Warn("⚠️ No se pudo crear el esquema de ClickHouse", zap.Error(err))
		_ = archive.Close()
		return nil
	}
	cleanup.add(func() { _ = archive.Close() })
	log.Info("✅ ClickHouse conectado, archivando eventos", zap.String("stage", stage))
	return []consumerApp.Forwarder{archive}
}
