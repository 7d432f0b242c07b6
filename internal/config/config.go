package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix es el prefijo de las variables de entorno (TASKFORGE_API_PORT, ...).
const EnvPrefix = "TASKFORGE"

// Config agrupa la configuración de los tres procesos.
type Config struct {
	Environment string          `mapstructure:"environment" validate:"required,oneof=development production"`
	Version     string          `mapstructure:"version" validate:"required"`
	LogLevel    string          `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	API         APIConfig       `mapstructure:"api"`
	EventLog    EventLogConfig  `mapstructure:"eventlog"`
	Store       StoreConfig     `mapstructure:"store"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Broker      BrokerConfig    `mapstructure:"broker"`
	Analytics   AnalyticsConfig `mapstructure:"analytics"`
}

// APIConfig es la configuración del servicio de tareas.
type APIConfig struct {
	Port        int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	EventLogURL string        `mapstructure:"eventlog_url" validate:"omitempty,url"` // vacío = sink HTTP desactivado
	EmitTimeout time.Duration `mapstructure:"emit_timeout" validate:"gt=0"`
	SinkTimeout time.Duration `mapstructure:"sink_timeout" validate:"gt=0"`
	CORSOrigins []string      `mapstructure:"cors_origins" validate:"dive,required"` // vacío = sin CORS
}

// EventLogConfig es la configuración del servicio de registro de eventos.
type EventLogConfig struct {
	Port int `mapstructure:"port" validate:"required,gt=0,lt=65536"`
}

// StoreConfig selecciona el almacén de tareas.
type StoreConfig struct {
	Driver        string `mapstructure:"driver" validate:"required,oneof=memory sqlite postgres mongodb"`
	DSN           string `mapstructure:"dsn" validate:"required_if=Driver sqlite,required_if=Driver postgres"`
	MongoURI      string `mapstructure:"mongo_uri" validate:"required_if=Driver mongodb"`
	MongoDatabase string `mapstructure:"mongo_database" validate:"required_if=Driver mongodb"`
	Seed          bool   `mapstructure:"seed"` // carga tareas de ejemplo si el almacén está vacío
}

// CacheConfig: sin dirección de Redis se usa la caché en memoria.
type CacheConfig struct {
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl" validate:"gt=0"`
}

// BrokerConfig configura el transporte de eventos hacia el consumidor.
type BrokerConfig struct {
	Driver        string        `mapstructure:"driver" validate:"required,oneof=kafka inmemory none"`
	Brokers       []string      `mapstructure:"brokers" validate:"required_if=Driver kafka,dive,hostname_port"`
	Topic         string        `mapstructure:"topic" validate:"required"`
	ErrorTopic    string        `mapstructure:"error_topic" validate:"required"`
	GroupID       string        `mapstructure:"group_id" validate:"required"`
	Retries       int           `mapstructure:"retries" validate:"gte=0"`
	RetryInterval time.Duration `mapstructure:"retry_interval" validate:"gte=0"`
	Heartbeat     time.Duration `mapstructure:"heartbeat" validate:"gte=0"`
}

// AnalyticsConfig: con dirección de ClickHouse se archiva cada evento de cambio.
// Stage elige quién archiva: el emisor de la API o el consumidor.
type AnalyticsConfig struct {
	ClickHouseAddr string `mapstructure:"clickhouse_addr" validate:"omitempty,hostname_port"`
	Stage          string `mapstructure:"stage" validate:"oneof=api consumer"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
}

// IsDevelopment indica si se muestran detalles de error al cliente.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "production")
	v.SetDefault("version", "0.1.0")
	v.SetDefault("log_level", "info")

	v.SetDefault("api.port", 8080)
	v.SetDefault("api.eventlog_url", "")
	v.SetDefault("api.emit_timeout", 30*time.Second)
	v.SetDefault("api.sink_timeout", 5*time.Second)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	v.SetDefault("eventlog.port", 8081)

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "file:taskforge.db?_pragma=busy_timeout(5000)")
	v.SetDefault("store.mongo_uri", "")
	v.SetDefault("store.mongo_database", "taskforge")
	v.SetDefault("store.seed", false)

	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.ttl", 5*time.Minute)

	v.SetDefault("broker.driver", "inmemory")
	v.SetDefault("broker.brokers", []string{"localhost:9092"})
	v.SetDefault("broker.topic", "task-change-events")
	v.SetDefault("broker.error_topic", "task-change-events_error")
	v.SetDefault("broker.group_id", "taskforge-consumer")
	v.SetDefault("broker.retries", 3)
	v.SetDefault("broker.retry_interval", 5*time.Second)
	v.SetDefault("broker.heartbeat", 5*time.Minute)

	v.SetDefault("analytics.clickhouse_addr", "")
	v.SetDefault("analytics.stage", "api")
	v.SetDefault("analytics.database", "default")
	v.SetDefault("analytics.user", "default")
	v.SetDefault("analytics.password", "")
}

// Load lee valores por defecto, el fichero opcional path y el entorno, en ese
// orden de prioridad creciente, y valida el resultado.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate comprueba las etiquetas validate de la configuración.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
