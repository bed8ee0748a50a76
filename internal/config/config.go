package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tournevent/pickpoint/pkg/pickpoint"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"80"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// PickPoint
	PickPointHost     string `envconfig:"PICKPOINT_HOST" default:"https://e-solution.pickpoint.ru/api"`
	PickPointLogin    string `envconfig:"PICKPOINT_LOGIN"`
	PickPointPassword string `envconfig:"PICKPOINT_PASSWORD"`
	PickPointIKN      string `envconfig:"PICKPOINT_IKN"`
	PickPointUseMock  bool   `envconfig:"PICKPOINT_USE_MOCK" default:"false"`

	SenderCity     string `envconfig:"PICKPOINT_SENDER_CITY" default:"Москва"`
	SenderRegion   string `envconfig:"PICKPOINT_SENDER_REGION" default:"Москва"`
	SenderPostamat string `envconfig:"PICKPOINT_SENDER_POSTAMAT"`

	PackageWidth  float64 `envconfig:"PICKPOINT_PACKAGE_WIDTH" default:"0"`
	PackageLength float64 `envconfig:"PICKPOINT_PACKAGE_LENGTH" default:"0"`
	PackageDepth  float64 `envconfig:"PICKPOINT_PACKAGE_DEPTH" default:"0"`
	PackageWeight float64 `envconfig:"PICKPOINT_PACKAGE_WEIGHT" default:"1"`

	SessionTTL time.Duration `envconfig:"PICKPOINT_SESSION_TTL" default:"60s"`
	Timeout    time.Duration `envconfig:"PICKPOINT_TIMEOUT" default:"30s"`

	// Session cache
	RedisEnabled bool   `envconfig:"REDIS_ENABLED" default:"false"`
	RedisAddr    string `envconfig:"REDIS_ADDR" default:"localhost:6379"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"true"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"pickpoint-connector"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables. A .env file in the
// working directory, if present, fills variables that are not already set.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit dotenv files. Missing files are skipped.
func LoadFiles(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// PickPoint returns the connector configuration.
func (c *Config) PickPoint() pickpoint.Config {
	return pickpoint.Config{
		Host:     c.PickPointHost,
		Login:    c.PickPointLogin,
		Password: c.PickPointPassword,
		IKN:      c.PickPointIKN,
		Sender: pickpoint.SenderDestination{
			City:           c.SenderCity,
			Region:         c.SenderRegion,
			PostamatNumber: c.SenderPostamat,
		},
		Package: pickpoint.PackageSize{
			Width:  c.PackageWidth,
			Length: c.PackageLength,
			Depth:  c.PackageDepth,
			Weight: c.PackageWeight,
		},
		SessionTTL: c.SessionTTL,
		Timeout:    c.Timeout,
		UseMock:    c.PickPointUseMock,
	}
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.String("pickpoint.host", c.PickPointHost),
		attribute.Bool("pickpoint.mock", c.PickPointUseMock),
		attribute.Bool("redis.enabled", c.RedisEnabled),
	}
}
