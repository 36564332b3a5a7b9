package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	placeholderEndpoint = "https://[YOUR_APPWRITE_ENDPOINT]"
	placeholderProject  = "[YOUR_PROJECT_ID]"

	StoreBackendMongoDB  = "mongodb"
	StoreBackendAppwrite = "appwrite"
)

type Config struct {
	Server  ServerConfig  `envPrefix:"SERVER_"`
	Store   StoreConfig   `envPrefix:"STORE_"`
	Webhook WebhookConfig `envPrefix:"WEBHOOK_"`
	Kafka   KafkaConfig   `envPrefix:"KAFKA_"`
	Cart    CartConfig    `envPrefix:"CART_"`
	Log     LogConfig     `envPrefix:"LOG_"`
}

type ServerConfig struct {
	Addr        string `env:"ADDR" envDefault:"0.0.0.0:8080"`
	CORSPattern string `env:"CORS_PATTERN" envDefault:"^https?://(localhost|127\\.0\\.0\\.1)(:[0-9]+)?$"`
	Pprof       bool   `env:"PPROF" envDefault:"false"`
}

// StoreConfig describes the remote document store holding the product catalog.
// Empty DatabaseID or CollectionID means the catalog runs in fallback-only mode.
type StoreConfig struct {
	Backend      string        `env:"BACKEND" envDefault:"appwrite"`
	Endpoint     string        `env:"ENDPOINT"`
	ProjectID    string        `env:"PROJECT_ID"`
	APIKey       string        `env:"API_KEY"`
	DatabaseID   string        `env:"DATABASE_ID"`
	CollectionID string        `env:"COLLECTION_ID"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Configured reports whether both identifiers needed for remote reads are present.
func (c StoreConfig) Configured() bool {
	return c.DatabaseID != "" && c.CollectionID != ""
}

type WebhookConfig struct {
	URL     string        `env:"URL" envDefault:"YOUR_MAKE_COM_WEBHOOK_URL_HERE"`
	Source  string        `env:"SOURCE" envDefault:"YaadPlay Gaming Survey"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

type KafkaConfig struct {
	Brokers []string `env:"BROKERS" envSeparator:","`
	Topic   string   `env:"TOPIC" envDefault:"storefront.survey-leads"`
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// CartConfig bounds in-memory cart retention. Carts idle longer than IdleTTL are
// dropped by a sweep every SweepInterval.
type CartConfig struct {
	IdleTTL       time.Duration `env:"IDLE_TTL" envDefault:"24h"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"10m"`
}

type LogConfig struct {
	Level string `env:"LEVEL" envDefault:"info"`
	Mode  string `env:"MODE" envDefault:"development"`
	File  string `env:"FILE"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// applyDefaults fills connection settings that may be absent. The placeholders are not
// usable for real remote calls but keep the process from failing at startup.
func (c *Config) applyDefaults() {
	if c.Store.Endpoint == "" {
		c.Store.Endpoint = placeholderEndpoint
	}
	if c.Store.ProjectID == "" {
		c.Store.ProjectID = placeholderProject
	}
	if c.Store.Backend == "" {
		c.Store.Backend = StoreBackendAppwrite
	}
}
