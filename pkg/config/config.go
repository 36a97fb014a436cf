package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Backend struct {
		Type         string        `yaml:"type"` // "kafka" or "clickhouse"
		BatchSize    int           `yaml:"batch_size"`
		BatchTimeout time.Duration `yaml:"batch_timeout"`
	} `yaml:"backend"`
	Kafka struct {
		Brokers       []string `yaml:"brokers"`
		BookingsTopic string   `yaml:"bookings_topic"`
		AlertsTopic   string   `yaml:"alerts_topic"`
		OpsLogTopic   string   `yaml:"ops_log_topic"`
		RequiredAcks  int      `yaml:"required_acks"`
		Compression   string   `yaml:"compression"`
		Producer      struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Bankfeed struct {
		APIKey         string        `yaml:"api_key"`
		WebSocketURL   string        `yaml:"websocket_url"`
		Connections    []string      `yaml:"connections"` // bank connection IDs to subscribe
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
	} `yaml:"bankfeed"`
	Forecast struct {
		DefaultThreshold   float64       `yaml:"default_threshold"`
		DefaultWeeks       int           `yaml:"default_weeks"`
		VarianceFallback   float64       `yaml:"variance_fallback"`
		LargeDropThreshold float64       `yaml:"large_drop_threshold"`
		BoundaryAccount    int           `yaml:"boundary_account"`
		HistoryCacheTTL    time.Duration `yaml:"history_cache_ttl"`
		Narrative          struct {
			ServiceURL string        `yaml:"service_url"`
			Timeout    time.Duration `yaml:"timeout"`
			Attempts   int           `yaml:"attempts"`
		} `yaml:"narrative"`
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"forecast"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("BANKFEED_API_KEY"); v != "" {
		c.Bankfeed.APIKey = v
	}
	if v := os.Getenv("BANKFEED_CONNECTIONS"); v != "" {
		c.Bankfeed.Connections = strings.Split(v, ",")
	}
	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("NARRATIVE_SERVICE_URL"); v != "" {
		c.Forecast.Narrative.ServiceURL = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Forecast.DefaultThreshold == 0 {
		c.Forecast.DefaultThreshold = 50000
	}
	if c.Forecast.DefaultWeeks == 0 {
		c.Forecast.DefaultWeeks = 13
	}
	if c.Forecast.VarianceFallback == 0 {
		c.Forecast.VarianceFallback = 5000
	}
	if c.Forecast.LargeDropThreshold == 0 {
		c.Forecast.LargeDropThreshold = 25000
	}
	if c.Forecast.BoundaryAccount == 0 {
		c.Forecast.BoundaryAccount = 5000
	}
	if c.Forecast.HistoryCacheTTL == 0 {
		c.Forecast.HistoryCacheTTL = 30 * time.Second
	}
	if c.Forecast.Narrative.Timeout == 0 {
		c.Forecast.Narrative.Timeout = 10 * time.Second
	}
	if c.Forecast.Narrative.Attempts == 0 {
		c.Forecast.Narrative.Attempts = 2
	}
	if c.Kafka.BookingsTopic == "" {
		c.Kafka.BookingsTopic = "liqcast.bookings"
	}
	if c.Kafka.AlertsTopic == "" {
		c.Kafka.AlertsTopic = "liqcast.alerts"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Backend.Type == "" {
		return fmt.Errorf("backend.type is required")
	}
	if c.Backend.Type != "kafka" && c.Backend.Type != "clickhouse" {
		return fmt.Errorf("backend.type must be 'kafka' or 'clickhouse', got '%s'", c.Backend.Type)
	}
	if c.Forecast.DefaultWeeks <= 0 {
		return fmt.Errorf("forecast.default_weeks must be positive")
	}
	if c.Forecast.DefaultThreshold <= 0 {
		return fmt.Errorf("forecast.default_threshold must be positive")
	}
	return nil
}
