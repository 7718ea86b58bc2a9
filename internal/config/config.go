package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all service settings. Values are resolved in three layers:
// compiled defaults, then the optional YAML file named by CONFIG_PATH,
// then environment variables.
type Config struct {
	// Source files.
	DataPath     string `yaml:"data_path"`
	GeoPath      string `yaml:"geo_path"`
	CSVSeparator string `yaml:"csv_separator"`
	GeoCodeKey   string `yaml:"geo_code_key"`
	GeoNameKey   string `yaml:"geo_name_key"`

	// HTTP server.
	HTTPAddr        string        `yaml:"http_addr"`
	UIDir           string        `yaml:"ui_dir"`
	ShutdownTimeout time.Duration `yaml:"-"`

	// Derived views.
	TopProvinces  int `yaml:"top_provinces"`
	ViewCacheSize int `yaml:"view_cache_size"`

	// Kafka publishing. An empty broker list disables the publisher.
	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load resolves configuration from defaults, the optional CONFIG_PATH
// YAML file, and environment variables, then validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		CSVSeparator:    ";",
		GeoCodeKey:      "cod_prov",
		GeoNameKey:      "name",
		HTTPAddr:        ":8080",
		ShutdownTimeout: 10 * time.Second,
		TopProvinces:    10,
		ViewCacheSize:   64,
		KafkaTopic:      "wildfires.prepared",
		LogLevel:        "info",
		LogFormat:       "text",
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.DataPath == "" {
		return nil, errors.New("DATA_PATH is required")
	}
	if cfg.GeoPath == "" {
		return nil, errors.New("GEO_PATH is required")
	}
	if len([]rune(cfg.CSVSeparator)) != 1 {
		return nil, errors.New("CSV_SEPARATOR must be a single character")
	}
	if cfg.TopProvinces <= 0 {
		return nil, errors.New("TOP_PROVINCES must be positive")
	}
	if cfg.ViewCacheSize <= 0 {
		return nil, errors.New("VIEW_CACHE_SIZE must be positive")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required")
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	envString("DATA_PATH", &c.DataPath)
	envString("GEO_PATH", &c.GeoPath)
	envString("CSV_SEPARATOR", &c.CSVSeparator)
	envString("GEO_CODE_KEY", &c.GeoCodeKey)
	envString("GEO_NAME_KEY", &c.GeoNameKey)
	envString("HTTP_ADDR", &c.HTTPAddr)
	envString("UI_DIR", &c.UIDir)
	envString("KAFKA_TOPIC", &c.KafkaTopic)
	envString("LOG_LEVEL", &c.LogLevel)
	envString("LOG_FORMAT", &c.LogFormat)

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.KafkaBrokers = parseBrokers(v)
	}
	if v := os.Getenv("TOP_PROVINCES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return errors.New("invalid TOP_PROVINCES")
		}
		c.TopProvinces = n
	}
	if v := os.Getenv("VIEW_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return errors.New("invalid VIEW_CACHE_SIZE")
		}
		c.ViewCacheSize = n
	}
	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return errors.New("invalid SHUTDOWN_TIMEOUT")
		}
		c.ShutdownTimeout = d
	}

	return nil
}

// Separator returns the CSV field separator as a rune. Load guarantees
// CSVSeparator holds exactly one character.
func (c *Config) Separator() rune {
	return []rune(c.CSVSeparator)[0]
}

// KafkaEnabled reports whether publishing is configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
