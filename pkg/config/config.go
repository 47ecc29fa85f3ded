package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const defaultConfigFile = "config.yaml"

type Config struct {
	ServerPort  string   `koanf:"server_port"`
	Debug       bool     `koanf:"debug"`
	CORSOrigins []string `koanf:"cors_origins"`

	// Upstream
	Source          string        `koanf:"source"`
	Handle          string        `koanf:"handle"`
	MaxPosts        int           `koanf:"max_posts"`
	BearerToken     string        `koanf:"bearer_token"`
	TwitterAPIURL   string        `koanf:"twitter_api_url"`
	NitterInstance  string        `koanf:"nitter_instance"`
	UpstreamTimeout time.Duration `koanf:"upstream_timeout"`

	// Retrieval journal; empty values disable it
	MongoURI      string   `koanf:"mongo_uri"`
	MongoDBName   string   `koanf:"mongo_db_name"`
	MongoColl     string   `koanf:"mongo_collection"`
	KafkaBrokers  []string `koanf:"kafka_brokers"`
	KafkaTopic    string   `koanf:"kafka_topic"`
	KafkaDLQTopic string   `koanf:"kafka_dlq_topic"`
	KafkaGroupID  string   `koanf:"kafka_group_id"`

	OTLPEndpoint string `koanf:"otlp_endpoint"`

	ConfigFilePath string `koanf:"-"`
}

// JournalEnabled reports whether both journal backends are configured.
func (c *Config) JournalEnabled() bool {
	return c.MongoURI != "" && len(c.KafkaBrokers) > 0
}

func defaults() *Config {
	return &Config{
		ServerPort:      "5000",
		CORSOrigins:     []string{"*"},
		Source:          "twitter",
		Handle:          "JesseRodPodcast",
		MaxPosts:        5,
		TwitterAPIURL:   "https://api.twitter.com",
		NitterInstance:  "nitter.net",
		UpstreamTimeout: 10 * time.Second,
		MongoDBName:     "news_hub",
		MongoColl:       "retrieval_events",
		KafkaTopic:      "retrieval_events",
		KafkaGroupID:    "journal-writer",
	}
}

// Load builds the configuration from defaults, then the optional YAML file
// named by CONFIG_FILE, then environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := defaults()
	cfg.ConfigFilePath = getEnv("CONFIG_FILE", defaultConfigFile)

	if err := loadFile(cfg, cfg.ConfigFilePath); err != nil {
		return nil, err
	}
	applyEnv(cfg)

	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if path != defaultConfigFile {
			return fmt.Errorf("config file %s not found", path)
		}
		slog.Debug("No config file, using defaults and environment", "path", path)
		return nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", getEnv("PORT", cfg.ServerPort))
	cfg.Debug = getBoolEnv("DEBUG", cfg.Debug)
	cfg.CORSOrigins = getListEnv("CORS_ORIGINS", cfg.CORSOrigins)

	cfg.Source = getEnv("POSTS_SOURCE", cfg.Source)
	cfg.Handle = getEnv("TWITTER_USERNAME", cfg.Handle)
	cfg.MaxPosts = getIntEnv("MAX_POSTS", cfg.MaxPosts)
	cfg.BearerToken = getEnv("TWITTER_BEARER_TOKEN", cfg.BearerToken)
	cfg.TwitterAPIURL = getEnv("TWITTER_API_URL", cfg.TwitterAPIURL)
	cfg.NitterInstance = getEnv("NITTER_INSTANCE", cfg.NitterInstance)
	cfg.UpstreamTimeout = getDurationEnv("UPSTREAM_TIMEOUT", cfg.UpstreamTimeout)

	cfg.MongoURI = getEnv("MONGO_URI", cfg.MongoURI)
	cfg.MongoDBName = getEnv("MONGO_DB_NAME", cfg.MongoDBName)
	cfg.MongoColl = getEnv("MONGO_COLLECTION", cfg.MongoColl)
	cfg.KafkaBrokers = getListEnv("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", cfg.KafkaTopic)
	cfg.KafkaDLQTopic = getEnv("KAFKA_DLQ_TOPIC", cfg.KafkaDLQTopic)
	cfg.KafkaGroupID = getEnv("KAFKA_GROUP_ID", cfg.KafkaGroupID)

	cfg.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
		slog.Warn("Ignoring invalid integer env", "key", key, "value", value)
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
		slog.Warn("Ignoring invalid boolean env", "key", key, "value", value)
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		// Try parsing as duration string (e.g. "1m", "60s")
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// Try parsing as integer seconds
		if i, err := strconv.Atoi(value); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}

// getListEnv parses a comma-separated list. An empty value yields an empty list.
func getListEnv(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
