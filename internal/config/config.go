package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gopkg.in/yaml.v3"

	"pinterest-forwarder/internal/model"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	HTTPPort         string
	AppMode          string
	FiberPrefork     bool
	LogLevel         slog.Level
	TransportTimeout time.Duration
	SettingsFile     string
	Settings         model.Settings
	KafkaBrokers     []string
	KafkaGroupID     string
	KafkaTopic       string
}

type settingsFile struct {
	Settings map[string]string `yaml:"settings"`
}

// Load reads configuration from environment variables with sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:         getEnv("HTTP_PORT", ":8080"),
		AppMode:          strings.ToLower(getEnv("APP_MODE", "dev")),
		FiberPrefork:     parseBoolEnv("FIBER_PREFORK", false),
		LogLevel:         parseLevelEnv("LOG_LEVEL", slog.LevelInfo),
		TransportTimeout: parseDurationEnv("TRANSPORT_TIMEOUT", 5*time.Second),
		SettingsFile:     os.Getenv("SETTINGS_FILE"),
		KafkaBrokers:     parseListEnv("KAFKA_BROKERS"),
		KafkaGroupID:     getEnv("KAFKA_GROUP_ID", "pinterest-forwarder"),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "events"),
	}

	settings, err := loadSettings(cfg.SettingsFile)
	if err != nil {
		return nil, err
	}
	if tid := os.Getenv("PINTEREST_TID"); tid != "" {
		settings["tid"] = tid
	}
	cfg.Settings = settings

	return cfg, nil
}

// ConsumesKafka reports whether this process should run the Kafka event
// source. Prefork children never do; the parent owns the consumer.
func (c *Config) ConsumesKafka() bool {
	return len(c.KafkaBrokers) > 0 && !fiber.IsChild()
}

// loadSettings reads the component settings bag. An empty path yields an
// empty bag.
func loadSettings(path string) (model.Settings, error) {
	settings := model.Settings{}
	if path == "" {
		return settings, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	var f settingsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse settings file: %w", err)
	}
	for k, v := range f.Settings {
		settings[k] = v
	}
	return settings, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseBoolEnv(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseDurationEnv(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseLevelEnv(key string, fallback slog.Level) slog.Level {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(val)); err != nil {
		return fallback
	}
	return level
}

func parseListEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
