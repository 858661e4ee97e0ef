package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/geothermal-site-service/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Raw sources: filesystem paths or http(s) URLs.
	BHTSource      string
	WellSource     string
	HeatFlowSource string
	GravitySource  string
	SourceTimeout  time.Duration
	ReloadInterval time.Duration

	// Ranking defaults applied when a request omits them.
	WeightTemperature float64
	WeightHeatFlow    float64
	WeightGravity     float64
	MatchThreshold    float64

	// Snapshot publishing.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
	GeocodeTopN     int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	sourceTimeout, err := parsePositiveDuration("SOURCE_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	reloadInterval, err := time.ParseDuration(sharedcfg.EnvOrDefault("RELOAD_INTERVAL", "0s"))
	if err != nil || reloadInterval < 0 {
		return nil, errors.New("invalid RELOAD_INTERVAL")
	}

	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	weights := make(map[string]float64, 4)
	for key, def := range map[string]string{
		"WEIGHT_TEMPERATURE": "0.5",
		"WEIGHT_HEAT_FLOW":   "0.3",
		"WEIGHT_GRAVITY":     "0.2",
		"MATCH_THRESHOLD":    "0.8",
	} {
		v, err := parseUnit(key, def)
		if err != nil {
			return nil, err
		}
		weights[key] = v
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		BHTSource:      sharedcfg.EnvOrDefault("BHT_SOURCE", "data/SMU_BHT.csv"),
		WellSource:     sharedcfg.EnvOrDefault("WELL_SOURCE", "data/BHT_Data.csv"),
		HeatFlowSource: sharedcfg.EnvOrDefault("HEATFLOW_SOURCE", "data/heat_flow.csv"),
		GravitySource:  sharedcfg.EnvOrDefault("GRAVITY_SOURCE", "data/gravity.txt"),
		SourceTimeout:  sourceTimeout,
		ReloadInterval: reloadInterval,

		WeightTemperature: weights["WEIGHT_TEMPERATURE"],
		WeightHeatFlow:    weights["WEIGHT_HEAT_FLOW"],
		WeightGravity:     weights["WEIGHT_GRAVITY"],
		MatchThreshold:    weights["MATCH_THRESHOLD"],

		KafkaEnabled:   os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:   sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "geothermal-locations"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parsePositiveInt("MAPBOX_CACHE_SIZE", 1000),
		GeocodeTopN:     parsePositiveInt("GEOCODE_TOP_N", 10),
	}

	for name, v := range map[string]string{
		"BHT_SOURCE":      cfg.BHTSource,
		"WELL_SOURCE":     cfg.WellSource,
		"HEATFLOW_SOURCE": cfg.HeatFlowSource,
		"GRAVITY_SOURCE":  cfg.GravitySource,
	} {
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%s is required", name)
		}
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_ENABLED is true")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

// parseUnit parses a float within [0, 1].
func parseUnit(key, def string) (float64, error) {
	v, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be a number within [0, 1]", key)
	}
	if err := domain.ValidateUnit(key, v); err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parsePositiveInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}
