// Package config loads service configuration from the environment so main
// stays lean. Optional backends (Postgres, Redis, Kafka) are enabled by
// setting their connection variables; everything runs in-memory without them.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures the full service configuration.
type Server struct {
	Addr          string
	DatabaseURL   string
	JWTSigningKey string

	Redis    RedisConfig
	Kafka    KafkaConfig
	Schedule ScheduleConfig
	Realtime RealtimeConfig
}

// RedisConfig controls the optional Redis presence cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig controls the optional activity feed publisher.
type KafkaConfig struct {
	Seeds         []string
	ActivityTopic string
}

// ScheduleConfig holds the scheduling policy knobs. The three thresholds
// are deliberately independent: MinRestHours and MaxWeeklyHours feed the
// conflict detector, OvertimeApproachHours drives early-warning UI.
type ScheduleConfig struct {
	MinRestHours          float64
	MaxWeeklyHours        float64
	OvertimeApproachHours float64
}

// RealtimeConfig bounds the live query result sets.
type RealtimeConfig struct {
	PanicAlertLimit int
	GeofenceLimit   int
	ActivityLimit   int
	LocationTTL     time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:          envOr("GUARDHQ_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			ActivityTopic: envOr("KAFKA_ACTIVITY_TOPIC", "guardhq.activity"),
		},
		Schedule: ScheduleConfig{
			MinRestHours:          envFloat("SCHEDULE_MIN_REST_HOURS", 8),
			MaxWeeklyHours:        envFloat("SCHEDULE_MAX_WEEKLY_HOURS", 40),
			OvertimeApproachHours: envFloat("SCHEDULE_OVERTIME_APPROACH_HOURS", 36),
		},
		Realtime: RealtimeConfig{
			PanicAlertLimit: envInt("REALTIME_PANIC_ALERT_LIMIT", 50),
			GeofenceLimit:   envInt("REALTIME_GEOFENCE_LIMIT", 50),
			ActivityLimit:   envInt("REALTIME_ACTIVITY_LIMIT", 100),
			LocationTTL:     envDuration("REALTIME_LOCATION_TTL", 10*time.Minute),
		},
	}

	if seeds := os.Getenv("KAFKA_SEEDS"); seeds != "" {
		for _, s := range strings.Split(seeds, ",") {
			if s = strings.TrimSpace(s); s != "" {
				cfg.Kafka.Seeds = append(cfg.Kafka.Seeds, s)
			}
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
