package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything main needs to wire the console gateway.
type Config struct {
	Server  Server
	Backend Backend
	Auth    Auth
	Redis   Redis
	Kafka   Kafka
	Audit   Audit
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr string
}

// Backend points the gateway at the verification platform.
type Backend struct {
	BaseURL    string
	SDKBaseURL string
}

// Auth configures console token issuance and session lifetime.
type Auth struct {
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	SessionTTL    time.Duration
}

// Redis configures the shared session store. An empty URL means sessions
// stay in process memory.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka configures the audit event sink. No brokers means audit events are
// only retained in the in-process store.
type Kafka struct {
	Brokers []string
	Topic   string
}

// Audit configures the in-process audit pipeline.
type Audit struct {
	BufferSize int
	Retained   int
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	jwtSigningKey := os.Getenv("VERIDESK_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Config{
		Server: Server{
			Addr: envString("VERIDESK_ADDR", ":8080"),
		},
		Backend: Backend{
			BaseURL:    envString("VERIDESK_PLATFORM_URL", "http://localhost:9000/api/v1"),
			SDKBaseURL: envString("VERIDESK_SDK_URL", "http://localhost:9000"),
		},
		Auth: Auth{
			JWTSigningKey: jwtSigningKey,
			JWTIssuer:     envString("VERIDESK_JWT_ISSUER", "veridesk"),
			JWTAudience:   envString("VERIDESK_JWT_AUDIENCE", "veridesk-console"),
			SessionTTL:    envDuration("VERIDESK_SESSION_TTL", 12*time.Hour),
		},
		Redis: Redis{
			URL:          os.Getenv("VERIDESK_REDIS_URL"),
			PoolSize:     envInt("VERIDESK_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("VERIDESK_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("VERIDESK_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("VERIDESK_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("VERIDESK_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers: envList("VERIDESK_KAFKA_BROKERS"),
			Topic:   envString("VERIDESK_KAFKA_AUDIT_TOPIC", "veridesk.audit"),
		},
		Audit: Audit{
			BufferSize: envInt("VERIDESK_AUDIT_BUFFER", 256),
			Retained:   envInt("VERIDESK_AUDIT_RETAINED", 1000),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
