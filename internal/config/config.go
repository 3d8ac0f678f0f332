package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Remote    RemoteConfig
	Sync      SyncConfig
	Search    SearchConfig
	JWT       JWTConfig
	WebSocket WebSocketConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

// StoreConfig configures the local SQLite store. Timezone is the IANA zone
// used for calendar-day normalization; empty means the system local zone.
type StoreConfig struct {
	Path     string
	Timezone string
}

// RemoteConfig points at the CouchDB instance used as the remote document
// store.
type RemoteConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// SyncConfig tunes the upload queue and retry policy. Token is the bearer
// token identifying the syncing user; UserID pins a fixed identity for
// single-user deployments without a token.
type SyncConfig struct {
	QueueCapacity int
	MaxAttempts   int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	Interval      time.Duration
	ProbeURL      string
	Token         string
	UserID        string
}

type SearchConfig struct {
	BaseURL  string
	Debounce time.Duration
	Limit    int
}

type JWTConfig struct {
	Secret                 string
	Expiration             time.Duration
	RefreshTokenExpiration time.Duration
}

type WebSocketConfig struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	MaxConnPerUser int
}

type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

func Load() (*Config, error) {
	godotenv.Load()

	jwtExp, err := time.ParseDuration(getEnv("JWT_EXPIRATION", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION: %w", err)
	}
	refreshExp, err := time.ParseDuration(getEnv("REFRESH_TOKEN_EXPIRATION", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_TOKEN_EXPIRATION: %w", err)
	}
	syncBaseDelay, err := time.ParseDuration(getEnv("SYNC_BASE_DELAY", "2s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_BASE_DELAY: %w", err)
	}
	syncMaxDelay, err := time.ParseDuration(getEnv("SYNC_MAX_DELAY", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_MAX_DELAY: %w", err)
	}
	syncInterval, err := time.ParseDuration(getEnv("SYNC_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_INTERVAL: %w", err)
	}
	searchDebounce, err := time.ParseDuration(getEnv("SEARCH_DEBOUNCE", "300ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_DEBOUNCE: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		Store: StoreConfig{
			Path:     getEnv("STORE_PATH", "countme.db"),
			Timezone: getEnv("STORE_TIMEZONE", ""),
		},
		Remote: RemoteConfig{
			Host:     getEnv("COUCHDB_HOST", "localhost"),
			Port:     getEnv("COUCHDB_PORT", "5984"),
			User:     getEnv("COUCHDB_USER", "admin"),
			Password: getEnv("COUCHDB_PASSWORD", "password"),
			Name:     getEnv("COUCHDB_NAME", "countme"),
		},
		Sync: SyncConfig{
			QueueCapacity: getEnvAsInt("SYNC_QUEUE_CAPACITY", 1000),
			MaxAttempts:   getEnvAsInt("SYNC_MAX_ATTEMPTS", 5),
			BaseDelay:     syncBaseDelay,
			MaxDelay:      syncMaxDelay,
			Interval:      syncInterval,
			ProbeURL:      getEnv("SYNC_PROBE_URL", ""),
			Token:         getEnv("SYNC_TOKEN", ""),
			UserID:        getEnv("SYNC_USER_ID", ""),
		},
		Search: SearchConfig{
			BaseURL:  getEnv("SEARCH_BASE_URL", ""),
			Debounce: searchDebounce,
			Limit:    getEnvAsInt("SEARCH_LIMIT", 20),
		},
		JWT: JWTConfig{
			Secret:                 getEnv("JWT_SECRET", "dev-secret-change-in-production"),
			Expiration:             jwtExp,
			RefreshTokenExpiration: refreshExp,
		},
		WebSocket: WebSocketConfig{
			WriteWait:      10 * time.Second,
			PongWait:       60 * time.Second,
			PingPeriod:     54 * time.Second,
			MaxConnPerUser: getEnvAsInt("WS_MAX_CONN_PER_USER", 5),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
