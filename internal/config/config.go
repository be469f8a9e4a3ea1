package config

import (
	"os"
	"strconv"
	"time"

	"hotdesk/internal/cache"
	"hotdesk/internal/database"
	"hotdesk/internal/messaging"
	"hotdesk/internal/store"
)

// Config содержит конфигурацию приложения
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// Office layout, e.g. "A:8,B:8,C:8,D:8,E:6,F:6"
	LayoutSpec string
	// Rolling booking window in weeks (weekdays only)
	WindowWeeks int

	// Reservation store backend: memory | csv | postgres | http
	StoreBackend string
	CSV          store.CSVConfig
	HTTPStore    store.HTTPConfig

	Database database.Config
	NATS     messaging.Config
	Valkey   cache.Config
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		LayoutSpec:  getEnv("LAYOUT", "A:8,B:8,C:8,D:8,E:6,F:6"),
		WindowWeeks: getEnvInt("WINDOW_WEEKS", 2),

		StoreBackend: getEnv("STORE_BACKEND", "csv"),

		CSV: store.CSVConfig{
			ReservationsPath: getEnv("CSV_RESERVATIONS_PATH", "data/reservations.csv"),
			UsersPath:        getEnv("CSV_USERS_PATH", "data/users.csv"),
		},

		HTTPStore: store.HTTPConfig{
			BaseURL: getEnv("STORE_SERVICE_URL", "http://localhost:9090"),
			Timeout: time.Duration(getEnvInt("STORE_TIMEOUT_SEC", 30)) * time.Second,
		},

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "hotdesk"),
			Password:           getEnv("DB_PASSWORD", "hotdesk123"),
			DBName:             getEnv("DB_NAME", "hotdesk"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "hotdesk"),
			ClientID:  getEnv("NATS_CLIENT_ID", "hotdesk-api"),
		},

		Valkey: cache.Config{
			Addr:         getEnv("VALKEY_ADDR", ""),
			Password:     getEnv("VALKEY_PASSWORD", ""),
			SeatMapTTL:   time.Duration(getEnvInt("VALKEY_SEATMAP_TTL_SEC", 15)) * time.Second,
			UsersHashKey: getEnv("VALKEY_USERS_HASH_KEY", "users:directory"),
		},
	}
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает целочисленное значение переменной окружения
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
