package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ReceiptsPostgres = "postgres"
	ReceiptsMemory   = "memory"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// RedisURL is optional; without it events are dropped and geocodes
	// are not cached.
	RedisURL string

	// ORS settings. Geocoding and route estimates are disabled when
	// ORSAPIKey is empty.
	ORSBaseURL       string
	ORSAPIKey        string
	ORSRatePerSecond float64
	ORSCountry       string

	// SMS gateway. Without a URL notices are written to the log.
	SMSGatewayURL   string
	SMSGatewayToken string

	// NotificationReceipts is postgres (default) or memory. Memory receipts
	// do not survive a restart, so a repeated finalize may notify again.
	NotificationReceipts string

	ZoneTemplatesFile string

	AllowNearestZoneFallback        bool
	RebalanceOverloadThreshold      float64
	RebalanceUnderutilizedThreshold float64
	ExternalCallTimeout             time.Duration
	DeliveryWindowStart             string
	DeliveryWindowEnd               string

	PlanningCron  string
	GeocodingCron string

	LogLevel  string
	LogFormat string
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// LoadConfig reads .env when present and then the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	r := envReader{}
	config := Config{
		HTTPPort:   r.str("HTTP_PORT", "8080"),
		DBHost:     r.str("DB_HOST", "localhost"),
		DBPort:     r.str("DB_PORT", "5432"),
		DBUser:     r.str("DB_USER", "postgres"),
		DBPassword: r.str("DB_PASSWORD", ""),
		DBName:     r.str("DB_NAME", "dispatch"),
		DBSslMode:  r.str("DB_SSLMODE", "disable"),

		RedisURL: r.str("REDIS_URL", ""),

		ORSBaseURL:       r.str("ORS_BASE_URL", ""),
		ORSAPIKey:        r.str("ORS_API_KEY", ""),
		ORSRatePerSecond: r.float("ORS_RATE_PER_SECOND", 1),
		ORSCountry:       r.str("ORS_COUNTRY", ""),

		SMSGatewayURL:   r.str("SMS_GATEWAY_URL", ""),
		SMSGatewayToken: r.str("SMS_GATEWAY_TOKEN", ""),

		NotificationReceipts: r.str("NOTIFICATION_RECEIPTS", ReceiptsPostgres),

		ZoneTemplatesFile: r.str("ZONE_TEMPLATES_FILE", ""),

		AllowNearestZoneFallback:        r.bool("ALLOW_NEAREST_ZONE_FALLBACK", false),
		RebalanceOverloadThreshold:      r.float("REBALANCE_OVERLOAD_THRESHOLD", 25),
		RebalanceUnderutilizedThreshold: r.float("REBALANCE_UNDERUTILIZED_THRESHOLD", 10),
		ExternalCallTimeout:             r.duration("EXTERNAL_CALL_TIMEOUT", 10*time.Second),
		DeliveryWindowStart:             r.str("DELIVERY_WINDOW_START", "09:00"),
		DeliveryWindowEnd:               r.str("DELIVERY_WINDOW_END", "17:00"),

		PlanningCron:  r.str("PLANNING_CRON", ""),
		GeocodingCron: r.str("GEOCODING_CRON", ""),

		LogLevel:  r.str("LOG_LEVEL", "info"),
		LogFormat: r.str("LOG_FORMAT", "text"),
	}
	if r.err != nil {
		return Config{}, r.err
	}
	if config.NotificationReceipts != ReceiptsPostgres && config.NotificationReceipts != ReceiptsMemory {
		return Config{}, fmt.Errorf("invalid NOTIFICATION_RECEIPTS: %q", config.NotificationReceipts)
	}
	return config, nil
}

// envReader keeps the first parse error so LoadConfig can report it once.
type envReader struct {
	err error
}

func (r *envReader) str(key string, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func (r *envReader) float(key string, fallback float64) float64 {
	v := r.str(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(key, err)
		return fallback
	}
	return f
}

func (r *envReader) bool(key string, fallback bool) bool {
	v := r.str(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, err)
		return fallback
	}
	return b
}

func (r *envReader) duration(key string, fallback time.Duration) time.Duration {
	v := r.str(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, err)
		return fallback
	}
	return d
}

func (r *envReader) fail(key string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("invalid %s: %w", key, err)
	}
}
