package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Settings là cấu hình đã nạp của ứng dụng
type Settings struct {
	Env  string
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBTimeZone string
	DBLogLevel string
	LogLevel   string
	LogDir     string

	RedisAddr     string
	RedisUser     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	TxTimeout            time.Duration
	OverpaymentTolerance decimal.Decimal
	TaxCacheTTL          time.Duration
	AuditStream          string
	RevenueSnapshotCron  string
	CorsOrigins          []string
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: không load được file .env, sử dụng biến môi trường có sẵn: %v", err)
	}
}

// Load đọc .env, configs/config.yaml (nếu có) rồi biến môi trường; env wins.
func Load() *Settings {
	LoadEnv()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")
	v.AutomaticEnv()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8083")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "frontoffice")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("TX_TIMEOUT", "5s")
	v.SetDefault("OVERPAYMENT_TOLERANCE", "0")
	v.SetDefault("TAX_CACHE_TTL", "5m")
	v.SetDefault("AUDIT_STREAM", "frontoffice:audit")
	v.SetDefault("REVENUE_SNAPSHOT_CRON", "0 1 * * *")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	tolerance, err := decimal.NewFromString(v.GetString("OVERPAYMENT_TOLERANCE"))
	if err != nil || tolerance.IsNegative() {
		log.Printf("[Config] invalid OVERPAYMENT_TOLERANCE %q, using 0", v.GetString("OVERPAYMENT_TOLERANCE"))
		tolerance = decimal.Zero
	}

	s := &Settings{
		Env:                  v.GetString("ENV"),
		Port:                 v.GetString("PORT"),
		DBHost:               v.GetString("DB_HOST"),
		DBPort:               v.GetString("DB_PORT"),
		DBUser:               v.GetString("DB_USER"),
		DBPassword:           v.GetString("DB_PASSWORD"),
		DBName:               v.GetString("DB_NAME"),
		DBSSLMode:            v.GetString("DB_SSLMODE"),
		DBTimeZone:           v.GetString("DB_TIMEZONE"),
		DBLogLevel:           v.GetString("DB_LOG_LEVEL"),
		LogLevel:             v.GetString("LOG_LEVEL"),
		LogDir:               v.GetString("LOG_DIR"),
		RedisAddr:            v.GetString("REDIS_ADDR"),
		RedisUser:            v.GetString("REDIS_USER"),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
		RedisDB:              v.GetInt("REDIS_DB"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		TxTimeout:            v.GetDuration("TX_TIMEOUT"),
		OverpaymentTolerance: tolerance,
		TaxCacheTTL:          v.GetDuration("TAX_CACHE_TTL"),
		AuditStream:          v.GetString("AUDIT_STREAM"),
		RevenueSnapshotCron:  v.GetString("REVENUE_SNAPSHOT_CRON"),
		CorsOrigins:          splitList(v.GetString("CORS_ORIGINS")),
	}
	if s.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	return s
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
