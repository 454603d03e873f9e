package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Catalog storage: "mongo" or "firestore".
	DataBackend     string        `mapstructure:"DATA_BACKEND"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	DatabaseName    string        `mapstructure:"DATABASE_NAME"`
	DatabaseTimeout time.Duration `mapstructure:"DATABASE_TIMEOUT"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisOTPDB    int    `mapstructure:"REDIS_OTP_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Firebase. Without a credentials file accounts are derived locally.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	TokenTTL  time.Duration `mapstructure:"TOKEN_TTL"`

	// Phone verification.
	CountryPrefix    string        `mapstructure:"COUNTRY_PREFIX"`
	OTPTimeout       time.Duration `mapstructure:"OTP_TIMEOUT"`
	OTPCodeTTL       time.Duration `mapstructure:"OTP_CODE_TTL"`
	OTPMaxAttempts   int           `mapstructure:"OTP_MAX_ATTEMPTS"`
	OTPSendsPerHour  int           `mapstructure:"OTP_SENDS_PER_HOUR"`
	TestPhoneNumbers string        `mapstructure:"TEST_PHONE_NUMBERS"`
	ResendSeconds    int           `mapstructure:"RESEND_SECONDS"`

	SessionIdleTTL     time.Duration `mapstructure:"SESSION_IDLE_TTL"`
	BreakerMaxFailures uint32        `mapstructure:"BREAKER_MAX_FAILURES"`
	BreakerOpenTimeout time.Duration `mapstructure:"BREAKER_OPEN_TIMEOUT"`
}

var AppConfig Config

func LoadConfig() {
	// Values from .env never override variables already set in the environment.
	if err := gotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATA_BACKEND", "mongo")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "booknest")
	viper.SetDefault("DATABASE_TIMEOUT", 10*time.Second)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_OTP_DB", 2)
	viper.SetDefault("REDIS_QUEUE_DB", 3)
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	viper.SetDefault("FIREBASE_PROJECT_ID", "")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("TOKEN_TTL", 30*24*time.Hour)
	viper.SetDefault("COUNTRY_PREFIX", "91")
	viper.SetDefault("OTP_TIMEOUT", 60*time.Second)
	viper.SetDefault("OTP_CODE_TTL", 5*time.Minute)
	viper.SetDefault("OTP_MAX_ATTEMPTS", 5)
	viper.SetDefault("OTP_SENDS_PER_HOUR", 5)
	viper.SetDefault("TEST_PHONE_NUMBERS", "")
	viper.SetDefault("RESEND_SECONDS", 60)
	viper.SetDefault("SESSION_IDLE_TTL", 30*time.Minute)
	viper.SetDefault("BREAKER_MAX_FAILURES", 5)
	viper.SetDefault("BREAKER_OPEN_TIMEOUT", 30*time.Second)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if AppConfig.JWTSecret == "" {
		if IsProduction() {
			log.Fatal("JWT_SECRET must be set in production")
		}
		AppConfig.JWTSecret = "booknest-dev-secret"
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// TestNumbers parses TEST_PHONE_NUMBERS, a comma separated list of
// "+<number>:<code>" pairs. Malformed entries are ignored.
func (c Config) TestNumbers() map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(c.TestPhoneNumbers, ",") {
		phone, code, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || phone == "" || code == "" {
			continue
		}
		out[phone] = code
	}
	return out
}
