package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string        `mapstructure:"APP_PORT"`
	APIPrefix         string        `mapstructure:"API_PREFIX"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DatabaseName      string        `mapstructure:"DATABASE_NAME"`
	Env               string        `mapstructure:"ENV"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	JWTTTL            time.Duration `mapstructure:"JWT_TTL"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int           `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	VerificationCodeTTL time.Duration `mapstructure:"VERIFICATION_CODE_TTL"`
	ReminderLead        time.Duration `mapstructure:"REMINDER_LEAD"`
	WorkerConcurrency   int           `mapstructure:"WORKER_CONCURRENCY"`

	// Media storage: "cloudinary", "gcs" or "memory".
	MediaBackend        string `mapstructure:"MEDIA_BACKEND"`
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
	GCSBucket           string `mapstructure:"GCS_BUCKET"`
	GCSCredentialsFile  string `mapstructure:"GCS_CREDENTIALS_FILE"`

	// Push notifications are disabled when empty.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	// The master bot is disabled when empty.
	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`
}

var AppConfig Config

func LoadConfig() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("API_PREFIX", "/api")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "slotbook")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_TTL", 24*time.Hour)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("VERIFICATION_CODE_TTL", 10*time.Minute)
	viper.SetDefault("REMINDER_LEAD", time.Hour)
	viper.SetDefault("WORKER_CONCURRENCY", 10)
	viper.SetDefault("MEDIA_BACKEND", "cloudinary")
	viper.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	viper.SetDefault("CLOUDINARY_API_KEY", "")
	viper.SetDefault("CLOUDINARY_API_SECRET", "")
	viper.SetDefault("GCS_BUCKET", "")
	viper.SetDefault("GCS_CREDENTIALS_FILE", "")
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	viper.SetDefault("TELEGRAM_TOKEN", "")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_FROM", "")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
