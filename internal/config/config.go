package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvProduction = "production"

type DB struct {
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
	PublicURL  string
}

type Config struct {
	ServerPort           int
	AppEnv               string
	LogLevel             string
	DB                   DB
	MinIO                MinIO
	MigrationsPath       string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
	MaxAvatarSize        int64
	CORSOrigin           string
	ShutdownTimeout      time.Duration
}

// IsProduction reports whether cookies must be issued for cross-site HTTPS use.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, EnvProduction)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", 3000)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "travelers")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("MIGRATIONS_PATH", "migrations/001_create_tables.sql")

	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_BUCKET_NAME", "avatars")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MINIO_REGION", "us-east-1")
	v.SetDefault("MINIO_PUBLIC_URL", "http://localhost:9000")

	v.SetDefault("ACCESS_TOKEN_DURATION", "15m")
	v.SetDefault("REFRESH_TOKEN_DURATION", "24h")
	v.SetDefault("MAX_AVATAR_SIZE", 500*1024)
	v.SetDefault("CORS_ORIGIN", "http://localhost:3000")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
}

func durationOr(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d := v.GetDuration(key)
	if d <= 0 {
		return fallback
	}
	return d
}

func LoadDB(v *viper.Viper) DB {
	return DB{
		DbHOST:     v.GetString("DB_HOST"),
		DbPORT:     v.GetString("DB_PORT"),
		DbUSER:     v.GetString("DB_USER"),
		DbPASSWORD: v.GetString("DB_PASSWORD"),
		DbNAME:     v.GetString("DB_NAME"),
		DbSSLMODE:  v.GetString("DB_SSLMODE"),
	}
}

func LoadMinIO(v *viper.Viper) MinIO {
	return MinIO{
		Endpoint:   v.GetString("MINIO_ENDPOINT"),
		AccessKey:  v.GetString("MINIO_ACCESS_KEY"),
		SecretKey:  v.GetString("MINIO_SECRET_KEY"),
		BucketName: v.GetString("MINIO_BUCKET_NAME"),
		UseSSL:     v.GetBool("MINIO_USE_SSL"),
		Region:     v.GetString("MINIO_REGION"),
		PublicURL:  strings.TrimSuffix(v.GetString("MINIO_PUBLIC_URL"), "/"),
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return v
}

// FromViper builds the config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	maxAvatar := v.GetInt64("MAX_AVATAR_SIZE")
	if maxAvatar <= 0 {
		maxAvatar = 500 * 1024
	}

	return &Config{
		ServerPort:           v.GetInt("SERVER_PORT"),
		AppEnv:               v.GetString("APP_ENV"),
		LogLevel:             v.GetString("LOG_LEVEL"),
		DB:                   LoadDB(v),
		MinIO:                LoadMinIO(v),
		MigrationsPath:       v.GetString("MIGRATIONS_PATH"),
		AccessTokenDuration:  durationOr(v, "ACCESS_TOKEN_DURATION", 15*time.Minute),
		RefreshTokenDuration: durationOr(v, "REFRESH_TOKEN_DURATION", 24*time.Hour),
		MaxAvatarSize:        maxAvatar,
		CORSOrigin:           v.GetString("CORS_ORIGIN"),
		ShutdownTimeout:      durationOr(v, "SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}
