package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort    string
	DatabaseDSN   string
	CorsOrigin    string
	CloudinaryUrl string
	KafkaBroker   string
	KafkaTopic    string

	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	TempDir string
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: env file not found or could not be loaded:", err)
		}
	}

	cfg := Config{
		ServerPort:    getenvDefault("SERVER_PORT", ":8000"),
		DatabaseDSN:   os.Getenv("DATABASE_DSN"),
		CorsOrigin:    getenvDefault("CORS_ORIGIN", "*"),
		CloudinaryUrl: os.Getenv("CLOUDINARY_URL"),
		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    os.Getenv("KAFKA_TOPIC"),
		AccessSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		AccessTTL:     getenvDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute),
		RefreshTTL:    getenvDuration("REFRESH_TOKEN_EXPIRY", 10*24*time.Hour),
		TempDir:       getenvDefault("TEMP_DIR", os.TempDir()),
	}

	for k, v := range map[string]string{
		"DATABASE_DSN":         cfg.DatabaseDSN,
		"ACCESS_TOKEN_SECRET":  cfg.AccessSecret,
		"REFRESH_TOKEN_SECRET": cfg.RefreshSecret,
	} {
		if v == "" {
			log.Fatalf("missing required env %s", k)
		}
	}

	return cfg
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvDuration(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid duration for %s (%q), using default %s", k, v, d)
		return d
	}
	return parsed
}
