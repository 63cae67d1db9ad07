package configs

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBSource            string
	Port                string
	JWTSecret           string
	JWTTTL              time.Duration
	FrontendOrigin      string
	StripeSecretKey     string
	StripeWebhookSecret string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	return &Config{
		DBSource:            getEnv("DB_SOURCE", "marketplace.db"),
		Port:                getEnv("PORT", "8000"),
		JWTSecret:           getEnv("JWT_SECRET", "changeme"),
		JWTTTL:              time.Duration(24) * time.Hour,
		FrontendOrigin:      getEnv("FRONTEND_ORIGIN", "*"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
