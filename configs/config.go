package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConfig struct {
	Port        string
	Env         string
	DatabaseURL string

	JWTSecret     string
	AdminEmail    string
	AdminPassword string
	AdminFullName string

	BrevoAPIKey     string
	EmailSender     string
	EmailSenderName string

	CloudinaryURL string
	SentryDSN     string

	RateLimitPerMinute int
	RateLimitBurst     int

	SeedCatalog    bool
	TierExpiryCron string
	PhoneRegion    string
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env (when present) and the process environment into AppConfig.
func Load() *AppConfig {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("ADMIN_FULL_NAME", "Administrator")
	v.SetDefault("EMAIL_SENDER_NAME", "Refer & Earn")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 30)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("SEED_CATALOG", false)
	v.SetDefault("TIER_EXPIRY_CRON", "0 * * * *")
	v.SetDefault("PHONE_REGION", "IN")

	return &AppConfig{
		Port:               v.GetString("PORT"),
		Env:                v.GetString("APP_ENV"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		AdminEmail:         v.GetString("ADMIN_EMAIL"),
		AdminPassword:      v.GetString("ADMIN_PASSWORD"),
		AdminFullName:      v.GetString("ADMIN_FULL_NAME"),
		BrevoAPIKey:        v.GetString("BREVO_API_KEY"),
		EmailSender:        v.GetString("EMAIL_SENDER"),
		EmailSenderName:    v.GetString("EMAIL_SENDER_NAME"),
		CloudinaryURL:      v.GetString("CLOUDINARY_URL"),
		SentryDSN:          v.GetString("SENTRY_DSN"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		RateLimitBurst:     v.GetInt("RATE_LIMIT_BURST"),
		SeedCatalog:        v.GetBool("SEED_CATALOG"),
		TierExpiryCron:     v.GetString("TIER_EXPIRY_CRON"),
		PhoneRegion:        v.GetString("PHONE_REGION"),
	}
}
