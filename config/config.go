package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Port      string `env:"PORT" envDefault:"8000"`
	JWTSecret string `env:"JWT_SECRET" envDefault:"solid_secret_key"`

	DatabaseURL string `env:"DATABASE_URL,required"`
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	// wall-clock timezone of the clinic; "today/past slot" checks and
	// reminder windows are evaluated in it
	ClinicTimezone string `env:"CLINIC_TIMEZONE" envDefault:"Asia/Kolkata"`

	SlotCacheTTL time.Duration `env:"SLOT_CACHE_TTL" envDefault:"30s"`

	SMTPHost  string `env:"SMTP_HOST"`
	SMTPPort  int    `env:"SMTP_PORT" envDefault:"587"`
	EmailUser string `env:"EMAIL_USER"`
	EmailPass string `env:"EMAIL_PASS"`

	WhatsAppAPIURL  string `env:"WHATSAPP_API_URL"`
	WhatsAppToken   string `env:"WHATSAPP_TOKEN"`
	WhatsAppPhoneID string `env:"WHATSAPP_PHONE_ID"`

	MeetProvisionerURL string `env:"MEET_PROVISIONER_URL"`
	MeetProvisionerKey string `env:"MEET_PROVISIONER_KEY"`
}

// Load reads .env when present and parses the environment into Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves the clinic timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ClinicTimezone)
	if err != nil {
		log.Printf("Warning: unknown timezone %q, falling back to UTC", c.ClinicTimezone)
		return time.UTC
	}
	return loc
}
