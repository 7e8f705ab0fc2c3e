package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config collects the environment-backed settings the service runs with.
type Config struct {
	Port             string
	CertAPIBaseURL   string
	AssetBaseURL     string
	ResendAPIKey     string
	MailFrom         string
	SiteURL          string
	TemplateCacheTTL time.Duration
	CertCacheTTL     time.Duration
}

// Load reads a .env file when present, then the process environment, with
// defaults suitable for local runs.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:             getenv("PORT", "3000"),
		CertAPIBaseURL:   getenv("CERT_API_BASE_URL", "https://ai.alviongs.com/webhook/v1/nibog"),
		AssetBaseURL:     getenv("ASSET_BASE_URL", "https://www.nibog.in"),
		ResendAPIKey:     os.Getenv("RESEND_API_KEY"),
		MailFrom:         getenv("MAIL_FROM", "NIBOG <tickets@nibog.in>"),
		SiteURL:          getenv("SITE_URL", "www.nibog.in"),
		TemplateCacheTTL: duration("TEMPLATE_CACHE_TTL", 10*time.Minute),
		CertCacheTTL:     duration("CERT_CACHE_TTL", time.Minute),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
