package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type OpenAI struct {
	APIKey     string
	TextModel  string
	ImageModel string
	ImageSize  string
	// RequestsPerSecond paces calls to the upstream API. Zero disables pacing.
	RequestsPerSecond float64
}

type Stripe struct {
	SecretKey      string
	WebhookSecret  string
	PricePro       string
	PriceStudioMax string
}

type Config struct {
	Port               string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	PostgresURI        string
	RedisURI           string
	FrontendURL        string
	R2                 R2
	OpenAI             OpenAI
	Stripe             Stripe
	SecretKey          string
	CookieName         string
	RunMigrations      bool
	LogLevel           string
}

func LoadConfig() *Config {
	return &Config{
		Port:               getEnv("PORT", "3000"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:3000/login/callback"),
		PostgresURI:        getEnv("POSTGRES_URI", ""),
		RedisURI:           getEnv("REDIS_URI", "localhost:6379"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  strings.TrimRight(getEnv("R2_PUBLIC_URL", ""), "/"),
		},
		OpenAI: OpenAI{
			APIKey:            getEnv("OPENAI_API_KEY", ""),
			TextModel:         getEnv("OPENAI_TEXT_MODEL", "gpt-4.1-mini"),
			ImageModel:        getEnv("OPENAI_IMAGE_MODEL", "gpt-image-1"),
			ImageSize:         getEnv("OPENAI_IMAGE_SIZE", "1024x1024"),
			RequestsPerSecond: getEnvFloat("OPENAI_RPS", 5),
		},
		Stripe: Stripe{
			SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret:  getEnv("STRIPE_WEBHOOK_SECRET", ""),
			PricePro:       getEnv("STRIPE_PRICE_PRO", ""),
			PriceStudioMax: getEnv("STRIPE_PRICE_STUDIO_MAX", ""),
		},
		SecretKey:     getEnv("SECRET_KEY", ""),
		CookieName:    getEnv("COOKIE_NAME", "flowsocial_session"),
		RunMigrations: getEnvBool("RUN_MIGRATIONS", true),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// Validate reports every required setting that is missing.
func (c *Config) Validate() error {
	required := []struct{ key, value string }{
		{"POSTGRES_URI", c.PostgresURI},
		{"SECRET_KEY", c.SecretKey},
		{"OPENAI_API_KEY", c.OpenAI.APIKey},
	}

	var errs []error
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, errors.New("missing required env var: "+r.key))
		}
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
