package config

import (
	"strings"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("OPENAI_TEXT_MODEL", "")
	t.Setenv("OPENAI_RPS", "")
	t.Setenv("RUN_MIGRATIONS", "")
	t.Setenv("PORT", "")

	cfg := LoadConfig()
	if cfg.OpenAI.TextModel != "gpt-4.1-mini" {
		t.Errorf("TextModel = %q", cfg.OpenAI.TextModel)
	}
	if cfg.OpenAI.RequestsPerSecond != 5 {
		t.Errorf("RequestsPerSecond = %v", cfg.OpenAI.RequestsPerSecond)
	}
	if !cfg.RunMigrations {
		t.Error("RunMigrations should default to true")
	}
	if cfg.Port != "3000" {
		t.Errorf("Port = %q", cfg.Port)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("OPENAI_RPS", "0.5")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("R2_PUBLIC_URL", "https://cdn.example.com/")
	t.Setenv("STRIPE_PRICE_PRO", "price_pro")

	cfg := LoadConfig()
	if cfg.OpenAI.RequestsPerSecond != 0.5 {
		t.Errorf("RequestsPerSecond = %v", cfg.OpenAI.RequestsPerSecond)
	}
	if cfg.RunMigrations {
		t.Error("RunMigrations should be false")
	}
	if cfg.R2.PublicURL != "https://cdn.example.com" {
		t.Errorf("PublicURL = %q", cfg.R2.PublicURL)
	}
	if cfg.Stripe.PricePro != "price_pro" {
		t.Errorf("PricePro = %q", cfg.Stripe.PricePro)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{SecretKey: "s"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, key := range []string{"POSTGRES_URI", "OPENAI_API_KEY"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not mention %s", err, key)
		}
	}
	if strings.Contains(err.Error(), "SECRET_KEY") {
		t.Errorf("error %q mentions a key that is set", err)
	}

	cfg = &Config{PostgresURI: "postgres://", SecretKey: "s", OpenAI: OpenAI{APIKey: "k"}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}
