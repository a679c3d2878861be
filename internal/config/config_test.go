package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestUnmarshalDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Unmarshal(v)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Server.Port != "8080" {
		t.Fatalf("unexpected defaults: driver=%s port=%s", cfg.Database.Driver, cfg.Server.Port)
	}
	if cfg.Affiliate.Currency != "USD" || !cfg.Affiliate.AdminRBACEnabled {
		t.Fatalf("unexpected affiliate defaults: %+v", cfg.Affiliate)
	}
	if cfg.Payout.Stripe.WebhookToleranceSeconds != 300 {
		t.Fatalf("unexpected stripe tolerance: %d", cfg.Payout.Stripe.WebhookToleranceSeconds)
	}
	if cfg.Queue.Queues["critical"] != 5 {
		t.Fatalf("unexpected queue weights: %+v", cfg.Queue.Queues)
	}
}

func TestUnmarshalNormalizesCurrency(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("affiliate.currency", " eur ")

	cfg, err := Unmarshal(v)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if cfg.Affiliate.Currency != "EUR" {
		t.Fatalf("expected EUR, got %q", cfg.Affiliate.Currency)
	}
}

func TestUnmarshalReadsEnvironment(t *testing.T) {
	t.Setenv("PAYOUT_PAYPAL_CLIENT_ID", "env-client")
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg, err := Unmarshal(v)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if cfg.Payout.Paypal.ClientID != "env-client" {
		t.Fatalf("expected env override, got %q", cfg.Payout.Paypal.ClientID)
	}
}
