package config

import (
	"testing"
	"time"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPListenAddr != ":8080" {
		t.Fatalf("expected default listen addr, got %q", cfg.HTTPListenAddr)
	}
	if cfg.PollInterval != time.Minute {
		t.Fatalf("expected default poll interval of 1m, got %v", cfg.PollInterval)
	}
	if !cfg.RunMQTT || !cfg.RunSubscriber {
		t.Fatal("expected run_mqtt and run_subscriber to default to true")
	}
}

func TestLocation_FallsBackToUTCOnInvalidZone(t *testing.T) {
	cfg := &Config{TimeZone: "Not/AZone"}
	if loc := cfg.Location(); loc != time.UTC {
		t.Fatalf("expected UTC fallback, got %v", loc)
	}
}
