package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "4000" {
		t.Errorf("Port = %s, want 4000", cfg.Port)
	}
	if cfg.SelectionSeconds != 60 {
		t.Errorf("SelectionSeconds = %d, want 60", cfg.SelectionSeconds)
	}
	if cfg.CallInterval != 5*time.Second {
		t.Errorf("CallInterval = %s, want 5s", cfg.CallInterval)
	}
	if cfg.MinPlayers != 2 || cfg.MaxPlayers != 10 {
		t.Errorf("player bounds = %d..%d, want 2..10", cfg.MinPlayers, cfg.MaxPlayers)
	}
	if cfg.CardsPerPlayer != 2 {
		t.Errorf("CardsPerPlayer = %d, want 2", cfg.CardsPerPlayer)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "5001")
	t.Setenv("SELECTION_SECONDS", "15")
	t.Setenv("CALL_INTERVAL", "2s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "5001" {
		t.Errorf("Port = %s, want 5001", cfg.Port)
	}
	if cfg.SelectionSeconds != 15 {
		t.Errorf("SelectionSeconds = %d, want 15", cfg.SelectionSeconds)
	}
	if cfg.CallInterval != 2*time.Second {
		t.Errorf("CallInterval = %s, want 2s", cfg.CallInterval)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v, want two entries", cfg.AllowedOrigins)
	}
}

func TestSettings(t *testing.T) {
	t.Setenv("SELECTION_SECONDS", "30")
	t.Setenv("ENTRY_PRICE", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := cfg.Settings()
	if s.SelectionSeconds != 30 {
		t.Errorf("Settings.SelectionSeconds = %d, want 30", s.SelectionSeconds)
	}
	if s.EntryPrice != 25 {
		t.Errorf("Settings.EntryPrice = %v, want 25", s.EntryPrice)
	}
}
