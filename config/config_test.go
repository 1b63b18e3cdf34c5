package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ServiceName != "messaging-core" {
		t.Errorf("ServiceName = %q", cfg.ServiceName)
	}
	if cfg.MessagePollInterval != 10*time.Second {
		t.Errorf("MessagePollInterval = %v, want 10s", cfg.MessagePollInterval)
	}
	if cfg.ConversationPollInterval != 30*time.Second {
		t.Errorf("ConversationPollInterval = %v, want 30s", cfg.ConversationPollInterval)
	}
	if cfg.SnapshotCacheSize != 64 {
		t.Errorf("SnapshotCacheSize = %d, want 64", cfg.SnapshotCacheSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MESSAGE_POLL_INTERVAL", "3s")
	t.Setenv("BACKEND_BASE_URL", "https://backend.internal/api")
	t.Setenv("ACCESS_TOKEN", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MessagePollInterval != 3*time.Second {
		t.Errorf("MessagePollInterval = %v, want 3s", cfg.MessagePollInterval)
	}
	if cfg.BackendBaseURL != "https://backend.internal/api" {
		t.Errorf("BackendBaseURL = %q", cfg.BackendBaseURL)
	}
	if cfg.AccessToken != "secret" {
		t.Errorf("AccessToken = %q", cfg.AccessToken)
	}
}

func TestLoadRejectsBlankBackendURL(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "   ")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for blank BACKEND_BASE_URL")
	}
}
