package locks_test

import (
	"strings"
	"testing"
	"time"

	"github.com/tendline/tendline/pkg/locks"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := locks.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Enabled {
		t.Error("enabled should default to false")
	}
	if cfg.Addr != "localhost:6379" {
		t.Errorf("addr: got %s, want localhost:6379", cfg.Addr)
	}
	if cfg.KeyPrefix != "tendline:lock:" {
		t.Errorf("key_prefix: got %s", cfg.KeyPrefix)
	}
	if cfg.TTLDuration() != 10*time.Minute {
		t.Errorf("ttl: got %v, want 10m", cfg.TTLDuration())
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	env := &locks.Env{
		Enabled: "TEST_LOCKS_ENABLED",
		Addr:    "TEST_LOCKS_ADDR",
		DB:      "TEST_LOCKS_DB",
		TTL:     "TEST_LOCKS_TTL",
	}

	t.Setenv("TEST_LOCKS_ENABLED", "true")
	t.Setenv("TEST_LOCKS_ADDR", "redis.internal:6380")
	t.Setenv("TEST_LOCKS_DB", "2")
	t.Setenv("TEST_LOCKS_TTL", "30s")

	cfg := locks.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if !cfg.Enabled {
		t.Error("enabled should be overridden to true")
	}
	if cfg.Addr != "redis.internal:6380" {
		t.Errorf("addr: got %s, want redis.internal:6380", cfg.Addr)
	}
	if cfg.DB != 2 {
		t.Errorf("db: got %d, want 2", cfg.DB)
	}
	if cfg.TTLDuration() != 30*time.Second {
		t.Errorf("ttl: got %v, want 30s", cfg.TTLDuration())
	}
}

func TestFinalizeInvalidTTL(t *testing.T) {
	cfg := locks.Config{TTL: "forever"}
	err := cfg.Finalize(nil)
	if err == nil {
		t.Fatal("expected error for invalid ttl")
	}
	if !strings.Contains(err.Error(), "invalid ttl") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMergeOverlay(t *testing.T) {
	base := locks.Config{
		Enabled: true,
		Addr:    "localhost:6379",
		TTL:     "10m",
	}
	overlay := locks.Config{
		Enabled: true,
		Addr:    "redis.staging:6379",
	}

	base.Merge(&overlay)

	if base.Addr != "redis.staging:6379" {
		t.Errorf("addr: got %s, want redis.staging:6379", base.Addr)
	}
	if base.TTL != "10m" {
		t.Errorf("ttl: got %s, want 10m (from base)", base.TTL)
	}
}
