package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmptyPathYieldsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Channel.Network != "unix" {
		t.Fatalf("network %q", cfg.Channel.Network)
	}
	if cfg.Channel.Addr != "/run/hiobridge/channel.sock" {
		t.Fatalf("addr %q", cfg.Channel.Addr)
	}
	if cfg.Admin.Addr != "" {
		t.Fatalf("admin enabled by default: %q", cfg.Admin.Addr)
	}
	if cfg.Backend.Service != "" || cfg.Backend.SessionBus {
		t.Fatalf("backend defaults %+v", cfg.Backend)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hiobridge.toml")
	raw := `
[channel]
network = "tcp"
addr = "127.0.0.1:3600"

[admin]
addr = ":9090"
cors_origins = ["http://localhost:3000"]

[backend]
service = "test.Hiomapd"
session_bus = true
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Channel.Network != "tcp" || cfg.Channel.Addr != "127.0.0.1:3600" {
		t.Fatalf("channel %+v", cfg.Channel)
	}
	if cfg.Admin.Addr != ":9090" || len(cfg.Admin.CorsOrigins) != 1 {
		t.Fatalf("admin %+v", cfg.Admin)
	}
	if cfg.Backend.Service != "test.Hiomapd" || !cfg.Backend.SessionBus {
		t.Fatalf("backend %+v", cfg.Backend)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hiobridge.toml")
	if err := os.WriteFile(path, []byte("[admin]\naddr = \":9090\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Channel.Network != "unix" || cfg.Channel.Addr == "" {
		t.Fatalf("channel defaults lost: %+v", cfg.Channel)
	}
	if cfg.Admin.Addr != ":9090" {
		t.Fatalf("admin %+v", cfg.Admin)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hiobridge.toml")
	if err := os.WriteFile(path, []byte("channel = {"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}

	cfg.Channel.Network = "udp"
	if err := Validate(cfg); !errors.Is(err, ErrInvalidChannelNetwork) {
		t.Fatalf("expected ErrInvalidChannelNetwork, got %v", err)
	}

	cfg = Default()
	cfg.Channel.Addr = "  "
	if err := Validate(cfg); !errors.Is(err, ErrMissingChannelAddr) {
		t.Fatalf("expected ErrMissingChannelAddr, got %v", err)
	}
}
