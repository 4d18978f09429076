package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

var (
	ErrInvalidChannelNetwork = errors.New("config: invalid channel network")
	ErrMissingChannelAddr    = errors.New("config: missing channel addr")
)

// Config is the daemon configuration.
type Config struct {
	Channel ChannelConfig `toml:"channel"`
	Admin   AdminConfig   `toml:"admin"`
	Backend BackendConfig `toml:"backend"`
}

// ChannelConfig locates the host command-channel listener.
type ChannelConfig struct {
	Network string `toml:"network"`
	Addr    string `toml:"addr"`
}

// AdminConfig locates the admin HTTP server. An empty addr disables it.
type AdminConfig struct {
	Addr        string   `toml:"addr"`
	CorsOrigins []string `toml:"cors_origins"`
}

// BackendConfig addresses the flash-mapping daemon. Service overrides the
// well-known bus name, which serves test buses; SessionBus switches off the
// system bus for the same reason.
type BackendConfig struct {
	Service    string `toml:"service"`
	SessionBus bool   `toml:"session_bus"`
}

func Default() Config {
	return Config{
		Channel: ChannelConfig{
			Network: "unix",
			Addr:    "/run/hiobridge/channel.sock",
		},
		Admin: AdminConfig{
			Addr: "",
		},
	}
}

// Load reads a TOML config from path, filling defaults for absent fields.
// An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	switch cfg.Channel.Network {
	case "unix", "tcp":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidChannelNetwork, cfg.Channel.Network)
	}
	if strings.TrimSpace(cfg.Channel.Addr) == "" {
		return ErrMissingChannelAddr
	}
	return nil
}
