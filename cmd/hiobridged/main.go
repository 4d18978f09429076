package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"

	"github.com/openpower/hiobridge/internal/channel"
	"github.com/openpower/hiobridge/internal/config"
	"github.com/openpower/hiobridge/internal/hiomap"
	"github.com/openpower/hiobridge/internal/hiomapd"
	"github.com/openpower/hiobridge/internal/logging"
	"github.com/openpower/hiobridge/internal/server"
)

func main() {
	logging.ConfigureRuntime()

	cfgPath := flag.String("config", "", "path to TOML config file")
	flag.Parse()

	if err := run(*cfgPath); err != nil {
		fmt.Fprintf(os.Stderr, "hiobridged: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus, err := connectBus(cfg.Backend.SessionBus)
	if err != nil {
		return fmt.Errorf("bus connect failed: %w", err)
	}
	defer bus.Close()

	session := hiomap.NewSession()
	backend := hiomapd.NewClient(bus, cfg.Backend.Service)
	dispatcher := hiomap.NewDispatcher(session, backend)

	ch := channel.NewServer(cfg.Channel.Network, cfg.Channel.Addr, dispatcher.Dispatch)
	bridge := hiomap.NewBridge(session, ch)

	notifier := hiomapd.NewNotifier(bus, bridge)
	if err := notifier.Subscribe(); err != nil {
		return fmt.Errorf("signal subscription failed: %w", err)
	}

	errCh := make(chan error, 3)
	go func() {
		errCh <- ch.Serve(ctx)
	}()
	go func() {
		errCh <- notifier.Run(ctx)
	}()
	if cfg.Admin.Addr != "" {
		admin := server.New(cfg.Admin.Addr, cfg.Admin.CorsOrigins, session)
		go func() {
			errCh <- admin.Serve(ctx)
		}()
	}

	log.Info().
		Str("channel", cfg.Channel.Addr).
		Str("admin", cfg.Admin.Addr).
		Msg("hiobridged ready")

	select {
	case <-ctx.Done():
		log.Info().Msg("hiobridged shutdown")
		return nil
	case err := <-errCh:
		return err
	}
}

func connectBus(session bool) (*dbus.Conn, error) {
	if session {
		return dbus.ConnectSessionBus()
	}
	return dbus.ConnectSystemBus()
}
