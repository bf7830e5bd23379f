package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"reel/internal/config"
	"reel/internal/daemon"
	"reel/internal/history"
	"reel/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg)
		if err != nil {
			logger.Error("open history store", logging.Error(err))
			log.Fatalf("open history store: %v", err)
		}
	}

	d, err := daemon.New(cfg, store, logger)
	if err != nil {
		log.Fatalf("create daemon: %v", err)
	}
	defer d.Close() //nolint:errcheck

	if err := d.Start(ctx); err != nil {
		log.Fatalf("start daemon: %v", err)
	}

	<-ctx.Done()
	logger.Info("reeld shutting down")
	d.Stop()
}
