// The reelcutd daemon hosts the scene store, the preview playback bridge,
// and the IPC server the reelcut CLI talks to.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"reelcut/internal/config"
)

func main() {
	configPath := flag.String("config", "", "Configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("reelcutd: %v", err)
	}
}
