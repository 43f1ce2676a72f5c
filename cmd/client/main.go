package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/chewallet/internal/buildinfo"
	"github.com/dmitrijs2005/chewallet/internal/client/cli"
	"github.com/dmitrijs2005/chewallet/internal/client/config"
	"github.com/dmitrijs2005/chewallet/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if s, ok := logger.(interface{ Sync() error }); ok {
		defer s.Sync()
	}

	ctx := context.Background()
	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
