// Package main runs the advisor CRM API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/advisorhq/advisor-crm/internal/app/runtime"
	"github.com/advisorhq/advisor-crm/internal/config"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.Parse()

	// A local .env is optional; missing files are fine.
	_ = godotenv.Load()

	if *configPath == "" {
		*configPath = os.Getenv("CONFIG_PATH")
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "advisor-crm: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := runtime.NewApplication(ctx, cfg)
	if err != nil {
		return err
	}

	if err := app.Run(ctx); err != nil {
		return err
	}

	return app.Shutdown(context.Background())
}
