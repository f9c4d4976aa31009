// Command boxwise runs the Boxwise inventory API and its maintenance tasks.
//
//	boxwise serve
//	boxwise create-owner <name> <email> <password> [group]
//	boxwise init-db [-reset]
//
// Configuration comes from the environment (and a .env file when present).
//
// @title                       Boxwise Inventory API
// @version                     1.0
// @description                 Multi-tenant household inventory: items, locations, loans and reminders.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/boxwise/inventory/docs"
	"github.com/boxwise/inventory/internal/pkg/config"
	"github.com/boxwise/inventory/pkg/logger"
)

const usage = "Usage: boxwise <serve|create-owner|init-db>"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})

	switch os.Args[1] {
	case "serve":
		err = cmdServe(ctx, cfg)
	case "create-owner":
		err = cmdCreateOwner(ctx, cfg, os.Args[2:])
	case "init-db":
		err = cmdInitDB(ctx, cfg, os.Args[2:])
	default:
		err = fmt.Errorf("unknown command %q\n%s", os.Args[1], usage)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
