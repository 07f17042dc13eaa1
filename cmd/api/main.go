package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/taipeifirst/tellerdesk/backend/internal/cli"
	"github.com/taipeifirst/tellerdesk/backend/pkg/utils/logging"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		logging.Default().Debug("no .env file loaded", "error", err)
	}

	if err := cli.Run(ctx, os.Args, version); err != nil {
		os.Exit(1)
	}
}
