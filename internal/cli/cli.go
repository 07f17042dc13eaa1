// Package cli assembles the command tree and process-level wiring.
package cli

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/taipeifirst/tellerdesk/backend/pkg/utils/logging"
)

// Run executes the command tree with the given arguments.
func Run(ctx context.Context, args []string, version string) error {
	var logLevel string

	app := &cli.Command{
		Name:    "tellerdesk",
		Usage:   "Customer service chat backend for Taipei First Bank",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Log level (debug, info, warn, error)",
				Value:       "info",
				Sources:     cli.EnvVars("TELLERDESK_LOG_LEVEL"),
				Destination: &logLevel,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logging.SetDefault(logging.New(logLevel, os.Stdout))
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdServe(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}
