package cli

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/taipeifirst/tellerdesk/backend/internal/audit"
	"github.com/taipeifirst/tellerdesk/backend/internal/handler"
	"github.com/taipeifirst/tellerdesk/backend/internal/model/bank"
	"github.com/taipeifirst/tellerdesk/backend/internal/service/conversation"
	"github.com/taipeifirst/tellerdesk/backend/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var (
		addr           string
		dataFile       string
		allowedOrigins []string
		rateLimit      int
		rateWindow     time.Duration
		maxAttempts    int
		chunkSize      int
		auditLogPath   string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("TELLERDESK_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "data-file",
			Usage:       "YAML file with customer records and content (built-in seed data when empty)",
			Sources:     cli.EnvVars("TELLERDESK_DATA_FILE"),
			Destination: &dataFile,
		},
		&cli.StringSliceFlag{
			Name:        "allowed-origins",
			Usage:       "Origins allowed by CORS",
			Sources:     cli.EnvVars("TELLERDESK_ALLOWED_ORIGINS"),
			Destination: &allowedOrigins,
		},
		&cli.IntFlag{
			Name:        "rate-limit",
			Usage:       "Requests per window per client IP (0 disables)",
			Value:       120,
			Sources:     cli.EnvVars("TELLERDESK_RATE_LIMIT"),
			Destination: &rateLimit,
		},
		&cli.DurationFlag{
			Name:        "rate-window",
			Usage:       "Rate limit window",
			Value:       time.Minute,
			Sources:     cli.EnvVars("TELLERDESK_RATE_WINDOW"),
			Destination: &rateWindow,
		},
		&cli.IntFlag{
			Name:        "max-attempts",
			Usage:       "Verification attempts before a session locks",
			Value:       3,
			Sources:     cli.EnvVars("TELLERDESK_MAX_ATTEMPTS"),
			Destination: &maxAttempts,
		},
		&cli.IntFlag{
			Name:        "chunk-size",
			Usage:       "Streamed reply fragment size in runes",
			Value:       20,
			Sources:     cli.EnvVars("TELLERDESK_CHUNK_SIZE"),
			Destination: &chunkSize,
		},
		&cli.StringFlag{
			Name:        "audit-log",
			Usage:       "Audit log file path (stdout when empty)",
			Sources:     cli.EnvVars("TELLERDESK_AUDIT_LOG"),
			Destination: &auditLogPath,
		},
	}

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			data, err := loadData(dataFile)
			if err != nil {
				return err
			}

			auditWriter, closeAudit, err := openAuditWriter(auditLogPath)
			if err != nil {
				return err
			}
			defer closeAudit()

			recorder := audit.NewLogger(auditWriter)
			customers := bank.NewCustomerStore(data.Customers)
			svc := conversation.NewService(customers, &data.Content, recorder,
				conversation.WithMaxAttempts(maxAttempts))

			router := handler.NewRouter(svc, recorder, handler.Config{
				AllowedOrigins: allowedOrigins,
				RateLimit:      rateLimit,
				RateWindow:     rateWindow,
				ChunkSize:      chunkSize,
			})

			server := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 30 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server",
					"addr", addr, "customers", len(data.Customers))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logging.Default().Info("Shutting down")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}

func loadData(path string) (*bank.Data, error) {
	if path == "" {
		return bank.Seed(), nil
	}
	data, err := bank.LoadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load data file")
	}
	logging.Default().Info("Loaded data file", "path", path, "customers", len(data.Customers))
	return data, nil
}

func openAuditWriter(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to open audit log", goerr.V("path", path))
	}
	return f, func() { _ = f.Close() }, nil
}
