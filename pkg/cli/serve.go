package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/commguard/cerberus/pkg/cli/config"
	discordctrl "github.com/commguard/cerberus/pkg/controller/discord"
	httpctrl "github.com/commguard/cerberus/pkg/controller/http"
	"github.com/commguard/cerberus/pkg/usecase"
	"github.com/commguard/cerberus/pkg/utils/async"
	"github.com/commguard/cerberus/pkg/utils/logging"
	"github.com/commguard/cerberus/pkg/utils/safe"
)

func cmdServe() *cli.Command {
	var addr string
	var sentryDSN string
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var discordCfg config.Discord

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Status HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("CERBERUS_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for error reporting (optional)",
			Sources:     cli.EnvVars("CERBERUS_SENTRY_DSN"),
			Destination: &sentryDSN,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, discordCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Connect to the Discord gateway and start the status HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			if sentryDSN != "" {
				if err := sentry.Init(sentry.ClientOptions{
					Dsn:     sentryDSN,
					Release: c.Root().Version,
				}); err != nil {
					return goerr.Wrap(err, "failed to initialize sentry")
				}
				defer sentry.Flush(2 * time.Second)
				logger.Info("Sentry error reporting enabled")
			}

			// Load configuration file and convert to domain configs
			roleCfg, ticketCfg, faqCfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load configuration")
			}

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			// Initialize Discord service
			svc, err := discordCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Discord service")
			}

			uc := usecase.New(repo, svc,
				usecase.WithRoleConfig(roleCfg),
				usecase.WithTicketConfig(ticketCfg),
			)

			handler := discordctrl.New(uc, svc,
				discordctrl.WithFAQ(faqCfg),
				discordctrl.WithGraceDelay(ticketCfg.GraceDelay),
			)
			handler.Register(svc.Session())

			logger.Info("Opening Discord gateway connection", "discord", discordCfg)
			if err := svc.Session().Open(); err != nil {
				return goerr.Wrap(err, "failed to open Discord gateway connection")
			}
			defer safe.Close(ctx, svc.Session())

			// Prime invite snapshots after the gateway settles. Joins
			// arriving before the first snapshot are attributed against
			// an empty baseline, which the attribution logic tolerates.
			guildIDs := discordCfg.GuildIDs()
			settleDelay := discordCfg.SettleDelay()
			async.Dispatch(ctx, func(ctx context.Context) error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(settleDelay):
				}

				var eg errgroup.Group
				for _, guildID := range guildIDs {
					eg.Go(func() error {
						if err := uc.Invite.PrimeSnapshot(ctx, guildID); err != nil {
							return goerr.Wrap(err, "failed to prime invite snapshot", goerr.V("guild_id", guildID))
						}
						logging.From(ctx).Info("Invite snapshot primed", "guild_id", guildID)
						return nil
					})
				}
				return eg.Wait()
			})

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(repo),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting status HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logger.Info("Server shutdown completed")
				return nil
			}
		},
	}
}
