package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/cli/config"
	controller "github.com/secmon-lab/vulntrend/pkg/controller/http"
	"github.com/secmon-lab/vulntrend/pkg/usecase"
	"github.com/secmon-lab/vulntrend/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		sourceCfg config.Source
		chartCfg  config.Chart
		repoCfg   config.Repository
		slackCfg  config.Slack
	)

	flags := joinFlags(
		serverCfg.Flags(),
		sourceCfg.Flags(),
		chartCfg.Flags(false),
		repoCfg.Flags(),
		slackCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server; every page load runs one aggregation",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting vulntrend server",
				slog.Any("server", serverCfg),
				slog.Any("source", sourceCfg),
				slog.Any("chart", chartCfg),
				slog.Any("repository", repoCfg),
				slog.Any("slack", slackCfg),
			)

			reader, opts, err := sourceCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer closeReader(ctx, reader)
			locale, err := sourceCfg.ParseLocale()
			if err != nil {
				return err
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer safeClose(ctx, repo)
			opts = append(opts, usecase.WithRepository(repo))

			renderers, err := chartCfg.ConfigureServer(locale)
			if err != nil {
				return err
			}

			dashboard := usecase.NewDashboard(reader, usecase.NewDashboardConfig(opts...))

			var serverOpts []controller.Option
			if handler := slackCfg.ConfigureCommand(dashboard, renderers.JSON); handler != nil {
				logger.Info("Slack slash command enabled", slog.String("path", "/hooks/slack/command"))
				serverOpts = append(serverOpts, controller.WithSlackHandler(handler))
			}

			server, err := controller.NewServer(ctx, serverCfg.Addr, dashboard, repo, renderers, serverOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			// Reports of the last requests are still being stored
			if err := async.Wait(shutdownCtx); err != nil {
				logger.Warn("Pending report writes were abandoned", "error", err)
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
