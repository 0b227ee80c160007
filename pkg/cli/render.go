package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/cli/config"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
	"github.com/secmon-lab/vulntrend/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdRender() *cli.Command {
	var (
		sourceCfg config.Source
		chartCfg  config.Chart
		repoCfg   config.Repository
		slackCfg  config.Slack
		output    string
		notify    bool
	)

	flags := joinFlags(
		sourceCfg.Flags(),
		chartCfg.Flags(true),
		repoCfg.Flags(),
		slackCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Output file, - for stdout",
				Value:       "-",
				Sources:     cli.EnvVars("VULNTREND_OUTPUT"),
				Destination: &output,
			},
			&cli.BoolFlag{
				Name:        "notify",
				Usage:       "Post the report to Slack",
				Category:    "Slack",
				Sources:     cli.EnvVars("VULNTREND_NOTIFY"),
				Destination: &notify,
			},
		},
	)

	return &cli.Command{
		Name:  "render",
		Usage: "Aggregate the snapshots once and write the chart",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)
			logger.Debug("Render configuration",
				slog.Any("source", sourceCfg),
				slog.Any("chart", chartCfg),
				slog.Any("repository", repoCfg),
				slog.Any("slack", slackCfg),
				slog.String("output", output),
				slog.Bool("notify", notify),
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

			renderer, err := chartCfg.Configure(locale)
			if err != nil {
				return err
			}

			if repoCfg.IsPersistent() {
				repo, err := repoCfg.Configure(ctx)
				if err != nil {
					return err
				}
				defer safeClose(ctx, repo)
				opts = append(opts, usecase.WithRepository(repo))
			}

			if notify {
				notifier, err := slackCfg.Configure(locale)
				if err != nil {
					return err
				}
				opts = append(opts, usecase.WithNotifier(notifier))
			}

			dashboard := usecase.NewDashboard(reader, usecase.NewDashboardConfig(opts...))

			var buf bytes.Buffer
			report := dashboard.Run(ctx, renderer, &buf)

			if report.Status.State == types.LoadStateFailed {
				if pageRenderer, ok := renderer.(interfaces.PageRenderer); ok {
					buf.Reset()
					if err := pageRenderer.RenderPage(ctx, &buf, dashboard.Page(report)); err != nil {
						logger.Warn("Failed to render status page", "error", err)
					}
				}
			}

			if buf.Len() > 0 {
				if err := writeOutput(output, buf.Bytes()); err != nil {
					return err
				}
			}

			if err := dashboard.Record(ctx, report); err != nil {
				return err
			}

			if report.Status.State != types.LoadStateSuccess {
				return goerr.New(report.Status.Message, goerr.V("report_id", report.ID))
			}

			logger.Info("Chart written",
				slog.String("output", output),
				slog.String("content_type", renderer.ContentType()),
				slog.String("report_id", report.ID.String()),
			)
			return nil
		},
	}
}

// writeOutput writes data to path, or to stdout for "-"
func writeOutput(path string, data []byte) error {
	if path == "-" || path == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return goerr.Wrap(err, "failed to write output", goerr.V("path", path))
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(err, "failed to create output file", goerr.V("path", path))
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return goerr.Wrap(err, "failed to write output", goerr.V("path", path))
	}
	if err := f.Close(); err != nil {
		return goerr.Wrap(err, "failed to close output file", goerr.V("path", path))
	}
	return nil
}

// closeReader releases readers holding a client, such as GCS
func closeReader(ctx context.Context, reader interfaces.SnapshotReader) {
	if c, ok := reader.(io.Closer); ok {
		safeClose(ctx, c)
	}
}

func safeClose(ctx context.Context, c io.Closer) {
	if err := c.Close(); err != nil {
		ctxlog.From(ctx).Warn("Failed to close", "error", err)
	}
}
