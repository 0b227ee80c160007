package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/cli/config"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

func cmdHistory() *cli.Command {
	var (
		repoCfg config.Repository
		limit   int
	)

	flags := joinFlags(
		repoCfg.Flags(),
		[]cli.Flag{
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "Number of reports to show",
				Value:       20,
				Sources:     cli.EnvVars("VULNTREND_HISTORY_LIMIT"),
				Destination: &limit,
			},
		},
	)

	return &cli.Command{
		Name:  "history",
		Usage: "List stored reports, newest first",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if !repoCfg.IsPersistent() {
				return goerr.New("history needs --firestore-project or --valkey-addr")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer safeClose(ctx, repo)

			reports, err := repo.ListReports(ctx, limit)
			if err != nil {
				return goerr.Wrap(err, "failed to list reports")
			}

			return printReports(os.Stdout, reports)
		},
	}
}

// printReports writes one row per report
func printReports(w io.Writer, reports []*model.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tREFERENCE\tSTATE\tSUMMARY")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.CreatedAt.Local().Format(time.DateTime),
			r.ReferenceDate.Format(time.DateOnly),
			r.Status.State,
			reportSummary(r),
		)
	}
	if err := tw.Flush(); err != nil {
		return goerr.Wrap(err, "failed to write report list")
	}
	return nil
}

func reportSummary(r *model.Report) string {
	if r.Status.State != types.LoadStateSuccess || r.Bundle == nil {
		return r.Status.Message
	}

	present := 0
	for _, p := range r.Bundle.Present {
		if p {
			present++
		}
	}
	periods := make([]string, 0, len(r.Periods))
	for _, p := range r.Periods {
		periods = append(periods, p.Label.String())
	}
	return fmt.Sprintf("%d labels, %d with data (%s)", r.Bundle.Len(), present, strings.Join(periods, ", "))
}
