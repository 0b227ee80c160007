package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	"github.com/secmon-lab/vulntrend/pkg/repository"
	"github.com/urfave/cli/v3"
)

// Valkey holds Valkey configuration
type Valkey struct {
	Addr string
}

// Flags returns CLI flags for Valkey configuration
func (v *Valkey) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "valkey-addr",
			Usage:       "Valkey (Redis compatible) address for report storage, e.g. localhost:6379",
			Category:    "Valkey",
			Sources:     cli.EnvVars("VULNTREND_VALKEY_ADDR"),
			Destination: &v.Addr,
		},
	}
}

// Configure creates the Valkey repository
func (v *Valkey) Configure(ctx context.Context) (interfaces.Repository, error) {
	repo, err := repository.NewValkey(ctx, v.Addr)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to init valkey", goerr.V("addr", v.Addr))
	}
	return repo, nil
}

// IsConfigured checks if Valkey is configured
func (v *Valkey) IsConfigured() bool {
	return v.Addr != ""
}

// LogValue returns structured log value
func (v Valkey) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", v.Addr),
	)
}
