package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	"github.com/secmon-lab/vulntrend/pkg/repository"
	"github.com/urfave/cli/v3"
)

// Repository selects where reports are stored
type Repository struct {
	Firestore Firestore
	Valkey    Valkey
}

// Flags returns CLI flags of every repository backend
func (r *Repository) Flags() []cli.Flag {
	return append(r.Firestore.Flags(), r.Valkey.Flags()...)
}

// Configure creates the configured repository; memory when none is configured
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch {
	case r.Firestore.IsConfigured() && r.Valkey.IsConfigured():
		return nil, goerr.New("firestore and valkey are mutually exclusive")
	case r.Firestore.IsConfigured():
		return r.Firestore.Configure(ctx)
	case r.Valkey.IsConfigured():
		return r.Valkey.Configure(ctx)
	default:
		ctxlog.From(ctx).Warn("Using memory database for reports. The data will be removed when shutting down")
		return repository.NewMemory(), nil
	}
}

// IsPersistent tells whether reports outlive the process
func (r *Repository) IsPersistent() bool {
	return r.Firestore.IsConfigured() || r.Valkey.IsConfigured()
}

// LogValue returns structured log value
func (r Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("firestore", r.Firestore),
		slog.Any("valkey", r.Valkey),
	)
}
