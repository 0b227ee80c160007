package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/vulntrend/pkg/cli/config"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
	"github.com/secmon-lab/vulntrend/pkg/repository"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestSourceResolve(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var src config.Source
		resolved, err := src.Resolve()
		gt.NoError(t, err).Required()
		gt.Equal(t, resolved.Services, model.DefaultServices())
		gt.Equal(t, resolved.DataRoot, model.DefaultDataRoot)
	})

	t.Run("services file", func(t *testing.T) {
		path := writeFile(t, "services.yaml", "services:\n  - billing\n  - auth\ndata_root: s3://snapshots/raw\n")
		src := config.Source{ServicesFile: path}
		resolved, err := src.Resolve()
		gt.NoError(t, err).Required()
		gt.Equal(t, resolved.Services, []types.Service{"billing", "auth"})
		gt.Equal(t, resolved.DataRoot, "s3://snapshots/raw")
	})

	t.Run("flags win over the file", func(t *testing.T) {
		path := writeFile(t, "services.yaml", "services: [billing]\ndata_root: /srv/data\n")
		src := config.Source{
			ServicesFile: path,
			Services:     []string{"user", "account"},
			DataRoot:     "./local",
		}
		resolved, err := src.Resolve()
		gt.NoError(t, err).Required()
		gt.Equal(t, resolved.Services, []types.Service{"user", "account"})
		gt.Equal(t, resolved.DataRoot, "./local")
	})

	t.Run("duplicate service", func(t *testing.T) {
		src := config.Source{Services: []string{"user", "user"}}
		_, err := src.Resolve()
		gt.Error(t, err)
	})

	t.Run("missing services file", func(t *testing.T) {
		src := config.Source{ServicesFile: filepath.Join(t.TempDir(), "nope.yaml")}
		_, err := src.Resolve()
		gt.Error(t, err)
	})

	t.Run("empty services file", func(t *testing.T) {
		path := writeFile(t, "services.yaml", "data_root: /srv/data\n")
		_, err := config.LoadSourceFromFile(path)
		gt.Error(t, err)
	})

	t.Run("broken YAML", func(t *testing.T) {
		path := writeFile(t, "services.yaml", "services: [billing\n")
		_, err := config.LoadSourceFromFile(path)
		gt.Error(t, err)
	})
}

func TestSourceReferenceDate(t *testing.T) {
	t.Run("unset uses the wall clock", func(t *testing.T) {
		var src config.Source
		clock, err := src.ReferenceDate()
		gt.NoError(t, err)
		gt.True(t, clock == nil)
	})

	t.Run("fixed date", func(t *testing.T) {
		src := config.Source{Date: "2024-03-15"}
		clock, err := src.ReferenceDate()
		gt.NoError(t, err).Required()
		got := clock()
		gt.Equal(t, got.Year(), 2024)
		gt.Equal(t, got.Month(), time.March)
		gt.Equal(t, got.Day(), 15)
	})

	t.Run("invalid date", func(t *testing.T) {
		src := config.Source{Date: "15/03/2024"}
		_, err := src.ReferenceDate()
		gt.Error(t, err)
	})
}

func TestSourceConfigure(t *testing.T) {
	ctx := context.Background()

	t.Run("file data root", func(t *testing.T) {
		dir := t.TempDir()
		gt.NoError(t, os.MkdirAll(filepath.Join(dir, "user"), 0750)).Required()
		gt.NoError(t, os.WriteFile(filepath.Join(dir, "user", "2024-03-31.json"), []byte(`{}`), 0600)).Required()

		src := config.Source{DataRoot: dir, Locale: "en", Date: "2024-03-15"}
		reader, opts, err := src.Configure(ctx)
		gt.NoError(t, err).Required()
		gt.Equal(t, len(opts), 3)

		data, err := reader.Read(ctx, "user/2024-03-31.json")
		gt.NoError(t, err)
		gt.Equal(t, string(data), `{}`)
	})

	t.Run("unsupported locale", func(t *testing.T) {
		src := config.Source{DataRoot: t.TempDir(), Locale: "fr"}
		_, _, err := src.Configure(ctx)
		gt.Error(t, err)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		src := config.Source{DataRoot: "ftp://example.com/data"}
		_, _, err := src.Configure(ctx)
		gt.Error(t, err)
	})
}

func TestChartConfigure(t *testing.T) {
	testCases := []struct {
		name        string
		format      string
		contentType string
		wantErr     bool
	}{
		{name: "png", format: config.FormatPNG, contentType: "image/png"},
		{name: "svg", format: config.FormatSVG, contentType: "image/svg+xml"},
		{name: "html", format: config.FormatHTML, contentType: "text/html; charset=utf-8"},
		{name: "json", format: config.FormatJSON, contentType: "application/json"},
		{name: "unknown", format: "gif", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Chart{Format: tc.format, Width: 800, Height: 400}
			renderer, err := cfg.Configure(model.LocaleZH)
			if tc.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err).Required()
			gt.Equal(t, renderer.ContentType(), tc.contentType)
		})
	}

	t.Run("missing font", func(t *testing.T) {
		cfg := config.Chart{Format: config.FormatPNG, Width: 800, Height: 400, Font: "/no/such/font.ttf"}
		_, err := cfg.Configure(model.LocaleZH)
		gt.Error(t, err)
	})

	t.Run("server renderers", func(t *testing.T) {
		cfg := config.Chart{Width: 800, Height: 400}
		renderers, err := cfg.ConfigureServer(model.LocaleEN)
		gt.NoError(t, err).Required()
		gt.V(t, renderers.Page).NotNil()
		gt.V(t, renderers.JSON).NotNil()
		gt.V(t, renderers.PNG).NotNil()
		gt.V(t, renderers.SVG).NotNil()
	})
}

func TestRepositoryConfigure(t *testing.T) {
	ctx := context.Background()

	t.Run("memory when nothing is configured", func(t *testing.T) {
		var cfg config.Repository
		gt.False(t, cfg.IsPersistent())
		repo, err := cfg.Configure(ctx)
		gt.NoError(t, err).Required()
		_, ok := repo.(*repository.Memory)
		gt.True(t, ok)
	})

	t.Run("firestore and valkey are exclusive", func(t *testing.T) {
		cfg := config.Repository{
			Firestore: config.Firestore{ProjectID: "p", DatabaseID: "d"},
			Valkey:    config.Valkey{Addr: "localhost:6379"},
		}
		gt.True(t, cfg.IsPersistent())
		_, err := cfg.Configure(ctx)
		gt.Error(t, err)
	})
}

func TestSlackConfigure(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		var cfg config.Slack
		gt.False(t, cfg.IsConfigured())
		_, err := cfg.Configure(model.LocaleZH)
		gt.Error(t, err)
	})

	t.Run("configured", func(t *testing.T) {
		cfg := config.Slack{OAuthToken: "xoxb-test", ChannelID: "C012345"}
		gt.True(t, cfg.IsConfigured())
		notifier, err := cfg.Configure(model.LocaleZH)
		gt.NoError(t, err)
		gt.V(t, notifier).NotNil()
	})
}

func TestLoggerConfigure(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := config.Logger{Level: "debug", Format: "json"}
		logger, err := cfg.Configure()
		gt.NoError(t, err)
		gt.V(t, logger).NotNil()
	})

	t.Run("invalid level", func(t *testing.T) {
		cfg := config.Logger{Level: "loud", Format: "json"}
		_, err := cfg.Configure()
		gt.Error(t, err)
	})
}
