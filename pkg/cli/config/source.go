package config

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
	"github.com/secmon-lab/vulntrend/pkg/service/storage"
	"github.com/secmon-lab/vulntrend/pkg/usecase"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// dateLayout is the format of --date
const dateLayout = "2006-01-02"

// Source holds where snapshots come from and what is aggregated
type Source struct {
	DataRoot      string
	Services      []string
	ServicesFile  string
	Date          string
	Locale        string
	AWSRegion     string
	AzureEndpoint string
}

// Flags returns CLI flags for Source configuration
func (s *Source) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "data-root",
			Usage:       "Snapshot root: directory, file://, http(s)://, s3://bucket/prefix, gs://bucket/prefix or azblob://account/container/prefix (default: raw-data)",
			Category:    "Source",
			Sources:     cli.EnvVars("VULNTREND_DATA_ROOT"),
			Destination: &s.DataRoot,
		},
		&cli.StringSliceFlag{
			Name:        "service",
			Usage:       "Tracked service, repeatable and ordered (default: account, payment, user)",
			Category:    "Source",
			Sources:     cli.EnvVars("VULNTREND_SERVICES"),
			Destination: &s.Services,
		},
		&cli.StringFlag{
			Name:        "services-file",
			Usage:       "YAML file with services and data_root",
			Category:    "Source",
			Sources:     cli.EnvVars("VULNTREND_SERVICES_FILE"),
			Destination: &s.ServicesFile,
		},
		&cli.StringFlag{
			Name:        "date",
			Usage:       "Reference date (YYYY-MM-DD), default is today",
			Category:    "Source",
			Sources:     cli.EnvVars("VULNTREND_DATE"),
			Destination: &s.Date,
		},
		&cli.StringFlag{
			Name:        "locale",
			Usage:       "Chart and status language (zh, en)",
			Category:    "Source",
			Value:       string(model.DefaultLocale),
			Sources:     cli.EnvVars("VULNTREND_LOCALE"),
			Destination: &s.Locale,
		},
		&cli.StringFlag{
			Name:        "aws-region",
			Usage:       "AWS region for s3:// data roots",
			Category:    "Source",
			Sources:     cli.EnvVars("VULNTREND_AWS_REGION"),
			Destination: &s.AWSRegion,
		},
		&cli.StringFlag{
			Name:        "azure-endpoint",
			Usage:       "Blob service endpoint for azblob:// data roots (e.g. Azurite)",
			Category:    "Source",
			Sources:     cli.EnvVars("VULNTREND_AZURE_ENDPOINT"),
			Destination: &s.AzureEndpoint,
		},
	}
}

// LoadSourceFromFile loads the services file
func LoadSourceFromFile(path string) (*model.SourceConfig, error) {
	if path == "" {
		return nil, goerr.New("services file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "services file not found",
				goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read services file",
			goerr.V("path", path))
	}

	var config model.SourceConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse YAML services file",
			goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid services file",
			goerr.V("path", path))
	}

	return &config, nil
}

// Resolve merges flags, the services file and defaults. Flags win over the file.
func (s *Source) Resolve() (*model.SourceConfig, error) {
	resolved := &model.SourceConfig{}

	if s.ServicesFile != "" {
		fromFile, err := LoadSourceFromFile(s.ServicesFile)
		if err != nil {
			return nil, err
		}
		resolved = fromFile
	}

	if len(s.Services) > 0 {
		resolved.Services = make([]types.Service, 0, len(s.Services))
		for _, svc := range s.Services {
			resolved.Services = append(resolved.Services, types.Service(svc))
		}
	}
	if len(resolved.Services) == 0 {
		resolved.Services = model.DefaultServices()
	}

	if s.DataRoot != "" {
		resolved.DataRoot = s.DataRoot
	}
	if resolved.DataRoot == "" {
		resolved.DataRoot = model.DefaultDataRoot
	}

	if err := resolved.Validate(); err != nil {
		return nil, err
	}

	return resolved, nil
}

// ReferenceDate returns the fixed clock of --date, or nil for the wall clock
func (s *Source) ReferenceDate() (func() time.Time, error) {
	if s.Date == "" {
		return nil, nil
	}

	date, err := time.ParseInLocation(dateLayout, s.Date, time.Local)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid reference date", goerr.V("date", s.Date))
	}
	return func() time.Time { return date }, nil
}

// ParseLocale returns the configured locale
func (s *Source) ParseLocale() (model.Locale, error) {
	return model.ParseLocale(s.Locale)
}

// Configure creates the snapshot reader and the dashboard options of this source
func (s *Source) Configure(ctx context.Context) (interfaces.SnapshotReader, []usecase.DashboardOption, error) {
	resolved, err := s.Resolve()
	if err != nil {
		return nil, nil, err
	}

	locale, err := s.ParseLocale()
	if err != nil {
		return nil, nil, err
	}

	clock, err := s.ReferenceDate()
	if err != nil {
		return nil, nil, err
	}

	reader, err := storage.New(ctx, resolved.DataRoot,
		storage.WithAWSRegion(s.AWSRegion),
		storage.WithAzureEndpoint(s.AzureEndpoint),
	)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create snapshot reader", goerr.V("data_root", resolved.DataRoot))
	}

	opts := []usecase.DashboardOption{
		usecase.WithServices(resolved.Services),
		usecase.WithLocale(locale),
	}
	if clock != nil {
		opts = append(opts, usecase.WithClock(clock))
	}

	return reader, opts, nil
}

// LogValue returns structured log value
func (s Source) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("data_root", s.DataRoot),
		slog.Any("services", s.Services),
		slog.String("services_file", s.ServicesFile),
		slog.String("date", s.Date),
		slog.String("locale", s.Locale),
		slog.String("aws_region", s.AWSRegion),
	)
}
