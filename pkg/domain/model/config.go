package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
)

// DefaultDataRoot is the data root used when none is configured
const DefaultDataRoot = "raw-data"

// DefaultServices returns the tracked services used when none are configured
func DefaultServices() []types.Service {
	return []types.Service{"account", "payment", "user"}
}

// SourceConfig is the services file layout
type SourceConfig struct {
	Services []types.Service `yaml:"services"`
	DataRoot string          `yaml:"data_root"`
}

// Validate validates the source configuration
func (c *SourceConfig) Validate() error {
	if len(c.Services) == 0 {
		return goerr.New("at least one service is required")
	}
	return ValidateServices(c.Services)
}

// ValidateServices checks every service name and rejects duplicates
func ValidateServices(services []types.Service) error {
	seen := make(map[types.Service]bool)
	for i, svc := range services {
		if err := svc.Validate(); err != nil {
			return goerr.Wrap(err, "invalid service at index", goerr.V("index", i))
		}
		if seen[svc] {
			return goerr.New("duplicate service", goerr.V("service", svc))
		}
		seen[svc] = true
	}
	return nil
}
