// Package fleet holds the built-in fleet catalog and route endpoints.
package fleet

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"aircare/internal/database"
	"aircare/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed fleet.yaml
var seedData []byte

// Catalog is the decoded seed file
type Catalog struct {
	Aircraft []*models.Aircraft `yaml:"aircraft"`
	Airports []models.Airport   `yaml:"airports"`
}

// Load decodes the embedded catalog
func Load() (*Catalog, error) {
	return Parse(seedData)
}

// Parse decodes and validates a catalog document
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse fleet catalog: %w", err)
	}

	seen := make(map[string]bool, len(c.Aircraft))
	for _, ac := range c.Aircraft {
		if ac.ID == "" {
			return nil, fmt.Errorf("fleet catalog: aircraft %q has no id", ac.Name)
		}
		if seen[ac.ID] {
			return nil, fmt.Errorf("fleet catalog: duplicate aircraft id %q", ac.ID)
		}
		seen[ac.ID] = true
		clampTrend(ac.EngineHealth)
		clampTrend(ac.FuelEfficiency)
	}

	codes := make(map[string]bool, len(c.Airports))
	for _, ap := range c.Airports {
		if err := ap.Validate(); err != nil {
			return nil, fmt.Errorf("fleet catalog: %w", err)
		}
		if codes[ap.Code] {
			return nil, fmt.Errorf("fleet catalog: duplicate airport code %q", ap.Code)
		}
		codes[ap.Code] = true
	}
	return &c, nil
}

func clampTrend(samples []models.HealthSample) {
	for i := range samples {
		samples[i] = samples[i].Clamped()
	}
}

// Airport returns the airport with the given code
func (c *Catalog) Airport(code string) (models.Airport, bool) {
	for _, ap := range c.Airports {
		if ap.Code == code {
			return ap, true
		}
	}
	return models.Airport{}, false
}

// Seed inserts the catalog aircraft when the aircraft table is empty
func Seed(ctx context.Context, repo database.AircraftRepository, c *Catalog) error {
	populated, err := repo.IsTablePopulated(ctx)
	if err != nil {
		return err
	}
	if populated {
		slog.Info("Aircraft table already populated, skipping seed")
		return nil
	}

	slog.Info("Seeding aircraft table", "aircraft", len(c.Aircraft))
	if err := repo.Upsert(ctx, c.Aircraft); err != nil {
		return fmt.Errorf("failed to seed fleet: %w", err)
	}
	return nil
}
