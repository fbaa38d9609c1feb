package repository

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/abelzeko/aquarium-bot/internal/entities"
)

//go:embed catalog.yaml
var catalogYAML []byte

// taskTemplate is a default maintenance task relative to the day a chat first asks for tasks
type taskTemplate struct {
	Title                string             `yaml:"title"`
	Description          string             `yaml:"description"`
	Frequency            entities.Frequency `yaml:"frequency"`
	Priority             entities.Priority  `yaml:"priority"`
	Category             entities.Category  `yaml:"category"`
	EstimatedDuration    int                `yaml:"estimated_duration"`
	LastCompletedDaysAgo int                `yaml:"last_completed_days_ago"`
	NextDueInDays        int                `yaml:"next_due_in_days"`
}

// Catalog is the static reference data the repository is seeded with
type Catalog struct {
	Species  []entities.FishSpecies `yaml:"species"`
	Articles []entities.Article     `yaml:"articles"`
	Tasks    []taskTemplate         `yaml:"tasks"`
}

// LoadCatalog parses a YAML catalogue
func LoadCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	for _, t := range c.Tasks {
		if _, err := entities.ParseFrequency(string(t.Frequency)); err != nil {
			return nil, fmt.Errorf("task %q: %w", t.Title, err)
		}
	}
	return &c, nil
}

// DefaultCatalog returns the catalogue embedded in the binary
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(catalogYAML)
}
