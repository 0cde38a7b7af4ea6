// Package catalog exposes the static plan and sector definitions shipped
// with the service.
package catalog

import (
	"embed"
	"fmt"
	"sort"

	"github.com/prperemyshlev/connect-service/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed resources/*.yml
var resources embed.FS

// Plan carries the parts of a plan definition used when provisioning a
// subscription
type Plan struct {
	Code  string  `yaml:"-"`
	Price float64 `yaml:"price"`
	Trial struct {
		Days int `yaml:"days"`
	} `yaml:"trial"`
}

type Sector struct {
	Key         string             `yaml:"-" json:"key"`
	Name        string             `yaml:"name" json:"name"`
	Description string             `yaml:"description" json:"description"`
	Terminology domain.Terminology `yaml:"terminology" json:"terminology"`
}

// Catalog holds plan and sector definitions keyed by code
type Catalog struct {
	plans   map[string]Plan
	sectors map[string]Sector
}

// Load parses the embedded plan and sector definitions
func Load() (*Catalog, error) {
	var plans struct {
		Plans map[string]Plan `yaml:"plans"`
	}
	if err := decode("resources/plans.yml", &plans); err != nil {
		return nil, err
	}

	var sectors struct {
		Sectors map[string]Sector `yaml:"sectors"`
	}
	if err := decode("resources/sectors.yml", &sectors); err != nil {
		return nil, err
	}

	return New(plans.Plans, sectors.Sectors), nil
}

// New builds a catalog from explicit definitions
func New(plans map[string]Plan, sectors map[string]Sector) *Catalog {
	c := &Catalog{
		plans:   make(map[string]Plan, len(plans)),
		sectors: make(map[string]Sector, len(sectors)),
	}
	for code, p := range plans {
		p.Code = code
		c.plans[code] = p
	}
	for key, s := range sectors {
		s.Key = key
		c.sectors[key] = s
	}
	return c
}

func decode(name string, out any) error {
	data, err := resources.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// Plan returns the plan definition for code
func (c *Catalog) Plan(code string) (Plan, bool) {
	p, ok := c.plans[code]
	return p, ok
}

// Sector returns the sector definition for key
func (c *Catalog) Sector(key string) (Sector, bool) {
	s, ok := c.sectors[key]
	return s, ok
}

// Sectors lists every sector ordered by key
func (c *Catalog) Sectors() []Sector {
	sectors := make([]Sector, 0, len(c.sectors))
	for _, s := range c.sectors {
		sectors = append(sectors, s)
	}
	sort.Slice(sectors, func(i, j int) bool { return sectors[i].Key < sectors[j].Key })
	return sectors
}

// Terminology returns the vocabulary for key, empty when the sector is unknown
func (c *Catalog) Terminology(key string) domain.Terminology {
	return c.sectors[key].Terminology
}
