package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ZoneTemplate describes one region of the world.
type ZoneTemplate struct {
	Name    string  `yaml:"name"`
	Terrain string  `yaml:"terrain"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Hazard  float64 `yaml:"hazard"` // chance per second that ambient damage strikes an actor
}

type zoneListFile struct {
	Zones []ZoneTemplate `yaml:"zones"`
}

// ZoneTable holds zone templates indexed by name, preserving file order.
type ZoneTable struct {
	zones map[string]*ZoneTemplate
	order []string
}

// LoadZoneTable loads zone templates from a YAML file.
func LoadZoneTable(path string) (*ZoneTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read zone list: %w", err)
	}
	var f zoneListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse zone list: %w", err)
	}
	t := &ZoneTable{
		zones: make(map[string]*ZoneTemplate, len(f.Zones)),
		order: make([]string, 0, len(f.Zones)),
	}
	for i := range f.Zones {
		z := &f.Zones[i]
		if _, dup := t.zones[z.Name]; dup {
			return nil, fmt.Errorf("parse zone list: duplicate zone %q", z.Name)
		}
		t.zones[z.Name] = z
		t.order = append(t.order, z.Name)
	}
	return t, nil
}

// Get returns a zone template by name, or nil if not found.
func (t *ZoneTable) Get(name string) *ZoneTemplate {
	return t.zones[name]
}

// Names returns the zone names in file order.
func (t *ZoneTable) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Count returns the number of loaded zones.
func (t *ZoneTable) Count() int {
	return len(t.zones)
}
