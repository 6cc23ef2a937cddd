package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ActorTemplate holds static data for an actor type loaded from YAML.
type ActorTemplate struct {
	ID          int32   `yaml:"id"`
	Name        string  `yaml:"name"`
	Archetype   string  `yaml:"archetype"` // critter, sentinel, drifter, ...
	MaxVitality int32   `yaml:"max_vitality"`
	Regen       int32   `yaml:"regen"` // vitality per fixed step
	Speed       float64 `yaml:"speed"` // units per second
	Brain       string  `yaml:"brain"` // behavior name passed to the script
}

// SpawnEntry defines which actors populate a zone and how many.
type SpawnEntry struct {
	ActorID      int32   `yaml:"actor_id"`
	Zone         string  `yaml:"zone"`
	Count        int     `yaml:"count"`
	X            float64 `yaml:"x"` // spawn anchor; zone centre when both zero
	Y            float64 `yaml:"y"`
	Jitter       float64 `yaml:"jitter"`        // max random offset around the anchor
	RespawnDelay int     `yaml:"respawn_delay"` // seconds
}

type actorListFile struct {
	Actors []ActorTemplate `yaml:"actors"`
}

type spawnListFile struct {
	Spawns []SpawnEntry `yaml:"spawns"`
}

// ActorTable holds all actor templates indexed by ID.
type ActorTable struct {
	templates map[int32]*ActorTemplate
}

// LoadActorTable loads actor templates from a YAML file.
func LoadActorTable(path string) (*ActorTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read actor list: %w", err)
	}
	var f actorListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse actor list: %w", err)
	}
	t := &ActorTable{templates: make(map[int32]*ActorTemplate, len(f.Actors))}
	for i := range f.Actors {
		a := &f.Actors[i]
		t.templates[a.ID] = a
	}
	return t, nil
}

// Get returns an actor template by ID, or nil if not found.
func (t *ActorTable) Get(id int32) *ActorTemplate {
	return t.templates[id]
}

// Count returns the number of loaded templates.
func (t *ActorTable) Count() int {
	return len(t.templates)
}

// LoadSpawnList loads spawn entries from a YAML file.
func LoadSpawnList(path string) ([]SpawnEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spawn list: %w", err)
	}
	var f spawnListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spawn list: %w", err)
	}
	return f.Spawns, nil
}
