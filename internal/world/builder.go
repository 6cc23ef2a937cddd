package world

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arborlabs/arbor/internal/core/scene"
	"github.com/arborlabs/arbor/internal/data"
	"github.com/arborlabs/arbor/internal/metric"
	"github.com/arborlabs/arbor/internal/scripting"
)

// BuildConfig collects everything needed to assemble a world tree.
type BuildConfig struct {
	Log       *zap.Logger
	Engine    *scripting.Engine
	Actors    *data.ActorTable
	Zones     *data.ZoneTable
	Spawns    []data.SpawnEntry
	Seed      int64
	DayLength time.Duration
	Recorder  Recorder         // nil falls back to the log recorder
	Metrics   *metric.Metrics  // optional
	Autosave  *AutosaverConfig // nil disables autosaving
}

// Build assembles the world tree: a root carrying the shared services, one
// node per zone, and a spawner per zone that populates it at world start.
// The returned root is not installed yet.
func Build(cfg BuildConfig) (*scene.Node, error) {
	if cfg.Engine == nil {
		return nil, errors.New("build world: lua engine required")
	}
	if cfg.Zones == nil || cfg.Zones.Count() == 0 {
		return nil, errors.New("build world: no zones loaded")
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.Recorder == nil {
		cfg.Recorder = NewLogRecorder(cfg.Log)
	}
	if cfg.DayLength <= 0 {
		cfg.DayLength = 4 * time.Minute
	}

	spawnsByZone := make(map[string][]data.SpawnEntry)
	for i, entry := range cfg.Spawns {
		tpl := cfg.Actors.Get(entry.ActorID)
		if tpl == nil {
			return nil, fmt.Errorf("build world: spawn entry %d: unknown actor %d", i, entry.ActorID)
		}
		if cfg.Zones.Get(entry.Zone) == nil {
			return nil, fmt.Errorf("build world: spawn entry %d: unknown zone %q", i, entry.Zone)
		}
		if !cfg.Engine.HasBrain(tpl.Brain) {
			cfg.Log.Warn("brain script missing, actors will rest",
				zap.String("brain", tpl.Brain),
				zap.String("actor", tpl.Name))
		}
		spawnsByZone[entry.Zone] = append(spawnsByZone[entry.Zone], entry)
	}

	var zoneNodes []*scene.Node
	for i, name := range cfg.Zones.Names() {
		tpl := cfg.Zones.Get(name)
		zone := NewZone(*tpl, cfg.Seed+int64(i), cfg.Log)
		prox := NewProximity(spookRadius)
		spawner := NewSpawner(cfg.Log)
		for _, entry := range spawnsByZone[name] {
			spawner.AddEntry(entry, *cfg.Actors.Get(entry.ActorID))
		}
		zoneNodes = append(zoneNodes, scene.New(name,
			scene.WithServices(zone, prox, spawner),
			scene.WithConstruct(zone.bind),
			scene.WithConstruct(spawner.bind),
		))
	}

	clock := NewWorldClock(cfg.DayLength, cfg.Log)
	journal := NewJournal(cfg.Recorder, cfg.Metrics, cfg.Log)
	census := NewCensus(cfg.Log)

	services := []any{clock, journal, census, cfg.Engine}
	binds := []func(*scene.Node) error{clock.bind, journal.bind, census.bind}
	if cfg.Autosave != nil && cfg.Autosave.Snapshots != nil {
		saver := NewAutosaver(*cfg.Autosave, cfg.Log)
		services = append(services, saver)
		binds = append(binds, saver.bind)
	}

	opts := []scene.Option{
		scene.WithLogger(cfg.Log),
		scene.WithServices(services...),
	}
	for _, bind := range binds {
		opts = append(opts, scene.WithConstruct(bind))
	}
	opts = append(opts, scene.WithChildren(zoneNodes...))

	return scene.New("world", opts...), nil
}
