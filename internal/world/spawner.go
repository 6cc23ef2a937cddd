package world

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/arborlabs/arbor/internal/core/scene"
	"github.com/arborlabs/arbor/internal/data"
)

// spookRadius is how far the death of an actor unsettles its neighbours.
const spookRadius = 8.0

// Spawner owns the actor population of one zone: it seeds it at world start,
// reaps depleted actors, and respawns replacements after their delay.
type Spawner struct {
	slots  []spawnSlot
	serial int

	node    *scene.Node
	zone    *Zone
	prox    *Proximity
	journal *Journal
	log     *zap.Logger
}

type spawnSlot struct {
	entry data.SpawnEntry
	tpl   data.ActorTemplate
	alive []*scene.Node
	timer time.Duration
}

func NewSpawner(log *zap.Logger) *Spawner {
	return &Spawner{log: log}
}

// AddEntry registers one spawn entry with its resolved template.
func (s *Spawner) AddEntry(entry data.SpawnEntry, tpl data.ActorTemplate) {
	s.slots = append(s.slots, spawnSlot{entry: entry, tpl: tpl})
}

func (s *Spawner) bind(n *scene.Node) error {
	var err error
	if s.zone, err = scene.FindService[*Zone](n); err != nil {
		return err
	}
	if s.prox, err = scene.FindService[*Proximity](n); err != nil {
		return err
	}
	if s.journal, err = scene.FindService[*Journal](n); err != nil {
		return err
	}
	s.node = n
	return nil
}

// Population returns the number of live actors across all slots.
func (s *Spawner) Population() int {
	total := 0
	for i := range s.slots {
		total += len(s.slots[i].alive)
	}
	return total
}

func (s *Spawner) Update(dt time.Duration) {
	s.reap()
	for i := range s.slots {
		slot := &s.slots[i]
		if len(slot.alive) >= slot.entry.Count {
			continue
		}
		slot.timer -= dt
		if slot.timer > 0 {
			continue
		}
		slot.timer = time.Duration(slot.entry.RespawnDelay) * time.Second
		if err := s.spawn(slot); err != nil {
			s.log.Error("respawn failed", zap.Error(err))
		}
	}
}

// prime fills every slot to capacity at world start.
func (s *Spawner) prime() error {
	for i := range s.slots {
		slot := &s.slots[i]
		for len(slot.alive) < slot.entry.Count {
			if err := s.spawn(slot); err != nil {
				return err
			}
		}
		slot.timer = time.Duration(slot.entry.RespawnDelay) * time.Second
	}
	return nil
}

func (s *Spawner) spawn(slot *spawnSlot) error {
	ax, ay := slot.entry.X, slot.entry.Y
	if ax == 0 && ay == 0 {
		ax, ay = s.zone.Width()/2, s.zone.Height()/2
	}
	x := clampTo(ax+(s.zone.Roll()*2-1)*slot.entry.Jitter, s.zone.Width())
	y := clampTo(ay+(s.zone.Roll()*2-1)*slot.entry.Jitter, s.zone.Height())

	tpl := slot.tpl
	s.serial++
	name := fmt.Sprintf("%s-%d", tpl.Name, s.serial)

	identity := &Identity{
		TemplateID: tpl.ID,
		Name:       name,
		Archetype:  tpl.Archetype,
		Zone:       s.zone.Name(),
	}
	vitals := NewVitals(tpl.MaxVitality, tpl.Regen)
	mobility := NewMobility(x, y, tpl.Speed)
	brain := NewBrain(tpl.Brain)

	actor := scene.New(name,
		scene.WithServices(identity, vitals, mobility, brain),
		scene.WithConstruct(mobility.bind),
		scene.WithConstruct(brain.bind),
	)
	if err := s.node.AddNode(actor); err != nil {
		return fmt.Errorf("spawn %s: %w", name, err)
	}
	slot.alive = append(slot.alive, actor)

	s.journal.Note(KindActorSpawned, actor.Path(), map[string]any{
		"zone":     s.zone.Name(),
		"template": tpl.Name,
	})
	if err := actor.Call(KindActorSpawned); err != nil {
		return fmt.Errorf("spawn %s: %w", name, err)
	}
	s.log.Debug("spawned actor",
		zap.String("actor", name),
		zap.Float64("x", x),
		zap.Float64("y", y))
	return nil
}

func (s *Spawner) reap() {
	for i := range s.slots {
		slot := &s.slots[i]
		kept := slot.alive[:0]
		for _, actor := range slot.alive {
			vitals, err := scene.FindService[*Vitals](actor)
			if err != nil || !vitals.Depleted() {
				kept = append(kept, actor)
				continue
			}
			s.bury(actor)
		}
		slot.alive = kept
	}
}

// bury detaches a depleted actor and tells the zone about it. The subtree is
// dropped as-is; nothing tears the actor's services down.
func (s *Spawner) bury(actor *scene.Node) {
	path := actor.Path()
	x, y := 0.0, 0.0
	if m, err := scene.FindService[*Mobility](actor); err == nil {
		x, y = m.Position()
	}
	s.node.RemoveNode(actor)
	s.prox.Remove(actor, x, y)
	s.spookNear(x, y)

	s.journal.Note(KindActorSlain, path, map[string]any{
		"zone": s.zone.Name(),
	})
	if err := s.node.Call(KindActorSlain); err != nil {
		s.log.Error("slain broadcast failed", zap.Error(err))
	}
	s.log.Info("actor slain", zap.String("actor", path))
}

func (s *Spawner) spookNear(x, y float64) {
	for _, n := range s.prox.Nearby(x, y) {
		m, err := scene.FindService[*Mobility](n)
		if err != nil {
			continue
		}
		nx, ny := m.Position()
		if math.Hypot(nx-x, ny-y) > spookRadius {
			continue
		}
		if brain, err := scene.FindService[*Brain](n); err == nil {
			brain.Spook()
		}
	}
}

func (s *Spawner) EventHandlers() []scene.Handler {
	return []scene.Handler{
		scene.On(KindWorldStart, s.prime),
	}
}

func clampTo(v, limit float64) float64 {
	return math.Max(0, math.Min(v, limit))
}
