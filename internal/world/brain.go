package world

import (
	"time"

	"github.com/arborlabs/arbor/internal/core/scene"
	"github.com/arborlabs/arbor/internal/scripting"
)

// decidePeriod is how often a brain consults its script between spooks.
const decidePeriod = 700 * time.Millisecond

// Brain periodically hands the actor's surroundings to a Lua script and
// steers the actor by the returned commands. A spooked brain decides again
// on the next frame.
type Brain struct {
	script  string
	until   time.Duration
	spooked bool

	engine   *scripting.Engine
	identity *Identity
	vitals   *Vitals
	mobility *Mobility
	zone     *Zone
	clock    *WorldClock
}

func NewBrain(script string) *Brain {
	return &Brain{script: script}
}

func (b *Brain) bind(n *scene.Node) error {
	var err error
	if b.engine, err = scene.FindService[*scripting.Engine](n); err != nil {
		return err
	}
	if b.identity, err = scene.FindService[*Identity](n); err != nil {
		return err
	}
	if b.vitals, err = scene.FindService[*Vitals](n); err != nil {
		return err
	}
	if b.mobility, err = scene.FindService[*Mobility](n); err != nil {
		return err
	}
	if b.zone, err = scene.FindService[*Zone](n); err != nil {
		return err
	}
	if b.clock, err = scene.FindService[*WorldClock](n); err != nil {
		return err
	}
	return nil
}

// Spook forces a fresh decision on the next frame.
func (b *Brain) Spook() {
	b.spooked = true
	b.until = 0
}

func (b *Brain) Spooked() bool { return b.spooked }

func (b *Brain) Update(dt time.Duration) {
	b.until -= dt
	if b.until > 0 {
		return
	}
	b.until = decidePeriod
	b.decide()
}

func (b *Brain) decide() {
	x, y := b.mobility.Position()
	cmds := b.engine.Decide(b.script, scripting.ActorContext{
		Name:        b.identity.Name,
		Archetype:   b.identity.Archetype,
		X:           x,
		Y:           y,
		Vitality:    int(b.vitals.Current()),
		MaxVitality: int(b.vitals.Max()),
		Speed:       b.mobility.Speed(),
		Spooked:     b.spooked,
		ZoneName:    b.zone.Name(),
		ZoneWidth:   b.zone.Width(),
		ZoneHeight:  b.zone.Height(),
		Hazard:      b.zone.Hazard(),
		Daylight:    b.clock.Daylight(),
	})
	b.spooked = false

	for _, cmd := range cmds {
		switch cmd.Op {
		case scripting.OpMove:
			b.mobility.SetHeading(cmd.DX, cmd.DY)
		case scripting.OpRest:
			b.mobility.Halt()
		}
	}
}

func (b *Brain) EventHandlers() []scene.Handler {
	wake := func() error {
		b.until = 0
		return nil
	}
	return []scene.Handler{
		scene.On(KindActorSpawned, wake),
		scene.On(KindDawn, wake),
		scene.On(KindDusk, wake),
	}
}
