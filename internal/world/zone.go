package world

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/arborlabs/arbor/internal/core/scene"
	"github.com/arborlabs/arbor/internal/data"
)

// hazardPeriod is how often a zone rolls ambient damage against its actors.
const hazardPeriod = time.Second

// nightHazardFactor scales zone hazard between dusk and dawn.
const nightHazardFactor = 2.0

// Zone is the shared habitat service of one region node. It owns the only
// randomness source of the region, so a fixed seed replays identically.
type Zone struct {
	name    string
	terrain string
	width   float64
	height  float64
	hazard  float64
	base    float64
	slain   int
	acc     time.Duration

	rng  *rand.Rand
	node *scene.Node
	log  *zap.Logger
}

func NewZone(tpl data.ZoneTemplate, seed int64, log *zap.Logger) *Zone {
	return &Zone{
		name:    tpl.Name,
		terrain: tpl.Terrain,
		width:   tpl.Width,
		height:  tpl.Height,
		hazard:  tpl.Hazard,
		base:    tpl.Hazard,
		rng:     rand.New(rand.NewSource(seed)),
		log:     log,
	}
}

func (z *Zone) bind(n *scene.Node) error {
	z.node = n
	return nil
}

func (z *Zone) Name() string    { return z.name }
func (z *Zone) Terrain() string { return z.terrain }
func (z *Zone) Width() float64  { return z.width }
func (z *Zone) Height() float64 { return z.height }
func (z *Zone) Hazard() float64 { return z.hazard }
func (z *Zone) Slain() int      { return z.slain }

// Roll draws from the zone's random stream. Spawners share it so that all
// randomness of a region flows from one seed.
func (z *Zone) Roll() float64 {
	return z.rng.Float64()
}

// FixedUpdate rolls ambient hazard against every actor in the zone once per
// hazard period. Bitten actors are spooked so their next decision comes
// immediately.
func (z *Zone) FixedUpdate(dt time.Duration) {
	z.acc += dt
	for z.acc >= hazardPeriod {
		z.acc -= hazardPeriod
		z.bite()
	}
}

func (z *Zone) bite() {
	scene.EachChildWith(z.node, func(child *scene.Node, v *Vitals) {
		if v.Depleted() || z.rng.Float64() >= z.hazard {
			return
		}
		amount := int32(5 + z.rng.Intn(10))
		left := v.Damage(amount)
		z.log.Debug("hazard strike",
			zap.String("actor", child.Name()),
			zap.Int32("damage", amount),
			zap.Int32("left", left))
		if brain, err := scene.FindService[*Brain](child); err == nil {
			brain.Spook()
		}
	})
}

func (z *Zone) EventHandlers() []scene.Handler {
	return []scene.Handler{
		scene.On(KindActorSlain, func() error {
			z.slain++
			return nil
		}),
		scene.On1(KindDusk, func(clk *WorldClock) error {
			z.hazard = z.base * nightHazardFactor
			z.log.Info("night hazard",
				zap.String("zone", z.name),
				zap.Int("day", clk.Day()),
				zap.Float64("hazard", z.hazard))
			return nil
		}),
		scene.On1(KindDawn, func(clk *WorldClock) error {
			z.hazard = z.base
			z.log.Info("day hazard",
				zap.String("zone", z.name),
				zap.Int("day", clk.Day()),
				zap.Float64("hazard", z.hazard))
			return nil
		}),
	}
}
