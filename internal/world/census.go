package world

import (
	"time"

	"go.uber.org/zap"

	"github.com/arborlabs/arbor/internal/core/scene"
)

// Census keeps per-zone population counts. It recounts in the late phase so
// the numbers reflect the frame after all spawning and reaping settled.
type Census struct {
	counts map[string]int
	total  int
	node   *scene.Node
	log    *zap.Logger
}

func NewCensus(log *zap.Logger) *Census {
	return &Census{counts: make(map[string]int), log: log}
}

func (c *Census) bind(n *scene.Node) error {
	c.node = n
	return nil
}

// Population returns the live actor count of one zone.
func (c *Census) Population(zone string) int { return c.counts[zone] }

// Total returns the live actor count of the whole world.
func (c *Census) Total() int { return c.total }

func (c *Census) LateUpdate(time.Duration) {
	clear(c.counts)
	c.total = 0
	scene.EachChildWith(c.node, func(zn *scene.Node, z *Zone) {
		pop := 0
		scene.EachChildWith(zn, func(*scene.Node, *Identity) {
			pop++
		})
		c.counts[z.Name()] = pop
		c.total += pop
	})
}

func (c *Census) EventHandlers() []scene.Handler {
	return []scene.Handler{
		scene.On1(KindDawn, func(clk *WorldClock) error {
			c.log.Info("census",
				zap.Int("day", clk.Day()),
				zap.Int("population", c.total),
				zap.Any("zones", c.counts))
			return nil
		}),
	}
}
