package world

import (
	"time"

	"go.uber.org/zap"

	"github.com/arborlabs/arbor/internal/core/scene"
)

// WorldClock advances the day cycle and broadcasts dawn and dusk from the
// root. A day is split into equal daylight and night halves; the world comes
// up at dawn of day one.
type WorldClock struct {
	dayLength time.Duration
	elapsed   time.Duration
	day       int
	daylight  bool
	node      *scene.Node
	log       *zap.Logger
}

func NewWorldClock(dayLength time.Duration, log *zap.Logger) *WorldClock {
	return &WorldClock{
		dayLength: dayLength,
		day:       1,
		daylight:  true,
		log:       log,
	}
}

func (c *WorldClock) bind(n *scene.Node) error {
	c.node = n
	return nil
}

func (c *WorldClock) Day() int       { return c.day }
func (c *WorldClock) Daylight() bool { return c.daylight }

// Phase returns "day" or "night" for logs and journal entries.
func (c *WorldClock) Phase() string {
	if c.daylight {
		return "day"
	}
	return "night"
}

func (c *WorldClock) Update(dt time.Duration) {
	c.elapsed += dt
	half := c.dayLength / 2
	for c.elapsed >= half {
		c.elapsed -= half
		if c.daylight {
			c.daylight = false
			c.log.Info("dusk", zap.Int("day", c.day))
			if err := c.node.Call(KindDusk); err != nil {
				c.log.Error("dusk broadcast failed", zap.Error(err))
			}
		} else {
			c.daylight = true
			c.day++
			c.log.Info("dawn", zap.Int("day", c.day))
			if err := c.node.Call(KindDawn); err != nil {
				c.log.Error("dawn broadcast failed", zap.Error(err))
			}
		}
	}
}
