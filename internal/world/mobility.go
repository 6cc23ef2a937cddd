package world

import (
	"math"
	"time"

	"github.com/arborlabs/arbor/internal/core/scene"
)

// Mobility moves an actor along its current heading each frame, clamped to
// the zone bounds. Hitting a wall halts the actor until the next decision.
type Mobility struct {
	x, y       float64
	speed      float64
	dirX, dirY float64 // unit heading, both zero when idle

	node *scene.Node
	zone *Zone
	prox *Proximity
}

func NewMobility(x, y, speed float64) *Mobility {
	return &Mobility{x: x, y: y, speed: speed}
}

func (m *Mobility) bind(n *scene.Node) error {
	zone, err := scene.FindService[*Zone](n)
	if err != nil {
		return err
	}
	prox, err := scene.FindService[*Proximity](n)
	if err != nil {
		return err
	}
	m.node = n
	m.zone = zone
	m.prox = prox
	m.prox.Add(n, m.x, m.y)
	return nil
}

func (m *Mobility) Position() (x, y float64) { return m.x, m.y }
func (m *Mobility) Speed() float64           { return m.speed }
func (m *Mobility) Moving() bool             { return m.dirX != 0 || m.dirY != 0 }

// SetHeading points the actor along the given vector. The vector is
// normalized; a zero vector halts instead.
func (m *Mobility) SetHeading(dx, dy float64) {
	length := math.Hypot(dx, dy)
	if length == 0 {
		m.Halt()
		return
	}
	m.dirX = dx / length
	m.dirY = dy / length
}

func (m *Mobility) Halt() {
	m.dirX, m.dirY = 0, 0
}

func (m *Mobility) Update(dt time.Duration) {
	if !m.Moving() {
		return
	}
	step := m.speed * dt.Seconds()
	nx := m.x + m.dirX*step
	ny := m.y + m.dirY*step

	clamped := false
	if nx < 0 {
		nx, clamped = 0, true
	} else if nx > m.zone.Width() {
		nx, clamped = m.zone.Width(), true
	}
	if ny < 0 {
		ny, clamped = 0, true
	} else if ny > m.zone.Height() {
		ny, clamped = m.zone.Height(), true
	}

	m.prox.Move(m.node, m.x, m.y, nx, ny)
	m.x, m.y = nx, ny
	if clamped {
		m.Halt()
	}
}
