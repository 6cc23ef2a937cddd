package world

import (
	"math"

	"github.com/arborlabs/arbor/internal/core/scene"
)

// Proximity is a cell-based index of actor positions inside one zone.
// Cell size equals the query radius so a 3x3 neighbourhood of cells fully
// covers it (Chebyshev distance). Accessed only from the game loop
// goroutine; no locks.
type Proximity struct {
	cell  float64
	cells map[cellKey]map[*scene.Node]struct{}
}

type cellKey struct {
	cx int32
	cy int32
}

func NewProximity(radius float64) *Proximity {
	return &Proximity{
		cell:  radius,
		cells: make(map[cellKey]map[*scene.Node]struct{}),
	}
}

func (p *Proximity) key(x, y float64) cellKey {
	return cellKey{
		cx: int32(math.Floor(x / p.cell)),
		cy: int32(math.Floor(y / p.cell)),
	}
}

// Add places a node into the grid.
func (p *Proximity) Add(n *scene.Node, x, y float64) {
	k := p.key(x, y)
	cell := p.cells[k]
	if cell == nil {
		cell = make(map[*scene.Node]struct{})
		p.cells[k] = cell
	}
	cell[n] = struct{}{}
}

// Remove takes a node out of the grid.
func (p *Proximity) Remove(n *scene.Node, x, y float64) {
	k := p.key(x, y)
	cell := p.cells[k]
	if cell != nil {
		delete(cell, n)
		if len(cell) == 0 {
			delete(p.cells, k)
		}
	}
}

// Move updates a node's cell when its position changes.
func (p *Proximity) Move(n *scene.Node, oldX, oldY, newX, newY float64) {
	oldK := p.key(oldX, oldY)
	newK := p.key(newX, newY)
	if oldK == newK {
		return
	}
	p.Remove(n, oldX, oldY)
	p.Add(n, newX, newY)
}

// Nearby returns all nodes in the 3x3 neighbourhood of cells around the
// given position. Caller does fine-grained distance filtering.
func (p *Proximity) Nearby(x, y float64) []*scene.Node {
	center := p.key(x, y)
	var result []*scene.Node
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			k := cellKey{cx: center.cx + dx, cy: center.cy + dy}
			for n := range p.cells[k] {
				result = append(result, n)
			}
		}
	}
	return result
}
