package world

import "time"

// Vitals tracks actor health. Regeneration runs on the fixed timestep so
// healing stays deterministic regardless of frame rate.
type Vitals struct {
	current int32
	max     int32
	regen   int32 // per fixed step
}

func NewVitals(max, regen int32) *Vitals {
	return &Vitals{current: max, max: max, regen: regen}
}

func (v *Vitals) Current() int32 { return v.current }
func (v *Vitals) Max() int32     { return v.max }
func (v *Vitals) Depleted() bool { return v.current == 0 }

// Fraction returns current vitality as a 0..1 share of the maximum.
func (v *Vitals) Fraction() float64 {
	if v.max == 0 {
		return 0
	}
	return float64(v.current) / float64(v.max)
}

// Damage reduces vitality, clamping at zero, and returns the remainder.
func (v *Vitals) Damage(amount int32) int32 {
	v.current -= amount
	if v.current < 0 {
		v.current = 0
	}
	return v.current
}

func (v *Vitals) Heal(amount int32) {
	v.current += amount
	if v.current > v.max {
		v.current = v.max
	}
}

func (v *Vitals) FixedUpdate(time.Duration) {
	if v.current > 0 && v.current < v.max {
		v.Heal(v.regen)
	}
}
