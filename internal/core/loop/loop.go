// Package loop drives a scene tree from a wall-clock ticker. It owns frame
// pacing and phase ordering; the tree's schedule entry points stay per-node.
package loop

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arborlabs/arbor/internal/core/scene"
	"github.com/arborlabs/arbor/internal/metric"
)

// Config sets the frame cadence. TickRate is the target frame interval,
// FixedStep the fixed simulation step, MaxFixedSteps the backlog cap that
// keeps a stalled process from spiraling on catch-up passes.
type Config struct {
	TickRate      time.Duration
	FixedStep     time.Duration
	MaxFixedSteps int
}

// Loop steps a scene tree. All tree access happens on the goroutine calling
// Step or Run.
type Loop struct {
	root    *scene.Node
	tick    time.Duration
	fixed   time.Duration
	maxFix  int
	accum   time.Duration
	frames  uint64
	log     *zap.Logger
	metrics *metric.Metrics
}

// Option configures a Loop.
type Option func(*Loop)

// WithMetrics attaches frame instrumentation.
func WithMetrics(m *metric.Metrics) Option {
	return func(l *Loop) { l.metrics = m }
}

func New(root *scene.Node, cfg Config, log *zap.Logger, opts ...Option) *Loop {
	l := &Loop{
		root:   root,
		tick:   cfg.TickRate,
		fixed:  cfg.FixedStep,
		maxFix: cfg.MaxFixedSteps,
		log:    log,
	}
	if l.tick <= 0 {
		l.tick = 100 * time.Millisecond
	}
	if l.fixed <= 0 {
		l.fixed = 250 * time.Millisecond
	}
	if l.maxFix <= 0 {
		l.maxFix = 4
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Step advances the world one frame: pending fixed-step passes drain first,
// each a full pass over the tree at exactly the fixed step, then every live
// node updates with the frame's elapsed time, then every live node
// late-updates once all updates have finished. Uninstalled subtrees are
// pruned, not warned about; they are simply not live yet.
func (l *Loop) Step(dt time.Duration) {
	start := time.Now()

	l.accum += dt
	if limit := l.fixed * time.Duration(l.maxFix); l.accum > limit {
		l.log.Warn("fixed-step backlog dropped",
			zap.Duration("dropped", l.accum-limit))
		l.accum = limit
	}
	fixedSteps := 0
	for l.accum >= l.fixed {
		l.accum -= l.fixed
		l.eachLive(func(n *scene.Node) { n.FixedUpdate(l.fixed) })
		fixedSteps++
	}

	live := 0
	l.eachLive(func(n *scene.Node) {
		live++
		n.Update(dt)
	})
	l.eachLive(func(n *scene.Node) { n.LateUpdate(dt) })

	l.frames++
	if l.metrics != nil {
		l.metrics.ObserveFrame(time.Since(start), fixedSteps, live)
	}
}

func (l *Loop) eachLive(fn func(*scene.Node)) {
	l.root.Walk(func(n *scene.Node) bool {
		if !n.Installed() {
			return false
		}
		fn(n)
		return true
	})
}

// Frames returns the number of frames stepped so far.
func (l *Loop) Frames() uint64 { return l.frames }

// Run drives Step from a ticker until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()
	l.log.Info("frame loop running",
		zap.Duration("tick", l.tick),
		zap.Duration("fixed_step", l.fixed))

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			l.log.Info("frame loop stopped", zap.Uint64("frames", l.frames))
			return nil
		case now := <-ticker.C:
			l.Step(now.Sub(last))
			last = now
		}
	}
}
