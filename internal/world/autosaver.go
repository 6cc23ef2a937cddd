package world

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arborlabs/arbor/internal/core/scene"
	"github.com/arborlabs/arbor/internal/metric"
	"github.com/arborlabs/arbor/internal/persist"
)

// flushTimeout bounds one autosave round trip.
const flushTimeout = 5 * time.Second

// AutosaverConfig wires an Autosaver to its repositories.
type AutosaverConfig struct {
	Interval      time.Duration
	Retention     time.Duration // journal entries older than this are pruned
	KeepSnapshots int           // 0 keeps all
	ServerID      int
	Snapshots     *persist.SnapshotRepo
	Journal       *persist.JournalRepo // optional prune target
	Metrics       *metric.Metrics
}

// Autosaver periodically captures the live world into a snapshot and prunes
// expired journal entries.
type Autosaver struct {
	cfg    AutosaverConfig
	until  time.Duration
	frames uint64

	clock *WorldClock
	node  *scene.Node
	log   *zap.Logger
}

func NewAutosaver(cfg AutosaverConfig, log *zap.Logger) *Autosaver {
	return &Autosaver{cfg: cfg, until: cfg.Interval, log: log}
}

func (a *Autosaver) bind(n *scene.Node) error {
	clock, err := scene.FindService[*WorldClock](n)
	if err != nil {
		return err
	}
	a.node = n
	a.clock = clock
	return nil
}

func (a *Autosaver) Update(dt time.Duration) {
	a.frames++
	a.until -= dt
	if a.until > 0 {
		return
	}
	a.until = a.cfg.Interval

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := a.Flush(ctx); err != nil {
		a.log.Error("autosave failed", zap.Error(err))
	}
}

// Flush writes one snapshot now and prunes expired history. The shutdown
// path calls it directly for a final save.
func (a *Autosaver) Flush(ctx context.Context) error {
	start := time.Now()
	rows := CollectActors(a.node)

	id, err := a.cfg.Snapshots.WriteSnapshot(ctx, &persist.Snapshot{
		ServerID: a.cfg.ServerID,
		Frame:    a.frames,
		WorldDay: a.clock.Day(),
		Actors:   rows,
	})
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if a.cfg.Metrics != nil {
		a.cfg.Metrics.RecordSnapshot()
	}

	var pruned int64
	if a.cfg.Journal != nil && a.cfg.Retention > 0 {
		if pruned, err = a.cfg.Journal.PruneBefore(ctx, time.Now().Add(-a.cfg.Retention)); err != nil {
			return fmt.Errorf("prune journal: %w", err)
		}
	}
	if a.cfg.KeepSnapshots > 0 {
		if _, err = a.cfg.Snapshots.Prune(ctx, a.cfg.KeepSnapshots); err != nil {
			return fmt.Errorf("prune snapshots: %w", err)
		}
	}

	a.log.Info("autosave",
		zap.Int64("snapshot", id),
		zap.Int("actors", len(rows)),
		zap.Int64("journal_pruned", pruned),
		zap.Duration("took", time.Since(start)))
	return nil
}

// CollectActors gathers a persistable row for every live actor under root,
// in tree order.
func CollectActors(root *scene.Node) []persist.ActorRow {
	var rows []persist.ActorRow
	scene.EachChildWith(root, func(zn *scene.Node, _ *Zone) {
		scene.EachChildWith(zn, func(an *scene.Node, id *Identity) {
			vitals, err := scene.FindService[*Vitals](an)
			if err != nil {
				return
			}
			mobility, err := scene.FindService[*Mobility](an)
			if err != nil {
				return
			}
			x, y := mobility.Position()
			rows = append(rows, persist.ActorRow{
				NodePath:   an.Path(),
				TemplateID: id.TemplateID,
				Zone:       id.Zone,
				X:          x,
				Y:          y,
				Vitality:   vitals.Current(),
			})
		})
	})
	return rows
}
