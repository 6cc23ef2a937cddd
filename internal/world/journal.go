package world

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arborlabs/arbor/internal/core/scene"
	"github.com/arborlabs/arbor/internal/metric"
)

// Recorder sinks world events for later inspection. persist.JournalRepo
// satisfies it when a database is configured.
type Recorder interface {
	Record(ctx context.Context, kind, origin string, detail map[string]any) error
}

// LogRecorder is the database-less Recorder. Events go to the log and
// nowhere else.
type LogRecorder struct {
	log *zap.Logger
}

func NewLogRecorder(log *zap.Logger) *LogRecorder {
	return &LogRecorder{log: log}
}

func (r *LogRecorder) Record(_ context.Context, kind, origin string, detail map[string]any) error {
	r.log.Info("world event",
		zap.String("kind", kind),
		zap.String("origin", origin),
		zap.Any("detail", detail))
	return nil
}

// recordTimeout bounds one journal write so a slow sink cannot stall a frame
// for long.
const recordTimeout = 2 * time.Second

// Journal fans world events out to the configured sink and counts them.
// It lives on the root so every service below can resolve it.
type Journal struct {
	rec     Recorder
	metrics *metric.Metrics
	node    *scene.Node
	log     *zap.Logger
}

func NewJournal(rec Recorder, metrics *metric.Metrics, log *zap.Logger) *Journal {
	return &Journal{rec: rec, metrics: metrics, log: log}
}

func (j *Journal) bind(n *scene.Node) error {
	j.node = n
	return nil
}

// Note records one event. Sink failures are logged, not propagated; a broken
// journal must not take the world down with it.
func (j *Journal) Note(kind scene.Kind, origin string, detail map[string]any) {
	if j.metrics != nil {
		j.metrics.RecordEvent(string(kind))
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := j.rec.Record(ctx, string(kind), origin, detail); err != nil {
		j.log.Warn("journal write failed",
			zap.String("kind", string(kind)),
			zap.Error(err))
	}
}

func (j *Journal) EventHandlers() []scene.Handler {
	return []scene.Handler{
		scene.On1(KindWorldStart, func(clk *WorldClock) error {
			j.Note(KindWorldStart, j.node.Path(), map[string]any{"day": clk.Day()})
			return nil
		}),
		scene.On1(KindDawn, func(clk *WorldClock) error {
			j.Note(KindDawn, j.node.Path(), map[string]any{"day": clk.Day()})
			return nil
		}),
		scene.On1(KindDusk, func(clk *WorldClock) error {
			j.Note(KindDusk, j.node.Path(), map[string]any{"day": clk.Day()})
			return nil
		}),
	}
}
