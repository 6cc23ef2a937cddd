package scene_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborlabs/arbor/internal/core/scene"
)

type fixedCounter struct {
	count int
	last  time.Duration
}

func (f *fixedCounter) FixedUpdate(dt time.Duration) {
	f.count++
	f.last = dt
}

type lateCounter struct {
	count int
}

func (l *lateCounter) LateUpdate(time.Duration) { l.count++ }

type phaseTracer struct {
	id  string
	out *[]string
}

func (p *phaseTracer) Update(time.Duration)     { *p.out = append(*p.out, p.id+":update") }
func (p *phaseTracer) LateUpdate(time.Duration) { *p.out = append(*p.out, p.id+":late") }

func TestPhasesReachOnlySubscribedServices(t *testing.T) {
	up := &counterService{}
	fixed := &fixedCounter{}
	late := &lateCounter{}
	n := scene.New("root", scene.WithServices(up, fixed, late))
	require.NoError(t, n.Install())

	n.Update(16 * time.Millisecond)
	assert.Equal(t, 1, up.updates)
	assert.Equal(t, 0, fixed.count)
	assert.Equal(t, 0, late.count)

	n.FixedUpdate(50 * time.Millisecond)
	n.FixedUpdate(50 * time.Millisecond)
	assert.Equal(t, 2, fixed.count)
	assert.Equal(t, 50*time.Millisecond, fixed.last)
	assert.Equal(t, 1, up.updates)

	n.LateUpdate(16 * time.Millisecond)
	assert.Equal(t, 1, late.count)
}

func TestMultiPhaseServiceRunsInEachSubscribedPhase(t *testing.T) {
	var out []string
	n := scene.New("root", scene.WithServices(
		&phaseTracer{id: "a", out: &out},
		&phaseTracer{id: "b", out: &out},
	))
	require.NoError(t, n.Install())

	n.Update(time.Millisecond)
	n.LateUpdate(time.Millisecond)
	assert.Equal(t, []string{"a:update", "b:update", "a:late", "b:late"}, out,
		"within a phase, services run in installation order")
}

func TestPhasesDoNotRecurseIntoChildren(t *testing.T) {
	childSvc := &counterService{}
	child := scene.New("child", scene.WithServices(childSvc))
	root := scene.New("root", scene.WithChildren(child))
	require.NoError(t, root.Install())

	root.Update(time.Millisecond)
	assert.Equal(t, 0, childSvc.updates,
		"the driver enumerates nodes; entry points stay per-node")
}

func TestPhasesWarnOnUninstalledNode(t *testing.T) {
	log, logs := newObservedLogger(t)
	svc := &counterService{}
	n := scene.New("root", scene.WithLogger(log), scene.WithServices(svc))

	n.Update(time.Millisecond)
	n.FixedUpdate(time.Millisecond)
	n.LateUpdate(time.Millisecond)

	assert.Equal(t, 0, svc.updates)
	assert.Equal(t, 3, logs.FilterMessage("phase skipped, node not installed").Len())
}
