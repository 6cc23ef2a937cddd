package loop_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arborlabs/arbor/internal/core/loop"
	"github.com/arborlabs/arbor/internal/core/scene"
)

type phaseLog struct {
	id  string
	out *[]string
}

func (p *phaseLog) Update(time.Duration)      { *p.out = append(*p.out, p.id+":update") }
func (p *phaseLog) FixedUpdate(time.Duration) { *p.out = append(*p.out, p.id+":fixed") }
func (p *phaseLog) LateUpdate(time.Duration)  { *p.out = append(*p.out, p.id+":late") }

type fixedProbe struct {
	count int
	dts   []time.Duration
}

func (f *fixedProbe) FixedUpdate(dt time.Duration) {
	f.count++
	f.dts = append(f.dts, dt)
}

func testConfig() loop.Config {
	return loop.Config{
		TickRate:      10 * time.Millisecond,
		FixedStep:     25 * time.Millisecond,
		MaxFixedSteps: 4,
	}
}

func TestStepRunsFixedThenUpdateThenLate(t *testing.T) {
	var out []string
	child := scene.New("child", scene.WithServices(&phaseLog{id: "child", out: &out}))
	root := scene.New("root",
		scene.WithServices(&phaseLog{id: "root", out: &out}),
		scene.WithChildren(child),
	)
	require.NoError(t, root.Install())

	l := loop.New(root, testConfig(), zap.NewNop())
	l.Step(25 * time.Millisecond)

	assert.Equal(t, []string{
		"root:fixed", "child:fixed",
		"root:update", "child:update",
		"root:late", "child:late",
	}, out, "late updates start only after every node has updated")
	assert.Equal(t, uint64(1), l.Frames())
}

func TestStepAccumulatesFixedSteps(t *testing.T) {
	probe := &fixedProbe{}
	root := scene.New("root", scene.WithServices(probe))
	require.NoError(t, root.Install())

	l := loop.New(root, testConfig(), zap.NewNop())

	l.Step(60 * time.Millisecond) // 60ms -> 2 passes, 10ms carried
	assert.Equal(t, 2, probe.count)

	l.Step(15 * time.Millisecond) // 10+15=25ms -> 1 pass, 0 carried
	assert.Equal(t, 3, probe.count)

	l.Step(10 * time.Millisecond) // below the step, nothing runs
	assert.Equal(t, 3, probe.count)

	for _, dt := range probe.dts {
		assert.Equal(t, 25*time.Millisecond, dt, "fixed passes always see the exact step")
	}
}

func TestStepCapsFixedBacklog(t *testing.T) {
	probe := &fixedProbe{}
	root := scene.New("root", scene.WithServices(probe))
	require.NoError(t, root.Install())

	l := loop.New(root, testConfig(), zap.NewNop())
	l.Step(10 * time.Second)
	assert.Equal(t, 4, probe.count, "backlog beyond MaxFixedSteps is dropped")
}

func TestStepPrunesUninstalledRoot(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	probe := &fixedProbe{}
	root := scene.New("root", scene.WithLogger(zap.New(core)), scene.WithServices(probe))

	l := loop.New(root, testConfig(), zap.New(core))
	l.Step(25 * time.Millisecond)

	assert.Zero(t, probe.count)
	assert.Zero(t, logs.Len(), "pruning is silent; the tree is just not live yet")
}

func TestStepSkipsSubtreeLeftUninstalledByFailedInstall(t *testing.T) {
	boom := errors.New("boom")
	var out []string
	a := scene.New("a", scene.WithServices(&phaseLog{id: "a", out: &out}))
	b := scene.New("b", scene.WithConstruct(func(*scene.Node) error { return boom }))
	c := scene.New("c", scene.WithServices(&phaseLog{id: "c", out: &out}))
	root := scene.New("root", scene.WithChildren(a, b, c))
	require.ErrorIs(t, root.Install(), boom)

	l := loop.New(root, testConfig(), zap.NewNop())
	l.Step(5 * time.Millisecond)
	assert.Equal(t, []string{"a:update", "a:late"}, out,
		"nodes never installed stay outside the schedule")
}

func TestStepSeesNodesAttachedMidFrame(t *testing.T) {
	root := scene.New("root")
	require.NoError(t, root.Install())
	l := loop.New(root, testConfig(), zap.NewNop())

	svc := &fixedProbe{}
	child := scene.New("child", scene.WithServices(svc))
	require.NoError(t, root.AddNode(child))

	l.Step(25 * time.Millisecond)
	assert.Equal(t, 1, svc.count, "a live attach is picked up by the next walk")
}

func TestNewAppliesDefaults(t *testing.T) {
	root := scene.New("root")
	require.NoError(t, root.Install())

	l := loop.New(root, loop.Config{}, zap.NewNop())
	l.Step(0)
	assert.Equal(t, uint64(1), l.Frames())
}

func TestRunStopsOnContextCancel(t *testing.T) {
	root := scene.New("root")
	require.NoError(t, root.Install())
	l := loop.New(root, loop.Config{TickRate: time.Millisecond, FixedStep: 2 * time.Millisecond}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop on cancel")
	}
	assert.Greater(t, l.Frames(), uint64(0))
}
