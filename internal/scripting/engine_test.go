package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arborlabs/arbor/internal/scripting"
)

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func newEngine(t *testing.T, scripts map[string]string) *scripting.Engine {
	t.Helper()
	dir := t.TempDir()
	for name, body := range scripts {
		writeScript(t, dir, name, body)
	}
	e, err := scripting.NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestDecideMove(t *testing.T) {
	e := newEngine(t, map[string]string{
		"walker.lua": `
function walk_east(ctx)
    return { { op = "move", dx = 1, dy = 0 } }
end
`,
	})

	require.True(t, e.HasBrain("walk_east"))
	cmds := e.Decide("walk_east", scripting.ActorContext{Name: "wolf-1"})
	require.Len(t, cmds, 1)
	assert.Equal(t, scripting.OpMove, cmds[0].Op)
	assert.Equal(t, 1.0, cmds[0].DX)
	assert.Equal(t, 0.0, cmds[0].DY)
}

func TestDecideReadsContext(t *testing.T) {
	e := newEngine(t, map[string]string{
		"cautious.lua": `
function cautious(ctx)
    if ctx.actor.vitality < ctx.actor.max_vitality / 2 then
        return { { op = "rest" } }
    end
    if not ctx.world.daylight then
        return { { op = "rest" } }
    end
    return { { op = "move", dx = ctx.zone.width, dy = 0 } }
end
`,
	})

	hurt := scripting.ActorContext{Vitality: 10, MaxVitality: 100, Daylight: true}
	cmds := e.Decide("cautious", hurt)
	require.Len(t, cmds, 1)
	assert.Equal(t, scripting.OpRest, cmds[0].Op)

	night := scripting.ActorContext{Vitality: 90, MaxVitality: 100, Daylight: false}
	cmds = e.Decide("cautious", night)
	require.Len(t, cmds, 1)
	assert.Equal(t, scripting.OpRest, cmds[0].Op)

	day := scripting.ActorContext{Vitality: 90, MaxVitality: 100, Daylight: true, ZoneWidth: 64}
	cmds = e.Decide("cautious", day)
	require.Len(t, cmds, 1)
	assert.Equal(t, scripting.OpMove, cmds[0].Op)
	assert.Equal(t, 64.0, cmds[0].DX)
}

func TestDecideMultipleCommands(t *testing.T) {
	e := newEngine(t, map[string]string{
		"busy.lua": `
function busy(ctx)
    return {
        { op = "move", dx = 1, dy = 1 },
        { op = "rest" },
    }
end
`,
	})

	cmds := e.Decide("busy", scripting.ActorContext{})
	require.Len(t, cmds, 2)
	assert.Equal(t, scripting.OpMove, cmds[0].Op)
	assert.Equal(t, scripting.OpRest, cmds[1].Op)
}

func TestDecideMissingBrainRests(t *testing.T) {
	e := newEngine(t, nil)

	assert.False(t, e.HasBrain("ghost"))
	cmds := e.Decide("ghost", scripting.ActorContext{})
	require.Len(t, cmds, 1)
	assert.Equal(t, scripting.OpRest, cmds[0].Op)
}

func TestDecideScriptErrorRests(t *testing.T) {
	e := newEngine(t, map[string]string{
		"broken.lua": `
function broken(ctx)
    error("no idea")
end
`,
	})

	cmds := e.Decide("broken", scripting.ActorContext{})
	require.Len(t, cmds, 1)
	assert.Equal(t, scripting.OpRest, cmds[0].Op)
}

func TestDecideSkipsUnknownOps(t *testing.T) {
	e := newEngine(t, map[string]string{
		"odd.lua": `
function odd(ctx)
    return {
        { op = "teleport", dx = 9000 },
        { op = "move", dx = -1, dy = 0 },
    }
end
`,
	})

	cmds := e.Decide("odd", scripting.ActorContext{})
	require.Len(t, cmds, 1)
	assert.Equal(t, scripting.OpMove, cmds[0].Op)
	assert.Equal(t, -1.0, cmds[0].DX)
}

func TestDecideNonTableReturnRests(t *testing.T) {
	e := newEngine(t, map[string]string{
		"numeric.lua": `
function numeric(ctx)
    return 42
end
`,
	})

	cmds := e.Decide("numeric", scripting.ActorContext{})
	require.Len(t, cmds, 1)
	assert.Equal(t, scripting.OpRest, cmds[0].Op)
}

func TestNewEngineRejectsBadScript(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "junk.lua", "function (")

	_, err := scripting.NewEngine(dir, zap.NewNop())
	require.Error(t, err)
}

func TestNewEngineMissingDir(t *testing.T) {
	e, err := scripting.NewEngine(filepath.Join(t.TempDir(), "nope"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(e.Close)
	assert.False(t, e.HasBrain("anything"))
}
