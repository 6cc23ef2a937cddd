package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Command ops a brain may return.
const (
	OpMove = "move"
	OpRest = "rest"
)

// Command is one action requested by a Lua brain. DX/DY form a direction
// vector for move commands; the caller scales it by actor speed.
type Command struct {
	Op string
	DX float64
	DY float64
}

// ActorContext is the pre-packed view of one actor handed to a brain.
type ActorContext struct {
	Name        string
	Archetype   string
	X           float64
	Y           float64
	Vitality    int
	MaxVitality int
	Speed       float64
	Spooked     bool

	ZoneName   string
	ZoneWidth  float64
	ZoneHeight float64
	Hazard     float64

	Daylight bool
}

// Engine wraps a single gopher-lua VM for brain decisions.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// HasBrain reports whether a global brain function with this name is loaded.
func (e *Engine) HasBrain(name string) bool {
	return e.vm.GetGlobal(name) != lua.LNil
}

// Decide calls the named Lua brain function with the actor context and
// decodes the returned command list. A missing brain, a script error, or a
// malformed return all degrade to a single rest command.
func (e *Engine) Decide(brain string, ctx ActorContext) []Command {
	fn := e.vm.GetGlobal(brain)
	if fn == lua.LNil {
		e.log.Warn("lua brain not found", zap.String("brain", brain))
		return []Command{{Op: OpRest}}
	}

	// Build context table
	t := e.vm.NewTable()

	actor := e.vm.NewTable()
	actor.RawSetString("name", lua.LString(ctx.Name))
	actor.RawSetString("archetype", lua.LString(ctx.Archetype))
	actor.RawSetString("x", lua.LNumber(ctx.X))
	actor.RawSetString("y", lua.LNumber(ctx.Y))
	actor.RawSetString("vitality", lua.LNumber(ctx.Vitality))
	actor.RawSetString("max_vitality", lua.LNumber(ctx.MaxVitality))
	actor.RawSetString("speed", lua.LNumber(ctx.Speed))
	actor.RawSetString("spooked", lua.LBool(ctx.Spooked))
	t.RawSetString("actor", actor)

	zone := e.vm.NewTable()
	zone.RawSetString("name", lua.LString(ctx.ZoneName))
	zone.RawSetString("width", lua.LNumber(ctx.ZoneWidth))
	zone.RawSetString("height", lua.LNumber(ctx.ZoneHeight))
	zone.RawSetString("hazard", lua.LNumber(ctx.Hazard))
	t.RawSetString("zone", zone)

	world := e.vm.NewTable()
	world.RawSetString("daylight", lua.LBool(ctx.Daylight))
	t.RawSetString("world", world)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua brain error", zap.String("brain", brain), zap.Error(err))
		return []Command{{Op: OpRest}}
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua brain returned non-table", zap.String("brain", brain))
		return []Command{{Op: OpRest}}
	}

	var cmds []Command
	for i := 1; i <= rt.MaxN(); i++ {
		entry, ok := rt.RawGetInt(i).(*lua.LTable)
		if !ok {
			e.log.Warn("lua brain returned non-table command",
				zap.String("brain", brain), zap.Int("index", i))
			continue
		}
		op := string(lua.LVAsString(entry.RawGetString("op")))
		switch op {
		case OpMove:
			cmds = append(cmds, Command{
				Op: OpMove,
				DX: float64(lua.LVAsNumber(entry.RawGetString("dx"))),
				DY: float64(lua.LVAsNumber(entry.RawGetString("dy"))),
			})
		case OpRest:
			cmds = append(cmds, Command{Op: OpRest})
		default:
			e.log.Warn("lua brain returned unknown op",
				zap.String("brain", brain), zap.String("op", op))
		}
	}
	return cmds
}

func (e *Engine) Close() {
	e.vm.Close()
}
