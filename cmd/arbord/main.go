package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/arborlabs/arbor/internal/config"
	"github.com/arborlabs/arbor/internal/core/loop"
	"github.com/arborlabs/arbor/internal/core/scene"
	"github.com/arborlabs/arbor/internal/data"
	"github.com/arborlabs/arbor/internal/metric"
	"github.com/arborlabs/arbor/internal/persist"
	"github.com/arborlabs/arbor/internal/scripting"
	"github.com/arborlabs/arbor/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, serverID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             arbord  v0.1.0                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      hierarchical world simulation        \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s \033[90m(id: %d)\033[0m\n\n", serverName, serverID)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/arbor.toml"
	if p := os.Getenv("ARBOR_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID)

	// 3. Metrics registry
	var (
		metrics *metric.Metrics
		promReg *prometheus.Registry
	)
	if cfg.Metrics.Enabled {
		promReg = prometheus.NewRegistry()
		metrics = metric.New(promReg)
	}

	// 4. Optional PostgreSQL: migrations, repositories, journal sink
	bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var (
		recorder world.Recorder
		autosave *world.AutosaverConfig
	)
	if cfg.Database.Enabled {
		printSection("Database")

		db, err := persist.NewDB(bootCtx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		if err := db.Migrate(bootCtx); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("schema migrations applied")

		snapshots := persist.NewSnapshotRepo(db)
		journal := persist.NewJournalRepo(db)
		recorder = journal
		autosave = &world.AutosaverConfig{
			Interval:      cfg.World.AutosaveInterval,
			Retention:     cfg.World.JournalRetention,
			KeepSnapshots: cfg.World.SnapshotKeep,
			ServerID:      cfg.Server.ID,
			Snapshots:     snapshots,
			Journal:       journal,
			Metrics:       metrics,
		}

		if info, err := snapshots.Latest(bootCtx); err != nil {
			return fmt.Errorf("query last snapshot: %w", err)
		} else if info != nil {
			printOK(fmt.Sprintf("last snapshot #%d (day %d, %d actors)",
				info.ID, info.WorldDay, info.ActorCount))
		}
		fmt.Println()
	}

	// 5. Load world data tables in parallel
	printSection("World Data")

	var (
		actors *data.ActorTable
		zones  *data.ZoneTable
		spawns []data.SpawnEntry
	)
	var g errgroup.Group
	g.Go(func() (err error) {
		actors, err = data.LoadActorTable(filepath.Join(cfg.World.DataDir, "actors.yaml"))
		return err
	})
	g.Go(func() (err error) {
		zones, err = data.LoadZoneTable(filepath.Join(cfg.World.DataDir, "zones.yaml"))
		return err
	})
	g.Go(func() (err error) {
		spawns, err = data.LoadSpawnList(filepath.Join(cfg.World.DataDir, "spawns.yaml"))
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load world data: %w", err)
	}
	printStat("Actor templates", actors.Count())
	printStat("Zones", zones.Count())
	printStat("Spawn entries", len(spawns))

	// 6. Lua brains
	engine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()
	printOK("lua engine ready")
	fmt.Println()

	// 7. Assemble and install the world tree
	printSection("World Tree")

	seed := cfg.World.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	root, err := world.Build(world.BuildConfig{
		Log:       log,
		Engine:    engine,
		Actors:    actors,
		Zones:     zones,
		Spawns:    spawns,
		Seed:      seed,
		DayLength: cfg.World.DayLength,
		Recorder:  recorder,
		Metrics:   metrics,
		Autosave:  autosave,
	})
	if err != nil {
		return fmt.Errorf("build world: %w", err)
	}
	if err := root.Install(); err != nil {
		return fmt.Errorf("install world: %w", err)
	}
	printOK("tree installed")

	if err := root.Call(world.KindWorldStart); err != nil {
		return fmt.Errorf("world start: %w", err)
	}
	printStat("Nodes", countNodes(root))
	fmt.Println()

	// 8. Game loop and metrics endpoint under one supervisor
	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loopOpts := []loop.Option{}
	if metrics != nil {
		loopOpts = append(loopOpts, loop.WithMetrics(metrics))
	}
	lp := loop.New(root, loop.Config{
		TickRate:      cfg.Runtime.TickRate,
		FixedStep:     cfg.Runtime.FixedStep,
		MaxFixedSteps: cfg.Runtime.MaxFixedStepsPerFrame,
	}, log, loopOpts...)

	printSection("Server Ready")
	printReady(fmt.Sprintf("game loop running (tick: %s, fixed: %s)",
		cfg.Runtime.TickRate, cfg.Runtime.FixedStep))

	group, groupCtx := errgroup.WithContext(runCtx)
	group.Go(func() error {
		return lp.Run(groupCtx)
	})
	if cfg.Metrics.Enabled {
		srv := metric.NewServer(cfg.Metrics.ListenAddress, promReg, log)
		group.Go(func() error {
			return srv.Run(groupCtx)
		})
		printReady(fmt.Sprintf("metrics on http://%s/metrics", cfg.Metrics.ListenAddress))
	}
	fmt.Println()

	if err := group.Wait(); err != nil {
		return err
	}

	// 9. Final save on the way out
	if saver, err := scene.FindService[*world.Autosaver](root); err == nil {
		flushCtx, cancelFlush := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelFlush()
		if err := saver.Flush(flushCtx); err != nil {
			log.Error("final save failed", zap.Error(err))
		} else {
			log.Info("final snapshot written")
		}
	}

	log.Info("server stopped",
		zap.Uint64("frames", lp.Frames()),
		zap.Int("nodes", countNodes(root)))
	return nil
}

// countNodes walks the whole tree, installed or not.
func countNodes(root *scene.Node) int {
	total := 0
	root.Walk(func(*scene.Node) bool {
		total++
		return true
	})
	return total
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
