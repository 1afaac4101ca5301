package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gd3/engine/internal/config"
	"github.com/gd3/engine/internal/core/event"
	"github.com/gd3/engine/internal/core/frame"
	coresys "github.com/gd3/engine/internal/core/system"
	"github.com/gd3/engine/internal/data"
	"github.com/gd3/engine/internal/game"
	"github.com/gd3/engine/internal/graphics"
	"github.com/gd3/engine/internal/input"
	"github.com/gd3/engine/internal/persist"
	"github.com/gd3/engine/internal/physics"
	"github.com/gd3/engine/internal/prefab"
	"github.com/gd3/engine/internal/render"
	"github.com/gd3/engine/internal/scene"
	"github.com/gd3/engine/internal/scripting"
	"github.com/gd3/engine/internal/system"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

const startHealth = 5

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/engine.toml"
	if p := os.Getenv("GDAPP_CONFIG"); p != "" {
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

	switch cfg.Debug.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()
	ctx, quit := context.WithCancel(sigCtx)
	defer quit()

	// 3. Game data and scripts
	table, err := data.LoadArchetypeTable(cfg.Data.Archetypes)
	if err != nil {
		return fmt.Errorf("archetypes: %w", err)
	}
	level, err := data.LoadLevel(cfg.Data.Level)
	if err != nil {
		return fmt.Errorf("level: %w", err)
	}
	if err := level.Validate(table); err != nil {
		return err
	}
	scripts, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer scripts.Close()
	log.Info("game data loaded",
		zap.Int("archetypes", table.Count()),
		zap.String("level", level.Name),
		zap.Int("spawns", level.Total()),
	)

	// 4. Input and output devices
	var (
		source   input.Source
		device   graphics.Device
		terminal *input.TerminalSource
	)
	width, height := cfg.Screen.Width, cfg.Screen.Height
	switch cfg.Engine.Input {
	case "terminal":
		terminal, err = input.NewTerminalSource(log)
		if err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		source = terminal
		td := render.NewTerminalDevice(terminal.Screen())
		width, height = td.Size()
		device = td
	default:
		source = input.NewScriptedSource()
		device = &render.NullDevice{Width: width, Height: height}
	}
	viewport := graphics.Viewport{Width: width, Height: height}

	// 5. Build the world
	bus := event.NewBus(log)
	scenes := scene.NewManager(bus, log)
	defer scenes.Close()

	shaders := map[string]graphics.Shader{"basic": graphics.NewBasicShader("basic", device)}
	builder := prefab.NewBuilder(table, bus, scripts, shaders, log)
	defer builder.Close()

	responder := game.NewHeroResponder(bus, log)
	world, err := game.BuildWorld(level, builder, responder, viewport, log)
	if err != nil {
		return fmt.Errorf("world: %w", err)
	}
	scenes.AddScene(world.Scene, true)

	// 6. Optional snapshot store
	var persistence *system.PersistenceSystem
	if cfg.Database.Enabled {
		dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		db, err := persist.Open(dbCtx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("snapshot store: %w", err)
		}
		defer db.Close()
		repo := persist.NewSnapshotRepo(db)
		states, err := repo.LoadSnapshot(dbCtx, world.Scene.Name())
		if err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
		if len(states) > 0 {
			n := world.Scene.ApplyTransforms(states)
			log.Info("snapshot restored", zap.String("scene", world.Scene.Name()), zap.Int("objects", n))
		}
		persistence = system.NewPersistenceSystem(scenes, repo, log, cfg.Database.SaveEveryTicks)
	}

	// 7. Systems
	physicsMgr := system.NewPhysicsManager(bus, scenes, physicsConfig(cfg.Physics), cfg.Physics.MaxStep, log)
	state := game.NewStateManager(bus, scripts, startHealth, log)
	defer state.Close()
	cameras := game.NewCameraDirector(bus, scenes, log)
	defer cameras.Close()

	hud, err := game.BuildHUD(bus, cfg.Engine.Title, startHealth, log)
	if err != nil {
		return fmt.Errorf("hud: %w", err)
	}
	defer hud.Close()
	menu := game.BuildMenu(bus, quit, log)
	defer menu.Close()

	renderMgr := system.NewRenderManager(bus, scenes, render.NewForwardRenderer(), device, log)
	renderMgr.SetDrawWhenPaused(true)
	renderMgr.AddOverlay(hud)
	renderMgr.AddOverlay(menu)

	runner := coresys.NewRunner()
	runner.Register(system.NewInputSystem(source))
	runner.Register(system.NewEventSystem(bus))
	runner.Register(game.NewHotkeys(bus, quit, log))
	runner.Register(physicsMgr)
	runner.Register(scenes)
	runner.Register(state)
	runner.Register(hud)
	runner.Register(menu)
	runner.Register(renderMgr)
	runner.Register(system.NewCleanupSystem(scenes, log))
	if persistence != nil {
		runner.Register(persistence)
	}

	// 8. Start game loop
	log.Info("game loop started",
		zap.String("title", cfg.Engine.Title),
		zap.Duration("tick", cfg.Engine.TickRate),
		zap.String("input", cfg.Engine.Input),
		zap.Int("systems", runner.Len()),
	)
	fctx := frame.NewContext(frame.Screen{Width: width, Height: height})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer quit()
		return loop(gctx, runner, fctx, device, cfg.Engine.TickRate, cfg.Engine.MaxFrames, log)
	})
	if terminal != nil {
		g.Go(func() error { return terminal.Run(gctx) })
	}
	err = g.Wait()

	settle(runner, fctx)
	if persistence != nil {
		persistence.SaveActiveScene()
	}
	log.Info("game stopped",
		zap.Int64("frames", fctx.Time.Frames()),
		zap.Int64("physics_steps", physicsMgr.Steps()),
		zap.Int("pickups", responder.Pickups()),
		zap.String("outcome", string(state.Outcome())),
	)
	return err
}

// loop ticks the runner at tickRate until ctx is done or maxFrames ticks
// have run. The frame delta is the measured wall time between ticks.
func loop(ctx context.Context, runner *coresys.Runner, fctx *frame.Context, device graphics.Device, tickRate time.Duration, maxFrames int64, log *zap.Logger) error {
	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()

	sized, _ := device.(interface{ Size() (int, int) })
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if sized != nil {
				fctx.Screen.Width, fctx.Screen.Height = sized.Size()
			}
			fctx.Step(now.Sub(last))
			last = now
			runner.Tick(fctx)
			if maxFrames > 0 && fctx.Time.Frames() >= maxFrames {
				log.Info("frame limit reached", zap.Int64("frames", maxFrames))
				return nil
			}
		}
	}
}

// settle runs the cleanup phase once more after the loop stops, so
// removals requested on the last tick are applied before the final save.
func settle(runner *coresys.Runner, fctx *frame.Context) {
	runner.TickPhase(coresys.PhaseCleanup, fctx)
}

func physicsConfig(c config.PhysicsConfig) physics.Config {
	return physics.Config{
		Gravity:                           mgl32.Vec3(c.Gravity),
		NumCollisionIterations:            c.NumCollisionIterations,
		NumContactIterations:              c.NumContactIterations,
		NumPenetrationRelaxationTimesteps: c.NumPenetrationRelaxationTimesteps,
		AllowedPenetration:                c.AllowedPenetration,
		CollisionTolerance:                c.CollisionTolerance,
		UseSweepTests:                     c.UseSweepTests,
		EnableFreezing:                    c.EnableFreezing,
	}
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
		if cfg.File != "" {
			zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
