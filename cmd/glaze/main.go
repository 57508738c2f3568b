package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/0x5844/glaze/engine"
	"github.com/0x5844/glaze/physics"
	"github.com/0x5844/glaze/scene"
	"github.com/0x5844/glaze/termview"
)

// Build information (set by build script)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

// ==================== CLI CONFIGURATION ====================

type Config struct {
	// Simulation parameters
	GravityX   float64
	GravityY   float64
	TimeStep   float64
	Duration   float64
	MaxFPS     int
	Iterations int

	// Verification
	Workers int
	Verify  int

	// Output settings
	Verbose       bool
	Quiet         bool
	TUI           bool
	StatsInterval float64
	ProfileCPU    string
	ProfileMem    string

	// Scene settings
	SceneFile   string
	BodiesCount int
	SceneType   string
	Seed        int64
	BroadPhase  string

	// Material settings
	Damping     float64
	Restitution float64
	Friction    float64

	// explicit records the flags given on the command line.
	explicit map[string]bool
}

func parseFlags() *Config {
	config := &Config{}

	// Simulation parameters
	flag.Float64Var(&config.GravityX, "gravity-x", scene.DefaultGravity.X, "gravity X component")
	flag.Float64Var(&config.GravityY, "gravity-y", scene.DefaultGravity.Y, "gravity Y component (positive is down)")
	flag.Float64Var(&config.TimeStep, "timestep", 1.0/60.0, "physics time step")
	flag.Float64Var(&config.Duration, "duration", 0, "simulation duration in seconds (0 = infinite)")
	flag.IntVar(&config.MaxFPS, "fps", 60, "maximum steps per second")
	flag.IntVar(&config.Iterations, "iterations", physics.DefaultIterations, "solver iterations per step")

	// Verification
	flag.IntVar(&config.Workers, "workers", runtime.NumCPU(), "number of worker goroutines for -verify")
	flag.IntVar(&config.Verify, "verify", 0, "run N replicas headless and check they agree bit for bit")

	// Output settings
	flag.BoolVar(&config.Verbose, "verbose", false, "verbose output")
	flag.BoolVar(&config.Quiet, "quiet", false, "minimal output")
	flag.BoolVar(&config.TUI, "tui", false, "draw the simulation in the terminal")
	flag.Float64Var(&config.StatsInterval, "stats-interval", 2.0, "statistics reporting interval")
	flag.StringVar(&config.ProfileCPU, "profile-cpu", "", "CPU profile output file")
	flag.StringVar(&config.ProfileMem, "profile-mem", "", "memory profile output file")

	// Scene settings
	flag.StringVar(&config.SceneFile, "scene", "", "JSON or TMX scene file to load")
	flag.IntVar(&config.BodiesCount, "bodies", 100, "number of bodies for generated scenes")
	flag.StringVar(&config.SceneType, "scene-type", "default", "scene type ("+strings.Join(scene.Kinds(), ", ")+")")
	flag.Int64Var(&config.Seed, "seed", 1, "random seed for generated scenes")
	flag.StringVar(&config.BroadPhase, "broadphase", "sweep", "broad phase ("+strings.Join(scene.BroadPhases, ", ")+")")

	// Material settings
	flag.Float64Var(&config.Damping, "damping", physics.DefaultDamping, "velocity damping per step")
	flag.Float64Var(&config.Restitution, "restitution", physics.DefaultMaterial.Restitution, "default restitution")
	flag.Float64Var(&config.Friction, "friction", physics.DefaultMaterial.Friction, "default friction")

	// Version flag
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "show version information")

	// Custom usage
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Glaze - Deterministic 2D Rigid-Body Physics\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -bodies 500 -scene-type pyramid\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -scene level.tmx -tui\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -scene-type chain -verify 8 -duration 10\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nVersion: %s\n", Version)
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Glaze version %s\n", Version)
		fmt.Printf("Built: %s\n", BuildTime)
		fmt.Printf("Go: %s\n", GoVersion)
		os.Exit(0)
	}

	config.explicit = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { config.explicit[f.Name] = true })

	if err := validateConfig(config); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return config
}

func validateConfig(config *Config) error {
	if config.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if config.MaxFPS < 1 || config.MaxFPS > 1000 {
		return fmt.Errorf("fps must be between 1 and 1000")
	}
	if config.TimeStep <= 0 {
		return fmt.Errorf("timestep must be positive")
	}
	if config.Duration < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	if config.BodiesCount < 1 {
		return fmt.Errorf("bodies count must be at least 1")
	}
	if config.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1")
	}
	if config.StatsInterval <= 0 {
		return fmt.Errorf("stats interval must be positive")
	}
	if config.Verify == 1 || config.Verify < 0 {
		return fmt.Errorf("verify needs at least 2 replicas")
	}
	if config.Damping <= 0 || config.Damping > 1 {
		return fmt.Errorf("damping must be in (0, 1]")
	}
	if config.Restitution < 0 || config.Friction < 0 {
		return fmt.Errorf("restitution and friction cannot be negative")
	}
	if config.Verify > 0 && config.TUI {
		return fmt.Errorf("-verify runs headless and cannot be combined with -tui")
	}
	if !slices.Contains(scene.BroadPhases, config.BroadPhase) {
		return fmt.Errorf("invalid broad phase: %s", config.BroadPhase)
	}
	if config.SceneFile == "" && !slices.Contains(scene.Kinds(), config.SceneType) {
		return fmt.Errorf("invalid scene type: %s", config.SceneType)
	}

	return nil
}

// loadScene reads or generates the scene. Command-line settings fill in
// whatever a scene file leaves unset; explicit gravity and broad phase
// flags always win.
func loadScene(config *Config) (*scene.Config, error) {
	material := &physics.Material{Restitution: config.Restitution, Friction: config.Friction}
	gravity := physics.Vector2D{X: config.GravityX, Y: config.GravityY}

	if config.SceneFile == "" {
		sc, err := scene.Generate(config.SceneType, scene.Options{
			Bodies:   config.BodiesCount,
			Seed:     config.Seed,
			Gravity:  gravity,
			Material: material,
			Damping:  config.Damping,
		})
		if err != nil {
			return nil, err
		}
		sc.BroadPhase = config.BroadPhase
		return sc, nil
	}

	sc, err := scene.Load(config.SceneFile)
	if err != nil {
		return nil, err
	}
	if sc.Material == nil {
		sc.Material = material
	}
	if sc.Damping == 0 {
		sc.Damping = config.Damping
	}
	if config.explicit["gravity-x"] || config.explicit["gravity-y"] {
		sc.Gravity = gravity
	}
	if sc.BroadPhase == "" || config.explicit["broadphase"] {
		sc.BroadPhase = config.BroadPhase
	}
	return sc, nil
}

// ==================== MAIN APPLICATION ====================

func main() {
	config := parseFlags()

	// Set up logging
	if config.Quiet {
		log.SetOutput(io.Discard)
	} else if config.Verbose {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	// Set up profiling
	if config.ProfileCPU != "" {
		f, err := os.Create(config.ProfileCPU)
		if err != nil {
			log.Fatal("Could not create CPU profile:", err)
		}
		defer f.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("Could not start CPU profile:", err)
		}
		defer pprof.StopCPUProfile()
	}

	log.Printf("Starting Glaze v%s", Version)

	sc, err := loadScene(config)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}
	if sc.Duration > 0 && !config.explicit["duration"] {
		config.Duration = sc.Duration
	}

	// Create context for simulation control
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up duration limit
	if config.Duration > 0 && config.Verify == 0 {
		ctx, cancel = context.WithTimeout(ctx, time.Duration(config.Duration*float64(time.Second)))
		defer cancel()
	}

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			log.Println("Shutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
	}()

	if config.Verify > 0 {
		if err := runVerify(ctx, config, sc); err != nil {
			log.Fatalf("Verification failed: %v", err)
		}
		return
	}

	world, err := sc.Build()
	if err != nil {
		log.Fatalf("Failed to set up scene: %v", err)
	}
	log.Printf("Scene ready: %d bodies, %d shapes, %d joints",
		len(world.Bodies()), len(world.Shapes()), len(world.Joints()))

	eng := engine.New(world, engine.Config{
		TimeStep:   config.TimeStep,
		Iterations: config.Iterations,
		TargetFPS:  config.MaxFPS,
	})

	if config.TUI {
		view, err := termview.New()
		if err != nil {
			log.Fatalf("Could not open terminal: %v", err)
		}
		defer view.Close()

		// the log would scribble over the view
		log.SetOutput(io.Discard)
		view.FitWorld(world)
		eng.OnStep(view.Draw)
		go view.Listen(ctx, cancel)
	} else if !config.Quiet {
		go reportStats(ctx, eng, config.StatsInterval, config.Verbose)
	}

	log.Printf("Simulation started (FPS: %d, dt: %.4f, iterations: %d)", config.MaxFPS, config.TimeStep, config.Iterations)
	if config.Duration > 0 {
		log.Printf("Simulation duration: %.2f seconds", config.Duration)
	} else {
		log.Println("Press Ctrl+C to stop")
	}

	start := time.Now()
	if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		log.Fatalf("Engine error: %v", err)
	}
	elapsed := time.Since(start).Seconds()

	// Memory profiling
	if config.ProfileMem != "" {
		f, err := os.Create(config.ProfileMem)
		if err != nil {
			log.Printf("Could not create memory profile: %v", err)
		} else {
			defer f.Close()
			runtime.GC()
			if err := pprof.WriteHeapProfile(f); err != nil {
				log.Printf("Could not write memory profile: %v", err)
			}
		}
	}

	fps, bodies, steps, frames := eng.GetStats()
	log.Printf("Simulation completed:")
	log.Printf("  Final FPS: %.1f", fps)
	log.Printf("  Bodies: %d", bodies)
	log.Printf("  Steps: %d", steps)
	log.Printf("  Frames: %d", frames)
	if elapsed > 0 {
		log.Printf("  Average steps/second: %.1f", float64(steps)/elapsed)
	}
}

func runVerify(ctx context.Context, config *Config, sc *scene.Config) error {
	pool := engine.NewWorkerPool(config.Workers)
	defer pool.Close()

	steps := 600
	if config.Duration > 0 {
		steps = int(config.Duration / config.TimeStep)
	}

	log.Printf("Verifying %d replicas over %d steps on %d workers", config.Verify, steps, pool.Workers())
	start := time.Now()
	_, err := engine.Verify(ctx, pool, sc.Build, engine.VerifyConfig{
		Replicas:   config.Verify,
		Steps:      steps,
		TimeStep:   config.TimeStep,
		Iterations: config.Iterations,
	})
	if err != nil {
		return err
	}

	_, total := pool.GetStats()
	log.Printf("Deterministic: %d replica runs in %v", total, time.Since(start).Round(time.Millisecond))
	return nil
}

func reportStats(ctx context.Context, eng *engine.Engine, interval float64, verbose bool) {
	ticker := time.NewTicker(time.Duration(interval * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s := eng.GetAdvancedStats()

			if verbose {
				log.Printf("FPS: %.1f | Bodies: %d | Arbiters: %d | Contacts: %d | "+
					"Frame: %.2f/%.2f/%.2f ms | Pool: %d/%d",
					s.FPS, s.Bodies, s.Arbiters, s.Contacts,
					s.AvgFrameTime, s.MinFrameTime, s.MaxFrameTime,
					s.PoolFree, s.PoolAllocated)
			} else {
				log.Printf("FPS: %.1f | Bodies: %d | Contacts: %d | Step: %d",
					s.FPS, s.Bodies, s.Contacts, s.Steps)
			}

		case <-ctx.Done():
			return
		}
	}
}
