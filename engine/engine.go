// Package engine drives a physics world at a fixed rate and checks that
// replicated runs stay bit-identical.
package engine

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/0x5844/glaze/physics"
)

var ErrAlreadyRunning = errors.New("engine already running")

// Config holds the fixed-step parameters of a run.
type Config struct {
	TimeStep   float64
	Iterations int
	TargetFPS  int
}

func DefaultConfig() Config {
	return Config{
		TimeStep:   1.0 / 60.0,
		Iterations: physics.DefaultIterations,
		TargetFPS:  60,
	}
}

// Stats is a snapshot of the engine and world counters. Frame times are in
// milliseconds.
type Stats struct {
	FPS           float64
	AvgFrameTime  float64
	MinFrameTime  float64
	MaxFrameTime  float64
	RecentFrame   float64
	Bodies        int
	Shapes        int
	Arbiters      int
	Contacts      int
	Joints        int
	PoolFree      int
	PoolAllocated int
	Steps         uint64
	Frames        int64
}

// ==================== PHYSICS ENGINE ====================

// Engine steps a World once per tick. The world must not be touched from
// other goroutines except through View.
type Engine struct {
	mu      sync.Mutex
	world   *physics.World
	cfg     Config
	running atomic.Bool
	onStep  func(w *physics.World)

	stats struct {
		fps           float64
		lastFrameTime time.Time
		frameCount    int64
		avgFrameTime  float64
		minFrameTime  float64
		maxFrameTime  float64
		frameTimeSum  float64
	}
	frameHistory []float64
	historySize  int
}

func New(world *physics.World, cfg Config) *Engine {
	e := &Engine{
		world:       world,
		cfg:         cfg,
		historySize: 100,
	}
	e.frameHistory = make([]float64, 0, e.historySize)
	return e
}

// OnStep registers fn to run after every step, with the world locked. It
// must be set before Run.
func (e *Engine) OnStep(fn func(w *physics.World)) {
	e.onStep = fn
}

// View runs fn with exclusive access to the world.
func (e *Engine) View(fn func(w *physics.World)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.world)
}

// Step advances the world once outside the run loop.
func (e *Engine) Step() {
	start := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()

	e.world.Step(e.cfg.TimeStep, e.cfg.Iterations)
	if e.onStep != nil {
		e.onStep(e.world)
	}
	e.updateStats(start)
}

func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer e.running.Store(false)

	ticker := time.NewTicker(time.Second / time.Duration(e.cfg.TargetFPS))
	defer ticker.Stop()

	e.mu.Lock()
	e.stats.lastFrameTime = time.Now()
	e.mu.Unlock()

	for {
		select {
		case <-ticker.C:
			e.Step()

		case <-ctx.Done():
			e.View(func(w *physics.World) {
				log.Printf("[engine] stopped after %d steps", w.Stamp())
			})
			return ctx.Err()
		}
	}
}

// updateStats must be called with mu held.
func (e *Engine) updateStats(frameStart time.Time) {
	now := time.Now()
	currentFrameTime := now.Sub(frameStart).Seconds()

	if !e.stats.lastFrameTime.IsZero() {
		if frameTime := now.Sub(e.stats.lastFrameTime).Seconds(); frameTime > 0 {
			e.stats.fps = 1.0 / frameTime
		}
	}
	e.stats.lastFrameTime = now
	e.stats.frameCount++

	e.stats.frameTimeSum += currentFrameTime
	e.stats.avgFrameTime = e.stats.frameTimeSum / float64(e.stats.frameCount)

	if e.stats.minFrameTime == 0 || currentFrameTime < e.stats.minFrameTime {
		e.stats.minFrameTime = currentFrameTime
	}
	if currentFrameTime > e.stats.maxFrameTime {
		e.stats.maxFrameTime = currentFrameTime
	}

	e.frameHistory = append(e.frameHistory, currentFrameTime)
	if len(e.frameHistory) > e.historySize {
		e.frameHistory = e.frameHistory[1:]
	}
}

func (e *Engine) GetStats() (fps float64, bodies int, steps uint64, frames int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats.fps, len(e.world.Bodies()), e.world.Stamp(), e.stats.frameCount
}

func (e *Engine) GetAdvancedStats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	recent := 0.0
	for _, t := range e.frameHistory {
		recent += t
	}
	if n := len(e.frameHistory); n > 0 {
		recent /= float64(n)
	}

	w := e.world
	return Stats{
		FPS:           e.stats.fps,
		AvgFrameTime:  e.stats.avgFrameTime * 1000,
		MinFrameTime:  e.stats.minFrameTime * 1000,
		MaxFrameTime:  e.stats.maxFrameTime * 1000,
		RecentFrame:   recent * 1000,
		Bodies:        len(w.Bodies()),
		Shapes:        len(w.Shapes()),
		Arbiters:      len(w.Arbiters()),
		Contacts:      w.ContactCount(),
		Joints:        len(w.Joints()),
		PoolFree:      w.Pool().Len(),
		PoolAllocated: w.Pool().Allocated(),
		Steps:         w.Stamp(),
		Frames:        e.stats.frameCount,
	}
}
