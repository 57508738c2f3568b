package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/0x5844/glaze/physics"
)

func testWorld() *physics.World {
	w := physics.NewWorld(nil)
	floor := physics.NewBoxBody(0, 100, 0, 400, 20)
	floor.MakeStatic()
	w.AddBody(floor)

	ball := physics.NewCircleBody(0, 0, 10)
	ball.Gravity = physics.Vector2D{Y: 400}
	w.AddBody(ball)
	return w
}

func TestEngineRunStopsOnContext(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetFPS = 200
	e := New(testWorld(), cfg)

	hooked := 0
	e.OnStep(func(*physics.World) { hooked++ })

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	if err := e.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run returned %v, want DeadlineExceeded", err)
	}

	_, bodies, steps, frames := e.GetStats()
	if steps == 0 || int64(steps) != frames {
		t.Fatalf("steps %d frames %d, want equal and non-zero", steps, frames)
	}
	if bodies != 2 {
		t.Fatalf("bodies = %d, want 2", bodies)
	}
	if int64(hooked) != frames {
		t.Fatalf("OnStep ran %d times for %d frames", hooked, frames)
	}
}

func TestEngineRejectsConcurrentRun(t *testing.T) {
	e := New(testWorld(), DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	// wait until the first run has claimed the engine
	deadline := time.Now().Add(time.Second)
	for !e.running.Load() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if err := e.Run(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Run returned %v, want ErrAlreadyRunning", err)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("first Run returned %v, want Canceled", err)
	}
}

func TestEngineAdvancedStats(t *testing.T) {
	e := New(testWorld(), DefaultConfig())
	for i := 0; i < 120; i++ {
		e.Step()
	}

	s := e.GetAdvancedStats()
	if s.Steps != 120 || s.Frames != 120 {
		t.Fatalf("steps %d frames %d, want 120", s.Steps, s.Frames)
	}
	if s.Arbiters != 1 || s.Contacts != 1 {
		t.Fatalf("arbiters %d contacts %d, want the ball resting on the floor", s.Arbiters, s.Contacts)
	}
	if s.MinFrameTime > s.MaxFrameTime || s.AvgFrameTime > s.MaxFrameTime {
		t.Fatalf("frame times min %f avg %f max %f out of order", s.MinFrameTime, s.AvgFrameTime, s.MaxFrameTime)
	}
	if s.PoolAllocated != 1 {
		t.Fatalf("pool allocated %d contacts, want 1", s.PoolAllocated)
	}
}
