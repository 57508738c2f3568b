package engine

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/0x5844/glaze/physics"
)

func pile(seed int64, nudge float64) *physics.World {
	r := rand.New(rand.NewSource(seed))
	w := physics.NewWorld(nil)

	floor := physics.NewBoxBody(300, 500, 0, 1000, 100)
	floor.MakeStatic()
	w.AddBody(floor)

	for i := 0; i < 40; i++ {
		var b *physics.Body
		if i%2 == 0 {
			b = physics.NewBoxBody(r.Float64()*600, r.Float64()*400, r.Float64()*6.28, 40, 30)
		} else {
			b = physics.NewCircleBody(r.Float64()*600, r.Float64()*400, 20)
		}
		b.Gravity = physics.Vector2D{Y: 400}
		w.AddBody(b)
	}
	w.Bodies()[1].Pos.X += nudge
	return w
}

func verifyConfig() VerifyConfig {
	return VerifyConfig{Replicas: 4, Steps: 120, TimeStep: 1.0 / 60, Iterations: physics.DefaultIterations}
}

func TestVerifyAgrees(t *testing.T) {
	wp := NewWorkerPool(4)
	defer wp.Close()

	snap, err := Verify(context.Background(), wp, func() (*physics.World, error) {
		return pile(3, 0), nil
	}, verifyConfig())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(snap) != 41 {
		t.Fatalf("snapshot has %d bodies, want 41", len(snap))
	}

	// the snapshot is what a serial run produces
	w := pile(3, 0)
	for i := 0; i < 120; i++ {
		w.Step(1.0/60, physics.DefaultIterations)
	}
	if j := TakeSnapshot(w).Diff(snap); j >= 0 {
		t.Fatalf("serial run differs at body %d", j)
	}
}

func TestVerifyDetectsDivergence(t *testing.T) {
	wp := NewWorkerPool(2)
	defer wp.Close()

	var built atomic.Int32
	_, err := Verify(context.Background(), wp, func() (*physics.World, error) {
		if built.Add(1) == 3 {
			return pile(3, 1e-9), nil
		}
		return pile(3, 0), nil
	}, verifyConfig())
	if !errors.Is(err, ErrNonDeterministic) {
		t.Fatalf("err = %v, want ErrNonDeterministic", err)
	}
}

func TestVerifyPropagatesErrors(t *testing.T) {
	wp := NewWorkerPool(2)
	defer wp.Close()

	boom := errors.New("boom")
	_, err := Verify(context.Background(), wp, func() (*physics.World, error) {
		return nil, boom
	}, verifyConfig())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Verify(ctx, wp, func() (*physics.World, error) { return pile(1, 0), nil }, verifyConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want Canceled", err)
	}
}

func TestSnapshotDiff(t *testing.T) {
	a := Snapshot{{Angle: 1}, {Angle: 2}}
	b := Snapshot{{Angle: 1}, {Angle: 2}}
	if d := a.Diff(b); d != -1 {
		t.Fatalf("Diff = %d, want -1", d)
	}
	b[1].Vel.X = 1e-300
	if d := a.Diff(b); d != 1 {
		t.Fatalf("Diff = %d, want 1", d)
	}
	if d := a.Diff(a[:1]); d != 1 {
		t.Fatalf("Diff against shorter = %d, want 1", d)
	}
}

func TestVerifyReturnsWhenPoolDies(t *testing.T) {
	wp := NewWorkerPool(1)

	gate := make(chan struct{})
	started := make(chan struct{}, 8)
	build := func() (*physics.World, error) {
		started <- struct{}{}
		<-gate
		return pile(2, 0), nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := Verify(ctx, wp, build, verifyConfig())
		done <- err
	}()

	<-started
	go wp.Close()
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("Verify succeeded on a cancelled run")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Verify blocked after the pool was closed")
	}
	close(gate)
}
