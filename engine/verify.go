package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/0x5844/glaze/physics"
)

var ErrNonDeterministic = errors.New("replicas diverged")

// BodyState is the dynamic state of one body.
type BodyState struct {
	Pos, Vel      physics.Vector2D
	Angle, AngVel float64
}

// Snapshot holds the state of every body in world order.
type Snapshot []BodyState

func TakeSnapshot(w *physics.World) Snapshot {
	snap := make(Snapshot, len(w.Bodies()))
	for i, b := range w.Bodies() {
		snap[i] = BodyState{Pos: b.Pos, Vel: b.Vel, Angle: b.Angle(), AngVel: b.AngVel}
	}
	return snap
}

func sameBits(a, b float64) bool {
	return math.Float64bits(a) == math.Float64bits(b)
}

func (s BodyState) equal(o BodyState) bool {
	return sameBits(s.Pos.X, o.Pos.X) && sameBits(s.Pos.Y, o.Pos.Y) &&
		sameBits(s.Vel.X, o.Vel.X) && sameBits(s.Vel.Y, o.Vel.Y) &&
		sameBits(s.Angle, o.Angle) && sameBits(s.AngVel, o.AngVel)
}

// Diff returns the index of the first body whose state differs bit for bit,
// or -1 when both snapshots match.
func (s Snapshot) Diff(o Snapshot) int {
	n := min(len(s), len(o))
	for i := 0; i < n; i++ {
		if !s[i].equal(o[i]) {
			return i
		}
	}
	if len(s) != len(o) {
		return n
	}
	return -1
}

type VerifyConfig struct {
	Replicas   int
	Steps      int
	TimeStep   float64
	Iterations int
}

// Verify builds cfg.Replicas worlds with build, steps each of them on the
// pool and checks that they end in bit-identical states. It returns the
// common final snapshot.
func Verify(ctx context.Context, pool *WorkerPool, build func() (*physics.World, error), cfg VerifyConfig) (Snapshot, error) {
	if cfg.Replicas < 2 {
		return nil, fmt.Errorf("verify needs at least 2 replicas, got %d", cfg.Replicas)
	}

	snapshots := make([]Snapshot, cfg.Replicas)
	results := make(chan error, cfg.Replicas)

	for i := 0; i < cfg.Replicas; i++ {
		pool.Submit(Task{ID: i, Execute: func() error {
			w, err := build()
			if err != nil {
				return fmt.Errorf("replica %d: %w", i, err)
			}
			for step := 0; step < cfg.Steps; step++ {
				if step%64 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				w.Step(cfg.TimeStep, cfg.Iterations)
			}
			snapshots[i] = TakeSnapshot(w)
			return nil
		}}, results)
	}

	var errs []error
	for i := 0; i < cfg.Replicas; i++ {
		select {
		case err := <-results:
			if err != nil {
				errs = append(errs, err)
			}
		case <-ctx.Done():
			// a closed pool may never answer the remaining tasks
			return nil, errors.Join(append(errs, ctx.Err())...)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	for i := 1; i < cfg.Replicas; i++ {
		if j := snapshots[0].Diff(snapshots[i]); j >= 0 {
			return nil, fmt.Errorf("replica %d differs at body %d after %d steps: %w", i, j, cfg.Steps, ErrNonDeterministic)
		}
	}

	log.Printf("[verify] %d replicas of %d bodies agree after %d steps", cfg.Replicas, len(snapshots[0]), cfg.Steps)
	return snapshots[0], nil
}
