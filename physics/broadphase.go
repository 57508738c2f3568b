package physics

import (
	"iter"
	"slices"
)

// BroadPhase finds candidate shape pairs from bounding boxes.
type BroadPhase interface {
	Insert(s Shape)
	Remove(s Shape)
	// Collide calls fn for every pair whose bounding boxes overlap.
	Collide(fn func(a, b Shape))
	// Query yields the shapes whose bounding box intersects box.
	Query(box AABB) iter.Seq[Shape]
}

// ==================== SORTED SWEEP ====================

// SortedSweep keeps shapes ordered by the top edge of their bounding box and
// sweeps that order once per step. Shapes move little between steps, so the
// incremental insertion sort stays close to linear.
type SortedSweep struct {
	shapes []Shape
}

func NewSortedSweep() *SortedSweep {
	return &SortedSweep{}
}

func (sw *SortedSweep) Insert(s Shape) {
	sw.shapes = append(sw.shapes, s)
}

func (sw *SortedSweep) Remove(s Shape) {
	if i := slices.Index(sw.shapes, s); i >= 0 {
		sw.shapes = slices.Delete(sw.shapes, i, i+1)
	}
}

func (sw *SortedSweep) Len() int { return len(sw.shapes) }

func (sw *SortedSweep) sort() {
	for i := 1; i < len(sw.shapes); i++ {
		s := sw.shapes[i]
		top := s.BoundingBox().Top()
		j := i
		for ; j > 0 && sw.shapes[j-1].BoundingBox().Top() > top; j-- {
			sw.shapes[j] = sw.shapes[j-1]
		}
		sw.shapes[j] = s
	}
}

func (sw *SortedSweep) Collide(fn func(a, b Shape)) {
	sw.sort()

	for i, a := range sw.shapes {
		box := a.BoundingBox()
		for _, b := range sw.shapes[i+1:] {
			other := b.BoundingBox()
			if other.Top() >= box.Bottom() {
				break
			}
			if box.Intersects(other) {
				fn(a, b)
			}
		}
	}
}

func (sw *SortedSweep) Query(box AABB) iter.Seq[Shape] {
	return func(yield func(Shape) bool) {
		sw.sort()
		for _, s := range sw.shapes {
			bb := s.BoundingBox()
			if bb.Top() >= box.Bottom() {
				return
			}
			if bb.Intersects(box) && !yield(s) {
				return
			}
		}
	}
}

// ==================== BRUTE FORCE ====================

// BruteForce tests every pair. It is the reference the sweep is checked
// against and is adequate for a handful of shapes.
type BruteForce struct {
	shapes []Shape
}

func NewBruteForce() *BruteForce {
	return &BruteForce{}
}

func (bf *BruteForce) Insert(s Shape) {
	bf.shapes = append(bf.shapes, s)
}

func (bf *BruteForce) Remove(s Shape) {
	if i := slices.Index(bf.shapes, s); i >= 0 {
		bf.shapes = slices.Delete(bf.shapes, i, i+1)
	}
}

func (bf *BruteForce) Collide(fn func(a, b Shape)) {
	for i, a := range bf.shapes {
		box := a.BoundingBox()
		for _, b := range bf.shapes[i+1:] {
			if box.Intersects(b.BoundingBox()) {
				fn(a, b)
			}
		}
	}
}

func (bf *BruteForce) Query(box AABB) iter.Seq[Shape] {
	return func(yield func(Shape) bool) {
		for _, s := range bf.shapes {
			if s.BoundingBox().Intersects(box) && !yield(s) {
				return
			}
		}
	}
}
