package physics

import (
	"iter"
	"math"
	"slices"
)

// DefaultCellSize suits shapes a few tens of units across.
const DefaultCellSize = 64.0

// ==================== SPATIAL GRID ====================

type gridCell struct {
	X, Y int
}

// SpatialGrid hashes bounding boxes into uniform cells, rebuilt every
// step. Pairs are reported in insertion order so stepping stays
// deterministic regardless of map iteration order.
type SpatialGrid struct {
	cellSize float64
	shapes   []Shape
	grid     map[gridCell][]int
	dirty    bool

	pairs []uint64
}

func NewSpatialGrid(cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &SpatialGrid{
		cellSize: cellSize,
		grid:     make(map[gridCell][]int),
	}
}

func (sg *SpatialGrid) Insert(s Shape) {
	sg.shapes = append(sg.shapes, s)
	sg.dirty = true
}

func (sg *SpatialGrid) Remove(s Shape) {
	if i := slices.Index(sg.shapes, s); i >= 0 {
		sg.shapes = slices.Delete(sg.shapes, i, i+1)
		sg.dirty = true
	}
}

func (sg *SpatialGrid) CellSize() float64 { return sg.cellSize }

func (sg *SpatialGrid) getCell(pos Vector2D) gridCell {
	return gridCell{
		X: int(math.Floor(pos.X / sg.cellSize)),
		Y: int(math.Floor(pos.Y / sg.cellSize)),
	}
}

// cells calls fn for every cell covered by box.
func (sg *SpatialGrid) cells(box AABB, fn func(c gridCell)) {
	minCell := sg.getCell(box.Min)
	maxCell := sg.getCell(box.Max)
	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			fn(gridCell{X: x, Y: y})
		}
	}
}

func (sg *SpatialGrid) rebuild() {
	for key, cell := range sg.grid {
		if len(cell) == 0 {
			delete(sg.grid, key)
			continue
		}
		sg.grid[key] = cell[:0]
	}
	for i, s := range sg.shapes {
		sg.cells(s.BoundingBox(), func(c gridCell) {
			sg.grid[c] = append(sg.grid[c], i)
		})
	}
	sg.dirty = false
}

func (sg *SpatialGrid) Collide(fn func(a, b Shape)) {
	sg.rebuild()

	sg.pairs = sg.pairs[:0]
	for _, cell := range sg.grid {
		for n, i := range cell {
			box := sg.shapes[i].BoundingBox()
			for _, j := range cell[n+1:] {
				if box.Intersects(sg.shapes[j].BoundingBox()) {
					// cell indices are ascending, so i < j
					sg.pairs = append(sg.pairs, uint64(i)<<32|uint64(j))
				}
			}
		}
	}

	slices.Sort(sg.pairs)
	for _, key := range slices.Compact(sg.pairs) {
		fn(sg.shapes[key>>32], sg.shapes[key&math.MaxUint32])
	}
}

// Query yields matches in insertion order, using the cells from the last
// step.
func (sg *SpatialGrid) Query(box AABB) iter.Seq[Shape] {
	return func(yield func(Shape) bool) {
		if sg.dirty {
			sg.rebuild()
		}

		var found []int
		sg.cells(box, func(c gridCell) {
			found = append(found, sg.grid[c]...)
		})
		slices.Sort(found)

		for _, i := range slices.Compact(found) {
			if s := sg.shapes[i]; s.BoundingBox().Intersects(box) && !yield(s) {
				return
			}
		}
	}
}
