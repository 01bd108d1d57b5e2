package ragdoll

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type aabb struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func (a aabb) overlaps(b aabb) bool {
	return a.Min.X() <= b.Max.X() && a.Max.X() >= b.Min.X() &&
		a.Min.Y() <= b.Max.Y() && a.Max.Y() >= b.Min.Y() &&
		a.Min.Z() <= b.Max.Z() && a.Max.Z() >= b.Min.Z()
}

// spatialHashGrid is the broadphase: bodies are inserted by world AABB into
// hashed cells, queries walk the cells an AABB touches. Rebuilt every step.
type spatialHashGrid struct {
	cellSize float32
	cells    map[uint64][]int
}

func newSpatialHashGrid(cellSize float32) *spatialHashGrid {
	return &spatialHashGrid{
		cellSize: cellSize,
		cells:    make(map[uint64][]int),
	}
}

func (grid *spatialHashGrid) clear() {
	for k := range grid.cells {
		delete(grid.cells, k)
	}
}

func (grid *spatialHashGrid) insert(index int, box aabb) {
	minX, maxX := grid.cellIndex(box.Min.X()), grid.cellIndex(box.Max.X())
	minY, maxY := grid.cellIndex(box.Min.Y()), grid.cellIndex(box.Max.Y())
	minZ, maxZ := grid.cellIndex(box.Min.Z()), grid.cellIndex(box.Max.Z())

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				key := grid.hashKey(x, y, z)
				grid.cells[key] = append(grid.cells[key], index)
			}
		}
	}
}

func (grid *spatialHashGrid) queryAABB(box aabb, out []int) []int {
	minX, maxX := grid.cellIndex(box.Min.X()), grid.cellIndex(box.Max.X())
	minY, maxY := grid.cellIndex(box.Min.Y()), grid.cellIndex(box.Max.Y())
	minZ, maxZ := grid.cellIndex(box.Min.Z()), grid.cellIndex(box.Max.Z())

	seen := make(map[int]struct{})
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				key := grid.hashKey(x, y, z)
				for _, index := range grid.cells[key] {
					if _, ok := seen[index]; !ok {
						seen[index] = struct{}{}
						out = append(out, index)
					}
				}
			}
		}
	}
	return out
}

func (grid *spatialHashGrid) cellIndex(pos float32) int {
	return int(math.Floor(float64(pos / grid.cellSize)))
}

// Simple hash function for 3D cell coordinates.
func (grid *spatialHashGrid) hashKey(x, y, z int) uint64 {
	// large primes for mixing
	const p1 = 73856093
	const p2 = 19349663
	const p3 = 83492791
	return uint64(x*p1 ^ y*p2 ^ z*p3)
}
