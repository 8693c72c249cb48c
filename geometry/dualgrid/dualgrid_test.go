package dualgrid

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// squarePrimal is the unit square with a center node, split into four
// triangles. Point layout:
//
//	3 --- 2
//	| \ / |
//	|  4  |
//	| / \ |
//	0 --- 1
func squarePrimal() *PrimalMesh {
	return &PrimalMesh{
		Dim: 2,
		Coords: [][3]float64{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {0.5, 0.5, 0},
		},
		ElemTypes: []ElemType{Tri, Tri, Tri, Tri},
		Elements: [][]int{
			{0, 1, 4}, {1, 2, 4}, {2, 3, 4}, {3, 0, 4},
		},
		Markers: []PrimalMarker{
			{Name: "bottom", Faces: [][]int{{0, 1}}},
			{Name: "right", Faces: [][]int{{1, 2}}},
			{Name: "top", Faces: [][]int{{2, 3}}},
			{Name: "left", Faces: [][]int{{3, 0}}},
		},
	}
}

func unitTetPrimal() *PrimalMesh {
	return &PrimalMesh{
		Dim: 3,
		Coords: [][3]float64{
			{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1},
		},
		ElemTypes: []ElemType{Tet},
		Elements:  [][]int{{0, 1, 2, 3}},
		Markers: []PrimalMarker{
			{Name: "wall", Faces: [][]int{
				{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3},
			}},
		},
	}
}

func TestBuildFromPrimal2D(t *testing.T) {
	dg, err := BuildFromPrimal(squarePrimal(), map[string]BCKind{
		"bottom": BCSymmetry,
		"right":  BCFarfield,
		"top":    BCFarfield,
		"left":   BCFarfield,
	})
	assert.NoError(t, err)

	assert.Equal(t, 2, dg.NDim())
	assert.Equal(t, 5, dg.NPoint())
	assert.Equal(t, 5, dg.NPointDomain())
	assert.Equal(t, 4, dg.NMarker())
	// Four rim edges plus four spokes to the center
	assert.Equal(t, 8, len(dg.Edges))

	// The median dual of a triangle splits it into three equal thirds, so
	// each corner holds 1/6 and the center 1/3, summing to the square
	var total float64
	for iPoint := 0; iPoint < dg.NPoint(); iPoint++ {
		total += dg.Volume(iPoint)
	}
	assert.True(t, near(total, 1.0))
	for iPoint := 0; iPoint < 4; iPoint++ {
		assert.True(t, near(dg.Volume(iPoint), 1.0/6.0),
			fmt.Sprintf("corner %d volume %v", iPoint, dg.Volume(iPoint)))
	}
	assert.True(t, near(dg.Volume(4), 1.0/3.0))

	// Marker classification propagates onto the points
	assert.True(t, dg.IsSymmetry(0))
	assert.True(t, dg.IsSymmetry(1))
	assert.False(t, dg.IsSymmetry(4))
	assert.True(t, dg.IsInOutFar(2))
	assert.True(t, dg.IsInOutFar(3))
	assert.Equal(t, MarkerSymmetry, dg.MarkerKind(0))
	assert.Equal(t, MarkerOther, dg.MarkerKind(1))

	// The bottom marker owns a half segment per corner, pointing out of
	// the domain
	n := dg.VertexNormal(0, 0)
	assert.True(t, near(n[0], 0))
	assert.True(t, near(n[1], -0.5))
	sym := dg.SymmetryVertexNormal(1)
	assert.True(t, near(sym[1], -0.5))

	assert.Panics(t, func() { dg.SymmetryVertexNormal(4) })
}

// Every control volume surface must close: the outward dual face normals
// of a point, plus its boundary vertex normals, sum to zero.
func TestControlVolumeClosure(t *testing.T) {
	check := func(t *testing.T, dg *DualGrid) {
		for iPoint := 0; iPoint < dg.NPoint(); iPoint++ {
			var sum [3]float64
			for iNeigh := 0; iNeigh < dg.NNeighbor(iPoint); iNeigh++ {
				jPoint, iEdge := dg.Neighbor(iPoint, iNeigh)
				dir := 1.0
				if iPoint > jPoint {
					dir = -1.0
				}
				n := dg.EdgeNormal(iEdge)
				for iDim := 0; iDim < 3; iDim++ {
					sum[iDim] += dir * n[iDim]
				}
			}
			for iMarker := 0; iMarker < dg.NMarker(); iMarker++ {
				for iVertex := 0; iVertex < dg.NVertex(iMarker); iVertex++ {
					if dg.VertexPoint(iMarker, iVertex) != iPoint {
						continue
					}
					n := dg.VertexNormal(iMarker, iVertex)
					for iDim := 0; iDim < 3; iDim++ {
						sum[iDim] += n[iDim]
					}
				}
			}
			assert.True(t, Norm(3, sum) < 1.e-12,
				fmt.Sprintf("point %d surface does not close: %v", iPoint, sum))
		}
	}
	t.Run("2D", func(t *testing.T) {
		dg, err := BuildFromPrimal(squarePrimal(), nil)
		assert.NoError(t, err)
		check(t, dg)
	})
	t.Run("2D quads", func(t *testing.T) {
		dg, err := BuildFromPrimal(quadPrimal(), nil)
		assert.NoError(t, err)
		check(t, dg)
	})
	t.Run("3D", func(t *testing.T) {
		dg, err := BuildFromPrimal(unitTetPrimal(), nil)
		assert.NoError(t, err)
		check(t, dg)
	})
}

// Two unit quads side by side:
//
//	3 - 4 - 5
//	|   |   |
//	0 - 1 - 2
func quadPrimal() *PrimalMesh {
	return &PrimalMesh{
		Dim: 2,
		Coords: [][3]float64{
			{0, 0, 0}, {1, 0, 0}, {2, 0, 0},
			{0, 1, 0}, {1, 1, 0}, {2, 1, 0},
		},
		ElemTypes: []ElemType{Quad, Quad},
		Elements:  [][]int{{0, 1, 4, 3}, {1, 2, 5, 4}},
		Markers: []PrimalMarker{
			{Name: "bottom", Faces: [][]int{{0, 1}, {1, 2}}},
			{Name: "top", Faces: [][]int{{4, 3}, {5, 4}}},
			{Name: "left", Faces: [][]int{{3, 0}}},
			{Name: "right", Faces: [][]int{{2, 5}}},
		},
	}
}

func TestBuildFromPrimalQuads(t *testing.T) {
	dg, err := BuildFromPrimal(quadPrimal(), nil)
	assert.NoError(t, err)

	// A unit quad corner owns a quarter cell, so the shared mid points
	// carry half and the outer corners a quarter
	for _, iPoint := range []int{0, 2, 3, 5} {
		assert.True(t, near(dg.Volume(iPoint), 0.25))
	}
	assert.True(t, near(dg.Volume(1), 0.5))
	assert.True(t, near(dg.Volume(4), 0.5))

	// The shared edge 1-4 collects a half-cell face from each quad
	iEdge := dg.EdgeIndex(1, 4)
	assert.True(t, iEdge >= 0)
	// Each quad contributes a half-cell dual face crossing the edge upward
	n := dg.EdgeNormal(iEdge)
	assert.True(t, near(n[0], 0))
	assert.True(t, near(n[1], 1.0))
}

func TestBuildFromPrimal3D(t *testing.T) {
	dg, err := BuildFromPrimal(unitTetPrimal(), nil)
	assert.NoError(t, err)

	assert.Equal(t, 3, dg.NDim())
	assert.Equal(t, 4, dg.NPoint())
	assert.Equal(t, 6, len(dg.Edges))

	// A quarter of the tetrahedron per corner
	for iPoint := 0; iPoint < 4; iPoint++ {
		assert.True(t, near(dg.Volume(iPoint), 1.0/24.0))
		// "wall" parses to a solid BC
		assert.True(t, dg.IsSolid(iPoint))
	}
}

func TestElementMetrics(t *testing.T) {
	assert.True(t, near(TetVolume(
		[3]float64{0, 0, 0}, [3]float64{1, 0, 0},
		[3]float64{0, 1, 0}, [3]float64{0, 0, 1}), 1.0/6.0))
	assert.True(t, near(TriArea(
		[3]float64{0, 0, 0}, [3]float64{1, 0, 0}, [3]float64{0, 1, 0}), 0.5))
	assert.True(t, near(PolyArea(
		[3]float64{0, 0, 0}, [3]float64{1, 0, 0},
		[3]float64{1, 1, 0}, [3]float64{0, 1, 0}), 1.0))
}

func TestBCClassification(t *testing.T) {
	assert.Equal(t, BCSymmetry, ParseBCName(" Symmetry "))
	assert.Equal(t, BCFarfield, ParseBCName("FREESTREAM"))
	// Unknown names default to a wall
	assert.Equal(t, BCWall, ParseBCName("mystery"))

	assert.Equal(t, MarkerSymmetry, BCSymmetry.Kind())
	assert.Equal(t, MarkerPeriodic, BCPeriodic.Kind())
	assert.Equal(t, MarkerOther, BCFarfield.Kind())
	assert.True(t, BCInflow.IsInOutFar())
	assert.True(t, BCFarfield.IsInOutFar())
	assert.False(t, BCWall.IsInOutFar())
	assert.True(t, BCSlipWall.IsSolid())
	assert.False(t, BCSymmetry.IsSolid())
}

func TestEdgeIndex(t *testing.T) {
	dg, err := BuildFromPrimal(squarePrimal(), nil)
	assert.NoError(t, err)
	iEdge := dg.EdgeIndex(0, 4)
	assert.True(t, iEdge >= 0)
	assert.Equal(t, iEdge, dg.EdgeIndex(4, 0))
	assert.Equal(t, -1, dg.EdgeIndex(0, 2))
}

func near(a, b float64, tolI ...float64) (l bool) {
	var (
		tol float64
	)
	if len(tolI) == 0 {
		tol = 1.e-08
	} else {
		tol = tolI[0]
	}
	bound := math.Max(tol, tol*math.Abs(a))
	if math.Abs(a-b) <= bound {
		l = true
	}
	return
}
