// Package geometry2D generates two dimensional triangle meshes, mostly
// used to produce grids for testing the gradient machinery without
// depending on external mesh files.
package geometry2D

import (
	"fmt"
	"math"
	"sort"

	"github.com/pradeep-pyro/triangle"

	"github.com/notargets/gograd/geometry/dualgrid"
)

// BoundaryClassifier names the marker a boundary edge belongs to given
// the coordinates of its two endpoints
type BoundaryClassifier func(a, b [2]float64) string

// TriangulatePoints builds a primal mesh from a point cloud using a
// Delaunay triangulation. Boundary edges, those used by exactly one
// triangle, are grouped into markers by the classifier; a nil classifier
// puts every boundary edge on a single marker named "boundary".
func TriangulatePoints(X, Y []float64, classify BoundaryClassifier) (*dualgrid.PrimalMesh, error) {
	if len(X) != len(Y) {
		return nil, fmt.Errorf("coordinate slices differ in length: %d vs %d", len(X), len(Y))
	}
	if len(X) < 3 {
		return nil, fmt.Errorf("need at least 3 points, have %d", len(X))
	}
	pts := make([][2]float64, len(X))
	for i := range X {
		pts[i] = [2]float64{X[i], Y[i]}
	}
	faces := triangle.Delaunay(pts)
	if len(faces) == 0 {
		return nil, fmt.Errorf("degenerate point cloud, triangulation is empty")
	}

	pm := &dualgrid.PrimalMesh{
		Dim:       2,
		Coords:    make([][3]float64, len(pts)),
		ElemTypes: make([]dualgrid.ElemType, len(faces)),
		Elements:  make([][]int, len(faces)),
	}
	for i, pt := range pts {
		pm.Coords[i] = [3]float64{pt[0], pt[1], 0}
	}
	for i, f := range faces {
		pm.ElemTypes[i] = dualgrid.Tri
		pm.Elements[i] = []int{int(f[0]), int(f[1]), int(f[2])}
	}

	if classify == nil {
		classify = func(a, b [2]float64) string { return "boundary" }
	}
	markerFaces := make(map[string][][]int)
	for _, edge := range hullEdges(faces) {
		name := classify(pts[edge[0]], pts[edge[1]])
		markerFaces[name] = append(markerFaces[name], []int{edge[0], edge[1]})
	}
	names := make([]string, 0, len(markerFaces))
	for name := range markerFaces {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		pm.Markers = append(pm.Markers, dualgrid.PrimalMarker{
			Name:  name,
			Faces: markerFaces[name],
		})
	}
	return pm, nil
}

// hullEdges returns the edges used by exactly one triangle, oriented as
// they appear in that triangle
func hullEdges(faces [][3]int32) (edges [][2]int) {
	type edgeKey [2]int
	count := make(map[edgeKey]int)
	oriented := make(map[edgeKey][2]int)
	for _, f := range faces {
		for k := 0; k < 3; k++ {
			a, b := int(f[k]), int(f[(k+1)%3])
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			key := edgeKey{lo, hi}
			count[key]++
			oriented[key] = [2]int{a, b}
		}
	}
	for key, n := range count {
		if n == 1 {
			edges = append(edges, oriented[key])
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})
	return
}

// UnitSquareTriMesh triangulates an n x n lattice of points on the unit
// square. The four sides land on markers named "left", "right", "bottom"
// and "top", which makes it easy to exercise mixed boundary conditions.
func UnitSquareTriMesh(n int) (*dualgrid.PrimalMesh, error) {
	if n < 2 {
		return nil, fmt.Errorf("lattice needs at least 2 points per side, have %d", n)
	}
	var X, Y []float64
	h := 1.0 / float64(n-1)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			X = append(X, float64(i)*h)
			Y = append(Y, float64(j)*h)
		}
	}
	return TriangulatePoints(X, Y, ClassifyUnitSquare)
}

// ClassifyUnitSquare names a unit square boundary edge by the side it
// lies on. Corners resolve left/right before bottom/top.
func ClassifyUnitSquare(a, b [2]float64) string {
	const tol = 1.e-12
	switch {
	case math.Abs(a[0]) < tol && math.Abs(b[0]) < tol:
		return "left"
	case math.Abs(a[0]-1) < tol && math.Abs(b[0]-1) < tol:
		return "right"
	case math.Abs(a[1]) < tol && math.Abs(b[1]) < tol:
		return "bottom"
	case math.Abs(a[1]-1) < tol && math.Abs(b[1]-1) < tol:
		return "top"
	}
	return "boundary"
}
