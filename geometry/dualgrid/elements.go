package dualgrid

import "math"

// ElemType identifies the primal element shapes the builder understands
type ElemType uint8

const (
	Tri ElemType = iota
	Quad
	Tet
)

func (et ElemType) String() string {
	switch et {
	case Tri:
		return "Tri"
	case Quad:
		return "Quad"
	case Tet:
		return "Tet"
	}
	return "Unknown"
}

// NNodes returns the node count of the element shape
func (et ElemType) NNodes() int {
	switch et {
	case Tri:
		return 3
	case Quad:
		return 4
	case Tet:
		return 4
	}
	return 0
}

// TetVolume computes the volume of a tetrahedron from its corner
// coordinates, |(r1 x r2) . r3| / 6
func TetVolume(c0, c1, c2, c3 [3]float64) float64 {
	var r1, r2, r3 [3]float64
	for iDim := 0; iDim < 3; iDim++ {
		r1[iDim] = c1[iDim] - c0[iDim]
		r2[iDim] = c2[iDim] - c0[iDim]
		r3[iDim] = c3[iDim] - c0[iDim]
	}
	cp := Cross(r1, r2)
	return math.Abs(cp[0]*r3[0]+cp[1]*r3[1]+cp[2]*r3[2]) / 6.0
}

// TriArea computes the area of a triangle in the xy plane
func TriArea(c0, c1, c2 [3]float64) float64 {
	a0 := c0[0] - c2[0]
	a1 := c0[1] - c2[1]
	b0 := c1[0] - c2[0]
	b1 := c1[1] - c2[1]
	return 0.5 * math.Abs(a0*b1-a1*b0)
}

// QuadArea computes the area of a quadrilateral as two triangle halves
func QuadArea(c0, c1, c2, c3 [3]float64) float64 {
	return TriArea(c0, c1, c2) + TriArea(c0, c2, c3)
}

// PolyArea computes the area of a planar polygon in the xy plane by the
// shoelace rule. Used for the corner sub-cells of the 2D median dual.
func PolyArea(coords ...[3]float64) float64 {
	var sum float64
	n := len(coords)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += coords[i][0]*coords[j][1] - coords[j][0]*coords[i][1]
	}
	return 0.5 * math.Abs(sum)
}

// Centroid averages the given coordinates
func Centroid(coords ...[3]float64) (cg [3]float64) {
	for _, c := range coords {
		for iDim := 0; iDim < 3; iDim++ {
			cg[iDim] += c[iDim]
		}
	}
	inv := 1.0 / float64(len(coords))
	for iDim := 0; iDim < 3; iDim++ {
		cg[iDim] *= inv
	}
	return
}

// Midpoint averages two coordinates
func Midpoint(a, b [3]float64) (m [3]float64) {
	for iDim := 0; iDim < 3; iDim++ {
		m[iDim] = 0.5 * (a[iDim] + b[iDim])
	}
	return
}
