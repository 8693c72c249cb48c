package gradient

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// BaseFromNormal constructs an orthonormal base from a unit normal: row 0
// is the normal, the remaining rows are tangential. The tangent direction
// is arbitrary as long as t.n = 0 and |t| = 1; in 3D the seed tangent
// branches on the larger of |n_y|, |n_z| to stay away from degeneracy, and
// the third direction closes a right-handed triad by cross product. The
// inverse of the returned map is its transpose. Callers must pass a
// unit-length normal.
func BaseFromNormal(dim int, unitNormal [3]float64) *mat.Dense {
	tensorMap := mat.NewDense(dim, dim, nil)
	switch dim {
	case 2:
		tensorMap.SetRow(0, []float64{unitNormal[0], unitNormal[1]})
		tensorMap.SetRow(1, []float64{-unitNormal[1], unitNormal[0]})
	case 3:
		var tangential [3]float64
		if math.Abs(unitNormal[1]) > math.Abs(unitNormal[2]) {
			// n = ai + bj + ck, t = bi + (c-a)j - bk
			tangential[0] = unitNormal[1]
			tangential[1] = unitNormal[2] - unitNormal[0]
			tangential[2] = -unitNormal[1]
		} else {
			// t = ci - cj + (b-a)k
			tangential[0] = unitNormal[2]
			tangential[1] = -unitNormal[2]
			tangential[2] = unitNormal[1] - unitNormal[0]
		}
		norm := math.Sqrt(tangential[0]*tangential[0] +
			tangential[1]*tangential[1] + tangential[2]*tangential[2])
		for iDim := 0; iDim < 3; iDim++ {
			tangential[iDim] /= norm
		}
		orthogonal := [3]float64{
			unitNormal[1]*tangential[2] - unitNormal[2]*tangential[1],
			unitNormal[2]*tangential[0] - unitNormal[0]*tangential[2],
			unitNormal[0]*tangential[1] - unitNormal[1]*tangential[0],
		}
		tensorMap.SetRow(0, unitNormal[:])
		tensorMap.SetRow(1, tangential[:])
		tensorMap.SetRow(2, orthogonal[:])
	default:
		panic(fmt.Sprintf("gradient: cannot build a base for dimension %d", dim))
	}
	return tensorMap
}

// UnitNormal scales the first dim components of a normal to unit length
func UnitNormal(dim int, normal [3]float64) [3]float64 {
	var norm float64
	for iDim := 0; iDim < dim; iDim++ {
		norm += normal[iDim] * normal[iDim]
	}
	norm = math.Sqrt(norm)
	var unit [3]float64
	for iDim := 0; iDim < dim; iDim++ {
		unit[iDim] = normal[iDim] / norm
	}
	return unit
}
