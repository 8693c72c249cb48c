package gradient

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"gonum.org/v1/gonum/mat"
)

func TestBaseFromNormal2D(t *testing.T) {
	unit := UnitNormal(2, [3]float64{3, 4, 0})
	b := BaseFromNormal(2, unit)
	fmt.Printf("B =\n%v\n", mat.Formatted(b, mat.Squeeze()))

	assert.True(t, near(b.At(0, 0), 0.6))
	assert.True(t, near(b.At(0, 1), 0.8))
	// Tangent is the quarter turn of the normal
	assert.True(t, near(b.At(1, 0), -0.8))
	assert.True(t, near(b.At(1, 1), 0.6))
	assertOrthonormal(t, b, 2)
}

func TestBaseFromNormal3D(t *testing.T) {
	// Both tangent seed branches plus axis-aligned degeneracy candidates
	normals := [][3]float64{
		{1, 2, 0.5},
		{1, 0.5, 2},
		{0, 0, 1},
		{0, 1, 0},
		{1, 0, 0},
		{-0.3, 0.9, -0.1},
	}
	for _, n := range normals {
		unit := UnitNormal(3, n)
		b := BaseFromNormal(3, unit)
		assertOrthonormal(t, b, 3)

		// Right handed: row2 = row0 x row1
		cp := [3]float64{
			b.At(0, 1)*b.At(1, 2) - b.At(0, 2)*b.At(1, 1),
			b.At(0, 2)*b.At(1, 0) - b.At(0, 0)*b.At(1, 2),
			b.At(0, 0)*b.At(1, 1) - b.At(0, 1)*b.At(1, 0),
		}
		for iDim := 0; iDim < 3; iDim++ {
			assert.True(t, near(cp[iDim], b.At(2, iDim)),
				fmt.Sprintf("normal %v dim %d", n, iDim))
		}
	}
}

func TestBaseFromNormalBadDim(t *testing.T) {
	assert.Panics(t, func() { BaseFromNormal(4, [3]float64{1, 0, 0}) })
}

func TestUnitNormal(t *testing.T) {
	u := UnitNormal(3, [3]float64{0, -2, 0})
	assert.True(t, near(u[1], -1.0))
	assert.True(t, near(u[0], 0))
	assert.True(t, near(u[2], 0))
}

// assertOrthonormal checks B Bt = I, which also makes Bt the inverse
func assertOrthonormal(t *testing.T, b *mat.Dense, dim int) {
	var prod mat.Dense
	prod.Mul(b, b.T())
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.True(t, near(prod.At(i, j), want, 1.e-12),
				fmt.Sprintf("(%d,%d) = %v", i, j, prod.At(i, j)))
		}
	}
}
