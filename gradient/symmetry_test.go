package gradient

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"gonum.org/v1/gonum/mat"
)

func TestReflectGradientScalarRows(t *testing.T) {
	// Plane normal along x: the projection simply zeroes the x component
	// of every scalar row
	tensorMap := BaseFromNormal(2, [3]float64{1, 0, 0})
	grads := mat.NewDense(2, 2, []float64{
		3, 5,
		-2, 7,
	})
	ReflectGradient(2, 0, 2, -1, tensorMap, grads)

	assert.True(t, near(grads.At(0, 0), 0))
	assert.True(t, near(grads.At(0, 1), 5))
	assert.True(t, near(grads.At(1, 0), 0))
	assert.True(t, near(grads.At(1, 1), 7))
}

func TestReflectGradientVelocityBlock(t *testing.T) {
	// Plane normal along x, velocity block [u, v] first: the forbidden
	// couplings du/dy and dv/dx vanish while du/dx and dv/dy survive
	tensorMap := BaseFromNormal(2, [3]float64{1, 0, 0})
	grads := mat.NewDense(3, 2, []float64{
		2, 3,
		4, 5,
		6, 7,
	})
	ReflectGradient(2, 0, 3, 0, tensorMap, grads)

	assert.True(t, near(grads.At(0, 0), 2))
	assert.True(t, near(grads.At(0, 1), 0))
	assert.True(t, near(grads.At(1, 0), 0))
	assert.True(t, near(grads.At(1, 1), 5))
	// The trailing scalar row loses its normal component
	assert.True(t, near(grads.At(2, 0), 0))
	assert.True(t, near(grads.At(2, 1), 7))
}

func TestReflectGradientIdempotent(t *testing.T) {
	// Applying the projection twice changes nothing, in any base
	normals := [][3]float64{
		{1, 2, 0.5},
		{0, 0, 1},
		{-0.3, 0.9, -0.1},
	}
	for _, n := range normals {
		unit := UnitNormal(3, n)
		tensorMap := BaseFromNormal(3, unit)
		grads := mat.NewDense(5, 3, []float64{
			2, 3, -1,
			4, 5, 0.5,
			6, 7, 2,
			-1, 0.25, 3,
			1, 1, 1,
		})
		ReflectGradient(3, 0, 5, 1, tensorMap, grads)
		once := mat.DenseCopyOf(grads)
		ReflectGradient(3, 0, 5, 1, tensorMap, grads)

		for iVar := 0; iVar < 5; iVar++ {
			for iDim := 0; iDim < 3; iDim++ {
				assert.True(t, near(once.At(iVar, iDim), grads.At(iVar, iDim), 1.e-12),
					fmt.Sprintf("normal %v entry (%d,%d)", n, iVar, iDim))
			}
		}
	}
}

func TestReflectGradientSkipsVariableSubrange(t *testing.T) {
	// Rows outside [varBegin, varEnd) are untouched
	tensorMap := BaseFromNormal(2, [3]float64{0, 1, 0})
	grads := mat.NewDense(3, 2, []float64{
		2, 3,
		4, 5,
		6, 7,
	})
	ReflectGradient(2, 1, 2, -1, tensorMap, grads)

	assert.True(t, near(grads.At(0, 0), 2))
	assert.True(t, near(grads.At(0, 1), 3))
	assert.True(t, near(grads.At(1, 0), 4))
	assert.True(t, near(grads.At(1, 1), 0))
	assert.True(t, near(grads.At(2, 0), 6))
	assert.True(t, near(grads.At(2, 1), 7))
}
