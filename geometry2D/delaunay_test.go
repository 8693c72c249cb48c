package geometry2D

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gograd/geometry/dualgrid"
)

func TestUnitSquareTriMesh(t *testing.T) {
	pm, err := UnitSquareTriMesh(3)
	assert.NoError(t, err)

	assert.Equal(t, 2, pm.Dim)
	assert.Equal(t, 9, len(pm.Coords))
	// 4 cells, 2 triangles each
	assert.Equal(t, 8, len(pm.Elements))
	for _, et := range pm.ElemTypes {
		assert.Equal(t, dualgrid.Tri, et)
	}

	byName := make(map[string]int)
	for _, m := range pm.Markers {
		byName[m.Name] = len(m.Faces)
	}
	assert.Equal(t, map[string]int{"left": 2, "right": 2, "bottom": 2, "top": 2}, byName)

	// The generated mesh must survive the dual grid build with full area
	dg, err := dualgrid.BuildFromPrimal(pm, nil)
	assert.NoError(t, err)
	var total float64
	for iPoint := 0; iPoint < dg.NPoint(); iPoint++ {
		total += dg.Volume(iPoint)
	}
	assert.InDelta(t, 1.0, total, 1.e-12)
}

func TestTriangulatePointsErrors(t *testing.T) {
	_, err := TriangulatePoints([]float64{0, 1}, []float64{0}, nil)
	assert.Error(t, err)
	_, err = TriangulatePoints([]float64{0, 1}, []float64{0, 0}, nil)
	assert.Error(t, err)
	_, err = UnitSquareTriMesh(1)
	assert.Error(t, err)
}

func TestClassifyUnitSquare(t *testing.T) {
	assert.Equal(t, "left", ClassifyUnitSquare([2]float64{0, 0}, [2]float64{0, 0.5}))
	assert.Equal(t, "right", ClassifyUnitSquare([2]float64{1, 0.5}, [2]float64{1, 1}))
	assert.Equal(t, "bottom", ClassifyUnitSquare([2]float64{0.5, 0}, [2]float64{1, 0}))
	assert.Equal(t, "top", ClassifyUnitSquare([2]float64{0, 1}, [2]float64{0.5, 1}))
	assert.Equal(t, "boundary", ClassifyUnitSquare([2]float64{0.3, 0.3}, [2]float64{0.6, 0.6}))
}
