package readfiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gograd/geometry/dualgrid"
)

const square2D = `
% Unit square, two triangles
NDIME= 2
NPOIN= 4
0.0 0.0 0
1.0 0.0 1
1.0 1.0 2
0.0 1.0 3
NELEM= 2
5 0 1 2 0
5 0 2 3 1
NMARK= 2
MARKER_TAG= wall
MARKER_ELEMS= 2
3 0 1
3 1 2
MARKER_TAG= farfield
MARKER_ELEMS= 2
3 2 3
3 3 0
`

const singleTet = `
NDIME= 3
NPOIN= 4
0.0 0.0 0.0
1.0 0.0 0.0
0.0 1.0 0.0
0.0 0.0 1.0
NELEM= 1
10 0 1 2 3
NMARK= 1
MARKER_TAG= wall
MARKER_ELEMS= 4
5 0 2 1
5 0 1 3
5 0 3 2
5 1 2 3
`

func writeMesh(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mesh.su2")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadSU2Square(t *testing.T) {
	pm, err := ReadSU2(writeMesh(t, square2D))
	assert.NoError(t, err)

	assert.Equal(t, 2, pm.Dim)
	assert.Equal(t, 4, len(pm.Coords))
	assert.Equal(t, 2, len(pm.Elements))
	assert.Equal(t, dualgrid.Tri, pm.ElemTypes[0])
	assert.Equal(t, []int{0, 2, 3}, pm.Elements[1])
	assert.Equal(t, 1.0, pm.Coords[2][0])
	assert.Equal(t, 1.0, pm.Coords[2][1])

	assert.Equal(t, 2, len(pm.Markers))
	assert.Equal(t, "wall", pm.Markers[0].Name)
	assert.Equal(t, "farfield", pm.Markers[1].Name)
	assert.Equal(t, [][]int{{0, 1}, {1, 2}}, pm.Markers[0].Faces)

	// The parsed mesh feeds the dual grid builder directly
	dg, err := dualgrid.BuildFromPrimal(pm, nil)
	assert.NoError(t, err)
	assert.Equal(t, 4, dg.NPoint())
	var total float64
	for iPoint := 0; iPoint < dg.NPoint(); iPoint++ {
		total += dg.Volume(iPoint)
	}
	assert.InDelta(t, 1.0, total, 1.e-12)
}

func TestReadSU2Tet(t *testing.T) {
	pm, err := ReadSU2(writeMesh(t, singleTet))
	assert.NoError(t, err)

	assert.Equal(t, 3, pm.Dim)
	assert.Equal(t, dualgrid.Tet, pm.ElemTypes[0])
	assert.Equal(t, 4, len(pm.Markers[0].Faces))
}

func TestReadSU2Errors(t *testing.T) {
	_, err := ReadSU2(writeMesh(t, "NPOIN= 1\n0.0 0.0\n"))
	assert.Error(t, err, "missing NDIME")

	_, err = ReadSU2(writeMesh(t, "NDIME= 2\nNPOIN= 1\n0.0 0.0\nNELEM= 1\n10 0 1 2 3\n"))
	assert.Error(t, err, "tet in a 2D mesh")

	_, err = ReadSU2(filepath.Join(t.TempDir(), "missing.su2"))
	assert.Error(t, err)
}
