package dualgrid

import (
	"fmt"
	"sort"
)

// PrimalMesh is the element/node description the dual grid is built from,
// as produced by the mesh readers or the test generators
type PrimalMesh struct {
	Dim       int
	Coords    [][3]float64
	ElemTypes []ElemType
	Elements  [][]int
	Markers   []PrimalMarker
}

// PrimalMarker is one named boundary patch: segments in 2D, triangles in 3D
type PrimalMarker struct {
	Name  string
	Faces [][]int
}

var triEdges = [][2]int{{0, 1}, {1, 2}, {2, 0}}
var quadEdges = [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
var tetEdges = [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
var tetFaces = [][3]int{{0, 1, 2}, {0, 2, 3}, {0, 3, 1}, {1, 3, 2}}

func elemEdges(et ElemType) [][2]int {
	switch et {
	case Tri:
		return triEdges
	case Quad:
		return quadEdges
	case Tet:
		return tetEdges
	}
	panic(fmt.Sprintf("dualgrid: unsupported element type %v", et))
}

// BuildFromPrimal constructs the median dual grid: the edge table with
// area-weighted normals, the control volumes, and the boundary vertices
// with their accumulated normals. Marker kinds are resolved through the
// supplied name map, falling back to ParseBCName for unlisted markers.
func BuildFromPrimal(pm *PrimalMesh, kinds map[string]BCKind) (*DualGrid, error) {
	if pm.Dim != 2 && pm.Dim != 3 {
		return nil, fmt.Errorf("dualgrid: unsupported dimension %d", pm.Dim)
	}
	dg := &DualGrid{
		Dim:    pm.Dim,
		Points: make([]Point, len(pm.Coords)),
		NOwned: len(pm.Coords),
	}
	for iPoint := range dg.Points {
		dg.Points[iPoint].ID = iPoint
		dg.Points[iPoint].IsDomain = true
	}

	ei := newEdgeIndexer(len(pm.Coords))
	edgeOf := func(a, b int) int {
		iEdge, ok := ei.lookup(a, b)
		if !ok {
			iEdge = len(dg.Edges)
			lo, hi := a, b
			if hi < lo {
				lo, hi = hi, lo
			}
			dg.Edges = append(dg.Edges, Edge{Points: [2]int{lo, hi}})
			ei.insert(a, b, iEdge)
			dg.Points[a].Edges = append(dg.Points[a].Edges, iEdge)
			dg.Points[a].Points = append(dg.Points[a].Points, b)
			dg.Points[b].Edges = append(dg.Points[b].Edges, iEdge)
			dg.Points[b].Points = append(dg.Points[b].Points, a)
		}
		return iEdge
	}

	// Interior pass: accumulate edge normals and control volumes
	for iElem, elem := range pm.Elements {
		et := pm.ElemTypes[iElem]
		if len(elem) != et.NNodes() {
			return nil, fmt.Errorf("dualgrid: element %d has %d nodes, want %d for %v",
				iElem, len(elem), et.NNodes(), et)
		}
		elemCoords := make([][3]float64, len(elem))
		for n, node := range elem {
			elemCoords[n] = pm.Coords[node]
		}
		elemCG := Centroid(elemCoords...)

		switch pm.Dim {
		case 2:
			for _, le := range elemEdges(et) {
				a, b := elem[le[0]], elem[le[1]]
				iEdge := edgeOf(a, b)
				edgeCG := Midpoint(pm.Coords[a], pm.Coords[b])
				accumulateEdgeNormal2D(&dg.Edges[iEdge], pm.Coords, edgeCG, elemCG)
			}
			accumulateVolumes2D(dg, pm, elem, elemCG)
		case 3:
			if et != Tet {
				return nil, fmt.Errorf("dualgrid: 3D supports tetrahedra only, got %v", et)
			}
			for _, le := range tetEdges {
				a, b := elem[le[0]], elem[le[1]]
				iEdge := edgeOf(a, b)
				edgeCG := Midpoint(pm.Coords[a], pm.Coords[b])
				for _, lf := range tetFaces {
					if !faceHasEdge(lf, le) {
						continue
					}
					faceCG := Centroid(pm.Coords[elem[lf[0]]], pm.Coords[elem[lf[1]]],
						pm.Coords[elem[lf[2]]])
					accumulateEdgeNormal3D(&dg.Edges[iEdge], pm.Coords, edgeCG,
						faceCG, elemCG)
				}
			}
			// The barycentric subdivision of a simplex has equal volume
			// cells, so each corner owns a quarter of the tetrahedron
			vol := TetVolume(elemCoords[0], elemCoords[1], elemCoords[2], elemCoords[3])
			for _, node := range elem {
				dg.Points[node].Volume += 0.25 * vol
			}
		}
	}

	// Boundary pass: markers, vertices and their outward normals
	faceElem := buildFaceElemIndex(pm)
	for _, pmk := range pm.Markers {
		bc, listed := kinds[pmk.Name]
		if !listed {
			bc = ParseBCName(pmk.Name)
		}
		marker := &Marker{Name: pmk.Name, BC: bc, Kind: bc.Kind()}
		vertexOf := make(map[int]*Vertex)
		for _, face := range pmk.Faces {
			iElem, err := faceElem.adjacentElement(face)
			if err != nil {
				return nil, fmt.Errorf("dualgrid: marker %q: %v", pmk.Name, err)
			}
			elem := pm.Elements[iElem]
			elemCoords := make([][3]float64, len(elem))
			for n, node := range elem {
				elemCoords[n] = pm.Coords[node]
			}
			elemCG := Centroid(elemCoords...)
			for _, node := range face {
				v, ok := vertexOf[node]
				if !ok {
					v = &Vertex{Node: node}
					vertexOf[node] = v
					marker.Vertices = append(marker.Vertices, v)
				}
				accumulateVertexNormal(pm, v, face, node, elemCG)
			}
		}
		// Stable vertex order for reproducible marker traversal
		sort.Slice(marker.Vertices, func(i, j int) bool {
			return marker.Vertices[i].Node < marker.Vertices[j].Node
		})
		for _, v := range marker.Vertices {
			p := &dg.Points[v.Node]
			switch {
			case marker.Kind == MarkerSymmetry:
				p.IsSymmetry = true
			case bc.IsInOutFar():
				p.IsInOutFar = true
			case bc.IsSolid():
				p.IsSolid = true
			}
		}
		dg.Markers = append(dg.Markers, marker)
	}
	return dg, nil
}

// accumulateEdgeNormal2D adds the rotated midpoint-to-centroid segment to
// the edge normal, oriented for traversal from the lower to the higher
// point index
func accumulateEdgeNormal2D(e *Edge, coords [][3]float64, edgeCG, elemCG [3]float64) {
	lo, hi := e.Points[0], e.Points[1]
	n0 := elemCG[1] - edgeCG[1]
	n1 := -(elemCG[0] - edgeCG[0])
	if n0*(coords[hi][0]-coords[lo][0])+n1*(coords[hi][1]-coords[lo][1]) >= 0 {
		e.AddNormal2D(edgeCG, elemCG)
	} else {
		e.AddNormal2D(elemCG, edgeCG)
	}
}

// accumulateEdgeNormal3D adds one half-cross-product dual face patch,
// oriented lower to higher point index
func accumulateEdgeNormal3D(e *Edge, coords [][3]float64, edgeCG, faceCG, elemCG [3]float64) {
	lo, hi := e.Points[0], e.Points[1]
	var vecA, vecB, t [3]float64
	for iDim := 0; iDim < 3; iDim++ {
		vecA[iDim] = elemCG[iDim] - edgeCG[iDim]
		vecB[iDim] = faceCG[iDim] - edgeCG[iDim]
		t[iDim] = coords[hi][iDim] - coords[lo][iDim]
	}
	cp := Cross(vecA, vecB)
	if cp[0]*t[0]+cp[1]*t[1]+cp[2]*t[2] >= 0 {
		e.AddNormal3D(edgeCG, faceCG, elemCG)
	} else {
		e.AddNormal3D(edgeCG, elemCG, faceCG)
	}
}

// accumulateVolumes2D assigns each element corner its median dual sub-cell
// by the shoelace rule over (node, edge midpoint, centroid, edge midpoint)
func accumulateVolumes2D(dg *DualGrid, pm *PrimalMesh, elem []int, elemCG [3]float64) {
	n := len(elem)
	for c, node := range elem {
		prev := elem[(c+n-1)%n]
		next := elem[(c+1)%n]
		mPrev := Midpoint(pm.Coords[node], pm.Coords[prev])
		mNext := Midpoint(pm.Coords[node], pm.Coords[next])
		dg.Points[node].Volume += PolyArea(pm.Coords[node], mNext, elemCG, mPrev)
	}
}

// accumulateVertexNormal adds the boundary face patch owned by node to the
// vertex normal, oriented out of the domain
func accumulateVertexNormal(pm *PrimalMesh, v *Vertex, face []int, node int, elemCG [3]float64) {
	switch pm.Dim {
	case 2:
		// Patch is the half segment from the node to the face midpoint
		m := Midpoint(pm.Coords[face[0]], pm.Coords[face[1]])
		n0 := m[1] - pm.Coords[node][1]
		n1 := -(m[0] - pm.Coords[node][0])
		out0 := m[0] - elemCG[0]
		out1 := m[1] - elemCG[1]
		if n0*out0+n1*out1 >= 0 {
			v.AddNodesCoord2D(pm.Coords[node], m)
		} else {
			v.AddNodesCoord2D(m, pm.Coords[node])
		}
	case 3:
		// Patch is the quad (node, edge midpoint, face centroid, edge
		// midpoint), accumulated as two half-cross triangles
		var others []int
		for _, fn := range face {
			if fn != node {
				others = append(others, fn)
			}
		}
		faceCG := Centroid(pm.Coords[face[0]], pm.Coords[face[1]], pm.Coords[face[2]])
		m1 := Midpoint(pm.Coords[node], pm.Coords[others[0]])
		m2 := Midpoint(pm.Coords[node], pm.Coords[others[1]])

		var fa, fb, out [3]float64
		for iDim := 0; iDim < 3; iDim++ {
			fa[iDim] = m1[iDim] - pm.Coords[node][iDim]
			fb[iDim] = faceCG[iDim] - pm.Coords[node][iDim]
			out[iDim] = faceCG[iDim] - elemCG[iDim]
		}
		cp := Cross(fa, fb)
		if cp[0]*out[0]+cp[1]*out[1]+cp[2]*out[2] >= 0 {
			v.AddNodesCoord3D(pm.Coords[node], faceCG, m1)
			v.AddNodesCoord3D(pm.Coords[node], m2, faceCG)
		} else {
			v.AddNodesCoord3D(pm.Coords[node], m1, faceCG)
			v.AddNodesCoord3D(pm.Coords[node], faceCG, m2)
		}
	}
}

func faceHasEdge(face [3]int, edge [2]int) bool {
	var hasA, hasB bool
	for _, n := range face {
		if n == edge[0] {
			hasA = true
		}
		if n == edge[1] {
			hasB = true
		}
	}
	return hasA && hasB
}

// faceElemIndex resolves a boundary face to the single element containing
// all of its nodes
type faceElemIndex struct {
	pm      *PrimalMesh
	elemsOf map[int][]int // node -> elements
}

func buildFaceElemIndex(pm *PrimalMesh) *faceElemIndex {
	fei := &faceElemIndex{pm: pm, elemsOf: make(map[int][]int)}
	for iElem, elem := range pm.Elements {
		for _, node := range elem {
			fei.elemsOf[node] = append(fei.elemsOf[node], iElem)
		}
	}
	return fei
}

func (fei *faceElemIndex) adjacentElement(face []int) (int, error) {
	for _, iElem := range fei.elemsOf[face[0]] {
		if elemHasAll(fei.pm.Elements[iElem], face) {
			return iElem, nil
		}
	}
	return -1, fmt.Errorf("no element adjacent to boundary face %v", face)
}

func elemHasAll(elem, face []int) bool {
	for _, fn := range face {
		found := false
		for _, en := range elem {
			if en == fn {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
