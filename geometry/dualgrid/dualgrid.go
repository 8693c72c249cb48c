package dualgrid

import "fmt"

// Point is one node of the dual grid. The control volume is the median dual
// cell built around the primal node. Neighbor connectivity is stored as
// parallel slices of edge and point ids.
type Point struct {
	ID             int
	Volume         float64 // Median dual control volume
	PeriodicVolume float64 // Additional volume from periodic images
	IsDomain       bool    // false for halo points owned by another rank
	IsSymmetry     bool
	IsInOutFar     bool
	IsSolid        bool
	Edges          []int // Edge id per neighbor
	Points         []int // Neighbor point id per neighbor
}

// Edge is an undirected point pair with an area-weighted normal. The stored
// normal corresponds to traversal from the lower to the higher point index;
// the sign for the opposite traversal is derived at the use site, never
// cached here.
type Edge struct {
	Points [2]int
	Normal [3]float64 // z = 0 in 2D
}

// Vertex is one boundary face attached to a single marker and point. The
// normal accumulates half-cross-product contributions from every adjacent
// face patch. VarCoord/VarRot carry mesh motion state for the deformation
// machinery and are not read by the gradient kernels.
type Vertex struct {
	Node     int
	Normal   [3]float64
	VarCoord [3]float64
	VarRot   []float64
}

// Marker is one boundary patch of the mesh
type Marker struct {
	Name     string
	BC       BCKind
	Kind     MarkerKind
	Vertices []*Vertex
}

// DualGrid owns all point, edge and vertex records. Storage is contiguous
// and indexed by stable integer ids; nothing aliases these records outside
// the lifetime of the grid.
type DualGrid struct {
	Dim     int
	Points  []Point
	Edges   []Edge
	Markers []*Marker
	NOwned  int // Points [0, NOwned) are owned, the rest are halo
}

func (dg *DualGrid) NDim() int         { return dg.Dim }
func (dg *DualGrid) NPoint() int       { return len(dg.Points) }
func (dg *DualGrid) NPointDomain() int { return dg.NOwned }
func (dg *DualGrid) NMarker() int      { return len(dg.Markers) }

func (dg *DualGrid) NNeighbor(iPoint int) int { return len(dg.Points[iPoint].Points) }

// Neighbor returns the iNeigh-th neighbor of iPoint and the connecting edge
func (dg *DualGrid) Neighbor(iPoint, iNeigh int) (jPoint, iEdge int) {
	p := &dg.Points[iPoint]
	return p.Points[iNeigh], p.Edges[iNeigh]
}

func (dg *DualGrid) EdgeNormal(iEdge int) [3]float64 { return dg.Edges[iEdge].Normal }

func (dg *DualGrid) Volume(iPoint int) float64         { return dg.Points[iPoint].Volume }
func (dg *DualGrid) PeriodicVolume(iPoint int) float64 { return dg.Points[iPoint].PeriodicVolume }
func (dg *DualGrid) IsDomain(iPoint int) bool          { return dg.Points[iPoint].IsDomain }
func (dg *DualGrid) IsSymmetry(iPoint int) bool        { return dg.Points[iPoint].IsSymmetry }
func (dg *DualGrid) IsInOutFar(iPoint int) bool        { return dg.Points[iPoint].IsInOutFar }
func (dg *DualGrid) IsSolid(iPoint int) bool           { return dg.Points[iPoint].IsSolid }

func (dg *DualGrid) MarkerKind(iMarker int) MarkerKind { return dg.Markers[iMarker].Kind }
func (dg *DualGrid) NVertex(iMarker int) int           { return len(dg.Markers[iMarker].Vertices) }

func (dg *DualGrid) VertexPoint(iMarker, iVertex int) int {
	return dg.Markers[iMarker].Vertices[iVertex].Node
}

func (dg *DualGrid) VertexNormal(iMarker, iVertex int) [3]float64 {
	return dg.Markers[iMarker].Vertices[iVertex].Normal
}

// NPeriodicPairs counts the periodic marker pairs of the grid
func (dg *DualGrid) NPeriodicPairs() int {
	var n int
	for _, m := range dg.Markers {
		if m.Kind == MarkerPeriodic {
			n++
		}
	}
	return n / 2
}

// SymmetryVertexNormal finds the vertex normal of iPoint by searching every
// symmetry marker for a vertex referencing it. This is a must-find search:
// a miss means the marker topology is structurally invalid and the run
// cannot continue.
func (dg *DualGrid) SymmetryVertexNormal(iPoint int) [3]float64 {
	for _, m := range dg.Markers {
		if m.Kind != MarkerSymmetry {
			continue
		}
		for _, v := range m.Vertices {
			if v.Node == iPoint {
				return v.Normal
			}
		}
	}
	panic(fmt.Sprintf("dualgrid: point %d is not on any symmetry marker", iPoint))
}

// EdgeIndex returns the edge connecting iPoint and jPoint, or -1
func (dg *DualGrid) EdgeIndex(iPoint, jPoint int) int {
	p := &dg.Points[iPoint]
	for n, nbr := range p.Points {
		if nbr == jPoint {
			return p.Edges[n]
		}
	}
	return -1
}
