package dualgrid

import (
	"github.com/james-bowman/sparse"
)

// edgeIndexer maps undirected point pairs to edge ids during construction.
// Backed by a sparse DOK matrix over point indices; ids are stored with a +1
// offset so that the implicit zero means "no edge yet".
type edgeIndexer struct {
	m *sparse.DOK
}

func newEdgeIndexer(nPoint int) *edgeIndexer {
	return &edgeIndexer{m: sparse.NewDOK(nPoint, nPoint)}
}

func (ei *edgeIndexer) lookup(iPoint, jPoint int) (iEdge int, ok bool) {
	if jPoint < iPoint {
		iPoint, jPoint = jPoint, iPoint
	}
	v := ei.m.At(iPoint, jPoint)
	if v == 0 {
		return -1, false
	}
	return int(v) - 1, true
}

func (ei *edgeIndexer) insert(iPoint, jPoint, iEdge int) {
	if jPoint < iPoint {
		iPoint, jPoint = jPoint, iPoint
	}
	ei.m.Set(iPoint, jPoint, float64(iEdge+1))
}

// AdjacencyCSR exports the point connectivity graph in the compressed
// format consumed by graph partitioners
func (dg *DualGrid) AdjacencyCSR() (xadj, adjncy []int32) {
	xadj = make([]int32, dg.NPoint()+1)
	for iPoint := range dg.Points {
		xadj[iPoint+1] = xadj[iPoint] + int32(len(dg.Points[iPoint].Points))
	}
	adjncy = make([]int32, 0, xadj[dg.NPoint()])
	for iPoint := range dg.Points {
		for _, jPoint := range dg.Points[iPoint].Points {
			adjncy = append(adjncy, int32(jPoint))
		}
	}
	return
}
