package gradient

import "github.com/notargets/gograd/geometry/dualgrid"

// Geometry is the capability surface the engine needs from the dual grid
type Geometry interface {
	NDim() int
	NPoint() int
	NPointDomain() int
	NNeighbor(iPoint int) int
	Neighbor(iPoint, iNeigh int) (jPoint, iEdge int)
	EdgeNormal(iEdge int) [3]float64
	Volume(iPoint int) float64
	PeriodicVolume(iPoint int) float64
	IsDomain(iPoint int) bool
	IsSymmetry(iPoint int) bool
	IsInOutFar(iPoint int) bool
	IsSolid(iPoint int) bool
	NMarker() int
	NVertex(iMarker int) int
	VertexPoint(iMarker, iVertex int) int
	VertexNormal(iMarker, iVertex int) [3]float64
	SymmetryVertexNormal(iPoint int) [3]float64
}

// Config supplies the boundary classification of the markers
type Config interface {
	MarkerKind(iMarker int) dualgrid.MarkerKind
	NPeriodicPairs() int
}

// Field is a read-only view of the variables whose gradients are requested
type Field interface {
	Value(iPoint, iVar int) float64
}

// FieldFunc adapts a function to the Field interface
type FieldFunc func(iPoint, iVar int) float64

func (f FieldFunc) Value(iPoint, iVar int) float64 { return f(iPoint, iVar) }

// Gradient is the output tensor, addressable as (point, variable,
// dimension). It is allocated once per mesh level and fully rewritten on
// every reconstruction pass; each point's row is owned exclusively by the
// worker processing that point.
type Gradient struct {
	NPoint, NVar, NDim int
	data               []float64
}

func NewGradient(nPoint, nVar, nDim int) *Gradient {
	return &Gradient{
		NPoint: nPoint,
		NVar:   nVar,
		NDim:   nDim,
		data:   make([]float64, nPoint*nVar*nDim),
	}
}

func (g *Gradient) idx(iPoint, iVar, iDim int) int {
	return (iPoint*g.NVar+iVar)*g.NDim + iDim
}

func (g *Gradient) At(iPoint, iVar, iDim int) float64 { return g.data[g.idx(iPoint, iVar, iDim)] }

func (g *Gradient) Set(iPoint, iVar, iDim int, val float64) {
	g.data[g.idx(iPoint, iVar, iDim)] = val
}

func (g *Gradient) Add(iPoint, iVar, iDim int, val float64) {
	g.data[g.idx(iPoint, iVar, iDim)] += val
}

// Zero clears the gradient row of iPoint for the requested variable range
func (g *Gradient) Zero(iPoint, varBegin, varEnd int) {
	for iVar := varBegin; iVar < varEnd; iVar++ {
		for iDim := 0; iDim < g.NDim; iDim++ {
			g.data[g.idx(iPoint, iVar, iDim)] = 0
		}
	}
}

// RowCopy returns a copy of the full row of iPoint, in the layout consumed
// by the halo exchange
func (g *Gradient) RowCopy(iPoint int) []float64 {
	row := make([]float64, g.NVar*g.NDim)
	copy(row, g.data[iPoint*g.NVar*g.NDim:(iPoint+1)*g.NVar*g.NDim])
	return row
}

// SetRow overwrites the full row of iPoint
func (g *Gradient) SetRow(iPoint int, row []float64) {
	copy(g.data[iPoint*g.NVar*g.NDim:(iPoint+1)*g.NVar*g.NDim], row)
}

// Recorder is the recording-scope contract of the algorithmic
// differentiation tape. StartPreacc reports whether a preaccumulation scope
// was opened; the engine refuses to open one under hybrid-parallel
// execution because the tape is not thread-safe at that granularity, and
// records at full granularity instead.
type Recorder interface {
	StartPreacc() bool
	SetPreaccIn(vals ...float64)
	SetPreaccOut(vals ...float64)
	EndPreacc()
}

// NopRecorder is the inactive-tape recorder
type NopRecorder struct{}

func (NopRecorder) StartPreacc() bool            { return false }
func (NopRecorder) SetPreaccIn(vals ...float64)  {}
func (NopRecorder) SetPreaccOut(vals ...float64) {}
func (NopRecorder) EndPreacc()                   {}
