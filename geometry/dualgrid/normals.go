package dualgrid

import "math"

// AddNodesCoord3D accumulates the signed area of the dual face patch
// spanned by the edge midpoint, the face centroid and the element centroid.
// Contributions are always additive: a boundary vertex collects one patch
// per adjacent face and the running sum is never reset.
func (v *Vertex) AddNodesCoord3D(edgeCG, faceCG, elemCG [3]float64) {
	var vecA, vecB [3]float64
	for iDim := 0; iDim < 3; iDim++ {
		vecA[iDim] = elemCG[iDim] - edgeCG[iDim]
		vecB[iDim] = faceCG[iDim] - edgeCG[iDim]
	}
	v.Normal[0] += 0.5 * (vecA[1]*vecB[2] - vecA[2]*vecB[1])
	v.Normal[1] -= 0.5 * (vecA[0]*vecB[2] - vecA[2]*vecB[0])
	v.Normal[2] += 0.5 * (vecA[0]*vecB[1] - vecA[1]*vecB[0])
}

// AddNodesCoord2D is the two dimensional variant: the patch is a segment
// and its normal is the rotated difference vector
func (v *Vertex) AddNodesCoord2D(edgeCG, elemCG [3]float64) {
	v.Normal[0] += elemCG[1] - edgeCG[1]
	v.Normal[1] -= elemCG[0] - edgeCG[0]
}

// AddNormal3D accumulates one dual face patch into an edge normal, with the
// same half-cross-product rule used for boundary vertices
func (e *Edge) AddNormal3D(edgeCG, faceCG, elemCG [3]float64) {
	var vecA, vecB [3]float64
	for iDim := 0; iDim < 3; iDim++ {
		vecA[iDim] = elemCG[iDim] - edgeCG[iDim]
		vecB[iDim] = faceCG[iDim] - edgeCG[iDim]
	}
	e.Normal[0] += 0.5 * (vecA[1]*vecB[2] - vecA[2]*vecB[1])
	e.Normal[1] -= 0.5 * (vecA[0]*vecB[2] - vecA[2]*vecB[0])
	e.Normal[2] += 0.5 * (vecA[0]*vecB[1] - vecA[1]*vecB[0])
}

// AddNormal2D accumulates the rotated midpoint-to-centroid segment
func (e *Edge) AddNormal2D(edgeCG, elemCG [3]float64) {
	e.Normal[0] += elemCG[1] - edgeCG[1]
	e.Normal[1] -= elemCG[0] - edgeCG[0]
}

// Norm returns the Euclidean length of the first dim components of vec
func Norm(dim int, vec [3]float64) float64 {
	var sum float64
	for iDim := 0; iDim < dim; iDim++ {
		sum += vec[iDim] * vec[iDim]
	}
	return math.Sqrt(sum)
}

// Cross computes a x b
func Cross(a, b [3]float64) (c [3]float64) {
	c[0] = a[1]*b[2] - a[2]*b[1]
	c[1] = a[2]*b[0] - a[0]*b[2]
	c[2] = a[0]*b[1] - a[1]*b[0]
	return
}
