package gradient

import (
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gograd/parallel"

	"github.com/notargets/gograd/geometry/dualgrid"
)

// correctSymmetryMarkers re-derives the gradient at every symmetry vertex.
// The conditions imposed are (Blazek eq. 8.40):
//  1. n.grad(phi) = 0
//  2. n.grad(v.t) = 0
//  3. t.grad(v.n) = 0
//
// Each edge contributes its direct flux plus the flux mirrored through the
// plane; the factor 0.5 accounts for the mirrored control volume being
// twice the physical one. A tensor reflection through the plane-aligned
// base then cancels the forbidden couplings exactly.
func correctSymmetryMarkers(geom Geometry, cfg Config, field Field, opts Options, grad *Gradient) {
	nDim := geom.NDim()
	var flux, fluxReflected [maxNVar]float64

	for iMarker := 0; iMarker < geom.NMarker(); iMarker++ {
		if cfg.MarkerKind(iMarker) != dualgrid.MarkerSymmetry {
			continue
		}
		for iVertex := 0; iVertex < geom.NVertex(iMarker); iVertex++ {
			iPoint := geom.VertexPoint(iMarker, iVertex)

			// The whole marker is re-zeroed to prevent double-counting
			// points shared with other markers
			grad.Zero(iPoint, opts.VarBegin, opts.VarEnd)

			halfOnVol := 0.5 / (geom.Volume(iPoint) + geom.PeriodicVolume(iPoint))
			unit := UnitNormal(nDim, geom.VertexNormal(iMarker, iVertex))

			for iNeigh := 0; iNeigh < geom.NNeighbor(iPoint); iNeigh++ {
				jPoint, iEdge := geom.Neighbor(iPoint, iNeigh)
				area := geom.EdgeNormal(iEdge)

				// Mirror the dual face through the plane:
				// areaReflected = area - 2 (area.n) n
				var projArea float64
				for iDim := 0; iDim < nDim; iDim++ {
					projArea += area[iDim] * unit[iDim]
				}
				var areaReflected [3]float64
				for iDim := 0; iDim < nDim; iDim++ {
					areaReflected[iDim] = area[iDim] - 2.0*projArea*unit[iDim]
				}

				// The reflected flux of a scalar equals the original flux
				for iVar := opts.VarBegin; iVar < opts.VarEnd; iVar++ {
					flux[iVar] = edgeFlux(iPoint, jPoint, halfOnVol,
						field.Value(iPoint, iVar), field.Value(jPoint, iVar))
					fluxReflected[iVar] = flux[iVar]
				}

				if opts.KindComm == parallel.AuxVarGradient {
					zeroAxisymmetric(grad, iPoint)
				} else if opts.VelocityIndex >= 0 {
					// The vector part of the flux mirrors like the face
					var projFlux float64
					for iDim := 0; iDim < nDim; iDim++ {
						projFlux += flux[opts.VelocityIndex+iDim] * unit[iDim]
					}
					for iDim := 0; iDim < nDim; iDim++ {
						fluxReflected[opts.VelocityIndex+iDim] =
							flux[opts.VelocityIndex+iDim] - 2.0*projFlux*unit[iDim]
					}
				}

				for iVar := opts.VarBegin; iVar < opts.VarEnd; iVar++ {
					for iDim := 0; iDim < nDim; iDim++ {
						grad.Add(iPoint, iVar, iDim,
							0.5*(flux[iVar]*area[iDim]+fluxReflected[iVar]*areaReflected[iDim]))
					}
				}
			}

			if opts.KindComm != parallel.AuxVarGradient {
				reflectPointGradient(geom, opts, grad, unit, iPoint)
			}
		}
	}
}

// reflectPointGradient projects one point row through the plane-aligned
// base and back, cancelling the wall-normal components
func reflectPointGradient(geom Geometry, opts Options, grad *Gradient, unit [3]float64, iPoint int) {
	nDim := geom.NDim()
	tensorMap := BaseFromNormal(nDim, unit)

	grads := mat.NewDense(grad.NVar, nDim, nil)
	for iVar := opts.VarBegin; iVar < opts.VarEnd; iVar++ {
		for iDim := 0; iDim < nDim; iDim++ {
			grads.Set(iVar, iDim, grad.At(iPoint, iVar, iDim))
		}
	}

	ReflectGradient(nDim, opts.VarBegin, opts.VarEnd, opts.VelocityIndex, tensorMap, grads)

	for iVar := opts.VarBegin; iVar < opts.VarEnd; iVar++ {
		for iDim := 0; iDim < nDim; iDim++ {
			grad.Set(iPoint, iVar, iDim, grads.At(iVar, iDim))
		}
	}
}

// ReflectGradient rewrites one point's gradient rows in the base given by
// tensorMap (rows: normal, tangents). Scalar rows lose their normal
// component; the velocity block transforms as Q' = L Q Lt, has the
// normal/tangential couplings zeroed, and is mapped back with the
// transpose. The projection is idempotent.
func ReflectGradient(nDim, varBegin, varEnd, velIdx int, tensorMap *mat.Dense, grads *mat.Dense) {
	isFlow := velIdx >= 0

	if isFlow {
		gradVel := mat.NewDense(nDim, nDim, nil)
		for iVar := 0; iVar < nDim; iVar++ {
			for iDim := 0; iDim < nDim; iDim++ {
				gradVel.Set(iVar, iDim, grads.At(velIdx+iVar, iDim))
			}
		}

		// Q' = L Q Lt
		var tmp, reflected mat.Dense
		tmp.Mul(gradVel, tensorMap.T())
		reflected.Mul(tensorMap, &tmp)

		// Aligned with the normal along the first base direction:
		// dU/dy = dV/dx = 0, and in 3D dU/dz = dW/dx = 0
		for iDim := 1; iDim < nDim; iDim++ {
			reflected.Set(0, iDim, 0.0)
			reflected.Set(iDim, 0, 0.0)
		}

		// Transform back with the inverse, which is the transpose
		tmp.Mul(&reflected, tensorMap)
		gradVel.Mul(tensorMap.T(), &tmp)

		for iVar := 0; iVar < nDim; iVar++ {
			for iDim := 0; iDim < nDim; iDim++ {
				grads.Set(velIdx+iVar, iDim, gradVel.At(iVar, iDim))
			}
		}
	}

	// Scalar rows: project into the base, cancel the normal component,
	// project back
	gradPhi := make([]float64, nDim)
	gradPhiReflected := make([]float64, nDim)
	for iVar := varBegin; iVar < varEnd; iVar++ {
		if isFlow && iVar >= velIdx && iVar < velIdx+nDim {
			continue
		}
		for jDim := 0; jDim < nDim; jDim++ {
			gradPhiReflected[jDim] = 0.0
			for iDim := 0; iDim < nDim; iDim++ {
				gradPhiReflected[jDim] += tensorMap.At(jDim, iDim) * grads.At(iVar, iDim)
			}
		}
		gradPhiReflected[0] = 0.0
		for jDim := 0; jDim < nDim; jDim++ {
			gradPhi[jDim] = 0.0
			for iDim := 0; iDim < nDim; iDim++ {
				gradPhi[jDim] += tensorMap.At(iDim, jDim) * gradPhiReflected[iDim]
			}
		}
		for iDim := 0; iDim < nDim; iDim++ {
			grads.Set(iVar, iDim, gradPhi[iDim])
		}
	}
}
