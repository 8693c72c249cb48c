// Package gradient implements edge-based Green-Gauss gradient
// reconstruction over a median dual grid, with symmetry-plane reflection
// corrections and two-phase halo synchronization for periodic and
// distributed ghost points.
package gradient

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/notargets/gograd/geometry/dualgrid"
	"github.com/notargets/gograd/parallel"
)

// Gradients can be computed for a contiguous variable subrange, which keeps
// stack buffers fixed size
const maxNVar = 20

// Options bundles the execution state of one reconstruction pass
type Options struct {
	Exec         parallel.ExecutionContext
	Recorder     Recorder              // nil disables tape recording
	Comms        parallel.HaloExchange // nil skips all communication (unit tests)
	KindComm     parallel.CommKind
	KindPeriodic parallel.CommKind
	VarBegin     int
	VarEnd       int
	// VelocityIndex is the first variable of the velocity block, whose
	// gradients transform as a rank-2 tensor under mirroring; -1 when the
	// field carries no velocities
	VelocityIndex int
}

// ComputeGradient reconstructs the spatial gradient of the field variables
// [VarBegin, VarEnd) at every owned point: for each control volume it
// integrates face-averaged values weighted by the dual face normals and
// divides by the volume. Symmetry markers are re-derived with mirrored
// fluxes, generic boundary markers receive one-sided corrections, and the
// pass ends with the periodic and ghost point exchanges when a
// communicator is present. Only 2 and 3 dimensions are supported; anything
// else is a fatal configuration error.
func ComputeGradient(geom Geometry, cfg Config, field Field, opts Options, grad *Gradient) {
	nDim := geom.NDim()
	if nDim != 2 && nDim != 3 {
		panic(fmt.Sprintf("gradient: too many dimensions to compute gradients (%d)", nDim))
	}
	if opts.VarEnd-opts.VarBegin > maxNVar {
		panic(fmt.Sprintf("gradient: variable range %d exceeds the maximum of %d",
			opts.VarEnd-opts.VarBegin, maxNVar))
	}

	rec := opts.Recorder
	if rec == nil {
		rec = NopRecorder{}
	}
	// Preaccumulation needs exclusive access to the tape: valid only when a
	// single thread is active. Under hybrid-parallel execution we record at
	// full granularity instead.
	usePreacc := opts.Recorder != nil && opts.Exec.NumThreads == 1

	// For each owned volume integrate over its dual faces (edges)
	nOwned := geom.NPointDomain()
	if opts.Exec.NumThreads > 1 {
		chunk := parallel.StaticChunkSize(nOwned, opts.Exec.NumThreads, parallel.MaxPointChunk)
		var next int64
		var wg sync.WaitGroup
		for t := 0; t < opts.Exec.NumThreads; t++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					begin := int(atomic.AddInt64(&next, int64(chunk))) - chunk
					if begin >= nOwned {
						return
					}
					end := begin + chunk
					if end > nOwned {
						end = nOwned
					}
					for iPoint := begin; iPoint < end; iPoint++ {
						reconstructPoint(geom, field, opts, grad, NopRecorder{}, false, iPoint)
					}
				}
			}()
		}
		wg.Wait()
	} else {
		for iPoint := 0; iPoint < nOwned; iPoint++ {
			reconstructPoint(geom, field, opts, grad, rec, usePreacc, iPoint)
		}
	}

	// Symmetry planes impose zero normal derivatives for scalars and
	// tangential velocity, preserved by mirrored re-accumulation plus a
	// tensor reflection
	correctSymmetryMarkers(geom, cfg, field, opts, grad)

	// One-sided corrections for the remaining boundary markers
	correctBoundaryMarkers(geom, cfg, field, opts, grad)

	// If no communicator was provided we do not communicate
	if opts.Comms == nil {
		return
	}

	// Account for periodic contributions
	for iPeriodic := 1; iPeriodic <= cfg.NPeriodicPairs(); iPeriodic++ {
		opts.Comms.InitiatePeriodicComms(iPeriodic, opts.KindPeriodic)
		opts.Comms.CompletePeriodicComms(iPeriodic, opts.KindPeriodic)
	}

	// Obtain the gradients at halo points from the ranks that own them
	opts.Comms.InitiateComms(opts.KindComm)
	opts.Comms.CompleteComms(opts.KindComm)
}

// reconstructPoint integrates one control volume. Every interior edge
// contributes exactly once to each endpoint, with opposite-signed flux.
func reconstructPoint(geom Geometry, field Field, opts Options, grad *Gradient,
	rec Recorder, usePreacc bool, iPoint int) {
	nDim := geom.NDim()

	if usePreacc {
		rec.StartPreacc()
		rec.SetPreaccIn(geom.Volume(iPoint), geom.PeriodicVolume(iPoint))
		for iVar := opts.VarBegin; iVar < opts.VarEnd; iVar++ {
			rec.SetPreaccIn(field.Value(iPoint, iVar))
		}
	}

	grad.Zero(iPoint, opts.VarBegin, opts.VarEnd)

	// Handle averaging and division by volume in one constant
	halfOnVol := 0.5 / (geom.Volume(iPoint) + geom.PeriodicVolume(iPoint))

	for iNeigh := 0; iNeigh < geom.NNeighbor(iPoint); iNeigh++ {
		jPoint, iEdge := geom.Neighbor(iPoint, iNeigh)
		area := geom.EdgeNormal(iEdge)
		if usePreacc {
			rec.SetPreaccIn(area[:nDim]...)
		}
		for iVar := opts.VarBegin; iVar < opts.VarEnd; iVar++ {
			if usePreacc {
				rec.SetPreaccIn(field.Value(jPoint, iVar))
			}
			flux := edgeFlux(iPoint, jPoint, halfOnVol,
				field.Value(iPoint, iVar), field.Value(jPoint, iVar))
			for iDim := 0; iDim < nDim; iDim++ {
				grad.Add(iPoint, iVar, iDim, flux*area[iDim])
			}
		}
	}

	if usePreacc {
		for iVar := opts.VarBegin; iVar < opts.VarEnd; iVar++ {
			for iDim := 0; iDim < nDim; iDim++ {
				rec.SetPreaccOut(grad.At(iPoint, iVar, iDim))
			}
		}
		rec.EndPreacc()
	}
}

// edgeFlux is the face-averaged flux of one edge seen from iPoint. The
// traversal direction is derived from the index comparison, never cached:
// positive from the lower to the higher indexed point.
func edgeFlux(iPoint, jPoint int, weight, fieldI, fieldJ float64) float64 {
	dir := 1.0
	if iPoint > jPoint {
		dir = -1.0
	}
	return dir * weight * (fieldI + fieldJ)
}

type vertexItem struct {
	iMarker, iVertex, iPoint int
}

// correctBoundaryMarkers applies the generic one-sided correction at every
// marker that is not symmetry, periodic, internal or near-field. Work is
// colored by target point because two markers may try to update the same
// point.
func correctBoundaryMarkers(geom Geometry, cfg Config, field Field, opts Options, grad *Gradient) {
	nDim := geom.NDim()
	var items []vertexItem
	var targets []int
	for iMarker := 0; iMarker < geom.NMarker(); iMarker++ {
		if cfg.MarkerKind(iMarker) != dualgrid.MarkerOther {
			continue
		}
		for iVertex := 0; iVertex < geom.NVertex(iMarker); iVertex++ {
			iPoint := geom.VertexPoint(iMarker, iVertex)
			items = append(items, vertexItem{iMarker, iVertex, iPoint})
			targets = append(targets, iPoint)
		}
	}
	if len(items) == 0 {
		return
	}

	var groups parallel.ColorGroups
	if opts.Exec.NumThreads > 1 {
		groups = parallel.ColorTargets(targets)
	} else {
		groups = parallel.SingleGroup(len(items))
	}

	for _, group := range groups {
		runGroup(group, opts.Exec.NumThreads, parallel.MaxVertexChunk, func(n int) {
			it := items[n]
			correctBoundaryVertex(geom, field, opts, grad, it, nDim)
		})
	}
}

func correctBoundaryVertex(geom Geometry, field Field, opts Options, grad *Gradient,
	it vertexItem, nDim int) {
	iPoint := it.iPoint

	// Halo points do not need to be considered
	if !geom.IsDomain(iPoint) {
		return
	}

	volume := geom.Volume(iPoint) + geom.PeriodicVolume(iPoint)
	area := geom.VertexNormal(it.iMarker, it.iVertex)

	// When the point is shared with a symmetry plane, the face coincident
	// with this marker is the edge missing from the symmetry
	// re-accumulation: mirror its contribution through the symmetry plane
	if geom.IsSymmetry(iPoint) && (geom.IsInOutFar(iPoint) || geom.IsSolid(iPoint)) {
		var flux, fluxReflected [maxNVar]float64
		for iNeigh := 0; iNeigh < geom.NNeighbor(iPoint); iNeigh++ {
			jPoint, _ := geom.Neighbor(iPoint, iNeigh)
			if !geom.IsInOutFar(jPoint) && !geom.IsSolid(jPoint) {
				continue
			}
			weight := 1.0 / (2.0 * volume)

			// Average on the face between iPoint and the midway point of
			// the dual edge
			for iVar := opts.VarBegin; iVar < opts.VarEnd; iVar++ {
				flux[iVar] = weight * (0.75*field.Value(iPoint, iVar) + 0.25*field.Value(jPoint, iVar))
				fluxReflected[iVar] = flux[iVar]
			}

			// The mirror is the symmetry plane at iPoint, found by the
			// cross-marker vertex normal lookup
			unit := UnitNormal(nDim, geom.SymmetryVertexNormal(iPoint))

			var projArea float64
			for iDim := 0; iDim < nDim; iDim++ {
				projArea += area[iDim] * unit[iDim]
			}
			var areaReflected [3]float64
			for iDim := 0; iDim < nDim; iDim++ {
				areaReflected[iDim] = area[iDim] - 2.0*projArea*unit[iDim]
			}

			if opts.KindComm == parallel.AuxVarGradient {
				zeroAxisymmetric(grad, iPoint)
			} else if opts.VelocityIndex >= 0 {
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
						flux[iVar]*area[iDim]+fluxReflected[iVar]*areaReflected[iDim])
				}
			}
		}
		return
	}

	// Plain one-sided correction: the outward vertex normal closes the
	// control volume surface the interior edge loop left open
	for iVar := opts.VarBegin; iVar < opts.VarEnd; iVar++ {
		flux := field.Value(iPoint, iVar) / volume
		for iDim := 0; iDim < nDim; iDim++ {
			grad.Add(iPoint, iVar, iDim, flux*area[iDim])
		}
	}
}

// zeroAxisymmetric clears the gradient components that vanish for the
// axisymmetric auxiliary variable set
func zeroAxisymmetric(grad *Gradient, iPoint int) {
	grad.Set(iPoint, 0, 0, 0.0)
	grad.Set(iPoint, 1, 0, 0.0)
	grad.Set(iPoint, 2, 0, 0.0)
	grad.Set(iPoint, 2, 1, 0.0)
}

// runGroup executes one conflict-free group. Groups at or under the chunk
// cap run in place; larger ones are split across the threads with the
// partition map, one contiguous bucket per worker. Groups are separated by
// an implied barrier.
func runGroup(group []int, numThreads, maxChunk int, work func(n int)) {
	if numThreads <= 1 || len(group) <= maxChunk {
		for _, n := range group {
			work(n)
		}
		return
	}
	pm := parallel.NewPartitionMap(numThreads, len(group))
	var wg sync.WaitGroup
	for t := 0; t < numThreads; t++ {
		wg.Add(1)
		go func(bucket int) {
			defer wg.Done()
			begin, end := pm.GetBucketRange(bucket)
			for i := begin; i < end; i++ {
				work(group[i])
			}
		}(t)
	}
	wg.Wait()
}
