// Package parallel provides the scheduling and communication glue for the
// hybrid shared-memory / multi-rank gradient reconstruction: conflict-free
// work coloring, chunked range partitioning, and the two-phase halo
// exchange contract for periodic and ghost point synchronization.
package parallel

// ExecutionContext carries the parallel execution state explicitly through
// the compute kernels instead of reading ambient globals
type ExecutionContext struct {
	NumThreads int
	Rank       int
	NumRanks   int
}

// Serial is the single-thread, single-rank context
func Serial() ExecutionContext {
	return ExecutionContext{NumThreads: 1, Rank: 0, NumRanks: 1}
}

// CommKind identifies which quantity a halo exchange synchronizes
type CommKind int

const (
	SolutionGradient CommKind = iota
	PrimitiveGradient
	// AuxVarGradient marks the axisymmetric auxiliary variable pass, which
	// zeroes fixed gradient components instead of mirroring velocities
	AuxVarGradient
)

func (k CommKind) String() string {
	switch k {
	case SolutionGradient:
		return "SolutionGradient"
	case PrimitiveGradient:
		return "PrimitiveGradient"
	case AuxVarGradient:
		return "AuxVarGradient"
	}
	return "Unknown"
}

// HaloExchange is the two-phase communication contract consumed by the
// gradient engine. Initiate posts the local data, Complete blocks until the
// counterpart data has arrived. Periodic exchanges run once per periodic
// marker pair before the final ghost point exchange.
type HaloExchange interface {
	InitiatePeriodicComms(iPeriodic int, kind CommKind)
	CompletePeriodicComms(iPeriodic int, kind CommKind)
	InitiateComms(kind CommKind)
	CompleteComms(kind CommKind)
}
