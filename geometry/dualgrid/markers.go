package dualgrid

import "strings"

// BCKind represents the boundary condition attached to a mesh marker
type BCKind uint16

const (
	// BCNone indicates no boundary condition (interior face)
	BCNone BCKind = iota

	// Flow boundary conditions
	BCInflow   // Inflow/inlet boundary
	BCOutflow  // Outflow/outlet boundary
	BCWall     // No-slip wall
	BCSlipWall // Slip/inviscid wall
	BCSymmetry // Symmetry plane
	BCPeriodic // Periodic boundary
	BCFarfield // Far-field boundary

	// Special boundary conditions
	BCInternal  // Internal boundary (actuator disks, interfaces)
	BCNearField // Near-field boundary
)

// String returns the string representation of a BCKind
func (bc BCKind) String() string {
	names := map[BCKind]string{
		BCNone:      "None",
		BCInflow:    "Inflow",
		BCOutflow:   "Outflow",
		BCWall:      "Wall",
		BCSlipWall:  "SlipWall",
		BCSymmetry:  "Symmetry",
		BCPeriodic:  "Periodic",
		BCFarfield:  "Farfield",
		BCInternal:  "Internal",
		BCNearField: "NearField",
	}
	if name, ok := names[bc]; ok {
		return name
	}
	return "Unknown"
}

// BCNameMap provides a mapping from common boundary condition names to BCKind
// Keys are lowercase for case-insensitive matching
var BCNameMap = map[string]BCKind{
	"inlet":      BCInflow,
	"inflow":     BCInflow,
	"outlet":     BCOutflow,
	"outflow":    BCOutflow,
	"exit":       BCOutflow,
	"wall":       BCWall,
	"no_slip":    BCWall,
	"noslip":     BCWall,
	"slip":       BCSlipWall,
	"slip_wall":  BCSlipWall,
	"euler_wall": BCSlipWall,
	"symmetry":   BCSymmetry,
	"symmetric":  BCSymmetry,
	"farfield":   BCFarfield,
	"far_field":  BCFarfield,
	"freestream": BCFarfield,
	"periodic":   BCPeriodic,
	"internal":   BCInternal,
	"interface":  BCInternal,
	"nearfield":  BCNearField,
	"near_field": BCNearField,
}

// ParseBCName converts a boundary condition name string to BCKind
// The matching is case-insensitive and trims whitespace
func ParseBCName(name string) BCKind {
	lowerName := strings.ToLower(strings.TrimSpace(name))
	if bc, ok := BCNameMap[lowerName]; ok {
		return bc
	}
	// Default to wall for unknown types
	return BCWall
}

// MarkerKind is the closed classification consumed by the gradient kernels.
// Everything that is not one of the four special kinds receives the generic
// one-sided boundary correction.
type MarkerKind uint8

const (
	MarkerOther MarkerKind = iota
	MarkerSymmetry
	MarkerPeriodic
	MarkerInternal
	MarkerNearField
)

func (mk MarkerKind) String() string {
	switch mk {
	case MarkerSymmetry:
		return "Symmetry"
	case MarkerPeriodic:
		return "Periodic"
	case MarkerInternal:
		return "Internal"
	case MarkerNearField:
		return "NearField"
	case MarkerOther:
		return "Other"
	}
	return "Unknown"
}

// Kind collapses a boundary condition into the marker classification
func (bc BCKind) Kind() MarkerKind {
	switch bc {
	case BCSymmetry:
		return MarkerSymmetry
	case BCPeriodic:
		return MarkerPeriodic
	case BCInternal:
		return MarkerInternal
	case BCNearField:
		return MarkerNearField
	default:
		return MarkerOther
	}
}

// IsInOutFar reports whether the boundary condition is an inlet, outlet or
// far-field type. Points shared between one of these and a symmetry plane
// need the mirrored one-sided correction.
func (bc BCKind) IsInOutFar() bool {
	switch bc {
	case BCInflow, BCOutflow, BCFarfield:
		return true
	}
	return false
}

// IsSolid reports whether the boundary condition is a solid wall
func (bc BCKind) IsSolid() bool {
	switch bc {
	case BCWall, BCSlipWall:
		return true
	}
	return false
}
