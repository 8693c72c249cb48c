// Package readfiles holds the mesh file readers. Only the SU2 native
// format is supported; the dual grid is built from the primal mesh these
// readers return.
package readfiles

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/gograd/geometry/dualgrid"
)

// VTK element type codes used by the SU2 native format
const (
	vtkLine     = 3
	vtkTriangle = 5
	vtkQuad     = 9
	vtkTetra    = 10
)

// ReadSU2 reads an SU2 native format file into a primal mesh
func ReadSU2(filename string) (*dualgrid.PrimalMesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	pm := &dualgrid.PrimalMesh{}
	scanner := bufio.NewScanner(file)

	var hasNDIME, hasNPOIN bool

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines
		if line == "" {
			continue
		}

		// Skip comments (text after %)
		if idx := strings.Index(line, "%"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
			if line == "" {
				continue
			}
		}

		switch {
		case strings.HasPrefix(line, "NDIME="):
			hasNDIME = true
			fmt.Sscanf(line, "NDIME=%d", &pm.Dim)
			if pm.Dim != 2 && pm.Dim != 3 {
				return nil, fmt.Errorf("unsupported dimension: NDIME=%d", pm.Dim)
			}

		case strings.HasPrefix(line, "NPOIN="):
			hasNPOIN = true
			var npoin int
			fmt.Sscanf(line, "NPOIN=%d", &npoin)
			pm.Coords = make([][3]float64, npoin)
			for i := 0; i < npoin; i++ {
				if !scanner.Scan() {
					return nil, fmt.Errorf("unexpected EOF reading nodes")
				}
				fields := strings.Fields(scanner.Text())
				if len(fields) < pm.Dim {
					return nil, fmt.Errorf("invalid node line: expected at least %d coordinates", pm.Dim)
				}
				// Node id is implicit (0-based) from the order; a legacy
				// trailing id column is ignored
				for j := 0; j < pm.Dim; j++ {
					pm.Coords[i][j], err = strconv.ParseFloat(fields[j], 64)
					if err != nil {
						return nil, fmt.Errorf("invalid coordinate: %v", err)
					}
				}
			}

		case strings.HasPrefix(line, "NELEM="):
			var nelem int
			fmt.Sscanf(line, "NELEM=%d", &nelem)
			pm.Elements = make([][]int, 0, nelem)
			pm.ElemTypes = make([]dualgrid.ElemType, 0, nelem)
			for i := 0; i < nelem; i++ {
				if !scanner.Scan() {
					return nil, fmt.Errorf("unexpected EOF reading elements")
				}
				fields := strings.Fields(scanner.Text())
				if len(fields) < 2 {
					return nil, fmt.Errorf("invalid element line %q", scanner.Text())
				}
				vtkType, err := strconv.Atoi(fields[0])
				if err != nil {
					return nil, fmt.Errorf("invalid element type: %v", err)
				}
				et, nNodes, err := elemTypeFromVTK(vtkType, pm.Dim)
				if err != nil {
					return nil, err
				}
				if len(fields) < 1+nNodes {
					return nil, fmt.Errorf("element %d: expected %d nodes", i, nNodes)
				}
				nodes := make([]int, nNodes)
				for j := 0; j < nNodes; j++ {
					nodes[j], err = strconv.Atoi(fields[1+j])
					if err != nil {
						return nil, fmt.Errorf("invalid node index: %v", err)
					}
				}
				pm.Elements = append(pm.Elements, nodes)
				pm.ElemTypes = append(pm.ElemTypes, et)
			}

		case strings.HasPrefix(line, "NMARK="):
			var nmark int
			fmt.Sscanf(line, "NMARK=%d", &nmark)
			for im := 0; im < nmark; im++ {
				marker, err := readMarker(scanner, pm.Dim)
				if err != nil {
					return nil, err
				}
				pm.Markers = append(pm.Markers, *marker)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !hasNDIME || !hasNPOIN {
		return nil, fmt.Errorf("missing NDIME or NPOIN section")
	}
	return pm, nil
}

func readMarker(scanner *bufio.Scanner, dim int) (*dualgrid.PrimalMarker, error) {
	marker := &dualgrid.PrimalMarker{}
	var nElems int
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "MARKER_TAG="):
			marker.Name = strings.TrimSpace(strings.TrimPrefix(line, "MARKER_TAG="))
		case strings.HasPrefix(line, "MARKER_ELEMS="):
			fmt.Sscanf(line, "MARKER_ELEMS=%d", &nElems)
			for i := 0; i < nElems; i++ {
				if !scanner.Scan() {
					return nil, fmt.Errorf("unexpected EOF reading marker %q", marker.Name)
				}
				fields := strings.Fields(scanner.Text())
				vtkType, err := strconv.Atoi(fields[0])
				if err != nil {
					return nil, fmt.Errorf("invalid marker element type: %v", err)
				}
				var nNodes int
				switch {
				case dim == 2 && vtkType == vtkLine:
					nNodes = 2
				case dim == 3 && vtkType == vtkTriangle:
					nNodes = 3
				default:
					return nil, fmt.Errorf("marker %q: unsupported boundary element type %d",
						marker.Name, vtkType)
				}
				if len(fields) < 1+nNodes {
					return nil, fmt.Errorf("marker %q: short face line", marker.Name)
				}
				face := make([]int, nNodes)
				for j := 0; j < nNodes; j++ {
					face[j], err = strconv.Atoi(fields[1+j])
					if err != nil {
						return nil, fmt.Errorf("invalid face node: %v", err)
					}
				}
				marker.Faces = append(marker.Faces, face)
			}
			return marker, nil
		}
	}
	return nil, fmt.Errorf("unexpected EOF reading marker sections")
}

func elemTypeFromVTK(vtkType, dim int) (dualgrid.ElemType, int, error) {
	switch {
	case dim == 2 && vtkType == vtkTriangle:
		return dualgrid.Tri, 3, nil
	case dim == 2 && vtkType == vtkQuad:
		return dualgrid.Quad, 4, nil
	case dim == 3 && vtkType == vtkTetra:
		return dualgrid.Tet, 4, nil
	}
	return 0, 0, fmt.Errorf("unsupported element type %d in %dD", vtkType, dim)
}
