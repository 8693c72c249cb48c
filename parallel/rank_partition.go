package parallel

import (
	"fmt"

	metis "github.com/notargets/go-metis"
)

// RankPartitionConfig holds the knobs for the point-graph partitioning
type RankPartitionConfig struct {
	NumRanks        int32
	ImbalanceFactor float32 // e.g., 1.05 for 5% imbalance
	Objective       string  // "cut" or "vol"
}

// DefaultRankPartitionConfig returns the default configuration
func DefaultRankPartitionConfig(nRanks int32) *RankPartitionConfig {
	return &RankPartitionConfig{
		NumRanks:        nRanks,
		ImbalanceFactor: 1.05,
		Objective:       "vol", // minimize communication volume
	}
}

// PartitionPointGraph splits the dual-grid point graph into rank domains
// with METIS k-way partitioning and returns the owner rank of every point
func PartitionPointGraph(xadj, adjncy []int32, config *RankPartitionConfig) ([]int, error) {
	if config.NumRanks < 2 {
		// Trivial ownership, nothing for METIS to do
		rankOf := make([]int, len(xadj)-1)
		return rankOf, nil
	}

	opts := make([]int32, metis.NoOptions)
	if err := metis.SetDefaultOptions(opts); err != nil {
		return nil, fmt.Errorf("failed to set METIS options: %w", err)
	}
	if config.Objective == "vol" {
		opts[metis.OptionObjType] = metis.ObjTypeVol
	} else {
		opts[metis.OptionObjType] = metis.ObjTypeCut
	}
	ubvec := []float32{config.ImbalanceFactor}

	part, _, err := metis.PartGraphKwayWeighted(
		xadj, adjncy, nil, nil,
		config.NumRanks, nil, ubvec, opts,
	)
	if err != nil {
		return nil, fmt.Errorf("METIS partitioning failed: %w", err)
	}

	rankOf := make([]int, len(part))
	for i := range part {
		rankOf[i] = int(part[i])
	}
	return rankOf, nil
}
