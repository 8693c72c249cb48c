package parallel

// ColorGroups partitions work items into conflict-free groups. Items within
// one group never write the same accumulator and may run concurrently in
// any order; groups execute sequentially with a barrier in between. The
// scheduler knows nothing about gradients, only about item -> accumulator
// conflicts.
type ColorGroups [][]int

// NGroups returns the number of color groups
func (cg ColorGroups) NGroups() int { return len(cg) }

// SingleGroup is the no-op strategy for sequential or rank-only execution:
// all items land in one group
func SingleGroup(nItems int) ColorGroups {
	items := make([]int, nItems)
	for i := range items {
		items[i] = i
	}
	return ColorGroups{items}
}

// ColorTargets groups work items by their accumulator target so that no two
// items in a group share a target point. Used for marker vertex loops where
// several markers may update the same point.
func ColorTargets(targets []int) ColorGroups {
	seen := make(map[int]int) // target -> occurrences so far
	colorOf := make([]int, len(targets))
	nColors := 0
	for item, tgt := range targets {
		c := seen[tgt]
		seen[tgt] = c + 1
		colorOf[item] = c
		if c+1 > nColors {
			nColors = c + 1
		}
	}
	groups := make(ColorGroups, nColors)
	for item, c := range colorOf {
		groups[c] = append(groups[c], item)
	}
	return groups
}
