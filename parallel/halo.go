package parallel

// GhostRow is one synchronized data row, tagged with its global point id
type GhostRow struct {
	Point int
	Vals  []float64
}

// ExchangePlan precomputes which point rows cross rank boundaries. A point
// is sent wherever one of its neighbors lives on another rank; the same
// point appears as a ghost on every receiving rank.
type ExchangePlan struct {
	NRanks    int
	RankOf    []int
	sendItems [][]sendItem // per owner rank
}

type sendItem struct {
	point  int
	target int
}

// BuildExchangePlan derives the halo send lists from the point ownership
// and the adjacency graph in compressed form
func BuildExchangePlan(rankOf []int, xadj, adjncy []int32, nRanks int) *ExchangePlan {
	plan := &ExchangePlan{
		NRanks:    nRanks,
		RankOf:    rankOf,
		sendItems: make([][]sendItem, nRanks),
	}
	for p := range rankOf {
		r := rankOf[p]
		sent := make(map[int]bool)
		for idx := xadj[p]; idx < xadj[p+1]; idx++ {
			nbrRank := rankOf[adjncy[idx]]
			if nbrRank != r && !sent[nbrRank] {
				plan.sendItems[r] = append(plan.sendItems[r], sendItem{point: p, target: nbrRank})
				sent[nbrRank] = true
			}
		}
	}
	return plan
}

// NSends returns the number of boundary rows rank r sends
func (plan *ExchangePlan) NSends(r int) int { return len(plan.sendItems[r]) }

// GhostRowExchange implements the two-phase halo contract over an
// in-process rank mailbox. Ghost rows are overwritten from their owners;
// periodic pairs have their rows summed so that both images carry the
// combined value. All ranks are driven from the calling goroutine, so
// Initiate posts and delivers while Complete drains.
type GhostRowExchange struct {
	plan          *ExchangePlan
	mb            *RankMailbox[GhostRow]
	periodicPairs map[int][][2]int // iPeriodic -> point pairs
	pendingSums   map[int][]float64
	getRow        func(iPoint int) []float64
	setRow        func(iPoint int, vals []float64)
}

// NewGhostRowExchange wires the exchange to its data source and sink. The
// getter must return a copy the exchange may retain until the completing
// phase.
func NewGhostRowExchange(plan *ExchangePlan, periodicPairs map[int][][2]int,
	getRow func(iPoint int) []float64, setRow func(iPoint int, vals []float64)) *GhostRowExchange {
	return &GhostRowExchange{
		plan:          plan,
		mb:            NewRankMailbox[GhostRow](plan.NRanks),
		periodicPairs: periodicPairs,
		pendingSums:   make(map[int][]float64),
		getRow:        getRow,
		setRow:        setRow,
	}
}

// InitiatePeriodicComms accumulates the combined row of every pair of the
// given periodic marker pairing
func (x *GhostRowExchange) InitiatePeriodicComms(iPeriodic int, kind CommKind) {
	for _, pair := range x.periodicPairs[iPeriodic] {
		a := x.getRow(pair[0])
		b := x.getRow(pair[1])
		sum := make([]float64, len(a))
		for i := range sum {
			sum[i] = a[i] + b[i]
		}
		x.pendingSums[pair[0]] = sum
		x.pendingSums[pair[1]] = sum
	}
}

// CompletePeriodicComms writes the combined rows back to both images
func (x *GhostRowExchange) CompletePeriodicComms(iPeriodic int, kind CommKind) {
	for _, pair := range x.periodicPairs[iPeriodic] {
		if sum, ok := x.pendingSums[pair[0]]; ok {
			x.setRow(pair[0], sum)
			x.setRow(pair[1], sum)
			delete(x.pendingSums, pair[0])
			delete(x.pendingSums, pair[1])
		}
	}
}

// InitiateComms posts every boundary row to the ranks holding it as a ghost
func (x *GhostRowExchange) InitiateComms(kind CommKind) {
	for r := 0; r < x.plan.NRanks; r++ {
		for _, item := range x.plan.sendItems[r] {
			x.mb.Post(r, item.target, GhostRow{Point: item.point, Vals: x.getRow(item.point)})
		}
		x.mb.Deliver(r)
	}
}

// CompleteComms drains the delivered rows and overwrites the ghost copies
func (x *GhostRowExchange) CompleteComms(kind CommKind) {
	for r := 0; r < x.plan.NRanks; r++ {
		for _, row := range x.mb.Receive(r) {
			x.setRow(row.Point, row.Vals)
		}
	}
}
