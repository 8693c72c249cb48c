package parallel

import "fmt"

// RankMailbox moves typed messages between ranks living in one process.
// Each rank posts into per-target outboxes, delivers them onto buffered
// channels, then receivers drain their own channel. The channel capacity
// covers the all-to-all worst case so Deliver never blocks.
type RankMailbox[T any] struct {
	NRanks   int
	inboxes  []chan []T
	outboxes []map[int][]T // per rank, keyed by target rank
	pending  []bool
}

func NewRankMailbox[T any](nRanks int) *RankMailbox[T] {
	mb := &RankMailbox[T]{
		NRanks:   nRanks,
		inboxes:  make([]chan []T, nRanks),
		outboxes: make([]map[int][]T, nRanks),
		pending:  make([]bool, nRanks),
	}
	for n := 0; n < nRanks; n++ {
		mb.inboxes[n] = make(chan []T, nRanks)
		mb.outboxes[n] = make(map[int][]T)
	}
	return mb
}

// Post queues a message from myRank to targetRank
func (mb *RankMailbox[T]) Post(myRank, targetRank int, msg T) {
	if targetRank < 0 || targetRank >= mb.NRanks {
		panic(fmt.Sprintf("parallel: target rank %d out of bounds", targetRank))
	}
	mb.outboxes[myRank][targetRank] = append(mb.outboxes[myRank][targetRank], msg)
	mb.pending[myRank] = true
}

// Deliver flushes myRank's outboxes onto the target inbox channels. Must be
// called from myRank before any receiver can see the messages.
func (mb *RankMailbox[T]) Deliver(myRank int) {
	if !mb.pending[myRank] {
		return
	}
	for targetRank, msgs := range mb.outboxes[myRank] {
		mb.inboxes[targetRank] <- msgs
		delete(mb.outboxes[myRank], targetRank)
	}
	mb.pending[myRank] = false
}

// Receive drains every batch currently queued for myRank
func (mb *RankMailbox[T]) Receive(myRank int) (msgs []T) {
	for {
		select {
		case batch := <-mb.inboxes[myRank]:
			msgs = append(msgs, batch...)
		default:
			return
		}
	}
}
