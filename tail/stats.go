package tail

import (
	"strconv"

	cmap "github.com/orcaman/concurrent-map"
	"go.uber.org/atomic"
)

// SessionStats tracks what a tail session has seen so far. The poll loop
// writes while a shutdown path reads, hence the concurrent map and atomic
// counters.
type SessionStats struct {
	received *atomic.Int64
	matched  *atomic.Int64

	// receivedByPartition maps the partition ID (as string key) to an
	// *atomic.Int64 receive counter.
	receivedByPartition cmap.ConcurrentMap
}

func newSessionStats() *SessionStats {
	return &SessionStats{
		received:            atomic.NewInt64(0),
		matched:             atomic.NewInt64(0),
		receivedByPartition: cmap.New(),
	}
}

func (s *SessionStats) markReceived(partition int32) {
	s.received.Inc()

	key := strconv.Itoa(int(partition))
	counter := atomic.NewInt64(0)
	if existing, ok := s.receivedByPartition.Get(key); ok {
		counter = existing.(*atomic.Int64)
	} else {
		s.receivedByPartition.SetIfAbsent(key, counter)
		// Another goroutine may have won the race, re-read to be sure.
		existing, _ := s.receivedByPartition.Get(key)
		counter = existing.(*atomic.Int64)
	}
	counter.Inc()
}

func (s *SessionStats) markMatched() {
	s.matched.Inc()
}

// Snapshot is a point-in-time copy of the session counters.
type Snapshot struct {
	Received            int64
	Matched             int64
	ReceivedByPartition map[int32]int64
}

// Snapshot returns the current counters. Safe to call while the poll loop is
// still running.
func (s *SessionStats) Snapshot() Snapshot {
	snapshot := Snapshot{
		Received:            s.received.Load(),
		Matched:             s.matched.Load(),
		ReceivedByPartition: make(map[int32]int64),
	}
	for key, value := range s.receivedByPartition.Items() {
		partition, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		snapshot.ReceivedByPartition[int32(partition)] = value.(*atomic.Int64).Load()
	}
	return snapshot
}
