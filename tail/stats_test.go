package tail

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionStats(t *testing.T) {
	stats := newSessionStats()

	stats.markReceived(0)
	stats.markReceived(0)
	stats.markReceived(3)
	stats.markMatched()

	snapshot := stats.Snapshot()
	assert.Equal(t, int64(3), snapshot.Received)
	assert.Equal(t, int64(1), snapshot.Matched)
	assert.Equal(t, map[int32]int64{0: 2, 3: 1}, snapshot.ReceivedByPartition)
}

func TestSessionStatsConcurrentWriters(t *testing.T) {
	stats := newSessionStats()

	var wg sync.WaitGroup
	for p := int32(0); p < 4; p++ {
		wg.Add(1)
		go func(partition int32) {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				stats.markReceived(partition)
			}
		}(p)
	}
	wg.Wait()

	snapshot := stats.Snapshot()
	assert.Equal(t, int64(1000), snapshot.Received)
	for p := int32(0); p < 4; p++ {
		assert.Equal(t, int64(250), snapshot.ReceivedByPartition[p])
	}
}
