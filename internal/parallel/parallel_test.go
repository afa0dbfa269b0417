package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForVisitsEveryIndexOnce(t *testing.T) {
	const n = 10000
	counts := make([]int32, n)

	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 16}
	For(n, cfg, func(i int) {
		atomic.AddInt32(&counts[i], 1)
	})

	for i, c := range counts {
		if c != 1 {
			t.Fatalf("index %d visited %d times", i, c)
		}
	}
}

func TestForSequentialFallback(t *testing.T) {
	var sum int
	cfg := Config{Enabled: false}
	For(100, cfg, func(i int) { sum += i })
	assert.Equal(t, 4950, sum)
}

func TestForRangeCoversAll(t *testing.T) {
	const n = 5000
	var total atomic.Int64

	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 10}
	ForRange(n, cfg, func(start, end int) {
		total.Add(int64(end - start))
	})

	assert.Equal(t, int64(n), total.Load())
}

func TestForSmallNStaysSequential(t *testing.T) {
	cfg := DefaultConfig()
	var sum int
	// Below MinChunkSize: body runs on the calling goroutine, no races.
	For(10, cfg, func(i int) { sum++ })
	assert.Equal(t, 10, sum)
}
