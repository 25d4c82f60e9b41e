package refresh

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerCoalescesBurst(t *testing.T) {
	var mu sync.Mutex
	var fired []time.Time

	s := NewScheduler(500*time.Millisecond, func() {
		mu.Lock()
		fired = append(fired, time.Now())
		mu.Unlock()
	})

	s.Trigger()
	time.Sleep(40 * time.Millisecond)
	s.Trigger()
	time.Sleep(40 * time.Millisecond)
	s.Trigger()
	last := time.Now()
	assert.True(t, s.Pending())

	time.Sleep(900 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, fired, 1)
	assert.GreaterOrEqual(t, fired[0].Sub(last), 450*time.Millisecond)
	assert.False(t, s.Pending())
}

func TestSchedulerSeparateBursts(t *testing.T) {
	var mu sync.Mutex
	count := 0

	s := NewScheduler(50*time.Millisecond, func() {
		mu.Lock()
		count++
		mu.Unlock()
	})

	s.Trigger()
	time.Sleep(150 * time.Millisecond)
	s.Trigger()
	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, count)
}
