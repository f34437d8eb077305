package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepClock_AdvancesPerCall(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := NewStepClock(start, time.Second)

	assert.Equal(t, start, clock.Now())
	assert.Equal(t, start.Add(time.Second), clock.Now())
	assert.Equal(t, start.Add(2*time.Second), clock.Peek())
	assert.Equal(t, start.Add(2*time.Second), clock.Now())
}

func TestStepClock_ZeroStartUsesEpoch(t *testing.T) {
	clock := NewStepClock(time.Time{}, 0)

	assert.Equal(t, DefaultEpoch, clock.Now())
	assert.Equal(t, DefaultEpoch, clock.Now(), "zero step never advances")
}

func TestStepClock_Advance(t *testing.T) {
	clock := NewStepClock(DefaultEpoch, time.Minute)
	clock.Advance(time.Hour)

	assert.Equal(t, DefaultEpoch.Add(time.Hour), clock.Now())
}

func TestStepClock_ConcurrentAccess(t *testing.T) {
	clock := NewStepClock(DefaultEpoch, time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, DefaultEpoch.Add(50*time.Millisecond), clock.Peek())
}

func TestCountingIDs(t *testing.T) {
	ids := NewCountingIDs("bug")
	assert.Equal(t, "bug-1", ids.Generate())
	assert.Equal(t, "bug-2", ids.Generate())

	assert.Equal(t, "id-1", NewCountingIDs("").Generate())
}
