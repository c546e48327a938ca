package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepClock_AdvancesPerReading(t *testing.T) {
	start := time.Unix(100, 0)
	clk := NewStepClock(start, time.Second)

	assert.Equal(t, start, clk.Now())
	assert.Equal(t, start.Add(time.Second), clk.Now())
	assert.Equal(t, start.Add(2*time.Second), clk.Now())
}

func TestStepClock_CurrentDoesNotAdvance(t *testing.T) {
	start := time.Unix(0, 0)
	clk := NewStepClock(start, time.Minute)

	assert.Equal(t, start, clk.Current())
	assert.Equal(t, start, clk.Current())
	clk.Now()
	assert.Equal(t, start.Add(time.Minute), clk.Current())
}

func TestStepClock_ConcurrentReadings(t *testing.T) {
	clk := NewStepClock(time.Unix(0, 0), time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clk.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, time.Unix(0, 0).Add(100*time.Millisecond), clk.Current())
}
