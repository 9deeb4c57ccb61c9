package counter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestApplyMatchesOperationCount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ops := rapid.SliceOf(rapid.SampledFrom([]Op{Increment, Decrement})).Draw(t, "ops")

		var c Counter
		if err := c.Apply(ops); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}

		var inc, dec int64
		for _, op := range ops {
			if op == Increment {
				inc++
			} else {
				dec++
			}
		}

		if got := c.Get(); got != inc-dec {
			t.Fatalf("counter is %d, expected %d", got, inc-dec)
		}
	})
}

func TestCounterStateMachine(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var (
			c     Counter
			model int64
		)

		t.Repeat(map[string]func(*rapid.T){
			"increment": func(t *rapid.T) {
				c.Increment()
				model++
			},
			"decrement": func(t *rapid.T) {
				c.Decrement()
				model--
			},
			"": func(t *rapid.T) {
				if c.Get() != model {
					t.Fatalf("counter is %d, model is %d", c.Get(), model)
				}
			},
		})
	})
}

func TestApplyRejectsUnknownOps(t *testing.T) {
	var c Counter

	err := c.Apply([]Op{Increment, "reset", Increment})
	require.Error(t, err)
	assert.EqualValues(t, 1, c.Get())
}

func TestConcurrentUse(t *testing.T) {
	var (
		c  Counter
		wg sync.WaitGroup
	)

	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			c.Increment()
			c.Increment()
		}()

		go func() {
			defer wg.Done()
			c.Decrement()
		}()
	}

	wg.Wait()
	assert.EqualValues(t, 50, c.Get())
}
