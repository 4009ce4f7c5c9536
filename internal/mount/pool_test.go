package mount

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolDistribution(t *testing.T) {
	workflows := []Workflow{10, 20, 30, 40}
	pool := NewPool(true, workflows)

	const draws = 20000
	counts := make(map[Workflow]int, len(workflows))
	for i := 0; i < draws; i++ {
		counts[pool.Pick(Remote)]++
	}

	expected := float64(draws) / float64(len(workflows))
	for _, w := range workflows {
		got := float64(counts[w])
		deviation := (got - expected) / expected
		assert.InDeltaf(t, 0, deviation, 0.05, "workflow %d frequency deviated by %.2f%%", w, deviation*100)
	}
}

func TestPoolMissingClassReturnsInvalid(t *testing.T) {
	pool := NewPool(true, []Workflow{1})
	assert.Equal(t, Invalid, pool.Pick(Local))
}

func TestPoolDisabledUsesNoneForEverything(t *testing.T) {
	pool := NewPool(false, []Workflow{7})
	assert.Equal(t, Workflow(7), pool.Pick(None))
	assert.Equal(t, Invalid, pool.Pick(Remote))
}

func TestPickForcedRespectsDifferentiation(t *testing.T) {
	enabled := NewPool(true, []Workflow{1})
	assert.Equal(t, Workflow(1), enabled.PickForced())

	disabled := NewPool(false, []Workflow{2})
	assert.Equal(t, Workflow(2), disabled.PickForced())
}
