package mount

import (
	"math/rand/v2"
	"os"
	"sync"
)

// Pool holds the ordered workflow pools configured at layer
// initialization: one sequence of Workflow values per Class. It is
// immutable after New returns, so Pick needs no lock beyond the one
// guarding the PRNG draw.
type Pool struct {
	byClass map[Class][]Workflow

	mu  sync.Mutex
	rng *rand.Rand

	differentiationEnabled bool
}

// NewPool builds a read-only workflow pool set. When differentiation is
// disabled, workflows are registered under None and used for every
// operation; when enabled, only Remote is populated.
//
// The PRNG is seeded from the process id, so that a fixed pid gives a
// fixed, reproducible draw sequence.
func NewPool(differentiationEnabled bool, workflows []Workflow) *Pool {
	p := &Pool{
		byClass:                make(map[Class][]Workflow),
		differentiationEnabled: differentiationEnabled,
	}
	pid := uint64(os.Getpid())
	p.rng = rand.New(rand.NewPCG(pid, pid))

	class := None
	if differentiationEnabled {
		class = Remote
	}
	cp := make([]Workflow, len(workflows))
	copy(cp, workflows)
	p.byClass[class] = cp
	return p
}

// DifferentiationEnabled reports whether mount-point differentiation is
// on for this pool set.
func (p *Pool) DifferentiationEnabled() bool {
	return p.differentiationEnabled
}

// Pick draws a uniformly random workflow from the pool registered for
// class, or Invalid if no pool is registered for it.
func (p *Pool) Pick(class Class) Workflow {
	pool, ok := p.byClass[class]
	if !ok || len(pool) == 0 {
		return Invalid
	}

	p.mu.Lock()
	idx := p.rng.IntN(len(pool))
	p.mu.Unlock()
	return pool[idx]
}

// PickForced ignores class and draws from the Remote pool when
// differentiation is enabled, else from None. It backs close()'s forced
// selector, used when the caller did not observe the open.
func (p *Pool) PickForced() Workflow {
	if p.differentiationEnabled {
		return p.Pick(Remote)
	}
	return p.Pick(None)
}
