// Package symbols hands out the native file-API entry points that the
// dispatch front end calls once it has decided not to bypass a request.
//
// A conventional LD_PRELOAD shim resolves these lazily via dlopen/dlsym
// (and falls back to the dynamic linker's "next object" namespace) so
// that it never recurses into its own interposed symbol while doing so.
// Go programs cannot re-enter their own symbol table that way, so this
// package keeps the same two-path shape — a primary resolution strategy
// and a fallback — but both paths simply hand out function values backed
// by golang.org/x/sys/unix and the standard library. What is preserved is
// the contract: resolve once, cache, and let a second caller wait on a
// resolution already in flight instead of repeating it.
package symbols

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Fn is the resolved value handed back for a symbol name. It is an
// interface{} because the native entry points do not share one
// signature; callers type-assert to the concrete function type they
// expect (see Slot).
type Fn interface{}

// strategy resolves a single symbol. viaUnixPackage is tried first; if it
// reports ErrUnknown, viaDirectStdlib is tried as the "next object"
// fallback, mirroring the dual-path design of the source layer.
type strategy func(name string) (Fn, error)

// ErrUnknown is returned by a strategy that does not recognize name.
var ErrUnknown = fmt.Errorf("symbols: unknown native entry point")

// Resolver lazily resolves and caches native entry points by name. The
// zero value is not usable; construct with New.
type Resolver struct {
	group singleflight.Group

	mu    sync.Mutex
	cache map[string]Fn

	primary  strategy
	fallback strategy
}

// New builds a Resolver. primary and fallback are the two resolution
// strategies tried in order; production callers should pass
// viaUnixPackage and viaDirectStdlib (see native.go), tests may substitute
// fakes.
func New(primary, fallback strategy) *Resolver {
	return &Resolver{
		cache:    make(map[string]Fn),
		primary:  primary,
		fallback: fallback,
	}
}

// Resolve returns the cached function value for name, resolving it on
// first use. Concurrent callers resolving the same name for the first
// time block on a single resolution (singleflight.Group), matching the
// source's "library-open step is serialized by a mutex" requirement;
// once published, the cached pointer is read without locking by Slot.
func (r *Resolver) Resolve(name string) (Fn, error) {
	r.mu.Lock()
	if fn, ok := r.cache[name]; ok {
		r.mu.Unlock()
		return fn, nil
	}
	r.mu.Unlock()

	v, err, _ := r.group.Do(name, func() (interface{}, error) {
		fn, err := r.primary(name)
		if err == ErrUnknown && r.fallback != nil {
			fn, err = r.fallback(name)
		}
		if err != nil {
			return nil, fmt.Errorf("symbols: resolve %q: %w", name, err)
		}
		r.mu.Lock()
		r.cache[name] = fn
		r.mu.Unlock()
		return fn, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Slot is a one-shot, lock-free publication point for a single resolved
// symbol. Each interposer owns exactly one Slot for its own entry point
// and consults it before ever calling a Resolver, so the hot path after
// warm-up touches no mutex and no map.
type Slot struct {
	ptr atomic.Value // holds Fn
}

// Load returns the published value, or nil if none has been published
// yet.
func (s *Slot) Load() Fn {
	v := s.ptr.Load()
	if v == nil {
		return nil
	}
	return v.(boxed).fn
}

// Store publishes fn. Safe to call more than once; later stores win, but
// in practice every caller stores the same resolved value so the race is
// harmless.
func (s *Slot) Store(fn Fn) {
	s.ptr.Store(boxed{fn})
}

type boxed struct{ fn Fn }
