package interpose

import (
	"fmt"

	"github.com/padll/iointerpose/internal/symbols"
)

// resolve fetches the native function for name as type T. Each call site
// owns a *symbols.Slot (a package-level var, one per entry point) that it
// checks first; only a miss falls through to l.Resolver, which does its
// own (mutex-guarded, singleflight-serialized) caching. Once warm, the
// hot path touches neither a mutex nor a map.
//
// A resolution failure is fatal for that entry point: the caller
// returns the native error surface unchanged and records an error in
// the statistics registry.
func resolve[T any](l *Layer, slot *symbols.Slot, name string) (T, error) {
	var zero T

	if cached := slot.Load(); cached != nil {
		typed, ok := cached.(T)
		if !ok {
			return zero, fmt.Errorf("%w: %s: unexpected symbol type %T", ErrResolverFailure, name, cached)
		}
		return typed, nil
	}

	fn, err := l.Resolver.Resolve(name)
	if err != nil {
		return zero, fmt.Errorf("%w: %s: %v", ErrResolverFailure, name, err)
	}
	typed, ok := fn.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s: unexpected symbol type %T", ErrResolverFailure, name, fn)
	}
	slot.Store(fn)
	return typed, nil
}
