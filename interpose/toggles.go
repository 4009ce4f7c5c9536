package interpose

import "sync"

// Toggles is the per-operation intercept table: a
// compile-time-configurable table of booleans keyed by operation name
// (e.g. "read", "openat_variadic"). A false entry forces passthrough
// regardless of the ready flag's own state.
//
// It is a plain map a host sets up once before the layer starts serving
// calls, which gives a "fixed for the life of the process" shape
// without needing a build-time code generation step.
type Toggles struct {
	mu      sync.RWMutex
	enabled map[string]bool
}

// DefaultToggles returns a Toggles with every known operation enabled.
func DefaultToggles() *Toggles {
	t := &Toggles{enabled: make(map[string]bool, len(allOps))}
	for _, op := range allOps {
		t.enabled[op] = true
	}
	return t
}

// Enabled reports whether op should be intercepted. An operation never
// registered defaults to enabled: a toggle only needs to exist to turn
// something off.
func (t *Toggles) Enabled(op string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.enabled[op]
	return !ok || v
}

// Set flips the toggle for op. Intended for use before the layer starts
// serving calls (or in tests); it is safe for concurrent use regardless.
func (t *Toggles) Set(op string, on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled[op] = on
}

// allOps is every operation name used as a Toggles / stats key across
// the full set of intercepted entry points.
var allOps = []string{
	"read", "write", "pread", "pwrite", "mmap", "munmap",
	"open", "open_variadic", "openat", "openat_variadic", "creat", "close",
	"sync", "statfs", "fstatfs", "unlink", "unlinkat", "rename", "renameat",
	"fopen", "fclose",
	"mkdir", "mkdirat", "rmdir", "mknod", "mknodat",
	"getxattr", "lgetxattr", "fgetxattr", "setxattr", "lsetxattr", "fsetxattr",
	"listxattr", "llistxattr", "flistxattr",
	"socket", "fcntl",
}
