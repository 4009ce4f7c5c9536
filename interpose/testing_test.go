package interpose

import (
	"context"
	"sync"
	"testing"

	"github.com/padll/iointerpose/internal/engine"
	"github.com/padll/iointerpose/internal/mount"
	"github.com/padll/iointerpose/internal/stats"
	"github.com/padll/iointerpose/internal/symbols"
	"github.com/padll/iointerpose/logging"
)

// useLayer installs l as Current() for the duration of t, restoring the
// prior value (if any) on cleanup. It is how this package's tests reach
// the dispatch front end without going through NewFromEnv's environment
// variable parsing or a real policy engine.
func useLayer(t *testing.T, l *Layer) {
	t.Helper()
	prev := testLayer.Swap(l)
	t.Cleanup(func() { testLayer.Store(prev) })
}

// fakeEngineClient records every submitted Context; used by tests that
// assert on what the dispatch front end sent to the policy engine. Safe
// for concurrent Submit calls, since several dispatch tests interpose
// from multiple goroutines onto one fd.
type fakeEngineClient struct {
	mu        sync.Mutex
	submitted []engine.Context
}

func (f *fakeEngineClient) Submit(ctx context.Context, rec engine.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, rec)
	return nil
}
func (f *fakeEngineClient) Close() error { return nil }

// Submissions returns a snapshot of every Context submitted so far.
func (f *fakeEngineClient) Submissions() []engine.Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]engine.Context, len(f.submitted))
	copy(out, f.submitted)
	return out
}

// newHarness builds a Layer wired to a fake engine and the real symbol
// resolver (so native calls genuinely touch the filesystem in a temp
// dir), letting tests exercise the full nine-step dispatch without a
// real policy engine or LD_PRELOAD-style interception.
func newHarness(t *testing.T, ready bool, differentiation bool, remotePrefix string, workflows []mount.Workflow) (*Layer, *fakeEngineClient) {
	t.Helper()

	classifier := mount.NewClassifier(differentiation, remotePrefix, logging.Discard)
	pool := mount.NewPool(differentiation, workflows)
	table := mount.New(classifier, pool, logging.Discard)

	fc := &fakeEngineClient{}

	l := &Layer{
		Resolver:   symbols.Default(),
		Table:      table,
		Engine:     fc,
		Stats:      stats.New(),
		Log:        logging.Discard,
		Toggles:    DefaultToggles(),
		HardRemove: true,
	}
	if ready {
		l.markReady()
	}
	useLayer(t, l)
	return l, fc
}
