// Package interpose is the dispatch front end: one exported function
// per native entry point, each following the same nine-step shape
// (ready check, per-operation toggle, variadic unpacking,
// classification, enforcement
// submission, native call, table update, statistics, return).
//
// A conventional LD_PRELOAD shim reaches these functions because the
// dynamic linker resolves application calls to them first. This module
// cannot do that in Go, so a host program calls the exported functions
// here directly in place of os/golang.org/x/sys/unix.
package interpose

import (
	"context"
	"os"
	"sync"
	"sync/atomic"

	"github.com/padll/iointerpose/internal/engine"
	"github.com/padll/iointerpose/internal/mount"
	"github.com/padll/iointerpose/internal/stats"
	"github.com/padll/iointerpose/internal/symbols"
	"github.com/padll/iointerpose/logging"
)

// Layer is the process-wide lazily constructed context that replaces
// a set of separate global singletons (logger, passthrough object,
// enforced object, ready flag) with one value, built on first
// interposer entry. The ready flag is kept as its own atomic so that
// interposer calls that happen *during* that construction — here, by
// code that runs before a host finishes wiring the layer —
// deterministically take the passthrough branch.
type Layer struct {
	ready atomic.Bool

	initOnce sync.Once
	initErr  error

	Resolver *symbols.Resolver
	Table    *mount.Table
	Engine   engine.Client
	Stats    *stats.Registry
	Log      logging.Logger

	Toggles *Toggles

	// HardRemove controls whether a successful close() removes the fd's
	// table entry, if one exists. When false, close() leaves every
	// entry in place.
	HardRemove bool
}

// global is the process-wide cell backing Current. It is initialized
// lazily by Current on the first interposed call.
var global struct {
	mu sync.Mutex
	l  *Layer
}

// testLayer lets the test suite substitute a Layer built from explicit
// fakes, bypassing environment-variable configuration and the real
// engine/native symbols. Production code never touches it.
var testLayer atomic.Pointer[Layer]

// Current returns the process-wide Layer, constructing it on first call
// via NewFromEnv. Initialization failures (e.g. padll_workflows unset)
// leave the layer in "not ready" state permanently; every subsequent
// interposed call takes the passthrough branch without retrying
// construction.
func Current() *Layer {
	if l := testLayer.Load(); l != nil {
		return l
	}

	global.mu.Lock()
	defer global.mu.Unlock()
	if global.l == nil {
		l, err := NewFromEnv()
		if err != nil {
			log := logging.NewLogrus()
			l = &Layer{
				Resolver: symbols.Default(),
				Table:    mount.New(mount.NewClassifier(false, "", log), mount.NewPool(false, nil), log),
				Stats:    stats.New(),
				Log:      log,
				Toggles:  DefaultToggles(),
			}
			l.Log.Printf("interpose: initialization failed, layer stays not-ready: %v", err)
		}
		global.l = l
	}
	return global.l
}

// Ready reports whether the layer finished initialization successfully.
func (l *Layer) Ready() bool {
	return l.ready.Load()
}

// markReady flips the ready flag. Called once, after the engine has
// been constructed, by NewFromEnv.
func (l *Layer) markReady() {
	l.ready.Store(true)
}

// Collector returns a prometheus.Collector backed by this layer's
// statistics registry, for a host process that already runs its own
// Prometheus registry to register alongside its other collectors:
//
//	prometheus.MustRegister(interpose.Current().Collector())
func (l *Layer) Collector() *stats.Collector {
	return stats.NewCollector(l.Stats)
}

// dispatchResult carries the outcome of the classify/enforce steps for
// a path-based call: whether the layer bypassed enforcement entirely
// (not ready, or the per-op toggle is off), the classification, the
// chosen workflow, and whether Submit was actually attempted.
type dispatchResult struct {
	bypassLayer bool // ready==false or toggle==false: skip straight to native call
	class       mount.Class
	workflow    mount.Workflow
	enforced    bool
	submitErr   error
}

// dispatchPath implements the ready check, toggle check, path
// classification, and enforcement submission for any path-taking
// interposer.
func (l *Layer) dispatchPath(ctx context.Context, opName string, path string, opCtx engine.OpType, cat engine.OpContext, payload int64) dispatchResult {
	if !l.Ready() || !l.Toggles.Enabled(opName) {
		return dispatchResult{bypassLayer: true}
	}
	class, w := l.Table.ClassifyAndPick(path)
	if class == mount.None && l.Table.DifferentiationEnabled() {
		l.Log.Printf("interpose: %s: %s: %s", ErrClassificationMiss, opName, path)
	}
	enforced, err := engine.Enforce(ctx, l.Engine, l.Log, w, opCtx, cat, payload)
	return dispatchResult{class: class, workflow: w, enforced: enforced, submitErr: err}
}

// dispatchFD is the fd-based analogue of dispatchPath: it picks a
// workflow from the entry tracked for fd instead of classifying a path.
func (l *Layer) dispatchFD(ctx context.Context, opName string, fd int32, opCtx engine.OpType, cat engine.OpContext, payload int64) dispatchResult {
	if !l.Ready() || !l.Toggles.Enabled(opName) {
		return dispatchResult{bypassLayer: true}
	}
	w := l.Table.PickForFD(fd)
	if w == mount.Invalid {
		l.Log.Printf("interpose: %s: %s: fd %d", ErrTableMiss, opName, fd)
	}
	enforced, err := engine.Enforce(ctx, l.Engine, l.Log, w, opCtx, cat, payload)
	return dispatchResult{workflow: w, enforced: enforced, submitErr: err}
}

// dispatchClose implements close()'s variant of workflow selection:
// pick for fd, falling back to the forced selector on a miss so
// unpaired closes still traverse an enforcement channel.
func (l *Layer) dispatchClose(ctx context.Context, fd int32) dispatchResult {
	if !l.Ready() || !l.Toggles.Enabled("close") {
		return dispatchResult{bypassLayer: true}
	}
	w := l.Table.PickForFD(fd)
	if w == mount.Invalid {
		w = l.Table.PickForced()
	}
	enforced, err := engine.Enforce(ctx, l.Engine, l.Log, w, engine.OpClose, engine.CtxMeta, 1)
	return dispatchResult{workflow: w, enforced: enforced, submitErr: err}
}

// dispatchStream is dispatchFD's stream-keyed analogue.
func (l *Layer) dispatchStream(ctx context.Context, opName string, f *os.File, opCtx engine.OpType, cat engine.OpContext, payload int64) dispatchResult {
	if !l.Ready() || !l.Toggles.Enabled(opName) {
		return dispatchResult{bypassLayer: true}
	}
	w := l.Table.PickForStream(f)
	if w == mount.Invalid {
		l.Log.Printf("interpose: %s: %s: untracked stream", ErrTableMiss, opName)
	}
	enforced, err := engine.Enforce(ctx, l.Engine, l.Log, w, opCtx, cat, payload)
	return dispatchResult{workflow: w, enforced: enforced, submitErr: err}
}

// record finishes any dispatch result by updating the statistics
// counters, additionally bumping Errors on a submission failure without
// double-counting Ops/Bypasses.
func (l *Layer) record(category stats.Category, opName string, bytesOrResult int64, nativeSucceeded bool, dr dispatchResult) {
	l.Stats.Record(category, opName, bytesOrResult, nativeSucceeded, dr.enforced)
	if dr.submitErr != nil {
		l.Stats.RecordEngineFailure(category, opName)
		l.Log.Printf("interpose: %s: %s: %v", ErrEngineSubmission, opName, dr.submitErr)
	}
}
