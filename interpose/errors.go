package interpose

import "errors"

// The five error kinds an interposed call can be classified under.
// These are sentinels for errors.Is; the application-visible return
// values of every interposer are always the native call's own result
// — a native function returning its own error indicator is never
// recovered from and is surfaced to the caller unchanged, with no
// sentinel of its own. These only classify what this package itself
// logs and counts.
var (
	// ErrClassificationMiss marks a path that matched no configured
	// mount-point.
	ErrClassificationMiss = errors.New("interpose: path matched no configured mount-point")

	// ErrTableMiss marks a descriptor or stream with no tracked entry.
	ErrTableMiss = errors.New("interpose: descriptor or stream not tracked")

	// ErrResolverFailure marks a native symbol that could not be
	// resolved: fatal for the entry point it applies to.
	ErrResolverFailure = errors.New("interpose: native symbol could not be resolved")

	// ErrEngineSubmission marks a policy engine submission failure.
	ErrEngineSubmission = errors.New("interpose: policy engine submission failed")

	// ErrInitialization marks a layer initialization failure.
	ErrInitialization = errors.New("interpose: layer initialization failed")
)
