package interpose

import (
	"fmt"
	"os"
	"strconv"

	"github.com/padll/iointerpose/internal/engine"
	"github.com/padll/iointerpose/internal/mount"
	"github.com/padll/iointerpose/internal/stats"
	"github.com/padll/iointerpose/internal/symbols"
	"github.com/padll/iointerpose/logging"
)

// Environment variables consumed by the layer.
const (
	envWorkflows       = "padll_workflows"
	envEngineAddress   = "padll_engine_address"
	envEngineEnvironment = "padll_engine_environment"
	envEngineName      = "padll_engine_name"

	// envDifferentiation and envRemotePrefix populate the mount-point
	// pool; they are read the same lazy, first-call way as the table's
	// entries.
	envDifferentiation = "padll_mount_differentiation"
	envRemotePrefix    = "padll_remote_mount_point"

	// envHardRemove controls Layer.HardRemove. Defaults to true when
	// unset.
	envHardRemove = "padll_hard_remove"
)

// NewFromEnv builds a Layer from its environment variables and marks it
// ready on success. A returned error means initialization failed and
// the caller (Current) must keep the layer not-ready.
func NewFromEnv() (*Layer, error) {
	log := logging.NewLogrus()

	raw := os.Getenv(envWorkflows)
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrInitialization, envWorkflows, raw)
	}

	workflows := make([]mount.Workflow, n)
	for i := range workflows {
		workflows[i] = mount.Workflow(i)
	}

	differentiation := os.Getenv(envDifferentiation) == "1" || os.Getenv(envDifferentiation) == "true"
	remotePrefix := os.Getenv(envRemotePrefix)

	classifier := mount.NewClassifier(differentiation, remotePrefix, log)
	if differentiation {
		mount.CheckRemoteConfigured(remotePrefix, log)
	}
	pool := mount.NewPool(differentiation, workflows)
	table := mount.New(classifier, pool, log)

	cfg := engine.Config{
		Mode:    ModeFromEnv(),
		Stage:   os.Getenv(envEngineName),
		Address: os.Getenv(envEngineAddress),
		Log:     log,
	}
	if tag := os.Getenv(envEngineEnvironment); tag != "" {
		log.Printf("interpose: engine environment tag=%q", tag)
	}

	client, err := engine.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: constructing engine client: %w", ErrInitialization, err)
	}

	hardRemove := true
	if v := os.Getenv(envHardRemove); v != "" {
		hardRemove = v == "1" || v == "true"
	}

	l := &Layer{
		Resolver:   symbols.Default(),
		Table:      table,
		Engine:     client,
		Stats:      stats.New(),
		Log:        log,
		Toggles:    DefaultToggles(),
		HardRemove: hardRemove,
	}
	l.markReady()
	return l, nil
}

// ModeFromEnv chooses offline vs. online. The choice between modes is
// conceptually a compile-time toggle; since this module has no
// build-time IDL/codegen step to distinguish builds, the choice is read
// from whether an engine address was configured — an empty address
// means offline.
func ModeFromEnv() engine.Mode {
	if os.Getenv(envEngineAddress) == "" {
		return engine.ModeOffline
	}
	return engine.ModeOnline
}
