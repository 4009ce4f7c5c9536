package engine

import (
	"context"
	"fmt"

	"github.com/padll/iointerpose/internal/mount"
	"github.com/padll/iointerpose/logging"
)

// Client is the submission contract toward the external policy engine.
// Submit hands one Context to the engine and returns any submission
// error; whether enforcement actually happened is reported by Enforce.
// An Invalid workflow never reaches the engine at all and the caller
// should not even call Submit in that case — see Enforce.
type Client interface {
	Submit(ctx context.Context, rec Context) error
	Close() error
}

// Mode selects the engine-facing transport: a compile-time toggle
// between a local stand-in and a real network client.
type Mode int

const (
	ModeOffline Mode = iota
	ModeOnline
)

// Transport names the online-mode transport kind.
type Transport string

const (
	TransportTCP  Transport = "tcp"
	TransportUnix Transport = "unix"
)

// Config holds the engine-facing construction parameters.
type Config struct {
	Mode Mode

	Channels             int
	DefaultObjectCreation bool
	Stage                string

	// Offline mode.
	HousekeepingRulesPath     string
	DifferentiationRulesPath  string
	EnforcementRulesPath      string
	ExecuteOnReceive          bool

	// Online mode.
	Address   string
	Port      int
	Transport Transport

	Log logging.Logger
}

// New constructs a Client for cfg.Mode.
func New(cfg Config) (Client, error) {
	if cfg.Log == nil {
		cfg.Log = logging.Discard
	}
	switch cfg.Mode {
	case ModeOffline:
		return newOfflineClient(cfg), nil
	case ModeOnline:
		return newOnlineClient(cfg)
	default:
		return nil, fmt.Errorf("engine: unknown mode %d", cfg.Mode)
	}
}

// Enforce submits an operation to the engine end to end: if w is
// Invalid, it returns false without contacting the engine at all (the
// caller then counts the operation as bypassed); otherwise it builds the
// Context and submits it, returning true once the engine has released
// the caller. A submission error is logged and returned alongside true.
func Enforce(ctx context.Context, client Client, log logging.Logger, w mount.Workflow, op OpType, opCtx OpContext, payload int64) (enforced bool, err error) {
	if w == mount.Invalid {
		return false, nil
	}
	if log == nil {
		log = logging.Discard
	}

	rec := NewContext(w, op, opCtx, payload)
	if submitErr := client.Submit(ctx, rec); submitErr != nil {
		log.Printf("engine: submission failed for op=%s workflow=%d trace=%s: %v", op, w, rec.TraceID, submitErr)
		return true, submitErr
	}
	return true, nil
}
