package interpose

import (
	"context"

	"golang.org/x/sys/unix"

	"github.com/padll/iointerpose/internal/engine"
	"github.com/padll/iointerpose/internal/stats"
	"github.com/padll/iointerpose/internal/symbols"
)

var (
	socketSlot symbols.Slot
	fcntlSlot  symbols.Slot
)

// Socket interposes socket(2). There is no path or tracked descriptor to
// classify by at call time, so it draws from the forced selector rather
// than bypassing outright (unlike sync(), which always uses the invalid
// sentinel).
func Socket(ctx context.Context, domain, typ, proto int) (int32, error) {
	l := Current()
	dr := dispatchResult{bypassLayer: !l.Ready() || !l.Toggles.Enabled("socket")}
	if !dr.bypassLayer {
		enforced, submitErr := engine.Enforce(ctx, l.Engine, l.Log, l.Table.PickForced(), engine.OpSocket, engine.CtxSpecial, 1)
		dr.enforced, dr.submitErr = enforced, submitErr
	}

	fn, err := resolve[symbols.SocketFunc](l, &socketSlot, "socket")
	if err != nil {
		l.record(stats.Special, "socket", 0, false, dr)
		return -1, err
	}

	fd, callErr := fn(domain, typ, proto)
	l.record(stats.Special, "socket", 0, callErr == nil, dr)
	return int32(fd), callErr
}

// Fcntl interposes fcntl(2). It unpacks one pointer-sized argument
// unconditionally; for a successful F_DUPFD/F_DUPFD_CLOEXEC it rekeys
// the tracked entry from the old fd to the new one.
func Fcntl(ctx context.Context, fd int32, cmd int, arg int) (int, error) {
	l := Current()
	dr := l.dispatchFD(ctx, "fcntl", fd, engine.OpFcntl, engine.CtxSpecial, 1)

	fn, err := resolve[symbols.FcntlFunc](l, &fcntlSlot, "fcntl")
	if err != nil {
		l.record(stats.Special, "fcntl", 0, false, dr)
		return -1, err
	}

	result, callErr := fn(int(fd), cmd, arg)
	if callErr == nil && isDupCmd(cmd) && result >= 0 {
		l.Table.ReplaceFD(fd, int32(result))
	}
	l.record(stats.Special, "fcntl", 0, callErr == nil, dr)
	return result, callErr
}

func isDupCmd(cmd int) bool {
	return cmd == unix.F_DUPFD || cmd == unix.F_DUPFD_CLOEXEC
}
