package interpose

import (
	"context"
	"os"

	"github.com/padll/iointerpose/internal/engine"
	"github.com/padll/iointerpose/internal/mount"
	"github.com/padll/iointerpose/internal/stats"
	"github.com/padll/iointerpose/internal/symbols"
	"golang.org/x/sys/unix"
)

var (
	openSlot     symbols.Slot
	openatSlot   symbols.Slot
	closeSlot    symbols.Slot
	syncSlot     symbols.Slot
	statfsSlot   symbols.Slot
	fstatfsSlot  symbols.Slot
	unlinkSlot   symbols.Slot
	unlinkatSlot symbols.Slot
	renameSlot   symbols.Slot
	renameatSlot symbols.Slot
	fopenSlot    symbols.Slot
	fcloseSlot   symbols.Slot
)

// openOp implements the variadic split: open/openat/open64 read the
// mode argument and take a distinct "variadic" code path only when
// O_CREAT is set.
func openOp(flags int) (opName string, opType engine.OpType) {
	if flags&unix.O_CREAT != 0 {
		return "open_variadic", engine.OpOpenVariadic
	}
	return "open", engine.OpOpen
}

// Open interposes open(2)/open64(2).
func Open(ctx context.Context, path string, flags int, mode uint32) (int32, error) {
	l := Current()
	opName, opType := openOp(flags)
	dr := l.dispatchPath(ctx, opName, path, opType, engine.CtxMeta, 1)

	fn, err := resolve[symbols.OpenFunc](l, &openSlot, "open")
	if err != nil {
		l.record(stats.Metadata, opName, 0, false, dr)
		return -1, err
	}

	fd, callErr := fn(path, flags, mode)
	if callErr == nil && fd >= 0 && !dr.bypassLayer {
		l.Table.InsertFD(int32(fd), path, dr.class, mount.UnsetMetadataUnit)
	}
	l.record(stats.Metadata, opName, int64(fd), callErr == nil, dr)
	return int32(fd), callErr
}

// Openat interposes openat(2)/openat64(2). dirfd is forwarded verbatim
// to the native call; classification still operates on path alone, the
// same simplification the source makes (it does not resolve dirfd-
// relative paths before extract()).
func Openat(ctx context.Context, dirfd int32, path string, flags int, mode uint32) (int32, error) {
	l := Current()
	_, opType := openOp(flags)
	opName := "openat"
	if opType == engine.OpOpenVariadic {
		opName = "openat_variadic"
	}
	dr := l.dispatchPath(ctx, opName, path, opType, engine.CtxMeta, 1)

	fn, err := resolve[symbols.OpenatFunc](l, &openatSlot, "openat")
	if err != nil {
		l.record(stats.Metadata, opName, 0, false, dr)
		return -1, err
	}

	fd, callErr := fn(int(dirfd), path, flags, mode)
	if callErr == nil && fd >= 0 && !dr.bypassLayer {
		l.Table.InsertFD(int32(fd), path, dr.class, mount.UnsetMetadataUnit)
	}
	l.record(stats.Metadata, opName, int64(fd), callErr == nil, dr)
	return int32(fd), callErr
}

// Creat interposes creat(2)/creat64(2): creat(path, mode) is equivalent
// to open(path, O_CREAT|O_WRONLY|O_TRUNC, mode), so it reuses the open
// native symbol and always takes the variadic code path.
func Creat(ctx context.Context, path string, mode uint32) (int32, error) {
	l := Current()
	dr := l.dispatchPath(ctx, "creat", path, engine.OpOpenVariadic, engine.CtxMeta, 1)

	fn, err := resolve[symbols.OpenFunc](l, &openSlot, "open")
	if err != nil {
		l.record(stats.Metadata, "creat", 0, false, dr)
		return -1, err
	}

	fd, callErr := fn(path, unix.O_CREAT|unix.O_WRONLY|unix.O_TRUNC, mode)
	if callErr == nil && fd >= 0 && !dr.bypassLayer {
		l.Table.InsertFD(int32(fd), path, dr.class, mount.UnsetMetadataUnit)
	}
	l.record(stats.Metadata, "creat", int64(fd), callErr == nil, dr)
	return int32(fd), callErr
}

// Close interposes close(2). It picks for fd, falling back to the
// forced selector so unpaired closes still traverse an enforcement
// channel.
func Close(ctx context.Context, fd int32) error {
	l := Current()
	dr := l.dispatchClose(ctx, fd)

	fn, err := resolve[symbols.CloseFunc](l, &closeSlot, "close")
	if err != nil {
		l.record(stats.Metadata, "close", 0, false, dr)
		return err
	}

	callErr := fn(int(fd))
	if callErr == nil && l.HardRemove {
		l.Table.RemoveFD(fd)
	}
	l.record(stats.Metadata, "close", 0, callErr == nil, dr)
	return callErr
}

// Sync interposes sync(2). There is no workflow-selection path for
// sync: it always submits with the invalid sentinel (bypassed) while
// still counting the op.
func Sync(ctx context.Context) error {
	l := Current()
	dr := dispatchResult{bypassLayer: !l.Ready() || !l.Toggles.Enabled("sync")}
	if !dr.bypassLayer {
		enforced, submitErr := engine.Enforce(ctx, l.Engine, l.Log, mount.Invalid, engine.OpSync, engine.CtxMeta, 1)
		dr.enforced, dr.submitErr = enforced, submitErr
	}

	fn, err := resolve[symbols.SyncFunc](l, &syncSlot, "sync")
	if err != nil {
		l.record(stats.Metadata, "sync", 0, false, dr)
		return err
	}

	fn()
	l.record(stats.Metadata, "sync", 0, true, dr)
	return nil
}

// Statfs interposes statfs(2)/statfs64(2).
func Statfs(ctx context.Context, path string, buf *unix.Statfs_t) error {
	l := Current()
	dr := l.dispatchPath(ctx, "statfs", path, engine.OpStatfs, engine.CtxMeta, 1)

	fn, err := resolve[symbols.StatfsFunc](l, &statfsSlot, "statfs")
	if err != nil {
		l.record(stats.Metadata, "statfs", 0, false, dr)
		return err
	}

	callErr := fn(path, buf)
	l.record(stats.Metadata, "statfs", 0, callErr == nil, dr)
	return callErr
}

// Fstatfs interposes fstatfs(2)/fstatfs64(2).
func Fstatfs(ctx context.Context, fd int32, buf *unix.Statfs_t) error {
	l := Current()
	dr := l.dispatchFD(ctx, "fstatfs", fd, engine.OpStatfs, engine.CtxMeta, 1)

	fn, err := resolve[symbols.FstatfsFunc](l, &fstatfsSlot, "fstatfs")
	if err != nil {
		l.record(stats.Metadata, "fstatfs", 0, false, dr)
		return err
	}

	callErr := fn(int(fd), buf)
	l.record(stats.Metadata, "fstatfs", 0, callErr == nil, dr)
	return callErr
}

// Unlink interposes unlink(2).
func Unlink(ctx context.Context, path string) error {
	l := Current()
	dr := l.dispatchPath(ctx, "unlink", path, engine.OpUnlink, engine.CtxMeta, 1)

	fn, err := resolve[symbols.UnlinkFunc](l, &unlinkSlot, "unlink")
	if err != nil {
		l.record(stats.Metadata, "unlink", 0, false, dr)
		return err
	}

	callErr := fn(path)
	l.record(stats.Metadata, "unlink", 0, callErr == nil, dr)
	return callErr
}

// Unlinkat interposes unlinkat(2).
func Unlinkat(ctx context.Context, dirfd int32, path string, flags int) error {
	l := Current()
	dr := l.dispatchPath(ctx, "unlinkat", path, engine.OpUnlink, engine.CtxMeta, 1)

	fn, err := resolve[symbols.UnlinkatFunc](l, &unlinkatSlot, "unlinkat")
	if err != nil {
		l.record(stats.Metadata, "unlinkat", 0, false, dr)
		return err
	}

	callErr := fn(int(dirfd), path, flags)
	l.record(stats.Metadata, "unlinkat", 0, callErr == nil, dr)
	return callErr
}

// Rename interposes rename(2). Classification is computed from oldpath,
// matching the source's treatment of rename as a single-path operation
// for mount-point purposes.
func Rename(ctx context.Context, oldpath, newpath string) error {
	l := Current()
	dr := l.dispatchPath(ctx, "rename", oldpath, engine.OpRename, engine.CtxMeta, 1)

	fn, err := resolve[symbols.RenameFunc](l, &renameSlot, "rename")
	if err != nil {
		l.record(stats.Metadata, "rename", 0, false, dr)
		return err
	}

	callErr := fn(oldpath, newpath)
	l.record(stats.Metadata, "rename", 0, callErr == nil, dr)
	return callErr
}

// Renameat interposes renameat(2).
func Renameat(ctx context.Context, olddirfd int32, oldpath string, newdirfd int32, newpath string) error {
	l := Current()
	dr := l.dispatchPath(ctx, "renameat", oldpath, engine.OpRename, engine.CtxMeta, 1)

	fn, err := resolve[symbols.RenameatFunc](l, &renameatSlot, "renameat")
	if err != nil {
		l.record(stats.Metadata, "renameat", 0, false, dr)
		return err
	}

	callErr := fn(int(olddirfd), oldpath, int(newdirfd), newpath)
	l.record(stats.Metadata, "renameat", 0, callErr == nil, dr)
	return callErr
}

// Fopen interposes fopen(3)/fopen64(3), modeling the libc FILE* stream
// as an *os.File handle tracked in the stream table.
func Fopen(ctx context.Context, path string, flags int, mode uint32) (*os.File, error) {
	l := Current()
	dr := l.dispatchPath(ctx, "fopen", path, engine.OpFopen, engine.CtxMeta, 1)

	fn, err := resolve[symbols.FopenFunc](l, &fopenSlot, "fopen")
	if err != nil {
		l.record(stats.Metadata, "fopen", 0, false, dr)
		return nil, err
	}

	f, callErr := fn(path, flags, mode)
	if callErr == nil && f != nil && !dr.bypassLayer {
		l.Table.InsertStream(f, path, dr.class, mount.UnsetMetadataUnit)
	}
	l.record(stats.Metadata, "fopen", 0, callErr == nil, dr)
	return f, callErr
}

// Fclose interposes fclose(3).
func Fclose(ctx context.Context, f *os.File) error {
	l := Current()
	dr := l.dispatchStream(ctx, "fclose", f, engine.OpFclose, engine.CtxMeta, 1)

	fn, err := resolve[symbols.FcloseFunc](l, &fcloseSlot, "fclose")
	if err != nil {
		l.record(stats.Metadata, "fclose", 0, false, dr)
		return err
	}

	callErr := fn(f)
	if callErr == nil {
		l.Table.RemoveStream(f)
	}
	l.record(stats.Metadata, "fclose", 0, callErr == nil, dr)
	return callErr
}
