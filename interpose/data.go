package interpose

import (
	"context"

	"github.com/padll/iointerpose/internal/engine"
	"github.com/padll/iointerpose/internal/stats"
	"github.com/padll/iointerpose/internal/symbols"
)

var (
	readSlot   symbols.Slot
	writeSlot  symbols.Slot
	preadSlot  symbols.Slot
	pwriteSlot symbols.Slot
	mmapSlot   symbols.Slot
	munmapSlot symbols.Slot
)

// Read interposes read(2). See package interpose's doc comment for the
// nine-step shape every function in this file follows.
func Read(ctx context.Context, fd int32, p []byte) (int, error) {
	l := Current()
	dr := l.dispatchFD(ctx, "read", fd, engine.OpRead, engine.CtxData, int64(len(p)))

	fn, err := resolve[symbols.ReadFunc](l, &readSlot, "read")
	if err != nil {
		l.record(stats.Data, "read", 0, false, dr)
		return 0, err
	}

	n, callErr := fn(int(fd), p)
	l.record(stats.Data, "read", int64(n), callErr == nil, dr)
	return n, callErr
}

// Write interposes write(2).
func Write(ctx context.Context, fd int32, p []byte) (int, error) {
	l := Current()
	dr := l.dispatchFD(ctx, "write", fd, engine.OpWrite, engine.CtxData, int64(len(p)))

	fn, err := resolve[symbols.WriteFunc](l, &writeSlot, "write")
	if err != nil {
		l.record(stats.Data, "write", 0, false, dr)
		return 0, err
	}

	n, callErr := fn(int(fd), p)
	l.record(stats.Data, "write", int64(n), callErr == nil, dr)
	return n, callErr
}

// Pread interposes pread(2).
func Pread(ctx context.Context, fd int32, p []byte, offset int64) (int, error) {
	l := Current()
	dr := l.dispatchFD(ctx, "pread", fd, engine.OpPread, engine.CtxData, int64(len(p)))

	fn, err := resolve[symbols.PreadFunc](l, &preadSlot, "pread")
	if err != nil {
		l.record(stats.Data, "pread", 0, false, dr)
		return 0, err
	}

	n, callErr := fn(int(fd), p, offset)
	l.record(stats.Data, "pread", int64(n), callErr == nil, dr)
	return n, callErr
}

// Pwrite interposes pwrite(2).
func Pwrite(ctx context.Context, fd int32, p []byte, offset int64) (int, error) {
	l := Current()
	dr := l.dispatchFD(ctx, "pwrite", fd, engine.OpPwrite, engine.CtxData, int64(len(p)))

	fn, err := resolve[symbols.PwriteFunc](l, &pwriteSlot, "pwrite")
	if err != nil {
		l.record(stats.Data, "pwrite", 0, false, dr)
		return 0, err
	}

	n, callErr := fn(int(fd), p, offset)
	l.record(stats.Data, "pwrite", int64(n), callErr == nil, dr)
	return n, callErr
}

// Mmap interposes mmap(2). Payload is the requested mapping length, as
// with every other data operation's byte count.
func Mmap(ctx context.Context, fd int32, offset int64, length, prot, flags int) ([]byte, error) {
	l := Current()
	dr := l.dispatchFD(ctx, "mmap", fd, engine.OpMmap, engine.CtxData, int64(length))

	fn, err := resolve[symbols.MmapFunc](l, &mmapSlot, "mmap")
	if err != nil {
		l.record(stats.Data, "mmap", 0, false, dr)
		return nil, err
	}

	data, callErr := fn(int(fd), offset, length, prot, flags)
	l.record(stats.Data, "mmap", int64(len(data)), callErr == nil, dr)
	return data, callErr
}

// Munmap interposes munmap(2).
func Munmap(ctx context.Context, b []byte) error {
	l := Current()
	dr := dispatchResult{bypassLayer: !l.Ready() || !l.Toggles.Enabled("munmap")}
	if !dr.bypassLayer {
		enforced, submitErr := engine.Enforce(ctx, l.Engine, l.Log, l.Table.PickForced(), engine.OpMunmap, engine.CtxData, 1)
		dr.enforced, dr.submitErr = enforced, submitErr
	}

	fn, err := resolve[symbols.MunmapFunc](l, &munmapSlot, "munmap")
	if err != nil {
		l.record(stats.Data, "munmap", 0, false, dr)
		return err
	}

	callErr := fn(b)
	l.record(stats.Data, "munmap", int64(len(b)), callErr == nil, dr)
	return callErr
}
