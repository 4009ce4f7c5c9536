package interpose

import (
	"context"

	"github.com/padll/iointerpose/internal/engine"
	"github.com/padll/iointerpose/internal/stats"
	"github.com/padll/iointerpose/internal/symbols"
)

var (
	mkdirSlot   symbols.Slot
	mkdiratSlot symbols.Slot
	rmdirSlot   symbols.Slot
	mknodSlot   symbols.Slot
	mknodatSlot symbols.Slot
)

// Mkdir interposes mkdir(2).
func Mkdir(ctx context.Context, path string, mode uint32) error {
	l := Current()
	dr := l.dispatchPath(ctx, "mkdir", path, engine.OpMkdir, engine.CtxDir, 1)

	fn, err := resolve[symbols.MkdirFunc](l, &mkdirSlot, "mkdir")
	if err != nil {
		l.record(stats.Directory, "mkdir", 0, false, dr)
		return err
	}

	callErr := fn(path, mode)
	l.record(stats.Directory, "mkdir", 0, callErr == nil, dr)
	return callErr
}

// Mkdirat interposes mkdirat(2).
func Mkdirat(ctx context.Context, dirfd int32, path string, mode uint32) error {
	l := Current()
	dr := l.dispatchPath(ctx, "mkdirat", path, engine.OpMkdir, engine.CtxDir, 1)

	fn, err := resolve[symbols.MkdiratFunc](l, &mkdiratSlot, "mkdirat")
	if err != nil {
		l.record(stats.Directory, "mkdirat", 0, false, dr)
		return err
	}

	callErr := fn(int(dirfd), path, mode)
	l.record(stats.Directory, "mkdirat", 0, callErr == nil, dr)
	return callErr
}

// Rmdir interposes rmdir(2).
func Rmdir(ctx context.Context, path string) error {
	l := Current()
	dr := l.dispatchPath(ctx, "rmdir", path, engine.OpRmdir, engine.CtxDir, 1)

	fn, err := resolve[symbols.RmdirFunc](l, &rmdirSlot, "rmdir")
	if err != nil {
		l.record(stats.Directory, "rmdir", 0, false, dr)
		return err
	}

	callErr := fn(path)
	l.record(stats.Directory, "rmdir", 0, callErr == nil, dr)
	return callErr
}

// Mknod interposes mknod(2).
func Mknod(ctx context.Context, path string, mode uint32, dev int) error {
	l := Current()
	dr := l.dispatchPath(ctx, "mknod", path, engine.OpMknod, engine.CtxDir, 1)

	fn, err := resolve[symbols.MknodFunc](l, &mknodSlot, "mknod")
	if err != nil {
		l.record(stats.Directory, "mknod", 0, false, dr)
		return err
	}

	callErr := fn(path, mode, dev)
	l.record(stats.Directory, "mknod", 0, callErr == nil, dr)
	return callErr
}

// Mknodat interposes mknodat(2).
func Mknodat(ctx context.Context, dirfd int32, path string, mode uint32, dev int) error {
	l := Current()
	dr := l.dispatchPath(ctx, "mknodat", path, engine.OpMknod, engine.CtxDir, 1)

	fn, err := resolve[symbols.MknodatFunc](l, &mknodatSlot, "mknodat")
	if err != nil {
		l.record(stats.Directory, "mknodat", 0, false, dr)
		return err
	}

	callErr := fn(int(dirfd), path, mode, dev)
	l.record(stats.Directory, "mknodat", 0, callErr == nil, dr)
	return callErr
}
