package interpose

import (
	"context"

	"github.com/padll/iointerpose/internal/engine"
	"github.com/padll/iointerpose/internal/stats"
	"github.com/padll/iointerpose/internal/symbols"
)

var (
	getxattrSlot   symbols.Slot
	lgetxattrSlot  symbols.Slot
	fgetxattrSlot  symbols.Slot
	setxattrSlot   symbols.Slot
	lsetxattrSlot  symbols.Slot
	fsetxattrSlot  symbols.Slot
	listxattrSlot  symbols.Slot
	llistxattrSlot symbols.Slot
	flistxattrSlot symbols.Slot
)

// Getxattr interposes getxattr(2).
func Getxattr(ctx context.Context, path, attr string, dest []byte) (int, error) {
	return pathXattrGet(ctx, "getxattr", &getxattrSlot, path, attr, dest)
}

// Lgetxattr interposes lgetxattr(2).
func Lgetxattr(ctx context.Context, path, attr string, dest []byte) (int, error) {
	return pathXattrGet(ctx, "lgetxattr", &lgetxattrSlot, path, attr, dest)
}

func pathXattrGet(ctx context.Context, opName string, slot *symbols.Slot, path, attr string, dest []byte) (int, error) {
	l := Current()
	dr := l.dispatchPath(ctx, opName, path, engine.OpGetxattr, engine.CtxXattr, 1)

	fn, err := resolve[symbols.PathXattrGetFunc](l, slot, opName)
	if err != nil {
		l.record(stats.Xattr, opName, 0, false, dr)
		return 0, err
	}

	n, callErr := fn(path, attr, dest)
	l.record(stats.Xattr, opName, int64(n), callErr == nil, dr)
	return n, callErr
}

// Fgetxattr interposes fgetxattr(2).
func Fgetxattr(ctx context.Context, fd int32, attr string, dest []byte) (int, error) {
	l := Current()
	dr := l.dispatchFD(ctx, "fgetxattr", fd, engine.OpGetxattr, engine.CtxXattr, 1)

	fn, err := resolve[symbols.FDXattrGetFunc](l, &fgetxattrSlot, "fgetxattr")
	if err != nil {
		l.record(stats.Xattr, "fgetxattr", 0, false, dr)
		return 0, err
	}

	n, callErr := fn(int(fd), attr, dest)
	l.record(stats.Xattr, "fgetxattr", int64(n), callErr == nil, dr)
	return n, callErr
}

// Setxattr interposes setxattr(2).
func Setxattr(ctx context.Context, path, attr string, data []byte, flags int) error {
	return pathXattrSet(ctx, "setxattr", &setxattrSlot, path, attr, data, flags)
}

// Lsetxattr interposes lsetxattr(2).
func Lsetxattr(ctx context.Context, path, attr string, data []byte, flags int) error {
	return pathXattrSet(ctx, "lsetxattr", &lsetxattrSlot, path, attr, data, flags)
}

func pathXattrSet(ctx context.Context, opName string, slot *symbols.Slot, path, attr string, data []byte, flags int) error {
	l := Current()
	dr := l.dispatchPath(ctx, opName, path, engine.OpSetxattr, engine.CtxXattr, 1)

	fn, err := resolve[symbols.PathXattrSetFunc](l, slot, opName)
	if err != nil {
		l.record(stats.Xattr, opName, 0, false, dr)
		return err
	}

	callErr := fn(path, attr, data, flags)
	l.record(stats.Xattr, opName, int64(len(data)), callErr == nil, dr)
	return callErr
}

// Fsetxattr interposes fsetxattr(2).
func Fsetxattr(ctx context.Context, fd int32, attr string, data []byte, flags int) error {
	l := Current()
	dr := l.dispatchFD(ctx, "fsetxattr", fd, engine.OpSetxattr, engine.CtxXattr, 1)

	fn, err := resolve[symbols.FDXattrSetFunc](l, &fsetxattrSlot, "fsetxattr")
	if err != nil {
		l.record(stats.Xattr, "fsetxattr", 0, false, dr)
		return err
	}

	callErr := fn(int(fd), attr, data, flags)
	l.record(stats.Xattr, "fsetxattr", int64(len(data)), callErr == nil, dr)
	return callErr
}

// Listxattr interposes listxattr(2).
func Listxattr(ctx context.Context, path string, dest []byte) (int, error) {
	return pathXattrLs(ctx, "listxattr", &listxattrSlot, path, dest)
}

// Llistxattr interposes llistxattr(2).
func Llistxattr(ctx context.Context, path string, dest []byte) (int, error) {
	return pathXattrLs(ctx, "llistxattr", &llistxattrSlot, path, dest)
}

func pathXattrLs(ctx context.Context, opName string, slot *symbols.Slot, path string, dest []byte) (int, error) {
	l := Current()
	dr := l.dispatchPath(ctx, opName, path, engine.OpListxattr, engine.CtxXattr, 1)

	fn, err := resolve[symbols.PathXattrLsFunc](l, slot, opName)
	if err != nil {
		l.record(stats.Xattr, opName, 0, false, dr)
		return 0, err
	}

	n, callErr := fn(path, dest)
	l.record(stats.Xattr, opName, int64(n), callErr == nil, dr)
	return n, callErr
}

// Flistxattr interposes flistxattr(2).
func Flistxattr(ctx context.Context, fd int32, dest []byte) (int, error) {
	l := Current()
	dr := l.dispatchFD(ctx, "flistxattr", fd, engine.OpListxattr, engine.CtxXattr, 1)

	fn, err := resolve[symbols.FDXattrLsFunc](l, &flistxattrSlot, "flistxattr")
	if err != nil {
		l.record(stats.Xattr, "flistxattr", 0, false, dr)
		return 0, err
	}

	n, callErr := fn(int(fd), dest)
	l.record(stats.Xattr, "flistxattr", int64(n), callErr == nil, dr)
	return n, callErr
}
