package symbols

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// Function types for every entry point in the intercepted surface. Each
// matches the native call's real signature so the dispatch front end
// can type-assert the Fn returned by Resolve without any further
// adaptation.
type (
	OpenFunc     func(path string, flags int, mode uint32) (int, error)
	OpenatFunc   func(dirfd int, path string, flags int, mode uint32) (int, error)
	CloseFunc    func(fd int) error
	ReadFunc     func(fd int, p []byte) (int, error)
	WriteFunc    func(fd int, p []byte) (int, error)
	PreadFunc    func(fd int, p []byte, offset int64) (int, error)
	PwriteFunc   func(fd int, p []byte, offset int64) (int, error)
	MmapFunc     func(fd int, offset int64, length int, prot int, flags int) ([]byte, error)
	MunmapFunc   func(b []byte) error
	SyncFunc     func()
	StatfsFunc   func(path string, buf *unix.Statfs_t) error
	FstatfsFunc  func(fd int, buf *unix.Statfs_t) error
	UnlinkFunc   func(path string) error
	UnlinkatFunc func(dirfd int, path string, flags int) error
	RenameFunc   func(oldpath, newpath string) error
	RenameatFunc func(olddirfd int, oldpath string, newdirfd int, newpath string) error
	MkdirFunc    func(path string, mode uint32) error
	MkdiratFunc  func(dirfd int, path string, mode uint32) error
	RmdirFunc    func(path string) error
	MknodFunc    func(path string, mode uint32, dev int) error
	MknodatFunc  func(dirfd int, path string, mode uint32, dev int) error

	// PathXattrGetFunc covers getxattr/lgetxattr (the follow/no-follow
	// distinction is baked into which function value is resolved).
	PathXattrGetFunc func(path, attr string, dest []byte) (int, error)
	FDXattrGetFunc   func(fd int, attr string, dest []byte) (int, error)
	PathXattrSetFunc func(path, attr string, data []byte, flags int) error
	FDXattrSetFunc   func(fd int, attr string, data []byte, flags int) error
	PathXattrLsFunc  func(path string, dest []byte) (int, error)
	FDXattrLsFunc    func(fd int, dest []byte) (int, error)

	SocketFunc func(domain, typ, proto int) (int, error)
	FcntlFunc  func(fd int, cmd int, arg int) (int, error)

	FopenFunc  func(path string, flags int, mode uint32) (*os.File, error)
	FcloseFunc func(f *os.File) error
)

// viaUnixPackage is the primary resolution strategy: every native entry
// point backed directly by golang.org/x/sys/unix.
func viaUnixPackage(name string) (Fn, error) {
	switch name {
	case "open":
		return OpenFunc(unix.Open), nil
	case "openat":
		return OpenatFunc(unix.Openat), nil
	case "close":
		return CloseFunc(unix.Close), nil
	case "read":
		return ReadFunc(unix.Read), nil
	case "write":
		return WriteFunc(unix.Write), nil
	case "pread":
		return PreadFunc(unix.Pread), nil
	case "pwrite":
		return PwriteFunc(unix.Pwrite), nil
	case "mmap":
		return MmapFunc(unix.Mmap), nil
	case "munmap":
		return MunmapFunc(unix.Munmap), nil
	case "sync":
		return SyncFunc(unix.Sync), nil
	case "statfs":
		return StatfsFunc(unix.Statfs), nil
	case "fstatfs":
		return FstatfsFunc(unix.Fstatfs), nil
	case "unlink":
		return UnlinkFunc(unix.Unlink), nil
	case "unlinkat":
		return UnlinkatFunc(unix.Unlinkat), nil
	case "rename":
		return RenameFunc(unix.Rename), nil
	case "renameat":
		return RenameatFunc(unix.Renameat), nil
	case "mkdir":
		return MkdirFunc(unix.Mkdir), nil
	case "mkdirat":
		return MkdiratFunc(unix.Mkdirat), nil
	case "rmdir":
		return RmdirFunc(unix.Rmdir), nil
	case "mknod":
		return MknodFunc(unix.Mknod), nil
	case "mknodat":
		return MknodatFunc(unix.Mknodat), nil
	case "getxattr":
		return PathXattrGetFunc(unix.Getxattr), nil
	case "lgetxattr":
		return PathXattrGetFunc(unix.Lgetxattr), nil
	case "fgetxattr":
		return FDXattrGetFunc(unix.Fgetxattr), nil
	case "setxattr":
		return PathXattrSetFunc(unix.Setxattr), nil
	case "lsetxattr":
		return PathXattrSetFunc(unix.Lsetxattr), nil
	case "fsetxattr":
		return FDXattrSetFunc(unix.Fsetxattr), nil
	case "listxattr":
		return PathXattrLsFunc(unix.Listxattr), nil
	case "llistxattr":
		return PathXattrLsFunc(unix.Llistxattr), nil
	case "flistxattr":
		return FDXattrLsFunc(unix.Flistxattr), nil
	case "socket":
		return SocketFunc(unix.Socket), nil
	case "fcntl":
		return FcntlFunc(func(fd int, cmd int, arg int) (int, error) {
			return unix.FcntlInt(uintptr(fd), cmd, arg)
		}), nil
	case "fopen":
		return FopenFunc(func(path string, flags int, mode uint32) (*os.File, error) {
			fd, err := unix.Open(path, flags, mode)
			if err != nil {
				return nil, err
			}
			return os.NewFile(uintptr(fd), path), nil
		}), nil
	case "fclose":
		return FcloseFunc(func(f *os.File) error { return f.Close() }), nil
	}
	return nil, ErrUnknown
}

// viaDirectStdlib is the fallback resolution strategy used when
// viaUnixPackage does not recognize a name. It covers a subset of the
// same operations (close, read, write, unlink, rename, mkdir, rmdir) via
// the standard syscall package, playing the role of the
// "next loaded object" dynamic-linking namespace: a second, independent
// source for the same native behavior.
func viaDirectStdlib(name string) (Fn, error) {
	switch name {
	case "close":
		return CloseFunc(syscall.Close), nil
	case "read":
		return ReadFunc(syscall.Read), nil
	case "write":
		return WriteFunc(syscall.Write), nil
	case "unlink":
		return UnlinkFunc(syscall.Unlink), nil
	case "rename":
		return RenameFunc(syscall.Rename), nil
	case "mkdir":
		return MkdirFunc(func(path string, mode uint32) error {
			return syscall.Mkdir(path, mode)
		}), nil
	case "rmdir":
		return RmdirFunc(syscall.Rmdir), nil
	}
	return nil, fmt.Errorf("symbols: %q: %w", name, ErrUnknown)
}

// Default returns a Resolver wired to the real native entry points.
func Default() *Resolver {
	return New(viaUnixPackage, viaDirectStdlib)
}
