package symbols

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCachesAndReturnsSameValue(t *testing.T) {
	var calls int32
	r := New(func(name string) (Fn, error) {
		atomic.AddInt32(&calls, 1)
		return name + "-fn", nil
	}, nil)

	fn1, err := r.Resolve("open")
	require.NoError(t, err)
	fn2, err := r.Resolve("open")
	require.NoError(t, err)

	assert.Equal(t, fn1, fn2)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestResolveFallsBackOnUnknown(t *testing.T) {
	r := New(
		func(name string) (Fn, error) { return nil, ErrUnknown },
		func(name string) (Fn, error) { return "fallback-" + name, nil },
	)

	fn, err := r.Resolve("rmdir")
	require.NoError(t, err)
	assert.Equal(t, "fallback-rmdir", fn)
}

func TestResolveFailsWhenBothStrategiesMiss(t *testing.T) {
	r := New(
		func(name string) (Fn, error) { return nil, ErrUnknown },
		func(name string) (Fn, error) { return nil, ErrUnknown },
	)

	_, err := r.Resolve("bogus")
	require.Error(t, err)
}

func TestResolveSerializesConcurrentFirstCallers(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	r := New(func(name string) (Fn, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "fn", nil
	}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Resolve("open")
			assert.NoError(t, err)
		}()
	}
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestSlotLoadStore(t *testing.T) {
	var s Slot
	assert.Nil(t, s.Load())
	s.Store("hello")
	assert.Equal(t, "hello", s.Load())
}

func TestDefaultResolverKnowsEveryEntryPoint(t *testing.T) {
	r := Default()
	names := []string{
		"open", "openat", "close", "read", "write", "pread", "pwrite",
		"mmap", "munmap", "sync", "statfs", "fstatfs", "unlink", "unlinkat",
		"rename", "renameat", "mkdir", "mkdirat", "rmdir", "mknod", "mknodat",
		"getxattr", "lgetxattr", "fgetxattr", "setxattr", "lsetxattr",
		"fsetxattr", "listxattr", "llistxattr", "flistxattr", "socket",
		"fcntl", "fopen", "fclose",
	}
	for _, n := range names {
		fn, err := r.Resolve(n)
		require.NoErrorf(t, err, "resolving %q", n)
		assert.NotNilf(t, fn, "resolving %q", n)
	}
}
