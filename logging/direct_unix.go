//go:build unix

package logging

import "golang.org/x/sys/unix"

// directStderr is an io.Writer that calls unix.Write(2, ...) directly.
// It is looked up once, here, independent of internal/symbols.Resolver,
// so that logging never recurses through the dispatch front end's own
// write interposer.
type directStderr struct{}

func (directStderr) Write(p []byte) (int, error) {
	return unix.Write(2, p)
}

func init() {
	stderr = directStderr{}
}
