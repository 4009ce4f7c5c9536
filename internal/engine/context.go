// Package engine is the policy-engine client: it builds a typed context
// record and hands it to the external engine, which computes
// rate-limiting/shaping decisions entirely out of this module's scope.
// Only the submission contract lives here.
package engine

import (
	"github.com/google/uuid"
	"github.com/padll/iointerpose/internal/mount"
)

// OpType is the enumerated operation submitted in a Context.
type OpType string

const (
	OpOpen        OpType = "open"
	OpOpenVariadic OpType = "open_variadic"
	OpClose       OpType = "close"
	OpRead        OpType = "read"
	OpWrite       OpType = "write"
	OpPread       OpType = "pread"
	OpPwrite      OpType = "pwrite"
	OpMmap        OpType = "mmap"
	OpMunmap      OpType = "munmap"
	OpSync        OpType = "sync"
	OpStatfs      OpType = "statfs"
	OpUnlink      OpType = "unlink"
	OpRename      OpType = "rename"
	OpFopen       OpType = "fopen"
	OpFclose      OpType = "fclose"
	OpMkdir       OpType = "mkdir"
	OpRmdir       OpType = "rmdir"
	OpMknod       OpType = "mknod"
	OpGetxattr    OpType = "getxattr"
	OpSetxattr    OpType = "setxattr"
	OpListxattr   OpType = "listxattr"
	OpSocket      OpType = "socket"
	OpFcntl       OpType = "fcntl"
)

// OpContext is the coarse category the engine uses to route a Context to
// a channel, matching the statistics registry's five categories
// one-for-one.
type OpContext string

const (
	CtxData     OpContext = "data"
	CtxMeta     OpContext = "meta"
	CtxDir      OpContext = "dir"
	CtxXattr    OpContext = "xattr"
	CtxSpecial  OpContext = "special"
)

// Context is the record submitted to the engine.
type Context struct {
	Workflow  mount.Workflow
	Op        OpType
	OpContext OpContext
	Size      int64
	Count     int32

	// TraceID correlates a submission with any "submission failed" log
	// line. It is a domain-stack addition (SPEC_FULL "Module D") used
	// only for logging. The online client's JSON encoding sends it along
	// with the other fields; the offline client ignores it.
	TraceID uuid.UUID
}

// NewContext builds a Context for a data operation or a unit-cost
// operation; payload is the byte count for data ops and 1 for
// everything else.
func NewContext(w mount.Workflow, op OpType, opCtx OpContext, payload int64) Context {
	return Context{
		Workflow:  w,
		Op:        op,
		OpContext: opCtx,
		Size:      payload,
		Count:     1,
		TraceID:   uuid.New(),
	}
}
