package mount

import (
	"os"
	"sync"

	"github.com/padll/iointerpose/logging"
)

// Table is the mount-point & descriptor table: it classifies paths,
// picks workflows, and tracks live fd/stream entries. The fd-keyed and
// stream-keyed maps each carry their own sync.RWMutex so fd and stream
// traffic never contend with each other; Pool's workflow lists are
// immutable after construction, and only its PRNG draw is locked,
// inside Pool.
type Table struct {
	classifier *Classifier
	pool       *Pool
	log        logging.Logger

	fdMu sync.RWMutex
	fds  map[int32]*Entry

	streamMu sync.RWMutex
	streams  map[*os.File]*Entry
}

// New builds an empty Table.
func New(classifier *Classifier, pool *Pool, log logging.Logger) *Table {
	if log == nil {
		log = logging.Discard
	}
	return &Table{
		classifier: classifier,
		pool:       pool,
		log:        log,
		fds:        make(map[int32]*Entry),
		streams:    make(map[*os.File]*Entry),
	}
}

// ClassifyAndPick is the combined entry point for path-based
// interposers: classify path, then pick a workflow from the resulting
// class's pool.
func (t *Table) ClassifyAndPick(path string) (Class, Workflow) {
	class := t.classifier.Extract(path)
	return class, t.pool.Pick(class)
}

// DifferentiationEnabled reports whether mount-point differentiation is
// on, delegating to the underlying pool.
func (t *Table) DifferentiationEnabled() bool {
	return t.pool.DifferentiationEnabled()
}

// PickForFD looks up the entry for fd and picks from its class;
// Invalid if fd is reserved or untracked.
func (t *Table) PickForFD(fd int32) Workflow {
	e, ok := t.GetFD(fd)
	if !ok {
		return Invalid
	}
	return t.pool.Pick(e.Class)
}

// PickForStream is PickForFD's stream-keyed analogue.
func (t *Table) PickForStream(f *os.File) Workflow {
	e, ok := t.GetStream(f)
	if !ok {
		return Invalid
	}
	return t.pool.Pick(e.Class)
}

// PickForced delegates to the pool's forced selector, used by close()
// when PickForFD misses.
func (t *Table) PickForced() Workflow {
	return t.pool.PickForced()
}

// InsertFD tracks a new entry at fd. Reserved descriptors are rejected
// (false, logged). An existing entry at fd is replaced, logged but not
// treated as a failure — a later open reusing a recently-closed fd is a
// normal occurrence.
func (t *Table) InsertFD(fd int32, path string, class Class, unit MetadataUnit) bool {
	if reservedFD(fd) {
		t.log.Printf("mount: refusing to track reserved fd %d (path=%q)", fd, path)
		return false
	}

	t.fdMu.Lock()
	defer t.fdMu.Unlock()
	if _, exists := t.fds[fd]; exists {
		t.log.Printf("mount: replacing existing entry at fd %d with path %q", fd, path)
	}
	t.fds[fd] = &Entry{Path: path, Class: class, MetadataUnit: unit}
	return true
}

// InsertStream is InsertFD's stream-keyed analogue; it rejects nil or
// standard streams.
func (t *Table) InsertStream(f *os.File, path string, class Class, unit MetadataUnit) bool {
	if reservedStream(f) {
		t.log.Printf("mount: refusing to track reserved stream (path=%q)", path)
		return false
	}

	t.streamMu.Lock()
	defer t.streamMu.Unlock()
	if _, exists := t.streams[f]; exists {
		t.log.Printf("mount: replacing existing stream entry with path %q", path)
	}
	t.streams[f] = &Entry{Path: path, Class: class, MetadataUnit: unit}
	return true
}

// GetFD returns the entry for fd, or (nil, false) if fd is reserved or
// untracked.
func (t *Table) GetFD(fd int32) (*Entry, bool) {
	if reservedFD(fd) {
		return nil, false
	}
	t.fdMu.RLock()
	defer t.fdMu.RUnlock()
	e, ok := t.fds[fd]
	return e, ok
}

// GetStream is GetFD's stream-keyed analogue.
func (t *Table) GetStream(f *os.File) (*Entry, bool) {
	if reservedStream(f) {
		return nil, false
	}
	t.streamMu.RLock()
	defer t.streamMu.RUnlock()
	e, ok := t.streams[f]
	return e, ok
}

// RemoveFD drops the tracked entry at fd, if any.
func (t *Table) RemoveFD(fd int32) bool {
	if reservedFD(fd) {
		return false
	}
	t.fdMu.Lock()
	defer t.fdMu.Unlock()
	if _, ok := t.fds[fd]; !ok {
		return false
	}
	delete(t.fds, fd)
	return true
}

// RemoveStream is RemoveFD's stream-keyed analogue.
func (t *Table) RemoveStream(f *os.File) bool {
	if reservedStream(f) {
		return false
	}
	t.streamMu.Lock()
	defer t.streamMu.Unlock()
	if _, ok := t.streams[f]; !ok {
		return false
	}
	delete(t.streams, f)
	return true
}

// ReplaceFD rekeys the entry previously at old to new, atomically with
// respect to concurrent lookups — holding the single writer lock for
// the whole operation means no reader ever observes "only old" or
// "neither" states beyond what a single Go memory write already
// guarantees.
func (t *Table) ReplaceFD(old, new_ int32) bool {
	if reservedFD(old) || reservedFD(new_) {
		t.log.Printf("mount: refusing to replace fd %d -> %d (reserved)", old, new_)
		return false
	}

	t.fdMu.Lock()
	defer t.fdMu.Unlock()
	e, ok := t.fds[old]
	if !ok {
		t.log.Printf("mount: replace_fd: no entry tracked at fd %d", old)
		return false
	}
	delete(t.fds, old)
	t.fds[new_] = e
	return true
}
