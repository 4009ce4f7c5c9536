// Package stats is the statistics registry: one set of per-operation
// counters for each of the five operation categories, updated on the
// hot path and read back wholesale for a teardown report.
package stats

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"
)

// Category groups operations into the five tracked kinds.
type Category int

const (
	Metadata Category = iota
	Data
	Directory
	Xattr
	Special

	numCategories
)

func (c Category) String() string {
	switch c {
	case Metadata:
		return "metadata"
	case Data:
		return "data"
	case Directory:
		return "directory"
	case Xattr:
		return "xattr"
	case Special:
		return "special"
	default:
		return "unknown"
	}
}

// Counter holds the four tracked fields for one operation.
type Counter struct {
	Ops      uint64
	Bytes    uint64
	Errors   uint64
	Bypasses uint64
}

type key struct {
	category Category
	op       string
}

// Registry is the statistics registry. The zero value is not usable;
// construct with New.
type Registry struct {
	mu       sync.Mutex
	counters map[key]*Counter
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{counters: make(map[key]*Counter)}
}

// Record counts one call. On success it increments Ops (or Bypasses, if
// enforced is false) and adds a positive bytesOrResult to Bytes; on
// failure it increments only Errors.
func (r *Registry) Record(category Category, op string, bytesOrResult int64, succeeded, enforced bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{category, op}
	c, ok := r.counters[k]
	if !ok {
		c = &Counter{}
		r.counters[k] = c
	}

	if !succeeded {
		c.Errors++
		return
	}
	if !enforced {
		c.Bypasses++
	} else {
		c.Ops++
	}
	if bytesOrResult > 0 {
		c.Bytes += uint64(bytesOrResult)
	}
}

// RecordEngineFailure increments only Errors: the engine submission
// failed, but the native call still proceeds and is recorded separately
// by the caller's own Record call.
func (r *Registry) RecordEngineFailure(category Category, op string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{category, op}
	c, ok := r.counters[k]
	if !ok {
		c = &Counter{}
		r.counters[k] = c
	}
	c.Errors++
}

// Entry is one row of a Snapshot.
type Entry struct {
	Category Category
	Op       string
	Counter  Counter
}

// Snapshot returns a consistent copy of every counter, sorted by
// category then operation name for stable output.
func (r *Registry) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, 0, len(r.counters))
	for k, c := range r.counters {
		out = append(out, Entry{Category: k.category, Op: k.op, Counter: *c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Op < out[j].Op
	})
	return out
}

// RenderMode selects the text layout for Render.
type RenderMode int

const (
	Table RenderMode = iota
	Lines
)

// Render writes a human-readable teardown report. Table mode produces
// tab-aligned columns (via text/tabwriter); Lines mode produces one
// "category.op key=value ..." line per entry, which is easier to grep or
// diff in CI logs.
func (r *Registry) Render(w io.Writer, mode RenderMode) error {
	entries := r.Snapshot()

	if mode == Lines {
		for _, e := range entries {
			fmt.Fprintf(w, "%s.%s ops=%d bytes=%d errors=%d bypasses=%d\n",
				e.Category, e.Op, e.Counter.Ops, e.Counter.Bytes, e.Counter.Errors, e.Counter.Bypasses)
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join([]string{"CATEGORY", "OP", "OPS", "BYTES", "ERRORS", "BYPASSES"}, "\t"))
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n",
			e.Category, e.Op, e.Counter.Ops, e.Counter.Bytes, e.Counter.Errors, e.Counter.Bypasses)
	}
	return tw.Flush()
}

var categoryByName = map[string]Category{
	"metadata":  Metadata,
	"data":      Data,
	"directory": Directory,
	"xattr":     Xattr,
	"special":   Special,
}

// Load reconstructs a Registry from a report written by Render in Lines
// mode ("category.op ops=.. bytes=.. errors=.. bypasses=.."). It is the
// counterpart cmd/padllstats uses to re-render a teardown report in a
// different mode than it was written in.
func Load(r io.Reader) (*Registry, error) {
	reg := New()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 5 {
			return nil, fmt.Errorf("malformed line %q", line)
		}
		catOp := strings.SplitN(fields[0], ".", 2)
		if len(catOp) != 2 {
			return nil, fmt.Errorf("malformed category.op %q", fields[0])
		}
		cat, ok := categoryByName[catOp[0]]
		if !ok {
			return nil, fmt.Errorf("unknown category %q", catOp[0])
		}
		op := catOp[1]

		c := &Counter{}
		for _, kv := range fields[1:] {
			parts := strings.SplitN(kv, "=", 2)
			if len(parts) != 2 {
				return nil, fmt.Errorf("malformed field %q", kv)
			}
			v, err := strconv.ParseUint(parts[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing %q: %w", kv, err)
			}
			switch parts[0] {
			case "ops":
				c.Ops = v
			case "bytes":
				c.Bytes = v
			case "errors":
				c.Errors = v
			case "bypasses":
				c.Bypasses = v
			default:
				return nil, fmt.Errorf("unknown field %q", parts[0])
			}
		}
		reg.counters[key{cat, op}] = c
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return reg, nil
}
